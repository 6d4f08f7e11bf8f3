package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sngm3741/catering-admin/api/internal/menu/domain"
)

// memStore is an in-memory implementation of every port used by the services.
// WithinTransaction snapshots state and restores it when fn fails.
type memStore struct {
	mu        sync.Mutex
	seq       int
	menus     map[string]domain.Menu
	slots     map[string]domain.DaySlot
	responses map[string]domain.Response
	employees map[string]domain.Employee

	menuCreates    int
	failSlotCreate error
	// hideFinds makes the next N FindByKey calls miss, as if another process
	// inserted the menu right after we looked.
	hideFinds int
}

func newMemStore() *memStore {
	return &memStore{
		menus:     make(map[string]domain.Menu),
		slots:     make(map[string]domain.DaySlot),
		responses: make(map[string]domain.Response),
		employees: make(map[string]domain.Employee),
	}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func (m *memStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	menus := cloneMap(m.menus)
	slots := cloneMap(m.slots)
	responses := cloneMap(m.responses)
	m.mu.Unlock()

	if err := fn(ctx); err != nil {
		m.mu.Lock()
		m.menus, m.slots, m.responses = menus, slots, responses
		m.mu.Unlock()
		return err
	}
	return nil
}

func cloneMap[V any](in map[string]V) map[string]V {
	out := make(map[string]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// menus

func (m *memStore) FindByKey(_ context.Context, key domain.MenuKey) (*domain.Menu, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hideFinds > 0 {
		m.hideFinds--
		return nil, domain.ErrNotFound
	}
	for _, menu := range m.menus {
		if menu.Key() == key {
			found := menu
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memStore) FindByID(_ context.Context, id string) (*domain.Menu, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	menu, ok := m.menus[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &menu, nil
}

func (m *memStore) Create(_ context.Context, menu *domain.Menu) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.menus {
		if existing.Key() == menu.Key() {
			return domain.ErrDuplicateMenu
		}
	}
	menu.ID = m.nextID("menu")
	stored := *menu
	stored.DaySlots = nil
	m.menus[menu.ID] = stored
	m.menuCreates++
	return nil
}

func (m *memStore) Update(_ context.Context, menu *domain.Menu) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.menus[menu.ID]; !ok {
		return domain.ErrNotFound
	}
	stored := *menu
	stored.DaySlots = nil
	m.menus[menu.ID] = stored
	return nil
}

func (m *memStore) menuCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.menus)
}

func (m *memStore) putMenu(menu domain.Menu, slots ...domain.DaySlot) domain.Menu {
	m.mu.Lock()
	defer m.mu.Unlock()
	menu.ID = m.nextID("menu")
	m.menus[menu.ID] = menu
	for _, slot := range slots {
		slot.ID = m.nextID("slot")
		slot.MenuID = menu.ID
		m.slots[slot.ID] = slot
	}
	return menu
}

// day-slots

type memSlots struct{ *memStore }

func (s memSlots) Create(_ context.Context, slots []domain.DaySlot) ([]domain.DaySlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSlotCreate != nil {
		return nil, s.failSlotCreate
	}
	created := make([]domain.DaySlot, 0, len(slots))
	for _, slot := range slots {
		slot.ID = s.nextID("slot")
		s.slots[slot.ID] = slot
		created = append(created, slot)
	}
	return created, nil
}

func (s memSlots) FindByID(_ context.Context, id string) (*domain.DaySlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.slots[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &slot, nil
}

func (s memSlots) ListByMenu(_ context.Context, menuID string) ([]domain.DaySlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]domain.DaySlot, 0)
	for _, slot := range s.slots {
		if slot.MenuID == menuID {
			result = append(result, slot)
		}
	}
	return result, nil
}

func (s memSlots) Update(_ context.Context, slot *domain.DaySlot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.slots[slot.ID]; !ok {
		return domain.ErrNotFound
	}
	s.slots[slot.ID] = *slot
	return nil
}

func (m *memStore) slotsOf(menuID string) []domain.DaySlot {
	slots, _ := memSlots{m}.ListByMenu(context.Background(), menuID)
	domain.SortDaySlots(slots)
	return slots
}

// responses

type memResponses struct{ *memStore }

func (r memResponses) FindByEmployeeAndSlot(_ context.Context, employeeID, daySlotID string) (*domain.Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, response := range r.responses {
		if response.EmployeeID == employeeID && response.DaySlotID == daySlotID {
			found := response
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r memResponses) Create(_ context.Context, response *domain.Response) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.responses {
		if existing.EmployeeID == response.EmployeeID && existing.DaySlotID == response.DaySlotID {
			return domain.ErrDuplicateResponse
		}
	}
	response.ID = r.nextID("resp")
	r.responses[response.ID] = *response
	return nil
}

func (r memResponses) Update(_ context.Context, response *domain.Response) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses[response.ID] = *response
	return nil
}

func (r memResponses) ListBySlots(_ context.Context, daySlotIDs []string) ([]domain.Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wanted := make(map[string]struct{}, len(daySlotIDs))
	for _, id := range daySlotIDs {
		wanted[id] = struct{}{}
	}
	result := make([]domain.Response, 0)
	for _, response := range r.responses {
		if _, ok := wanted[response.DaySlotID]; ok {
			result = append(result, response)
		}
	}
	return result, nil
}

func (r memResponses) ListByEmployee(ctx context.Context, employeeID string, daySlotIDs []string) ([]domain.Response, error) {
	all, err := r.ListBySlots(ctx, daySlotIDs)
	if err != nil {
		return nil, err
	}
	result := make([]domain.Response, 0, len(all))
	for _, response := range all {
		if response.EmployeeID == employeeID {
			result = append(result, response)
		}
	}
	return result, nil
}

func (m *memStore) responseCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.responses)
}

// employees

type memEmployees struct{ *memStore }

func (e memEmployees) FindByID(_ context.Context, id string) (*domain.Employee, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	employee, ok := e.employees[id]
	if !ok {
		return nil, fmt.Errorf("employee %s: %w", id, domain.ErrNotFound)
	}
	return &employee, nil
}

type fixedRange struct{ start, end time.Time }

func (f fixedRange) NextWeek(context.Context) (time.Time, time.Time) {
	return f.start, f.end
}

type countingRecorder struct {
	mu        sync.Mutex
	created   map[domain.ScopeKind]int
	conflicts int
	recorded  map[domain.Selection]int
	rejected  map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{
		created:  make(map[domain.ScopeKind]int),
		recorded: make(map[domain.Selection]int),
		rejected: make(map[string]int),
	}
}

func (c *countingRecorder) MenuCreated(scope domain.ScopeKind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.created[scope]++
}

func (c *countingRecorder) MenuCreateConflict() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conflicts++
}

func (c *countingRecorder) SelectionRecorded(letter domain.Selection, _ bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recorded[letter]++
}

func (c *countingRecorder) SelectionRejected(reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rejected[reason]++
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type menuFixture struct {
	store    *memStore
	recorder *countingRecorder
	svc      MenuService
}

func newMenuFixture() menuFixture {
	store := newMemStore()
	recorder := newCountingRecorder()
	svc := NewMenuService(MenuDependencies{
		Menus:     store,
		DaySlots:  memSlots{store},
		Responses: memResponses{store},
		Employees: memEmployees{store},
		Tx:        store,
		Dates:     fixedRange{start: date(2024, time.June, 3), end: date(2024, time.June, 7)},
		Recorder:  recorder,
		Now:       func() time.Time { return date(2024, time.May, 30) },
	})
	return menuFixture{store: store, recorder: recorder, svc: svc}
}

// gatedMenus blocks Create until release is closed and fails it when the
// context it was handed is already done.
type gatedMenus struct {
	*memStore
	entered chan struct{}
	release chan struct{}
}

func newGatedMenus(store *memStore) *gatedMenus {
	return &gatedMenus{memStore: store, entered: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedMenus) Create(ctx context.Context, menu *domain.Menu) error {
	close(g.entered)
	<-g.release
	if err := ctx.Err(); err != nil {
		return err
	}
	return g.memStore.Create(ctx, menu)
}
