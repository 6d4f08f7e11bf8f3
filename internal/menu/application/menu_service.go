package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/sngm3741/catering-admin/api/internal/menu/domain"
	"golang.org/x/sync/singleflight"
)

// MenuDependencies wires the ports MenuService needs.
type MenuDependencies struct {
	Menus     MenuRepository
	DaySlots  DaySlotRepository
	Responses ResponseRepository
	Employees EmployeeRepository
	Tx        Transactor
	Dates     DateRangeProvider
	Recorder  Recorder
	Logger    *log.Logger
	Now       func() time.Time
}

type menuService struct {
	menus     MenuRepository
	daySlots  DaySlotRepository
	responses ResponseRepository
	employees EmployeeRepository
	tx        Transactor
	dates     DateRangeProvider
	recorder  Recorder
	logger    *log.Logger
	now       func() time.Time
	creating  singleflight.Group
}

func NewMenuService(deps MenuDependencies) MenuService {
	svc := &menuService{
		menus:     deps.Menus,
		daySlots:  deps.DaySlots,
		responses: deps.Responses,
		employees: deps.Employees,
		tx:        deps.Tx,
		dates:     deps.Dates,
		recorder:  deps.Recorder,
		logger:    deps.Logger,
		now:       deps.Now,
	}
	if svc.recorder == nil {
		svc.recorder = NopRecorder()
	}
	if svc.logger == nil {
		svc.logger = log.New(log.Writer(), "", log.LstdFlags)
	}
	if svc.now == nil {
		svc.now = func() time.Time { return time.Now().UTC() }
	}
	if svc.dates == nil {
		svc.dates = NewClockRangeProvider(svc.now, time.UTC)
	}
	return svc
}

func (s *menuService) GetOrCreateMenu(ctx context.Context, start, end time.Time, companyID, branchID string) (*domain.Menu, error) {
	scope := domain.ScopeFor(companyID, branchID)
	if scope.IsZero() {
		return nil, domain.ErrScopeRequired
	}
	key, err := domain.NewMenuKey(start, end, scope)
	if err != nil {
		return nil, err
	}
	return s.getOrCreate(ctx, key)
}

func (s *menuService) FindMenu(ctx context.Context, start, end time.Time, companyID, branchID string) (*domain.Menu, error) {
	scope := domain.ScopeFor(companyID, branchID)
	if scope.IsZero() {
		return nil, nil
	}
	key, err := domain.NewMenuKey(start, end, scope)
	if err != nil {
		return nil, err
	}
	menu, err := s.findByKey(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return menu, err
}

// GetEffectiveMenu prefers a branch menu with at least one configured day,
// then the company menu, and creates the company menu as a last resort.
func (s *menuService) GetEffectiveMenu(ctx context.Context, start, end time.Time, companyID, branchID string) (*domain.Menu, error) {
	menu, err := s.FindEffectiveMenu(ctx, start, end, companyID, branchID)
	if err != nil || menu != nil {
		return menu, err
	}
	return s.GetOrCreateMenu(ctx, start, end, companyID, "")
}

// FindEffectiveMenu applies the same branch then company preference as
// GetEffectiveMenu but never creates; it returns nil when neither exists.
func (s *menuService) FindEffectiveMenu(ctx context.Context, start, end time.Time, companyID, branchID string) (*domain.Menu, error) {
	if strings.TrimSpace(branchID) != "" {
		branchMenu, err := s.FindMenu(ctx, start, end, "", branchID)
		if err != nil {
			return nil, err
		}
		if branchMenu != nil && branchMenu.HasConfiguredDay() {
			return branchMenu, nil
		}
	}

	if strings.TrimSpace(companyID) != "" {
		companyMenu, err := s.FindMenu(ctx, start, end, companyID, "")
		if err != nil {
			return nil, err
		}
		if companyMenu != nil {
			return companyMenu, nil
		}
	}
	return nil, nil
}

func (s *menuService) GetOrCreateNextWeekMenu(ctx context.Context, companyID, branchID string) (*domain.Menu, error) {
	start, end := s.dates.NextWeek(ctx)
	return s.GetOrCreateMenu(ctx, start, end, companyID, branchID)
}

func (s *menuService) GetEffectiveNextWeekMenu(ctx context.Context, companyID, branchID string) (*domain.Menu, error) {
	start, end := s.dates.NextWeek(ctx)
	return s.GetEffectiveMenu(ctx, start, end, companyID, branchID)
}

func (s *menuService) FindEffectiveNextWeekMenu(ctx context.Context, companyID, branchID string) (*domain.Menu, error) {
	start, end := s.dates.NextWeek(ctx)
	return s.FindEffectiveMenu(ctx, start, end, companyID, branchID)
}

// GetOrCreateUnscopedMenu keys the menu by date range only. Kept for the
// oldest call sites; new code should resolve with a scope.
func (s *menuService) GetOrCreateUnscopedMenu(ctx context.Context, start, end time.Time) (*domain.Menu, error) {
	key, err := domain.NewMenuKey(start, end, domain.UnscopedScope())
	if err != nil {
		return nil, err
	}
	return s.getOrCreate(ctx, key)
}

func (s *menuService) GetEffectiveMenuForEmployee(ctx context.Context, employeeID string) (*domain.Menu, error) {
	employee, err := s.loadEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return s.GetEffectiveNextWeekMenu(ctx, employee.CompanyID, employee.BranchID)
}

// ListOptionsForEmployee uses the unscoped next-week menu; the employee's
// company and branch are not consulted.
func (s *menuService) ListOptionsForEmployee(ctx context.Context, employeeID string) ([]domain.DaySlot, error) {
	start, end := s.dates.NextWeek(ctx)
	menu, err := s.GetOrCreateUnscopedMenu(ctx, start, end)
	if err != nil {
		return nil, err
	}
	slots, err := s.daySlots.ListByMenu(ctx, menu.ID)
	if err != nil {
		return nil, err
	}
	domain.SortDaySlots(slots)
	return slots, nil
}

func (s *menuService) ListEffectiveOptionsForEmployee(ctx context.Context, employeeID string) (*EmployeeMenu, error) {
	employee, err := s.loadEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	menu, err := s.GetEffectiveNextWeekMenu(ctx, employee.CompanyID, employee.BranchID)
	if err != nil {
		return nil, err
	}

	slotIDs := make([]string, 0, len(menu.DaySlots))
	for _, slot := range menu.DaySlots {
		slotIDs = append(slotIDs, slot.ID)
	}
	selections := make(map[string]domain.Selection, len(slotIDs))
	if len(slotIDs) > 0 && s.responses != nil {
		responses, err := s.responses.ListByEmployee(ctx, employee.ID, slotIDs)
		if err != nil {
			return nil, err
		}
		for _, response := range responses {
			selections[response.DaySlotID] = response.Selection
		}
	}

	return &EmployeeMenu{Employee: *employee, Menu: menu, Selections: selections}, nil
}

func (s *menuService) loadEmployee(ctx context.Context, employeeID string) (*domain.Employee, error) {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return nil, fmt.Errorf("%w: employee id is required", domain.ErrInvalidArgument)
	}
	return s.employees.FindByID(ctx, employeeID)
}

// createTimeout bounds a shared menu creation once it is detached from the
// caller that started it.
const createTimeout = 10 * time.Second

// getOrCreate returns the menu for key, creating it with its day-slots when absent.
// Concurrent callers for the same key share one creation. The creation runs on
// a context detached from the first caller, so a cancelled leader does not
// fail the callers waiting on the same key.
func (s *menuService) getOrCreate(ctx context.Context, key domain.MenuKey) (*domain.Menu, error) {
	menu, err := s.findByKey(ctx, key)
	if err == nil {
		return menu, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	result, err, _ := s.creating.Do(key.String(), func() (any, error) {
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), createTimeout)
		defer cancel()
		return s.create(flightCtx, key)
	})
	if err != nil {
		return nil, err
	}
	return result.(*domain.Menu).Clone(), nil
}

func (s *menuService) create(ctx context.Context, key domain.MenuKey) (*domain.Menu, error) {
	// another flight for the same key may have finished between the first read and now
	if existing, err := s.findByKey(ctx, key); err == nil {
		return existing, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	menu := domain.NewMenu(key, s.now())
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.menus.Create(txCtx, menu); err != nil {
			return err
		}
		slots, err := s.daySlots.Create(txCtx, domain.ScaffoldDaySlots(menu.ID))
		if err != nil {
			return fmt.Errorf("scaffold day-slots menu=%s: %w", menu.ID, err)
		}
		menu.DaySlots = slots
		return nil
	})
	if errors.Is(err, domain.ErrDuplicateMenu) {
		s.recorder.MenuCreateConflict()
		s.logger.Printf("menu create conflict key=%s, reloading existing menu", key)
		return s.findByKey(ctx, key)
	}
	if err != nil {
		return nil, err
	}

	s.recorder.MenuCreated(key.Scope.Kind())
	s.logger.Printf("menu created id=%s key=%s", menu.ID, key)
	return menu, nil
}

func (s *menuService) findByKey(ctx context.Context, key domain.MenuKey) (*domain.Menu, error) {
	menu, err := s.menus.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	slots, err := s.daySlots.ListByMenu(ctx, menu.ID)
	if err != nil {
		return nil, err
	}
	domain.SortDaySlots(slots)
	menu.DaySlots = slots
	return menu, nil
}
