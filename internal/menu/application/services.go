package application

import (
	"context"
	"time"

	"github.com/sngm3741/catering-admin/api/internal/menu/domain"
)

// MenuRepository persists weekly menus.
// MenuRepository はメニュー集約を (期間, スコープ) で検索・保存するためのポート。
type MenuRepository interface {
	FindByKey(ctx context.Context, key domain.MenuKey) (*domain.Menu, error)
	FindByID(ctx context.Context, id string) (*domain.Menu, error)
	// Create assigns menu.ID. It returns domain.ErrDuplicateMenu when the key is taken.
	Create(ctx context.Context, menu *domain.Menu) error
	Update(ctx context.Context, menu *domain.Menu) error
}

// DaySlotRepository persists the per-weekday option slots of a menu.
type DaySlotRepository interface {
	// Create inserts slots and returns them with IDs assigned.
	Create(ctx context.Context, slots []domain.DaySlot) ([]domain.DaySlot, error)
	FindByID(ctx context.Context, id string) (*domain.DaySlot, error)
	ListByMenu(ctx context.Context, menuID string) ([]domain.DaySlot, error)
	Update(ctx context.Context, slot *domain.DaySlot) error
}

// ResponseRepository persists employee selections.
type ResponseRepository interface {
	FindByEmployeeAndSlot(ctx context.Context, employeeID, daySlotID string) (*domain.Response, error)
	// Create returns domain.ErrDuplicateResponse when the pair already has a response.
	Create(ctx context.Context, response *domain.Response) error
	Update(ctx context.Context, response *domain.Response) error
	ListBySlots(ctx context.Context, daySlotIDs []string) ([]domain.Response, error)
	ListByEmployee(ctx context.Context, employeeID string, daySlotIDs []string) ([]domain.Response, error)
}

// EmployeeRepository reads employees.
type EmployeeRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Employee, error)
}

// Transactor is the unit of work. Writes made through the ctx passed to fn
// are committed when fn returns nil and discarded otherwise.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// DateRangeProvider yields the canonical upcoming week.
type DateRangeProvider interface {
	NextWeek(ctx context.Context) (time.Time, time.Time)
}

// Recorder receives domain events for metrics.
type Recorder interface {
	MenuCreated(scope domain.ScopeKind)
	MenuCreateConflict()
	SelectionRecorded(letter domain.Selection, created bool)
	SelectionRejected(reason string)
}

// MenuService resolves and scaffolds weekly menus.
// MenuService は週次メニューの解決 (会社/支店スコープ) と曜日スロット生成を担うユースケース。
type MenuService interface {
	GetOrCreateMenu(ctx context.Context, start, end time.Time, companyID, branchID string) (*domain.Menu, error)
	FindMenu(ctx context.Context, start, end time.Time, companyID, branchID string) (*domain.Menu, error)
	GetEffectiveMenu(ctx context.Context, start, end time.Time, companyID, branchID string) (*domain.Menu, error)
	FindEffectiveMenu(ctx context.Context, start, end time.Time, companyID, branchID string) (*domain.Menu, error)
	GetOrCreateNextWeekMenu(ctx context.Context, companyID, branchID string) (*domain.Menu, error)
	GetEffectiveNextWeekMenu(ctx context.Context, companyID, branchID string) (*domain.Menu, error)
	FindEffectiveNextWeekMenu(ctx context.Context, companyID, branchID string) (*domain.Menu, error)
	GetOrCreateUnscopedMenu(ctx context.Context, start, end time.Time) (*domain.Menu, error)
	GetEffectiveMenuForEmployee(ctx context.Context, employeeID string) (*domain.Menu, error)
	ListOptionsForEmployee(ctx context.Context, employeeID string) ([]domain.DaySlot, error)
	ListEffectiveOptionsForEmployee(ctx context.Context, employeeID string) (*EmployeeMenu, error)
}

// SelectionService records employee choices.
type SelectionService interface {
	RegisterSelection(ctx context.Context, cmd RegisterSelectionCommand) (*SelectionResult, error)
}

// RegisterSelectionCommand carries one employee's choice for one day-slot.
// A nil Alphabet falls back to the service policy.
type RegisterSelectionCommand struct {
	EmployeeID string
	DaySlotID  string
	Choice     string
	Alphabet   domain.Alphabet
}

// SelectionResult reports the stored response and whether it was new.
type SelectionResult struct {
	Response domain.Response
	Created  bool
}

// SelectionPolicy configures the checks applied before a selection is stored.
type SelectionPolicy struct {
	Alphabet       domain.Alphabet
	RequireOffered bool
	RejectClosed   bool
}

// EmployeeMenu is the effective menu of an employee with their current choices keyed by day-slot.
type EmployeeMenu struct {
	Employee   domain.Employee
	Menu       *domain.Menu
	Selections map[string]domain.Selection
}

type nopRecorder struct{}

func (nopRecorder) MenuCreated(domain.ScopeKind) {}
func (nopRecorder) MenuCreateConflict() {}
func (nopRecorder) SelectionRecorded(domain.Selection, bool) {}
func (nopRecorder) SelectionRejected(string) {}

// NopRecorder discards all events.
func NopRecorder() Recorder {
	return nopRecorder{}
}
