package application

import (
	"context"
	"time"

	admindomain "github.com/sngm3741/catering-admin/api/internal/admin/domain"
	menuapp "github.com/sngm3741/catering-admin/api/internal/menu/application"
	menudomain "github.com/sngm3741/catering-admin/api/internal/menu/domain"
)

// MenuRepository exposes admin operations on menus.
type MenuRepository interface {
	Find(ctx context.Context, filter MenuFilter, paging Paging) ([]menudomain.Menu, error)
	FindByID(ctx context.Context, id string) (*menudomain.Menu, error)
	Update(ctx context.Context, menu *menudomain.Menu) error
}

// MenuFilter expresses admin search criteria.
type MenuFilter struct {
	CompanyID string
	BranchID  string
	// From/To select menus overlapping the range. Zero values are open ends.
	From time.Time
	To   time.Time
}

// Paging controls pagination.
type Paging struct {
	Page  int
	Limit int
}

// MenuAdminService describes admin menu use-cases.
type MenuAdminService interface {
	List(ctx context.Context, filter MenuFilter, paging Paging) ([]menudomain.Menu, error)
	Detail(ctx context.Context, id string) (*menudomain.Menu, error)
	ConfigureDaySlot(ctx context.Context, slotID string, cmd ConfigureDaySlotCommand) (*menudomain.DaySlot, error)
	CloseSurvey(ctx context.Context, menuID string, at time.Time) (*menudomain.Menu, error)
	ReopenSurvey(ctx context.Context, menuID string) (*menudomain.Menu, error)
	AddAddOn(ctx context.Context, menuID string, cmd AddOnCommand) (*menudomain.Menu, error)
	RemoveAddOn(ctx context.Context, menuID, addOnID string) (*menudomain.Menu, error)
	SelectionSummary(ctx context.Context, menuID string) (*admindomain.SelectionSummary, error)
	RegisterSelectionOnBehalf(ctx context.Context, cmd menuapp.RegisterSelectionCommand) (*menuapp.SelectionResult, error)
}

// ConfigureDaySlotCommand replaces the option references of a day-slot.
// Options[i] is the option for letter i (A..E); missing entries are unset.
type ConfigureDaySlotCommand struct {
	Options    []string
	MaxOptions *int
	ScheduleID *string
}

// AddOnCommand contains inputs for a new fixed add-on.
type AddOnCommand struct {
	Name  string
	Price int
}
