package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	admindomain "github.com/sngm3741/catering-admin/api/internal/admin/domain"
	menuapp "github.com/sngm3741/catering-admin/api/internal/menu/application"
	menudomain "github.com/sngm3741/catering-admin/api/internal/menu/domain"
)

// Dependencies wires the ports used by the admin menu service.
type Dependencies struct {
	Menus      MenuRepository
	DaySlots   menuapp.DaySlotRepository
	Responses  menuapp.ResponseRepository
	Tx         menuapp.Transactor
	Selections menuapp.SelectionService
	Now        func() time.Time
	NewID      func() string
}

// menuAdminService implements MenuAdminService.
type menuAdminService struct {
	menus      MenuRepository
	daySlots   menuapp.DaySlotRepository
	responses  menuapp.ResponseRepository
	tx         menuapp.Transactor
	selections menuapp.SelectionService
	now        func() time.Time
	newID      func() string
}

func NewMenuAdminService(deps Dependencies) MenuAdminService {
	svc := &menuAdminService{
		menus:      deps.Menus,
		daySlots:   deps.DaySlots,
		responses:  deps.Responses,
		tx:         deps.Tx,
		selections: deps.Selections,
		now:        deps.Now,
		newID:      deps.NewID,
	}
	if svc.now == nil {
		svc.now = func() time.Time { return time.Now().UTC() }
	}
	if svc.newID == nil {
		svc.newID = uuid.NewString
	}
	return svc
}

func (s *menuAdminService) List(ctx context.Context, filter MenuFilter, paging Paging) ([]menudomain.Menu, error) {
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.From.After(filter.To) {
		return nil, menudomain.ErrInvalidRange
	}
	return s.menus.Find(ctx, filter, paging)
}

func (s *menuAdminService) Detail(ctx context.Context, id string) (*menudomain.Menu, error) {
	menu, err := s.menus.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	slots, err := s.daySlots.ListByMenu(ctx, menu.ID)
	if err != nil {
		return nil, err
	}
	menudomain.SortDaySlots(slots)
	menu.DaySlots = slots
	return menu, nil
}

func (s *menuAdminService) ConfigureDaySlot(ctx context.Context, slotID string, cmd ConfigureDaySlotCommand) (*menudomain.DaySlot, error) {
	options, err := admindomain.NewOptionIDList(cmd.Options, menudomain.OptionSlots)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", menudomain.ErrInvalidDaySlot, err)
	}
	if cmd.MaxOptions != nil {
		if err := menudomain.ValidateMaxOptions(*cmd.MaxOptions); err != nil {
			return nil, err
		}
	}

	var updated *menudomain.DaySlot
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		slot, err := s.daySlots.FindByID(txCtx, slotID)
		if err != nil {
			return err
		}
		slot.Options = [menudomain.OptionSlots]string{}
		for i, id := range options {
			slot.Options[i] = id.String()
		}
		if cmd.MaxOptions != nil {
			slot.MaxOptions = *cmd.MaxOptions
		}
		if cmd.ScheduleID != nil {
			slot.ScheduleID = strings.TrimSpace(*cmd.ScheduleID)
		}
		if err := s.daySlots.Update(txCtx, slot); err != nil {
			return err
		}
		updated = slot
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *menuAdminService) CloseSurvey(ctx context.Context, menuID string, at time.Time) (*menudomain.Menu, error) {
	if at.IsZero() {
		at = s.now()
	}
	return s.mutate(ctx, menuID, func(menu *menudomain.Menu) error {
		menu.Close(at)
		return nil
	})
}

func (s *menuAdminService) ReopenSurvey(ctx context.Context, menuID string) (*menudomain.Menu, error) {
	return s.mutate(ctx, menuID, func(menu *menudomain.Menu) error {
		if !menu.ClosedManually {
			return fmt.Errorf("%w: menu survey is not closed", menudomain.ErrInvalidArgument)
		}
		menu.Reopen(s.now())
		return nil
	})
}

func (s *menuAdminService) AddAddOn(ctx context.Context, menuID string, cmd AddOnCommand) (*menudomain.Menu, error) {
	name, err := admindomain.NewName(cmd.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", menudomain.ErrInvalidArgument, err)
	}
	price, err := admindomain.NewMoney(cmd.Price)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", menudomain.ErrInvalidArgument, err)
	}
	return s.mutate(ctx, menuID, func(menu *menudomain.Menu) error {
		return menu.AddAddOn(menudomain.AddOn{ID: s.newID(), Name: name.String(), Price: price.Int()})
	})
}

func (s *menuAdminService) RemoveAddOn(ctx context.Context, menuID, addOnID string) (*menudomain.Menu, error) {
	return s.mutate(ctx, menuID, func(menu *menudomain.Menu) error {
		return menu.RemoveAddOn(strings.TrimSpace(addOnID))
	})
}

func (s *menuAdminService) SelectionSummary(ctx context.Context, menuID string) (*admindomain.SelectionSummary, error) {
	menu, err := s.Detail(ctx, menuID)
	if err != nil {
		return nil, err
	}
	slotIDs := make([]string, 0, len(menu.DaySlots))
	for _, slot := range menu.DaySlots {
		slotIDs = append(slotIDs, slot.ID)
	}
	responses, err := s.responses.ListBySlots(ctx, slotIDs)
	if err != nil {
		return nil, err
	}
	summary := admindomain.Summarize(menu, responses)
	return &summary, nil
}

// RegisterSelectionOnBehalf records a choice for an employee with the full A..E alphabet.
func (s *menuAdminService) RegisterSelectionOnBehalf(ctx context.Context, cmd menuapp.RegisterSelectionCommand) (*menuapp.SelectionResult, error) {
	if len(cmd.Alphabet) == 0 {
		cmd.Alphabet = menudomain.FullAlphabet
	}
	return s.selections.RegisterSelection(ctx, cmd)
}

func (s *menuAdminService) mutate(ctx context.Context, menuID string, apply func(menu *menudomain.Menu) error) (*menudomain.Menu, error) {
	var updated *menudomain.Menu
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		menu, err := s.menus.FindByID(txCtx, menuID)
		if err != nil {
			return err
		}
		if err := apply(menu); err != nil {
			return err
		}
		menu.UpdatedAt = s.now()
		if err := s.menus.Update(txCtx, menu); err != nil {
			return err
		}
		updated = menu
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
