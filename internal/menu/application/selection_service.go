package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/sngm3741/catering-admin/api/internal/menu/domain"
)

// SelectionDependencies wires the ports SelectionService needs.
type SelectionDependencies struct {
	Menus     MenuRepository
	DaySlots  DaySlotRepository
	Responses ResponseRepository
	Tx        Transactor
	Policy    SelectionPolicy
	Recorder  Recorder
	Logger    *log.Logger
	Now       func() time.Time
}

type selectionService struct {
	menus     MenuRepository
	daySlots  DaySlotRepository
	responses ResponseRepository
	tx        Transactor
	policy    SelectionPolicy
	recorder  Recorder
	logger    *log.Logger
	now       func() time.Time
}

func NewSelectionService(deps SelectionDependencies) SelectionService {
	svc := &selectionService{
		menus:     deps.Menus,
		daySlots:  deps.DaySlots,
		responses: deps.Responses,
		tx:        deps.Tx,
		policy:    deps.Policy,
		recorder:  deps.Recorder,
		logger:    deps.Logger,
		now:       deps.Now,
	}
	if len(svc.policy.Alphabet) == 0 {
		svc.policy.Alphabet = domain.CoreAlphabet
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
	return svc
}

// RegisterSelection validates the choice and upserts the employee's response
// for the day-slot. The last write wins and no history is kept.
func (s *selectionService) RegisterSelection(ctx context.Context, cmd RegisterSelectionCommand) (*SelectionResult, error) {
	employeeID := strings.TrimSpace(cmd.EmployeeID)
	slotID := strings.TrimSpace(cmd.DaySlotID)
	if employeeID == "" || slotID == "" {
		s.recorder.SelectionRejected("missing_id")
		return nil, fmt.Errorf("%w: employee and day-slot are required", domain.ErrInvalidArgument)
	}

	alphabet := cmd.Alphabet
	if len(alphabet) == 0 {
		alphabet = s.policy.Alphabet
	}
	letter, err := alphabet.Parse(cmd.Choice)
	if err != nil {
		s.recorder.SelectionRejected("alphabet")
		return nil, err
	}

	if err := s.checkPolicy(ctx, slotID, letter); err != nil {
		return nil, err
	}

	var result *SelectionResult
	attempt := func() error {
		return s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
			res, err := s.upsert(txCtx, employeeID, slotID, letter)
			if err != nil {
				return err
			}
			result = res
			return nil
		})
	}
	err = attempt()
	if errors.Is(err, domain.ErrDuplicateResponse) {
		// a concurrent first submission won the insert; the retry overwrites it
		err = attempt()
	}
	if err != nil {
		return nil, err
	}

	s.recorder.SelectionRecorded(letter, result.Created)
	return result, nil
}

func (s *selectionService) upsert(ctx context.Context, employeeID, slotID string, letter domain.Selection) (*SelectionResult, error) {
	now := s.now()
	existing, err := s.responses.FindByEmployeeAndSlot(ctx, employeeID, slotID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		response := &domain.Response{
			EmployeeID: employeeID,
			DaySlotID:  slotID,
			Selection:  letter,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.responses.Create(ctx, response); err != nil {
			return nil, err
		}
		return &SelectionResult{Response: *response, Created: true}, nil
	case err != nil:
		return nil, err
	}

	existing.Selection = letter
	existing.UpdatedAt = now
	if err := s.responses.Update(ctx, existing); err != nil {
		return nil, err
	}
	return &SelectionResult{Response: *existing, Created: false}, nil
}

func (s *selectionService) checkPolicy(ctx context.Context, slotID string, letter domain.Selection) error {
	if !s.policy.RequireOffered && !s.policy.RejectClosed {
		return nil
	}

	slot, err := s.daySlots.FindByID(ctx, slotID)
	if err != nil {
		return err
	}
	if s.policy.RequireOffered && !slot.Offers(letter) {
		s.recorder.SelectionRejected("not_offered")
		return fmt.Errorf("%w: slot=%s letter=%s", domain.ErrOptionNotOffered, slotID, letter)
	}
	if s.policy.RejectClosed {
		menu, err := s.menus.FindByID(ctx, slot.MenuID)
		if err != nil {
			return err
		}
		if !menu.SurveyOpen() {
			s.recorder.SelectionRejected("closed")
			return fmt.Errorf("menu %s: %w", menu.ID, domain.ErrSurveyClosed)
		}
	}
	return nil
}
