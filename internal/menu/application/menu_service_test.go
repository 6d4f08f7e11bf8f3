package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sngm3741/catering-admin/api/internal/menu/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configuredSlot(day time.Weekday, optionA string) domain.DaySlot {
	slot := domain.DaySlot{Weekday: day, MaxOptions: domain.DefaultMaxOptions}
	slot.Options[0] = optionA
	return slot
}

func emptySlots() []domain.DaySlot {
	return domain.ScaffoldDaySlots("")
}

func TestGetOrCreateMenu(t *testing.T) {
	ctx := context.Background()
	start, end := date(2024, time.June, 3), date(2024, time.June, 7)

	t.Run("creates company menu with five empty day-slots on empty storage", func(t *testing.T) {
		f := newMenuFixture()

		menu, err := f.svc.GetOrCreateMenu(ctx, start, end, "1", "")
		require.NoError(t, err)

		assert.NotEmpty(t, menu.ID)
		assert.Equal(t, start, menu.StartDate)
		assert.Equal(t, end, menu.EndDate)
		assert.Equal(t, "1", menu.Scope.CompanyID())
		assert.Empty(t, menu.Scope.BranchID())
		require.Len(t, menu.DaySlots, 5)
		for i, slot := range menu.DaySlots {
			assert.Equal(t, domain.WorkingDays[i], slot.Weekday)
			assert.Equal(t, menu.ID, slot.MenuID)
			assert.Equal(t, 3, slot.MaxOptions)
			assert.Equal(t, [domain.OptionSlots]string{}, slot.Options)
		}

		stored := f.store.slotsOf(menu.ID)
		assert.Len(t, stored, 5)
		assert.Equal(t, 1, f.recorder.created[domain.ScopeKindCompany])
	})

	t.Run("returns existing branch menu without creating anything", func(t *testing.T) {
		f := newMenuFixture()
		key, err := domain.NewMenuKey(start, end, domain.BranchScope("b-9"))
		require.NoError(t, err)
		existing := f.store.putMenu(*domain.NewMenu(key, start), emptySlots()...)

		menu, err := f.svc.GetOrCreateMenu(ctx, start, end, "1", "b-9")
		require.NoError(t, err)

		assert.Equal(t, existing.ID, menu.ID)
		assert.Equal(t, 0, f.store.menuCreates)
		assert.Equal(t, 1, f.store.menuCount())
	})

	t.Run("second call is a pure read", func(t *testing.T) {
		f := newMenuFixture()

		first, err := f.svc.GetOrCreateMenu(ctx, start, end, "1", "")
		require.NoError(t, err)
		second, err := f.svc.GetOrCreateMenu(ctx, start, end, "1", "")
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, 1, f.store.menuCreates)
		assert.Len(t, f.store.slotsOf(first.ID), 5)
	})

	t.Run("branch wins when both ids are given", func(t *testing.T) {
		f := newMenuFixture()

		menu, err := f.svc.GetOrCreateMenu(ctx, start, end, "1", "b-2")
		require.NoError(t, err)

		assert.Equal(t, domain.ScopeKindBranch, menu.Scope.Kind())
		assert.Equal(t, "b-2", menu.Scope.BranchID())
		assert.Empty(t, menu.Scope.CompanyID())
	})

	t.Run("rejects missing scope", func(t *testing.T) {
		f := newMenuFixture()

		_, err := f.svc.GetOrCreateMenu(ctx, start, end, " ", "")
		assert.ErrorIs(t, err, domain.ErrScopeRequired)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		assert.Equal(t, 0, f.store.menuCount())
	})

	t.Run("rejects inverted range", func(t *testing.T) {
		f := newMenuFixture()

		_, err := f.svc.GetOrCreateMenu(ctx, end, start, "1", "")
		assert.ErrorIs(t, err, domain.ErrInvalidRange)
	})

	t.Run("duplicate key on create reloads the winner", func(t *testing.T) {
		f := newMenuFixture()
		key, err := domain.NewMenuKey(start, end, domain.CompanyScope("1"))
		require.NoError(t, err)
		winner := f.store.putMenu(*domain.NewMenu(key, start), emptySlots()...)
		f.store.hideFinds = 2

		menu, err := f.svc.GetOrCreateMenu(ctx, start, end, "1", "")
		require.NoError(t, err)

		assert.Equal(t, winner.ID, menu.ID)
		assert.Len(t, menu.DaySlots, 5)
		assert.Equal(t, 1, f.store.menuCount())
		assert.Equal(t, 1, f.recorder.conflicts)
	})

	t.Run("failed scaffold rolls back the menu", func(t *testing.T) {
		f := newMenuFixture()
		f.store.failSlotCreate = errors.New("write failed")

		_, err := f.svc.GetOrCreateMenu(ctx, start, end, "1", "")
		require.Error(t, err)
		assert.Equal(t, 0, f.store.menuCount())
	})

	t.Run("concurrent callers share one menu", func(t *testing.T) {
		f := newMenuFixture()

		var wg sync.WaitGroup
		ids := make([]string, 8)
		errs := make([]error, 8)
		for i := range ids {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				menu, err := f.svc.GetOrCreateMenu(ctx, start, end, "1", "")
				errs[i] = err
				if err == nil {
					ids[i] = menu.ID
				}
			}(i)
		}
		wg.Wait()

		for i := range ids {
			require.NoError(t, errs[i])
			assert.Equal(t, ids[0], ids[i])
		}
		assert.Equal(t, 1, f.store.menuCount())
	})

	t.Run("cancelled first caller does not abort the shared creation", func(t *testing.T) {
		store := newMemStore()
		menus := newGatedMenus(store)
		svc := NewMenuService(MenuDependencies{
			Menus:    menus,
			DaySlots: memSlots{store},
			Tx:       store,
			Now:      func() time.Time { return date(2024, time.May, 30) },
		})

		leaderCtx, cancel := context.WithCancel(ctx)
		type outcome struct {
			menu *domain.Menu
			err  error
		}
		done := make(chan outcome, 1)
		go func() {
			menu, err := svc.GetOrCreateMenu(leaderCtx, start, end, "1", "")
			done <- outcome{menu, err}
		}()

		<-menus.entered
		cancel()
		close(menus.release)

		got := <-done
		require.NoError(t, got.err)
		assert.Len(t, got.menu.DaySlots, 5)
		assert.Equal(t, 1, store.menuCount())
	})
}

func TestFindMenu(t *testing.T) {
	ctx := context.Background()
	start, end := date(2024, time.June, 3), date(2024, time.June, 7)

	t.Run("branch lookup does not fall back to company", func(t *testing.T) {
		f := newMenuFixture()
		key, err := domain.NewMenuKey(start, end, domain.CompanyScope("1"))
		require.NoError(t, err)
		f.store.putMenu(*domain.NewMenu(key, start))

		menu, err := f.svc.FindMenu(ctx, start, end, "1", "b-1")
		require.NoError(t, err)
		assert.Nil(t, menu)
	})

	t.Run("missing scope degrades to no menu", func(t *testing.T) {
		f := newMenuFixture()

		menu, err := f.svc.FindMenu(ctx, start, end, "", "")
		require.NoError(t, err)
		assert.Nil(t, menu)
	})

	t.Run("never creates", func(t *testing.T) {
		f := newMenuFixture()

		menu, err := f.svc.FindMenu(ctx, start, end, "1", "")
		require.NoError(t, err)
		assert.Nil(t, menu)
		assert.Equal(t, 0, f.store.menuCount())
	})
}

func TestGetEffectiveMenu(t *testing.T) {
	ctx := context.Background()
	start, end := date(2024, time.June, 3), date(2024, time.June, 7)
	branchKey, _ := domain.NewMenuKey(start, end, domain.BranchScope("b-1"))
	companyKey, _ := domain.NewMenuKey(start, end, domain.CompanyScope("1"))

	t.Run("unconfigured branch menu falls back to company menu", func(t *testing.T) {
		f := newMenuFixture()
		f.store.putMenu(*domain.NewMenu(branchKey, start), emptySlots()...)
		company := f.store.putMenu(*domain.NewMenu(companyKey, start), configuredSlot(time.Monday, "opt-1"))

		menu, err := f.svc.GetEffectiveMenu(ctx, start, end, "1", "b-1")
		require.NoError(t, err)
		assert.Equal(t, company.ID, menu.ID)
	})

	t.Run("configured branch menu wins", func(t *testing.T) {
		f := newMenuFixture()
		branch := f.store.putMenu(*domain.NewMenu(branchKey, start), configuredSlot(time.Wednesday, "opt-7"))
		f.store.putMenu(*domain.NewMenu(companyKey, start), configuredSlot(time.Monday, "opt-1"))

		menu, err := f.svc.GetEffectiveMenu(ctx, start, end, "1", "b-1")
		require.NoError(t, err)
		assert.Equal(t, branch.ID, menu.ID)
	})

	t.Run("only D and E configured does not count", func(t *testing.T) {
		f := newMenuFixture()
		slot := domain.DaySlot{Weekday: time.Monday, MaxOptions: 5}
		slot.Options[3] = "opt-d"
		slot.Options[4] = "opt-e"
		f.store.putMenu(*domain.NewMenu(branchKey, start), slot)
		company := f.store.putMenu(*domain.NewMenu(companyKey, start))

		menu, err := f.svc.GetEffectiveMenu(ctx, start, end, "1", "b-1")
		require.NoError(t, err)
		assert.Equal(t, company.ID, menu.ID)
	})

	t.Run("creates company menu when nothing exists", func(t *testing.T) {
		f := newMenuFixture()

		menu, err := f.svc.GetEffectiveMenu(ctx, start, end, "1", "b-1")
		require.NoError(t, err)
		assert.Equal(t, domain.CompanyScope("1"), menu.Scope)
		assert.Len(t, menu.DaySlots, 5)
		assert.Equal(t, 1, f.store.menuCount())
	})

	t.Run("find variant never creates", func(t *testing.T) {
		f := newMenuFixture()

		menu, err := f.svc.FindEffectiveMenu(ctx, start, end, "1", "b-1")
		require.NoError(t, err)
		assert.Nil(t, menu)
		assert.Equal(t, 0, f.store.menuCount())

		company := f.store.putMenu(*domain.NewMenu(companyKey, start))
		menu, err = f.svc.FindEffectiveMenu(ctx, start, end, "1", "b-1")
		require.NoError(t, err)
		require.NotNil(t, menu)
		assert.Equal(t, company.ID, menu.ID)
	})
}

func TestNextWeekForms(t *testing.T) {
	ctx := context.Background()

	t.Run("next week menu uses the date range provider", func(t *testing.T) {
		f := newMenuFixture()

		menu, err := f.svc.GetOrCreateNextWeekMenu(ctx, "1", "")
		require.NoError(t, err)
		assert.Equal(t, date(2024, time.June, 3), menu.StartDate)
		assert.Equal(t, date(2024, time.June, 7), menu.EndDate)
	})

	t.Run("employee menu resolves through the employee scope", func(t *testing.T) {
		f := newMenuFixture()
		f.store.employees["7"] = domain.Employee{ID: "7", CompanyID: "1", BranchID: "b-1"}

		menu, err := f.svc.GetEffectiveMenuForEmployee(ctx, "7")
		require.NoError(t, err)
		assert.Equal(t, domain.CompanyScope("1"), menu.Scope)
	})

	t.Run("free-form subject ids resolve", func(t *testing.T) {
		f := newMenuFixture()
		f.store.employees["auth0|emp-001"] = domain.Employee{ID: "auth0|emp-001", BranchID: "b-9"}

		view, err := f.svc.ListEffectiveOptionsForEmployee(ctx, "auth0|emp-001")
		require.NoError(t, err)
		assert.Equal(t, "auth0|emp-001", view.Employee.ID)
	})

	t.Run("unknown employee is not found", func(t *testing.T) {
		f := newMenuFixture()

		_, err := f.svc.GetEffectiveMenuForEmployee(ctx, "404")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestListOptionsForEmployee(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the unscoped menu and sorts slots by weekday", func(t *testing.T) {
		f := newMenuFixture()

		slots, err := f.svc.ListOptionsForEmployee(ctx, "7")
		require.NoError(t, err)
		require.Len(t, slots, 5)
		for i, slot := range slots {
			assert.Equal(t, domain.WorkingDays[i], slot.Weekday)
		}
		assert.Equal(t, 1, f.recorder.created[domain.ScopeKindUnscoped])
	})

	t.Run("reuses the unscoped menu", func(t *testing.T) {
		f := newMenuFixture()
		key, _ := domain.NewMenuKey(date(2024, time.June, 3), date(2024, time.June, 7), domain.UnscopedScope())
		f.store.putMenu(*domain.NewMenu(key, date(2024, time.June, 1)),
			configuredSlot(time.Friday, "f"),
			configuredSlot(time.Monday, "m"),
			configuredSlot(time.Wednesday, "w"),
		)

		slots, err := f.svc.ListOptionsForEmployee(ctx, "7")
		require.NoError(t, err)
		require.Len(t, slots, 3)
		assert.Equal(t, time.Monday, slots[0].Weekday)
		assert.Equal(t, time.Wednesday, slots[1].Weekday)
		assert.Equal(t, time.Friday, slots[2].Weekday)
		assert.Equal(t, 0, f.store.menuCreates)
	})

	t.Run("effective listing attaches current selections", func(t *testing.T) {
		f := newMenuFixture()
		f.store.employees["7"] = domain.Employee{ID: "7", CompanyID: "1"}

		view, err := f.svc.ListEffectiveOptionsForEmployee(ctx, "7")
		require.NoError(t, err)
		assert.Empty(t, view.Selections)

		monday := view.Menu.DaySlots[0]
		require.NoError(t, memResponses{f.store}.Create(ctx, &domain.Response{EmployeeID: "7", DaySlotID: monday.ID, Selection: domain.SelectionB}))

		view, err = f.svc.ListEffectiveOptionsForEmployee(ctx, "7")
		require.NoError(t, err)
		assert.Equal(t, domain.SelectionB, view.Selections[monday.ID])
		assert.Equal(t, "7", view.Employee.ID)
	})
}
