package public

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sngm3741/catering-admin/api/internal/interfaces/http/common"
	menuapp "github.com/sngm3741/catering-admin/api/internal/menu/application"
	"github.com/sngm3741/catering-admin/api/internal/menu/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMenus struct {
	menuapp.MenuService
	employeeMenu *menuapp.EmployeeMenu
	options      []domain.DaySlot
	found        *domain.Menu
	err          error
	calls        []string
}

func (s *stubMenus) ListEffectiveOptionsForEmployee(_ context.Context, employeeID string) (*menuapp.EmployeeMenu, error) {
	s.calls = append(s.calls, "effective-options:"+employeeID)
	return s.employeeMenu, s.err
}

func (s *stubMenus) ListOptionsForEmployee(_ context.Context, employeeID string) ([]domain.DaySlot, error) {
	s.calls = append(s.calls, "options:"+employeeID)
	return s.options, s.err
}

func (s *stubMenus) GetEffectiveNextWeekMenu(_ context.Context, companyID, branchID string) (*domain.Menu, error) {
	s.calls = append(s.calls, "effective-next:"+companyID+"/"+branchID)
	return s.found, s.err
}

func (s *stubMenus) GetEffectiveMenu(_ context.Context, start, end time.Time, companyID, branchID string) (*domain.Menu, error) {
	s.calls = append(s.calls, "effective:"+start.Format("01-02")+".."+end.Format("01-02")+":"+companyID+"/"+branchID)
	return s.found, s.err
}

func (s *stubMenus) FindEffectiveNextWeekMenu(_ context.Context, companyID, branchID string) (*domain.Menu, error) {
	s.calls = append(s.calls, "find-effective-next:"+companyID+"/"+branchID)
	return s.found, s.err
}

func (s *stubMenus) FindEffectiveMenu(_ context.Context, start, end time.Time, companyID, branchID string) (*domain.Menu, error) {
	s.calls = append(s.calls, "find-effective:"+start.Format("01-02")+".."+end.Format("01-02")+":"+companyID+"/"+branchID)
	return s.found, s.err
}

func (s *stubMenus) GetOrCreateNextWeekMenu(_ context.Context, companyID, branchID string) (*domain.Menu, error) {
	s.calls = append(s.calls, "get-or-create-next:"+companyID+"/"+branchID)
	return s.found, s.err
}

func (s *stubMenus) FindMenu(_ context.Context, _, _ time.Time, companyID, branchID string) (*domain.Menu, error) {
	s.calls = append(s.calls, "find:"+companyID+"/"+branchID)
	return s.found, s.err
}

type stubSelections struct {
	last   menuapp.RegisterSelectionCommand
	result *menuapp.SelectionResult
	err    error
}

func (s *stubSelections) RegisterSelection(_ context.Context, cmd menuapp.RegisterSelectionCommand) (*menuapp.SelectionResult, error) {
	s.last = cmd
	return s.result, s.err
}

func fakeAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Employee")
		if id == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		user := common.AuthenticatedUser{ID: id, Role: r.Header.Get("X-Role")}
		next.ServeHTTP(w, r.WithContext(common.ContextWithUser(r.Context(), user)))
	})
}

func newRouter(menus *stubMenus, selections *stubSelections) http.Handler {
	router := chi.NewRouter()
	NewHandler(Config{Menus: menus, Selections: selections}).Register(router, fakeAuth)
	return router
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	return doAs(t, h, "", method, path, body)
}

func doAs(t *testing.T, h http.Handler, role, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("X-Employee", "emp-1")
	if role != "" {
		req.Header.Set("X-Role", role)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func sampleMenu() *domain.Menu {
	start := time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC)
	key, _ := domain.NewMenuKey(start, start.AddDate(0, 0, 4), domain.CompanyScope("1"))
	menu := domain.NewMenu(key, start)
	menu.ID = "menu-1"
	menu.DaySlots = domain.ScaffoldDaySlots(menu.ID)
	for i := range menu.DaySlots {
		menu.DaySlots[i].ID = "slot-" + menu.DaySlots[i].Weekday.String()
	}
	menu.DaySlots[0].Options[0] = "opt-a"
	menu.DaySlots[0].Options[3] = "opt-d"
	return menu
}

func TestRoutesRequireAuthentication(t *testing.T) {
	router := newRouter(&stubMenus{}, &stubSelections{})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me/menu", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMyMenu(t *testing.T) {
	menu := sampleMenu()
	menus := &stubMenus{employeeMenu: &menuapp.EmployeeMenu{
		Employee:   domain.Employee{ID: "emp-1", CompanyID: "1"},
		Menu:       menu,
		Selections: map[string]domain.Selection{"slot-Monday": domain.SelectionA},
	}}
	rec := do(t, newRouter(menus, &stubSelections{}), http.MethodGet, "/me/menu", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body myMenuResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, []string{"effective-options:emp-1"}, menus.calls)
	assert.Equal(t, "2024-06-03", body.Menu.StartDate)
	assert.Equal(t, "company", body.Menu.Scope.Kind)
	require.Len(t, body.Menu.DaySlots, 5)
	assert.Equal(t, "Monday", body.Menu.DaySlots[0].Weekday)
	// MaxOptions 3 hides D
	assert.Equal(t, []common.OptionPayload{{Letter: "A", OptionID: "opt-a"}}, body.Menu.DaySlots[0].Options)
	assert.Equal(t, map[string]string{"slot-Monday": "A"}, body.Selections)
}

func TestMyMenuWithoutScope(t *testing.T) {
	menus := &stubMenus{err: domain.ErrScopeRequired}
	rec := do(t, newRouter(menus, &stubSelections{}), http.MethodGet, "/me/menu", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMyOptions(t *testing.T) {
	menus := &stubMenus{options: sampleMenu().DaySlots}
	rec := do(t, newRouter(menus, &stubSelections{}), http.MethodGet, "/me/options", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body myOptionsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Len(t, body.Items, 5)
}

func TestMySelection(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		selections := &stubSelections{result: &menuapp.SelectionResult{
			Response: domain.Response{ID: "r1", DaySlotID: "slot-1", Selection: domain.SelectionB},
			Created:  true,
		}}
		rec := do(t, newRouter(&stubMenus{}, selections), http.MethodPut, "/me/selections/slot-1", `{"choice":"B"}`)

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, menuapp.RegisterSelectionCommand{EmployeeID: "emp-1", DaySlotID: "slot-1", Choice: "B"}, selections.last)
		var body selectionResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "B", body.Choice)
	})

	t.Run("overwrite returns 200", func(t *testing.T) {
		selections := &stubSelections{result: &menuapp.SelectionResult{Response: domain.Response{ID: "r1", Selection: domain.SelectionC}}}
		rec := do(t, newRouter(&stubMenus{}, selections), http.MethodPut, "/me/selections/slot-1", `{"choice":"C"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("invalid letter", func(t *testing.T) {
		selections := &stubSelections{err: domain.ErrInvalidSelection}
		rec := do(t, newRouter(&stubMenus{}, selections), http.MethodPut, "/me/selections/slot-1", `{"choice":"Z"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("closed survey", func(t *testing.T) {
		selections := &stubSelections{err: domain.ErrSurveyClosed}
		rec := do(t, newRouter(&stubMenus{}, selections), http.MethodPut, "/me/selections/slot-1", `{"choice":"A"}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := do(t, newRouter(&stubMenus{}, &stubSelections{}), http.MethodPut, "/me/selections/slot-1", `{`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestMenuResolve(t *testing.T) {
	t.Run("next week by default", func(t *testing.T) {
		menus := &stubMenus{found: sampleMenu()}
		rec := do(t, newRouter(menus, &stubSelections{}), http.MethodPost, "/menus/resolve", `{"companyId":"1","branchId":"b"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"find-effective-next:1/b"}, menus.calls)
		var body menuResolveResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.True(t, body.Found)
		assert.Equal(t, "menu-1", body.Menu.ID)
	})

	t.Run("explicit range", func(t *testing.T) {
		menus := &stubMenus{found: sampleMenu()}
		rec := do(t, newRouter(menus, &stubSelections{}), http.MethodPost, "/menus/resolve",
			`{"startDate":"2024-06-03","endDate":"2024-06-07","companyId":"1"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"find-effective:06-03..06-07:1/"}, menus.calls)
	})

	t.Run("employee effective miss does not create", func(t *testing.T) {
		menus := &stubMenus{}
		rec := do(t, newRouter(menus, &stubSelections{}), http.MethodPost, "/menus/resolve", `{"companyId":"other-co"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"find-effective-next:other-co/"}, menus.calls)
		var body menuResolveResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.False(t, body.Found)
	})

	t.Run("admin effective may create", func(t *testing.T) {
		menus := &stubMenus{found: sampleMenu()}
		rec := doAs(t, newRouter(menus, &stubSelections{}), common.RoleAdmin, http.MethodPost, "/menus/resolve",
			`{"startDate":"2024-06-03","endDate":"2024-06-07","companyId":"1"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"effective:06-03..06-07:1/"}, menus.calls)
	})

	t.Run("get_or_create is admin only", func(t *testing.T) {
		menus := &stubMenus{found: sampleMenu()}
		rec := do(t, newRouter(menus, &stubSelections{}), http.MethodPost, "/menus/resolve", `{"companyId":"other-co","mode":"get_or_create"}`)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Empty(t, menus.calls)

		rec = doAs(t, newRouter(menus, &stubSelections{}), common.RoleAdmin, http.MethodPost, "/menus/resolve",
			`{"companyId":"other-co","mode":"get_or_create"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"get-or-create-next:other-co/"}, menus.calls)
	})

	t.Run("find miss", func(t *testing.T) {
		menus := &stubMenus{}
		rec := do(t, newRouter(menus, &stubSelections{}), http.MethodPost, "/menus/resolve",
			`{"startDate":"2024-06-03","endDate":"2024-06-07","mode":"find"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		var body menuResolveResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.False(t, body.Found)
		assert.Nil(t, body.Menu)
	})

	t.Run("half range", func(t *testing.T) {
		rec := do(t, newRouter(&stubMenus{}, &stubSelections{}), http.MethodPost, "/menus/resolve", `{"startDate":"2024-06-03"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("inverted range", func(t *testing.T) {
		menus := &stubMenus{err: domain.ErrInvalidRange}
		rec := do(t, newRouter(menus, &stubSelections{}), http.MethodPost, "/menus/resolve",
			`{"startDate":"2024-06-07","endDate":"2024-06-03","companyId":"1"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown mode", func(t *testing.T) {
		rec := do(t, newRouter(&stubMenus{}, &stubSelections{}), http.MethodPost, "/menus/resolve", `{"mode":"guess"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuthVerify(t *testing.T) {
	rec := do(t, newRouter(&stubMenus{}, &stubSelections{}), http.MethodGet, "/auth/verify", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body authVerifyResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "emp-1", body.User.ID)
	assert.False(t, body.IsAdmin)
}
