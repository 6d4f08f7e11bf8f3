package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sngm3741/catering-admin/api/internal/menu/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusForError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.ErrInvalidSelection, http.StatusBadRequest},
		{domain.ErrScopeRequired, http.StatusBadRequest},
		{domain.ErrInvalidRange, http.StatusBadRequest},
		{domain.ErrOptionNotOffered, http.StatusBadRequest},
		{fmt.Errorf("menu 1: %w", domain.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("menu 1: %w", domain.ErrSurveyClosed), http.StatusConflict},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusForError(tc.err), tc.err.Error())
	}
}

func TestWriteErrorHidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(nil, rec, "test", errors.New("dial tcp: refused"), "取得に失敗しました")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "取得に失敗しました", body["error"])
}

func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := RequireRole(nil, RoleAdmin)(next)

	t.Run("no user", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("employee", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(ContextWithUser(req.Context(), AuthenticatedUser{ID: "e1"}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(ContextWithUser(req.Context(), AuthenticatedUser{ID: "a1", Role: RoleAdmin}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("startDate", " 2024-06-03 ")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-03", FormatDate(got))

	zero, err := ParseDate("startDate", "")
	require.NoError(t, err)
	assert.True(t, zero.IsZero())

	_, err = ParseDate("startDate", "06/03/2024")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}
