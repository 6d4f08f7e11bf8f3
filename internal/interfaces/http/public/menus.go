package public

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sngm3741/catering-admin/api/internal/interfaces/http/common"
	menuapp "github.com/sngm3741/catering-admin/api/internal/menu/application"
	"github.com/sngm3741/catering-admin/api/internal/menu/domain"
)

// myMenuHandler は従業員の所属 (支店 → 会社) から翌週の有効メニューと現在の選択を返す。
func (h *Handler) myMenuHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.UserFromContext(r.Context())
		if !ok {
			common.WriteJSON(h.logger, w, http.StatusUnauthorized, map[string]string{"error": "認証が必要です"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		result, err := h.menus.ListEffectiveOptionsForEmployee(ctx, user.ID)
		if err != nil {
			common.WriteError(h.logger, w, "employee menu", err, "メニューの取得に失敗しました")
			return
		}

		selections := make(map[string]string, len(result.Selections))
		for slotID, letter := range result.Selections {
			selections[slotID] = string(letter)
		}
		common.WriteJSON(h.logger, w, http.StatusOK, myMenuResponse{
			EmployeeID: result.Employee.ID,
			Menu:       common.NewMenuPayload(*result.Menu),
			Selections: selections,
		})
	}
}

// myOptionsHandler は日付範囲のみで決まる (スコープ無し) 翌週メニューの曜日スロットを返す。
func (h *Handler) myOptionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.UserFromContext(r.Context())
		if !ok {
			common.WriteJSON(h.logger, w, http.StatusUnauthorized, map[string]string{"error": "認証が必要です"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		slots, err := h.menus.ListOptionsForEmployee(ctx, user.ID)
		if err != nil {
			common.WriteError(h.logger, w, "employee options", err, "選択肢の取得に失敗しました")
			return
		}

		items := make([]common.DaySlotPayload, 0, len(slots))
		for _, slot := range slots {
			items = append(items, common.NewDaySlotPayload(slot))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, myOptionsResponse{Items: items})
	}
}

// mySelectionHandler は認証済み従業員の選択を登録する。同じスロットへの再送は上書き。
func (h *Handler) mySelectionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.UserFromContext(r.Context())
		if !ok {
			common.WriteJSON(h.logger, w, http.StatusUnauthorized, map[string]string{"error": "認証が必要です"})
			return
		}

		var req selectionRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, common.MaxRequestBody)).Decode(&req); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "リクエストの形式が不正です"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		result, err := h.selections.RegisterSelection(ctx, menuapp.RegisterSelectionCommand{
			EmployeeID: user.ID,
			DaySlotID:  strings.TrimSpace(chi.URLParam(r, "slotId")),
			Choice:     req.Choice,
		})
		if err != nil {
			common.WriteError(h.logger, w, "register selection", err, "選択の登録に失敗しました")
			return
		}

		status := http.StatusOK
		if result.Created {
			status = http.StatusCreated
		}
		common.WriteJSON(h.logger, w, status, selectionResponse{
			ID:        result.Response.ID,
			DaySlotID: result.Response.DaySlotID,
			Choice:    string(result.Response.Selection),
			Created:   result.Created,
		})
	}
}

// menuResolveHandler はスコープと期間からメニューを解決する。
// 作成を伴う解決は管理者のみ。一般従業員の effective は既存メニューの参照に限定する。
func (h *Handler) menuResolveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.UserFromContext(r.Context())
		if !ok {
			common.WriteJSON(h.logger, w, http.StatusUnauthorized, map[string]string{"error": "認証が必要です"})
			return
		}
		isAdmin := user.Role == common.RoleAdmin

		var req menuResolveRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, common.MaxRequestBody)).Decode(&req); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "リクエストの形式が不正です"})
			return
		}

		start, err := common.ParseDate("startDate", req.StartDate)
		if err != nil {
			common.WriteError(h.logger, w, "menu resolve", err, "")
			return
		}
		end, err := common.ParseDate("endDate", req.EndDate)
		if err != nil {
			common.WriteError(h.logger, w, "menu resolve", err, "")
			return
		}
		if start.IsZero() != end.IsZero() {
			common.WriteError(h.logger, w, "menu resolve",
				fmt.Errorf("%w: startDate と endDate は両方指定するか両方省略してください", domain.ErrInvalidArgument), "")
			return
		}

		mode := strings.TrimSpace(req.Mode)
		if mode == "get_or_create" && !isAdmin {
			common.WriteJSON(h.logger, w, http.StatusForbidden, map[string]string{"error": "メニューの作成は管理者のみ可能です"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		menu, err := h.resolveMenu(ctx, mode, isAdmin, req, start.IsZero(), start, end)
		if err != nil {
			common.WriteError(h.logger, w, "menu resolve", err, "メニューの取得に失敗しました")
			return
		}
		if menu == nil {
			common.WriteJSON(h.logger, w, http.StatusOK, menuResolveResponse{Found: false})
			return
		}
		payload := common.NewMenuPayload(*menu)
		common.WriteJSON(h.logger, w, http.StatusOK, menuResolveResponse{Found: true, Menu: &payload})
	}
}

func (h *Handler) resolveMenu(ctx context.Context, mode string, canCreate bool, req menuResolveRequest, nextWeek bool, start, end time.Time) (*domain.Menu, error) {
	switch mode {
	case "", "effective":
		if !canCreate {
			if nextWeek {
				return h.menus.FindEffectiveNextWeekMenu(ctx, req.CompanyID, req.BranchID)
			}
			return h.menus.FindEffectiveMenu(ctx, start, end, req.CompanyID, req.BranchID)
		}
		if nextWeek {
			return h.menus.GetEffectiveNextWeekMenu(ctx, req.CompanyID, req.BranchID)
		}
		return h.menus.GetEffectiveMenu(ctx, start, end, req.CompanyID, req.BranchID)
	case "get_or_create":
		if nextWeek {
			return h.menus.GetOrCreateNextWeekMenu(ctx, req.CompanyID, req.BranchID)
		}
		return h.menus.GetOrCreateMenu(ctx, start, end, req.CompanyID, req.BranchID)
	case "find":
		if nextWeek {
			return nil, fmt.Errorf("%w: find には startDate と endDate が必要です", domain.ErrInvalidArgument)
		}
		return h.menus.FindMenu(ctx, start, end, req.CompanyID, req.BranchID)
	default:
		return nil, fmt.Errorf("%w: 不明な mode です: %s", domain.ErrInvalidArgument, req.Mode)
	}
}
