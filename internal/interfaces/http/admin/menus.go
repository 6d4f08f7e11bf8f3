package admin

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	adminapp "github.com/sngm3741/catering-admin/api/internal/admin/application"
	admindomain "github.com/sngm3741/catering-admin/api/internal/admin/domain"
	"github.com/sngm3741/catering-admin/api/internal/interfaces/http/common"
	menuapp "github.com/sngm3741/catering-admin/api/internal/menu/application"
	"github.com/sngm3741/catering-admin/api/internal/menu/domain"
)

type adminMenuDetailResponse struct {
	common.MenuPayload
	SlotConfig []adminDaySlotResponse `json:"slotConfig"`
}

func (h *Handler) menuListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		from, err := common.ParseDate("from", query.Get("from"))
		if err != nil {
			common.WriteError(h.logger, w, "admin menu list", err, "")
			return
		}
		to, err := common.ParseDate("to", query.Get("to"))
		if err != nil {
			common.WriteError(h.logger, w, "admin menu list", err, "")
			return
		}
		page, _ := common.ParsePositiveInt(query.Get("page"), 1)
		limit, _ := common.ParsePositiveInt(query.Get("limit"), 20)

		filter := adminapp.MenuFilter{
			CompanyID: strings.TrimSpace(query.Get("companyId")),
			BranchID:  strings.TrimSpace(query.Get("branchId")),
			From:      from,
			To:        to,
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		menus, err := h.menus.List(ctx, filter, adminapp.Paging{Page: page, Limit: limit})
		if err != nil {
			common.WriteError(h.logger, w, "admin menu list", err, "メニュー一覧の取得に失敗しました")
			return
		}

		items := make([]common.MenuPayload, 0, len(menus))
		for _, menu := range menus {
			items = append(items, common.NewMenuPayload(menu))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, adminMenuListResponse{Items: items, Page: page, Limit: limit})
	}
}

func (h *Handler) menuDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		menu, err := h.menus.Detail(ctx, id)
		if err != nil {
			common.WriteError(h.logger, w, "admin menu detail id="+id, err, "メニュー情報の取得に失敗しました")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, menuDetailToResponse(*menu))
	}
}

func (h *Handler) menuCloseHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req adminCloseRequest
		if r.ContentLength != 0 {
			if err := json.NewDecoder(io.LimitReader(r.Body, common.MaxRequestBody)).Decode(&req); err != nil && err != io.EOF {
				common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "リクエストの形式が不正です"})
				return
			}
		}
		var at time.Time
		if req.ClosedAt != nil {
			at = req.ClosedAt.UTC()
		}

		id := strings.TrimSpace(chi.URLParam(r, "id"))
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		menu, err := h.menus.CloseSurvey(ctx, id, at)
		if err != nil {
			common.WriteError(h.logger, w, "admin menu close id="+id, err, "アンケートの締切に失敗しました")
			return
		}
		h.logger.Printf("menu survey closed id=%s", id)
		common.WriteJSON(h.logger, w, http.StatusOK, common.NewMenuPayload(*menu))
	}
}

func (h *Handler) menuReopenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		menu, err := h.menus.ReopenSurvey(ctx, id)
		if err != nil {
			common.WriteError(h.logger, w, "admin menu reopen id="+id, err, "アンケートの再開に失敗しました")
			return
		}
		h.logger.Printf("menu survey reopened id=%s", id)
		common.WriteJSON(h.logger, w, http.StatusOK, common.NewMenuPayload(*menu))
	}
}

func (h *Handler) addOnCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req adminAddOnRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, common.MaxRequestBody)).Decode(&req); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "リクエストの形式が不正です"})
			return
		}

		id := strings.TrimSpace(chi.URLParam(r, "id"))
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		menu, err := h.menus.AddAddOn(ctx, id, adminapp.AddOnCommand{Name: req.Name, Price: req.Price})
		if err != nil {
			common.WriteError(h.logger, w, "admin add-on create menu="+id, err, "追加品の登録に失敗しました")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, common.NewMenuPayload(*menu))
	}
}

func (h *Handler) addOnDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		addOnID := strings.TrimSpace(chi.URLParam(r, "addOnId"))

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		menu, err := h.menus.RemoveAddOn(ctx, id, addOnID)
		if err != nil {
			common.WriteError(h.logger, w, "admin add-on delete menu="+id, err, "追加品の削除に失敗しました")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, common.NewMenuPayload(*menu))
	}
}

func (h *Handler) menuSummaryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		summary, err := h.menus.SelectionSummary(ctx, id)
		if err != nil {
			common.WriteError(h.logger, w, "admin menu summary id="+id, err, "集計の取得に失敗しました")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, summaryToResponse(*summary))
	}
}

func (h *Handler) daySlotUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req adminDaySlotUpdateRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, common.MaxRequestBody)).Decode(&req); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "リクエストの形式が不正です"})
			return
		}

		id := strings.TrimSpace(chi.URLParam(r, "id"))
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		slot, err := h.menus.ConfigureDaySlot(ctx, id, adminapp.ConfigureDaySlotCommand{
			Options:    req.Options,
			MaxOptions: req.MaxOptions,
			ScheduleID: req.ScheduleID,
		})
		if err != nil {
			common.WriteError(h.logger, w, "admin day-slot update id="+id, err, "曜日スロットの更新に失敗しました")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, daySlotToResponse(*slot))
	}
}

// selectionOnBehalfHandler は管理者が従業員に代わって選択を登録する。A..E の全文字を受け付ける。
func (h *Handler) selectionOnBehalfHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req adminSelectionRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, common.MaxRequestBody)).Decode(&req); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "リクエストの形式が不正です"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		result, err := h.menus.RegisterSelectionOnBehalf(ctx, menuapp.RegisterSelectionCommand{
			EmployeeID: strings.TrimSpace(chi.URLParam(r, "employeeId")),
			DaySlotID:  strings.TrimSpace(chi.URLParam(r, "slotId")),
			Choice:     req.Choice,
		})
		if err != nil {
			common.WriteError(h.logger, w, "admin selection", err, "選択の登録に失敗しました")
			return
		}

		status := http.StatusOK
		if result.Created {
			status = http.StatusCreated
		}
		common.WriteJSON(h.logger, w, status, adminSelectionResponse{
			ID:         result.Response.ID,
			EmployeeID: result.Response.EmployeeID,
			DaySlotID:  result.Response.DaySlotID,
			Choice:     string(result.Response.Selection),
			Created:    result.Created,
		})
	}
}

func daySlotToResponse(slot domain.DaySlot) adminDaySlotResponse {
	return adminDaySlotResponse{
		ID:         slot.ID,
		MenuID:     slot.MenuID,
		Weekday:    slot.Weekday.String(),
		Options:    append([]string(nil), slot.Options[:]...),
		MaxOptions: slot.MaxOptions,
		ScheduleID: slot.ScheduleID,
	}
}

func menuDetailToResponse(menu domain.Menu) adminMenuDetailResponse {
	slots := make([]adminDaySlotResponse, 0, len(menu.DaySlots))
	for _, slot := range menu.DaySlots {
		slots = append(slots, daySlotToResponse(slot))
	}
	return adminMenuDetailResponse{MenuPayload: common.NewMenuPayload(menu), SlotConfig: slots}
}

// summaryToResponse は全文字 (A..E) を 0 埋めして返し、画面側の列を固定する。
func summaryToResponse(summary admindomain.SelectionSummary) adminSummaryResponse {
	days := make([]adminDaySummaryResponse, 0, len(summary.Days))
	for _, day := range summary.Days {
		counts := make(map[string]int, len(domain.FullAlphabet))
		for _, letter := range domain.FullAlphabet {
			counts[string(letter)] = day.Counts[letter]
		}
		days = append(days, adminDaySummaryResponse{
			DaySlotID: day.DaySlotID,
			Weekday:   day.Weekday.String(),
			Counts:    counts,
			Total:     day.Total,
		})
	}
	return adminSummaryResponse{
		MenuID:    summary.MenuID,
		StartDate: common.FormatDate(summary.StartDate),
		EndDate:   common.FormatDate(summary.EndDate),
		Days:      days,
		Total:     summary.Total,
	}
}
