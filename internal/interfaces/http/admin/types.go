package admin

import (
	"time"

	"github.com/sngm3741/catering-admin/api/internal/interfaces/http/common"
)

type adminMenuListResponse struct {
	Items []common.MenuPayload `json:"items"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

// adminDaySlotUpdateRequest の options は A から順に並べる。空文字はその文字を未設定にする。
type adminDaySlotUpdateRequest struct {
	Options    []string `json:"options"`
	MaxOptions *int     `json:"maxOptions"`
	ScheduleID *string  `json:"scheduleId"`
}

// adminDaySlotResponse は管理画面向けに A..E の全枠を返す (未設定は空文字)。
type adminDaySlotResponse struct {
	ID         string   `json:"id"`
	MenuID     string   `json:"menuId"`
	Weekday    string   `json:"weekday"`
	Options    []string `json:"options"`
	MaxOptions int      `json:"maxOptions"`
	ScheduleID string   `json:"scheduleId,omitempty"`
}

type adminCloseRequest struct {
	ClosedAt *time.Time `json:"closedAt"`
}

type adminAddOnRequest struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
}

type adminSelectionRequest struct {
	Choice string `json:"choice"`
}

type adminSelectionResponse struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employeeId"`
	DaySlotID  string `json:"daySlotId"`
	Choice     string `json:"choice"`
	Created    bool   `json:"created"`
}

type adminDaySummaryResponse struct {
	DaySlotID string         `json:"daySlotId"`
	Weekday   string         `json:"weekday"`
	Counts    map[string]int `json:"counts"`
	Total     int            `json:"total"`
}

type adminSummaryResponse struct {
	MenuID    string                    `json:"menuId"`
	StartDate string                    `json:"startDate"`
	EndDate   string                    `json:"endDate"`
	Days      []adminDaySummaryResponse `json:"days"`
	Total     int                       `json:"total"`
}
