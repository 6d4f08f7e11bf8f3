package public

import "github.com/sngm3741/catering-admin/api/internal/interfaces/http/common"

type myMenuResponse struct {
	EmployeeID string             `json:"employeeId"`
	Menu       common.MenuPayload `json:"menu"`
	Selections map[string]string  `json:"selections"`
}

type myOptionsResponse struct {
	Items []common.DaySlotPayload `json:"items"`
}

type selectionRequest struct {
	Choice string `json:"choice"`
}

type selectionResponse struct {
	ID        string `json:"id"`
	DaySlotID string `json:"daySlotId"`
	Choice    string `json:"choice"`
	Created   bool   `json:"created"`
}

// menuResolveRequest の mode は effective (既定) / get_or_create / find のいずれか。
// 日付を省略した場合は翌週 (月〜金) を対象にする。
type menuResolveRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	CompanyID string `json:"companyId"`
	BranchID  string `json:"branchId"`
	Mode      string `json:"mode"`
}

type menuResolveResponse struct {
	Found bool                `json:"found"`
	Menu  *common.MenuPayload `json:"menu,omitempty"`
}
