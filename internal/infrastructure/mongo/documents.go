package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MenuScopeDocument はメニューの適用範囲 (company / branch / unscoped) を表す埋め込みドキュメント。
// unscoped の場合 id は空文字で保存し、一意インデックスのキーを揃える。
type MenuScopeDocument struct {
	Kind string `bson:"kind"`
	ID   string `bson:"id"`
}

// AddOnDocument はメニューに付随する固定の追加品。
type AddOnDocument struct {
	ID    string `bson:"id"`
	Name  string `bson:"name"`
	Price int    `bson:"price"`
}

// MenuDocument は MongoDB 上での週次メニューのスキーマ。
type MenuDocument struct {
	ID               primitive.ObjectID `bson:"_id"`
	StartDate        time.Time          `bson:"startDate"`
	EndDate          time.Time          `bson:"endDate"`
	Scope            MenuScopeDocument  `bson:"scope"`
	ClosedManually   bool               `bson:"closedManually"`
	ManualCloseDate  *time.Time         `bson:"manualCloseDate,omitempty"`
	ReopenedManually bool               `bson:"reopenedManually"`
	AddOns           []AddOnDocument    `bson:"addOns,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt"`
}

// DaySlotDocument はメニュー内の 1 曜日分の選択肢 (A..E) を保持する。
type DaySlotDocument struct {
	ID         primitive.ObjectID `bson:"_id"`
	MenuID     primitive.ObjectID `bson:"menuId"`
	Weekday    int                `bson:"weekday"`
	Options    []string           `bson:"options"`
	MaxOptions int                `bson:"maxOptions"`
	ScheduleID string             `bson:"scheduleId,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt"`
}

// ResponseDocument は従業員 1 人・1 曜日スロットあたり 1 件の選択結果。
// employeeId は認証トークンの subject をそのまま保持する。
type ResponseDocument struct {
	ID         primitive.ObjectID `bson:"_id"`
	EmployeeID string             `bson:"employeeId"`
	DaySlotID  primitive.ObjectID `bson:"daySlotId"`
	Selection  string             `bson:"selection"`
	CreatedAt  time.Time          `bson:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt"`
}

// EmployeeDocument は従業員の所属 (会社・支店) を保持する。
// _id は ObjectID ではなく認証トークンの subject 文字列。
type EmployeeDocument struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	CompanyID string    `bson:"companyId,omitempty"`
	BranchID  string    `bson:"branchId,omitempty"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}
