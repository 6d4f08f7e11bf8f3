package mongo

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sngm3741/catering-admin/api/internal/menu/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// parseObjectID は 16 進 ID を ObjectID に変換する。形式不正は存在しない ID として扱う。
func parseObjectID(kind, id string) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%s %q: %w", kind, id, domain.ErrNotFound)
	}
	return objectID, nil
}

func mapMenu(doc MenuDocument) (domain.Menu, error) {
	scope, err := domain.RestoreScope(doc.Scope.Kind, doc.Scope.ID)
	if err != nil {
		return domain.Menu{}, fmt.Errorf("menu %s: %w", doc.ID.Hex(), err)
	}
	menu := domain.Menu{
		ID:               doc.ID.Hex(),
		StartDate:        doc.StartDate.UTC(),
		EndDate:          doc.EndDate.UTC(),
		Scope:            scope,
		ClosedManually:   doc.ClosedManually,
		ReopenedManually: doc.ReopenedManually,
		CreatedAt:        doc.CreatedAt,
		UpdatedAt:        doc.UpdatedAt,
	}
	if doc.ManualCloseDate != nil {
		closedAt := doc.ManualCloseDate.UTC()
		menu.ManualCloseDate = &closedAt
	}
	for _, addOn := range doc.AddOns {
		menu.AddOns = append(menu.AddOns, domain.AddOn{ID: addOn.ID, Name: addOn.Name, Price: addOn.Price})
	}
	return menu, nil
}

func buildMenuDocument(id primitive.ObjectID, menu *domain.Menu) MenuDocument {
	doc := MenuDocument{
		ID:               id,
		StartDate:        domain.DateOnly(menu.StartDate),
		EndDate:          domain.DateOnly(menu.EndDate),
		Scope:            MenuScopeDocument{Kind: string(menu.Scope.Kind()), ID: menu.Scope.ID()},
		ClosedManually:   menu.ClosedManually,
		ManualCloseDate:  menu.ManualCloseDate,
		ReopenedManually: menu.ReopenedManually,
		CreatedAt:        menu.CreatedAt,
		UpdatedAt:        menu.UpdatedAt,
	}
	for _, addOn := range menu.AddOns {
		doc.AddOns = append(doc.AddOns, AddOnDocument{ID: addOn.ID, Name: addOn.Name, Price: addOn.Price})
	}
	return doc
}

// menuKeyFilter は (期間, スコープ) の一意キーに一致するクエリを組み立てる。
func menuKeyFilter(key domain.MenuKey) bson.M {
	return bson.M{
		"startDate":  key.Start,
		"endDate":    key.End,
		"scope.kind": string(key.Scope.Kind()),
		"scope.id":   key.Scope.ID(),
	}
}

func mapDaySlot(doc DaySlotDocument) domain.DaySlot {
	slot := domain.DaySlot{
		ID:         doc.ID.Hex(),
		MenuID:     doc.MenuID.Hex(),
		Weekday:    time.Weekday(doc.Weekday),
		MaxOptions: doc.MaxOptions,
		ScheduleID: doc.ScheduleID,
	}
	for i := 0; i < len(doc.Options) && i < domain.OptionSlots; i++ {
		slot.Options[i] = doc.Options[i]
	}
	return slot
}

func buildDaySlotDocument(id, menuID primitive.ObjectID, slot domain.DaySlot, now time.Time) DaySlotDocument {
	return DaySlotDocument{
		ID:         id,
		MenuID:     menuID,
		Weekday:    int(slot.Weekday),
		Options:    append([]string(nil), slot.Options[:]...),
		MaxOptions: slot.MaxOptions,
		ScheduleID: slot.ScheduleID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func mapResponse(doc ResponseDocument) domain.Response {
	return domain.Response{
		ID:         doc.ID.Hex(),
		EmployeeID: doc.EmployeeID,
		DaySlotID:  doc.DaySlotID.Hex(),
		Selection:  domain.Selection(doc.Selection),
		CreatedAt:  doc.CreatedAt,
		UpdatedAt:  doc.UpdatedAt,
	}
}

// EmployeeKey は従業員 ID を保存用の _id に正規化する。ID は任意の文字列で、前後の空白のみ除去する。
func EmployeeKey(id string) (string, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return "", errors.New("employee id is required")
	}
	return trimmed, nil
}

func employeeFilter(id string) (bson.M, error) {
	key, err := EmployeeKey(id)
	if err != nil {
		return nil, err
	}
	return bson.M{"_id": key}, nil
}

func mapEmployee(doc EmployeeDocument) domain.Employee {
	return domain.Employee{
		ID:        doc.ID,
		Name:      doc.Name,
		CompanyID: strings.TrimSpace(doc.CompanyID),
		BranchID:  strings.TrimSpace(doc.BranchID),
	}
}
