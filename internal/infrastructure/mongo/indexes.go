package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collections はコレクション名の組。config から渡される。
type Collections struct {
	Menus     string
	DaySlots  string
	Responses string
	Employees string
}

// indexModels はコレクションごとのインデックス定義を返す。
// uniq_menu_range_scope と uniq_response_employee_slot は同時作成・同時回答の競合を DB 側で弾くためのもの。
func indexModels(c Collections) map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		c.Menus: {
			{
				Keys: bson.D{
					{Key: "startDate", Value: 1},
					{Key: "endDate", Value: 1},
					{Key: "scope.kind", Value: 1},
					{Key: "scope.id", Value: 1},
				},
				Options: options.Index().SetName("uniq_menu_range_scope").SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "scope.kind", Value: 1}, {Key: "scope.id", Value: 1}, {Key: "startDate", Value: -1}},
				Options: options.Index().SetName("idx_menu_scope_start"),
			},
		},
		c.DaySlots: {
			{
				Keys:    bson.D{{Key: "menuId", Value: 1}, {Key: "weekday", Value: 1}},
				Options: options.Index().SetName("uniq_dayslot_menu_weekday").SetUnique(true),
			},
		},
		c.Responses: {
			{
				Keys:    bson.D{{Key: "employeeId", Value: 1}, {Key: "daySlotId", Value: 1}},
				Options: options.Index().SetName("uniq_response_employee_slot").SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "daySlotId", Value: 1}},
				Options: options.Index().SetName("idx_response_slot"),
			},
		},
		c.Employees: {
			{
				Keys:    bson.D{{Key: "companyId", Value: 1}, {Key: "branchId", Value: 1}},
				Options: options.Index().SetName("idx_employee_company_branch"),
			},
		},
	}
}

// EnsureIndexes は必要なインデックスを作成する。既存の同名インデックスはそのまま残る。
func EnsureIndexes(ctx context.Context, db *mongo.Database, c Collections) error {
	for collection, models := range indexModels(c) {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("%s のインデックス作成に失敗しました: %w", collection, err)
		}
	}
	return nil
}
