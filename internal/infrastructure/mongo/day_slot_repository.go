package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sngm3741/catering-admin/api/internal/menu/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DaySlotRepository はメニューの曜日スロットを扱う Mongo 実装。
type DaySlotRepository struct {
	collection *mongo.Collection
}

func NewDaySlotRepository(db *mongo.Database, collection string) *DaySlotRepository {
	return &DaySlotRepository{collection: db.Collection(collection)}
}

// Create はスロットをまとめて挿入し、ID を割り当てたコピーを返す。
func (r *DaySlotRepository) Create(ctx context.Context, slots []domain.DaySlot) ([]domain.DaySlot, error) {
	if len(slots) == 0 {
		return []domain.DaySlot{}, nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(slots))
	created := make([]domain.DaySlot, 0, len(slots))
	for _, slot := range slots {
		menuID, err := parseObjectID("menu", slot.MenuID)
		if err != nil {
			return nil, err
		}
		id := primitive.NewObjectID()
		docs = append(docs, buildDaySlotDocument(id, menuID, slot, now))
		slot.ID = id.Hex()
		created = append(created, slot)
	}
	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *DaySlotRepository) FindByID(ctx context.Context, id string) (*domain.DaySlot, error) {
	objectID, err := parseObjectID("day-slot", id)
	if err != nil {
		return nil, err
	}
	var doc DaySlotDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("day-slot %s: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	slot := mapDaySlot(doc)
	return &slot, nil
}

// ListByMenu はメニューに属するスロットを曜日順で返す。
func (r *DaySlotRepository) ListByMenu(ctx context.Context, menuID string) ([]domain.DaySlot, error) {
	objectID, err := parseObjectID("menu", menuID)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "weekday", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"menuId": objectID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	slots := make([]domain.DaySlot, 0, len(domain.WorkingDays))
	for cursor.Next(ctx) {
		var doc DaySlotDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		slots = append(slots, mapDaySlot(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return slots, nil
}

// Update は選択肢・最大表示数・スケジュール ID を差し替える。
func (r *DaySlotRepository) Update(ctx context.Context, slot *domain.DaySlot) error {
	objectID, err := parseObjectID("day-slot", slot.ID)
	if err != nil {
		return err
	}
	set := bson.M{
		"options":    append([]string(nil), slot.Options[:]...),
		"maxOptions": slot.MaxOptions,
		"scheduleId": slot.ScheduleID,
		"updatedAt":  time.Now().UTC(),
	}
	result, err := r.collection.UpdateByID(ctx, objectID, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("day-slot %s: %w", slot.ID, domain.ErrNotFound)
	}
	return nil
}
