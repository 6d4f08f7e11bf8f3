package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sngm3741/catering-admin/api/internal/menu/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ResponseRepository は従業員の選択結果を扱う Mongo 実装。
// (employeeId, daySlotId) には一意インデックス uniq_response_employee_slot を張る。
type ResponseRepository struct {
	collection *mongo.Collection
}

func NewResponseRepository(db *mongo.Database, collection string) *ResponseRepository {
	return &ResponseRepository{collection: db.Collection(collection)}
}

func (r *ResponseRepository) FindByEmployeeAndSlot(ctx context.Context, employeeID, daySlotID string) (*domain.Response, error) {
	slotID, err := parseObjectID("day-slot", daySlotID)
	if err != nil {
		return nil, err
	}
	filter := bson.M{"employeeId": strings.TrimSpace(employeeID), "daySlotId": slotID}
	var doc ResponseDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	response := mapResponse(doc)
	return &response, nil
}

// Create は選択結果を新規挿入する。同じ従業員・スロットの組が既にあれば domain.ErrDuplicateResponse。
func (r *ResponseRepository) Create(ctx context.Context, response *domain.Response) error {
	slotID, err := parseObjectID("day-slot", response.DaySlotID)
	if err != nil {
		return err
	}
	doc := ResponseDocument{
		ID:         primitive.NewObjectID(),
		EmployeeID: strings.TrimSpace(response.EmployeeID),
		DaySlotID:  slotID,
		Selection:  string(response.Selection),
		CreatedAt:  response.CreatedAt,
		UpdatedAt:  response.UpdatedAt,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateResponse
		}
		return err
	}
	response.ID = doc.ID.Hex()
	return nil
}

// Update は選択肢と更新日時のみを上書きする。履歴は保持しない。
func (r *ResponseRepository) Update(ctx context.Context, response *domain.Response) error {
	objectID, err := parseObjectID("response", response.ID)
	if err != nil {
		return err
	}
	set := bson.M{
		"selection": string(response.Selection),
		"updatedAt": response.UpdatedAt,
	}
	result, err := r.collection.UpdateByID(ctx, objectID, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("response %s: %w", response.ID, domain.ErrNotFound)
	}
	return nil
}

// ListBySlots は指定スロット群に対する全従業員の選択結果を返す。
func (r *ResponseRepository) ListBySlots(ctx context.Context, daySlotIDs []string) ([]domain.Response, error) {
	ids := slotObjectIDs(daySlotIDs)
	if len(ids) == 0 {
		return []domain.Response{}, nil
	}
	return r.find(ctx, bson.M{"daySlotId": bson.M{"$in": ids}})
}

// ListByEmployee は 1 人の従業員の選択結果を指定スロット群に限定して返す。
func (r *ResponseRepository) ListByEmployee(ctx context.Context, employeeID string, daySlotIDs []string) ([]domain.Response, error) {
	ids := slotObjectIDs(daySlotIDs)
	if len(ids) == 0 {
		return []domain.Response{}, nil
	}
	return r.find(ctx, bson.M{
		"employeeId": strings.TrimSpace(employeeID),
		"daySlotId":  bson.M{"$in": ids},
	})
}

func (r *ResponseRepository) find(ctx context.Context, filter bson.M) ([]domain.Response, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	responses := make([]domain.Response, 0)
	for cursor.Next(ctx) {
		var doc ResponseDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		responses = append(responses, mapResponse(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return responses, nil
}

// slotObjectIDs は形式不正な ID を読み飛ばす。存在し得ないスロットに回答は無い。
func slotObjectIDs(ids []string) []primitive.ObjectID {
	result := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
		if err != nil {
			continue
		}
		result = append(result, objectID)
	}
	return result
}
