package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sngm3741/catering-admin/api/internal/menu/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EmployeeRepository は従業員マスタの読み取りと seed 用の登録を提供する。
type EmployeeRepository struct {
	collection *mongo.Collection
}

func NewEmployeeRepository(db *mongo.Database, collection string) *EmployeeRepository {
	return &EmployeeRepository{collection: db.Collection(collection)}
}

func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*domain.Employee, error) {
	filter, err := employeeFilter(id)
	if err != nil {
		return nil, fmt.Errorf("employee %q: %w", id, domain.ErrNotFound)
	}
	var doc EmployeeDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("employee %s: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	employee := mapEmployee(doc)
	return &employee, nil
}

// Upsert は ID 指定の従業員を作成または更新する。ID は認証トークンの subject と同じ文字列。
func (r *EmployeeRepository) Upsert(ctx context.Context, employee *domain.Employee) error {
	filter, err := employeeFilter(employee.ID)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"name":      employee.Name,
			"companyId": employee.CompanyID,
			"branchId":  employee.BranchID,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{"createdAt": now},
	}
	if _, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return err
	}
	employee.ID = filter["_id"].(string)
	return nil
}
