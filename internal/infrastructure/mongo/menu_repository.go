package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	adminapp "github.com/sngm3741/catering-admin/api/internal/admin/application"
	"github.com/sngm3741/catering-admin/api/internal/menu/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// MenuRepository は週次メニュー集約の Mongo 実装。従業員側・管理側の両ポートを満たす。
type MenuRepository struct {
	collection *mongo.Collection
}

// NewMenuRepository は MongoDB コレクションを束縛した MenuRepository を生成する。
func NewMenuRepository(db *mongo.Database, collection string) *MenuRepository {
	return &MenuRepository{collection: db.Collection(collection)}
}

// FindByKey は (開始日, 終了日, スコープ) に一致するメニューを返す。日別スロットは含まない。
func (r *MenuRepository) FindByKey(ctx context.Context, key domain.MenuKey) (*domain.Menu, error) {
	return r.findOne(ctx, menuKeyFilter(key))
}

// FindByID は 16 進 ObjectID からメニューを取得する。
func (r *MenuRepository) FindByID(ctx context.Context, id string) (*domain.Menu, error) {
	objectID, err := parseObjectID("menu", id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": objectID})
}

func (r *MenuRepository) findOne(ctx context.Context, filter bson.M) (*domain.Menu, error) {
	var doc MenuDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	menu, err := mapMenu(doc)
	if err != nil {
		return nil, err
	}
	return &menu, nil
}

// Create はメニューを挿入し ID を割り当てる。
// 一意インデックス uniq_menu_range_scope に衝突した場合は domain.ErrDuplicateMenu を返す。
func (r *MenuRepository) Create(ctx context.Context, menu *domain.Menu) error {
	if menu == nil {
		return fmt.Errorf("menu payload is nil")
	}
	id := primitive.NewObjectID()
	if _, err := r.collection.InsertOne(ctx, buildMenuDocument(id, menu)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateMenu
		}
		return err
	}
	menu.ID = id.Hex()
	return nil
}

// Update は締切フラグ・追加品など可変項目のみを差し替える。期間とスコープは作成後に変更しない。
func (r *MenuRepository) Update(ctx context.Context, menu *domain.Menu) error {
	objectID, err := parseObjectID("menu", menu.ID)
	if err != nil {
		return err
	}
	doc := buildMenuDocument(objectID, menu)
	set := bson.M{
		"closedManually":   doc.ClosedManually,
		"manualCloseDate":  doc.ManualCloseDate,
		"reopenedManually": doc.ReopenedManually,
		"addOns":           doc.AddOns,
		"updatedAt":        doc.UpdatedAt,
	}
	result, err := r.collection.UpdateByID(ctx, objectID, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("menu %s: %w", menu.ID, domain.ErrNotFound)
	}
	return nil
}

// Find は管理画面向けにスコープ・期間で絞り込んだメニュー一覧を開始日の降順で返す。
func (r *MenuRepository) Find(ctx context.Context, filter adminapp.MenuFilter, paging adminapp.Paging) ([]domain.Menu, error) {
	cursor, err := r.collection.Find(ctx, buildMenuListFilter(filter), menuListOptions(paging))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	menus := make([]domain.Menu, 0)
	for cursor.Next(ctx) {
		var doc MenuDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		menu, err := mapMenu(doc)
		if err != nil {
			return nil, err
		}
		menus = append(menus, menu)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return menus, nil
}

// buildMenuListFilter は会社・支店・期間の条件を Mongo クエリへ落とし込む。
// 会社と支店の両方が指定された場合はどちらかのスコープに一致すれば良い。
func buildMenuListFilter(filter adminapp.MenuFilter) bson.M {
	clauses := make([]bson.M, 0)

	scopes := bson.A{}
	if company := strings.TrimSpace(filter.CompanyID); company != "" {
		scopes = append(scopes, bson.M{"scope.kind": string(domain.ScopeKindCompany), "scope.id": company})
	}
	if branch := strings.TrimSpace(filter.BranchID); branch != "" {
		scopes = append(scopes, bson.M{"scope.kind": string(domain.ScopeKindBranch), "scope.id": branch})
	}
	switch len(scopes) {
	case 0:
	case 1:
		clauses = append(clauses, scopes[0].(bson.M))
	default:
		clauses = append(clauses, bson.M{"$or": scopes})
	}

	if !filter.From.IsZero() {
		clauses = append(clauses, bson.M{"endDate": bson.M{"$gte": domain.DateOnly(filter.From)}})
	}
	if !filter.To.IsZero() {
		clauses = append(clauses, bson.M{"startDate": bson.M{"$lte": domain.DateOnly(filter.To)}})
	}

	switch len(clauses) {
	case 0:
		return bson.M{}
	case 1:
		return clauses[0]
	default:
		return bson.M{"$and": clauses}
	}
}

func menuListOptions(paging adminapp.Paging) *options.FindOptions {
	limit := paging.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	page := paging.Page
	if page <= 0 {
		page = 1
	}
	opts := options.Find().SetSort(bson.D{{Key: "startDate", Value: -1}, {Key: "_id", Value: 1}})
	opts.SetLimit(int64(limit))
	opts.SetSkip(int64((page - 1) * limit))
	return opts
}
