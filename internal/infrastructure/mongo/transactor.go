package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// Transactor は menu application の Transactor を Mongo セッションで実装する。
// transactions が false の場合 (スタンドアロン mongod など) は fn をそのまま実行する。
// その場合メニュー作成とスロット作成の間で失敗すると、スロットの無いメニューが残り得る。
type Transactor struct {
	client       *mongo.Client
	transactions bool
}

func NewTransactor(client *mongo.Client, transactions bool) *Transactor {
	return &Transactor{client: client, transactions: transactions}
}

// WithinTransaction は fn をトランザクション内で実行する。
// fn に渡す ctx は mongo.SessionContext なので、リポジトリ経由の書き込みは同じセッションに乗る。
func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !t.transactions || t.client == nil {
		return fn(ctx)
	}
	if _, ok := ctx.(mongo.SessionContext); ok {
		// 既にトランザクション内にいる場合は入れ子にしない
		return fn(ctx)
	}

	session, err := t.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
