// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/productify/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// Upsert はIDをキーとした冪等なUPSERTを行う。
	// 既存ユーザーの場合はname、image_url、updated_atのみ更新する。
	// emailのユニーク制約違反はIsUniqueViolationで判定できるエラーとして返す。
	Upsert(ctx context.Context, user *model.User) (*model.User, error)

	// DeleteByID は指定IDのユーザーを削除する。
	// 所有するproducts、commentsはストアのCASCADE制約で削除される。
	// 対象が存在しない場合はfalseを返す。
	DeleteByID(ctx context.Context, id string) (bool, error)
}

// ProductRepository はプロダクトデータの永続化インターフェース。
type ProductRepository interface {
	// FindByID は指定IDのプロダクトを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Product, error)

	// ListAll は全プロダクトをcreated_at降順で返す。
	ListAll(ctx context.Context) ([]*model.Product, error)

	// ListByUserID は指定ユーザーが所有するプロダクトをcreated_at降順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Product, error)

	// Create はプロダクトを作成する。
	Create(ctx context.Context, product *model.Product) error

	// Update は部分更新を適用し、更新後のプロダクトを返す。
	// patchのnilフィールドは変更せず既存の値を維持する。updated_atは常に更新する。
	// 対象が存在しない場合はnilを返す。
	Update(ctx context.Context, id string, patch model.ProductPatch) (*model.Product, error)

	// DeleteByID は指定IDのプロダクトを削除する。
	// 関連するcommentsはストアのCASCADE制約で削除される。
	// 対象が存在しない場合はfalseを返す。
	DeleteByID(ctx context.Context, id string) (bool, error)
}

// CommentRepository はコメントデータの永続化インターフェース。
type CommentRepository interface {
	// FindByID は指定IDのコメントを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Comment, error)

	// ListByProductID は指定プロダクトのコメントをcreated_at降順で返す。
	ListByProductID(ctx context.Context, productID string) ([]*model.Comment, error)

	// Create はコメントを作成する。
	Create(ctx context.Context, comment *model.Comment) error

	// DeleteByID は指定IDのコメントを削除する。
	// 対象が存在しない場合はfalseを返す。
	DeleteByID(ctx context.Context, id string) (bool, error)
}
