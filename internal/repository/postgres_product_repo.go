package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/productify/internal/model"
)

// PostgresProductRepo はPostgreSQLを使用したプロダクトリポジトリ。
type PostgresProductRepo struct {
	db *sql.DB
}

// NewPostgresProductRepo はPostgresProductRepoを生成する。
func NewPostgresProductRepo(db *sql.DB) *PostgresProductRepo {
	return &PostgresProductRepo{db: db}
}

// FindByID は指定IDのプロダクトを取得する。見つからない場合はnilを返す。
func (r *PostgresProductRepo) FindByID(ctx context.Context, id string) (*model.Product, error) {
	product := &model.Product{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, description, image_url, user_id, created_at, updated_at
		 FROM products WHERE id = $1`,
		id,
	).Scan(&product.ID, &product.Title, &product.Description, &product.ImageURL,
		&product.UserID, &product.CreatedAt, &product.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// ListAll は全プロダクトをcreated_at降順で返す。
func (r *PostgresProductRepo) ListAll(ctx context.Context) ([]*model.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, description, image_url, user_id, created_at, updated_at
		 FROM products ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// ListByUserID は指定ユーザーが所有するプロダクトをcreated_at降順で返す。
func (r *PostgresProductRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, description, image_url, user_id, created_at, updated_at
		 FROM products WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list products by user: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// Create はプロダクトを作成する。
func (r *PostgresProductRepo) Create(ctx context.Context, product *model.Product) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO products (id, title, description, image_url, user_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		product.ID, product.Title, product.Description, product.ImageURL,
		product.UserID, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

// Update は部分更新を適用し、更新後のプロダクトを返す。
// COALESCEによりnilフィールドは既存の値を維持する。対象が存在しない場合はnilを返す。
func (r *PostgresProductRepo) Update(ctx context.Context, id string, patch model.ProductPatch) (*model.Product, error) {
	product := &model.Product{}
	err := r.db.QueryRowContext(ctx,
		`UPDATE products
		 SET title = COALESCE($2, title),
		     description = COALESCE($3, description),
		     image_url = COALESCE($4, image_url),
		     updated_at = now()
		 WHERE id = $1
		 RETURNING id, title, description, image_url, user_id, created_at, updated_at`,
		id, patch.Title, patch.Description, patch.ImageURL,
	).Scan(&product.ID, &product.Title, &product.Description, &product.ImageURL,
		&product.UserID, &product.CreatedAt, &product.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}

// DeleteByID は指定IDのプロダクトを削除する。
// 関連するcommentsはCASCADE削除される。
func (r *PostgresProductRepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM products WHERE id = $1`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete product: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// scanProducts はクエリ結果の全行をProductスライスに変換する。
func scanProducts(rows *sql.Rows) ([]*model.Product, error) {
	products := []*model.Product{}
	for rows.Next() {
		product := &model.Product{}
		if err := rows.Scan(&product.ID, &product.Title, &product.Description, &product.ImageURL,
			&product.UserID, &product.CreatedAt, &product.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}
	return products, nil
}

// compile-time interface check
var _ ProductRepository = (*PostgresProductRepo)(nil)
