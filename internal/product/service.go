// Package product はプロダクトライフサイクルのドメインロジックを提供する。
//
// 変更操作は一律に
// 認証チェック → 存在チェック → 所有者チェック → 適用
// の順で検査する。存在チェックは所有者チェックより必ず先に行うため、
// 存在しないリソースへの非所有者のリクエストはFORBIDDENではなく
// NOT_FOUNDになる。
package product

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/productify/internal/model"
	"github.com/hitoshi/productify/internal/repository"
	"github.com/hitoshi/productify/internal/security"
)

// MetricsRecorder はプロダクト関連メトリクスの記録インターフェース。
type MetricsRecorder interface {
	RecordProductCreated()
	RecordProductDeleted()
}

// Service はプロダクトライフサイクルのサービス層。
type Service struct {
	productRepo repository.ProductRepository
	sanitizer   security.ContentSanitizerService
	metrics     MetricsRecorder
}

// NewService はServiceの新しいインスタンスを生成する。
// sanitizer、metricsはnil許容（テスト用）。
func NewService(
	productRepo repository.ProductRepository,
	sanitizer security.ContentSanitizerService,
	metrics MetricsRecorder,
) *Service {
	return &Service{
		productRepo: productRepo,
		sanitizer:   sanitizer,
		metrics:     metrics,
	}
}

// ListProducts は全プロダクトをcreated_at降順で返す。認証不要。
func (s *Service) ListProducts(ctx context.Context) ([]*model.Product, error) {
	products, err := s.productRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// ListMyProducts は呼び出し元が所有するプロダクトをcreated_at降順で返す。
func (s *Service) ListMyProducts(ctx context.Context, callerID string) ([]*model.Product, error) {
	products, err := s.productRepo.ListByUserID(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user products: %w", err)
	}
	return products, nil
}

// GetProduct は指定IDのプロダクトを返す。認証不要。
// 見つからない場合は必ずPRODUCT_NOT_FOUNDを返す（暗黙の空レスポンスは返さない）。
func (s *Service) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	if product == nil {
		return nil, model.NewProductNotFoundError(id)
	}
	return product, nil
}

// CreateProduct はプロダクトを作成する。所有者は呼び出し元になる。
// title、description、imageUrlはすべて必須かつ非空。
func (s *Service) CreateProduct(ctx context.Context, callerID string, input model.ProductInput) (*model.Product, error) {
	title := s.sanitize(input.Title)
	description := s.sanitize(input.Description)

	if title == "" {
		return nil, model.NewValidationError("title")
	}
	if description == "" {
		return nil, model.NewValidationError("description")
	}
	if input.ImageURL == "" {
		return nil, model.NewValidationError("imageUrl")
	}

	now := time.Now()
	product := &model.Product{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
		ImageURL:    input.ImageURL,
		UserID:      callerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordProductCreated()
	}

	slog.Info("product created",
		slog.String("product_id", product.ID),
		slog.String("user_id", callerID),
	)

	return product, nil
}

// UpdateProduct はプロダクトを部分更新する。所有者のみ実行できる。
// patchのnilフィールドは変更しない。指定されたのに空のフィールドは
// VALIDATION_FAILEDとして拒否する（部分更新は省略であって空上書きではない）。
func (s *Service) UpdateProduct(ctx context.Context, callerID, id string, patch model.ProductPatch) (*model.Product, error) {
	// 1. 存在チェック
	existing, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	if existing == nil {
		return nil, model.NewProductNotFoundError(id)
	}

	// 2. 所有者チェック
	if existing.UserID != callerID {
		return nil, model.NewForbiddenError("プロダクト")
	}

	// 3. 入力の検証とサニタイズ
	if patch.Title != nil {
		title := s.sanitize(*patch.Title)
		if title == "" {
			return nil, model.NewValidationError("title")
		}
		patch.Title = &title
	}
	if patch.Description != nil {
		description := s.sanitize(*patch.Description)
		if description == "" {
			return nil, model.NewValidationError("description")
		}
		patch.Description = &description
	}
	if patch.ImageURL != nil && *patch.ImageURL == "" {
		return nil, model.NewValidationError("imageUrl")
	}

	// 4. 適用
	updated, err := s.productRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if updated == nil {
		// 存在チェックと更新の間に所有者が削除したケース
		return nil, model.NewProductNotFoundError(id)
	}

	slog.Info("product updated",
		slog.String("product_id", id),
		slog.String("user_id", callerID),
	)

	return updated, nil
}

// DeleteProduct はプロダクトを削除する。所有者のみ実行できる。
// 関連するcommentsはストアのCASCADE制約で削除される。
func (s *Service) DeleteProduct(ctx context.Context, callerID, id string) error {
	// 1. 存在チェック
	existing, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to find product: %w", err)
	}
	if existing == nil {
		return model.NewProductNotFoundError(id)
	}

	// 2. 所有者チェック
	if existing.UserID != callerID {
		return model.NewForbiddenError("プロダクト")
	}

	// 3. 適用
	deleted, err := s.productRepo.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if !deleted {
		return model.NewProductNotFoundError(id)
	}

	if s.metrics != nil {
		s.metrics.RecordProductDeleted()
	}

	slog.Info("product deleted",
		slog.String("product_id", id),
		slog.String("user_id", callerID),
	)

	return nil
}

// sanitize はサニタイザー設定時に入力をプレーンテキスト化する。
func (s *Service) sanitize(raw string) string {
	if s.sanitizer == nil {
		return raw
	}
	return s.sanitizer.Sanitize(raw)
}
