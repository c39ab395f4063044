// Package comment はコメントライフサイクルのドメインロジックを提供する。
package comment

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

// ProductFinder はコメント対象プロダクトの存在確認に必要なインターフェース。
// repository.ProductRepositoryの部分集合として定義する。
type ProductFinder interface {
	FindByID(ctx context.Context, id string) (*model.Product, error)
}

// MetricsRecorder はコメント関連メトリクスの記録インターフェース。
type MetricsRecorder interface {
	RecordCommentCreated()
	RecordCommentDeleted()
}

// Service はコメントライフサイクルのサービス層。
// コメントに更新操作は存在しない。作成と削除のみ提供する。
type Service struct {
	commentRepo   repository.CommentRepository
	productFinder ProductFinder
	sanitizer     security.ContentSanitizerService
	metrics       MetricsRecorder
}

// NewService はServiceの新しいインスタンスを生成する。
// sanitizer、metricsはnil許容（テスト用）。
func NewService(
	commentRepo repository.CommentRepository,
	productFinder ProductFinder,
	sanitizer security.ContentSanitizerService,
	metrics MetricsRecorder,
) *Service {
	return &Service{
		commentRepo:   commentRepo,
		productFinder: productFinder,
		sanitizer:     sanitizer,
		metrics:       metrics,
	}
}

// CreateComment は既存プロダクトに対するコメントを作成する。作成者は呼び出し元になる。
// contentが空の場合はVALIDATION_FAILED、プロダクトが存在しない場合はPRODUCT_NOT_FOUNDを返す。
func (s *Service) CreateComment(ctx context.Context, callerID, productID, content string) (*model.Comment, error) {
	sanitized := s.sanitize(content)
	if sanitized == "" {
		return nil, model.NewValidationError("content")
	}

	// コメント対象プロダクトの存在チェック
	product, err := s.productFinder.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	if product == nil {
		return nil, model.NewProductNotFoundError(productID)
	}

	comment := &model.Comment{
		ID:        uuid.New().String(),
		Content:   sanitized,
		UserID:    callerID,
		ProductID: productID,
		CreatedAt: time.Now(),
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordCommentCreated()
	}

	slog.Info("comment created",
		slog.String("comment_id", comment.ID),
		slog.String("product_id", productID),
		slog.String("user_id", callerID),
	)

	return comment, nil
}

// ListByProduct は指定プロダクトのコメントをcreated_at降順で返す。認証不要。
// プロダクトが存在しない場合はPRODUCT_NOT_FOUNDを返す。
func (s *Service) ListByProduct(ctx context.Context, productID string) ([]*model.Comment, error) {
	product, err := s.productFinder.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	if product == nil {
		return nil, model.NewProductNotFoundError(productID)
	}

	comments, err := s.commentRepo.ListByProductID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// DeleteComment はコメントを削除する。作成者のみ実行できる。
// 存在チェックを作成者チェックより先に行う。
func (s *Service) DeleteComment(ctx context.Context, callerID, id string) error {
	// 1. 存在チェック
	existing, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to find comment: %w", err)
	}
	if existing == nil {
		return model.NewCommentNotFoundError(id)
	}

	// 2. 作成者チェック
	if existing.UserID != callerID {
		return model.NewForbiddenError("コメント")
	}

	// 3. 適用
	deleted, err := s.commentRepo.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if !deleted {
		return model.NewCommentNotFoundError(id)
	}

	if s.metrics != nil {
		s.metrics.RecordCommentDeleted()
	}

	slog.Info("comment deleted",
		slog.String("comment_id", id),
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
