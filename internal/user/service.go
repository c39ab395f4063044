// Package user はユーザー同期と退会のドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/productify/internal/model"
	"github.com/hitoshi/productify/internal/repository"
)

// MetricsRecorder はユーザー関連メトリクスの記録インターフェース。
type MetricsRecorder interface {
	RecordUserSynced()
}

// Service はユーザー管理のサービス層。
// Identity Providerの検証済みidentityとローカルのusersレコードの同期、
// および退会処理のビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
	metrics  MetricsRecorder
}

// NewService はServiceの新しいインスタンスを生成する。
// metricsはnil許容（テスト用）。
func NewService(userRepo repository.UserRepository, metrics MetricsRecorder) *Service {
	return &Service{
		userRepo: userRepo,
		metrics:  metrics,
	}
}

// SyncUser はIdentity Providerの検証済みidentityをusersレコードに同期する。
// 未登録の場合は新規作成、登録済みの場合はname、image_url、updated_atのみ更新する
// 冪等なUPSERT。同一identityで何度呼び出しても同じ状態に収束する。
// idまたはemailが空の場合はVALIDATION_FAILED、別ユーザーがemailを使用している
// 場合はEMAIL_CONFLICTを返す。
func (s *Service) SyncUser(ctx context.Context, identity *model.Identity) (*model.User, error) {
	if identity == nil || identity.UserID == "" {
		return nil, model.NewValidationError("id")
	}
	if identity.Email == "" {
		return nil, model.NewValidationError("email")
	}

	user, err := s.userRepo.Upsert(ctx, &model.User{
		ID:       identity.UserID,
		Email:    identity.Email,
		Name:     identity.Name,
		ImageURL: identity.ImageURL,
	})
	if err != nil {
		// UPSERTのキーはidなので、ここでのユニーク制約違反は
		// 別のidが同じemailを保持しているケースに限られる
		if repository.IsUniqueViolation(err) {
			return nil, model.NewEmailConflictError(identity.Email)
		}
		return nil, fmt.Errorf("failed to sync user: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordUserSynced()
	}

	slog.Info("user synced",
		slog.String("user_id", user.ID),
	)

	return user, nil
}

// Withdraw はユーザーの退会処理を実行する。
// ユーザー行の削除のみを行い、所有するproductsと関連commentsは
// ストアのCASCADE制約で削除される。アプリケーション層での連鎖削除は行わない。
func (s *Service) Withdraw(ctx context.Context, userID string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return model.NewUserNotFoundError()
	}

	deleted, err := s.userRepo.DeleteByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if !deleted {
		// 存在確認と削除の間に別経路で削除されたケース
		return model.NewUserNotFoundError()
	}

	slog.Info("user withdrawn",
		slog.String("user_id", userID),
	)

	return nil
}
