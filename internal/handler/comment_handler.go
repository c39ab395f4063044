package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/productify/internal/middleware"
	"github.com/hitoshi/productify/internal/model"
)

// CommentServiceInterface はコメントハンドラーが必要とするサービスインターフェース。
type CommentServiceInterface interface {
	// CreateComment は既存プロダクトに対するコメントを作成する。
	CreateComment(ctx context.Context, callerID, productID, content string) (*model.Comment, error)
	// ListByProduct は指定プロダクトのコメント一覧を返す。
	ListByProduct(ctx context.Context, productID string) ([]*model.Comment, error)
	// DeleteComment はコメントを削除する（作成者のみ）。
	DeleteComment(ctx context.Context, callerID, id string) error
}

// CommentHandler はコメント管理のHTTPハンドラー。
type CommentHandler struct {
	service CommentServiceInterface
}

// NewCommentHandler はCommentHandlerを生成する。
func NewCommentHandler(service CommentServiceInterface) *CommentHandler {
	return &CommentHandler{
		service: service,
	}
}

// createCommentRequest はコメント作成リクエストのボディ。
type createCommentRequest struct {
	Content string `json:"content"`
}

// commentResponse はコメント情報のAPIレスポンス。
type commentResponse struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	UserID    string    `json:"userId"`
	ProductID string    `json:"productId"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateComment はコメント作成を処理する。
// POST /api/comments/:productId
func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	productID := chi.URLParam(r, "productId")

	var req createCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBodyResponse(w)
		return
	}

	comment, err := h.service.CreateComment(r.Context(), identity.UserID, productID, req.Content)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, toCommentResponse(comment))
}

// ListByProduct は指定プロダクトのコメント一覧を取得する。認証不要。
// GET /api/products/:id/comments
func (h *CommentHandler) ListByProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")

	comments, err := h.service.ListByProduct(r.Context(), productID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]commentResponse, 0, len(comments))
	for _, comment := range comments {
		responses = append(responses, toCommentResponse(comment))
	}

	writeJSONResponse(w, http.StatusOK, responses)
}

// DeleteComment はコメント削除を処理する。作成者のみ。
// DELETE /api/comments/:id
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	commentID := chi.URLParam(r, "id")

	if err := h.service.DeleteComment(r.Context(), identity.UserID, commentID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// toCommentResponse はmodel.CommentからAPIレスポンスに変換する。
func toCommentResponse(comment *model.Comment) commentResponse {
	return commentResponse{
		ID:        comment.ID,
		Content:   comment.Content,
		UserID:    comment.UserID,
		ProductID: comment.ProductID,
		CreatedAt: comment.CreatedAt,
	}
}
