package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/productify/internal/model"
)

// --- モック定義 ---

// mockUserService はUserServiceInterfaceのモック実装。
type mockUserService struct {
	syncUserFn func(ctx context.Context, identity *model.Identity) (*model.User, error)
	withdrawFn func(ctx context.Context, userID string) error
}

func (m *mockUserService) SyncUser(ctx context.Context, identity *model.Identity) (*model.User, error) {
	if m.syncUserFn != nil {
		return m.syncUserFn(ctx, identity)
	}
	return nil, nil
}

func (m *mockUserService) Withdraw(ctx context.Context, userID string) error {
	if m.withdrawFn != nil {
		return m.withdrawFn(ctx, userID)
	}
	return nil
}

// --- POST /api/users/sync テスト ---

func TestUserHandler_SyncUser_Success(t *testing.T) {
	svc := &mockUserService{
		syncUserFn: func(ctx context.Context, identity *model.Identity) (*model.User, error) {
			if identity.UserID != "idp_user_1" {
				t.Errorf("expected identity 'idp_user_1', got %q", identity.UserID)
			}
			return &model.User{
				ID:    identity.UserID,
				Email: identity.Email,
				Name:  identity.Name,
			}, nil
		},
	}
	h := NewUserHandler(svc)

	req := withIdentity(httptest.NewRequest(http.MethodPost, "/api/users/sync", nil), "idp_user_1")
	w := httptest.NewRecorder()

	h.SyncUser(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var got userResponse
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.ID != "idp_user_1" {
		t.Errorf("expected id 'idp_user_1', got %q", got.ID)
	}
}

func TestUserHandler_SyncUser_Unauthenticated(t *testing.T) {
	h := NewUserHandler(&mockUserService{})

	req := httptest.NewRequest(http.MethodPost, "/api/users/sync", nil)
	w := httptest.NewRecorder()

	h.SyncUser(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", w.Code)
	}
	result := parseAPIErrorResponse(t, w)
	if result["code"] != model.ErrCodeUnauthenticated {
		t.Errorf("expected code %s, got %s", model.ErrCodeUnauthenticated, result["code"])
	}
}

func TestUserHandler_SyncUser_EmailConflict(t *testing.T) {
	svc := &mockUserService{
		syncUserFn: func(ctx context.Context, identity *model.Identity) (*model.User, error) {
			return nil, model.NewEmailConflictError(identity.Email)
		},
	}
	h := NewUserHandler(svc)

	req := withIdentity(httptest.NewRequest(http.MethodPost, "/api/users/sync", nil), "idp_user_2")
	w := httptest.NewRecorder()

	h.SyncUser(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected status 409, got %d", w.Code)
	}
	result := parseAPIErrorResponse(t, w)
	if result["code"] != model.ErrCodeEmailConflict {
		t.Errorf("expected code %s, got %s", model.ErrCodeEmailConflict, result["code"])
	}
}

// --- DELETE /api/users/me テスト ---

func TestUserHandler_Withdraw_Success(t *testing.T) {
	withdrawCalled := false
	svc := &mockUserService{
		withdrawFn: func(ctx context.Context, userID string) error {
			if userID != "idp_user_1" {
				t.Errorf("expected user 'idp_user_1', got %q", userID)
			}
			withdrawCalled = true
			return nil
		},
	}
	h := NewUserHandler(svc)

	req := withIdentity(httptest.NewRequest(http.MethodDelete, "/api/users/me", nil), "idp_user_1")
	w := httptest.NewRecorder()

	h.Withdraw(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("expected status 204, got %d", w.Code)
	}
	if !withdrawCalled {
		t.Error("expected Withdraw to be called")
	}
}

func TestUserHandler_Withdraw_Unauthenticated(t *testing.T) {
	h := NewUserHandler(&mockUserService{})

	req := httptest.NewRequest(http.MethodDelete, "/api/users/me", nil)
	w := httptest.NewRecorder()

	h.Withdraw(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", w.Code)
	}
}
