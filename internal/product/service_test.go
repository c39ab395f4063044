package product

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/productify/internal/model"
)

// --- モック ---

type mockProductRepo struct {
	findByIDFn     func(ctx context.Context, id string) (*model.Product, error)
	listAllFn      func(ctx context.Context) ([]*model.Product, error)
	listByUserIDFn func(ctx context.Context, userID string) ([]*model.Product, error)
	createFn       func(ctx context.Context, product *model.Product) error
	updateFn       func(ctx context.Context, id string, patch model.ProductPatch) (*model.Product, error)
	deleteByIDFn   func(ctx context.Context, id string) (bool, error)
}

func (m *mockProductRepo) FindByID(ctx context.Context, id string) (*model.Product, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockProductRepo) ListAll(ctx context.Context) ([]*model.Product, error) {
	if m.listAllFn != nil {
		return m.listAllFn(ctx)
	}
	return nil, nil
}
func (m *mockProductRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Product, error) {
	if m.listByUserIDFn != nil {
		return m.listByUserIDFn(ctx, userID)
	}
	return nil, nil
}
func (m *mockProductRepo) Create(ctx context.Context, product *model.Product) error {
	if m.createFn != nil {
		return m.createFn(ctx, product)
	}
	return nil
}
func (m *mockProductRepo) Update(ctx context.Context, id string, patch model.ProductPatch) (*model.Product, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, patch)
	}
	return nil, nil
}
func (m *mockProductRepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return false, nil
}

func strPtr(s string) *string { return &s }

func assertAPIErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError with code %s, got %v", code, err)
	}
	if apiErr.Code != code {
		t.Errorf("expected code %s, got %s", code, apiErr.Code)
	}
}

// --- テスト ---

// TestService_GetProduct は存在するプロダクトの取得を検証する。
func TestService_GetProduct(t *testing.T) {
	repo := &mockProductRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Product, error) {
			return &model.Product{ID: id, Title: "Kantan Notes", UserID: "user-1"}, nil
		},
	}

	svc := NewService(repo, nil, nil)

	product, err := svc.GetProduct(context.Background(), "prod-1")
	if err != nil {
		t.Fatalf("GetProduct returned error: %v", err)
	}
	if product.Title != "Kantan Notes" {
		t.Errorf("expected title 'Kantan Notes', got %q", product.Title)
	}
}

// TestService_GetProduct_NotFound は存在しないIDの取得が
// 常にPRODUCT_NOT_FOUNDになることを検証する。空レスポンスは返さない。
func TestService_GetProduct_NotFound(t *testing.T) {
	repo := &mockProductRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Product, error) {
			return nil, nil
		},
	}

	svc := NewService(repo, nil, nil)

	_, err := svc.GetProduct(context.Background(), "nonexistent")
	assertAPIErrorCode(t, err, model.ErrCodeProductNotFound)
}

// TestService_CreateProduct は作成されたプロダクトの所有者が
// 呼び出し元になることを検証する。
func TestService_CreateProduct(t *testing.T) {
	var created *model.Product
	repo := &mockProductRepo{
		createFn: func(ctx context.Context, product *model.Product) error {
			created = product
			return nil
		},
	}

	svc := NewService(repo, nil, nil)

	input := model.ProductInput{
		Title:       "Kantan Notes",
		Description: "memo app",
		ImageURL:    "https://example.com/kantan.png",
	}

	product, err := svc.CreateProduct(context.Background(), "user-1", input)
	if err != nil {
		t.Fatalf("CreateProduct returned error: %v", err)
	}
	if created == nil {
		t.Fatal("expected Create to be called")
	}
	if product.UserID != "user-1" {
		t.Errorf("expected owner 'user-1', got %q", product.UserID)
	}
	if product.ID == "" {
		t.Error("expected generated product ID")
	}
}

// TestService_CreateProduct_Validation は必須フィールドの空・欠落が
// VALIDATION_FAILEDになることを検証する。
func TestService_CreateProduct_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input model.ProductInput
	}{
		{name: "empty title", input: model.ProductInput{Title: "", Description: "desc", ImageURL: "https://example.com/a.png"}},
		{name: "empty description", input: model.ProductInput{Title: "title", Description: "", ImageURL: "https://example.com/a.png"}},
		{name: "empty imageUrl", input: model.ProductInput{Title: "title", Description: "desc", ImageURL: ""}},
	}

	svc := NewService(&mockProductRepo{}, nil, nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateProduct(context.Background(), "user-1", tt.input)
			assertAPIErrorCode(t, err, model.ErrCodeValidationFailed)
		})
	}
}

// TestService_UpdateProduct_PartialUpdate は省略されたフィールドが
// 変更されないパッチがそのままリポジトリに渡ることを検証する。
func TestService_UpdateProduct_PartialUpdate(t *testing.T) {
	var gotPatch model.ProductPatch
	repo := &mockProductRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Product, error) {
			return &model.Product{ID: id, Title: "old", Description: "old desc", UserID: "user-1"}, nil
		},
		updateFn: func(ctx context.Context, id string, patch model.ProductPatch) (*model.Product, error) {
			gotPatch = patch
			return &model.Product{ID: id, Title: *patch.Title, Description: "old desc", UserID: "user-1"}, nil
		},
	}

	svc := NewService(repo, nil, nil)

	patch := model.ProductPatch{Title: strPtr("new title")}
	updated, err := svc.UpdateProduct(context.Background(), "user-1", "prod-1", patch)
	if err != nil {
		t.Fatalf("UpdateProduct returned error: %v", err)
	}
	if gotPatch.Title == nil || *gotPatch.Title != "new title" {
		t.Error("expected title in patch")
	}
	if gotPatch.Description != nil {
		t.Error("expected omitted description to stay nil in patch")
	}
	if updated.Description != "old desc" {
		t.Errorf("expected description unchanged, got %q", updated.Description)
	}
}

// TestService_UpdateProduct_EmptyFieldRejected は指定されたのに空の
// フィールドがVALIDATION_FAILEDになることを検証する。
// 部分更新の省略と空上書きは区別する。
func TestService_UpdateProduct_EmptyFieldRejected(t *testing.T) {
	repo := &mockProductRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Product, error) {
			return &model.Product{ID: id, UserID: "user-1"}, nil
		},
	}

	svc := NewService(repo, nil, nil)

	tests := []struct {
		name  string
		patch model.ProductPatch
	}{
		{name: "empty title", patch: model.ProductPatch{Title: strPtr("")}},
		{name: "empty description", patch: model.ProductPatch{Description: strPtr("")}},
		{name: "empty imageUrl", patch: model.ProductPatch{ImageURL: strPtr("")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateProduct(context.Background(), "user-1", "prod-1", tt.patch)
			assertAPIErrorCode(t, err, model.ErrCodeValidationFailed)
		})
	}
}

// TestService_UpdateProduct_Forbidden は所有者以外の更新が
// FORBIDDENになることを検証する。
func TestService_UpdateProduct_Forbidden(t *testing.T) {
	repo := &mockProductRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Product, error) {
			return &model.Product{ID: id, UserID: "owner"}, nil
		},
	}

	svc := NewService(repo, nil, nil)

	_, err := svc.UpdateProduct(context.Background(), "attacker", "prod-1", model.ProductPatch{Title: strPtr("x")})
	assertAPIErrorCode(t, err, model.ErrCodeForbidden)
}

// TestService_UpdateProduct_NotFoundBeforeOwnership は存在チェックが
// 所有者チェックより先に行われることを検証する。
// 存在しないリソースへの非所有者リクエストはFORBIDDENではなくNOT_FOUND。
func TestService_UpdateProduct_NotFoundBeforeOwnership(t *testing.T) {
	repo := &mockProductRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Product, error) {
			return nil, nil
		},
	}

	svc := NewService(repo, nil, nil)

	_, err := svc.UpdateProduct(context.Background(), "anyone", "nonexistent", model.ProductPatch{Title: strPtr("x")})
	assertAPIErrorCode(t, err, model.ErrCodeProductNotFound)
}

// TestService_UpdateProduct_DeletedConcurrently は存在チェック後に削除された
// ケースがNOT_FOUNDとして報告されることを検証する。
func TestService_UpdateProduct_DeletedConcurrently(t *testing.T) {
	repo := &mockProductRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Product, error) {
			return &model.Product{ID: id, UserID: "user-1"}, nil
		},
		updateFn: func(ctx context.Context, id string, patch model.ProductPatch) (*model.Product, error) {
			return nil, nil
		},
	}

	svc := NewService(repo, nil, nil)

	_, err := svc.UpdateProduct(context.Background(), "user-1", "prod-1", model.ProductPatch{Title: strPtr("x")})
	assertAPIErrorCode(t, err, model.ErrCodeProductNotFound)
}

// TestService_DeleteProduct は所有者による削除を検証する。
func TestService_DeleteProduct(t *testing.T) {
	deleteCalled := false
	repo := &mockProductRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Product, error) {
			return &model.Product{ID: id, UserID: "user-1"}, nil
		},
		deleteByIDFn: func(ctx context.Context, id string) (bool, error) {
			deleteCalled = true
			return true, nil
		},
	}

	svc := NewService(repo, nil, nil)

	if err := svc.DeleteProduct(context.Background(), "user-1", "prod-1"); err != nil {
		t.Fatalf("DeleteProduct returned error: %v", err)
	}
	if !deleteCalled {
		t.Error("expected DeleteByID to be called")
	}
}

// TestService_DeleteProduct_Forbidden は所有者以外の削除が
// FORBIDDENになることを検証する。
func TestService_DeleteProduct_Forbidden(t *testing.T) {
	deleteCalled := false
	repo := &mockProductRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Product, error) {
			return &model.Product{ID: id, UserID: "owner"}, nil
		},
		deleteByIDFn: func(ctx context.Context, id string) (bool, error) {
			deleteCalled = true
			return true, nil
		},
	}

	svc := NewService(repo, nil, nil)

	err := svc.DeleteProduct(context.Background(), "attacker", "prod-1")
	assertAPIErrorCode(t, err, model.ErrCodeForbidden)
	if deleteCalled {
		t.Error("expected DeleteByID not to be called")
	}
}

// TestService_DeleteProduct_NotFound は存在しないプロダクトの削除が
// NOT_FOUNDになることを検証する。
func TestService_DeleteProduct_NotFound(t *testing.T) {
	repo := &mockProductRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Product, error) {
			return nil, nil
		},
	}

	svc := NewService(repo, nil, nil)

	err := svc.DeleteProduct(context.Background(), "user-1", "nonexistent")
	assertAPIErrorCode(t, err, model.ErrCodeProductNotFound)
}

// TestService_ListProducts は一覧取得がリポジトリの結果をそのまま返すことを検証する。
func TestService_ListProducts(t *testing.T) {
	repo := &mockProductRepo{
		listAllFn: func(ctx context.Context) ([]*model.Product, error) {
			return []*model.Product{
				{ID: "prod-2", Title: "newer"},
				{ID: "prod-1", Title: "older"},
			}, nil
		},
	}

	svc := NewService(repo, nil, nil)

	products, err := svc.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("ListProducts returned error: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	if products[0].ID != "prod-2" {
		t.Errorf("expected newest first, got %q", products[0].ID)
	}
}

// TestService_ListMyProducts は呼び出し元のIDでの絞り込みを検証する。
func TestService_ListMyProducts(t *testing.T) {
	var gotUserID string
	repo := &mockProductRepo{
		listByUserIDFn: func(ctx context.Context, userID string) ([]*model.Product, error) {
			gotUserID = userID
			return []*model.Product{{ID: "prod-1", UserID: userID}}, nil
		},
	}

	svc := NewService(repo, nil, nil)

	products, err := svc.ListMyProducts(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListMyProducts returned error: %v", err)
	}
	if gotUserID != "user-1" {
		t.Errorf("expected filter by 'user-1', got %q", gotUserID)
	}
	if len(products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(products))
	}
}
