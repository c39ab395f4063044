package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/productify/internal/metrics"
	"github.com/hitoshi/productify/internal/middleware"
)

// HealthChecker はヘルスチェックに必要なインターフェース。
// sql.DBがそのまま満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	HealthChecker     HealthChecker
	IdentityVerifier  middleware.IdentityVerifier
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter

	// メトリクス
	MetricsGatherer  prometheus.Gatherer
	MetricsCollector metrics.MetricsCollector

	// ドメインサービス
	UserService    UserServiceInterface
	ProductService ProductServiceInterface
	CommentService CommentServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → SecurityHeaders → Recovery → Logging → Metrics → Identity
//
// identityミドルウェアはトークンが添付されていれば検証してコンテキストに注入し、
// なければそのまま通過させる。認証必須ルートはRequireIdentityでゲートする。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	// 全ルートに効くミドルウェア
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(slog.Default()))
	if deps.MetricsCollector != nil {
		r.Use(metrics.NewHTTPMetricsMiddleware(deps.MetricsCollector))
	}
	r.Use(middleware.NewIdentityMiddleware(deps.IdentityVerifier))

	userHandler := NewUserHandler(deps.UserService)
	productHandler := NewProductHandler(deps.ProductService)
	commentHandler := NewCommentHandler(deps.CommentService)

	// --- 認証不要のルート ---

	r.Get("/health", NewHealthHandler(deps.HealthChecker))

	if deps.MetricsGatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.MetricsGatherer))
	}

	// プロダクトの読み取りは公開
	r.Get("/api/products", productHandler.ListProducts)
	r.Get("/api/products/{id}", productHandler.GetProduct)
	r.Get("/api/products/{id}/comments", commentHandler.ListByProduct)

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: RequireIdentity → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewRequireIdentityMiddleware())
		r.Use(deps.RateLimiter.GeneralMiddleware())

		mutation := deps.RateLimiter.MutationMiddleware()

		// ユーザー管理
		r.Route("/api/users", func(r chi.Router) {
			r.Post("/sync", userHandler.SyncUser)
			r.With(mutation).Delete("/me", userHandler.Withdraw)
		})

		// プロダクト管理
		r.Get("/api/products/my", productHandler.ListMyProducts)
		r.With(mutation).Post("/api/products", productHandler.CreateProduct)
		r.With(mutation).Put("/api/products/{id}", productHandler.UpdateProduct)
		r.With(mutation).Delete("/api/products/{id}", productHandler.DeleteProduct)

		// コメント管理
		r.Route("/api/comments", func(r chi.Router) {
			r.With(mutation).Post("/{productId}", commentHandler.CreateComment)
			r.With(mutation).Delete("/{id}", commentHandler.DeleteComment)
		})
	})

	return r
}

// NewHealthHandler はDB接続を確認するヘルスチェックハンドラーを返す。
// GET /health
func NewHealthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker != nil {
			if err := checker.PingContext(r.Context()); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				writeJSONResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
