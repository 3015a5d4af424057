// Package studyhub собирает HTTP API каталога учебных инструментов и форума.
package studyhub

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/study-tools-hub/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/study-tools-hub/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/study-tools-hub/internal/http/handlers/forum/commentcreate"
	"github.com/magabrotheeeer/study-tools-hub/internal/http/handlers/forum/commentlist"
	"github.com/magabrotheeeer/study-tools-hub/internal/http/handlers/forum/like"
	"github.com/magabrotheeeer/study-tools-hub/internal/http/handlers/forum/postcreate"
	"github.com/magabrotheeeer/study-tools-hub/internal/http/handlers/forum/postlist"
	"github.com/magabrotheeeer/study-tools-hub/internal/http/handlers/health"
	subscriptioncreate "github.com/magabrotheeeer/study-tools-hub/internal/http/handlers/subscription/create"
	"github.com/magabrotheeeer/study-tools-hub/internal/http/handlers/subscription/mockpayment"
	"github.com/magabrotheeeer/study-tools-hub/internal/http/handlers/subscription/status"
	"github.com/magabrotheeeer/study-tools-hub/internal/http/handlers/subscription/verify"
	"github.com/magabrotheeeer/study-tools-hub/internal/http/handlers/tools/compare"
	toolcreate "github.com/magabrotheeeer/study-tools-hub/internal/http/handlers/tools/create"
	"github.com/magabrotheeeer/study-tools-hub/internal/http/handlers/tools/get"
	toollist "github.com/magabrotheeeer/study-tools-hub/internal/http/handlers/tools/list"
	"github.com/magabrotheeeer/study-tools-hub/internal/http/handlers/tools/seed"
	"github.com/magabrotheeeer/study-tools-hub/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/study-tools-hub/internal/services/auth"
	bootstrap "github.com/magabrotheeeer/study-tools-hub/internal/services/bootstrap"
	forumservice "github.com/magabrotheeeer/study-tools-hub/internal/services/forum"
	subscriptionservice "github.com/magabrotheeeer/study-tools-hub/internal/services/subscription"
	toolsservice "github.com/magabrotheeeer/study-tools-hub/internal/services/tools"
)

// Services сервисы, которые обслуживают маршруты API.
type Services struct {
	Auth         *authservice.AuthService
	Subscription *subscriptionservice.SubscriptionService
	Tools        *toolsservice.ToolService
	Forum        *forumservice.ForumService
	Seeder       *bootstrap.Seeder
	Users        middlewarectx.UserFinder
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, svc Services, limiter *middlewarectx.RateLimiter, metrics *middlewarectx.Metrics, gatherer prometheus.Gatherer) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		metrics.Middleware,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", health.New(logger).ServeHTTP)

		// Регистрация и вход ограничены по частоте запросов с одного адреса
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger, limiter))
			r.Post("/register", register.New(logger, svc.Auth).ServeHTTP)
			r.Post("/login", login.New(logger, svc.Auth).ServeHTTP)
		})

		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(svc.Auth, logger))

			r.Get("/subscription/status", status.New(logger, svc.Subscription).ServeHTTP)
			r.Post("/subscription/create", subscriptioncreate.New(logger, svc.Subscription).ServeHTTP)
			r.Post("/subscription/verify", verify.New(logger, svc.Subscription).ServeHTTP)
			r.Post("/subscription/mock-payment", mockpayment.New(logger, svc.Subscription).ServeHTTP)

			r.Get("/community/posts", postlist.New(logger, svc.Forum).ServeHTTP)
			r.Post("/community/posts", postcreate.New(logger, svc.Forum).ServeHTTP)
			r.Post("/community/posts/{id}/like", like.New(logger, svc.Forum).ServeHTTP)
			r.Get("/community/posts/{id}/comments", commentlist.New(logger, svc.Forum).ServeHTTP)
			r.Post("/community/posts/{id}/comments", commentcreate.New(logger, svc.Forum).ServeHTTP)

			// Каталог только для пользователей с действующей подпиской или пробным периодом
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.SubscriptionMiddleware(logger, svc.Users, svc.Subscription))
				r.Get("/tools", toollist.New(logger, svc.Tools).ServeHTTP)
				r.Get("/tools/compare", compare.New(logger, svc.Tools).ServeHTTP)
				r.Get("/tools/{idOrSlug}", get.New(logger, svc.Tools).ServeHTTP)
			})

			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.AdminOnly(logger))
				r.Post("/tools", toolcreate.New(logger, svc.Tools).ServeHTTP)
				r.Post("/tools/seed", seed.New(logger, svc.Seeder).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
