// Package casetracker предоставляет маршруты основного приложения.
package casetracker

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/caseconnect/casetracker/internal/http/handlers/account/userlist"
	"github.com/caseconnect/casetracker/internal/http/handlers/account/userremove"
	"github.com/caseconnect/casetracker/internal/http/handlers/auth/login"
	"github.com/caseconnect/casetracker/internal/http/handlers/auth/logout"
	"github.com/caseconnect/casetracker/internal/http/handlers/auth/register"
	"github.com/caseconnect/casetracker/internal/http/handlers/cases/casecreate"
	"github.com/caseconnect/casetracker/internal/http/handlers/cases/caselist"
	"github.com/caseconnect/casetracker/internal/http/handlers/cases/caseread"
	"github.com/caseconnect/casetracker/internal/http/handlers/cases/caseremove"
	"github.com/caseconnect/casetracker/internal/http/handlers/cases/caseupdate"
	"github.com/caseconnect/casetracker/internal/http/handlers/cases/documentupload"
	"github.com/caseconnect/casetracker/internal/http/handlers/cases/hearingreport"
	"github.com/caseconnect/casetracker/internal/http/handlers/cases/summarize"
	"github.com/caseconnect/casetracker/internal/http/handlers/client/clientcreate"
	"github.com/caseconnect/casetracker/internal/http/handlers/client/clientlist"
	"github.com/caseconnect/casetracker/internal/http/handlers/client/clientread"
	"github.com/caseconnect/casetracker/internal/http/handlers/client/clientremove"
	"github.com/caseconnect/casetracker/internal/http/handlers/client/clientupdate"
	"github.com/caseconnect/casetracker/internal/http/handlers/payment/initiate"
	"github.com/caseconnect/casetracker/internal/http/handlers/payment/phonepecallback"
	"github.com/caseconnect/casetracker/internal/http/handlers/payment/razorpaycallback"
	"github.com/caseconnect/casetracker/internal/http/handlers/subscription/gatewayget"
	"github.com/caseconnect/casetracker/internal/http/handlers/subscription/gatewayupdate"
	"github.com/caseconnect/casetracker/internal/http/handlers/subscription/packagelist"
	"github.com/caseconnect/casetracker/internal/http/handlers/subscription/packageread"
	"github.com/caseconnect/casetracker/internal/http/handlers/subscription/packageupdate"
	"github.com/caseconnect/casetracker/internal/http/handlers/subscription/usersubbyuser"
	"github.com/caseconnect/casetracker/internal/http/handlers/subscription/usersubcreate"
	"github.com/caseconnect/casetracker/internal/http/handlers/subscription/usersublatest"
	"github.com/caseconnect/casetracker/internal/http/handlers/subscription/usersublist"
	"github.com/caseconnect/casetracker/internal/http/handlers/subscription/usersubread"
	"github.com/caseconnect/casetracker/internal/http/handlers/superadmin/advocatecreate"
	"github.com/caseconnect/casetracker/internal/http/handlers/superadmin/advocatelist"
	"github.com/caseconnect/casetracker/internal/http/handlers/superadmin/advocateread"
	"github.com/caseconnect/casetracker/internal/http/handlers/superadmin/advocateremove"
	"github.com/caseconnect/casetracker/internal/http/handlers/superadmin/advocateupdate"
	"github.com/caseconnect/casetracker/internal/http/middlewarectx"
	"github.com/caseconnect/casetracker/internal/lib/jwt"
	"github.com/caseconnect/casetracker/internal/models"
	"github.com/caseconnect/casetracker/internal/paymentprovider"
	authservice "github.com/caseconnect/casetracker/internal/services/auth"
	casesservice "github.com/caseconnect/casetracker/internal/services/cases"
	paymentservice "github.com/caseconnect/casetracker/internal/services/payment"
	subservice "github.com/caseconnect/casetracker/internal/services/subscription"
	"github.com/caseconnect/casetracker/internal/services/summarizer"
	"github.com/caseconnect/casetracker/internal/session"
	"github.com/caseconnect/casetracker/internal/storage/repository"
)

// RouteDeps — зависимости, которые используют маршруты приложения.
type RouteDeps struct {
	Auth         *authservice.Service
	Subscription *subservice.Service
	Cases        *casesservice.Service
	Payment      *paymentservice.Service
	Summarizer   *summarizer.Client
	Razorpay     *paymentprovider.RazorpayClient
	Users        *repository.Storage
	JWTMaker     jwt.Maker
	Sessions     session.Store
	UploadDir    string
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, deps *RouteDeps) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	authMW := middlewarectx.AuthMiddleware(deps.JWTMaker, deps.Sessions, logger)
	limiter := rate.NewLimiter(10, 30)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/account", func(r chi.Router) {
			r.Post("/register", register.New(logger, deps.Auth).ServeHTTP)
			r.Post("/login", login.New(logger, deps.Auth).ServeHTTP)
			r.Post("/logout", logout.New(logger, deps.Auth).ServeHTTP)

			r.Group(func(r chi.Router) {
				r.Use(authMW)
				r.Use(middlewarectx.RequireRoles(logger, models.RoleSuperAdmin))
				r.Get("/users", userlist.New(logger, deps.Users).ServeHTTP)
				r.Delete("/users/{id}", userremove.New(logger, deps.Users).ServeHTTP)
			})
		})

		r.Route("/advocate", func(r chi.Router) {
			r.Use(authMW)
			r.Use(middlewarectx.RateLimitMiddleware(logger, limiter))
			r.Use(middlewarectx.SubscriptionGuard(logger, deps.Subscription))

			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRoles(logger, models.RoleAdvocate))
				r.Post("/clients", clientcreate.New(logger, deps.Cases).ServeHTTP)
				r.Get("/clients", clientlist.New(logger, deps.Cases).ServeHTTP)
				r.Get("/clients/{id}", clientread.New(logger, deps.Cases).ServeHTTP)
				r.Put("/clients/{id}", clientupdate.New(logger, deps.Cases).ServeHTTP)
				r.Delete("/clients/{id}", clientremove.New(logger, deps.Cases).ServeHTTP)

				r.Post("/cases", casecreate.New(logger, deps.Cases).ServeHTTP)
				r.Put("/cases/{id}", caseupdate.New(logger, deps.Cases).ServeHTTP)
				r.Delete("/cases/{id}", caseremove.New(logger, deps.Cases).ServeHTTP)
				r.Get("/hearings/today", hearingreport.New(logger, deps.Cases).ServeHTTP)
				r.Post("/upload-document", documentupload.New(logger, deps.Cases, deps.UploadDir).ServeHTTP)
				r.Post("/cases/{id}/summarize", summarize.New(logger, deps.Cases, deps.Summarizer).ServeHTTP)
			})

			// Список и карточку дел видит и клиент: выборка сужается по роли.
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRoles(logger, models.RoleAdvocate, models.RoleClient))
				r.Get("/cases", caselist.New(logger, deps.Cases).ServeHTTP)
				r.Get("/cases/{id}", caseread.New(logger, deps.Cases).ServeHTTP)
			})
		})

		r.Route("/subscription", func(r chi.Router) {
			r.Use(authMW)
			r.Get("/packages", packagelist.New(logger, deps.Subscription).ServeHTTP)
			r.Get("/packages/{id}", packageread.New(logger, deps.Subscription).ServeHTTP)
			r.Get("/usersubscriptions", usersublist.New(logger, deps.Subscription).ServeHTTP)
			r.Get("/usersubscriptions/latest", usersublatest.New(logger, deps.Subscription).ServeHTTP)
			r.Get("/gateway", gatewayget.New(logger, deps.Subscription).ServeHTTP)

			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRoles(logger, models.RoleSuperAdmin))
				r.Put("/packages/{id}", packageupdate.New(logger, deps.Subscription).ServeHTTP)
				r.Post("/usersubscriptions", usersubcreate.New(logger, deps.Subscription).ServeHTTP)
				r.Get("/usersubscriptions/by-user/{userId}", usersubbyuser.New(logger, deps.Subscription).ServeHTTP)
				r.Get("/usersubscriptions/{id}", usersubread.New(logger, deps.Subscription).ServeHTTP)
				r.Put("/gateway", gatewayupdate.New(logger, deps.Subscription).ServeHTTP)
			})
		})

		r.Route("/superadmin", func(r chi.Router) {
			r.Use(authMW)
			r.Use(middlewarectx.RequireRoles(logger, models.RoleSuperAdmin))
			r.Post("/advocates", advocatecreate.New(logger, deps.Users).ServeHTTP)
			r.Get("/advocates", advocatelist.New(logger, deps.Users).ServeHTTP)
			r.Get("/advocates/{id}", advocateread.New(logger, deps.Users).ServeHTTP)
			r.Put("/advocates/{id}", advocateupdate.New(logger, deps.Users).ServeHTTP)
			r.Delete("/advocates/{id}", advocateremove.New(logger, deps.Users).ServeHTTP)
		})

		r.Route("/phonepe", func(r chi.Router) {
			r.With(authMW).Post("/initiate",
				initiate.New(logger, deps.Payment, models.GatewayPhonePe).ServeHTTP)
			// Колбэк приходит от провайдера без токена.
			r.Post("/callback", phonepecallback.New(logger, deps.Payment).ServeHTTP)
		})

		r.Route("/razorpay", func(r chi.Router) {
			r.With(authMW).Post("/initiate",
				initiate.New(logger, deps.Payment, models.GatewayRazorpay).ServeHTTP)
			r.Post("/callback", razorpaycallback.New(logger, deps.Payment, deps.Razorpay).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
