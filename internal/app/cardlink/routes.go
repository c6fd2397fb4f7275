package cardlink

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/cardlink/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/cardlink/internal/http/handlers/auth/register"
	billingcheckout "github.com/magabrotheeeer/cardlink/internal/http/handlers/billing/checkout"
	billingstatus "github.com/magabrotheeeer/cardlink/internal/http/handlers/billing/status"
	cardcreate "github.com/magabrotheeeer/cardlink/internal/http/handlers/card/create"
	cardlist "github.com/magabrotheeeer/cardlink/internal/http/handlers/card/list"
	cardpublic "github.com/magabrotheeeer/cardlink/internal/http/handlers/card/public"
	cardread "github.com/magabrotheeeer/cardlink/internal/http/handlers/card/read"
	cardremove "github.com/magabrotheeeer/cardlink/internal/http/handlers/card/remove"
	cardupdate "github.com/magabrotheeeer/cardlink/internal/http/handlers/card/update"
	"github.com/magabrotheeeer/cardlink/internal/http/handlers/health"
	"github.com/magabrotheeeer/cardlink/internal/http/handlers/payment/webhook"
	presentationcreate "github.com/magabrotheeeer/cardlink/internal/http/handlers/presentation/create"
	presentationlist "github.com/magabrotheeeer/cardlink/internal/http/handlers/presentation/list"
	presentationread "github.com/magabrotheeeer/cardlink/internal/http/handlers/presentation/read"
	presentationremove "github.com/magabrotheeeer/cardlink/internal/http/handlers/presentation/remove"
	"github.com/magabrotheeeer/cardlink/internal/http/middlewarectx"
	"github.com/magabrotheeeer/cardlink/internal/lib/jwt"
	accessservice "github.com/magabrotheeeer/cardlink/internal/services/access"
	authservice "github.com/magabrotheeeer/cardlink/internal/services/auth"
	cardservice "github.com/magabrotheeeer/cardlink/internal/services/card"
	paymentservice "github.com/magabrotheeeer/cardlink/internal/services/payment"
	presentationservice "github.com/magabrotheeeer/cardlink/internal/services/presentation"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(
	r chi.Router,
	logger *slog.Logger,
	maker jwt.Maker,
	authSvc *authservice.AuthService,
	accessSvc *accessservice.AccessService,
	cardSvc *cardservice.CardService,
	presentationSvc *presentationservice.PresentationService,
	paymentSvc *paymentservice.PaymentService,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authSvc).ServeHTTP)
		r.Post("/login", login.New(logger, authSvc).ServeHTTP)
		r.Get("/c/{slug}", cardpublic.New(logger, cardSvc).ServeHTTP)
		r.Get("/health", health.New(logger).ServeHTTP)

		// Группа с JWT аутентификацией: чтение и биллинг доступны
		// и пользователям с истекшим доступом.
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(maker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Get("/billing/status", billingstatus.New(logger, accessSvc).ServeHTTP)
			r.Post("/billing/checkout", billingcheckout.New(logger, paymentSvc).ServeHTTP)

			r.Get("/cards", cardlist.New(logger, cardSvc).ServeHTTP)
			r.Get("/cards/{id}", cardread.New(logger, cardSvc).ServeHTTP)
			r.Get("/presentations", presentationlist.New(logger, presentationSvc).ServeHTTP)
			r.Get("/presentations/{id}", presentationread.New(logger, presentationSvc).ServeHTTP)

			// Изменяющие операции требуют действующего доступа.
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.AccessMiddleware(accessSvc, logger))

				r.Post("/cards", cardcreate.New(logger, cardSvc).ServeHTTP)
				r.Put("/cards/{id}", cardupdate.New(logger, cardSvc).ServeHTTP)
				r.Delete("/cards/{id}", cardremove.New(logger, cardSvc).ServeHTTP)

				r.Post("/presentations", presentationcreate.New(logger, presentationSvc).ServeHTTP)
				r.Delete("/presentations/{id}", presentationremove.New(logger, presentationSvc).ServeHTTP)
			})
		})

		// Webhook endpoint (без аутентификации)
		r.Post("/payments/webhook", webhook.New(logger, paymentSvc).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
