package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/cardlink/internal/access"
	"github.com/magabrotheeeer/cardlink/internal/http/response"
	"github.com/magabrotheeeer/cardlink/internal/lib/sl"
)

// Evaluator вычисляет текущее состояние доступа пользователя.
type Evaluator interface {
	Evaluate(ctx context.Context, userUID string) (*access.Info, error)
}

// AccessMiddleware создает middleware, которое запрещает запросы пользователей
// без действующего доступа: пробный период и подписка закончились.
func AccessMiddleware(evaluator Evaluator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userUID, ok := r.Context().Value(UserUID).(string)
			if !ok || userUID == "" {
				log.Error("user identification missing")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			info, err := evaluator.Evaluate(r.Context(), userUID)
			if err != nil {
				log.Error("failed to evaluate access", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal service error"))
				return
			}

			if !info.HasAccess {
				log.Error("access expired, request denied", slog.String("user_uid", userUID))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("subscription expired, access denied"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
