// Package status реализует HTTP-обработчик состояния доступа пользователя.
//
// Handler возвращает вычисленное состояние доступа: есть ли доступ,
// пробный ли это период и сколько дней осталось.
package status

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/cardlink/internal/access"
	"github.com/magabrotheeeer/cardlink/internal/http/middlewarectx"
	"github.com/magabrotheeeer/cardlink/internal/http/response"
	"github.com/magabrotheeeer/cardlink/internal/lib/sl"
)

// Service описывает интерфейс вычисления состояния доступа.
type Service interface {
	Evaluate(ctx context.Context, userUID string) (*access.Info, error)
}

// Handler обрабатывает HTTP-запросы на получение состояния доступа.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить состояние доступа
// @Description Возвращает вычисленное состояние доступа текущего пользователя: статус, признак пробного периода и остаток дней.
// @Tags Billing
// @Produce  json
// @Success 200 {object} map[string]any "Состояние доступа"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка при вычислении доступа"
// @Router /billing/status [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.status"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	info, err := h.service.Evaluate(r.Context(), userUID)
	if err != nil {
		log.Error("failed to evaluate access", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not evaluate access"))
		return
	}

	log.Info("success to evaluate access", slog.String("status", info.Status))
	render.JSON(w, r, response.OKWithData(info))
}
