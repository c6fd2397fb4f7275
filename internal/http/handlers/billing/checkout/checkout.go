// Package checkout реализует HTTP-обработчик создания ссылки на оплату подписки.
//
// Handler определяет через сервис тип покупки (первый год со скидкой или продление),
// создает у платёжного провайдера предпочтение оплаты и возвращает ссылку.
package checkout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/cardlink/internal/http/middlewarectx"
	"github.com/magabrotheeeer/cardlink/internal/http/response"
	"github.com/magabrotheeeer/cardlink/internal/lib/sl"
)

// Service описывает интерфейс бизнес-логики создания оплаты.
type Service interface {
	CreateCheckout(ctx context.Context, userUID string) (string, error)
}

// Handler обрабатывает HTTP-запросы на создание ссылки оплаты.
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
// @Summary Создать ссылку на оплату подписки
// @Description Создает у платёжного провайдера сессию оплаты годовой подписки и возвращает ссылку для перехода. Цена первого года ниже цены продления.
// @Tags Billing
// @Produce  json
// @Success 200 {object} map[string]any "Ссылка на оплату"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка при создании оплаты"
// @Router /billing/checkout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.checkout"
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

	url, err := h.service.CreateCheckout(r.Context(), userUID)
	if err != nil {
		log.Error("failed to create checkout", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create checkout"))
		return
	}

	log.Info("success to create checkout", slog.String("user_uid", userUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"checkout_url": url,
	}))
}
