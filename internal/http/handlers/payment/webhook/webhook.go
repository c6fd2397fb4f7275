// Package webhook реализует HTTP-обработчик уведомлений платёжного провайдера.
//
// Handler принимает уведомление о платеже, передает его сервису сверки
// и отвечает провайдеру. Ответ 200 означает, что уведомление принято и
// повторная доставка не нужна — в том числе для проигнорированных и
// отклонённых уведомлений. Ошибки сервиса возвращаются статусом 5xx,
// чтобы провайдер повторил доставку.
package webhook

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/cardlink/internal/http/response"
	"github.com/magabrotheeeer/cardlink/internal/lib/sl"
	"github.com/magabrotheeeer/cardlink/internal/models"
	paymentservice "github.com/magabrotheeeer/cardlink/internal/services/payment"
)

// Service описывает интерфейс сверки платежного уведомления.
type Service interface {
	ProcessNotification(ctx context.Context, notif models.PaymentNotification) (paymentservice.Outcome, error)
}

// Handler обрабатывает HTTP-уведомления платёжного провайдера.
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
// @Summary Принять уведомление платёжного провайдера
// @Description Принимает уведомление о платеже, запрашивает детали у провайдера и активирует подписку при подтверждённой оплате.
// @Tags Billing
// @Accept  json
// @Produce  json
// @Param request body models.PaymentNotification true "Уведомление провайдера"
// @Success 200 {object} map[string]any "Уведомление принято"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 500 {object} response.ErrorResponse "Ошибка обработки, провайдер повторит доставку"
// @Router /payments/webhook [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.webhook"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var notif models.PaymentNotification
	if err := json.NewDecoder(r.Body).Decode(&notif); err != nil {
		log.Error("failed to decode webhook payload", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	outcome, err := h.service.ProcessNotification(r.Context(), notif)
	if err != nil {
		log.Error("failed to process payment notification", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to process notification"))
		return
	}

	log.Info("payment notification processed",
		slog.String("payment_id", notif.Data.ID),
		slog.String("outcome", string(outcome)))
	render.JSON(w, r, map[string]any{
		"received": true,
	})
}
