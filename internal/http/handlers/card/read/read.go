// Package read реализует HTTP-обработчик для получения визитки по ID.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/cardlink/internal/http/response"
	"github.com/magabrotheeeer/cardlink/internal/lib/sl"
	"github.com/magabrotheeeer/cardlink/internal/models"
	"github.com/magabrotheeeer/cardlink/internal/storage/repository"
)

// Service описывает интерфейс бизнес-логики чтения визитки.
type Service interface {
	Read(ctx context.Context, id int) (*models.Card, error)
}

// Handler обрабатывает HTTP-запросы на чтение визитки по ID.
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
// @Summary Получить визитку по ID
// @Description Возвращает визитку по её идентификатору.
// @Tags Cards
// @Produce  json
// @Param id path int true "ID визитки"
// @Success 200 {object} map[string]any "Визитка найдена"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Визитка не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка при чтении визитки"
// @Router /cards/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.card.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		log.Error("invalid id format", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	card, err := h.service.Read(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCardNotFound) {
			log.Error("card not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("card not found"))
			return
		}
		log.Error("failed to read card", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read card"))
		return
	}

	log.Info("success to read card", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"card": card,
	}))
}
