// Package public реализует HTTP-обработчик публичной страницы визитки.
//
// Handler извлекает слаг из URL и возвращает опубликованную визитку
// без проверки авторизации: ссылка предназначена для внешних посетителей.
package public

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/cardlink/internal/http/response"
	"github.com/magabrotheeeer/cardlink/internal/lib/sl"
	"github.com/magabrotheeeer/cardlink/internal/models"
	"github.com/magabrotheeeer/cardlink/internal/storage/repository"
)

// Service описывает интерфейс бизнес-логики чтения публичной визитки.
type Service interface {
	ReadBySlug(ctx context.Context, slug string) (*models.Card, error)
}

// Handler обрабатывает HTTP-запросы на просмотр публичной визитки.
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
// @Summary Открыть публичную визитку
// @Description Возвращает опубликованную визитку по публичному слагу. Авторизация не требуется.
// @Tags Cards
// @Produce  json
// @Param slug path string true "Публичный слаг визитки"
// @Success 200 {object} map[string]any "Визитка найдена"
// @Failure 404 {object} response.ErrorResponse "Визитка не найдена или не опубликована"
// @Failure 500 {object} response.ErrorResponse "Ошибка при чтении визитки"
// @Router /c/{slug} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.card.public"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	slug := chi.URLParam(r, "slug")
	if slug == "" {
		log.Error("empty slug")
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("card not found"))
		return
	}

	card, err := h.service.ReadBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, repository.ErrCardNotFound) {
			log.Info("card not found", slog.String("slug", slug))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("card not found"))
			return
		}
		log.Error("failed to read card", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read card"))
		return
	}

	log.Info("success to read public card", slog.String("slug", slug))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"card": card,
	}))
}
