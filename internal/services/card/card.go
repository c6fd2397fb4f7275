// Package services содержит бизнес-логику работы с визитками.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/cardlink/internal/lib/slug"
	"github.com/magabrotheeeer/cardlink/internal/models"
	"github.com/magabrotheeeer/cardlink/internal/plans"
	accessservice "github.com/magabrotheeeer/cardlink/internal/services/access"
)

// ErrLimitReached возвращается, когда квота тарифного плана не позволяет создать ресурс.
var ErrLimitReached = errors.New("plan limit reached")

// CardRepository определяет методы для работы с визитками в хранилище.
type CardRepository interface {
	CreateCard(ctx context.Context, card models.Card) (int, error)
	ReadCard(ctx context.Context, id int) (*models.Card, error)
	ReadCardBySlug(ctx context.Context, slug string) (*models.Card, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	UpdateCard(ctx context.Context, card models.Card, id int, userUID string) (int, error)
	RemoveCard(ctx context.Context, id int, userUID string) (int, error)
	ListCards(ctx context.Context, userUID string, limit, offset int) ([]*models.Card, error)
}

// Gate проверяет доступ и квоту перед созданием ресурса.
type Gate interface {
	CanCreate(ctx context.Context, userUID string, kind plans.ResourceKind) (*accessservice.GateResult, error)
}

// CardService реализует бизнес-логику работы с визитками.
type CardService struct {
	repo CardRepository
	gate Gate
	log  *slog.Logger
}

// NewCardService создает новый экземпляр CardService.
func NewCardService(repo CardRepository, gate Gate, log *slog.Logger) *CardService {
	return &CardService{
		repo: repo,
		gate: gate,
		log:  log,
	}
}

// Create создает визитку пользователя, предварительно проверив квоту плана,
// и возвращает ID созданной записи.
func (s *CardService) Create(ctx context.Context, userUID string, req models.DummyCard) (int, error) {
	res, err := s.gate.CanCreate(ctx, userUID, plans.ResourceCards)
	if err != nil {
		return 0, err
	}
	if !res.Allowed {
		return 0, fmt.Errorf("%w: %s", ErrLimitReached, res.Reason)
	}

	cardSlug, err := s.uniqueSlug(ctx, req.Title)
	if err != nil {
		return 0, err
	}

	card := models.Card{
		UserUID:     userUID,
		Slug:        cardSlug,
		Title:       req.Title,
		FullName:    req.FullName,
		Company:     req.Company,
		JobTitle:    req.JobTitle,
		Phone:       req.Phone,
		Email:       req.Email,
		Website:     req.Website,
		Theme:       req.Theme,
		IsPublished: true,
	}
	if card.Theme == "" {
		card.Theme = "default"
	}

	id, err := s.repo.CreateCard(ctx, card)
	if err != nil {
		return 0, err
	}
	s.log.Info("created new card", slog.Int("id", id), slog.String("slug", cardSlug))
	return id, nil
}

// uniqueSlug генерирует слаг и повторяет попытку при коллизии.
func (s *CardService) uniqueSlug(ctx context.Context, title string) (string, error) {
	const maxAttempts = 5
	for range maxAttempts {
		candidate := slug.Make(title)
		exists, err := s.repo.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("could not generate unique slug for %q", title)
}

// Read возвращает визитку по ID.
func (s *CardService) Read(ctx context.Context, id int) (*models.Card, error) {
	return s.repo.ReadCard(ctx, id)
}

// ReadBySlug возвращает опубликованную визитку по публичному слагу.
func (s *CardService) ReadBySlug(ctx context.Context, cardSlug string) (*models.Card, error) {
	return s.repo.ReadCardBySlug(ctx, cardSlug)
}

// Update обновляет визитку владельца и возвращает количество обновленных строк.
func (s *CardService) Update(ctx context.Context, req models.DummyCard, id int, userUID string) (int, error) {
	card := models.Card{
		Title:    req.Title,
		FullName: req.FullName,
		Company:  req.Company,
		JobTitle: req.JobTitle,
		Phone:    req.Phone,
		Email:    req.Email,
		Website:  req.Website,
		Theme:    req.Theme,
	}
	return s.repo.UpdateCard(ctx, card, id, userUID)
}

// Remove удаляет визитку владельца и возвращает количество удаленных строк.
func (s *CardService) Remove(ctx context.Context, id int, userUID string) (int, error) {
	return s.repo.RemoveCard(ctx, id, userUID)
}

// List возвращает визитки пользователя с пагинацией.
func (s *CardService) List(ctx context.Context, userUID string, limit, offset int) ([]*models.Card, error) {
	return s.repo.ListCards(ctx, userUID, limit, offset)
}
