// Package services содержит бизнес-логику работы с AI-презентациями.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/cardlink/internal/models"
	"github.com/magabrotheeeer/cardlink/internal/plans"
	accessservice "github.com/magabrotheeeer/cardlink/internal/services/access"
)

// ErrLimitReached возвращается, когда квота тарифного плана не позволяет создать презентацию.
var ErrLimitReached = errors.New("plan limit reached")

// PresentationRepository определяет методы для работы с презентациями в хранилище.
type PresentationRepository interface {
	CreatePresentation(ctx context.Context, p models.Presentation) (int, error)
	ReadPresentation(ctx context.Context, id int, userUID string) (*models.Presentation, error)
	RemovePresentation(ctx context.Context, id int, userUID string) (int, error)
	ListPresentations(ctx context.Context, userUID string, limit, offset int) ([]*models.Presentation, error)
}

// Gate проверяет доступ и квоту перед созданием ресурса.
type Gate interface {
	CanCreate(ctx context.Context, userUID string, kind plans.ResourceKind) (*accessservice.GateResult, error)
}

// PresentationService реализует бизнес-логику работы с презентациями.
type PresentationService struct {
	repo PresentationRepository
	gate Gate
	log  *slog.Logger
}

// NewPresentationService создает новый экземпляр PresentationService.
func NewPresentationService(repo PresentationRepository, gate Gate, log *slog.Logger) *PresentationService {
	return &PresentationService{
		repo: repo,
		gate: gate,
		log:  log,
	}
}

// Create создает презентацию, предварительно проверив квоту плана,
// и возвращает ID созданной записи.
func (s *PresentationService) Create(ctx context.Context, userUID string, req models.DummyPresentation) (int, error) {
	res, err := s.gate.CanCreate(ctx, userUID, plans.ResourcePresentations)
	if err != nil {
		return 0, err
	}
	if !res.Allowed {
		return 0, fmt.Errorf("%w: %s", ErrLimitReached, res.Reason)
	}

	p := models.Presentation{
		UserUID: userUID,
		Title:   req.Title,
		Topic:   req.Topic,
		Slides:  req.Slides,
	}
	id, err := s.repo.CreatePresentation(ctx, p)
	if err != nil {
		return 0, err
	}
	s.log.Info("created new presentation", slog.Int("id", id), slog.String("user_uid", userUID))
	return id, nil
}

// Read возвращает презентацию владельца по ID.
func (s *PresentationService) Read(ctx context.Context, id int, userUID string) (*models.Presentation, error) {
	return s.repo.ReadPresentation(ctx, id, userUID)
}

// Remove удаляет презентацию владельца и возвращает количество удаленных строк.
func (s *PresentationService) Remove(ctx context.Context, id int, userUID string) (int, error) {
	return s.repo.RemovePresentation(ctx, id, userUID)
}

// List возвращает презентации пользователя с пагинацией.
func (s *PresentationService) List(ctx context.Context, userUID string, limit, offset int) ([]*models.Presentation, error) {
	return s.repo.ListPresentations(ctx, userUID, limit, offset)
}
