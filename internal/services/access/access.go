// Package services содержит бизнес-логику доступа: выдачу пробного периода,
// активацию оплаченной подписки и проверку квот тарифного плана.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/cardlink/internal/access"
	"github.com/magabrotheeeer/cardlink/internal/models"
	"github.com/magabrotheeeer/cardlink/internal/plans"
)

// TrialPeriodDays длина пробного периода, выдаваемого при регистрации.
const TrialPeriodDays = 7

// AccessRepository определяет методы работы с записями доступа в хранилище.
type AccessRepository interface {
	// CreateAccessRecord создает запись доступа, если её ещё нет.
	CreateAccessRecord(ctx context.Context, rec models.AccessRecord) error
	// GetAccessRecord возвращает запись доступа пользователя.
	GetAccessRecord(ctx context.Context, userUID string) (*models.AccessRecord, error)
	// ActivateSubscription перезаписывает запись оплаченным периодом.
	ActivateSubscription(ctx context.Context, userUID string, start, end time.Time, isFirstYear bool) error
	// CountCards возвращает количество визиток пользователя.
	CountCards(ctx context.Context, userUID string) (int, error)
	// CountPresentations возвращает количество презентаций пользователя.
	CountPresentations(ctx context.Context, userUID string) (int, error)
}

// Cache описывает методы для кэширования вычисленного состояния доступа.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// GateResult результат проверки квоты перед созданием ресурса.
type GateResult struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// AccessService реализует бизнес-логику доступа.
type AccessService struct {
	repo  AccessRepository
	cache Cache
	log   *slog.Logger
	now   func() time.Time
}

// NewAccessService создает новый экземпляр AccessService.
func NewAccessService(repo AccessRepository, cache Cache, log *slog.Logger) *AccessService {
	return &AccessService{
		repo:  repo,
		cache: cache,
		log:   log,
		now:   time.Now,
	}
}

// GrantTrial выдает пользователю пробный период.
// Вызывается один раз при регистрации; повторный вызов не меняет запись.
func (s *AccessService) GrantTrial(ctx context.Context, userUID string) error {
	now := s.now()
	rec := models.AccessRecord{
		UserUID:        userUID,
		Status:         models.AccessStatusTrial,
		TrialStartDate: now,
		TrialEndDate:   now.AddDate(0, 0, TrialPeriodDays),
	}
	if err := s.repo.CreateAccessRecord(ctx, rec); err != nil {
		return err
	}
	s.log.Info("granted trial period", slog.String("user_uid", userUID))
	return nil
}

// Evaluate возвращает фактическое состояние доступа пользователя.
// Состояние кешируется с коротким TTL; все проверки доступа в системе
// должны идти через этот метод, а не по хранимому статусу.
func (s *AccessService) Evaluate(ctx context.Context, userUID string) (*access.Info, error) {
	var cached access.Info
	cacheKey := fmt.Sprintf("access:%s", userUID)
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read access cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found {
		return &cached, nil
	}

	rec, err := s.repo.GetAccessRecord(ctx, userUID)
	if err != nil {
		return nil, err
	}
	info := access.Evaluate(rec, s.now())

	if err := s.cache.Set(cacheKey, info, 5*time.Minute); err != nil {
		s.log.Warn("failed to cache access info", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return &info, nil
}

// Activate переводит запись доступа пользователя в оплаченное состояние.
// Единственный путь выдачи платного доступа; вызывается только обработчиком
// платёжного вебхука. Повторная активация безопасна: запись перезаписывается.
func (s *AccessService) Activate(ctx context.Context, userUID string, periodEnd time.Time, isFirstYear bool) error {
	if err := s.repo.ActivateSubscription(ctx, userUID, s.now(), periodEnd, isFirstYear); err != nil {
		return err
	}

	cacheKey := fmt.Sprintf("access:%s", userUID)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate access cache", slog.String("key", cacheKey), slog.Any("err", err))
	}

	s.log.Info("activated subscription",
		slog.String("user_uid", userUID),
		slog.Time("period_end", periodEnd),
		slog.Bool("is_first_year", isFirstYear))
	return nil
}

// CanCreate проверяет, может ли пользователь создать ещё один ресурс kind.
// Проверка рекомендательная: между проверкой и созданием нет транзакции,
// два одновременных запроса могут пройти проверку до первой записи.
func (s *AccessService) CanCreate(ctx context.Context, userUID string, kind plans.ResourceKind) (*GateResult, error) {
	info, err := s.Evaluate(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if !info.HasAccess {
		return &GateResult{Allowed: false, Reason: "subscription/trial expired"}, nil
	}

	tier := plans.TierPaid
	if info.IsTrialUser {
		tier = plans.TierTrial
	}

	var count int
	switch kind {
	case plans.ResourceCards:
		count, err = s.repo.CountCards(ctx, userUID)
	case plans.ResourcePresentations:
		count, err = s.repo.CountPresentations(ctx, userUID)
	default:
		return &GateResult{Allowed: false, Reason: fmt.Sprintf("unknown resource kind %q", kind)}, nil
	}
	if err != nil {
		return nil, err
	}

	if !plans.Allows(tier, kind, count) {
		return &GateResult{
			Allowed: false,
			Reason:  fmt.Sprintf("plan limit reached for %s", kind),
		}, nil
	}
	return &GateResult{Allowed: true}, nil
}
