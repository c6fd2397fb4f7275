// Package services содержит фоновый планировщик: свип истекших записей доступа
// и публикацию уведомлений об окончании пробного периода и подписки.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/cardlink/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/cardlink/internal/lib/sl"
	"github.com/magabrotheeeer/cardlink/internal/models"
)

// AccessRepository описывает методы хранилища, нужные планировщику.
type AccessRepository interface {
	MarkExpired(ctx context.Context, now time.Time) (int, error)
	FindTrialsExpiringToday(ctx context.Context) ([]*models.User, error)
	FindSubscriptionsExpiredToday(ctx context.Context) ([]*models.User, error)
}

// SchedulerService выполняет периодические задачи по записям доступа.
type SchedulerService struct {
	repo AccessRepository
	log  *slog.Logger
	now  func() time.Time
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(repo AccessRepository, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// RunExpirySweep периодически помечает истекшие записи доступа.
// Свип гигиенический: актуальность статуса обеспечивает вычислитель доступа,
// свип лишь приводит хранимые метки в соответствие для отчетности и уведомлений.
func (s *SchedulerService) RunExpirySweep(ctx context.Context) {
	s.runExpirySweep(ctx)

	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runExpirySweep(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (s *SchedulerService) runExpirySweep(ctx context.Context) {
	s.log.Info("starting access expiry sweep")
	count, err := s.repo.MarkExpired(ctx, s.now())
	if err != nil {
		s.log.Error("failed to mark expired access records", sl.Err(err))
		return
	}
	s.log.Info("access expiry sweep finished", "marked", count)
}

// NotifyTrialsExpiring периодически публикует уведомления о пользователях,
// у которых сегодня заканчивается пробный период.
func (s *SchedulerService) NotifyTrialsExpiring(ctx context.Context, channel rabbitmq.Channel) {
	s.runNotifyTrialsExpiring(ctx, channel)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runNotifyTrialsExpiring(ctx, channel)
		case <-ctx.Done():
			return
		}
	}
}

func (s *SchedulerService) runNotifyTrialsExpiring(ctx context.Context, channel rabbitmq.Channel) {
	s.log.Info("starting service to find expiring trial periods")
	users, err := s.repo.FindTrialsExpiringToday(ctx)
	if err != nil {
		s.log.Error("failed to find users with expiring trial", sl.Err(err))
		return
	}
	if len(users) == 0 {
		s.log.Info("no expiring trial periods found")
		return
	}
	s.log.Info("found expiring trial periods", "count", len(users))
	for _, user := range users {
		if err = rabbitmq.PublishMessage(channel, "notifications", "trial-expiring", user); err != nil {
			s.log.Error("failed to publish message", sl.Err(err))
		}
	}
}

// NotifySubscriptionsExpired периодически публикует уведомления о пользователях,
// у которых сегодня закончилась оплаченная подписка.
func (s *SchedulerService) NotifySubscriptionsExpired(ctx context.Context, channel rabbitmq.Channel) {
	s.runNotifySubscriptionsExpired(ctx, channel)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runNotifySubscriptionsExpired(ctx, channel)
		case <-ctx.Done():
			return
		}
	}
}

func (s *SchedulerService) runNotifySubscriptionsExpired(ctx context.Context, channel rabbitmq.Channel) {
	s.log.Info("starting service to find expired subscriptions")
	users, err := s.repo.FindSubscriptionsExpiredToday(ctx)
	if err != nil {
		s.log.Error("failed to find users with expired subscription", sl.Err(err))
		return
	}
	if len(users) == 0 {
		s.log.Info("no expired subscriptions found")
		return
	}
	s.log.Info("found expired subscriptions", "count", len(users))
	for _, user := range users {
		if err = rabbitmq.PublishMessage(channel, "notifications", "subscription-expired", user); err != nil {
			s.log.Error("failed to publish message", sl.Err(err))
		}
	}
}
