package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/cardlink/internal/models"
)

// MockAccessRepository реализует интерфейс AccessRepository.
type MockAccessRepository struct {
	mock.Mock
}

func (m *MockAccessRepository) MarkExpired(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

func (m *MockAccessRepository) FindTrialsExpiringToday(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccessRepository) FindSubscriptionsExpiredToday(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockChannel реализует интерфейс rabbitmq.Channel.
type MockChannel struct {
	mock.Mock
}

func (m *MockChannel) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	args := m.Called(exchange, key, mandatory, immediate, msg)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestRunExpirySweep(t *testing.T) {
	now := time.Date(2025, 7, 1, 3, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		setupMocks func(*MockAccessRepository)
	}{
		{
			name: "успешный свип с обновленными записями",
			setupMocks: func(r *MockAccessRepository) {
				r.On("MarkExpired", mock.Anything, now).Return(3, nil).Once()
			},
		},
		{
			name: "ошибка хранилища только логируется",
			setupMocks: func(r *MockAccessRepository) {
				r.On("MarkExpired", mock.Anything, now).Return(0, errors.New("db error")).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockAccessRepository)
			tt.setupMocks(repo)

			service := NewSchedulerService(repo, newNoopLogger())
			service.now = func() time.Time { return now }

			service.runExpirySweep(context.Background())

			repo.AssertExpectations(t)
		})
	}
}

func TestRunNotifyTrialsExpiring(t *testing.T) {
	user := &models.User{
		UID:      "uid-1",
		Email:    "test@example.com",
		Username: "testuser",
	}

	tests := []struct {
		name       string
		setupMocks func(*MockAccessRepository, *MockChannel)
	}{
		{
			name: "найденные пользователи публикуются в очередь",
			setupMocks: func(r *MockAccessRepository, c *MockChannel) {
				r.On("FindTrialsExpiringToday", mock.Anything).Return([]*models.User{user}, nil).Once()
				c.On("Publish", "notifications", "trial-expiring", false, false,
					mock.AnythingOfType("amqp.Publishing")).Return(nil).Once()
			},
		},
		{
			name: "нет истекающих пробных периодов",
			setupMocks: func(r *MockAccessRepository, _ *MockChannel) {
				r.On("FindTrialsExpiringToday", mock.Anything).Return([]*models.User{}, nil).Once()
			},
		},
		{
			name: "ошибка хранилища только логируется",
			setupMocks: func(r *MockAccessRepository, _ *MockChannel) {
				r.On("FindTrialsExpiringToday", mock.Anything).Return(nil, errors.New("db error")).Once()
			},
		},
		{
			name: "ошибка публикации только логируется",
			setupMocks: func(r *MockAccessRepository, c *MockChannel) {
				r.On("FindTrialsExpiringToday", mock.Anything).Return([]*models.User{user}, nil).Once()
				c.On("Publish", "notifications", "trial-expiring", false, false,
					mock.AnythingOfType("amqp.Publishing")).Return(errors.New("broker down")).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockAccessRepository)
			channel := new(MockChannel)
			tt.setupMocks(repo, channel)

			service := NewSchedulerService(repo, newNoopLogger())

			service.runNotifyTrialsExpiring(context.Background(), channel)

			repo.AssertExpectations(t)
			channel.AssertExpectations(t)
		})
	}
}

func TestRunNotifySubscriptionsExpired(t *testing.T) {
	user := &models.User{
		UID:      "uid-2",
		Email:    "expired@example.com",
		Username: "expireduser",
	}

	repo := new(MockAccessRepository)
	channel := new(MockChannel)
	repo.On("FindSubscriptionsExpiredToday", mock.Anything).Return([]*models.User{user}, nil).Once()
	channel.On("Publish", "notifications", "subscription-expired", false, false,
		mock.AnythingOfType("amqp.Publishing")).Return(nil).Once()

	service := NewSchedulerService(repo, newNoopLogger())

	service.runNotifySubscriptionsExpired(context.Background(), channel)

	repo.AssertExpectations(t)
	channel.AssertExpectations(t)
}
