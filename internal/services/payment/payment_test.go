package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/cardlink/internal/models"
	"github.com/magabrotheeeer/cardlink/internal/paymentprovider"
)

// MockProvider реализует интерфейс Provider.
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) GetPayment(ctx context.Context, paymentID string) (*paymentprovider.Payment, error) {
	args := m.Called(ctx, paymentID)
	if res := args.Get(0); res != nil {
		return res.(*paymentprovider.Payment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProvider) CreatePreference(ctx context.Context, req paymentprovider.CreatePreferenceRequest) (*paymentprovider.CreatePreferenceResponse, error) {
	args := m.Called(ctx, req)
	if res := args.Get(0); res != nil {
		return res.(*paymentprovider.CreatePreferenceResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockActivator реализует интерфейс Activator.
type MockActivator struct {
	mock.Mock
}

func (m *MockActivator) Activate(ctx context.Context, userUID string, periodEnd time.Time, isFirstYear bool) error {
	args := m.Called(ctx, userUID, periodEnd, isFirstYear)
	return args.Error(0)
}

// MockSubscriptionRepository реализует интерфейс SubscriptionRepository.
type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) UpsertSubscription(ctx context.Context, sub models.SubscriptionRecord) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) GetSubscription(ctx context.Context, userUID string) (*models.SubscriptionRecord, error) {
	args := m.Called(ctx, userUID)
	if res := args.Get(0); res != nil {
		return res.(*models.SubscriptionRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func newTestPaymentService(provider *MockProvider, activator *MockActivator, repo *MockSubscriptionRepository, now time.Time) *PaymentService {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	svc := NewPaymentService(provider, activator, repo, "https://cardlink.test/billing", logger)
	svc.now = func() time.Time { return now }
	return svc
}

func paymentNotification(paymentID string) models.PaymentNotification {
	var n models.PaymentNotification
	n.Type = "payment"
	n.Data.ID = paymentID
	return n
}

func TestProcessNotification(t *testing.T) {
	now := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := now.AddDate(0, 0, 365)

	tests := []struct {
		name        string
		notif       models.PaymentNotification
		setupMocks  func(*MockProvider, *MockActivator, *MockSubscriptionRepository)
		wantOutcome Outcome
		wantErr     bool
	}{
		{
			name: "тип уведомления не payment игнорируется без запросов",
			notif: func() models.PaymentNotification {
				var n models.PaymentNotification
				n.Type = "merchant_order"
				n.Data.ID = "777"
				return n
			}(),
			setupMocks:  func(_ *MockProvider, _ *MockActivator, _ *MockSubscriptionRepository) {},
			wantOutcome: OutcomeIgnored,
		},
		{
			name:  "платеж в статусе pending игнорируется без записей",
			notif: paymentNotification("100"),
			setupMocks: func(p *MockProvider, _ *MockActivator, _ *MockSubscriptionRepository) {
				p.On("GetPayment", mock.Anything, "100").Return(&paymentprovider.Payment{
					ID:     "100",
					Status: paymentprovider.StatusPending,
				}, nil)
			},
			wantOutcome: OutcomeIgnored,
		},
		{
			name:  "подтвержденный платеж первого года активирует доступ",
			notif: paymentNotification("200"),
			setupMocks: func(p *MockProvider, a *MockActivator, r *MockSubscriptionRepository) {
				p.On("GetPayment", mock.Anything, "200").Return(&paymentprovider.Payment{
					ID:                "200",
					Status:            paymentprovider.StatusApproved,
					ExternalReference: "user-uid-42-subscription-first-year-1700000000000",
					TransactionAmount: FirstYearPrice,
				}, nil)
				a.On("Activate", mock.Anything, "uid-42", periodEnd, true).Return(nil)
				r.On("UpsertSubscription", mock.Anything, models.SubscriptionRecord{
					UserUID:     "uid-42",
					PaymentID:   "200",
					Price:       FirstYearPrice,
					ListPrice:   RenewalPrice,
					IsFirstYear: true,
					StartDate:   now,
					EndDate:     periodEnd,
				}).Return(nil)
			},
			wantOutcome: OutcomeApplied,
		},
		{
			name:  "подтвержденное продление активирует доступ без скидки",
			notif: paymentNotification("201"),
			setupMocks: func(p *MockProvider, a *MockActivator, r *MockSubscriptionRepository) {
				p.On("GetPayment", mock.Anything, "201").Return(&paymentprovider.Payment{
					ID:                "201",
					Status:            paymentprovider.StatusApproved,
					ExternalReference: "user-uid-42-subscription-renewal-1700000000001",
					TransactionAmount: RenewalPrice,
				}, nil)
				a.On("Activate", mock.Anything, "uid-42", periodEnd, false).Return(nil)
				r.On("UpsertSubscription", mock.Anything, mock.MatchedBy(func(sub models.SubscriptionRecord) bool {
					return sub.Price == RenewalPrice && !sub.IsFirstYear
				})).Return(nil)
			},
			wantOutcome: OutcomeApplied,
		},
		{
			name:  "некорректная ссылка отклоняется без записей",
			notif: paymentNotification("300"),
			setupMocks: func(p *MockProvider, _ *MockActivator, _ *MockSubscriptionRepository) {
				p.On("GetPayment", mock.Anything, "300").Return(&paymentprovider.Payment{
					ID:                "300",
					Status:            paymentprovider.StatusApproved,
					ExternalReference: "user-uid-42-renewal-1700000000000",
				}, nil)
			},
			wantOutcome: OutcomeRejected,
		},
		{
			name:  "ошибка запроса к провайдеру возвращается наружу",
			notif: paymentNotification("400"),
			setupMocks: func(p *MockProvider, _ *MockActivator, _ *MockSubscriptionRepository) {
				p.On("GetPayment", mock.Anything, "400").Return(nil, errors.New("provider unavailable"))
			},
			wantErr: true,
		},
		{
			name:  "активация неизвестного пользователя возвращается наружу",
			notif: paymentNotification("500"),
			setupMocks: func(p *MockProvider, a *MockActivator, _ *MockSubscriptionRepository) {
				p.On("GetPayment", mock.Anything, "500").Return(&paymentprovider.Payment{
					ID:                "500",
					Status:            paymentprovider.StatusApproved,
					ExternalReference: "user-ghost-subscription-renewal-1700000000000",
				}, nil)
				a.On("Activate", mock.Anything, "ghost", periodEnd, false).Return(errors.New("user not found"))
			},
			wantErr: true,
		},
		{
			name:  "ошибка записи подписки возвращается наружу",
			notif: paymentNotification("600"),
			setupMocks: func(p *MockProvider, a *MockActivator, r *MockSubscriptionRepository) {
				p.On("GetPayment", mock.Anything, "600").Return(&paymentprovider.Payment{
					ID:                "600",
					Status:            paymentprovider.StatusApproved,
					ExternalReference: "user-uid-42-subscription-renewal-1700000000000",
				}, nil)
				a.On("Activate", mock.Anything, "uid-42", periodEnd, false).Return(nil)
				r.On("UpsertSubscription", mock.Anything, mock.Anything).Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := new(MockProvider)
			activator := new(MockActivator)
			repo := new(MockSubscriptionRepository)
			tt.setupMocks(provider, activator, repo)

			svc := newTestPaymentService(provider, activator, repo, now)

			outcome, err := svc.ProcessNotification(context.Background(), tt.notif)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantOutcome, outcome)
			}

			provider.AssertExpectations(t)
			activator.AssertExpectations(t)
			repo.AssertExpectations(t)
			if tt.wantOutcome == OutcomeIgnored || tt.wantOutcome == OutcomeRejected {
				activator.AssertNotCalled(t, "Activate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
				repo.AssertNotCalled(t, "UpsertSubscription", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestCreateCheckout(t *testing.T) {
	now := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		existingSub *models.SubscriptionRecord
		wantPrice   float64
		wantRefPart string
	}{
		{
			name:        "первая оплата по цене первого года",
			existingSub: nil,
			wantPrice:   FirstYearPrice,
			wantRefPart: "-subscription-first-year-",
		},
		{
			name:        "продление по полной цене",
			existingSub: &models.SubscriptionRecord{UserUID: "uid-42"},
			wantPrice:   RenewalPrice,
			wantRefPart: "-subscription-renewal-",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := new(MockProvider)
			activator := new(MockActivator)
			repo := new(MockSubscriptionRepository)
			repo.On("GetSubscription", mock.Anything, "uid-42").Return(tt.existingSub, nil)
			provider.On("CreatePreference", mock.Anything, mock.MatchedBy(func(req paymentprovider.CreatePreferenceRequest) bool {
				return len(req.Items) == 1 &&
					req.Items[0].UnitPrice == tt.wantPrice &&
					strings.Contains(req.ExternalReference, tt.wantRefPart)
			})).Return(&paymentprovider.CreatePreferenceResponse{
				ID:        "pref-1",
				InitPoint: "https://provider.test/pay/pref-1",
			}, nil)

			svc := newTestPaymentService(provider, activator, repo, now)

			url, err := svc.CreateCheckout(context.Background(), "uid-42")
			require.NoError(t, err)
			assert.Equal(t, "https://provider.test/pay/pref-1", url)

			provider.AssertExpectations(t)
		})
	}
}
