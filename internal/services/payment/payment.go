// Package services содержит бизнес-логику оплаты: открытие сессии оплаты
// и обработку уведомлений платёжного провайдера.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/cardlink/internal/lib/reference"
	"github.com/magabrotheeeer/cardlink/internal/lib/sl"
	"github.com/magabrotheeeer/cardlink/internal/models"
	"github.com/magabrotheeeer/cardlink/internal/paymentprovider"
)

// Цены годовой подписки. Скидка действует только на первый оплаченный год.
const (
	FirstYearPrice = 499.00
	RenewalPrice   = 999.00
)

// SubscriptionPeriodDays длина оплаченного периода.
const SubscriptionPeriodDays = 365

// Outcome результат обработки уведомления провайдера.
type Outcome string

const (
	// OutcomeApplied — платёж подтвержден, доступ выдан.
	OutcomeApplied Outcome = "applied"
	// OutcomeIgnored — уведомление корректно, но не требует действий.
	OutcomeIgnored Outcome = "ignored"
	// OutcomeRejected — уведомление некорректно, действий не будет и при повторе.
	OutcomeRejected Outcome = "rejected"
)

// Activator описывает единственный путь выдачи платного доступа.
type Activator interface {
	Activate(ctx context.Context, userUID string, periodEnd time.Time, isFirstYear bool) error
}

// SubscriptionRepository определяет методы работы с записями подписок.
type SubscriptionRepository interface {
	UpsertSubscription(ctx context.Context, sub models.SubscriptionRecord) error
	GetSubscription(ctx context.Context, userUID string) (*models.SubscriptionRecord, error)
}

// Provider описывает клиент платёжного провайдера.
type Provider interface {
	GetPayment(ctx context.Context, paymentID string) (*paymentprovider.Payment, error)
	CreatePreference(ctx context.Context, req paymentprovider.CreatePreferenceRequest) (*paymentprovider.CreatePreferenceResponse, error)
}

// PaymentService реализует открытие оплаты и обработку вебхука.
type PaymentService struct {
	provider  Provider
	activator Activator
	repo      SubscriptionRepository
	backURL   string
	log       *slog.Logger
	now       func() time.Time
}

// NewPaymentService создает новый экземпляр PaymentService.
func NewPaymentService(provider Provider, activator Activator, repo SubscriptionRepository, backURL string, log *slog.Logger) *PaymentService {
	return &PaymentService{
		provider:  provider,
		activator: activator,
		repo:      repo,
		backURL:   backURL,
		log:       log,
		now:       time.Now,
	}
}

// CreateCheckout открывает сессию оплаты для пользователя и возвращает ссылку на оплату.
// Тип покупки определяется сервером: первый год, если пользователь ещё не платил.
func (s *PaymentService) CreateCheckout(ctx context.Context, userUID string) (string, error) {
	const op = "payment.CreateCheckout"

	sub, err := s.repo.GetSubscription(ctx, userUID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	purchaseType := reference.PurchaseFirstYear
	price := FirstYearPrice
	if sub != nil {
		purchaseType = reference.PurchaseRenewal
		price = RenewalPrice
	}

	extRef := reference.Encode(userUID, purchaseType, s.now())
	resp, err := s.provider.CreatePreference(ctx, paymentprovider.CreatePreferenceRequest{
		Items: []paymentprovider.PreferenceItem{{
			Title:     "cardlink annual subscription",
			Quantity:  1,
			UnitPrice: price,
		}},
		ExternalReference: extRef,
		BackURLs: paymentprovider.PreferenceURLs{
			Success: s.backURL,
			Failure: s.backURL,
			Pending: s.backURL,
		},
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("created checkout session",
		slog.String("user_uid", userUID),
		slog.String("purchase_type", purchaseType),
		slog.String("preference_id", resp.ID))
	return resp.InitPoint, nil
}

// ProcessNotification обрабатывает уведомление платёжного провайдера.
//
// Побочные эффекты есть только у подтвержденных платежей с корректной
// строкой external_reference: активация доступа и запись подписки.
// Любая ошибка провайдера или хранилища возвращается наружу, чтобы
// обработчик ответил провайдеру ошибкой и уведомление пришло повторно.
func (s *PaymentService) ProcessNotification(ctx context.Context, n models.PaymentNotification) (Outcome, error) {
	const op = "payment.ProcessNotification"

	if n.Type != "payment" {
		s.log.Info("ignored non-payment notification", slog.String("type", n.Type))
		return OutcomeIgnored, nil
	}

	payment, err := s.provider.GetPayment(ctx, n.Data.ID)
	if err != nil {
		return "", fmt.Errorf("%s: fetch payment %s: %w", op, n.Data.ID, err)
	}

	if payment.Status != paymentprovider.StatusApproved {
		// Провайдер пришлет новое уведомление при смене статуса.
		s.log.Info("ignored payment with non-approved status",
			slog.String("payment_id", payment.ID),
			slog.String("status", payment.Status))
		return OutcomeIgnored, nil
	}

	ref, err := reference.Parse(payment.ExternalReference)
	if err != nil {
		if errors.Is(err, reference.ErrInvalidReference) {
			// Повторная доставка даст тот же результат, ошибкой не отвечаем.
			s.log.Error("rejected payment with invalid external reference",
				slog.String("payment_id", payment.ID), sl.Err(err))
			return OutcomeRejected, nil
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	now := s.now()
	periodEnd := now.AddDate(0, 0, SubscriptionPeriodDays)
	isFirstYear := ref.PurchaseType == reference.PurchaseFirstYear
	price := RenewalPrice
	if isFirstYear {
		price = FirstYearPrice
	}

	if err := s.activator.Activate(ctx, ref.UserUID, periodEnd, isFirstYear); err != nil {
		return "", fmt.Errorf("%s: activate %s: %w", op, ref.UserUID, err)
	}

	sub := models.SubscriptionRecord{
		UserUID:     ref.UserUID,
		PaymentID:   payment.ID,
		Price:       price,
		ListPrice:   RenewalPrice,
		IsFirstYear: isFirstYear,
		StartDate:   now,
		EndDate:     periodEnd,
	}
	if err := s.repo.UpsertSubscription(ctx, sub); err != nil {
		return "", fmt.Errorf("%s: upsert subscription %s: %w", op, ref.UserUID, err)
	}

	s.log.Info("applied payment notification",
		slog.String("payment_id", payment.ID),
		slog.String("user_uid", ref.UserUID),
		slog.Bool("is_first_year", isFirstYear))
	return OutcomeApplied, nil
}
