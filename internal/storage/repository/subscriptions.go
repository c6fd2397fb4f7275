package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/cardlink/internal/models"
)

// UpsertSubscription сохраняет денормализованную запись о подписке пользователя.
// Запись одна на пользователя, повторная доставка того же платежа
// перезаписывает её теми же значениями.
func (s *Storage) UpsertSubscription(ctx context.Context, sub models.SubscriptionRecord) error {
	const op = "storage.UpsertSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (user_uid, payment_id, price, list_price,
			      is_first_year, start_date, end_date)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  ON CONFLICT (user_uid) DO UPDATE
			  SET payment_id = EXCLUDED.payment_id,
			      price = EXCLUDED.price,
			      list_price = EXCLUDED.list_price,
			      is_first_year = EXCLUDED.is_first_year,
			      start_date = EXCLUDED.start_date,
			      end_date = EXCLUDED.end_date`
	_, err := s.DB.ExecContext(ctx, query,
		sub.UserUID, sub.PaymentID, sub.Price, sub.ListPrice,
		sub.IsFirstYear, sub.StartDate, sub.EndDate)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetSubscription возвращает запись о подписке пользователя
// или nil, если пользователь ещё не оплачивал подписку.
func (s *Storage) GetSubscription(ctx context.Context, userUID string) (*models.SubscriptionRecord, error) {
	const op = "storage.GetSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT user_uid, payment_id, price, list_price, is_first_year, start_date, end_date
			  FROM subscriptions
			  WHERE user_uid = $1`
	sub := &models.SubscriptionRecord{}
	row := s.DB.QueryRowContext(ctx, query, userUID)
	if err := row.Scan(&sub.UserUID, &sub.PaymentID, &sub.Price, &sub.ListPrice,
		&sub.IsFirstYear, &sub.StartDate, &sub.EndDate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}
