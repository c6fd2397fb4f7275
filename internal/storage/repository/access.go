package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/cardlink/internal/models"
)

// CreateAccessRecord создает запись доступа с пробным периодом.
// Повторный вызов для того же пользователя не меняет существующую запись:
// пробный период выдается один раз.
func (s *Storage) CreateAccessRecord(ctx context.Context, rec models.AccessRecord) error {
	const op = "storage.CreateAccessRecord"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO access_records (user_uid, status, trial_start_date, trial_end_date, is_first_year)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (user_uid) DO NOTHING`
	_, err := s.DB.ExecContext(ctx, query,
		rec.UserUID, rec.Status, rec.TrialStartDate, rec.TrialEndDate, rec.IsFirstYear)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetAccessRecord возвращает запись доступа пользователя.
func (s *Storage) GetAccessRecord(ctx context.Context, userUID string) (*models.AccessRecord, error) {
	const op = "storage.GetAccessRecord"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT user_uid, status, trial_start_date, trial_end_date,
			      subscription_start_date, subscription_end_date, is_first_year
			  FROM access_records
			  WHERE user_uid = $1`
	rec := &models.AccessRecord{}
	row := s.DB.QueryRowContext(ctx, query, userUID)

	var subStart, subEnd sql.NullTime
	if err := row.Scan(&rec.UserUID, &rec.Status, &rec.TrialStartDate, &rec.TrialEndDate,
		&subStart, &subEnd, &rec.IsFirstYear); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if subStart.Valid {
		rec.SubscriptionStartDate = &subStart.Time
	}
	if subEnd.Valid {
		rec.SubscriptionEndDate = &subEnd.Time
	}
	return rec, nil
}

// ActivateSubscription переводит запись доступа в оплаченное состояние.
// Запись перезаписывается целиком (last-writer-wins), повторная активация
// с теми же аргументами приводит к тому же конечному состоянию.
func (s *Storage) ActivateSubscription(ctx context.Context, userUID string, start, end time.Time, isFirstYear bool) error {
	const op = "storage.ActivateSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE access_records
			  SET status = $1,
			      subscription_start_date = $2,
			      subscription_end_date = $3,
			      is_first_year = $4
			  WHERE user_uid = $5`
	result, err := s.DB.ExecContext(ctx, query,
		models.AccessStatusActive, start, end, isFirstYear, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}

// MarkExpired записывает статус expired для лапсовавших записей:
// пробный период закончился или подписка закончилась к моменту now.
// Возвращает количество обновленных записей.
func (s *Storage) MarkExpired(ctx context.Context, now time.Time) (int, error) {
	const op = "storage.MarkExpired"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE access_records
			  SET status = 'expired'
			  WHERE (status = 'trial' AND trial_end_date <= $1)
			     OR (status = 'active' AND subscription_end_date < $1)`
	result, err := s.DB.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// FindTrialsExpiringToday находит пользователей, у которых сегодня заканчивается
// пробный период. Используется планировщиком уведомлений.
func (s *Storage) FindTrialsExpiringToday(ctx context.Context) ([]*models.User, error) {
	const op = "storage.FindTrialsExpiringToday"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT u.uid, u.email, u.username, u.password_hash, u.role, u.created_at
			  FROM users u
			  JOIN access_records a ON a.user_uid = u.uid
			  WHERE a.status = 'trial' AND a.trial_end_date::DATE = CURRENT_DATE`
	return s.queryUsers(ctx, op, query)
}

// FindSubscriptionsExpiredToday находит пользователей, у которых сегодня закончилась
// оплаченная подписка. Используется планировщиком уведомлений после свипа.
func (s *Storage) FindSubscriptionsExpiredToday(ctx context.Context) ([]*models.User, error) {
	const op = "storage.FindSubscriptionsExpiredToday"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT u.uid, u.email, u.username, u.password_hash, u.role, u.created_at
			  FROM users u
			  JOIN access_records a ON a.user_uid = u.uid
			  WHERE a.status = 'expired' AND a.subscription_end_date::DATE = CURRENT_DATE`
	return s.queryUsers(ctx, op, query)
}

func (s *Storage) queryUsers(ctx context.Context, op, query string) ([]*models.User, error) {
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.User
	for rows.Next() {
		var u models.User
		if err = rows.Scan(&u.UID, &u.Email, &u.Username, &u.PasswordHash,
			&u.Role, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
