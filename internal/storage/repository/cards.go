package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/cardlink/internal/models"
)

// ErrCardNotFound возвращается при обращении к несуществующей визитке.
var ErrCardNotFound = errors.New("card not found")

// CreateCard вставляет новую визитку и возвращает её ID.
func (s *Storage) CreateCard(ctx context.Context, card models.Card) (int, error) {
	const op = "storage.CreateCard"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO cards (user_uid, slug, title, full_name, company, job_title,
			      phone, email, website, theme, is_published)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		card.UserUID, card.Slug, card.Title, card.FullName, card.Company, card.JobTitle,
		card.Phone, card.Email, card.Website, card.Theme, card.IsPublished).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadCard возвращает визитку по ID.
func (s *Storage) ReadCard(ctx context.Context, id int) (*models.Card, error) {
	const op = "storage.ReadCard"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, slug, title, full_name, company, job_title,
			      phone, email, website, theme, is_published, created_at, updated_at
			  FROM cards
			  WHERE id = $1`
	card := &models.Card{}
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := scanCard(row, card); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrCardNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return card, nil
}

// ReadCardBySlug возвращает опубликованную визитку по публичному слагу.
func (s *Storage) ReadCardBySlug(ctx context.Context, slug string) (*models.Card, error) {
	const op = "storage.ReadCardBySlug"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, slug, title, full_name, company, job_title,
			      phone, email, website, theme, is_published, created_at, updated_at
			  FROM cards
			  WHERE slug = $1 AND is_published = true`
	card := &models.Card{}
	row := s.DB.QueryRowContext(ctx, query, slug)
	if err := scanCard(row, card); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrCardNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return card, nil
}

// SlugExists проверяет, занят ли слаг.
func (s *Storage) SlugExists(ctx context.Context, slug string) (bool, error) {
	const op = "storage.SlugExists"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM cards WHERE slug = $1)`
	if err := s.DB.QueryRowContext(ctx, query, slug).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// UpdateCard обновляет данные визитки владельца и возвращает количество обновленных строк.
func (s *Storage) UpdateCard(ctx context.Context, card models.Card, id int, userUID string) (int, error) {
	const op = "storage.UpdateCard"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE cards
			  SET title = $1, full_name = $2, company = $3, job_title = $4,
			      phone = $5, email = $6, website = $7, theme = $8, updated_at = now()
			  WHERE id = $9 AND user_uid = $10`
	result, err := s.DB.ExecContext(ctx, query,
		card.Title, card.FullName, card.Company, card.JobTitle,
		card.Phone, card.Email, card.Website, card.Theme, id, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveCard удаляет визитку владельца и возвращает количество удаленных строк.
func (s *Storage) RemoveCard(ctx context.Context, id int, userUID string) (int, error) {
	const op = "storage.RemoveCard"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM cards WHERE id = $1 AND user_uid = $2`
	result, err := s.DB.ExecContext(ctx, query, id, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListCards возвращает визитки пользователя с пагинацией.
func (s *Storage) ListCards(ctx context.Context, userUID string, limit, offset int) ([]*models.Card, error) {
	const op = "storage.ListCards"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, slug, title, full_name, company, job_title,
			      phone, email, website, theme, is_published, created_at, updated_at
			  FROM cards
			  WHERE user_uid = $1
			  ORDER BY created_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.Card
	for rows.Next() {
		card := &models.Card{}
		if err = scanCard(rows, card); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, card)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountCards возвращает количество визиток пользователя.
func (s *Storage) CountCards(ctx context.Context, userUID string) (int, error) {
	const op = "storage.CountCards"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	query := `SELECT COUNT(*) FROM cards WHERE user_uid = $1`
	if err := s.DB.QueryRowContext(ctx, query, userUID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner, card *models.Card) error {
	return row.Scan(&card.ID, &card.UserUID, &card.Slug, &card.Title, &card.FullName,
		&card.Company, &card.JobTitle, &card.Phone, &card.Email, &card.Website,
		&card.Theme, &card.IsPublished, &card.CreatedAt, &card.UpdatedAt)
}
