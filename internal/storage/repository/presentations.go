package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/cardlink/internal/models"
)

// ErrPresentationNotFound возвращается при обращении к несуществующей презентации.
var ErrPresentationNotFound = errors.New("presentation not found")

// CreatePresentation вставляет новую презентацию и возвращает её ID.
func (s *Storage) CreatePresentation(ctx context.Context, p models.Presentation) (int, error) {
	const op = "storage.CreatePresentation"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO presentations (user_uid, title, topic, slides)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		p.UserUID, p.Title, p.Topic, p.Slides).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadPresentation возвращает презентацию пользователя по ID.
func (s *Storage) ReadPresentation(ctx context.Context, id int, userUID string) (*models.Presentation, error) {
	const op = "storage.ReadPresentation"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, title, topic, slides, created_at
			  FROM presentations
			  WHERE id = $1 AND user_uid = $2`
	p := &models.Presentation{}
	row := s.DB.QueryRowContext(ctx, query, id, userUID)
	if err := row.Scan(&p.ID, &p.UserUID, &p.Title, &p.Topic, &p.Slides, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrPresentationNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// ListPresentations возвращает презентации пользователя с пагинацией.
func (s *Storage) ListPresentations(ctx context.Context, userUID string, limit, offset int) ([]*models.Presentation, error) {
	const op = "storage.ListPresentations"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, title, topic, slides, created_at
			  FROM presentations
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
	var result []*models.Presentation
	for rows.Next() {
		p := &models.Presentation{}
		if err = rows.Scan(&p.ID, &p.UserUID, &p.Title, &p.Topic, &p.Slides, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// RemovePresentation удаляет презентацию пользователя и возвращает количество удаленных строк.
func (s *Storage) RemovePresentation(ctx context.Context, id int, userUID string) (int, error) {
	const op = "storage.RemovePresentation"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM presentations WHERE id = $1 AND user_uid = $2`
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

// CountPresentations возвращает количество презентаций пользователя.
func (s *Storage) CountPresentations(ctx context.Context, userUID string) (int, error) {
	const op = "storage.CountPresentations"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	query := `SELECT COUNT(*) FROM presentations WHERE user_uid = $1`
	if err := s.DB.QueryRowContext(ctx, query, userUID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
