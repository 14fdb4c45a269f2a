package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/jobtrack/internal/models"
)

// InsertProfileIfAbsent вставляет профиль, если строки с таким user_id ещё нет.
//
// Условная вставка закрывает гонку с триггером на стороне базы, который может
// создать профиль сам: оба пути сходятся к одной строке без дубликатов и без
// искусственной задержки. Возвращает true, если строку вставил этот вызов.
func (s *Storage) InsertProfileIfAbsent(ctx context.Context, profile models.Profile) (bool, error) {
	const op = "storage.InsertProfileIfAbsent"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO profiles (id, user_id, email, name, full_name, token_identifier, subscription)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  ON CONFLICT (user_id) DO NOTHING`
	result, err := s.DB.ExecContext(ctx, query,
		profile.ID, profile.UserID, profile.Email, profile.Name,
		profile.FullName, profile.TokenIdentifier, profile.Subscription)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected > 0, nil
}

// GetProfileByUserID возвращает профиль по каноничному ключу связи с аккаунтом.
func (s *Storage) GetProfileByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	const op = "storage.GetProfileByUserID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, email, name, full_name, token_identifier,
			      COALESCE(subscription, ''), created_at, updated_at
			  FROM profiles
			  WHERE user_id = $1`
	p := &models.Profile{}
	row := s.DB.QueryRowContext(ctx, query, userID)

	var updatedAt sql.NullTime
	if err := row.Scan(&p.ID, &p.UserID, &p.Email, &p.Name, &p.FullName,
		&p.TokenIdentifier, &p.Subscription, &p.CreatedAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if updatedAt.Valid {
		p.UpdatedAt = &updatedAt.Time
	}
	return p, nil
}

// UpdateProfileSubscriptionStatus обновляет денормализованный статус подписки
// в профиле (легаси-поле, которое читают старые клиенты).
func (s *Storage) UpdateProfileSubscriptionStatus(ctx context.Context, userID, status string) error {
	const op = "storage.UpdateProfileSubscriptionStatus"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE profiles
			  SET subscription = $1,
			      updated_at = NOW()
			  WHERE user_id = $2`
	_, err := s.DB.ExecContext(ctx, query, status, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
