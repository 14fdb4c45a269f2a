package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/jobtrack/internal/models"
)

const messageColumns = `id, sender_id, recipient_id, subject, content, is_read,
			      sent_at, read_at, created_at`

func scanMessage(scan func(dest ...any) error) (*models.Message, error) {
	var item models.Message
	var subject sql.NullString
	var readAt sql.NullTime
	if err := scan(&item.ID, &item.SenderID, &item.RecipientID, &subject,
		&item.Content, &item.IsRead, &item.SentAt, &readAt, &item.CreatedAt); err != nil {
		return nil, err
	}
	item.Subject = subject.String
	if readAt.Valid {
		item.ReadAt = &readAt.Time
	}
	return &item, nil
}

// CreateMessage вставляет новое сообщение и возвращает его ID.
func (s *Storage) CreateMessage(ctx context.Context, msg models.Message) (string, error) {
	const op = "storage.CreateMessage"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO messages (id, sender_id, recipient_id, subject, content, sent_at)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query,
		msg.ID, msg.SenderID, msg.RecipientID, msg.Subject, msg.Content, msg.SentAt).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListMessages возвращает входящие и исходящие сообщения пользователя,
// свежие первыми.
func (s *Storage) ListMessages(ctx context.Context, userID string) ([]*models.Message, error) {
	const op = "storage.ListMessages"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + messageColumns + `
			  FROM messages
			  WHERE sender_id = $1 OR recipient_id = $1
			  ORDER BY sent_at DESC`
	return s.queryMessages(ctx, op, query, userID)
}

// ListUnreadMessages возвращает непрочитанные входящие сообщения пользователя.
func (s *Storage) ListUnreadMessages(ctx context.Context, userID string) ([]*models.Message, error) {
	const op = "storage.ListUnreadMessages"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + messageColumns + `
			  FROM messages
			  WHERE recipient_id = $1 AND is_read = false
			  ORDER BY sent_at DESC`
	return s.queryMessages(ctx, op, query, userID)
}

func (s *Storage) queryMessages(ctx context.Context, op, query string, args ...any) ([]*models.Message, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Message
	for rows.Next() {
		item, err := scanMessage(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// MarkMessageRead помечает входящее сообщение получателя прочитанным
// и возвращает количество изменённых строк.
func (s *Storage) MarkMessageRead(ctx context.Context, id, recipientID string) (int, error) {
	const op = "storage.MarkMessageRead"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE messages
			  SET is_read = true, read_at = NOW()
			  WHERE id = $1 AND recipient_id = $2`
	result, err := s.DB.ExecContext(ctx, query, id, recipientID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
