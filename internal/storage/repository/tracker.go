package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/jobtrack/internal/models"
)

// CreateApplication вставляет новый отклик и возвращает его ID.
func (s *Storage) CreateApplication(ctx context.Context, app models.Application) (string, error) {
	const op = "storage.CreateApplication"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO applications (id, user_id, company_name, job_title, status,
			      location, notes, applied_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query,
		app.ID, app.UserID, app.CompanyName, app.JobTitle, app.Status,
		app.Location, app.Notes, app.AppliedAt).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadApplication возвращает отклик по ID в пределах записей пользователя.
func (s *Storage) ReadApplication(ctx context.Context, id, userID string) (*models.Application, error) {
	const op = "storage.ReadApplication"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, company_name, job_title, status, location, notes,
			      applied_at, created_at, updated_at
			  FROM applications
			  WHERE id = $1 AND user_id = $2`
	row := s.DB.QueryRowContext(ctx, query, id, userID)

	var result models.Application
	var updatedAt sql.NullTime
	if err := row.Scan(&result.ID, &result.UserID, &result.CompanyName, &result.JobTitle,
		&result.Status, &result.Location, &result.Notes, &result.AppliedAt,
		&result.CreatedAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if updatedAt.Valid {
		result.UpdatedAt = &updatedAt.Time
	}
	return &result, nil
}

// ListApplications возвращает отклики пользователя с пагинацией,
// свежие по дате отклика первыми.
func (s *Storage) ListApplications(ctx context.Context, userID string, limit, offset int) ([]*models.Application, error) {
	const op = "storage.ListApplications"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, company_name, job_title, status, location, notes,
			      applied_at, created_at, updated_at
			  FROM applications
			  WHERE user_id = $1
			  ORDER BY applied_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Application
	for rows.Next() {
		var item models.Application
		var updatedAt sql.NullTime
		if err := rows.Scan(&item.ID, &item.UserID, &item.CompanyName, &item.JobTitle,
			&item.Status, &item.Location, &item.Notes, &item.AppliedAt,
			&item.CreatedAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if updatedAt.Valid {
			item.UpdatedAt = &updatedAt.Time
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateApplication обновляет отклик пользователя по ID и возвращает
// количество изменённых строк.
func (s *Storage) UpdateApplication(ctx context.Context, app models.Application, id, userID string) (int, error) {
	const op = "storage.UpdateApplication"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE applications
			  SET company_name = $1, job_title = $2, status = $3, location = $4,
			      notes = $5, applied_at = $6, updated_at = NOW()
			  WHERE id = $7 AND user_id = $8`
	result, err := s.DB.ExecContext(ctx, query,
		app.CompanyName, app.JobTitle, app.Status, app.Location,
		app.Notes, app.AppliedAt, id, userID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// CountApplicationsByStatus агрегирует отклики пользователя по статусам.
func (s *Storage) CountApplicationsByStatus(ctx context.Context, userID string) (map[string]int, error) {
	const op = "storage.CountApplicationsByStatus"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT status, COUNT(*)
			  FROM applications
			  WHERE user_id = $1
			  GROUP BY status`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result[status] = count
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CreateInterview вставляет новое собеседование и возвращает его ID.
func (s *Storage) CreateInterview(ctx context.Context, iv models.Interview) (string, error) {
	const op = "storage.CreateInterview"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO interviews (id, user_id, application_id, kind, status, scheduled_at, notes)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query,
		iv.ID, iv.UserID, iv.ApplicationID, iv.Kind, iv.Status, iv.ScheduledAt, iv.Notes).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListInterviews возвращает собеседования пользователя, ближайшие первыми.
func (s *Storage) ListInterviews(ctx context.Context, userID string) ([]*models.Interview, error) {
	const op = "storage.ListInterviews"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, application_id, kind, status, scheduled_at, notes, created_at
			  FROM interviews
			  WHERE user_id = $1
			  ORDER BY scheduled_at ASC`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Interview
	for rows.Next() {
		var item models.Interview
		if err := rows.Scan(&item.ID, &item.UserID, &item.ApplicationID, &item.Kind,
			&item.Status, &item.ScheduledAt, &item.Notes, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountUpcomingInterviews считает собеседования пользователя,
// запланированные на будущее.
func (s *Storage) CountUpcomingInterviews(ctx context.Context, userID string) (int, error) {
	const op = "storage.CountUpcomingInterviews"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*)
			  FROM interviews
			  WHERE user_id = $1
			    AND status = 'scheduled'
			    AND scheduled_at > NOW()`
	var count int
	if err := s.DB.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// CreateReferral вставляет новую рекомендацию и возвращает её ID.
func (s *Storage) CreateReferral(ctx context.Context, ref models.Referral) (string, error) {
	const op = "storage.CreateReferral"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO referrals (id, user_id, company_name, referrer_name, status, notes)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query,
		ref.ID, ref.UserID, ref.CompanyName, ref.ReferrerName, ref.Status, ref.Notes).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListReferrals возвращает рекомендации пользователя, новые первыми.
func (s *Storage) ListReferrals(ctx context.Context, userID string) ([]*models.Referral, error) {
	const op = "storage.ListReferrals"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, company_name, referrer_name, status, notes, created_at
			  FROM referrals
			  WHERE user_id = $1
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Referral
	for rows.Next() {
		var item models.Referral
		if err := rows.Scan(&item.ID, &item.UserID, &item.CompanyName, &item.ReferrerName,
			&item.Status, &item.Notes, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CreateContact вставляет новый контакт и возвращает его ID.
func (s *Storage) CreateContact(ctx context.Context, c models.Contact) (string, error) {
	const op = "storage.CreateContact"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO network_contacts (id, user_id, name, company, position, email, notes)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query,
		c.ID, c.UserID, c.Name, c.Company, c.Position, c.Email, c.Notes).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListContacts возвращает контакты пользователя, новые первыми.
func (s *Storage) ListContacts(ctx context.Context, userID string) ([]*models.Contact, error) {
	const op = "storage.ListContacts"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, name, company, position, email, notes, created_at
			  FROM network_contacts
			  WHERE user_id = $1
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Contact
	for rows.Next() {
		var item models.Contact
		if err := rows.Scan(&item.ID, &item.UserID, &item.Name, &item.Company,
			&item.Position, &item.Email, &item.Notes, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
