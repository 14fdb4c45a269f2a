package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/jobtrack/internal/models"
)

func scanJob(scan func(dest ...any) error) (*models.Job, error) {
	var item models.Job
	var description, location, salaryRange, requirements, benefits, jobURL sql.NullString
	var expiresAt sql.NullTime
	if err := scan(&item.ID, &item.CompanyName, &item.JobTitle, &description,
		&location, &salaryRange, &requirements, &benefits, &jobURL,
		&item.PostedAt, &expiresAt, &item.IsActive, &item.CreatedAt); err != nil {
		return nil, err
	}
	item.Description = description.String
	item.Location = location.String
	item.SalaryRange = salaryRange.String
	item.Requirements = requirements.String
	item.Benefits = benefits.String
	item.JobURL = jobURL.String
	if expiresAt.Valid {
		item.ExpiresAt = &expiresAt.Time
	}
	return &item, nil
}

const jobColumns = `id, company_name, job_title, description, location, salary_range,
			      requirements, benefits, job_url, posted_at, expires_at, is_active, created_at`

// ListJobs возвращает активные вакансии каталога, свежие первыми.
func (s *Storage) ListJobs(ctx context.Context, limit int) ([]*models.Job, error) {
	const op = "storage.ListJobs"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + jobColumns + `
			  FROM jobs
			  WHERE is_active = true
			  ORDER BY posted_at DESC
			  LIMIT $1`
	rows, err := s.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Job
	for rows.Next() {
		item, err := scanJob(rows.Scan)
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

// GetJob возвращает вакансию каталога по ID.
func (s *Storage) GetJob(ctx context.Context, id string) (*models.Job, error) {
	const op = "storage.GetJob"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + jobColumns + `
			  FROM jobs
			  WHERE id = $1`
	item, err := scanJob(s.DB.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return item, nil
}

// SearchJobs ищет активные вакансии по компании, должности и описанию,
// опционально сужая выборку по локации.
func (s *Storage) SearchJobs(ctx context.Context, query, location string) ([]*models.Job, error) {
	const op = "storage.SearchJobs"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	sqlQuery := `SELECT ` + jobColumns + `
			  FROM jobs
			  WHERE is_active = true
			    AND (company_name ILIKE $1 OR job_title ILIKE $1 OR description ILIKE $1)
			    AND ($2 = '' OR location ILIKE $3)
			  ORDER BY posted_at DESC`
	pattern := "%" + query + "%"
	locationPattern := "%" + location + "%"
	rows, err := s.DB.QueryContext(ctx, sqlQuery, pattern, location, locationPattern)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Job
	for rows.Next() {
		item, err := scanJob(rows.Scan)
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
