package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clockwise-hr/attendance-backend-go/internal/domain/correction"
	"github.com/clockwise-hr/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type correctionRepository struct {
	db *database.DB
}

func NewCorrectionRepository(db *database.DB) correction.CorrectionRepository {
	return &correctionRepository{db: db}
}

const correctionColumns = `
	c.id, c.employee_id, c.date, c.requested_punch_in, c.requested_punch_out,
	c.reason, c.attachment_path, c.status, c.reviewed_by, c.reviewed_at,
	c.review_note, c.created_at, c.updated_at
`

func scanCorrection(row pgx.Row, c *correction.Correction) error {
	return row.Scan(
		&c.ID, &c.EmployeeID, &c.Date, &c.RequestedPunchIn, &c.RequestedPunchOut,
		&c.Reason, &c.AttachmentPath, &c.Status, &c.ReviewedBy, &c.ReviewedAt,
		&c.ReviewNote, &c.CreatedAt, &c.UpdatedAt,
	)
}

// Create implements correction.CorrectionRepository.
func (r *correctionRepository) Create(ctx context.Context, newCorrection correction.Correction) (correction.Correction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_corrections (
			employee_id, date, requested_punch_in, requested_punch_out,
			reason, attachment_path, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		newCorrection.EmployeeID,
		newCorrection.Date,
		newCorrection.RequestedPunchIn,
		newCorrection.RequestedPunchOut,
		newCorrection.Reason,
		newCorrection.AttachmentPath,
		newCorrection.Status,
	).Scan(&newCorrection.ID, &newCorrection.CreatedAt, &newCorrection.UpdatedAt)

	if err != nil {
		return correction.Correction{}, fmt.Errorf("failed to create correction: %w", err)
	}

	return newCorrection, nil
}

// GetByID implements correction.CorrectionRepository.
func (r *correctionRepository) GetByID(ctx context.Context, id string) (correction.Correction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + correctionColumns + `
		FROM attendance_corrections c
		WHERE c.id = $1
		LIMIT 1
		FOR UPDATE OF c
	`

	var c correction.Correction
	err := scanCorrection(q.QueryRow(ctx, query, id), &c)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return correction.Correction{}, correction.ErrCorrectionNotFound
		}
		return correction.Correction{}, fmt.Errorf("failed to get correction: %w", err)
	}

	return c, nil
}

// HasPending implements correction.CorrectionRepository.
func (r *correctionRepository) HasPending(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM attendance_corrections
			WHERE employee_id = $1
			  AND date = $2
			  AND status = $3
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, date, correction.StatusPending).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check pending correction: %w", err)
	}

	return exists, nil
}

// UpdateStatus implements correction.CorrectionRepository. Only a pending row
// transitions; a processed one reports already-processed.
func (r *correctionRepository) UpdateStatus(ctx context.Context, id string, status correction.Status, reviewerID string, note *string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_corrections
		SET status = $2,
			reviewed_by = $3,
			reviewed_at = NOW(),
			review_note = $4,
			updated_at = NOW()
		WHERE id = $1
		  AND status = $5
	`

	tag, err := q.Exec(ctx, query, id, status, reviewerID, note, correction.StatusPending)
	if err != nil {
		return fmt.Errorf("failed to update correction status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return correction.ErrCorrectionAlreadyProcessed
	}

	return nil
}

// ListByEmployee implements correction.CorrectionRepository.
func (r *correctionRepository) ListByEmployee(ctx context.Context, employeeID string) ([]correction.Correction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + correctionColumns + `
		FROM attendance_corrections c
		WHERE c.employee_id = $1
		ORDER BY c.date DESC
	`

	return r.list(ctx, q, query, employeeID)
}

// ListPending implements correction.CorrectionRepository. Joins the employee
// name for the admin review screen.
func (r *correctionRepository) ListPending(ctx context.Context) ([]correction.Correction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + correctionColumns + `, e.full_name
		FROM attendance_corrections c
		JOIN employees e ON e.id = c.employee_id
		WHERE c.status = $1
		ORDER BY c.created_at ASC
	`

	rows, err := q.Query(ctx, query, correction.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending corrections: %w", err)
	}
	defer rows.Close()

	var corrections []correction.Correction
	for rows.Next() {
		var c correction.Correction
		if err := rows.Scan(
			&c.ID, &c.EmployeeID, &c.Date, &c.RequestedPunchIn, &c.RequestedPunchOut,
			&c.Reason, &c.AttachmentPath, &c.Status, &c.ReviewedBy, &c.ReviewedAt,
			&c.ReviewNote, &c.CreatedAt, &c.UpdatedAt, &c.EmployeeName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan correction: %w", err)
		}
		corrections = append(corrections, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate correction rows: %w", err)
	}

	return corrections, nil
}

func (r *correctionRepository) list(ctx context.Context, q database.Querier, query string, args ...interface{}) ([]correction.Correction, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list corrections: %w", err)
	}
	defer rows.Close()

	var corrections []correction.Correction
	for rows.Next() {
		var c correction.Correction
		if err := scanCorrection(rows, &c); err != nil {
			return nil, fmt.Errorf("failed to scan correction: %w", err)
		}
		corrections = append(corrections, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate correction rows: %w", err)
	}

	return corrections, nil
}
