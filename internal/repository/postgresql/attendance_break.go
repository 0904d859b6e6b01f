package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clockwise-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/clockwise-hr/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type breakRepository struct {
	db *database.DB
}

func NewBreakRepository(db *database.DB) attendance.BreakRepository {
	return &breakRepository{db: db}
}

const breakColumns = `
	id, attendance_id, employee_id, start_time, end_time,
	duration_minutes, status, reason, created_at, updated_at
`

func scanBreak(row pgx.Row, b *attendance.Break) error {
	return row.Scan(
		&b.ID, &b.AttendanceID, &b.EmployeeID, &b.StartTime, &b.EndTime,
		&b.DurationMinutes, &b.Status, &b.Reason, &b.CreatedAt, &b.UpdatedAt,
	)
}

// Create implements attendance.BreakRepository.
func (r *breakRepository) Create(ctx context.Context, newBreak attendance.Break) (attendance.Break, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_breaks (
			attendance_id, employee_id, start_time, status, reason
		) VALUES (
			$1, $2, $3, $4, $5
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		newBreak.AttendanceID,
		newBreak.EmployeeID,
		newBreak.StartTime,
		newBreak.Status,
		newBreak.Reason,
	).Scan(&newBreak.ID, &newBreak.CreatedAt, &newBreak.UpdatedAt)

	if err != nil {
		return attendance.Break{}, fmt.Errorf("failed to create break: %w", err)
	}

	return newBreak, nil
}

// GetActiveByEmployee implements attendance.BreakRepository.
func (r *breakRepository) GetActiveByEmployee(ctx context.Context, employeeID string) (*attendance.Break, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + breakColumns + `
		FROM attendance_breaks
		WHERE employee_id = $1
		  AND status = $2
		ORDER BY start_time DESC
		LIMIT 1
		FOR UPDATE
	`

	var b attendance.Break
	err := scanBreak(q.QueryRow(ctx, query, employeeID, attendance.BreakStatusActive), &b)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active break: %w", err)
	}

	return &b, nil
}

// Close implements attendance.BreakRepository.
func (r *breakRepository) Close(ctx context.Context, id string, endTime time.Time, durationMinutes int) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_breaks
		SET end_time = $2,
			duration_minutes = $3,
			status = $4,
			updated_at = NOW()
		WHERE id = $1
		  AND status = $5
	`

	tag, err := q.Exec(ctx, query, id, endTime, durationMinutes,
		attendance.BreakStatusCompleted, attendance.BreakStatusActive)
	if err != nil {
		return fmt.Errorf("failed to close break: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrNoActiveBreak
	}

	return nil
}

// ListByAttendance implements attendance.BreakRepository.
func (r *breakRepository) ListByAttendance(ctx context.Context, attendanceID string) ([]attendance.Break, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + breakColumns + `
		FROM attendance_breaks
		WHERE attendance_id = $1
		ORDER BY start_time ASC
	`

	rows, err := q.Query(ctx, query, attendanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list breaks: %w", err)
	}
	defer rows.Close()

	var breaks []attendance.Break
	for rows.Next() {
		var b attendance.Break
		if err := scanBreak(rows, &b); err != nil {
			return nil, fmt.Errorf("failed to scan break: %w", err)
		}
		breaks = append(breaks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate break rows: %w", err)
	}

	return breaks, nil
}

// SumMinutesForAttendance implements attendance.BreakRepository.
func (r *breakRepository) SumMinutesForAttendance(ctx context.Context, attendanceID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(duration_minutes), 0)
		FROM attendance_breaks
		WHERE attendance_id = $1
		  AND status = $2
	`

	var total int
	if err := q.QueryRow(ctx, query, attendanceID, attendance.BreakStatusCompleted).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum break minutes: %w", err)
	}

	return total, nil
}
