package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clockwise-hr/attendance-backend-go/internal/domain/leave"
	"github.com/clockwise-hr/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveRequestRepository struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepository{db: db}
}

const leaveRequestColumns = `
	r.id, r.employee_id, r.policy_id, r.start_date, r.end_date, r.leave_days,
	r.reason, r.status, r.reviewed_by, r.reviewed_at, r.review_note,
	r.created_at, r.updated_at
`

func scanLeaveRequest(row pgx.Row, lr *leave.LeaveRequest) error {
	return row.Scan(
		&lr.ID, &lr.EmployeeID, &lr.PolicyID, &lr.StartDate, &lr.EndDate, &lr.LeaveDays,
		&lr.Reason, &lr.Status, &lr.ReviewedBy, &lr.ReviewedAt, &lr.ReviewNote,
		&lr.CreatedAt, &lr.UpdatedAt,
	)
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			employee_id, policy_id, start_date, end_date, leave_days, reason, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		request.EmployeeID,
		request.PolicyID,
		request.StartDate,
		request.EndDate,
		request.LeaveDays,
		request.Reason,
		request.Status,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt)

	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return request, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveRequestColumns + `, p.leave_type
		FROM leave_requests r
		JOIN leave_policies p ON p.id = r.policy_id
		WHERE r.id = $1
		LIMIT 1
		FOR UPDATE OF r
	`

	var request leave.LeaveRequest
	err := q.QueryRow(ctx, query, id).Scan(
		&request.ID, &request.EmployeeID, &request.PolicyID, &request.StartDate,
		&request.EndDate, &request.LeaveDays, &request.Reason, &request.Status,
		&request.ReviewedBy, &request.ReviewedAt, &request.ReviewNote,
		&request.CreatedAt, &request.UpdatedAt, &request.LeaveType,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}

	return request, nil
}

// ApprovedOverlap implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) ApprovedOverlap(ctx context.Context, employeeID string, start, end time.Time) (*leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests r
		WHERE r.employee_id = $1
		  AND r.status = $2
		  AND r.start_date <= $4
		  AND r.end_date >= $3
		ORDER BY r.start_date ASC
		LIMIT 1
	`

	var request leave.LeaveRequest
	err := scanLeaveRequest(q.QueryRow(ctx, query, employeeID, leave.LeaveRequestStatusApproved, start, end), &request)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check approved overlap: %w", err)
	}

	return &request, nil
}

// HasApprovedCovering implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) HasApprovedCovering(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM leave_requests
			WHERE employee_id = $1
			  AND status = $2
			  AND start_date <= $3
			  AND end_date >= $3
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, leave.LeaveRequestStatusApproved, date).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check covering leave: %w", err)
	}

	return exists, nil
}

// UpdateStatus implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) UpdateStatus(ctx context.Context, id string, status leave.LeaveRequestStatus, reviewerID string, note *string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $2,
			reviewed_by = $3,
			reviewed_at = NOW(),
			review_note = $4,
			updated_at = NOW()
		WHERE id = $1
		  AND status = $5
	`

	tag, err := q.Exec(ctx, query, id, status, reviewerID, note, leave.LeaveRequestStatusPending)
	if err != nil {
		return fmt.Errorf("failed to update leave request status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveAlreadyProcessed
	}

	return nil
}

// ListByEmployee implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) ListByEmployee(ctx context.Context, employeeID string, year int) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveRequestColumns + `, p.leave_type
		FROM leave_requests r
		JOIN leave_policies p ON p.id = r.policy_id
		WHERE r.employee_id = $1
		  AND EXTRACT(YEAR FROM r.start_date) = $2
		ORDER BY r.start_date DESC
	`

	rows, err := q.Query(ctx, query, employeeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	return collectLeaveRequests(rows, false)
}

// ListPending implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) ListPending(ctx context.Context) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveRequestColumns + `, p.leave_type, e.full_name
		FROM leave_requests r
		JOIN leave_policies p ON p.id = r.policy_id
		JOIN employees e ON e.id = r.employee_id
		WHERE r.status = $1
		ORDER BY r.created_at ASC
	`

	rows, err := q.Query(ctx, query, leave.LeaveRequestStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending leave requests: %w", err)
	}
	defer rows.Close()

	return collectLeaveRequests(rows, true)
}

func collectLeaveRequests(rows pgx.Rows, withEmployeeName bool) ([]leave.LeaveRequest, error) {
	var requests []leave.LeaveRequest
	for rows.Next() {
		var lr leave.LeaveRequest
		dest := []interface{}{
			&lr.ID, &lr.EmployeeID, &lr.PolicyID, &lr.StartDate, &lr.EndDate,
			&lr.LeaveDays, &lr.Reason, &lr.Status, &lr.ReviewedBy, &lr.ReviewedAt,
			&lr.ReviewNote, &lr.CreatedAt, &lr.UpdatedAt, &lr.LeaveType,
		}
		if withEmployeeName {
			dest = append(dest, &lr.EmployeeName)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, lr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leave request rows: %w", err)
	}

	return requests, nil
}
