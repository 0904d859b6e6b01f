package postgresql

import (
	"context"
	"fmt"

	"github.com/clockwise-hr/attendance-backend-go/internal/domain/leave"
	"github.com/clockwise-hr/attendance-backend-go/internal/pkg/database"
)

type leaveAccrualRepository struct {
	db *database.DB
}

func NewLeaveAccrualRepository(db *database.DB) leave.LeaveAccrualRepository {
	return &leaveAccrualRepository{db: db}
}

// Exists implements leave.LeaveAccrualRepository.
func (r *leaveAccrualRepository) Exists(ctx context.Context, employeeID, policyID string, year, month int) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM leave_accruals
			WHERE employee_id = $1
			  AND policy_id = $2
			  AND year = $3
			  AND month = $4
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, policyID, year, month).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check accrual: %w", err)
	}

	return exists, nil
}

// Create implements leave.LeaveAccrualRepository. The unique
// (employee, policy, year, month) constraint is the idempotence guard; a
// concurrent duplicate surfaces as a constraint violation, not silent
// double accrual.
func (r *leaveAccrualRepository) Create(ctx context.Context, accrual leave.LeaveAccrual) (leave.LeaveAccrual, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_accruals (employee_id, policy_id, year, month, days)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		accrual.EmployeeID,
		accrual.PolicyID,
		accrual.Year,
		accrual.Month,
		accrual.Days,
	).Scan(&accrual.ID, &accrual.CreatedAt)

	if err != nil {
		return leave.LeaveAccrual{}, fmt.Errorf("failed to create accrual: %w", err)
	}

	return accrual, nil
}
