package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/clockwise-hr/attendance-backend-go/internal/domain/leave"
	"github.com/clockwise-hr/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveBalanceRepository struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.LeaveBalanceRepository {
	return &leaveBalanceRepository{db: db}
}

const leaveBalanceColumns = `
	id, employee_id, policy_id, year, allocated, used, carried_forward,
	created_at, updated_at
`

func scanLeaveBalance(row pgx.Row, b *leave.LeaveBalance) error {
	return row.Scan(
		&b.ID, &b.EmployeeID, &b.PolicyID, &b.Year, &b.Allocated, &b.Used,
		&b.CarriedForward, &b.CreatedAt, &b.UpdatedAt,
	)
}

// Get implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepository) Get(ctx context.Context, employeeID, policyID string, year int) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveBalanceColumns + `
		FROM leave_balances
		WHERE employee_id = $1
		  AND policy_id = $2
		  AND year = $3
		LIMIT 1
	`

	var balance leave.LeaveBalance
	err := scanLeaveBalance(q.QueryRow(ctx, query, employeeID, policyID, year), &balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveBalance{}, leave.ErrBalanceNotFound
		}
		return leave.LeaveBalance{}, fmt.Errorf("failed to get leave balance: %w", err)
	}

	return balance, nil
}

// GetOrCreate implements leave.LeaveBalanceRepository. The unique
// (employee, policy, year) constraint makes the insert race-safe.
func (r *leaveBalanceRepository) GetOrCreate(ctx context.Context, employeeID, policyID string, year int) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_balances (employee_id, policy_id, year)
		VALUES ($1, $2, $3)
		ON CONFLICT (employee_id, policy_id, year) DO UPDATE SET updated_at = leave_balances.updated_at
		RETURNING ` + leaveBalanceColumns + `
	`

	var balance leave.LeaveBalance
	if err := scanLeaveBalance(q.QueryRow(ctx, query, employeeID, policyID, year), &balance); err != nil {
		return leave.LeaveBalance{}, fmt.Errorf("failed to get or create leave balance: %w", err)
	}

	return balance, nil
}

// GetForUpdate implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepository) GetForUpdate(ctx context.Context, employeeID, policyID string, year int) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveBalanceColumns + `
		FROM leave_balances
		WHERE employee_id = $1
		  AND policy_id = $2
		  AND year = $3
		LIMIT 1
		FOR UPDATE
	`

	var balance leave.LeaveBalance
	err := scanLeaveBalance(q.QueryRow(ctx, query, employeeID, policyID, year), &balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveBalance{}, leave.ErrBalanceNotFound
		}
		return leave.LeaveBalance{}, fmt.Errorf("failed to lock leave balance: %w", err)
	}

	return balance, nil
}

// ListByEmployeeYear implements leave.LeaveBalanceRepository. Joins the
// policy's leave type for the balance report.
func (r *leaveBalanceRepository) ListByEmployeeYear(ctx context.Context, employeeID string, year int) ([]leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT b.id, b.employee_id, b.policy_id, b.year, b.allocated, b.used,
			   b.carried_forward, b.created_at, b.updated_at, p.leave_type
		FROM leave_balances b
		JOIN leave_policies p ON p.id = b.policy_id
		WHERE b.employee_id = $1
		  AND b.year = $2
		ORDER BY p.leave_type ASC
	`

	rows, err := q.Query(ctx, query, employeeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", err)
	}
	defer rows.Close()

	var balances []leave.LeaveBalance
	for rows.Next() {
		var b leave.LeaveBalance
		if err := rows.Scan(
			&b.ID, &b.EmployeeID, &b.PolicyID, &b.Year, &b.Allocated, &b.Used,
			&b.CarriedForward, &b.CreatedAt, &b.UpdatedAt, &b.LeaveType,
		); err != nil {
			return nil, fmt.Errorf("failed to scan leave balance: %w", err)
		}
		balances = append(balances, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leave balance rows: %w", err)
	}

	return balances, nil
}

// IncrementAllocated implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepository) IncrementAllocated(ctx context.Context, id string, days float64) error {
	return r.increment(ctx, id, "allocated", days)
}

// IncrementUsed implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepository) IncrementUsed(ctx context.Context, id string, days float64) error {
	return r.increment(ctx, id, "used", days)
}

// IncrementCarriedForward implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepository) IncrementCarriedForward(ctx context.Context, id string, days float64) error {
	return r.increment(ctx, id, "carried_forward", days)
}

func (r *leaveBalanceRepository) increment(ctx context.Context, id, column string, days float64) error {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		UPDATE leave_balances
		SET %s = %s + $2,
			updated_at = NOW()
		WHERE id = $1
	`, column, column)

	tag, err := q.Exec(ctx, query, id, days)
	if err != nil {
		return fmt.Errorf("failed to increment %s: %w", column, err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrBalanceNotFound
	}

	return nil
}
