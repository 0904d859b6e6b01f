package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/clockwise-hr/attendance-backend-go/internal/domain/leave"
	"github.com/clockwise-hr/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leavePolicyRepository struct {
	db *database.DB
}

func NewLeavePolicyRepository(db *database.DB) leave.LeavePolicyRepository {
	return &leavePolicyRepository{db: db}
}

const leavePolicyColumns = `
	id, leave_type, annual_allocation, monthly_accrual, max_carry_forward,
	max_consecutive_days, notice_period_days, requires_document, is_active,
	created_at, updated_at
`

func scanLeavePolicy(row pgx.Row, p *leave.LeavePolicy) error {
	return row.Scan(
		&p.ID, &p.LeaveType, &p.AnnualAllocation, &p.MonthlyAccrual, &p.MaxCarryForward,
		&p.MaxConsecutiveDays, &p.NoticePeriodDays, &p.RequiresDocument, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt,
	)
}

// Upsert implements leave.LeavePolicyRepository. One policy per leave type,
// last writer wins.
func (r *leavePolicyRepository) Upsert(ctx context.Context, policy leave.LeavePolicy) (leave.LeavePolicy, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_policies (
			leave_type, annual_allocation, monthly_accrual, max_carry_forward,
			max_consecutive_days, notice_period_days, requires_document, is_active
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
		ON CONFLICT (leave_type) DO UPDATE SET
			annual_allocation = EXCLUDED.annual_allocation,
			monthly_accrual = EXCLUDED.monthly_accrual,
			max_carry_forward = EXCLUDED.max_carry_forward,
			max_consecutive_days = EXCLUDED.max_consecutive_days,
			notice_period_days = EXCLUDED.notice_period_days,
			requires_document = EXCLUDED.requires_document,
			is_active = EXCLUDED.is_active,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		policy.LeaveType,
		policy.AnnualAllocation,
		policy.MonthlyAccrual,
		policy.MaxCarryForward,
		policy.MaxConsecutiveDays,
		policy.NoticePeriodDays,
		policy.RequiresDocument,
		policy.IsActive,
	).Scan(&policy.ID, &policy.CreatedAt, &policy.UpdatedAt)

	if err != nil {
		return leave.LeavePolicy{}, fmt.Errorf("failed to upsert leave policy: %w", err)
	}

	return policy, nil
}

// GetActiveByType implements leave.LeavePolicyRepository.
func (r *leavePolicyRepository) GetActiveByType(ctx context.Context, leaveType string) (leave.LeavePolicy, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leavePolicyColumns + `
		FROM leave_policies
		WHERE leave_type = $1
		  AND is_active = TRUE
		LIMIT 1
	`

	var policy leave.LeavePolicy
	err := scanLeavePolicy(q.QueryRow(ctx, query, leaveType), &policy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeavePolicy{}, leave.ErrPolicyNotFound
		}
		return leave.LeavePolicy{}, fmt.Errorf("failed to get leave policy: %w", err)
	}

	return policy, nil
}

// ListActive implements leave.LeavePolicyRepository.
func (r *leavePolicyRepository) ListActive(ctx context.Context) ([]leave.LeavePolicy, error) {
	return r.list(ctx, `
		SELECT `+leavePolicyColumns+`
		FROM leave_policies
		WHERE is_active = TRUE
		ORDER BY leave_type ASC
	`)
}

// List implements leave.LeavePolicyRepository.
func (r *leavePolicyRepository) List(ctx context.Context) ([]leave.LeavePolicy, error) {
	return r.list(ctx, `
		SELECT `+leavePolicyColumns+`
		FROM leave_policies
		ORDER BY leave_type ASC
	`)
}

func (r *leavePolicyRepository) list(ctx context.Context, query string) ([]leave.LeavePolicy, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave policies: %w", err)
	}
	defer rows.Close()

	var policies []leave.LeavePolicy
	for rows.Next() {
		var policy leave.LeavePolicy
		if err := scanLeavePolicy(rows, &policy); err != nil {
			return nil, fmt.Errorf("failed to scan leave policy: %w", err)
		}
		policies = append(policies, policy)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leave policy rows: %w", err)
	}

	return policies, nil
}
