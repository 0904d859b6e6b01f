package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/clockwise-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/clockwise-hr/attendance-backend-go/internal/pkg/database"
)

type auditRepository struct {
	db *database.DB
}

func NewAuditRepository(db *database.DB) attendance.AuditRepository {
	return &auditRepository{db: db}
}

// Create implements attendance.AuditRepository. Snapshots are stored as
// jsonb so the audit trail survives schema changes to the main table.
func (r *auditRepository) Create(ctx context.Context, entry attendance.AuditEntry) error {
	q := GetQuerier(ctx, r.db)

	previous, err := json.Marshal(entry.Previous)
	if err != nil {
		return fmt.Errorf("failed to marshal previous snapshot: %w", err)
	}
	current, err := json.Marshal(entry.Current)
	if err != nil {
		return fmt.Errorf("failed to marshal current snapshot: %w", err)
	}

	query := `
		INSERT INTO attendance_audit (
			attendance_id, employee_id, action, actor_id, reason, previous, current
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
	`

	_, err = q.Exec(ctx, query,
		entry.AttendanceID,
		entry.EmployeeID,
		entry.Action,
		entry.ActorID,
		entry.Reason,
		previous,
		current,
	)
	if err != nil {
		return fmt.Errorf("failed to create audit entry: %w", err)
	}

	return nil
}

// ListByAttendance implements attendance.AuditRepository.
func (r *auditRepository) ListByAttendance(ctx context.Context, attendanceID string) ([]attendance.AuditEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, attendance_id, employee_id, action, actor_id, reason, previous, current, created_at
		FROM attendance_audit
		WHERE attendance_id = $1
		ORDER BY created_at ASC
	`

	rows, err := q.Query(ctx, query, attendanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []attendance.AuditEntry
	for rows.Next() {
		var entry attendance.AuditEntry
		var previous, current []byte
		if err := rows.Scan(
			&entry.ID, &entry.AttendanceID, &entry.EmployeeID, &entry.Action,
			&entry.ActorID, &entry.Reason, &previous, &current, &entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		if err := json.Unmarshal(previous, &entry.Previous); err != nil {
			return nil, fmt.Errorf("failed to unmarshal previous snapshot: %w", err)
		}
		if err := json.Unmarshal(current, &entry.Current); err != nil {
			return nil, fmt.Errorf("failed to unmarshal current snapshot: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit rows: %w", err)
	}

	return entries, nil
}
