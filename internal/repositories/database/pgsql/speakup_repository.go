package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openhrstack/speakup_app/internal/apperrors"
	"github.com/openhrstack/speakup_app/internal/core/domain"
	portsrepo "github.com/openhrstack/speakup_app/internal/core/ports/repositories"
	"github.com/openhrstack/speakup_app/internal/models"
)

type PgxSpeakUpRepository struct {
	BaseRepository
}

func newPgxSpeakUpRepository(db *pgxpool.Pool) portsrepo.SpeakUpRepositoryFacade {
	return &PgxSpeakUpRepository{BaseRepository{Pool: db}}
}

var _ portsrepo.SpeakUpRepositoryFacade = (*PgxSpeakUpRepository)(nil)

// sortColumns whitelists client-selectable sort columns. Anything else falls
// back to the server default ordering.
var sortColumns = map[string]string{
	"id":        "s.speak_up_id",
	"status":    "s.status",
	"type":      "t.value",
	"createdAt": "s.created_at",
	"message":   "s.message",
}

const defaultOrder = "s.last_updated_at DESC"

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}

func boolPtr(nb sql.NullBool) *bool {
	if !nb.Valid {
		return nil
	}
	b := nb.Bool
	return &b
}

// Helper to convert domain.SpeakUp to models.SpeakUp
func toModelSpeakUp(d domain.SpeakUp) models.SpeakUp {
	return models.SpeakUp{
		SpeakUpID:          d.SpeakUpID,
		CompanyID:          d.CompanyID,
		Message:            d.Message,
		Attachment:         nullStr(d.Attachment),
		IsAnonymous:        d.IsAnonymous,
		Status:             d.Status,
		TypeID:             d.TypeID,
		EmployeeNumber:     nullStr(d.EmployeeNumber),
		EmployeeName:       nullStr(d.EmployeeName),
		Designation:        nullStr(d.Designation),
		AssignedEmployee:   nullStr(d.AssignedEmployee),
		Approver:           nullStr(d.Approver),
		AssignedEmployeeID: nullStr(d.AssignedEmployeeID),
		ApproverID:         nullStr(d.ApproverID),
		CanApprove:         nullBool(d.Flags.Approve),
		CanReject:          nullBool(d.Flags.Reject),
		CanAssign:          nullBool(d.Flags.Assign),
		CanUpdate:          nullBool(d.Flags.Update),
		CanClose:           nullBool(d.Flags.Close),
		CanEdit:            nullBool(d.Flags.Edit),
		CanSubmit:          nullBool(d.Flags.Submit),
		CanCancel:          nullBool(d.Flags.Cancel),
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

// Helper to convert models.SpeakUp to domain.SpeakUp
func toDomainSpeakUp(m models.SpeakUp) domain.SpeakUp {
	return domain.SpeakUp{
		SpeakUpID:          m.SpeakUpID,
		CompanyID:          m.CompanyID,
		Message:            m.Message,
		Attachment:         m.Attachment.String,
		IsAnonymous:        m.IsAnonymous,
		Status:             m.Status,
		TypeID:             m.TypeID,
		TypeName:           m.TypeName.String,
		EmployeeNumber:     m.EmployeeNumber.String,
		EmployeeName:       m.EmployeeName.String,
		Designation:        m.Designation.String,
		AssignedEmployee:   m.AssignedEmployee.String,
		Approver:           m.Approver.String,
		AssignedEmployeeID: m.AssignedEmployeeID.String,
		ApproverID:         m.ApproverID.String,
		Flags: domain.ActionFlags{
			Approve: boolPtr(m.CanApprove),
			Reject:  boolPtr(m.CanReject),
			Assign:  boolPtr(m.CanAssign),
			Update:  boolPtr(m.CanUpdate),
			Close:   boolPtr(m.CanClose),
			Edit:    boolPtr(m.CanEdit),
			Submit:  boolPtr(m.CanSubmit),
			Cancel:  boolPtr(m.CanCancel),
		},
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const speakUpSelectColumns = `
	s.speak_up_id, s.company_id, s.message, s.attachment, s.is_anonymous, s.status,
	s.type_id, t.value AS type_name,
	s.employee_number, s.employee_name, s.designation,
	s.assigned_employee, s.approver, s.assigned_employee_id, s.approver_id,
	s.can_approve, s.can_reject, s.can_assign, s.can_update, s.can_close,
	s.can_edit, s.can_submit, s.can_cancel,
	s.created_at, s.created_by, s.last_updated_at, s.last_updated_by`

func scanSpeakUp(row pgx.Row) (models.SpeakUp, error) {
	var m models.SpeakUp
	err := row.Scan(
		&m.SpeakUpID, &m.CompanyID, &m.Message, &m.Attachment, &m.IsAnonymous, &m.Status,
		&m.TypeID, &m.TypeName,
		&m.EmployeeNumber, &m.EmployeeName, &m.Designation,
		&m.AssignedEmployee, &m.Approver, &m.AssignedEmployeeID, &m.ApproverID,
		&m.CanApprove, &m.CanReject, &m.CanAssign, &m.CanUpdate, &m.CanClose,
		&m.CanEdit, &m.CanSubmit, &m.CanCancel,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

// buildSearchWhere assembles the WHERE clause and args shared by the page
// query and the count query.
func buildSearchWhere(filter portsrepo.SpeakUpSearchFilter) (string, []any) {
	clauses := []string{"s.deleted_at IS NULL", "s.company_id = $1"}
	args := []any{filter.CompanyID}

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.CreatedBy != "" {
		clauses = append(clauses, "s.created_by = "+arg(filter.CreatedBy))
	}
	if filter.AssignedTo != "" {
		p := arg(filter.AssignedTo)
		clauses = append(clauses, fmt.Sprintf("(s.assigned_employee_id = %s OR s.approver_id = %s)", p, p))
		// Approval view only surfaces rows with something left to do:
		// non-terminal status, or an explicit flag for the no-fallback actions.
		clauses = append(clauses,
			"(LOWER(s.status) NOT IN ('closed', 'approved', 'rejected', 'cancelled') OR s.can_assign OR s.can_update OR s.can_close)")
	}
	if filter.IsAnonymous == 0 || filter.IsAnonymous == 1 {
		clauses = append(clauses, "s.is_anonymous = "+arg(filter.IsAnonymous == 1))
	}
	if filter.TypeID > 0 {
		clauses = append(clauses, "s.type_id = "+arg(filter.TypeID))
	}
	if filter.StatusID > 0 {
		clauses = append(clauses, "LOWER(s.status) = LOWER((SELECT value FROM speak_up_statuses WHERE key = "+arg(filter.StatusID)+"))")
	}
	if filter.Query != "" {
		p := arg("%" + filter.Query + "%")
		clauses = append(clauses, fmt.Sprintf("(s.message ILIKE %s OR s.status ILIKE %s OR t.value ILIKE %s)", p, p, p))
	}

	return strings.Join(clauses, " AND "), args
}

func (r *PgxSpeakUpRepository) SearchSpeakUps(ctx context.Context, filter portsrepo.SpeakUpSearchFilter) ([]domain.SpeakUp, int, error) {
	where, args := buildSearchWhere(filter)

	countQuery := `
		SELECT COUNT(*)
		FROM speak_ups s
		LEFT JOIN speak_up_types t ON t.key = s.type_id
		WHERE ` + where
	var totalCount int
	if err := r.Pool.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count speak-ups: %w", err)
	}

	orderBy := defaultOrder
	if col, ok := sortColumns[filter.SortBy]; ok {
		direction := "ASC"
		if strings.EqualFold(filter.SortOrder, "desc") {
			direction = "DESC"
		}
		orderBy = col + " " + direction
	}

	size := filter.Size
	if size <= 0 {
		size = 10
	}
	args = append(args, size, filter.Offset())
	pageQuery := fmt.Sprintf(`
		SELECT %s
		FROM speak_ups s
		LEFT JOIN speak_up_types t ON t.key = s.type_id
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`, speakUpSelectColumns, where, orderBy, len(args)-1, len(args))

	rows, err := r.Pool.Query(ctx, pageQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search speak-ups: %w", err)
	}
	defer rows.Close()

	var result []domain.SpeakUp
	for rows.Next() {
		m, err := scanSpeakUp(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan speak-up row: %w", err)
		}
		result = append(result, toDomainSpeakUp(m))
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating speak-up rows: %w", err)
	}

	return result, totalCount, nil
}

func (r *PgxSpeakUpRepository) FindSpeakUpByID(ctx context.Context, speakUpID int64) (*domain.SpeakUp, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM speak_ups s
		LEFT JOIN speak_up_types t ON t.key = s.type_id
		WHERE s.speak_up_id = $1 AND s.deleted_at IS NULL`, speakUpSelectColumns)

	m, err := scanSpeakUp(r.Pool.QueryRow(ctx, query, speakUpID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find speak-up %d: %w", speakUpID, err)
	}

	entry := toDomainSpeakUp(m)
	return &entry, nil
}

func (r *PgxSpeakUpRepository) SaveSpeakUp(ctx context.Context, entry domain.SpeakUp) (int64, error) {
	m := toModelSpeakUp(entry)
	query := `
		INSERT INTO speak_ups (
			company_id, message, attachment, is_anonymous, status, type_id,
			employee_number, employee_name, designation,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING speak_up_id`

	var id int64
	err := r.Pool.QueryRow(ctx, query,
		m.CompanyID, m.Message, m.Attachment, m.IsAnonymous, m.Status, m.TypeID,
		m.EmployeeNumber, m.EmployeeName, m.Designation,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to save speak-up: %w", err)
	}
	return id, nil
}

func (r *PgxSpeakUpRepository) UpdateSpeakUp(ctx context.Context, entry domain.SpeakUp) error {
	m := toModelSpeakUp(entry)
	query := `
		UPDATE speak_ups SET
			message = $2,
			attachment = $3,
			is_anonymous = $4,
			type_id = $5,
			last_updated_at = $6,
			last_updated_by = $7
		WHERE speak_up_id = $1 AND deleted_at IS NULL`

	tag, err := r.Pool.Exec(ctx, query,
		m.SpeakUpID, m.Message, m.Attachment, m.IsAnonymous, m.TypeID,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update speak-up %d: %w", entry.SpeakUpID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateWorkflowState applies a status transition and its audit row in one
// transaction. A transition must never be persisted without its history row.
func (r *PgxSpeakUpRepository) UpdateWorkflowState(ctx context.Context, entry domain.SpeakUp, transition domain.HistoryEntry) error {
	m := toModelSpeakUp(entry)
	query := `
		UPDATE speak_ups SET
			status = $2,
			assigned_employee = $3,
			assigned_employee_id = $4,
			approver = $5,
			approver_id = $6,
			can_approve = $7, can_reject = $8, can_assign = $9, can_update = $10,
			can_close = $11, can_edit = $12, can_submit = $13, can_cancel = $14,
			last_updated_at = $15,
			last_updated_by = $16
		WHERE speak_up_id = $1 AND deleted_at IS NULL`

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	tag, err := tx.Exec(ctx, query,
		m.SpeakUpID, m.Status,
		m.AssignedEmployee, m.AssignedEmployeeID, m.Approver, m.ApproverID,
		m.CanApprove, m.CanReject, m.CanAssign, m.CanUpdate,
		m.CanClose, m.CanEdit, m.CanSubmit, m.CanCancel,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update workflow state for speak-up %d: %w", entry.SpeakUpID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := insertHistory(ctx, tx, transition); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

func (r *PgxSpeakUpRepository) CountByStatus(ctx context.Context, companyID int, createdBy string) (map[string]int, error) {
	query := `
		SELECT status, COUNT(*)
		FROM speak_ups
		WHERE deleted_at IS NULL AND company_id = $1 AND created_by = $2
		GROUP BY status`

	rows, err := r.Pool.Query(ctx, query, companyID, createdBy)
	if err != nil {
		return nil, fmt.Errorf("failed to count speak-ups by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status counts: %w", err)
	}
	return counts, nil
}
