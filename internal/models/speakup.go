package models

import (
	"database/sql"
	"time"
)

// SpeakUp is the database row shape of a speak-up request.
type SpeakUp struct {
	SpeakUpID   int64          `db:"speak_up_id"`
	CompanyID   int            `db:"company_id"`
	Message     string         `db:"message"`
	Attachment  sql.NullString `db:"attachment"`
	IsAnonymous bool           `db:"is_anonymous"`
	Status      string         `db:"status"`
	TypeID      int            `db:"type_id"`
	TypeName    sql.NullString `db:"type_name"`

	EmployeeNumber sql.NullString `db:"employee_number"`
	EmployeeName   sql.NullString `db:"employee_name"`
	Designation    sql.NullString `db:"designation"`

	AssignedEmployee   sql.NullString `db:"assigned_employee"`
	Approver           sql.NullString `db:"approver"`
	AssignedEmployeeID sql.NullString `db:"assigned_employee_id"`
	ApproverID         sql.NullString `db:"approver_id"`

	// Per-action overrides; NULL means derive from status.
	CanApprove sql.NullBool `db:"can_approve"`
	CanReject  sql.NullBool `db:"can_reject"`
	CanAssign  sql.NullBool `db:"can_assign"`
	CanUpdate  sql.NullBool `db:"can_update"`
	CanClose   sql.NullBool `db:"can_close"`
	CanEdit    sql.NullBool `db:"can_edit"`
	CanSubmit  sql.NullBool `db:"can_submit"`
	CanCancel  sql.NullBool `db:"can_cancel"`

	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}

// SpeakUpHistory is the database row shape of one audit-trail entry.
type SpeakUpHistory struct {
	HistoryID  int64          `db:"history_id"`
	SpeakUpID  int64          `db:"speak_up_id"`
	StatusFrom sql.NullString `db:"status_from"`
	StatusTo   sql.NullString `db:"status_to"`
	ActionBy   sql.NullString `db:"action_by"`
	ActorName  sql.NullString `db:"actor_name"`
	Remarks    string         `db:"remarks"`
	CreatedAt  time.Time      `db:"created_at"`
}

// LookupOption is one row of the speak_up_types / speak_up_statuses tables.
type LookupOption struct {
	Key       int    `db:"key"`
	Value     string `db:"value"`
	SortOrder int    `db:"sort_order"`
}
