package models

import (
	"database/sql"
	"time"
)

// User represents an employee account row, including credential fields that
// never leave the repository layer.
type User struct {
	UserID         string         `db:"user_id"`
	Username       string         `db:"username"`
	PasswordHash   string         `db:"password_hash"`
	Name           string         `db:"name"`
	EmployeeNumber sql.NullString `db:"employee_number"`
	Designation    sql.NullString `db:"designation"`
	CompanyID      int            `db:"company_id"`
	Role           sql.NullString `db:"role"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`

	RefreshTokenHash       sql.NullString `db:"refresh_token_hash"`
	RefreshTokenExpiryTime sql.NullTime   `db:"refresh_token_expiry_time"`
}
