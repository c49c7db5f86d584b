package domain

import "time"

// User represents an employee account in the domain. Approvers are employees
// carrying the approver role.
type User struct {
	UserID         string `json:"userID"` // Primary Key (UUID)
	Username       string `json:"username"`
	Name           string `json:"name"`
	EmployeeNumber string `json:"employeeNumber,omitempty"`
	Designation    string `json:"designation,omitempty"`
	CompanyID      int    `json:"companyId"`
	Role           string `json:"role,omitempty"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Used for soft delete
}
