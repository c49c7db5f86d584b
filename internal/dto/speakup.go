package dto

import (
	"github.com/openhrstack/speakup_app/internal/core/domain"
)

// SearchParams is the filter block of a speak-up search. Numeric selectors
// use -1 for "unset/all"; clients are expected to sanitize before sending.
type SearchParams struct {
	IsAnonymous        int    `json:"isAnonymous"`
	CompanyID          int    `json:"companyId"`
	StatusID           int    `json:"statusId"`
	TypeID             int    `json:"typeId"`
	CommonSearchString string `json:"commonSearchString"`
}

// SearchRequest is the body of both search endpoints. Every state-changing
// and search endpoint wraps its parameters in a "params" envelope; the
// envelope is part of the wire contract.
type SearchRequest struct {
	Params SearchParams `json:"params" binding:"required"`
}

// PageQuery carries pagination and optional sort as query parameters.
// SortBy/SortOrder are only honoured when explicitly sent; their absence lets
// the server apply its default ordering.
type PageQuery struct {
	Page      int    `form:"page,default=1"`
	Size      int    `form:"size,default=10"`
	SortBy    string `form:"sortBy"`
	SortOrder string `form:"sortOrder"`
}

// SpeakUpItem is one row of a search response.
type SpeakUpItem struct {
	ID               int64              `json:"id"`
	Message          string             `json:"message"`
	Attachment       string             `json:"attachment,omitempty"`
	IsAnonymous      bool               `json:"isAnonymous"`
	Status           string             `json:"status"`
	Type             string             `json:"type,omitempty"`
	TypeID           int                `json:"typeId"`
	EmployeeNumber   string             `json:"employeeNumber,omitempty"`
	EmployeeName     string             `json:"employeeName,omitempty"`
	Designation      string             `json:"designation,omitempty"`
	AssignedEmployee string             `json:"assignedEmployee,omitempty"`
	Approver         string             `json:"approver,omitempty"`
	ActionFlags      domain.ActionFlags `json:"actionFlags"`
	EncryptedPayload string             `json:"encryptedPayload"`
	CreatedAt        string             `json:"createdAt,omitempty"`
}

// CountItem carries the authoritative total record count. It always arrives
// as a single-element array; data holds one page and must never be counted.
type CountItem struct {
	TotalCount int `json:"totalCount"`
}

// SearchResponse is the paginated search result envelope.
type SearchResponse struct {
	Data  []SpeakUpItem `json:"data"`
	Count []CountItem   `json:"count"`
}

// FilterOption is one dropdown entry of the type/status vocabularies.
type FilterOption struct {
	Key       int    `json:"key"`
	Value     string `json:"value"`
	SortOrder int    `json:"sortOrder,omitempty"`
}

// FiltersResponse drives both filter dropdowns and the form's type selector.
type FiltersResponse struct {
	SpeakUpType   []FilterOption `json:"speakUpType"`
	SpeakUpStatus []FilterOption `json:"speakUpStatus"`
}

// GetByIDParams addresses one entry for form hydration.
type GetByIDParams struct {
	Payload   string `json:"payload" binding:"required"`
	CompanyID int    `json:"companyId"`
}

// GetByIDRequest is the body of the get-by-id endpoint.
type GetByIDRequest struct {
	Params GetByIDParams `json:"params" binding:"required"`
}

// SpeakUpDetail is the editable subset returned for form hydration.
type SpeakUpDetail struct {
	ID          int64  `json:"id"`
	Message     string `json:"message"`
	Attachment  string `json:"attachment,omitempty"`
	IsAnonymous bool   `json:"isAnonymous"`
	TypeID      int    `json:"typeId"`
	Status      string `json:"status"`
}

// SaveParams creates or edits a draft entry. ActionBy distinguishes the two:
// AddBtn creates, EditBtn requires the payload of the entry being edited.
type SaveParams struct {
	ActionBy    string `json:"actionBy" binding:"required,oneof=AddBtn EditBtn"`
	Payload     string `json:"payload,omitempty"`
	IsAnonymous bool   `json:"isAnonymous"`
	Attachment  string `json:"attachment,omitempty"`
	TypeID      int    `json:"typeId" binding:"required"`
	Message     string `json:"message" binding:"required,min=10,max=1000"`
}

// SaveRequest is the body of the save endpoint.
type SaveRequest struct {
	Params SaveParams `json:"params" binding:"required"`
}

// ActionParams executes one workflow action on an entry.
type ActionParams struct {
	Payload     string `json:"payload" binding:"required"`
	ActionBy    string `json:"actionBy" binding:"required"`
	Remarks     string `json:"remarks"`
	AssignedEmp string `json:"assignedEmp,omitempty"`
}

// ActionRequest is the body of the action endpoint.
type ActionRequest struct {
	Params ActionParams `json:"params" binding:"required"`
}

// ActionResultItem carries the per-item outcome of an action. Business-rule
// rejections arrive here with HTTP 200; clients scan the status message.
type ActionResultItem struct {
	Status string `json:"status"`
}

// ActionResponse is the action endpoint's response envelope.
type ActionResponse struct {
	Data []ActionResultItem `json:"data"`
}

// HistoryParams addresses one entry's audit trail.
type HistoryParams struct {
	Payload string `json:"payload" binding:"required"`
}

// HistoryRequest is the body of the get-history endpoint.
type HistoryRequest struct {
	Params HistoryParams `json:"params" binding:"required"`
}

// HistoryItem is one audit-trail row.
type HistoryItem struct {
	StatusFrom string `json:"statusFrom,omitempty"`
	StatusTo   string `json:"statusTo,omitempty"`
	ActionBy   string `json:"actionBy,omitempty"`
	ActorName  string `json:"actorName,omitempty"`
	Remarks    string `json:"remarks"`
	CreatedAt  string `json:"createdAt"`
}

// HistoryResponse is the get-history response envelope.
type HistoryResponse struct {
	Data []HistoryItem `json:"data"`
}

// UpdateHistoryParams appends a free-text note without changing status.
type UpdateHistoryParams struct {
	Payload   string `json:"payload" binding:"required"`
	Message   string `json:"message" binding:"required"`
	CompanyID int    `json:"companyId"`
}

// UpdateHistoryRequest is the body of the update-history endpoint.
type UpdateHistoryRequest struct {
	Params UpdateHistoryParams `json:"params" binding:"required"`
}

// DashboardResponse aggregates entries by status bucket for the caller.
type DashboardResponse struct {
	Pending  int `json:"pending"`
	Open     int `json:"open"`
	Approved int `json:"approved"`
	Declined int `json:"declined"`
	Default  int `json:"default"`
	Total    int `json:"total"`
}
