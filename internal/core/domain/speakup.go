package domain

import (
	"strings"
	"time"
)

// Action is one workflow action that can be taken on a speak-up entry.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionAssign  Action = "assign"
	ActionUpdate  Action = "update"
	ActionClose   Action = "close"
	ActionEdit    Action = "edit"
	ActionSubmit  Action = "submit"
	ActionCancel  Action = "cancel"
	ActionDelete  Action = "delete"
)

// Action button identifiers recognized by the action endpoint. These are part
// of the wire contract and must stay in sync with the Action constants.
const (
	ApproveBtn = "ApproveBtn"
	RejectBtn  = "RejectBtn"
	AssignBtn  = "AssignBtn"
	CloseBtn   = "CloseBtn"
	CancelBtn  = "CancelBtn"
	SubmitBtn  = "SubmitBtn"
	AddBtn     = "AddBtn"
	EditBtn    = "EditBtn"
)

// actionButtons maps workflow actions to their wire identifiers.
var actionButtons = map[Action]string{
	ActionApprove: ApproveBtn,
	ActionReject:  RejectBtn,
	ActionAssign:  AssignBtn,
	ActionClose:   CloseBtn,
	ActionCancel:  CancelBtn,
	ActionSubmit:  SubmitBtn,
}

// ButtonID returns the wire identifier for a workflow action. The second
// return is false for actions that have no action-endpoint button (edit,
// delete, update-history go through their own endpoints).
func (a Action) ButtonID() (string, bool) {
	id, ok := actionButtons[a]
	return id, ok
}

// ActionFromButtonID resolves a wire identifier back to its workflow action.
func ActionFromButtonID(buttonID string) (Action, bool) {
	for action, id := range actionButtons {
		if id == buttonID {
			return action, true
		}
	}
	return "", false
}

// Well-known status values. The status vocabulary is open ended; anything the
// workflow engine emits ("Awaiting ES Approval", ...) is carried verbatim and
// only ever compared case-insensitively.
const (
	StatusOpen               = "open"
	StatusDraft              = "draft"
	StatusPending            = "pending"
	StatusClosed             = "closed"
	StatusApproved           = "approved"
	StatusRejected           = "rejected"
	StatusCancelled          = "cancelled"
	StatusUnderHRManager     = "under hr manager"
	StatusAssignedToEmployee = "assigned to employee"
)

// IsTerminalStatus reports whether no further transition is possible.
func IsTerminalStatus(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case StatusClosed, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// ActionFlags carries the server's per-action authorization verdicts for one
// entry. nil means "not specified; derive from status".
type ActionFlags struct {
	Approve *bool `json:"approve"`
	Reject  *bool `json:"reject"`
	Assign  *bool `json:"assign"`
	Update  *bool `json:"update"`
	Close   *bool `json:"close"`
	Edit    *bool `json:"edit"`
	Submit  *bool `json:"submit"`
	Cancel  *bool `json:"cancel"`
}

// Flag returns the server verdict for one action, nil when unspecified.
func (f ActionFlags) Flag(a Action) *bool {
	switch a {
	case ActionApprove:
		return f.Approve
	case ActionReject:
		return f.Reject
	case ActionAssign:
		return f.Assign
	case ActionUpdate:
		return f.Update
	case ActionClose:
		return f.Close
	case ActionEdit:
		return f.Edit
	case ActionSubmit:
		return f.Submit
	case ActionCancel:
		return f.Cancel
	}
	return nil
}

// SpeakUp is one workplace feedback request.
type SpeakUp struct {
	SpeakUpID   int64  `json:"speakUpId"`
	CompanyID   int    `json:"companyId"`
	Message     string `json:"message"`
	Attachment  string `json:"attachment,omitempty"`
	IsAnonymous bool   `json:"isAnonymous"`
	Status      string `json:"status"`
	TypeID      int    `json:"typeId"`
	TypeName    string `json:"typeName,omitempty"`

	// Identity fields. Redacted in every view when IsAnonymous is set.
	EmployeeNumber string `json:"employeeNumber,omitempty"`
	EmployeeName   string `json:"employeeName,omitempty"`
	Designation    string `json:"designation,omitempty"`

	AssignedEmployee string `json:"assignedEmployee,omitempty"`
	Approver         string `json:"approver,omitempty"`

	// Routing references. User IDs, never rendered; the display names
	// above are what views show.
	AssignedEmployeeID string `json:"-"`
	ApproverID         string `json:"-"`

	Flags ActionFlags `json:"flags"`

	AuditFields
}

// Redacted returns a copy with all identity fields cleared. Anonymous entries
// must pass through this before leaving the service layer.
func (s SpeakUp) Redacted() SpeakUp {
	if !s.IsAnonymous {
		return s
	}
	out := s
	out.EmployeeNumber = ""
	out.EmployeeName = ""
	out.Designation = ""
	out.CreatedBy = ""
	out.LastUpdatedBy = ""
	return out
}

// HistoryEntry is one row of an entry's audit trail. Notes appended through
// the history endpoint have an empty StatusTo and leave the entry untouched.
type HistoryEntry struct {
	HistoryID  int64     `json:"historyId"`
	SpeakUpID  int64     `json:"speakUpId"`
	StatusFrom string    `json:"statusFrom,omitempty"`
	StatusTo   string    `json:"statusTo,omitempty"`
	ActionBy   string    `json:"actionBy,omitempty"`
	ActorName  string    `json:"actorName,omitempty"`
	Remarks    string    `json:"remarks"`
	CreatedAt  time.Time `json:"createdAt"`
}

// LookupOption is one entry of the type/status dropdown vocabularies.
type LookupOption struct {
	Key       int    `json:"key"`
	Value     string `json:"value"`
	SortOrder int    `json:"sortOrder,omitempty"`
}
