package domain

import "strings"

// fallbackRule is the status-derived verdict used when the server sends no
// explicit flag for an action. The verdict is the union of two clauses:
//
//	permitted = (status NOT IN deniedStatuses) OR (status IN allowedStatuses)
//
// For edit/submit/cancel both clauses are populated. They overlap and can
// disagree for statuses such as "draft"; the intended precedence was never
// documented upstream, so the union is kept verbatim rather than resolved.
// flagOnly rules have no fallback at all: absence of a flag means denied.
type fallbackRule struct {
	flagOnly        bool
	deniedStatuses  []string
	allowedStatuses []string
}

var fallbackRules = map[Action]fallbackRule{
	ActionEdit:   {deniedStatuses: []string{StatusClosed, StatusCancelled}, allowedStatuses: []string{StatusOpen, StatusDraft, StatusPending}},
	ActionSubmit: {deniedStatuses: []string{StatusClosed, StatusCancelled}, allowedStatuses: []string{StatusOpen, StatusDraft, StatusPending}},
	ActionCancel: {deniedStatuses: []string{StatusClosed, StatusCancelled}, allowedStatuses: []string{StatusOpen, StatusDraft, StatusPending}},
	ActionApprove: {
		// Approvals only happen from the two statuses an approver can hold.
		deniedStatuses:  nil,
		allowedStatuses: []string{StatusOpen, StatusUnderHRManager},
		flagOnly:        false,
	},
	ActionReject: {deniedStatuses: []string{StatusClosed, StatusCancelled}},
	ActionAssign: {flagOnly: true},
	ActionUpdate: {flagOnly: true},
	ActionClose:  {flagOnly: true},
}

func (r fallbackRule) evaluate(status string) bool {
	if r.flagOnly {
		return false
	}
	s := strings.ToLower(strings.TrimSpace(status))

	allowed := false
	for _, candidate := range r.allowedStatuses {
		if s == candidate {
			allowed = true
			break
		}
	}

	if r.deniedStatuses != nil {
		denied := false
		for _, candidate := range r.deniedStatuses {
			if s == candidate {
				denied = true
				break
			}
		}
		if !denied {
			return true
		}
	}

	return allowed
}

// IsActionPermitted reports whether the given action is currently legal on
// the entry. The server flag is authoritative when set; otherwise the
// status fallback table decides. Pure function of (flags, status); never
// panics and unknown actions degrade to not permitted.
func IsActionPermitted(entry SpeakUp, action Action) bool {
	if action == ActionDelete {
		// Deletable whenever editable, plus the approver cleanup of
		// cancelled entries.
		if IsActionPermitted(entry, ActionEdit) {
			return true
		}
		return strings.EqualFold(strings.TrimSpace(entry.Status), StatusCancelled)
	}

	if flag := entry.Flags.Flag(action); flag != nil {
		return *flag
	}

	rule, ok := fallbackRules[action]
	if !ok {
		return false
	}
	return rule.evaluate(entry.Status)
}

// actionableActions are the actions whose availability marks a row as
// requiring approver attention.
var actionableActions = []Action{ActionApprove, ActionReject, ActionAssign, ActionUpdate, ActionClose}

// IsActionable reports whether at least one approver-side action is
// permitted, i.e. the row belongs in action-required views.
func IsActionable(entry SpeakUp) bool {
	for _, action := range actionableActions {
		if IsActionPermitted(entry, action) {
			return true
		}
	}
	return false
}
