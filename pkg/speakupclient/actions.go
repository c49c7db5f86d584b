package speakupclient

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/openhrstack/speakup_app/internal/core/domain"
	"github.com/openhrstack/speakup_app/internal/dto"
)

// ActionPoster executes one workflow action against the backend.
type ActionPoster interface {
	PostAction(ctx context.Context, params dto.ActionParams) (dto.ActionResponse, error)
}

// ActionOutcome reports how a workflow action ended. A rejected action
// carries the reason in Message; OK means the entry moved and the list was
// refreshed.
type ActionOutcome struct {
	OK      bool
	Message string
}

// Workflow drives workflow actions from the UI side: it validates locally
// before spending a request, distinguishes business-rule rejections from
// transport failures, and triggers exactly one list refresh per successful
// action.
type Workflow struct {
	poster  ActionPoster
	loading atomic.Bool
}

// NewWorkflow creates a workflow driver over the given poster, normally a
// *Client.
func NewWorkflow(poster ActionPoster) *Workflow {
	return &Workflow{poster: poster}
}

// Loading reports whether an action request is in flight. It is guaranteed
// to read false again after PerformAction returns, whatever the outcome.
func (w *Workflow) Loading() bool {
	return w.loading.Load()
}

// Rejected action responses still arrive with HTTP 200; the failure shows
// only in the status text. These markers identify one. "not a valid" is not
// a substring of "not valid", so both are listed.
var softFailureMarkers = []string{"error", "not a valid", "not valid"}

func isSoftFailure(status string) bool {
	lower := strings.ToLower(status)
	for _, marker := range softFailureMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// PerformAction validates, executes, and settles one workflow action.
// Validation failures short-circuit with no network call. Business-rule
// rejections surface the server's message verbatim and skip the refresh.
// Success calls refresh exactly once with the current state intact.
func (w *Workflow) PerformAction(ctx context.Context, params dto.ActionParams, refresh func(context.Context)) ActionOutcome {
	w.loading.Store(true)
	defer w.loading.Store(false)

	if strings.TrimSpace(params.Remarks) == "" {
		return ActionOutcome{Message: "Remarks are required"}
	}
	if params.ActionBy == domain.AssignBtn && strings.TrimSpace(params.AssignedEmp) == "" {
		return ActionOutcome{Message: "Select an employee to assign"}
	}

	resp, err := w.poster.PostAction(ctx, params)
	if err != nil {
		return ActionOutcome{Message: ErrorMessage(err)}
	}

	if len(resp.Data) > 0 && isSoftFailure(resp.Data[0].Status) {
		return ActionOutcome{Message: resp.Data[0].Status}
	}

	if refresh != nil {
		refresh(ctx)
	}
	return ActionOutcome{OK: true}
}
