package services

import (
	"context"

	"github.com/openhrstack/speakup_app/internal/dto"
)

// Caller identifies the authenticated employee behind a request.
type Caller struct {
	UserID     string
	Name       string
	CompanyID  int
	IsApprover bool
}

// SpeakUpSvcFacade is the full speak-up workflow surface consumed by the
// handlers: both search scopes, draft CRUD, the action workflow, the history
// ledger and the dashboard aggregate.
type SpeakUpSvcFacade interface {
	// SearchMine lists entries the caller created.
	SearchMine(ctx context.Context, caller Caller, params dto.SearchParams, page dto.PageQuery) (dto.SearchResponse, error)
	// SearchAssigned lists actionable entries routed to the caller.
	SearchAssigned(ctx context.Context, caller Caller, params dto.SearchParams, page dto.PageQuery) (dto.SearchResponse, error)
	GetFilters(ctx context.Context) (dto.FiltersResponse, error)
	GetByID(ctx context.Context, caller Caller, params dto.GetByIDParams) (dto.SpeakUpDetail, error)
	Save(ctx context.Context, caller Caller, params dto.SaveParams) (dto.SpeakUpDetail, error)
	// PerformAction runs one workflow action. Business-rule rejections are
	// reported inside the response envelope, not as an error.
	PerformAction(ctx context.Context, caller Caller, params dto.ActionParams) (dto.ActionResponse, error)
	GetHistory(ctx context.Context, caller Caller, params dto.HistoryParams) (dto.HistoryResponse, error)
	AppendHistoryNote(ctx context.Context, caller Caller, params dto.UpdateHistoryParams) error
	Dashboard(ctx context.Context, caller Caller) (dto.DashboardResponse, error)
}
