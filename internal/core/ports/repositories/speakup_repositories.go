package repositories

import (
	"context"

	"github.com/openhrstack/speakup_app/internal/core/domain"
)

// SpeakUpSearchFilter is the normalized search input handed to the
// repository. Numeric selectors use -1 for "unset/all"; exactly one of
// CreatedBy / AssignedTo is set depending on the view scope.
type SpeakUpSearchFilter struct {
	CompanyID   int
	IsAnonymous int
	StatusID    int
	TypeID      int
	Query       string

	CreatedBy  string // manage view: entries I created
	AssignedTo string // approval view: entries routed to me

	Page      int
	Size      int
	SortBy    string // empty means server default ordering
	SortOrder string
}

// Offset converts 1-based page/size into a row offset.
func (f SpeakUpSearchFilter) Offset() int {
	page := f.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * f.Size
}

// SpeakUpRepositoryFacade is everything the speak-up service needs from the
// entry store.
type SpeakUpRepositoryFacade interface {
	// SearchSpeakUps returns one page of rows plus the authoritative total
	// count for the filter (from COUNT(*), not the page length).
	SearchSpeakUps(ctx context.Context, filter SpeakUpSearchFilter) ([]domain.SpeakUp, int, error)
	FindSpeakUpByID(ctx context.Context, speakUpID int64) (*domain.SpeakUp, error)
	// SaveSpeakUp inserts a new draft and returns its generated ID.
	SaveSpeakUp(ctx context.Context, entry domain.SpeakUp) (int64, error)
	// UpdateSpeakUp rewrites the editable fields of a pre-submission entry.
	UpdateSpeakUp(ctx context.Context, entry domain.SpeakUp) error
	// UpdateWorkflowState persists a status transition together with the
	// assignment/approver fields the action touched, and records the
	// transition in the audit trail. Both writes land atomically: a
	// transition is never persisted without its history row.
	UpdateWorkflowState(ctx context.Context, entry domain.SpeakUp, transition domain.HistoryEntry) error
	// CountByStatus aggregates the caller's entries by raw status string.
	CountByStatus(ctx context.Context, companyID int, createdBy string) (map[string]int, error)
}

// HistoryRepositoryFacade stores the append-only audit trail.
type HistoryRepositoryFacade interface {
	FindHistory(ctx context.Context, speakUpID int64) ([]domain.HistoryEntry, error)
	AppendHistory(ctx context.Context, entry domain.HistoryEntry) error
}

// LookupRepositoryFacade serves the type/status vocabularies.
type LookupRepositoryFacade interface {
	FindTypes(ctx context.Context) ([]domain.LookupOption, error)
	FindStatuses(ctx context.Context) ([]domain.LookupOption, error)
}
