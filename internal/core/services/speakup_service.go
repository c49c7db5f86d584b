package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openhrstack/speakup_app/internal/apperrors"
	"github.com/openhrstack/speakup_app/internal/core/domain"
	portsrepo "github.com/openhrstack/speakup_app/internal/core/ports/repositories"
	portssvc "github.com/openhrstack/speakup_app/internal/core/ports/services"
	"github.com/openhrstack/speakup_app/internal/dto"
	"github.com/openhrstack/speakup_app/internal/utils/payload"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type speakUpService struct {
	speakUpRepo      portsrepo.SpeakUpRepositoryFacade
	historyRepo      portsrepo.HistoryRepositoryFacade
	lookupRepo       portsrepo.LookupRepositoryFacade
	userRepo         portsrepo.UserRepositoryFacade
	sealer           *payload.Sealer
	defaultCompanyID int
}

// NewSpeakUpService assembles the speak-up workflow service.
func NewSpeakUpService(
	speakUpRepo portsrepo.SpeakUpRepositoryFacade,
	historyRepo portsrepo.HistoryRepositoryFacade,
	lookupRepo portsrepo.LookupRepositoryFacade,
	userRepo portsrepo.UserRepositoryFacade,
	sealer *payload.Sealer,
	defaultCompanyID int,
) portssvc.SpeakUpSvcFacade {
	return &speakUpService{
		speakUpRepo:      speakUpRepo,
		historyRepo:      historyRepo,
		lookupRepo:       lookupRepo,
		userRepo:         userRepo,
		sealer:           sealer,
		defaultCompanyID: defaultCompanyID,
	}
}

var _ portssvc.SpeakUpSvcFacade = (*speakUpService)(nil)

// companyScope resolves the effective company for a request: explicit filter
// value, then the caller's claim, then the configured default.
func (s *speakUpService) companyScope(caller portssvc.Caller, requested int) int {
	if requested > 0 {
		return requested
	}
	if caller.CompanyID > 0 {
		return caller.CompanyID
	}
	return s.defaultCompanyID
}

func buildFilter(companyID int, params dto.SearchParams, page dto.PageQuery) portsrepo.SpeakUpSearchFilter {
	size := page.Size
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	pageNum := page.Page
	if pageNum < 1 {
		pageNum = 1
	}
	return portsrepo.SpeakUpSearchFilter{
		CompanyID:   companyID,
		IsAnonymous: params.IsAnonymous,
		StatusID:    params.StatusID,
		TypeID:      params.TypeID,
		Query:       strings.TrimSpace(params.CommonSearchString),
		Page:        pageNum,
		Size:        size,
		SortBy:      page.SortBy,
		SortOrder:   page.SortOrder,
	}
}

// toItems seals a payload token per row and redacts anonymous entries.
func (s *speakUpService) toItems(entries []domain.SpeakUp) ([]dto.SpeakUpItem, error) {
	items := make([]dto.SpeakUpItem, 0, len(entries))
	for _, entry := range entries {
		token, err := s.sealer.Seal(entry.SpeakUpID, entry.CompanyID)
		if err != nil {
			return nil, fmt.Errorf("failed to seal payload for speak-up %d: %w", entry.SpeakUpID, err)
		}
		items = append(items, dto.ToSpeakUpItem(entry.Redacted(), token))
	}
	return items, nil
}

func (s *speakUpService) SearchMine(ctx context.Context, caller portssvc.Caller, params dto.SearchParams, page dto.PageQuery) (dto.SearchResponse, error) {
	filter := buildFilter(s.companyScope(caller, params.CompanyID), params, page)
	filter.CreatedBy = caller.UserID

	entries, totalCount, err := s.speakUpRepo.SearchSpeakUps(ctx, filter)
	if err != nil {
		return dto.SearchResponse{}, fmt.Errorf("failed to search own speak-ups: %w", err)
	}

	items, err := s.toItems(entries)
	if err != nil {
		return dto.SearchResponse{}, err
	}
	return dto.ToSearchResponse(items, totalCount), nil
}

func (s *speakUpService) SearchAssigned(ctx context.Context, caller portssvc.Caller, params dto.SearchParams, page dto.PageQuery) (dto.SearchResponse, error) {
	if !caller.IsApprover {
		return dto.SearchResponse{}, apperrors.ErrForbidden
	}

	filter := buildFilter(s.companyScope(caller, params.CompanyID), params, page)
	filter.AssignedTo = caller.UserID

	entries, totalCount, err := s.speakUpRepo.SearchSpeakUps(ctx, filter)
	if err != nil {
		return dto.SearchResponse{}, fmt.Errorf("failed to search assigned speak-ups: %w", err)
	}

	items, err := s.toItems(entries)
	if err != nil {
		return dto.SearchResponse{}, err
	}
	return dto.ToSearchResponse(items, totalCount), nil
}

func (s *speakUpService) GetFilters(ctx context.Context) (dto.FiltersResponse, error) {
	types, err := s.lookupRepo.FindTypes(ctx)
	if err != nil {
		return dto.FiltersResponse{}, fmt.Errorf("failed to load speak-up types: %w", err)
	}
	statuses, err := s.lookupRepo.FindStatuses(ctx)
	if err != nil {
		return dto.FiltersResponse{}, fmt.Errorf("failed to load speak-up statuses: %w", err)
	}
	return dto.FiltersResponse{
		SpeakUpType:   dto.ToFilterOptions(types),
		SpeakUpStatus: dto.ToFilterOptions(statuses),
	}, nil
}

// openEntry unseals a payload token and loads the entry it references,
// verifying the company scope sealed into the token.
func (s *speakUpService) openEntry(ctx context.Context, token string) (*domain.SpeakUp, error) {
	speakUpID, companyID, err := s.sealer.Open(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	entry, err := s.speakUpRepo.FindSpeakUpByID(ctx, speakUpID)
	if err != nil {
		return nil, err
	}
	if entry.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	return entry, nil
}

func (s *speakUpService) GetByID(ctx context.Context, caller portssvc.Caller, params dto.GetByIDParams) (dto.SpeakUpDetail, error) {
	entry, err := s.openEntry(ctx, params.Payload)
	if err != nil {
		return dto.SpeakUpDetail{}, err
	}
	if entry.CreatedBy != caller.UserID && !caller.IsApprover {
		return dto.SpeakUpDetail{}, apperrors.ErrForbidden
	}
	return dto.ToSpeakUpDetail(*entry), nil
}

func (s *speakUpService) Save(ctx context.Context, caller portssvc.Caller, params dto.SaveParams) (dto.SpeakUpDetail, error) {
	switch params.ActionBy {
	case domain.AddBtn:
		return s.createDraft(ctx, caller, params)
	case domain.EditBtn:
		return s.editDraft(ctx, caller, params)
	default:
		return dto.SpeakUpDetail{}, fmt.Errorf("%w: unknown save action %q", apperrors.ErrValidation, params.ActionBy)
	}
}

func (s *speakUpService) createDraft(ctx context.Context, caller portssvc.Caller, params dto.SaveParams) (dto.SpeakUpDetail, error) {
	now := time.Now()
	entry := domain.SpeakUp{
		CompanyID:   s.companyScope(caller, 0),
		Message:     strings.TrimSpace(params.Message),
		Attachment:  params.Attachment,
		IsAnonymous: params.IsAnonymous,
		Status:      domain.StatusOpen,
		TypeID:      params.TypeID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     caller.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: caller.UserID,
		},
	}

	if !params.IsAnonymous {
		user, err := s.userRepo.FindUserByID(ctx, caller.UserID)
		if err != nil {
			return dto.SpeakUpDetail{}, fmt.Errorf("failed to load requester profile: %w", err)
		}
		entry.EmployeeNumber = user.EmployeeNumber
		entry.EmployeeName = user.Name
		entry.Designation = user.Designation
	}

	id, err := s.speakUpRepo.SaveSpeakUp(ctx, entry)
	if err != nil {
		return dto.SpeakUpDetail{}, fmt.Errorf("failed to create speak-up: %w", err)
	}
	entry.SpeakUpID = id

	history := domain.HistoryEntry{
		SpeakUpID: id,
		StatusTo:  entry.Status,
		ActionBy:  domain.AddBtn,
		ActorName: s.actorName(ctx, caller, entry.IsAnonymous),
		Remarks:   "Speak-up created",
		CreatedAt: now,
	}
	if err := s.historyRepo.AppendHistory(ctx, history); err != nil {
		return dto.SpeakUpDetail{}, fmt.Errorf("failed to record creation history: %w", err)
	}

	return dto.ToSpeakUpDetail(entry), nil
}

func (s *speakUpService) editDraft(ctx context.Context, caller portssvc.Caller, params dto.SaveParams) (dto.SpeakUpDetail, error) {
	if params.Payload == "" {
		return dto.SpeakUpDetail{}, fmt.Errorf("%w: payload is required for edit", apperrors.ErrValidation)
	}
	entry, err := s.openEntry(ctx, params.Payload)
	if err != nil {
		return dto.SpeakUpDetail{}, err
	}
	if entry.CreatedBy != caller.UserID {
		return dto.SpeakUpDetail{}, apperrors.ErrForbidden
	}
	// Terminal entries are immutable even where the edit fallback would
	// otherwise allow a rewrite.
	if domain.IsTerminalStatus(entry.Status) || !domain.IsActionPermitted(*entry, domain.ActionEdit) {
		return dto.SpeakUpDetail{}, fmt.Errorf("%w: entry is no longer editable", apperrors.ErrValidation)
	}

	entry.Message = strings.TrimSpace(params.Message)
	entry.Attachment = params.Attachment
	entry.IsAnonymous = params.IsAnonymous
	entry.TypeID = params.TypeID
	entry.LastUpdatedAt = time.Now()
	entry.LastUpdatedBy = caller.UserID

	if err := s.speakUpRepo.UpdateSpeakUp(ctx, *entry); err != nil {
		return dto.SpeakUpDetail{}, fmt.Errorf("failed to update speak-up %d: %w", entry.SpeakUpID, err)
	}
	return dto.ToSpeakUpDetail(*entry), nil
}

// actorName resolves the display name recorded in history rows. Anonymous
// entries never carry the requester's name.
func (s *speakUpService) actorName(ctx context.Context, caller portssvc.Caller, anonymous bool) string {
	if anonymous {
		return ""
	}
	if caller.Name != "" {
		return caller.Name
	}
	user, err := s.userRepo.FindUserByID(ctx, caller.UserID)
	if err != nil {
		return ""
	}
	return user.Name
}

// softFailure builds the HTTP-200 business-rule rejection envelope. Clients
// detect these by scanning the embedded status message.
func softFailure(message string) dto.ActionResponse {
	return dto.ActionResponse{Data: []dto.ActionResultItem{{Status: message}}}
}

func (s *speakUpService) PerformAction(ctx context.Context, caller portssvc.Caller, params dto.ActionParams) (dto.ActionResponse, error) {
	if strings.TrimSpace(params.Remarks) == "" {
		return dto.ActionResponse{}, fmt.Errorf("%w: remarks are required", apperrors.ErrValidation)
	}

	action, ok := domain.ActionFromButtonID(params.ActionBy)
	if !ok {
		return softFailure(fmt.Sprintf("%s is not a valid action", params.ActionBy)), nil
	}
	if action == domain.ActionAssign && strings.TrimSpace(params.AssignedEmp) == "" {
		return dto.ActionResponse{}, fmt.Errorf("%w: assigned employee is required for assign", apperrors.ErrValidation)
	}

	entry, err := s.openEntry(ctx, params.Payload)
	if err != nil {
		return dto.ActionResponse{}, err
	}

	// Role split: approver-side actions versus requester-side ones.
	switch action {
	case domain.ActionApprove, domain.ActionReject, domain.ActionAssign, domain.ActionClose:
		if !caller.IsApprover {
			return dto.ActionResponse{}, apperrors.ErrForbidden
		}
	case domain.ActionSubmit, domain.ActionCancel:
		if entry.CreatedBy != caller.UserID {
			return dto.ActionResponse{}, apperrors.ErrForbidden
		}
	}

	// No entry leaves a terminal status, whatever the stored flags say; the
	// per-action check governs everything before that point.
	if domain.IsTerminalStatus(entry.Status) || !domain.IsActionPermitted(*entry, action) {
		return softFailure(fmt.Sprintf("Not a valid action for status %q", entry.Status)), nil
	}

	statusFrom := entry.Status
	actorName := s.actorName(ctx, caller, false)
	now := time.Now()

	switch action {
	case domain.ActionSubmit:
		entry.Status = domain.StatusUnderHRManager
		entry.Flags = domain.ActionFlags{}
	case domain.ActionApprove:
		entry.Status = domain.StatusApproved
		entry.Approver = actorName
		entry.ApproverID = caller.UserID
		entry.Flags = domain.ActionFlags{}
	case domain.ActionReject:
		entry.Status = domain.StatusRejected
		entry.Approver = actorName
		entry.ApproverID = caller.UserID
		entry.Flags = domain.ActionFlags{}
	case domain.ActionAssign:
		entry.Status = domain.StatusAssignedToEmployee
		entry.Approver = actorName
		entry.ApproverID = caller.UserID
		entry.AssignedEmployee = params.AssignedEmp
		entry.AssignedEmployeeID = params.AssignedEmp
		if assignee, err := s.userRepo.FindUserByID(ctx, params.AssignedEmp); err == nil {
			entry.AssignedEmployee = assignee.Name
		}
		// The assignee drives the entry from here; update/close have no
		// status fallback, so grant them explicitly.
		canUpdate, canClose := true, true
		entry.Flags = domain.ActionFlags{Update: &canUpdate, Close: &canClose}
	case domain.ActionClose:
		entry.Status = domain.StatusClosed
		entry.Flags = domain.ActionFlags{}
	case domain.ActionCancel:
		entry.Status = domain.StatusCancelled
		entry.Flags = domain.ActionFlags{}
	default:
		return softFailure(fmt.Sprintf("%s is not a valid action", params.ActionBy)), nil
	}

	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = caller.UserID

	transition := domain.HistoryEntry{
		SpeakUpID:  entry.SpeakUpID,
		StatusFrom: statusFrom,
		StatusTo:   entry.Status,
		ActionBy:   params.ActionBy,
		ActorName:  actorName,
		Remarks:    strings.TrimSpace(params.Remarks),
		CreatedAt:  now,
	}
	if err := s.speakUpRepo.UpdateWorkflowState(ctx, *entry, transition); err != nil {
		return dto.ActionResponse{}, fmt.Errorf("failed to apply %s to speak-up %d: %w", params.ActionBy, entry.SpeakUpID, err)
	}

	return dto.ActionResponse{Data: []dto.ActionResultItem{{Status: entry.Status}}}, nil
}

func (s *speakUpService) GetHistory(ctx context.Context, caller portssvc.Caller, params dto.HistoryParams) (dto.HistoryResponse, error) {
	entry, err := s.openEntry(ctx, params.Payload)
	if err != nil {
		return dto.HistoryResponse{}, err
	}
	if entry.CreatedBy != caller.UserID && !caller.IsApprover {
		return dto.HistoryResponse{}, apperrors.ErrForbidden
	}

	entries, err := s.historyRepo.FindHistory(ctx, entry.SpeakUpID)
	if err != nil {
		return dto.HistoryResponse{}, fmt.Errorf("failed to load history for speak-up %d: %w", entry.SpeakUpID, err)
	}

	items := dto.ToHistoryItems(entries)
	if entry.IsAnonymous {
		// Requester identity never leaks through the ledger either.
		for i := range items {
			if items[i].ActionBy == domain.AddBtn || items[i].ActionBy == domain.SubmitBtn {
				items[i].ActorName = ""
			}
		}
	}
	return dto.HistoryResponse{Data: items}, nil
}

func (s *speakUpService) AppendHistoryNote(ctx context.Context, caller portssvc.Caller, params dto.UpdateHistoryParams) error {
	message := strings.TrimSpace(params.Message)
	if message == "" {
		return fmt.Errorf("%w: message is required", apperrors.ErrValidation)
	}

	entry, err := s.openEntry(ctx, params.Payload)
	if err != nil {
		return err
	}
	if entry.CreatedBy != caller.UserID && !caller.IsApprover {
		return apperrors.ErrForbidden
	}

	history := domain.HistoryEntry{
		SpeakUpID: entry.SpeakUpID,
		Remarks:   message,
		ActorName: s.actorName(ctx, caller, entry.IsAnonymous && entry.CreatedBy == caller.UserID),
		CreatedAt: time.Now(),
	}
	if err := s.historyRepo.AppendHistory(ctx, history); err != nil {
		return fmt.Errorf("failed to append history note for speak-up %d: %w", entry.SpeakUpID, err)
	}
	return nil
}

func (s *speakUpService) Dashboard(ctx context.Context, caller portssvc.Caller) (dto.DashboardResponse, error) {
	counts, err := s.speakUpRepo.CountByStatus(ctx, s.companyScope(caller, 0), caller.UserID)
	if err != nil {
		return dto.DashboardResponse{}, fmt.Errorf("failed to aggregate speak-ups: %w", err)
	}

	var out dto.DashboardResponse
	for status, count := range counts {
		switch domain.Bucket(status) {
		case domain.BucketPending:
			out.Pending += count
		case domain.BucketOpen:
			out.Open += count
		case domain.BucketApproved:
			out.Approved += count
		case domain.BucketDeclined:
			out.Declined += count
		default:
			out.Default += count
		}
		out.Total += count
	}
	return out, nil
}
