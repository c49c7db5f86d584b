package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/openhrstack/speakup_app/internal/apperrors"
	"github.com/openhrstack/speakup_app/internal/core/domain"
	portssvc "github.com/openhrstack/speakup_app/internal/core/ports/services"
	portsrepo "github.com/openhrstack/speakup_app/internal/core/ports/repositories"
	"github.com/openhrstack/speakup_app/internal/core/services"
	"github.com/openhrstack/speakup_app/internal/dto"
	"github.com/openhrstack/speakup_app/internal/utils/payload"
)

// --- Mock SpeakUpRepository ---
type MockSpeakUpRepository struct {
	mock.Mock
}

func (m *MockSpeakUpRepository) SearchSpeakUps(ctx context.Context, filter portsrepo.SpeakUpSearchFilter) ([]domain.SpeakUp, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.SpeakUp), args.Int(1), args.Error(2)
}

func (m *MockSpeakUpRepository) FindSpeakUpByID(ctx context.Context, speakUpID int64) (*domain.SpeakUp, error) {
	args := m.Called(ctx, speakUpID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SpeakUp), args.Error(1)
}

func (m *MockSpeakUpRepository) SaveSpeakUp(ctx context.Context, entry domain.SpeakUp) (int64, error) {
	args := m.Called(ctx, entry)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSpeakUpRepository) UpdateSpeakUp(ctx context.Context, entry domain.SpeakUp) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockSpeakUpRepository) UpdateWorkflowState(ctx context.Context, entry domain.SpeakUp, transition domain.HistoryEntry) error {
	args := m.Called(ctx, entry, transition)
	return args.Error(0)
}

func (m *MockSpeakUpRepository) CountByStatus(ctx context.Context, companyID int, createdBy string) (map[string]int, error) {
	args := m.Called(ctx, companyID, createdBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

// --- Mock HistoryRepository ---
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) FindHistory(ctx context.Context, speakUpID int64) ([]domain.HistoryEntry, error) {
	args := m.Called(ctx, speakUpID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.HistoryEntry), args.Error(1)
}

func (m *MockHistoryRepository) AppendHistory(ctx context.Context, entry domain.HistoryEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// --- Mock LookupRepository ---
type MockLookupRepository struct {
	mock.Mock
}

func (m *MockLookupRepository) FindTypes(ctx context.Context) ([]domain.LookupOption, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LookupOption), args.Error(1)
}

func (m *MockLookupRepository) FindStatuses(ctx context.Context) ([]domain.LookupOption, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LookupOption), args.Error(1)
}

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User, passwordHash string) error {
	args := m.Called(ctx, user, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserWithCredentials(ctx context.Context, username string) (*domain.User, string, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*domain.User), args.String(1), args.Error(2)
}

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	args := m.Called(ctx, userID, refreshTokenHash, refreshTokenExpiryTime)
	return args.Error(0)
}

func (m *MockUserRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// --- Test Suite ---
type SpeakUpServiceTestSuite struct {
	suite.Suite
	mockSpeakUpRepo *MockSpeakUpRepository
	mockHistoryRepo *MockHistoryRepository
	mockLookupRepo  *MockLookupRepository
	mockUserRepo    *MockUserRepository
	sealer          *payload.Sealer
	service         portssvc.SpeakUpSvcFacade
}

const testCompanyID = 7

func (suite *SpeakUpServiceTestSuite) SetupTest() {
	suite.mockSpeakUpRepo = new(MockSpeakUpRepository)
	suite.mockHistoryRepo = new(MockHistoryRepository)
	suite.mockLookupRepo = new(MockLookupRepository)
	suite.mockUserRepo = new(MockUserRepository)

	sealer, err := payload.NewSealer("")
	suite.Require().NoError(err)
	suite.sealer = sealer

	suite.service = services.NewSpeakUpService(
		suite.mockSpeakUpRepo,
		suite.mockHistoryRepo,
		suite.mockLookupRepo,
		suite.mockUserRepo,
		sealer,
		testCompanyID,
	)
}

func (suite *SpeakUpServiceTestSuite) requester() portssvc.Caller {
	return portssvc.Caller{UserID: "user-1", Name: "Ravi Kumar", CompanyID: testCompanyID}
}

func (suite *SpeakUpServiceTestSuite) approver() portssvc.Caller {
	return portssvc.Caller{UserID: "approver-1", Name: "Meena Iyer", CompanyID: testCompanyID, IsApprover: true}
}

func (suite *SpeakUpServiceTestSuite) sealFor(entry domain.SpeakUp) string {
	token, err := suite.sealer.Seal(entry.SpeakUpID, entry.CompanyID)
	suite.Require().NoError(err)
	return token
}

// --- Search ---

func (suite *SpeakUpServiceTestSuite) TestSearchMine_ScopesToCreator() {
	ctx := context.Background()
	caller := suite.requester()
	rows := []domain.SpeakUp{
		{SpeakUpID: 11, CompanyID: testCompanyID, Message: "broken chair in bay 4", Status: domain.StatusOpen},
	}

	suite.mockSpeakUpRepo.On("SearchSpeakUps", ctx, mock.MatchedBy(func(f portsrepo.SpeakUpSearchFilter) bool {
		return f.CreatedBy == caller.UserID && f.AssignedTo == "" && f.CompanyID == testCompanyID && f.Page == 1 && f.Size == 10
	})).Return(rows, 37, nil).Once()

	resp, err := suite.service.SearchMine(ctx, caller, dto.SearchParams{IsAnonymous: -1, StatusID: -1, TypeID: -1}, dto.PageQuery{Page: 1, Size: 10})

	suite.Require().NoError(err)
	suite.Len(resp.Data, 1)
	suite.Require().Len(resp.Count, 1)
	suite.Equal(37, resp.Count[0].TotalCount)
	suite.NotEmpty(resp.Data[0].EncryptedPayload)
	suite.mockSpeakUpRepo.AssertExpectations(suite.T())
}

func (suite *SpeakUpServiceTestSuite) TestSearchMine_RedactsAnonymousRows() {
	ctx := context.Background()
	caller := suite.requester()
	rows := []domain.SpeakUp{
		{SpeakUpID: 12, CompanyID: testCompanyID, IsAnonymous: true, EmployeeName: "Ravi Kumar", EmployeeNumber: "E-100", Designation: "Analyst", Status: domain.StatusOpen},
	}

	suite.mockSpeakUpRepo.On("SearchSpeakUps", ctx, mock.Anything).Return(rows, 1, nil).Once()

	resp, err := suite.service.SearchMine(ctx, caller, dto.SearchParams{}, dto.PageQuery{})

	suite.Require().NoError(err)
	suite.Require().Len(resp.Data, 1)
	suite.Empty(resp.Data[0].EmployeeName)
	suite.Empty(resp.Data[0].EmployeeNumber)
	suite.Empty(resp.Data[0].Designation)
}

func (suite *SpeakUpServiceTestSuite) TestSearchMine_EmptyPageKeepsTotalCount() {
	ctx := context.Background()

	suite.mockSpeakUpRepo.On("SearchSpeakUps", ctx, mock.Anything).Return([]domain.SpeakUp{}, 52, nil).Once()

	resp, err := suite.service.SearchMine(ctx, suite.requester(), dto.SearchParams{}, dto.PageQuery{Page: 6, Size: 10})

	suite.Require().NoError(err)
	suite.NotNil(resp.Data)
	suite.Empty(resp.Data)
	suite.Require().Len(resp.Count, 1)
	suite.Equal(52, resp.Count[0].TotalCount)
}

func (suite *SpeakUpServiceTestSuite) TestSearchAssigned_RequiresApprover() {
	ctx := context.Background()

	_, err := suite.service.SearchAssigned(ctx, suite.requester(), dto.SearchParams{}, dto.PageQuery{})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockSpeakUpRepo.AssertNotCalled(suite.T(), "SearchSpeakUps")
}

func (suite *SpeakUpServiceTestSuite) TestSearchAssigned_ScopesToAssignee() {
	ctx := context.Background()
	caller := suite.approver()

	suite.mockSpeakUpRepo.On("SearchSpeakUps", ctx, mock.MatchedBy(func(f portsrepo.SpeakUpSearchFilter) bool {
		return f.AssignedTo == caller.UserID && f.CreatedBy == ""
	})).Return([]domain.SpeakUp{}, 0, nil).Once()

	_, err := suite.service.SearchAssigned(ctx, caller, dto.SearchParams{}, dto.PageQuery{})

	suite.Require().NoError(err)
	suite.mockSpeakUpRepo.AssertExpectations(suite.T())
}

func (suite *SpeakUpServiceTestSuite) TestSearchMine_RepoError() {
	ctx := context.Background()
	expectedErr := assert.AnError

	suite.mockSpeakUpRepo.On("SearchSpeakUps", ctx, mock.Anything).Return(nil, 0, expectedErr).Once()

	_, err := suite.service.SearchMine(ctx, suite.requester(), dto.SearchParams{}, dto.PageQuery{})

	suite.Require().Error(err)
	suite.ErrorIs(err, expectedErr)
}

// --- GetByID ---

func (suite *SpeakUpServiceTestSuite) TestGetByID_Success() {
	ctx := context.Background()
	caller := suite.requester()
	entry := domain.SpeakUp{SpeakUpID: 21, CompanyID: testCompanyID, Message: "parking lot lights are out", TypeID: 2, Status: domain.StatusOpen}
	entry.CreatedBy = caller.UserID

	suite.mockSpeakUpRepo.On("FindSpeakUpByID", ctx, entry.SpeakUpID).Return(&entry, nil).Once()

	detail, err := suite.service.GetByID(ctx, caller, dto.GetByIDParams{Payload: suite.sealFor(entry)})

	suite.Require().NoError(err)
	suite.Equal(entry.SpeakUpID, detail.ID)
	suite.Equal(entry.Message, detail.Message)
	suite.Equal(entry.TypeID, detail.TypeID)
}

func (suite *SpeakUpServiceTestSuite) TestGetByID_TamperedPayload() {
	ctx := context.Background()

	_, err := suite.service.GetByID(ctx, suite.requester(), dto.GetByIDParams{Payload: "not-a-real-token"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockSpeakUpRepo.AssertNotCalled(suite.T(), "FindSpeakUpByID")
}

func (suite *SpeakUpServiceTestSuite) TestGetByID_CompanyMismatch() {
	ctx := context.Background()
	caller := suite.requester()
	entry := domain.SpeakUp{SpeakUpID: 22, CompanyID: testCompanyID, Status: domain.StatusOpen}
	entry.CreatedBy = caller.UserID

	// Token sealed for a different company scope must not resolve.
	token, err := suite.sealer.Seal(entry.SpeakUpID, testCompanyID+1)
	suite.Require().NoError(err)

	suite.mockSpeakUpRepo.On("FindSpeakUpByID", ctx, entry.SpeakUpID).Return(&entry, nil).Once()

	_, err = suite.service.GetByID(ctx, caller, dto.GetByIDParams{Payload: token})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *SpeakUpServiceTestSuite) TestGetByID_StrangerForbidden() {
	ctx := context.Background()
	entry := domain.SpeakUp{SpeakUpID: 23, CompanyID: testCompanyID, Status: domain.StatusOpen}
	entry.CreatedBy = "someone-else"

	suite.mockSpeakUpRepo.On("FindSpeakUpByID", ctx, entry.SpeakUpID).Return(&entry, nil).Once()

	_, err := suite.service.GetByID(ctx, suite.requester(), dto.GetByIDParams{Payload: suite.sealFor(entry)})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

// --- Save ---

func (suite *SpeakUpServiceTestSuite) TestSave_CreateStampsIdentity() {
	ctx := context.Background()
	caller := suite.requester()
	user := &domain.User{UserID: caller.UserID, Name: "Ravi Kumar", EmployeeNumber: "E-100", Designation: "Analyst", CompanyID: testCompanyID}

	suite.mockUserRepo.On("FindUserByID", ctx, caller.UserID).Return(user, nil).Once()
	suite.mockSpeakUpRepo.On("SaveSpeakUp", ctx, mock.MatchedBy(func(e domain.SpeakUp) bool {
		return e.Status == domain.StatusOpen && e.EmployeeName == user.Name && e.EmployeeNumber == user.EmployeeNumber && e.CreatedBy == caller.UserID
	})).Return(int64(31), nil).Once()
	suite.mockHistoryRepo.On("AppendHistory", ctx, mock.MatchedBy(func(h domain.HistoryEntry) bool {
		return h.SpeakUpID == 31 && h.ActionBy == domain.AddBtn && h.StatusTo == domain.StatusOpen
	})).Return(nil).Once()

	detail, err := suite.service.Save(ctx, caller, dto.SaveParams{
		ActionBy: domain.AddBtn,
		Message:  "cafeteria food quality has dropped",
		TypeID:   3,
	})

	suite.Require().NoError(err)
	suite.Equal(int64(31), detail.ID)
	suite.mockSpeakUpRepo.AssertExpectations(suite.T())
	suite.mockHistoryRepo.AssertExpectations(suite.T())
}

func (suite *SpeakUpServiceTestSuite) TestSave_CreateAnonymousSkipsProfile() {
	ctx := context.Background()
	caller := suite.requester()

	suite.mockSpeakUpRepo.On("SaveSpeakUp", ctx, mock.MatchedBy(func(e domain.SpeakUp) bool {
		return e.IsAnonymous && e.EmployeeName == "" && e.EmployeeNumber == ""
	})).Return(int64(32), nil).Once()
	suite.mockHistoryRepo.On("AppendHistory", ctx, mock.MatchedBy(func(h domain.HistoryEntry) bool {
		return h.ActorName == ""
	})).Return(nil).Once()

	_, err := suite.service.Save(ctx, caller, dto.SaveParams{
		ActionBy:    domain.AddBtn,
		IsAnonymous: true,
		Message:     "manager retaliation concern in team X",
		TypeID:      1,
	})

	suite.Require().NoError(err)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "FindUserByID")
}

func (suite *SpeakUpServiceTestSuite) TestSave_EditRejectedWhenClosed() {
	ctx := context.Background()
	caller := suite.requester()
	entry := domain.SpeakUp{SpeakUpID: 33, CompanyID: testCompanyID, Status: domain.StatusClosed}
	entry.CreatedBy = caller.UserID

	suite.mockSpeakUpRepo.On("FindSpeakUpByID", ctx, entry.SpeakUpID).Return(&entry, nil).Once()

	_, err := suite.service.Save(ctx, caller, dto.SaveParams{
		ActionBy: domain.EditBtn,
		Payload:  suite.sealFor(entry),
		Message:  "updated message body goes here",
		TypeID:   1,
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockSpeakUpRepo.AssertNotCalled(suite.T(), "UpdateSpeakUp")
}

func (suite *SpeakUpServiceTestSuite) TestSave_EditRejectedWhenApproved() {
	ctx := context.Background()
	caller := suite.requester()
	// The edit fallback only denies closed/cancelled; approved entries are
	// terminal all the same and must stay immutable.
	entry := domain.SpeakUp{SpeakUpID: 35, CompanyID: testCompanyID, Status: domain.StatusApproved}
	entry.CreatedBy = caller.UserID

	suite.mockSpeakUpRepo.On("FindSpeakUpByID", ctx, entry.SpeakUpID).Return(&entry, nil).Once()

	_, err := suite.service.Save(ctx, caller, dto.SaveParams{
		ActionBy: domain.EditBtn,
		Payload:  suite.sealFor(entry),
		Message:  "rewriting after the fact",
		TypeID:   1,
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockSpeakUpRepo.AssertNotCalled(suite.T(), "UpdateSpeakUp")
}

func (suite *SpeakUpServiceTestSuite) TestSave_EditUpdatesDraft() {
	ctx := context.Background()
	caller := suite.requester()
	entry := domain.SpeakUp{SpeakUpID: 34, CompanyID: testCompanyID, Status: domain.StatusOpen, Message: "old", TypeID: 1}
	entry.CreatedBy = caller.UserID

	suite.mockSpeakUpRepo.On("FindSpeakUpByID", ctx, entry.SpeakUpID).Return(&entry, nil).Once()
	suite.mockSpeakUpRepo.On("UpdateSpeakUp", ctx, mock.MatchedBy(func(e domain.SpeakUp) bool {
		return e.SpeakUpID == entry.SpeakUpID && e.Message == "replacement message body here" && e.TypeID == 2 && e.LastUpdatedBy == caller.UserID
	})).Return(nil).Once()

	detail, err := suite.service.Save(ctx, caller, dto.SaveParams{
		ActionBy: domain.EditBtn,
		Payload:  suite.sealFor(entry),
		Message:  "replacement message body here",
		TypeID:   2,
	})

	suite.Require().NoError(err)
	suite.Equal("replacement message body here", detail.Message)
	suite.mockSpeakUpRepo.AssertExpectations(suite.T())
}

// --- PerformAction ---

func (suite *SpeakUpServiceTestSuite) TestPerformAction_UnknownButtonSoftFails() {
	ctx := context.Background()

	resp, err := suite.service.PerformAction(ctx, suite.approver(), dto.ActionParams{
		Payload:  "irrelevant",
		ActionBy: "ExplodeBtn",
		Remarks:  "boom",
	})

	suite.Require().NoError(err)
	suite.Require().Len(resp.Data, 1)
	suite.Contains(resp.Data[0].Status, "not a valid action")
	suite.mockSpeakUpRepo.AssertNotCalled(suite.T(), "UpdateWorkflowState")
}

func (suite *SpeakUpServiceTestSuite) TestPerformAction_MissingRemarks() {
	ctx := context.Background()

	_, err := suite.service.PerformAction(ctx, suite.approver(), dto.ActionParams{
		Payload:  "irrelevant",
		ActionBy: domain.ApproveBtn,
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *SpeakUpServiceTestSuite) TestPerformAction_ApproveSuccess() {
	ctx := context.Background()
	caller := suite.approver()
	entry := domain.SpeakUp{SpeakUpID: 41, CompanyID: testCompanyID, Status: domain.StatusUnderHRManager}
	entry.CreatedBy = "user-1"

	suite.mockSpeakUpRepo.On("FindSpeakUpByID", ctx, entry.SpeakUpID).Return(&entry, nil).Once()
	suite.mockSpeakUpRepo.On("UpdateWorkflowState", ctx, mock.MatchedBy(func(e domain.SpeakUp) bool {
		return e.Status == domain.StatusApproved && e.ApproverID == caller.UserID
	}), mock.MatchedBy(func(h domain.HistoryEntry) bool {
		return h.StatusFrom == domain.StatusUnderHRManager && h.StatusTo == domain.StatusApproved && h.ActionBy == domain.ApproveBtn && h.Remarks == "looks genuine"
	})).Return(nil).Once()

	resp, err := suite.service.PerformAction(ctx, caller, dto.ActionParams{
		Payload:  suite.sealFor(entry),
		ActionBy: domain.ApproveBtn,
		Remarks:  "looks genuine",
	})

	suite.Require().NoError(err)
	suite.Require().Len(resp.Data, 1)
	suite.Equal(domain.StatusApproved, resp.Data[0].Status)
	suite.mockSpeakUpRepo.AssertExpectations(suite.T())
}

func (suite *SpeakUpServiceTestSuite) TestPerformAction_ApproveRequiresApproverRole() {
	ctx := context.Background()
	caller := suite.requester()
	entry := domain.SpeakUp{SpeakUpID: 42, CompanyID: testCompanyID, Status: domain.StatusUnderHRManager}
	entry.CreatedBy = caller.UserID

	suite.mockSpeakUpRepo.On("FindSpeakUpByID", ctx, entry.SpeakUpID).Return(&entry, nil).Once()

	_, err := suite.service.PerformAction(ctx, caller, dto.ActionParams{
		Payload:  suite.sealFor(entry),
		ActionBy: domain.ApproveBtn,
		Remarks:  "approving my own entry",
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockSpeakUpRepo.AssertNotCalled(suite.T(), "UpdateWorkflowState")
}

func (suite *SpeakUpServiceTestSuite) TestPerformAction_TerminalStatusSoftFails() {
	ctx := context.Background()
	caller := suite.approver()
	entry := domain.SpeakUp{SpeakUpID: 43, CompanyID: testCompanyID, Status: domain.StatusClosed}

	suite.mockSpeakUpRepo.On("FindSpeakUpByID", ctx, entry.SpeakUpID).Return(&entry, nil).Once()

	resp, err := suite.service.PerformAction(ctx, caller, dto.ActionParams{
		Payload:  suite.sealFor(entry),
		ActionBy: domain.ApproveBtn,
		Remarks:  "approving a closed entry",
	})

	suite.Require().NoError(err)
	suite.Require().Len(resp.Data, 1)
	suite.Contains(resp.Data[0].Status, "Not a valid action")
	suite.mockSpeakUpRepo.AssertNotCalled(suite.T(), "UpdateWorkflowState")
	suite.mockHistoryRepo.AssertNotCalled(suite.T(), "AppendHistory")
}

func (suite *SpeakUpServiceTestSuite) TestPerformAction_RejectAfterApprovalSoftFails() {
	ctx := context.Background()
	caller := suite.approver()
	// Approve clears the stored flags, so the reject fallback alone would
	// let an approved entry be rejected afterwards. It must not.
	entry := domain.SpeakUp{SpeakUpID: 48, CompanyID: testCompanyID, Status: domain.StatusApproved}
	entry.CreatedBy = "user-1"

	suite.mockSpeakUpRepo.On("FindSpeakUpByID", ctx, entry.SpeakUpID).Return(&entry, nil).Once()

	resp, err := suite.service.PerformAction(ctx, caller, dto.ActionParams{
		Payload:  suite.sealFor(entry),
		ActionBy: domain.RejectBtn,
		Remarks:  "changed my mind",
	})

	suite.Require().NoError(err)
	suite.Require().Len(resp.Data, 1)
	suite.Contains(resp.Data[0].Status, "Not a valid action")
	suite.mockSpeakUpRepo.AssertNotCalled(suite.T(), "UpdateWorkflowState")
}

func (suite *SpeakUpServiceTestSuite) TestPerformAction_TransitionWriteFailurePropagates() {
	ctx := context.Background()
	caller := suite.approver()
	entry := domain.SpeakUp{SpeakUpID: 49, CompanyID: testCompanyID, Status: domain.StatusUnderHRManager}
	entry.CreatedBy = "user-1"

	suite.mockSpeakUpRepo.On("FindSpeakUpByID", ctx, entry.SpeakUpID).Return(&entry, nil).Once()
	suite.mockSpeakUpRepo.On("UpdateWorkflowState", ctx, mock.Anything, mock.Anything).Return(assert.AnError).Once()

	_, err := suite.service.PerformAction(ctx, caller, dto.ActionParams{
		Payload:  suite.sealFor(entry),
		ActionBy: domain.ApproveBtn,
		Remarks:  "looks genuine",
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, assert.AnError)
}

func (suite *SpeakUpServiceTestSuite) TestPerformAction_ServerFlagOverridesStatus() {
	ctx := context.Background()
	caller := suite.approver()
	denied := false
	entry := domain.SpeakUp{SpeakUpID: 44, CompanyID: testCompanyID, Status: domain.StatusUnderHRManager}
	entry.Flags.Approve = &denied

	suite.mockSpeakUpRepo.On("FindSpeakUpByID", ctx, entry.SpeakUpID).Return(&entry, nil).Once()

	resp, err := suite.service.PerformAction(ctx, caller, dto.ActionParams{
		Payload:  suite.sealFor(entry),
		ActionBy: domain.ApproveBtn,
		Remarks:  "flag says no",
	})

	suite.Require().NoError(err)
	suite.Require().Len(resp.Data, 1)
	suite.Contains(resp.Data[0].Status, "Not a valid action")
}

func (suite *SpeakUpServiceTestSuite) TestPerformAction_AssignSetsAssignee() {
	ctx := context.Background()
	caller := suite.approver()
	entry := domain.SpeakUp{SpeakUpID: 45, CompanyID: testCompanyID, Status: domain.StatusUnderHRManager}
	canAssign := true
	entry.Flags.Assign = &canAssign
	assignee := &domain.User{UserID: "emp-9", Name: "Arjun Mehta", CompanyID: testCompanyID}

	suite.mockSpeakUpRepo.On("FindSpeakUpByID", ctx, entry.SpeakUpID).Return(&entry, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, "emp-9").Return(assignee, nil).Once()
	suite.mockSpeakUpRepo.On("UpdateWorkflowState", ctx, mock.MatchedBy(func(e domain.SpeakUp) bool {
		return e.Status == domain.StatusAssignedToEmployee &&
			e.AssignedEmployeeID == "emp-9" &&
			e.AssignedEmployee == "Arjun Mehta" &&
			e.Flags.Update != nil && *e.Flags.Update &&
			e.Flags.Close != nil && *e.Flags.Close
	}), mock.Anything).Return(nil).Once()

	resp, err := suite.service.PerformAction(ctx, caller, dto.ActionParams{
		Payload:     suite.sealFor(entry),
		ActionBy:    domain.AssignBtn,
		Remarks:     "routing to facilities",
		AssignedEmp: "emp-9",
	})

	suite.Require().NoError(err)
	suite.Equal(domain.StatusAssignedToEmployee, resp.Data[0].Status)
	suite.mockSpeakUpRepo.AssertExpectations(suite.T())
}

func (suite *SpeakUpServiceTestSuite) TestPerformAction_AssignRequiresAssignee() {
	ctx := context.Background()

	_, err := suite.service.PerformAction(ctx, suite.approver(), dto.ActionParams{
		Payload:  "irrelevant",
		ActionBy: domain.AssignBtn,
		Remarks:  "no assignee picked",
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *SpeakUpServiceTestSuite) TestPerformAction_CancelOnlyByCreator() {
	ctx := context.Background()
	entry := domain.SpeakUp{SpeakUpID: 46, CompanyID: testCompanyID, Status: domain.StatusOpen}
	entry.CreatedBy = "someone-else"

	suite.mockSpeakUpRepo.On("FindSpeakUpByID", ctx, entry.SpeakUpID).Return(&entry, nil).Once()

	_, err := suite.service.PerformAction(ctx, suite.requester(), dto.ActionParams{
		Payload:  suite.sealFor(entry),
		ActionBy: domain.CancelBtn,
		Remarks:  "withdrawing this",
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *SpeakUpServiceTestSuite) TestPerformAction_SubmitMovesToHRManager() {
	ctx := context.Background()
	caller := suite.requester()
	entry := domain.SpeakUp{SpeakUpID: 47, CompanyID: testCompanyID, Status: domain.StatusOpen}
	entry.CreatedBy = caller.UserID
	user := &domain.User{UserID: caller.UserID, Name: "Ravi Kumar"}

	suite.mockSpeakUpRepo.On("FindSpeakUpByID", ctx, entry.SpeakUpID).Return(&entry, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, caller.UserID).Return(user, nil).Maybe()
	suite.mockSpeakUpRepo.On("UpdateWorkflowState", ctx, mock.MatchedBy(func(e domain.SpeakUp) bool {
		return e.Status == domain.StatusUnderHRManager
	}), mock.MatchedBy(func(h domain.HistoryEntry) bool {
		return h.ActionBy == domain.SubmitBtn && h.StatusFrom == domain.StatusOpen
	})).Return(nil).Once()

	resp, err := suite.service.PerformAction(ctx, caller, dto.ActionParams{
		Payload:  suite.sealFor(entry),
		ActionBy: domain.SubmitBtn,
		Remarks:  "please review",
	})

	suite.Require().NoError(err)
	suite.Equal(domain.StatusUnderHRManager, resp.Data[0].Status)
}

// --- History ---

func (suite *SpeakUpServiceTestSuite) TestGetHistory_Success() {
	ctx := context.Background()
	caller := suite.requester()
	entry := domain.SpeakUp{SpeakUpID: 51, CompanyID: testCompanyID, Status: domain.StatusOpen}
	entry.CreatedBy = caller.UserID
	rows := []domain.HistoryEntry{
		{SpeakUpID: 51, StatusTo: domain.StatusOpen, ActionBy: domain.AddBtn, Remarks: "Speak-up created", CreatedAt: time.Now()},
	}

	suite.mockSpeakUpRepo.On("FindSpeakUpByID", ctx, entry.SpeakUpID).Return(&entry, nil).Once()
	suite.mockHistoryRepo.On("FindHistory", ctx, entry.SpeakUpID).Return(rows, nil).Once()

	resp, err := suite.service.GetHistory(ctx, caller, dto.HistoryParams{Payload: suite.sealFor(entry)})

	suite.Require().NoError(err)
	suite.Len(resp.Data, 1)
}

func (suite *SpeakUpServiceTestSuite) TestGetHistory_AnonymousHidesRequesterName() {
	ctx := context.Background()
	caller := suite.approver()
	entry := domain.SpeakUp{SpeakUpID: 52, CompanyID: testCompanyID, IsAnonymous: true, Status: domain.StatusUnderHRManager}
	entry.CreatedBy = "user-1"
	rows := []domain.HistoryEntry{
		{SpeakUpID: 52, ActionBy: domain.SubmitBtn, ActorName: "Ravi Kumar", Remarks: "please review", CreatedAt: time.Now()},
		{SpeakUpID: 52, ActionBy: domain.ApproveBtn, ActorName: "Meena Iyer", Remarks: "ok", CreatedAt: time.Now()},
	}

	suite.mockSpeakUpRepo.On("FindSpeakUpByID", ctx, entry.SpeakUpID).Return(&entry, nil).Once()
	suite.mockHistoryRepo.On("FindHistory", ctx, entry.SpeakUpID).Return(rows, nil).Once()

	resp, err := suite.service.GetHistory(ctx, caller, dto.HistoryParams{Payload: suite.sealFor(entry)})

	suite.Require().NoError(err)
	suite.Require().Len(resp.Data, 2)
	suite.Empty(resp.Data[0].ActorName)
	suite.Equal("Meena Iyer", resp.Data[1].ActorName)
}

func (suite *SpeakUpServiceTestSuite) TestAppendHistoryNote_Success() {
	ctx := context.Background()
	caller := suite.approver()
	entry := domain.SpeakUp{SpeakUpID: 53, CompanyID: testCompanyID, Status: domain.StatusAssignedToEmployee}
	entry.CreatedBy = "user-1"

	suite.mockSpeakUpRepo.On("FindSpeakUpByID", ctx, entry.SpeakUpID).Return(&entry, nil).Once()
	suite.mockHistoryRepo.On("AppendHistory", ctx, mock.MatchedBy(func(h domain.HistoryEntry) bool {
		return h.SpeakUpID == 53 && h.Remarks == "vendor contacted, ETA friday" && h.StatusTo == ""
	})).Return(nil).Once()

	err := suite.service.AppendHistoryNote(ctx, caller, dto.UpdateHistoryParams{
		Payload: suite.sealFor(entry),
		Message: "vendor contacted, ETA friday",
	})

	suite.Require().NoError(err)
	suite.mockHistoryRepo.AssertExpectations(suite.T())
}

func (suite *SpeakUpServiceTestSuite) TestAppendHistoryNote_EmptyMessage() {
	ctx := context.Background()

	err := suite.service.AppendHistoryNote(ctx, suite.requester(), dto.UpdateHistoryParams{
		Payload: "irrelevant",
		Message: "   ",
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- Filters and dashboard ---

func (suite *SpeakUpServiceTestSuite) TestGetFilters_Success() {
	ctx := context.Background()
	types := []domain.LookupOption{{Key: 1, Value: "Harassment"}, {Key: 2, Value: "Facilities"}}
	statuses := []domain.LookupOption{{Key: 1, Value: "Open"}, {Key: 2, Value: "Closed"}}

	suite.mockLookupRepo.On("FindTypes", ctx).Return(types, nil).Once()
	suite.mockLookupRepo.On("FindStatuses", ctx).Return(statuses, nil).Once()

	resp, err := suite.service.GetFilters(ctx)

	suite.Require().NoError(err)
	suite.Len(resp.SpeakUpType, 2)
	suite.Len(resp.SpeakUpStatus, 2)
}

func (suite *SpeakUpServiceTestSuite) TestDashboard_BucketsStatuses() {
	ctx := context.Background()
	caller := suite.requester()
	counts := map[string]int{
		"Awaiting ES Approval": 2,
		"Open":                 3,
		"Not Approved":         1,
		"Closed":               4,
		"Something Odd":        1,
	}

	suite.mockSpeakUpRepo.On("CountByStatus", ctx, testCompanyID, caller.UserID).Return(counts, nil).Once()

	resp, err := suite.service.Dashboard(ctx, caller)

	suite.Require().NoError(err)
	suite.Equal(2, resp.Pending)
	suite.Equal(3, resp.Open)
	suite.Equal(1, resp.Declined)
	suite.Equal(4, resp.Approved)
	suite.Equal(1, resp.Default)
	suite.Equal(11, resp.Total)
}

// --- Run Suite ---
func TestSpeakUpService(t *testing.T) {
	suite.Run(t, new(SpeakUpServiceTestSuite))
}
