package accreditation

import (
	"context"
	"testing"
	"time"

	"github.com/becreativeqatar/bceportal/internal/domain/accreditation"
	"github.com/becreativeqatar/bceportal/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAccreditationRecordRepository is a mock implementation of AccreditationRecordRepository
type MockAccreditationRecordRepository struct {
	mock.Mock
}

func (m *MockAccreditationRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*accreditation.AccreditationRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accreditation.AccreditationRecord), args.Error(1)
}

func (m *MockAccreditationRecordRepository) FindByNumber(ctx context.Context, number string) (*accreditation.AccreditationRecord, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accreditation.AccreditationRecord), args.Error(1)
}

func (m *MockAccreditationRecordRepository) FindByQRToken(ctx context.Context, token string) (*accreditation.AccreditationRecord, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accreditation.AccreditationRecord), args.Error(1)
}

func (m *MockAccreditationRecordRepository) FindByIdentification(ctx context.Context, projectID uuid.UUID, documentNumber string) ([]accreditation.AccreditationRecord, error) {
	args := m.Called(ctx, projectID, documentNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]accreditation.AccreditationRecord), args.Error(1)
}

func (m *MockAccreditationRecordRepository) FindAll(ctx context.Context, filter accreditation.RecordFilter) ([]accreditation.AccreditationRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]accreditation.AccreditationRecord), args.Error(1)
}

func (m *MockAccreditationRecordRepository) Save(ctx context.Context, record *accreditation.AccreditationRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockAccreditationRecordRepository) SaveWithLock(ctx context.Context, record *accreditation.AccreditationRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockAccreditationRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAccreditationRecordRepository) Count(ctx context.Context, filter accreditation.RecordFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccreditationRecordRepository) CountByStatus(ctx context.Context, projectID uuid.UUID, status accreditation.RecordStatus) (int64, error) {
	args := m.Called(ctx, projectID, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccreditationRecordRepository) GenerateNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

const testAccNumber = "ACC-2026-00001"

func qidIdentificationInput() IdentificationInput {
	expiry := time.Date(2027, 6, 30, 0, 0, 0, 0, time.UTC)
	return IdentificationInput{
		Type:      "QID",
		QIDNumber: "28912345678",
		QIDExpiry: &expiry,
	}
}

func createRecordRequest(projectID uuid.UUID) CreateRecordRequest {
	return CreateRecordRequest{
		ProjectID: projectID,
		Person: PersonInput{
			FirstName:    "Fatima",
			LastName:     "Al-Thani",
			Organization: "Gulf Times",
			JobTitle:     "Photographer",
			AccessGroup:  "Media",
		},
		Identification: qidIdentificationInput(),
	}
}

func createTestRecord(project *accreditation.Project) *accreditation.AccreditationRecord {
	expiry := time.Date(2027, 6, 30, 0, 0, 0, 0, time.UTC)
	ident, _ := accreditation.NewQIDIdentification("28912345678", expiry)
	record, _ := accreditation.NewAccreditationRecord(project, testAccNumber, accreditation.PersonInfo{
		FirstName:    "Fatima",
		LastName:     "Al-Thani",
		Organization: "Gulf Times",
		JobTitle:     "Photographer",
		AccessGroup:  "Media",
	}, ident, testUserID)
	record.ClearDomainEvents()
	return record
}

func createApprovedRecord(project *accreditation.Project) *accreditation.AccreditationRecord {
	record := createTestRecord(project)
	_ = record.Submit(testUserID)
	_ = record.Approve(testUserID)
	record.ClearDomainEvents()
	return record
}

func TestRecordService_Create(t *testing.T) {
	t.Run("create record successfully", func(t *testing.T) {
		recordRepo := new(MockAccreditationRecordRepository)
		projectRepo := new(MockProjectRepository)
		service := NewRecordService(recordRepo, projectRepo)
		ctx := context.Background()

		project := createTestProject()
		projectRepo.On("FindByID", ctx, project.ID).Return(project, nil)
		recordRepo.On("GenerateNumber", ctx).Return(testAccNumber, nil)
		recordRepo.On("Save", ctx, mock.AnythingOfType("*accreditation.AccreditationRecord")).Return(nil)

		result, err := service.Create(ctx, testUserID, createRecordRequest(project.ID))

		require.NoError(t, err)
		assert.Equal(t, testAccNumber, result.AccreditationNumber)
		assert.Equal(t, "DRAFT", result.Status)
		assert.Equal(t, "Fatima", result.FirstName)
		assert.Nil(t, result.QRToken)
		recordRepo.AssertExpectations(t)
	})

	t.Run("access group outside the project is rejected", func(t *testing.T) {
		recordRepo := new(MockAccreditationRecordRepository)
		projectRepo := new(MockProjectRepository)
		service := NewRecordService(recordRepo, projectRepo)
		ctx := context.Background()

		project := createTestProject()
		projectRepo.On("FindByID", ctx, project.ID).Return(project, nil)
		recordRepo.On("GenerateNumber", ctx).Return(testAccNumber, nil)

		req := createRecordRequest(project.ID)
		req.Person.AccessGroup = "Catering"

		_, err := service.Create(ctx, testUserID, req)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_ACCESS_GROUP", domainErr.Code)
	})

	t.Run("QID identification requires expiry", func(t *testing.T) {
		recordRepo := new(MockAccreditationRecordRepository)
		projectRepo := new(MockProjectRepository)
		service := NewRecordService(recordRepo, projectRepo)
		ctx := context.Background()

		project := createTestProject()
		projectRepo.On("FindByID", ctx, project.ID).Return(project, nil)

		req := createRecordRequest(project.ID)
		req.Identification.QIDExpiry = nil

		_, err := service.Create(ctx, testUserID, req)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "MISSING_FIELD", domainErr.Code)
	})

	t.Run("unknown project returns not found", func(t *testing.T) {
		recordRepo := new(MockAccreditationRecordRepository)
		projectRepo := new(MockProjectRepository)
		service := NewRecordService(recordRepo, projectRepo)
		ctx := context.Background()
		projectID := uuid.New()

		projectRepo.On("FindByID", ctx, projectID).Return(nil, shared.ErrNotFound)

		_, err := service.Create(ctx, testUserID, createRecordRequest(projectID))

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestRecordService_Lifecycle(t *testing.T) {
	t.Run("submit moves draft to pending", func(t *testing.T) {
		recordRepo := new(MockAccreditationRecordRepository)
		projectRepo := new(MockProjectRepository)
		service := NewRecordService(recordRepo, projectRepo)
		ctx := context.Background()

		record := createTestRecord(createTestProject())
		recordRepo.On("FindByID", ctx, record.ID).Return(record, nil)
		recordRepo.On("SaveWithLock", ctx, record).Return(nil)

		result, err := service.Submit(ctx, record.ID, testUserID)

		require.NoError(t, err)
		assert.Equal(t, "PENDING", result.Status)
		assert.NotNil(t, result.SubmittedAt)
	})

	t.Run("approve assigns a QR token", func(t *testing.T) {
		recordRepo := new(MockAccreditationRecordRepository)
		projectRepo := new(MockProjectRepository)
		service := NewRecordService(recordRepo, projectRepo)
		ctx := context.Background()

		record := createTestRecord(createTestProject())
		require.NoError(t, record.Submit(testUserID))
		recordRepo.On("FindByID", ctx, record.ID).Return(record, nil)
		recordRepo.On("SaveWithLock", ctx, record).Return(nil)

		result, err := service.Approve(ctx, record.ID, testUserID)

		require.NoError(t, err)
		assert.Equal(t, "APPROVED", result.Status)
		require.NotNil(t, result.QRToken)
		assert.NotEmpty(t, *result.QRToken)
		assert.Equal(t, &testUserID, result.ApprovedBy)
	})

	t.Run("approving a draft record fails", func(t *testing.T) {
		recordRepo := new(MockAccreditationRecordRepository)
		projectRepo := new(MockProjectRepository)
		service := NewRecordService(recordRepo, projectRepo)
		ctx := context.Background()

		record := createTestRecord(createTestProject())
		recordRepo.On("FindByID", ctx, record.ID).Return(record, nil)

		_, err := service.Approve(ctx, record.ID, testUserID)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
		recordRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("reject records the reason", func(t *testing.T) {
		recordRepo := new(MockAccreditationRecordRepository)
		projectRepo := new(MockProjectRepository)
		service := NewRecordService(recordRepo, projectRepo)
		ctx := context.Background()

		record := createTestRecord(createTestProject())
		require.NoError(t, record.Submit(testUserID))
		recordRepo.On("FindByID", ctx, record.ID).Return(record, nil)
		recordRepo.On("SaveWithLock", ctx, record).Return(nil)

		result, err := service.Reject(ctx, record.ID, testUserID, RejectRecordRequest{Reason: "photo unusable"})

		require.NoError(t, err)
		assert.Equal(t, "REJECTED", result.Status)
		assert.Equal(t, "photo unusable", result.RejectionReason)
	})

	t.Run("revoke keeps status and token", func(t *testing.T) {
		recordRepo := new(MockAccreditationRecordRepository)
		projectRepo := new(MockProjectRepository)
		service := NewRecordService(recordRepo, projectRepo)
		ctx := context.Background()

		record := createApprovedRecord(createTestProject())
		token := *record.QRToken
		recordRepo.On("FindByID", ctx, record.ID).Return(record, nil)
		recordRepo.On("SaveWithLock", ctx, record).Return(nil)

		result, err := service.Revoke(ctx, record.ID, testUserID, RevokeRecordRequest{Reason: "badge reported lost"})

		require.NoError(t, err)
		assert.Equal(t, "APPROVED", result.Status)
		assert.True(t, result.Revoked)
		assert.Equal(t, "badge reported lost", result.RevocationReason)
		require.NotNil(t, result.QRToken)
		assert.Equal(t, token, *result.QRToken)
	})

	t.Run("revoking a draft record fails", func(t *testing.T) {
		recordRepo := new(MockAccreditationRecordRepository)
		projectRepo := new(MockProjectRepository)
		service := NewRecordService(recordRepo, projectRepo)
		ctx := context.Background()

		record := createTestRecord(createTestProject())
		recordRepo.On("FindByID", ctx, record.ID).Return(record, nil)

		_, err := service.Revoke(ctx, record.ID, testUserID, RevokeRecordRequest{Reason: "lost"})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})
}

func TestRecordService_SetGrant(t *testing.T) {
	t.Run("enable live grant", func(t *testing.T) {
		recordRepo := new(MockAccreditationRecordRepository)
		projectRepo := new(MockProjectRepository)
		service := NewRecordService(recordRepo, projectRepo)
		ctx := context.Background()

		project := createTestProject()
		record := createTestRecord(project)
		recordRepo.On("FindByID", ctx, record.ID).Return(record, nil)
		projectRepo.On("FindByID", ctx, project.ID).Return(project, nil)
		recordRepo.On("SaveWithLock", ctx, record).Return(nil)

		result, err := service.SetGrant(ctx, record.ID, GrantInput{Phase: "live", Enabled: true})

		require.NoError(t, err)
		assert.True(t, result.LiveGrant.Enabled)
		assert.False(t, result.BumpInGrant.Enabled)
	})

	t.Run("unknown phase is rejected", func(t *testing.T) {
		recordRepo := new(MockAccreditationRecordRepository)
		projectRepo := new(MockProjectRepository)
		service := NewRecordService(recordRepo, projectRepo)
		ctx := context.Background()

		project := createTestProject()
		record := createTestRecord(project)
		recordRepo.On("FindByID", ctx, record.ID).Return(record, nil)
		projectRepo.On("FindByID", ctx, project.ID).Return(project, nil)

		_, err := service.SetGrant(ctx, record.ID, GrantInput{Phase: "TEARDOWN", Enabled: true})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_INPUT", domainErr.Code)
	})

	t.Run("override outside the project window is rejected", func(t *testing.T) {
		recordRepo := new(MockAccreditationRecordRepository)
		projectRepo := new(MockProjectRepository)
		service := NewRecordService(recordRepo, projectRepo)
		ctx := context.Background()

		project := createTestProject()
		record := createTestRecord(project)
		recordRepo.On("FindByID", ctx, record.ID).Return(record, nil)
		projectRepo.On("FindByID", ctx, project.ID).Return(project, nil)

		start := project.Live.Start.AddDate(0, 0, -5)
		end := project.Live.End
		_, err := service.SetGrant(ctx, record.ID, GrantInput{
			Phase:         "LIVE",
			Enabled:       true,
			OverrideStart: &start,
			OverrideEnd:   &end,
		})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_WINDOW", domainErr.Code)
	})
}

func TestRecordService_List(t *testing.T) {
	t.Run("status filter is normalized", func(t *testing.T) {
		recordRepo := new(MockAccreditationRecordRepository)
		projectRepo := new(MockProjectRepository)
		service := NewRecordService(recordRepo, projectRepo)
		ctx := context.Background()

		recordRepo.On("FindAll", ctx, mock.MatchedBy(func(f accreditation.RecordFilter) bool {
			return f.Status != nil && *f.Status == accreditation.RecordStatusPending
		})).Return([]accreditation.AccreditationRecord{}, nil)
		recordRepo.On("Count", ctx, mock.Anything).Return(int64(0), nil)

		status := "pending"
		_, _, err := service.List(ctx, RecordListFilter{Status: &status})

		require.NoError(t, err)
		recordRepo.AssertExpectations(t)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		recordRepo := new(MockAccreditationRecordRepository)
		projectRepo := new(MockProjectRepository)
		service := NewRecordService(recordRepo, projectRepo)

		status := "SHIPPED"
		_, _, err := service.List(context.Background(), RecordListFilter{Status: &status})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_INPUT", domainErr.Code)
	})
}

func TestRecordService_Delete(t *testing.T) {
	t.Run("draft record can be deleted", func(t *testing.T) {
		recordRepo := new(MockAccreditationRecordRepository)
		projectRepo := new(MockProjectRepository)
		service := NewRecordService(recordRepo, projectRepo)
		ctx := context.Background()

		record := createTestRecord(createTestProject())
		recordRepo.On("FindByID", ctx, record.ID).Return(record, nil)
		recordRepo.On("Delete", ctx, record.ID).Return(nil)

		err := service.Delete(ctx, record.ID)

		require.NoError(t, err)
		recordRepo.AssertExpectations(t)
	})

	t.Run("approved record cannot be deleted", func(t *testing.T) {
		recordRepo := new(MockAccreditationRecordRepository)
		projectRepo := new(MockProjectRepository)
		service := NewRecordService(recordRepo, projectRepo)
		ctx := context.Background()

		record := createApprovedRecord(createTestProject())
		recordRepo.On("FindByID", ctx, record.ID).Return(record, nil)

		err := service.Delete(ctx, record.ID)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
		recordRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
