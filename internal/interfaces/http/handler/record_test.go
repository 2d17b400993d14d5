package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	accapp "github.com/becreativeqatar/bceportal/internal/application/accreditation"
	"github.com/becreativeqatar/bceportal/internal/domain/accreditation"
	"github.com/becreativeqatar/bceportal/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockAccreditationRecordRepository implements
// accreditation.AccreditationRecordRepository for testing
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

var _ accreditation.AccreditationRecordRepository = (*MockAccreditationRecordRepository)(nil)

// Test helpers

func createHandlerTestRecord(project *accreditation.Project) *accreditation.AccreditationRecord {
	ident, err := accreditation.NewQIDIdentification("28412345678", time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		panic(err)
	}
	record, err := accreditation.NewAccreditationRecord(
		project,
		"ACC-2026-00001",
		accreditation.PersonInfo{
			FirstName:    "Aisha",
			LastName:     "Al-Thani",
			Organization: "Gulf Times",
			JobTitle:     "Producer",
			AccessGroup:  "Media",
		},
		ident,
		handlerTestUserID,
	)
	if err != nil {
		panic(err)
	}
	record.ClearDomainEvents()
	return record
}

func setupRecordTestRouter() (*gin.Engine, *MockAccreditationRecordRepository, *MockProjectRepository, *RecordHandler) {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()

	recordRepo := new(MockAccreditationRecordRepository)
	projectRepo := new(MockProjectRepository)
	scanLogRepo := new(MockScanLogRepository)

	recordService := accapp.NewRecordService(recordRepo, projectRepo)
	scanService := accapp.NewScanService(recordRepo, projectRepo, scanLogRepo)
	h := NewRecordHandler(recordService, scanService)

	router := gin.New()
	return router, recordRepo, projectRepo, h
}

func recordRequestBody(projectID uuid.UUID) map[string]any {
	return map[string]any{
		"project_id": projectID.String(),
		"person": map[string]any{
			"first_name":   "Aisha",
			"last_name":    "Al-Thani",
			"organization": "Qatar TV",
			"job_title":    "Producer",
			"access_group": "Media",
		},
		"identification": map[string]any{
			"type":       "QID",
			"qid_number": "28412345678",
			"qid_expiry": "2030-01-01T00:00:00Z",
		},
	}
}

// Tests

func TestRecordHandler_Create(t *testing.T) {
	t.Run("should create record successfully", func(t *testing.T) {
		router, recordRepo, projectRepo, h := setupRecordTestRouter()
		router.POST("/records", h.Create)

		project := createHandlerTestProject()
		projectRepo.On("FindByID", mock.Anything, project.ID).Return(project, nil)
		recordRepo.On("GenerateNumber", mock.Anything).Return("ACC-2026-00001", nil)
		recordRepo.On("Save", mock.Anything, mock.AnythingOfType("*accreditation.AccreditationRecord")).Return(nil)

		body, _ := json.Marshal(recordRequestBody(project.ID))
		req, _ := http.NewRequest(http.MethodPost, "/records", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-User-ID", handlerTestUserID.String())

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response map[string]any
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		data := response["data"].(map[string]any)
		assert.Equal(t, "DRAFT", data["status"])
		assert.Equal(t, "ACC-2026-00001", data["accreditation_number"])
		assert.Nil(t, data["qr_token"])

		recordRepo.AssertExpectations(t)
	})

	t.Run("should reject unknown access group", func(t *testing.T) {
		router, recordRepo, projectRepo, h := setupRecordTestRouter()
		router.POST("/records", h.Create)

		project := createHandlerTestProject()
		projectRepo.On("FindByID", mock.Anything, project.ID).Return(project, nil)
		recordRepo.On("GenerateNumber", mock.Anything).Return("ACC-2026-00001", nil)

		reqBody := recordRequestBody(project.ID)
		reqBody["person"].(map[string]any)["access_group"] = "Catering"
		body, _ := json.Marshal(reqBody)

		req, _ := http.NewRequest(http.MethodPost, "/records", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		recordRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("should reject malformed QID number", func(t *testing.T) {
		router, _, _, h := setupRecordTestRouter()
		router.POST("/records", h.Create)

		reqBody := recordRequestBody(uuid.New())
		reqBody["identification"].(map[string]any)["qid_number"] = "12AB"
		body, _ := json.Marshal(reqBody)

		req, _ := http.NewRequest(http.MethodPost, "/records", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRecordHandler_Lifecycle(t *testing.T) {
	t.Run("should approve a pending record and issue a token", func(t *testing.T) {
		router, recordRepo, _, h := setupRecordTestRouter()
		router.POST("/records/:id/approve", h.Approve)

		project := createHandlerTestProject()
		record := createHandlerTestRecord(project)
		assert.NoError(t, record.Submit(handlerTestUserID))
		record.ClearDomainEvents()

		recordRepo.On("FindByID", mock.Anything, record.ID).Return(record, nil)
		recordRepo.On("SaveWithLock", mock.Anything, mock.AnythingOfType("*accreditation.AccreditationRecord")).Return(nil)

		req, _ := http.NewRequest(http.MethodPost, "/records/"+record.ID.String()+"/approve", nil)
		req.Header.Set("X-User-ID", handlerTestUserID.String())

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]any
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		data := response["data"].(map[string]any)
		assert.Equal(t, "APPROVED", data["status"])
		assert.NotEmpty(t, data["qr_token"])

		recordRepo.AssertExpectations(t)
	})

	t.Run("should refuse to approve a draft record", func(t *testing.T) {
		router, recordRepo, _, h := setupRecordTestRouter()
		router.POST("/records/:id/approve", h.Approve)

		record := createHandlerTestRecord(createHandlerTestProject())
		recordRepo.On("FindByID", mock.Anything, record.ID).Return(record, nil)

		req, _ := http.NewRequest(http.MethodPost, "/records/"+record.ID.String()+"/approve", nil)
		req.Header.Set("X-User-ID", handlerTestUserID.String())

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		recordRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("should require user identity on lifecycle actions", func(t *testing.T) {
		router, _, _, h := setupRecordTestRouter()
		router.POST("/records/:id/approve", h.Approve)

		req, _ := http.NewRequest(http.MethodPost, "/records/"+uuid.New().String()+"/approve", nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("should revoke an approved record keeping its status", func(t *testing.T) {
		router, recordRepo, _, h := setupRecordTestRouter()
		router.POST("/records/:id/revoke", h.Revoke)

		record := createHandlerTestRecord(createHandlerTestProject())
		assert.NoError(t, record.Submit(handlerTestUserID))
		assert.NoError(t, record.Approve(handlerTestUserID))
		record.ClearDomainEvents()

		recordRepo.On("FindByID", mock.Anything, record.ID).Return(record, nil)
		recordRepo.On("SaveWithLock", mock.Anything, mock.AnythingOfType("*accreditation.AccreditationRecord")).Return(nil)

		body, _ := json.Marshal(map[string]string{"reason": "Badge reported lost"})
		req, _ := http.NewRequest(http.MethodPost, "/records/"+record.ID.String()+"/revoke", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-User-ID", handlerTestUserID.String())

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]any
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		data := response["data"].(map[string]any)
		assert.Equal(t, "APPROVED", data["status"])
		assert.True(t, data["revoked"].(bool))
		assert.Equal(t, "Badge reported lost", data["revocation_reason"])

		recordRepo.AssertExpectations(t)
	})

	t.Run("should require a revocation reason", func(t *testing.T) {
		router, _, _, h := setupRecordTestRouter()
		router.POST("/records/:id/revoke", h.Revoke)

		body, _ := json.Marshal(map[string]string{})
		req, _ := http.NewRequest(http.MethodPost, "/records/"+uuid.New().String()+"/revoke", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-User-ID", handlerTestUserID.String())

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRecordHandler_SetGrant(t *testing.T) {
	t.Run("should enable the live grant", func(t *testing.T) {
		router, recordRepo, projectRepo, h := setupRecordTestRouter()
		router.PUT("/records/:id/grants", h.SetGrant)

		project := createHandlerTestProject()
		record := createHandlerTestRecord(project)

		recordRepo.On("FindByID", mock.Anything, record.ID).Return(record, nil)
		projectRepo.On("FindByID", mock.Anything, project.ID).Return(project, nil)
		recordRepo.On("SaveWithLock", mock.Anything, mock.AnythingOfType("*accreditation.AccreditationRecord")).Return(nil)

		body, _ := json.Marshal(map[string]any{"phase": "LIVE", "enabled": true})
		req, _ := http.NewRequest(http.MethodPut, "/records/"+record.ID.String()+"/grants", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]any
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		data := response["data"].(map[string]any)
		grant := data["live_grant"].(map[string]any)
		assert.True(t, grant["enabled"].(bool))

		recordRepo.AssertExpectations(t)
	})

	t.Run("should reject an unknown phase", func(t *testing.T) {
		router, _, _, h := setupRecordTestRouter()
		router.PUT("/records/:id/grants", h.SetGrant)

		body, _ := json.Marshal(map[string]any{"phase": "TEARDOWN", "enabled": true})
		req, _ := http.NewRequest(http.MethodPut, "/records/"+uuid.New().String()+"/grants", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRecordHandler_List(t *testing.T) {
	t.Run("should forward status filter", func(t *testing.T) {
		router, recordRepo, _, h := setupRecordTestRouter()
		router.GET("/records", h.List)

		project := createHandlerTestProject()
		records := []accreditation.AccreditationRecord{*createHandlerTestRecord(project)}

		recordRepo.On("FindAll", mock.Anything, mock.MatchedBy(func(f accreditation.RecordFilter) bool {
			return f.Status != nil && *f.Status == accreditation.RecordStatusDraft
		})).Return(records, nil)
		recordRepo.On("Count", mock.Anything, mock.AnythingOfType("accreditation.RecordFilter")).Return(int64(1), nil)

		req, _ := http.NewRequest(http.MethodGet, "/records?status=DRAFT", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		recordRepo.AssertExpectations(t)
	})

	t.Run("should reject an unknown status", func(t *testing.T) {
		router, recordRepo, _, h := setupRecordTestRouter()
		router.GET("/records", h.List)

		req, _ := http.NewRequest(http.MethodGet, "/records?status=SHIPPED", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		recordRepo.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything)
	})
}

func TestRecordHandler_Delete(t *testing.T) {
	t.Run("should delete a draft record", func(t *testing.T) {
		router, recordRepo, _, h := setupRecordTestRouter()
		router.DELETE("/records/:id", h.Delete)

		record := createHandlerTestRecord(createHandlerTestProject())
		recordRepo.On("FindByID", mock.Anything, record.ID).Return(record, nil)
		recordRepo.On("Delete", mock.Anything, record.ID).Return(nil)

		req, _ := http.NewRequest(http.MethodDelete, "/records/"+record.ID.String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		recordRepo.AssertExpectations(t)
	})

	t.Run("should refuse to delete a submitted record", func(t *testing.T) {
		router, recordRepo, _, h := setupRecordTestRouter()
		router.DELETE("/records/:id", h.Delete)

		record := createHandlerTestRecord(createHandlerTestProject())
		assert.NoError(t, record.Submit(handlerTestUserID))

		recordRepo.On("FindByID", mock.Anything, record.ID).Return(record, nil)

		req, _ := http.NewRequest(http.MethodDelete, "/records/"+record.ID.String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		recordRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
