package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/frontdeskhq/frontdesk/backend/internal/config"
	"github.com/frontdeskhq/frontdesk/backend/internal/matching"
	"github.com/frontdeskhq/frontdesk/backend/internal/models"
	"github.com/frontdeskhq/frontdesk/backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// In-memory repositories for handler tests.

type memRequestRepo struct {
	requests []models.HelpRequest
	nextID   uint
	failing  bool
}

func newMemRequestRepo() *memRequestRepo {
	return &memRequestRepo{nextID: 1}
}

func (r *memRequestRepo) Create(req *models.HelpRequest) error {
	if r.failing {
		return fmt.Errorf("insert failed")
	}
	if req.Status == "" {
		req.Status = models.StatusPending
	}
	if err := req.Validate(); err != nil {
		return err
	}
	req.ID = r.nextID
	r.nextID++
	req.CreatedAt = time.Now().UTC()
	r.requests = append(r.requests, *req)
	return nil
}

func (r *memRequestRepo) GetByID(id uint) (*models.HelpRequest, error) {
	if r.failing {
		return nil, fmt.Errorf("select failed")
	}
	for i := range r.requests {
		if r.requests[i].ID == id {
			req := r.requests[i]
			return &req, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memRequestRepo) GetAll() ([]models.HelpRequest, error) {
	if r.failing {
		return nil, fmt.Errorf("select failed")
	}
	return append([]models.HelpRequest(nil), r.requests...), nil
}

func (r *memRequestRepo) GetByStatus(status string) ([]models.HelpRequest, error) {
	if r.failing {
		return nil, fmt.Errorf("select failed")
	}
	var out []models.HelpRequest
	for _, req := range r.requests {
		if req.Status == status {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *memRequestRepo) Update(req *models.HelpRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	for i := range r.requests {
		if r.requests[i].ID == req.ID {
			r.requests[i] = *req
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type memKBRepo struct {
	entries []models.KnowledgeBaseEntry
}

func (r *memKBRepo) Create(entry *models.KnowledgeBaseEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if err := entry.Validate(); err != nil {
		return err
	}
	entry.CreatedAt = time.Now().UTC()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *memKBRepo) GetByID(id string) (*models.KnowledgeBaseEntry, error) {
	for i := range r.entries {
		if r.entries[i].ID == id {
			entry := r.entries[i]
			return &entry, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memKBRepo) GetAll() ([]models.KnowledgeBaseEntry, error) {
	return append([]models.KnowledgeBaseEntry(nil), r.entries...), nil
}

func (r *memKBRepo) GetBySource(source string) ([]models.KnowledgeBaseEntry, error) {
	var out []models.KnowledgeBaseEntry
	for _, e := range r.entries {
		if e.Source == source {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memKBRepo) GetRecent(limit int) ([]models.KnowledgeBaseEntry, error) {
	if limit <= 0 || limit >= len(r.entries) {
		return r.GetAll()
	}
	return append([]models.KnowledgeBaseEntry(nil), r.entries[len(r.entries)-limit:]...), nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type testEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

func newHelpDeskRouter(t *testing.T, requests models.HelpRequestRepository, kbRepo models.KnowledgeBaseRepository) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := quietLogger()
	kb := services.NewKBService(kbRepo, nil, logger)
	engine := matching.NewEngine(matching.NewKeywordOverlapFilter())
	helpdesk := services.NewHelpDeskService(requests, kb, engine, 3, logger)

	cfg := &config.Config{}
	cfg.KB.TopK = 3
	cfg.KB.SearchCutoff = 0.35
	cfg.KB.ConfidenceCutoff = 0.55

	h := NewHelpDeskHandler(helpdesk, cfg, logger)

	router := gin.New()
	router.POST("/help-requests", h.HandleCreate)
	router.GET("/help-requests", h.HandleList)
	router.POST("/help-requests/:id/respond", h.HandleRespond)
	router.POST("/help-requests/:id/follow-up", h.HandleFollowUp)
	return router
}

func doJSON(router *gin.Engine, method, path string, payload interface{}) *httptest.ResponseRecorder {
	var body io.Reader
	if payload != nil {
		data, _ := json.Marshal(payload)
		body = bytes.NewBuffer(data)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestHandleCreateEscalationReturns201(t *testing.T) {
	router := newHelpDeskRouter(t, newMemRequestRepo(), &memKBRepo{})

	recorder := doJSON(router, http.MethodPost, "/help-requests", models.CreateHelpRequest{
		CallerName: "Alice",
		Question:   "Do you do bridal packages?",
	})

	assert.Equal(t, http.StatusCreated, recorder.Code)

	var envelope testEnvelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)

	var result models.CreateRequestResult
	require.NoError(t, json.Unmarshal(envelope.Data, &result))
	assert.True(t, result.Created)
	require.NotNil(t, result.Request)
	assert.Equal(t, models.StatusPending, result.Request.Status)
}

func TestHandleCreateAutoAnswerReturns200(t *testing.T) {
	kbRepo := &memKBRepo{}
	require.NoError(t, kbRepo.Create(&models.KnowledgeBaseEntry{
		QuestionPattern: "Do you offer eyelash extensions?",
		Answer:          "Yes, eyelash extensions start at $50.",
		Source:          models.SourceSeed,
	}))
	router := newHelpDeskRouter(t, newMemRequestRepo(), kbRepo)

	recorder := doJSON(router, http.MethodPost, "/help-requests", models.CreateHelpRequest{
		CallerName: "Alice",
		Question:   "Do you offer eyelash extensions?",
	})

	assert.Equal(t, http.StatusOK, recorder.Code)

	var envelope testEnvelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))

	var result models.CreateRequestResult
	require.NoError(t, json.Unmarshal(envelope.Data, &result))
	assert.False(t, result.Created)
	require.NotNil(t, result.KBMatch)
	assert.Equal(t, "Yes, eyelash extensions start at $50.", result.KBMatch.Answer)
}

func TestHandleRespondUnknownRequestReturns404(t *testing.T) {
	router := newHelpDeskRouter(t, newMemRequestRepo(), &memKBRepo{})

	recorder := doJSON(router, http.MethodPost, "/help-requests/99/respond", models.SupervisorAnswer{
		SupervisorResponse: "An answer.",
		Status:             models.StatusResolved,
	})

	assert.Equal(t, http.StatusNotFound, recorder.Code)

	var envelope testEnvelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
}

func TestHandleRespondInvalidStatusReturns400(t *testing.T) {
	requests := newMemRequestRepo()
	router := newHelpDeskRouter(t, requests, &memKBRepo{})

	created := doJSON(router, http.MethodPost, "/help-requests", models.CreateHelpRequest{
		CallerName: "Alice",
		Question:   "Do you do bridal packages?",
	})
	require.Equal(t, http.StatusCreated, created.Code)

	recorder := doJSON(router, http.MethodPost, "/help-requests/1/respond", models.SupervisorAnswer{
		SupervisorResponse: "An answer.",
		Status:             models.StatusPending,
	})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestHandleFollowUpBeforeResponseReturns400(t *testing.T) {
	router := newHelpDeskRouter(t, newMemRequestRepo(), &memKBRepo{})

	created := doJSON(router, http.MethodPost, "/help-requests", models.CreateHelpRequest{
		CallerName: "Alice",
		Question:   "Do you do bridal packages?",
	})
	require.Equal(t, http.StatusCreated, created.Code)

	recorder := doJSON(router, http.MethodPost, "/help-requests/1/follow-up", nil)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestHandleListStoreFailureReturns503(t *testing.T) {
	requests := newMemRequestRepo()
	requests.failing = true
	router := newHelpDeskRouter(t, requests, &memKBRepo{})

	recorder := doJSON(router, http.MethodGet, "/help-requests", nil)

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)

	var envelope testEnvelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
}

func TestHandleListInvalidStatusFilterReturns400(t *testing.T) {
	router := newHelpDeskRouter(t, newMemRequestRepo(), &memKBRepo{})

	recorder := doJSON(router, http.MethodGet, "/help-requests?status=bogus", nil)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
