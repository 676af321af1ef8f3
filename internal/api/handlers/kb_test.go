package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/frontdeskhq/frontdesk/backend/internal/models"
	"github.com/frontdeskhq/frontdesk/backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKBRouter(t *testing.T, kbRepo models.KnowledgeBaseRepository) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := quietLogger()
	kb := services.NewKBService(kbRepo, nil, logger)
	h := NewKBHandler(kb, logger)

	router := gin.New()
	router.GET("/kb/search", h.HandleSearch)
	router.GET("/learned-answers", h.HandleList)
	router.POST("/learned-answers", h.HandleCreate)
	return router
}

func seededKBRepo(t *testing.T) *memKBRepo {
	t.Helper()
	repo := &memKBRepo{}
	require.NoError(t, repo.Create(&models.KnowledgeBaseEntry{
		QuestionPattern: "Do you offer eyelash extensions?",
		Answer:          "Yes, eyelash extensions start at $50.",
		Source:          models.SourceSeed,
	}))
	require.NoError(t, repo.Create(&models.KnowledgeBaseEntry{
		QuestionPattern: "What are your hours?",
		Answer:          "We are open Monday to Saturday, 9am to 7pm.",
		Source:          models.SourceSeed,
	}))
	return repo
}

func TestHandleSearchReturnsRankedMatches(t *testing.T) {
	router := newKBRouter(t, seededKBRepo(t))

	recorder := doJSON(router, http.MethodGet, "/kb/search?q=eyelash+extensions&top_k=3&cutoff=0.3", nil)

	assert.Equal(t, http.StatusOK, recorder.Code)

	var envelope testEnvelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))

	var matches []models.KBMatch
	require.NoError(t, json.Unmarshal(envelope.Data, &matches))
	require.NotEmpty(t, matches)
	assert.Equal(t, "Do you offer eyelash extensions?", matches[0].QuestionPattern)
}

func TestHandleSearchRequiresQuery(t *testing.T) {
	router := newKBRouter(t, seededKBRepo(t))

	recorder := doJSON(router, http.MethodGet, "/kb/search", nil)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestHandleSearchRejectsBadTopK(t *testing.T) {
	router := newKBRouter(t, seededKBRepo(t))

	for _, raw := range []string{"abc", "0", "-3"} {
		recorder := doJSON(router, http.MethodGet, "/kb/search?q=hours&top_k="+raw, nil)
		assert.Equal(t, http.StatusBadRequest, recorder.Code, "top_k=%s", raw)
	}
}

func TestHandleSearchCapsTopK(t *testing.T) {
	repo := &memKBRepo{}
	for i := 0; i < 30; i++ {
		require.NoError(t, repo.Create(&models.KnowledgeBaseEntry{
			QuestionPattern: "hours",
			Answer:          "9am to 7pm.",
			Source:          models.SourceSeed,
		}))
	}
	router := newKBRouter(t, repo)

	recorder := doJSON(router, http.MethodGet, "/kb/search?q=hours&top_k=100", nil)

	assert.Equal(t, http.StatusOK, recorder.Code)

	var envelope testEnvelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))

	var matches []models.KBMatch
	require.NoError(t, json.Unmarshal(envelope.Data, &matches))
	assert.Len(t, matches, 25)
}

func TestHandleCreateLearnedAnswer(t *testing.T) {
	repo := &memKBRepo{}
	router := newKBRouter(t, repo)

	recorder := doJSON(router, http.MethodPost, "/learned-answers", models.KBCreate{
		QuestionPattern: "Do you sell gift cards?",
		Answer:          "Yes, at the front desk.",
	})

	assert.Equal(t, http.StatusCreated, recorder.Code)

	entries, err := repo.GetAll()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.SourceManual, entries[0].Source)
}

func TestHandleListFilters(t *testing.T) {
	router := newKBRouter(t, seededKBRepo(t))

	recorder := doJSON(router, http.MethodGet, "/learned-answers?source=SEED", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)

	var envelope testEnvelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))

	var entries []models.KnowledgeBaseEntry
	require.NoError(t, json.Unmarshal(envelope.Data, &entries))
	assert.Len(t, entries, 2)

	recorder = doJSON(router, http.MethodGet, "/learned-answers?source=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = doJSON(router, http.MethodGet, "/learned-answers?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
