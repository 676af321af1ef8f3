// backend/internal/api/handlers/kb.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/frontdeskhq/frontdesk/backend/internal/models"
	"github.com/frontdeskhq/frontdesk/backend/internal/services"
	"github.com/frontdeskhq/frontdesk/backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type KBHandler struct {
	kb     *services.KBService
	logger *logrus.Logger
}

func NewKBHandler(kb *services.KBService, logger *logrus.Logger) *KBHandler {
	return &KBHandler{
		kb:     kb,
		logger: logger,
	}
}

// HandleSearch performs a ranked fuzzy search over the KB
func (h *KBHandler) HandleSearch(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Query parameter 'q' is required", nil)
		return
	}

	topK := 3
	if raw := c.Query("top_k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid top_k", nil)
			return
		}
		topK = parsed
	}
	if topK > 25 {
		topK = 25
	}

	cutoff := 0.0
	if raw := c.Query("cutoff"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
			cutoff = parsed
		}
	}

	matches, err := h.kb.Search(c.Request.Context(), query, topK, cutoff)
	if err != nil {
		h.respondError(c, err, "KB search failed")
		return
	}

	h.logger.WithFields(logrus.Fields{
		"query":   query,
		"matches": len(matches),
	}).Info("KB search completed")

	utils.SuccessResponse(c, http.StatusOK, "KB search completed", matches)
}

// HandleList returns learned answers, optionally filtered by source or
// limited to the most recent entries
func (h *KBHandler) HandleList(c *gin.Context) {
	var (
		entries []models.KnowledgeBaseEntry
		err     error
	)

	switch {
	case c.Query("source") != "":
		source := c.Query("source")
		if source != models.SourceSeed && source != models.SourceManual && source != models.SourceSupervisor {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid source filter", nil)
			return
		}
		entries, err = h.kb.ListBySource(source)
	case c.Query("limit") != "":
		limit, convErr := strconv.Atoi(c.Query("limit"))
		if convErr != nil || limit <= 0 {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid limit", nil)
			return
		}
		entries, err = h.kb.Recent(limit)
	default:
		entries, err = h.kb.List()
	}

	if err != nil {
		h.respondError(c, err, "Failed to list learned answers")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Learned answers retrieved", entries)
}

// HandleCreate inserts a learned answer directly, bypassing the decision engine
func (h *KBHandler) HandleCreate(c *gin.Context) {
	var req models.KBCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid KB entry format", err)
		return
	}

	source := req.Source
	if source == "" {
		source = models.SourceManual
	}
	validSources := map[string]bool{
		models.SourceSeed:       true,
		models.SourceManual:     true,
		models.SourceSupervisor: true,
	}
	if !validSources[source] {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid source", nil)
		return
	}

	entry, err := h.kb.Append(c.Request.Context(), req.QuestionPattern, req.Answer, source)
	if err != nil {
		h.respondError(c, err, "Failed to create KB entry")
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "KB entry created", entry)
}

func (h *KBHandler) respondError(c *gin.Context, err error, message string) {
	h.logger.WithError(err).Error(message)

	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, message, err)
	case errors.Is(err, services.ErrUpstreamUnavailable):
		utils.ErrorResponse(c, http.StatusServiceUnavailable, message, err)
	default:
		utils.ErrorResponse(c, http.StatusInternalServerError, message, err)
	}
}
