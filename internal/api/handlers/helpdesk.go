// backend/internal/api/handlers/helpdesk.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/frontdeskhq/frontdesk/backend/internal/config"
	"github.com/frontdeskhq/frontdesk/backend/internal/models"
	"github.com/frontdeskhq/frontdesk/backend/internal/services"
	"github.com/frontdeskhq/frontdesk/backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const maxQuestionLength = 2000

type HelpDeskHandler struct {
	helpdesk *services.HelpDeskService
	cfg      *config.Config
	logger   *logrus.Logger
}

func NewHelpDeskHandler(helpdesk *services.HelpDeskService, cfg *config.Config, logger *logrus.Logger) *HelpDeskHandler {
	return &HelpDeskHandler{
		helpdesk: helpdesk,
		cfg:      cfg,
		logger:   logger,
	}
}

// HandleCreate processes a caller question: KB check first, escalate only
// when the decision engine is not confident
func (h *HelpDeskHandler) HandleCreate(c *gin.Context) {
	var req models.CreateHelpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Invalid help request payload")
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Question cannot be empty", nil)
		return
	}
	if len(question) > maxQuestionLength {
		utils.ErrorResponse(c, http.StatusBadRequest, "Question too long (max 2000 characters)", nil)
		return
	}

	// Both cutoffs are caller-overridable per request
	searchCutoff := h.floatQuery(c, "kb_search_cutoff", h.cfg.KB.SearchCutoff)
	confidenceCutoff := h.floatQuery(c, "kb_cutoff", h.cfg.KB.ConfidenceCutoff)

	h.logger.WithFields(logrus.Fields{
		"caller":           req.CallerName,
		"kb_search_cutoff": searchCutoff,
		"kb_cutoff":        confidenceCutoff,
	}).Info("Processing help request")

	result, err := h.helpdesk.CreateRequest(c.Request.Context(), services.CreateParams{
		CallerName:       req.CallerName,
		Question:         question,
		LivekitRoom:      req.LivekitRoom,
		SearchCutoff:     searchCutoff,
		ConfidenceCutoff: confidenceCutoff,
	})
	if err != nil {
		h.respondError(c, err, "Failed to process help request")
		return
	}

	code := http.StatusOK
	if result.Created {
		code = http.StatusCreated
	}
	utils.SuccessResponse(c, code, result.Message, result)
}

// HandleList returns help requests, optionally filtered by status
func (h *HelpDeskHandler) HandleList(c *gin.Context) {
	status := c.Query("status")
	if status != "" && status != models.StatusPending &&
		status != models.StatusResolved && status != models.StatusUnresolved {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid status filter", nil)
		return
	}

	requests, err := h.helpdesk.ListRequests(status)
	if err != nil {
		h.respondError(c, err, "Failed to list help requests")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Help requests retrieved", requests)
}

// HandleRespond records a supervisor answer on a request
func (h *HelpDeskHandler) HandleRespond(c *gin.Context) {
	id, ok := h.requestID(c)
	if !ok {
		return
	}

	var answer models.SupervisorAnswer
	if err := c.ShouldBindJSON(&answer); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid response format", err)
		return
	}

	req, err := h.helpdesk.Respond(c.Request.Context(), id, answer)
	if err != nil {
		h.respondError(c, err, "Failed to record response")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Response recorded", req)
}

// HandleFollowUp triggers the simulated caller follow-up
func (h *HelpDeskHandler) HandleFollowUp(c *gin.Context) {
	id, ok := h.requestID(c)
	if !ok {
		return
	}

	message, err := h.helpdesk.FollowUp(id)
	if err != nil {
		h.respondError(c, err, "Failed to send follow-up")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Follow-up sent", models.FollowUpResult{FollowUp: message})
}

// Helper methods

func (h *HelpDeskHandler) requestID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request id", err)
		return 0, false
	}
	return uint(id), true
}

func (h *HelpDeskHandler) floatQuery(c *gin.Context, name string, fallback float64) float64 {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return value
}

func (h *HelpDeskHandler) respondError(c *gin.Context, err error, message string) {
	h.logger.WithError(err).Error(message)

	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, message, err)
	case errors.Is(err, services.ErrInvalidState):
		utils.ErrorResponse(c, http.StatusBadRequest, message, err)
	case errors.Is(err, services.ErrUpstreamUnavailable):
		utils.ErrorResponse(c, http.StatusServiceUnavailable, message, err)
	default:
		utils.ErrorResponse(c, http.StatusInternalServerError, message, err)
	}
}
