// backend/internal/api/handlers/system.go
package handlers

import (
	"net/http"
	"time"

	"github.com/frontdeskhq/frontdesk/backend/internal/health"
	"github.com/frontdeskhq/frontdesk/backend/internal/models"
	"github.com/frontdeskhq/frontdesk/backend/internal/token"
	"github.com/frontdeskhq/frontdesk/backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type SystemHandler struct {
	issuer     *token.Issuer
	livekitURL string
	checker    *health.HealthChecker
	logger     *logrus.Logger
}

func NewSystemHandler(issuer *token.Issuer, livekitURL string, checker *health.HealthChecker, logger *logrus.Logger) *SystemHandler {
	return &SystemHandler{
		issuer:     issuer,
		livekitURL: livekitURL,
		checker:    checker,
		logger:     logger,
	}
}

// HandleToken issues a LiveKit join token for the given identity
func (h *SystemHandler) HandleToken(c *gin.Context) {
	identity := c.Query("identity")
	if identity == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Query parameter 'identity' is required", nil)
		return
	}
	room := c.Query("room")

	joinToken, err := h.issuer.IssueJoinToken(identity, room, token.DefaultTTL)
	if err != nil {
		h.logger.WithError(err).Error("Failed to issue join token")
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to issue token", err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"identity": identity,
		"room":     room,
	}).Info("Join token issued")

	utils.SuccessResponse(c, http.StatusOK, "Token issued", models.TokenResponse{
		Token:      joinToken,
		LivekitURL: h.livekitURL,
	})
}

// HandleHealth reports overall system health, preferring the cached status
func (h *SystemHandler) HandleHealth(c *gin.Context) {
	overall, err := h.checker.CheckCached(c.Request.Context())
	if err != nil {
		checked := h.checker.CheckAll()
		overall = &checked
	}

	serviceStatus := make(map[string]string, len(overall.Services))
	for _, svc := range overall.Services {
		serviceStatus[svc.Name] = svc.Status
	}

	response := models.HealthResponse{
		Status:    overall.Status,
		Service:   "frontdesk-backend",
		Timestamp: time.Now().Format(time.RFC3339),
		Services:  serviceStatus,
	}

	code := http.StatusOK
	if overall.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, response)
}
