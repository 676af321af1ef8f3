// backend/internal/services/helpdesk.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/frontdeskhq/frontdesk/backend/internal/matching"
	"github.com/frontdeskhq/frontdesk/backend/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// HelpDeskService owns the request lifecycle: KB-first create, listing,
// supervisor responses and the simulated caller follow-up.
type HelpDeskService struct {
	requests models.HelpRequestRepository
	kb       *KBService
	engine   *matching.Engine
	topK     int
	logger   *logrus.Logger
}

func NewHelpDeskService(
	requests models.HelpRequestRepository,
	kb *KBService,
	engine *matching.Engine,
	topK int,
	logger *logrus.Logger,
) *HelpDeskService {
	return &HelpDeskService{
		requests: requests,
		kb:       kb,
		engine:   engine,
		topK:     topK,
		logger:   logger,
	}
}

// CreateParams carries the caller question plus the two cutoffs. Call sites
// supply their own defaults (the server uses 0.35/0.55, the agent simulator
// a stricter 0.75 confidence cutoff).
type CreateParams struct {
	CallerName       string
	Question         string
	LivekitRoom      *string
	SearchCutoff     float64
	ConfidenceCutoff float64
}

// CreateRequest checks the KB first. A confident, relevant match is returned
// directly and nothing is persisted; otherwise a pending request is stored,
// along with any low-confidence suggestion for supervisor context.
func (s *HelpDeskService) CreateRequest(ctx context.Context, p CreateParams) (*models.CreateRequestResult, error) {
	entries, err := s.kb.Snapshot()
	if err != nil {
		return nil, err
	}

	candidates := make([]matching.Candidate, len(entries))
	for i := range entries {
		candidates[i] = matching.Candidate{ID: entries[i].ID, Pattern: entries[i].QuestionPattern}
	}

	decision := s.engine.Decide(p.Question, candidates, s.topK, p.SearchCutoff, p.ConfidenceCutoff)
	best := s.matchDetails(entries, decision.Best)

	if decision.AutoAnswer {
		s.logger.WithFields(logrus.Fields{
			"caller": p.CallerName,
			"score":  best.Score,
		}).Info("Confident KB match, not escalating")

		return &models.CreateRequestResult{
			Created: false,
			KBMatch: best,
			Message: "Knowledge base match found; agent can reply directly.",
		}, nil
	}

	req := &models.HelpRequest{
		CallerName:  p.CallerName,
		Question:    p.Question,
		Status:      models.StatusPending,
		LivekitRoom: p.LivekitRoom,
	}
	if err := s.requests.Create(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	s.logger.WithFields(logrus.Fields{
		"id":     req.ID,
		"caller": p.CallerName,
	}).Info("Help request escalated to supervisor")

	return &models.CreateRequestResult{
		Created:      true,
		Request:      req,
		KBSuggestion: best,
		Message:      "Supervisor notified (simulated).",
	}, nil
}

// ListRequests returns all requests, optionally filtered to one status.
func (s *HelpDeskService) ListRequests(status string) ([]models.HelpRequest, error) {
	var (
		requests []models.HelpRequest
		err      error
	)
	if status != "" {
		requests, err = s.requests.GetByStatus(status)
	} else {
		requests, err = s.requests.GetAll()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return requests, nil
}

// Respond records a supervisor answer and applies the learning policy: a
// resolved request always produces a new KB entry; save_to_kb additionally
// opts the unresolved case in. The write is append-only.
func (s *HelpDeskService) Respond(ctx context.Context, id uint, answer models.SupervisorAnswer) (*models.HelpRequest, error) {
	if answer.Status != models.StatusResolved && answer.Status != models.StatusUnresolved {
		return nil, fmt.Errorf("%w: status must be resolved or unresolved", ErrInvalidState)
	}

	req, err := s.getRequest(id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	response := answer.SupervisorResponse
	req.SupervisorResponse = &response
	req.Status = answer.Status
	req.ResolvedAt = &now
	req.FollowUpSent = false

	if err := s.requests.Update(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	if answer.SaveToKB || answer.Status == models.StatusResolved {
		if _, err := s.kb.Append(ctx, req.Question, response, models.SourceSupervisor); err != nil {
			return nil, err
		}
	}

	s.logger.WithFields(logrus.Fields{
		"id":     req.ID,
		"status": req.Status,
	}).Info("Supervisor response recorded")

	return req, nil
}

// FollowUp marks the request followed-up and returns the callback message
// for the original caller. Delivery is simulated.
func (s *HelpDeskService) FollowUp(id uint) (string, error) {
	req, err := s.getRequest(id)
	if err != nil {
		return "", err
	}
	if req.SupervisorResponse == nil {
		return "", fmt.Errorf("%w: no supervisor response to follow up with", ErrInvalidState)
	}

	req.FollowUpSent = true
	if err := s.requests.Update(req); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	return fmt.Sprintf("Hi %s, following up: %s", req.CallerName, *req.SupervisorResponse), nil
}

func (s *HelpDeskService) getRequest(id uint) (*models.HelpRequest, error) {
	req, err := s.requests.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: request %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return req, nil
}

// matchDetails joins an engine match back to its full KB entry.
func (s *HelpDeskService) matchDetails(entries []models.KnowledgeBaseEntry, m *matching.Match) *models.KBMatch {
	if m == nil {
		return nil
	}
	for i := range entries {
		if entries[i].ID == m.ID {
			return &models.KBMatch{
				ID:              entries[i].ID,
				QuestionPattern: entries[i].QuestionPattern,
				Answer:          entries[i].Answer,
				Source:          entries[i].Source,
				Score:           m.Score,
				CreatedAt:       entries[i].CreatedAt,
			}
		}
	}
	return nil
}
