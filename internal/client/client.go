// backend/internal/client/client.go
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/frontdeskhq/frontdesk/backend/internal/models"
	"github.com/sirupsen/logrus"
)

// Client is a typed HTTP client for the FrontDesk backend API, used by the
// agent simulator and any other out-of-process caller.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewClient(baseURL string, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// apiEnvelope mirrors the server's response wrapper.
type apiEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// CreateHelpRequest submits a caller question with explicit cutoffs. The
// agent-facing call site passes a stricter confidence cutoff than the
// server default.
func (c *Client) CreateHelpRequest(ctx context.Context, payload models.CreateHelpRequest, searchCutoff, confidenceCutoff float64) (*models.CreateRequestResult, error) {
	path := fmt.Sprintf("/help-requests?kb_search_cutoff=%s&kb_cutoff=%s",
		strconv.FormatFloat(searchCutoff, 'f', -1, 64),
		strconv.FormatFloat(confidenceCutoff, 'f', -1, 64))

	var result models.CreateRequestResult
	if err := c.makeRequest(ctx, "POST", path, payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListHelpRequests fetches requests, optionally filtered by status.
func (c *Client) ListHelpRequests(ctx context.Context, status string) ([]models.HelpRequest, error) {
	path := "/help-requests"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}

	var requests []models.HelpRequest
	if err := c.makeRequest(ctx, "GET", path, nil, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// Respond records a supervisor answer on a request.
func (c *Client) Respond(ctx context.Context, id uint, answer models.SupervisorAnswer) (*models.HelpRequest, error) {
	var req models.HelpRequest
	if err := c.makeRequest(ctx, "POST", fmt.Sprintf("/help-requests/%d/respond", id), answer, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// FollowUp triggers the simulated caller follow-up for a request.
func (c *Client) FollowUp(ctx context.Context, id uint) (string, error) {
	var result models.FollowUpResult
	if err := c.makeRequest(ctx, "POST", fmt.Sprintf("/help-requests/%d/follow-up", id), nil, &result); err != nil {
		return "", err
	}
	return result.FollowUp, nil
}

// SearchKB runs a ranked fuzzy search against the KB.
func (c *Client) SearchKB(ctx context.Context, query string, topK int, cutoff float64) ([]models.KBMatch, error) {
	path := fmt.Sprintf("/kb/search?q=%s&top_k=%d&cutoff=%s",
		url.QueryEscape(query), topK, strconv.FormatFloat(cutoff, 'f', -1, 64))

	var matches []models.KBMatch
	if err := c.makeRequest(ctx, "GET", path, nil, &matches); err != nil {
		return nil, err
	}
	return matches, nil
}

// ListLearnedAnswers fetches the full KB.
func (c *Client) ListLearnedAnswers(ctx context.Context) ([]models.KnowledgeBaseEntry, error) {
	var entries []models.KnowledgeBaseEntry
	if err := c.makeRequest(ctx, "GET", "/learned-answers", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) makeRequest(ctx context.Context, method, path string, payload interface{}, result interface{}) error {
	fullURL := c.baseURL + path

	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.WithFields(logrus.Fields{
		"method": method,
		"url":    fullURL,
	}).Debug("Making backend API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var envelope apiEnvelope
	if len(responseBody) > 0 {
		if err := json.Unmarshal(responseBody, &envelope); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := envelope.Error
		if detail == "" {
			detail = envelope.Message
		}
		return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, detail)
	}

	if result != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, result); err != nil {
			return fmt.Errorf("failed to unmarshal response data: %w", err)
		}
	}

	return nil
}
