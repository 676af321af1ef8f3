package client

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/frontdeskhq/frontdesk/backend/internal/models"
	"github.com/sirupsen/logrus"
)

type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 4,
		BaseDelay:  time.Second,
		MaxDelay:   10 * time.Second,
	}
}

// CreateHelpRequestWithRetry retries transient failures with backoff. Safe
// to retry: a duplicate pending request is the accepted worst case.
func (c *Client) CreateHelpRequestWithRetry(ctx context.Context, payload models.CreateHelpRequest, searchCutoff, confidenceCutoff float64) (*models.CreateRequestResult, error) {
	var result *models.CreateRequestResult
	err := c.retryOperation(ctx, func() error {
		var err error
		result, err = c.CreateHelpRequest(ctx, payload, searchCutoff, confidenceCutoff)
		return err
	})
	return result, err
}

// SearchKBWithRetry retries transient search failures with backoff.
func (c *Client) SearchKBWithRetry(ctx context.Context, query string, topK int, cutoff float64) ([]models.KBMatch, error) {
	var matches []models.KBMatch
	err := c.retryOperation(ctx, func() error {
		var err error
		matches, err = c.SearchKB(ctx, query, topK, cutoff)
		return err
	})
	return matches, err
}

func (c *Client) retryOperation(ctx context.Context, operation func() error) error {
	config := DefaultRetryConfig()

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := operation()
		if err == nil {
			return nil
		}

		if attempt == config.MaxRetries {
			return fmt.Errorf("operation failed after %d retries: %w", config.MaxRetries, err)
		}

		delay := time.Duration(float64(config.BaseDelay) * math.Pow(1.5, float64(attempt)))
		if delay > config.MaxDelay {
			delay = config.MaxDelay
		}

		c.logger.WithFields(logrus.Fields{
			"attempt": attempt + 1,
			"delay":   delay,
			"error":   err.Error(),
		}).Warn("Retrying backend operation")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return nil
}
