// backend/cmd/agent/main.go
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/frontdeskhq/frontdesk/backend/internal/client"
	"github.com/frontdeskhq/frontdesk/backend/internal/config"
	"github.com/frontdeskhq/frontdesk/backend/internal/models"
	"github.com/frontdeskhq/frontdesk/backend/pkg/utils"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// sampleCall is one scripted caller turn for the simulator.
type sampleCall struct {
	CallerName string
	Question   string
}

var sampleCalls = []sampleCall{
	{"Alice", "Do you offer eyelash extensions?"},
	{"Bob", "What are your hours?"},
}

var (
	baseURL  = flag.String("backend-url", "http://localhost:8080", "Base URL of the FrontDesk backend")
	polls    = flag.Int("polls", 8, "Number of polling rounds after the scripted calls")
	interval = flag.Duration("interval", 5*time.Second, "Delay between polling rounds")
	verbose  = flag.Bool("verbose", false, "Enable verbose logging")
)

func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	logger := utils.GetLogger()
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	logger.WithFields(logrus.Fields{
		"backend":       *baseURL,
		"search_cutoff": cfg.KB.SearchCutoff,
		"agent_cutoff":  cfg.KB.AgentCutoff,
	}).Info("Starting agent simulator...")

	ctx := context.Background()
	api := client.NewClient(*baseURL, logger)

	// The agent answers from the KB only when it is very sure, so it asks
	// the backend with a stricter confidence cutoff than the server default.
	for _, call := range sampleCalls {
		result, err := api.CreateHelpRequestWithRetry(ctx, models.CreateHelpRequest{
			CallerName: call.CallerName,
			Question:   call.Question,
		}, cfg.KB.SearchCutoff, cfg.KB.AgentCutoff)
		if err != nil {
			logger.WithError(err).WithField("caller", call.CallerName).Error("Call failed")
			continue
		}

		if result.Created {
			fields := logrus.Fields{
				"caller": call.CallerName,
				"id":     result.Request.ID,
			}
			if result.KBSuggestion != nil {
				fields["suggestion"] = result.KBSuggestion.QuestionPattern
				fields["score"] = result.KBSuggestion.Score
			}
			logger.WithFields(fields).Info("Agent escalated: 'Let me check with my supervisor and get back to you.'")
		} else {
			logger.WithFields(logrus.Fields{
				"caller": call.CallerName,
				"answer": result.KBMatch.Answer,
				"score":  result.KBMatch.Score,
			}).Info("Agent answered from knowledge base")
		}
	}

	// Poll for supervisor activity: pending requests draining and new
	// learned answers appearing.
	for round := 1; round <= *polls; round++ {
		time.Sleep(*interval)

		pending, err := api.ListHelpRequests(ctx, models.StatusPending)
		if err != nil {
			logger.WithError(err).Warn("Failed to list pending requests")
			continue
		}

		learned, err := api.ListLearnedAnswers(ctx)
		if err != nil {
			logger.WithError(err).Warn("Failed to list learned answers")
			continue
		}

		logger.WithFields(logrus.Fields{
			"round":           round,
			"pending":         len(pending),
			"learned_answers": len(learned),
		}).Info("Polled backend")

		if len(pending) == 0 {
			logger.Info("No pending requests left, agent simulator done")
			return
		}
	}

	logger.Info("Polling rounds exhausted, agent simulator done")
}
