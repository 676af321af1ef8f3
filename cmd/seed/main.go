// backend/cmd/seed/main.go
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/frontdeskhq/frontdesk/backend/internal/config"
	"github.com/frontdeskhq/frontdesk/backend/internal/database"
	"github.com/frontdeskhq/frontdesk/backend/internal/models"
	"github.com/frontdeskhq/frontdesk/backend/internal/repository"
	"github.com/frontdeskhq/frontdesk/backend/internal/services"
	"github.com/frontdeskhq/frontdesk/backend/pkg/utils"
	"github.com/gocolly/colly/v2"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// FAQEntry is one question/answer pair headed for the KB
type FAQEntry struct {
	Question string
	Answer   string
}

// Canned salon FAQ entries so the demo KB is never empty
var seedEntries = []FAQEntry{
	{"Do you offer eyelash extensions?", "Yes, eyelash extensions start at $50."},
	{"What are your hours?", "We are open Monday to Saturday, 9am to 7pm."},
	{"Do you take walk-ins?", "Walk-ins are welcome, but appointments get priority."},
	{"How much is a haircut?", "Haircuts start at $35 for short hair and $55 for long hair."},
	{"Do you offer gift cards?", "Yes, gift cards are available in any amount at the front desk."},
	{"Where are you located?", "We are at 124 Main Street, next to the pharmacy."},
	{"Can I cancel my appointment?", "Appointments can be cancelled up to 24 hours in advance free of charge."},
}

var (
	// Command line flags
	dryRun  = flag.Bool("dry-run", false, "Don't write to the database, just print what would be seeded")
	verbose = flag.Bool("verbose", false, "Enable verbose logging")
	limit   = flag.Int("limit", 0, "Limit number of entries to seed (0 = all)")
	faqURL  = flag.String("faq-url", "", "Optional FAQ page to scrape for additional entries")
)

func main() {
	flag.Parse()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	logger := utils.GetLogger()
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	logger.Info("Starting knowledge base seeder...")

	entries := make([]FAQEntry, len(seedEntries))
	copy(entries, seedEntries)

	if *faqURL != "" {
		scraped, err := scrapeFAQ(*faqURL, logger)
		if err != nil {
			logger.WithError(err).Warn("FAQ scrape failed, continuing with canned entries")
		} else {
			logger.WithField("scraped", len(scraped)).Info("Scraped FAQ entries")
			entries = append(entries, scraped...)
		}
	}

	if *limit > 0 && *limit < len(entries) {
		entries = entries[:*limit]
		logger.WithField("limit", *limit).Info("Limited entries to seed")
	}

	if *dryRun {
		for _, e := range entries {
			logger.WithFields(logrus.Fields{
				"question": e.Question,
				"answer":   e.Answer,
			}).Info("DRY RUN: Would seed entry")
		}
		return
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	dbConfig := &database.Config{
		DatabaseURL: cfg.Database.URL,
		RedisURL:    cfg.Redis.URL,
		LogLevel:    os.Getenv("LOG_LEVEL"),
	}

	dbManager, err := database.NewManager(dbConfig, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database manager")
	}
	defer dbManager.Close()

	if err := dbManager.Migrate(); err != nil {
		logger.WithError(err).Fatal("Database migration failed")
	}

	repoManager := repository.NewRepositoryManager(dbManager.DB)
	cache := database.NewCache(dbManager.Redis, logger)

	// Inserting through the KB service bumps the search-cache version, so a
	// live server never keeps serving pre-seed results.
	kbService := services.NewKBService(repoManager.KnowledgeBase, cache, logger)

	seeded, failed := seedKnowledgeBase(context.Background(), kbService, entries, logger)

	logger.WithFields(logrus.Fields{
		"seeded": seeded,
		"errors": failed,
	}).Info("Knowledge base seeding completed")

	if failed > 0 {
		os.Exit(1)
	}
}

// seedKnowledgeBase appends every entry with SEED provenance and reports how
// many succeeded and how many failed.
func seedKnowledgeBase(ctx context.Context, kb *services.KBService, entries []FAQEntry, logger *logrus.Logger) (int, int) {
	seeded, failed := 0, 0
	for _, e := range entries {
		if _, err := kb.Append(ctx, e.Question, e.Answer, models.SourceSeed); err != nil {
			logger.WithError(err).WithField("question", e.Question).Error("Failed to seed entry")
			failed++
			continue
		}
		seeded++
		logger.WithField("question", e.Question).Debug("Entry seeded")
	}
	return seeded, failed
}

// scrapeFAQ extracts question/answer pairs from an FAQ page. Supports
// definition lists (dt/dd) and details/summary blocks.
func scrapeFAQ(pageURL string, logger *logrus.Logger) ([]FAQEntry, error) {
	c := colly.NewCollector(
		colly.UserAgent("FrontDesk-Seeder/1.0"),
	)
	c.SetRequestTimeout(30 * time.Second)

	var entries []FAQEntry

	c.OnHTML("dl", func(e *colly.HTMLElement) {
		var questions []string
		e.ForEach("dt", func(_ int, dt *colly.HTMLElement) {
			questions = append(questions, strings.TrimSpace(dt.Text))
		})
		var answers []string
		e.ForEach("dd", func(_ int, dd *colly.HTMLElement) {
			answers = append(answers, strings.TrimSpace(dd.Text))
		})

		for i := 0; i < len(questions) && i < len(answers); i++ {
			if questions[i] != "" && answers[i] != "" {
				entries = append(entries, FAQEntry{Question: questions[i], Answer: answers[i]})
			}
		}
	})

	c.OnHTML("details", func(e *colly.HTMLElement) {
		question := strings.TrimSpace(e.ChildText("summary"))
		answer := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(e.Text), question))
		if question != "" && answer != "" {
			entries = append(entries, FAQEntry{Question: question, Answer: answer})
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		logger.WithError(err).WithField("url", pageURL).Error("FAQ page fetch failed")
	})

	if err := c.Visit(pageURL); err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"url":     pageURL,
		"entries": len(entries),
	}).Debug("FAQ page processed")

	return entries, nil
}
