// backend/internal/services/kb.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/frontdeskhq/frontdesk/backend/internal/database"
	"github.com/frontdeskhq/frontdesk/backend/internal/matching"
	"github.com/frontdeskhq/frontdesk/backend/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const searchCacheTTL = 5 * time.Minute

// KBService is the knowledge base query surface: ranked fuzzy search over
// the live snapshot, plus direct appends. The same search primitive backs
// the escalation decision and the ad hoc /kb/search endpoint.
type KBService struct {
	kbRepo models.KnowledgeBaseRepository
	cache  *database.Cache // nil disables caching
	logger *logrus.Logger
}

func NewKBService(kbRepo models.KnowledgeBaseRepository, cache *database.Cache, logger *logrus.Logger) *KBService {
	return &KBService{
		kbRepo: kbRepo,
		cache:  cache,
		logger: logger,
	}
}

// Snapshot reads the full KB. Called fresh for every search so a mutated KB
// is always visible; there is no cross-call matcher state.
func (s *KBService) Snapshot() ([]models.KnowledgeBaseEntry, error) {
	entries, err := s.kbRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return entries, nil
}

// Search returns ranked KB matches for the query, best first. An empty
// result is not an error.
func (s *KBService) Search(ctx context.Context, query string, topK int, minRatio float64) ([]models.KBMatch, error) {
	cacheKey := fmt.Sprintf("%s|%d|%.3f", query, topK, minRatio)

	if s.cache != nil {
		if cached, err := s.cache.GetCachedKBSearch(ctx, cacheKey); err == nil {
			s.logger.WithField("query", query).Debug("KB search served from cache")
			return cached, nil
		}
	}

	entries, err := s.Snapshot()
	if err != nil {
		return nil, err
	}

	matches := rankEntries(query, entries, topK, minRatio)

	if s.cache != nil {
		if err := s.cache.CacheKBSearch(ctx, cacheKey, matches, searchCacheTTL); err != nil {
			s.logger.WithError(err).Warn("Failed to cache KB search results")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"query":   query,
		"matches": len(matches),
	}).Debug("KB search completed")

	return matches, nil
}

// Append inserts a new KB entry. Always additive: an existing entry with the
// same pattern is never updated.
func (s *KBService) Append(ctx context.Context, pattern, answer, source string) (*models.KnowledgeBaseEntry, error) {
	if source == "" {
		source = models.SourceManual
	}

	entry := &models.KnowledgeBaseEntry{
		QuestionPattern: pattern,
		Answer:          answer,
		Source:          source,
	}
	if err := s.kbRepo.Create(entry); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	if s.cache != nil {
		if err := s.cache.BumpKBVersion(ctx); err != nil {
			s.logger.WithError(err).Warn("Failed to invalidate KB search cache")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"id":     entry.ID,
		"source": entry.Source,
	}).Info("KB entry created")

	return entry, nil
}

// List returns every learned answer in insertion order.
func (s *KBService) List() ([]models.KnowledgeBaseEntry, error) {
	return s.Snapshot()
}

// ListBySource returns entries with the given provenance.
func (s *KBService) ListBySource(source string) ([]models.KnowledgeBaseEntry, error) {
	entries, err := s.kbRepo.GetBySource(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return entries, nil
}

// Recent returns the most recently learned entries, newest first.
func (s *KBService) Recent(limit int) ([]models.KnowledgeBaseEntry, error) {
	entries, err := s.kbRepo.GetRecent(limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return entries, nil
}

// Get returns a single entry by id.
func (s *KBService) Get(id string) (*models.KnowledgeBaseEntry, error) {
	entry, err := s.kbRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: kb entry %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return entry, nil
}

// rankEntries runs the fuzzy matcher over a snapshot and joins the matches
// back to their entries.
func rankEntries(query string, entries []models.KnowledgeBaseEntry, topK int, minRatio float64) []models.KBMatch {
	candidates := make([]matching.Candidate, len(entries))
	byID := make(map[string]*models.KnowledgeBaseEntry, len(entries))
	for i := range entries {
		candidates[i] = matching.Candidate{ID: entries[i].ID, Pattern: entries[i].QuestionPattern}
		byID[entries[i].ID] = &entries[i]
	}

	ranked := matching.FindMatches(query, candidates, topK, minRatio)

	matches := make([]models.KBMatch, 0, len(ranked))
	for _, m := range ranked {
		entry := byID[m.ID]
		matches = append(matches, models.KBMatch{
			ID:              entry.ID,
			QuestionPattern: entry.QuestionPattern,
			Answer:          entry.Answer,
			Source:          entry.Source,
			Score:           m.Score,
			CreatedAt:       entry.CreatedAt,
		})
	}
	return matches
}
