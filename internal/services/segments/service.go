package segments

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/codio-labs/codio-api/internal/models"
)

type service struct {
	repo Repository

	mu     sync.RWMutex
	stores map[string]*Store
}

// NewService creates a segment service backed by the given repository
func NewService(repo Repository) Service {
	return &service{
		repo:   repo,
		stores: make(map[string]*Store),
	}
}

func (s *service) CreateStore(videoID string) *Store {
	store := NewStore(videoID)

	s.mu.Lock()
	s.stores[videoID] = store
	s.mu.Unlock()

	return store
}

func (s *service) GetStore(videoID string) (*Store, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	store, ok := s.stores[videoID]
	return store, ok
}

func (s *service) DropStore(videoID string) {
	s.mu.Lock()
	delete(s.stores, videoID)
	s.mu.Unlock()
}

func (s *service) Segments(ctx context.Context, videoID string) ([]models.Segment, bool, error) {
	// The live store wins: mid-job callers see whatever has been appended
	// so far
	if store, ok := s.GetStore(videoID); ok {
		return store.Snapshot(), true, nil
	}

	analysis, err := s.repo.GetByVideoID(ctx, videoID)
	if err != nil {
		return nil, false, fmt.Errorf("loading analysis for %s: %w", videoID, err)
	}
	if analysis == nil {
		return nil, false, nil
	}

	return []models.Segment(analysis.Segments), true, nil
}

func (s *service) Load(ctx context.Context, videoID string) (*models.VideoAnalysis, error) {
	return s.repo.GetByVideoID(ctx, videoID)
}

func (s *service) Persist(ctx context.Context, analysis *models.VideoAnalysis) error {
	if err := s.repo.Upsert(ctx, analysis); err != nil {
		return fmt.Errorf("persisting analysis for %s: %w", analysis.VideoID, err)
	}

	log.Printf("[DEBUG] Persisted analysis for %s (%d segments)", analysis.VideoID, len(analysis.Segments))
	return nil
}

func (s *service) HasAnalysis(ctx context.Context, videoID string) (bool, error) {
	return s.repo.Exists(ctx, videoID)
}

func (s *service) Invalidate(ctx context.Context, videoID string) error {
	s.DropStore(videoID)

	if err := s.repo.Delete(ctx, videoID); err != nil {
		return fmt.Errorf("invalidating analysis for %s: %w", videoID, err)
	}

	log.Printf("[DEBUG] Invalidated cached analysis for %s", videoID)
	return nil
}

func (s *service) ListAnalyses(ctx context.Context) ([]models.VideoAnalysis, error) {
	return s.repo.List(ctx)
}
