package concepts

import (
	"context"

	"github.com/codio-labs/codio-api/internal/models"
)

// Service detects and serves per-video programming concepts. Detection is a
// single classifier pass over the transcript and code segments; each run
// fully replaces the prior concept set for the video.
type Service interface {
	// Detect runs concept detection for a video and stores the result,
	// replacing any previously detected set
	Detect(ctx context.Context, videoID, sourceURL string) ([]models.Concept, error)

	// List returns the stored concept set, or an empty list when detection
	// has never run
	List(ctx context.Context, videoID string) ([]models.Concept, error)
}

// Repository defines durable persistence for concept sets
type Repository interface {
	// Upsert creates or replaces the concept set row for its video_id
	Upsert(ctx context.Context, set *models.ConceptSet) error

	// GetByVideoID returns the concept set for a video, or nil when absent
	GetByVideoID(ctx context.Context, videoID string) (*models.ConceptSet, error)

	// Delete removes the concept set row for a video
	Delete(ctx context.Context, videoID string) error
}
