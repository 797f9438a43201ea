package segments

import (
	"context"

	"github.com/codio-labs/codio-api/internal/models"
)

// Service manages per-video segment stores: the live in-memory view written
// by an active processing job, and the durable analysis cache behind it.
type Service interface {
	// CreateStore creates a fresh empty store for a video, replacing any
	// existing in-memory store. Called by the job that owns the video.
	CreateStore(videoID string) *Store

	// GetStore returns the in-memory store for a video if one exists
	GetStore(videoID string) (*Store, bool)

	// DropStore removes a video's in-memory store without touching the
	// durable cache
	DropStore(videoID string)

	// Segments returns the current segment view for a video: the live store
	// if a job has one, else the durable cache. found is false when the
	// video has never been processed at all.
	Segments(ctx context.Context, videoID string) (segs []models.Segment, found bool, err error)

	// Load returns the durable analysis record, or nil when none exists
	Load(ctx context.Context, videoID string) (*models.VideoAnalysis, error)

	// Persist writes the full analysis record, overwriting any prior version
	Persist(ctx context.Context, analysis *models.VideoAnalysis) error

	// HasAnalysis reports whether a durable record exists for the video
	HasAnalysis(ctx context.Context, videoID string) (bool, error)

	// Invalidate removes both the durable record and the in-memory store.
	// Used only by force-reprocess.
	Invalidate(ctx context.Context, videoID string) error

	// ListAnalyses returns all durable analysis records, newest first
	ListAnalyses(ctx context.Context) ([]models.VideoAnalysis, error)
}

// Repository defines durable persistence for video analyses
type Repository interface {
	// Upsert creates or replaces the analysis row for its video_id
	Upsert(ctx context.Context, analysis *models.VideoAnalysis) error

	// GetByVideoID returns the analysis for a video, or nil when absent
	GetByVideoID(ctx context.Context, videoID string) (*models.VideoAnalysis, error)

	// Delete removes the analysis row for a video
	Delete(ctx context.Context, videoID string) error

	// Exists reports whether an analysis row exists for a video
	Exists(ctx context.Context, videoID string) (bool, error)

	// List returns all analyses ordered by extraction date descending
	List(ctx context.Context) ([]models.VideoAnalysis, error)
}
