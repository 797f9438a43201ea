package types

import (
	"context"

	"github.com/codio-labs/codio-api/internal/database"
	"github.com/codio-labs/codio-api/internal/services/concepts"
	"github.com/codio-labs/codio-api/internal/services/processing"
	"github.com/codio-labs/codio-api/internal/services/resolver"
	"github.com/codio-labs/codio-api/internal/services/segments"
	"github.com/codio-labs/codio-api/internal/services/transcripts"
)

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	DB                *database.DB
	Registry          *processing.Registry
	SegmentService    segments.Service
	Resolver          resolver.Service
	TranscriptService transcripts.Service
	ConceptService    concepts.Service

	// DefaultTolerance is the pause-to-code matching window used when the
	// request does not supply one
	DefaultTolerance float64
}

// SourceURLFor finds the URL a video was processed from, checking the
// durable analysis first and falling back to an active job. Returns false
// when the video is unknown.
func (d *Dependencies) SourceURLFor(ctx context.Context, videoID string) (string, bool) {
	if d.SegmentService != nil {
		analysis, err := d.SegmentService.Load(ctx, videoID)
		if err == nil && analysis != nil && analysis.SourceURL != "" {
			return analysis.SourceURL, true
		}
	}
	if d.Registry != nil {
		if job, ok := d.Registry.ActiveJob(videoID); ok {
			return job.SourceURL(), true
		}
	}
	return "", false
}
