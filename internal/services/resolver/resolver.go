// Package resolver answers the pause-to-code question: given a video and a
// paused timestamp, which extracted segment was on screen?
package resolver

import (
	"context"
	"fmt"
	"math"

	"github.com/codio-labs/codio-api/internal/models"
	"github.com/codio-labs/codio-api/internal/services/segments"
	apperrors "github.com/codio-labs/codio-api/pkg/errors"
)

// DefaultTolerance is the matching window in seconds used when the caller
// does not supply one
const DefaultTolerance = 2.0

// Kind classifies a resolution outcome
type Kind string

const (
	// KindMatched means a segment fell within the tolerance window
	KindMatched Kind = "matched"
	// KindNoMatch means the video is analyzed but no segment is close enough
	KindNoMatch Kind = "no_match"
	// KindUnavailable means the video has no analysis at all
	KindUnavailable Kind = "unavailable"
)

// Result is the outcome of a pause-to-code lookup. Segment is set only when
// Kind is KindMatched.
type Result struct {
	Kind               Kind
	TimestampRequested float64
	TimestampActual    float64
	TimeDifference     float64
	Segment            *models.Segment
}

// Service resolves timestamps to segments
type Service interface {
	// Resolve finds the segment closest to timestamp within tolerance
	// seconds, regardless of segment kind. A zero tolerance demands an exact
	// timestamp match; a negative tolerance is rejected.
	Resolve(ctx context.Context, videoID string, timestamp, tolerance float64) (*Result, error)
}

type service struct {
	segments segments.Service
}

// NewService creates a resolver backed by the segment service
func NewService(segmentService segments.Service) Service {
	return &service{segments: segmentService}
}

func (s *service) Resolve(ctx context.Context, videoID string, timestamp, tolerance float64) (*Result, error) {
	if tolerance < 0 {
		return nil, apperrors.ValidationError("tolerance", fmt.Sprintf("must be non-negative, got %.2f", tolerance))
	}
	if timestamp < 0 {
		return nil, apperrors.ValidationError("timestamp", fmt.Sprintf("must be non-negative, got %.2f", timestamp))
	}

	segs, found, err := s.segments.Segments(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("loading segments for %s: %w", videoID, err)
	}
	if !found {
		return &Result{Kind: KindUnavailable, TimestampRequested: timestamp}, nil
	}

	// Closest segment wins, whatever its kind: a learning segment nearby is
	// a real answer ("nothing on screen here"), not a miss. On a distance
	// tie the later timestamp is preferred: the viewer paused after seeing
	// the frame, so the later one is on screen.
	var best *models.Segment
	bestDiff := math.Inf(1)
	for i := range segs {
		seg := &segs[i]
		diff := math.Abs(seg.Timestamp - timestamp)
		if diff > tolerance {
			continue
		}
		if diff < bestDiff || (diff == bestDiff && best != nil && seg.Timestamp > best.Timestamp) {
			best = seg
			bestDiff = diff
		}
	}

	if best == nil {
		return &Result{Kind: KindNoMatch, TimestampRequested: timestamp}, nil
	}

	return &Result{
		Kind:               KindMatched,
		TimestampRequested: timestamp,
		TimestampActual:    best.Timestamp,
		TimeDifference:     bestDiff,
		Segment:            best,
	}, nil
}
