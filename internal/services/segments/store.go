package segments

import (
	"errors"
	"fmt"
	"sync"

	"github.com/codio-labs/codio-api/internal/models"
)

// ErrDuplicateSegment is returned when a segment with an already-seen
// (timestamp, frame number) pair is appended
var ErrDuplicateSegment = errors.New("duplicate segment")

type segmentKey struct {
	timestamp   float64
	frameNumber int
}

// Store is the append-only, timestamp-ordered segment collection for one
// video. The owning job appends; readers take snapshots. Safe for concurrent
// use: resolve and segment listing run against it while the job is mid-flight.
type Store struct {
	videoID string

	mu       sync.RWMutex
	segments []models.Segment
	seen     map[segmentKey]struct{}
}

// NewStore creates an empty store for a video
func NewStore(videoID string) *Store {
	return &Store{
		videoID: videoID,
		seen:    make(map[segmentKey]struct{}),
	}
}

// VideoID returns the video this store belongs to
func (st *Store) VideoID() string {
	return st.videoID
}

// Append adds a segment. Extraction walks timestamps monotonically, so
// insertion order is timestamp order and no sort is needed.
func (st *Store) Append(seg models.Segment) error {
	key := segmentKey{timestamp: seg.Timestamp, frameNumber: seg.FrameNumber}

	st.mu.Lock()
	defer st.mu.Unlock()

	if _, dup := st.seen[key]; dup {
		return fmt.Errorf("%w: timestamp %.2f frame %d", ErrDuplicateSegment, seg.Timestamp, seg.FrameNumber)
	}
	st.seen[key] = struct{}{}
	st.segments = append(st.segments, seg)
	return nil
}

// Snapshot returns a copy of the current segments in insertion order
func (st *Store) Snapshot() []models.Segment {
	st.mu.RLock()
	defer st.mu.RUnlock()

	out := make([]models.Segment, len(st.segments))
	copy(out, st.segments)
	return out
}

// Len returns the current segment count
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.segments)
}
