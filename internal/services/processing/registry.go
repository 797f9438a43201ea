// Package processing owns the video analysis pipeline: downloading a video,
// sampling frames at a fixed interval, classifying each frame with the vision
// model, and filling the video's segment store. The Registry is the single
// enforcement point for "at most one active job per video".
package processing

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/codio-labs/codio-api/internal/services/segments"
	"github.com/codio-labs/codio-api/pkg/classifier"
	"github.com/codio-labs/codio-api/pkg/framesource"
)

const (
	DefaultFrameInterval = 2.0
	DefaultRetries       = 3
	DefaultRetryBackoff  = 500 * time.Millisecond
	DefaultGracePeriod   = 10 * time.Minute
)

// Config tunes the pipeline
type Config struct {
	FrameInterval     float64       // seconds between sampled frames
	ClassifierRetries int           // retries per frame on transient failures
	RetryBackoff      time.Duration // base backoff, doubled per attempt
	GracePeriod       time.Duration // how long terminal jobs stay in the registry
	KeepVideos        bool          // keep downloaded media after processing
}

// DefaultConfig returns the default pipeline configuration
func DefaultConfig() Config {
	return Config{
		FrameInterval:     DefaultFrameInterval,
		ClassifierRetries: DefaultRetries,
		RetryBackoff:      DefaultRetryBackoff,
		GracePeriod:       DefaultGracePeriod,
	}
}

// StartResult is returned from Start: either a pointer at the running (new or
// pre-existing) job, or an already-complete marker when the cache is warm.
type StartResult struct {
	VideoID         string
	Status          JobStatus
	AlreadyComplete bool
}

// Registry tracks processing jobs per video identifier and is their sole
// lifecycle mutator
type Registry struct {
	segments segments.Service
	source   framesource.FrameSource
	clf      classifier.Classifier
	cfg      Config

	mu   sync.Mutex
	jobs map[string]*Job
	wg   sync.WaitGroup
}

// NewRegistry creates a job registry
func NewRegistry(segmentService segments.Service, source framesource.FrameSource, clf classifier.Classifier, cfg Config) *Registry {
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = DefaultFrameInterval
	}
	if cfg.ClassifierRetries < 0 {
		cfg.ClassifierRetries = DefaultRetries
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = DefaultRetryBackoff
	}
	if cfg.GracePeriod <= 0 {
		cfg.GracePeriod = DefaultGracePeriod
	}

	return &Registry{
		segments: segmentService,
		source:   source,
		clf:      clf,
		cfg:      cfg,
		jobs:     make(map[string]*Job),
	}
}

// Start begins processing the video behind sourceURL. Idempotent: if a job is
// already active for the video the existing job is returned; if a completed
// cached analysis exists and force is false, no job is created at all.
func (r *Registry) Start(ctx context.Context, sourceURL string, force bool) (*StartResult, error) {
	if sourceURL == "" {
		return nil, fmt.Errorf("source URL cannot be empty")
	}

	videoID := framesource.VideoID(sourceURL)

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.jobs[videoID]; ok && existing.IsActive() {
		log.Printf("[DEBUG] Job already active for video %s (job %s)", videoID, existing.ID())
		return &StartResult{VideoID: videoID, Status: existing.Snapshot()}, nil
	}

	if !force {
		cached, err := r.segments.HasAnalysis(ctx, videoID)
		if err != nil {
			return nil, fmt.Errorf("checking cache for %s: %w", videoID, err)
		}
		if cached {
			return &StartResult{
				VideoID:         videoID,
				AlreadyComplete: true,
				Status: JobStatus{
					VideoID:  videoID,
					Status:   StatusCompleted,
					Progress: 100,
					Stage:    "Ready for pause-to-code",
				},
			}, nil
		}
	} else {
		if err := r.segments.Invalidate(ctx, videoID); err != nil {
			return nil, fmt.Errorf("invalidating cache for %s: %w", videoID, err)
		}
		delete(r.jobs, videoID)
	}

	job := newJob(videoID, sourceURL)
	r.jobs[videoID] = job

	store := r.segments.CreateStore(videoID)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.run(job, store)
		r.scheduleEviction(job)
	}()

	log.Printf("[DEBUG] Started job %s for video %s", job.ID(), videoID)
	return &StartResult{VideoID: videoID, Status: job.Snapshot()}, nil
}

// Status reports the current state of a video: its active or recently
// finished job, a completed cached analysis, or not_found
func (r *Registry) Status(ctx context.Context, videoID string) (JobStatus, error) {
	r.mu.Lock()
	job, ok := r.jobs[videoID]
	r.mu.Unlock()

	if ok {
		return job.Snapshot(), nil
	}

	cached, err := r.segments.HasAnalysis(ctx, videoID)
	if err != nil {
		return JobStatus{}, fmt.Errorf("checking cache for %s: %w", videoID, err)
	}
	if cached {
		return JobStatus{
			VideoID:  videoID,
			Status:   StatusCompleted,
			Progress: 100,
			Stage:    "Ready for pause-to-code",
		}, nil
	}

	return JobStatus{
		VideoID: videoID,
		Status:  StatusNotFound,
		Stage:   "Not started",
	}, nil
}

// Cancel requests cancellation of the active job for a video. Calling it with
// no active job is a no-op, not an error, and never touches cached results.
func (r *Registry) Cancel(videoID string) bool {
	r.mu.Lock()
	job, ok := r.jobs[videoID]
	r.mu.Unlock()

	if !ok || !job.IsActive() {
		return false
	}

	log.Printf("[DEBUG] Cancelling job %s for video %s", job.ID(), videoID)
	job.Cancel()
	return true
}

// ActiveJob returns the active job for a video if one exists
func (r *Registry) ActiveJob(videoID string) (*Job, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[videoID]
	if !ok || !job.IsActive() {
		return nil, false
	}
	return job, true
}

// Shutdown cancels all active jobs and waits for their pipelines to stop
func (r *Registry) Shutdown() {
	r.mu.Lock()
	for _, job := range r.jobs {
		job.Cancel()
	}
	r.mu.Unlock()

	r.wg.Wait()
}

// scheduleEviction drops a terminal job from the registry after the grace
// period, so status polls shortly after completion still see the outcome.
// A cancelled job keeps its partial in-memory store readable during that
// window; eviction releases it along with the job.
func (r *Registry) scheduleEviction(job *Job) {
	time.AfterFunc(r.cfg.GracePeriod, func() {
		r.mu.Lock()
		evicted := false
		if current, ok := r.jobs[job.VideoID()]; ok && current == job {
			delete(r.jobs, job.VideoID())
			evicted = true
		}
		r.mu.Unlock()

		if evicted && job.Snapshot().Status == StatusCancelled {
			r.segments.DropStore(job.VideoID())
		}
	})
}
