package processing

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of a video processing job
type Status string

const (
	StatusNotFound    Status = "not_found"
	StatusDownloading Status = "downloading"
	StatusProcessing  Status = "processing"
	StatusCompleted   Status = "completed"
	StatusFailed      Status = "failed"
	StatusCancelled   Status = "cancelled"
)

// IsTerminal reports whether the status is a terminal state
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// JobStatus is a point-in-time snapshot of a job, safe to hand to callers
type JobStatus struct {
	JobID        string    `json:"job_id,omitempty"`
	VideoID      string    `json:"video_id"`
	Status       Status    `json:"status"`
	Progress     int       `json:"progress"` // 0-100
	Stage        string    `json:"stage"`
	CurrentFrame int       `json:"current_frame,omitempty"`
	TotalFrames  int       `json:"total_frames,omitempty"`
	StartedAt    time.Time `json:"started_at,omitempty"`
	Error        string    `json:"error,omitempty"`
}

// Job is one video's processing task. The registry is the sole creator;
// the pipeline goroutine is the sole writer of its state.
type Job struct {
	id        string
	videoID   string
	sourceURL string
	startedAt time.Time

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu           sync.RWMutex
	status       Status
	progress     int
	stage        string
	currentFrame int
	totalFrames  int
	errMsg       string
}

func newJob(videoID, sourceURL string) *Job {
	ctx, cancel := context.WithCancel(context.Background())
	return &Job{
		id:        uuid.NewString(),
		videoID:   videoID,
		sourceURL: sourceURL,
		startedAt: time.Now().UTC(),
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
		status:    StatusDownloading,
		stage:     "Downloading video...",
	}
}

// ID returns the job handle identifier
func (j *Job) ID() string { return j.id }

// VideoID returns the video this job processes
func (j *Job) VideoID() string { return j.videoID }

// SourceURL returns the URL the job was started with
func (j *Job) SourceURL() string { return j.sourceURL }

// Done is closed once the job reaches a terminal state
func (j *Job) Done() <-chan struct{} { return j.done }

// Cancel requests cooperative cancellation. The pipeline notices before the
// next frame; an in-flight classifier call is allowed to finish and its
// result discarded.
func (j *Job) Cancel() {
	j.cancel()
}

// Cancelled reports whether cancellation has been requested
func (j *Job) Cancelled() bool {
	return j.ctx.Err() != nil
}

// Snapshot returns the current state of the job
func (j *Job) Snapshot() JobStatus {
	j.mu.RLock()
	defer j.mu.RUnlock()

	return JobStatus{
		JobID:        j.id,
		VideoID:      j.videoID,
		Status:       j.status,
		Progress:     j.progress,
		Stage:        j.stage,
		CurrentFrame: j.currentFrame,
		TotalFrames:  j.totalFrames,
		StartedAt:    j.startedAt,
		Error:        j.errMsg,
	}
}

// IsActive reports whether the job has not yet reached a terminal state
func (j *Job) IsActive() bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return !j.status.IsTerminal()
}

// update advances status, progress and stage. Progress never moves backwards:
// successive status polls must observe a non-decreasing value.
func (j *Job) update(status Status, progress int, stage string) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.status.IsTerminal() {
		return
	}
	j.status = status
	if progress > j.progress {
		j.progress = progress
	}
	if stage != "" {
		j.stage = stage
	}
}

func (j *Job) setFrameCounts(current, total int) {
	j.mu.Lock()
	j.currentFrame = current
	j.totalFrames = total
	j.mu.Unlock()
}

// finish moves the job into a terminal state exactly once
func (j *Job) finish(status Status, progress int, stage, errMsg string) {
	j.mu.Lock()
	if j.status.IsTerminal() {
		j.mu.Unlock()
		return
	}
	j.status = status
	if progress > j.progress {
		j.progress = progress
	}
	j.stage = stage
	j.errMsg = errMsg
	j.mu.Unlock()

	j.cancel()
	close(j.done)
}
