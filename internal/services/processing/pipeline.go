package processing

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/codio-labs/codio-api/internal/models"
	"github.com/codio-labs/codio-api/internal/services/segments"
	"github.com/codio-labs/codio-api/pkg/classifier"
	"github.com/codio-labs/codio-api/pkg/framesource"
)

// run executes the full pipeline for one job: download, frame sampling,
// per-frame classification, and the final save. It is the only writer of the
// job's state and of the video's segment store.
func (r *Registry) run(job *Job, store *segments.Store) {
	ctx := job.ctx
	videoID := job.VideoID()

	job.update(StatusDownloading, 5, "Downloading video...")

	asset, err := r.source.Fetch(ctx, job.sourceURL)
	if err != nil {
		if job.Cancelled() {
			r.finishCancelled(job)
			return
		}
		log.Printf("[ERROR] Download failed for video %s: %v", videoID, err)
		r.segments.DropStore(videoID)
		job.finish(StatusFailed, 0, "Failed", err.Error())
		return
	}

	job.update(StatusDownloading, 15, "Extracting frames...")

	timestamps := sampleTimestamps(asset.Duration, r.cfg.FrameInterval)
	total := len(timestamps)
	job.setFrameCounts(0, total)
	job.update(StatusProcessing, 20, "Extracting frames...")

	for i, ts := range timestamps {
		if job.Cancelled() {
			r.finishCancelled(job)
			return
		}

		job.setFrameCounts(i+1, total)

		frame, err := r.source.Frame(ctx, asset, ts)
		if err != nil {
			if job.Cancelled() {
				r.finishCancelled(job)
				return
			}
			log.Printf("[ERROR] Frame extraction failed at %.2fs for video %s: %v", ts, videoID, err)
			continue
		}

		verdict, err := r.classifyWithRetry(ctx, frame)
		if err != nil {
			if job.Cancelled() {
				r.finishCancelled(job)
				return
			}
			log.Printf("[ERROR] Classification failed at %.2fs for video %s, skipping frame: %v", ts, videoID, err)
			continue
		}

		seg := models.Segment{
			Timestamp:     ts,
			FrameNumber:   i,
			SegmentType:   models.SegmentType(verdict.SegmentType),
			CodeContent:   verdict.CodeContent,
			LearningTopic: verdict.LearningTopic,
			Confidence:    verdict.Confidence,
			Language:      verdict.Language,
			CodeComplete:  verdict.CodeComplete,
		}
		if err := store.Append(seg); err != nil {
			log.Printf("[DEBUG] Skipping segment at %.2fs for video %s: %v", ts, videoID, err)
			continue
		}

		progress := 20 + int(math.Floor(float64(i+1)/float64(total)*75))
		job.update(StatusProcessing, progress, fmt.Sprintf("Analyzing frame %d/%d", i+1, total))
	}

	if job.Cancelled() {
		r.finishCancelled(job)
		return
	}

	job.update(StatusProcessing, 95, "Saving analysis...")

	analysis := &models.VideoAnalysis{
		VideoID:             videoID,
		SourceURL:           asset.SourceURL,
		Title:               asset.Title,
		Duration:            asset.Duration,
		Author:              asset.Author,
		TotalFramesAnalyzed: total,
		Segments:            models.SegmentList(store.Snapshot()),
		ExtractionDate:      time.Now().UTC(),
	}

	// Save uses a fresh context: the job's context being cancelled after this
	// point must not lose a fully computed analysis.
	saveCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := r.segments.Persist(saveCtx, analysis); err != nil {
		log.Printf("[ERROR] Failed to save analysis for video %s: %v", videoID, err)
		r.segments.DropStore(videoID)
		job.finish(StatusFailed, 95, "Failed", err.Error())
		return
	}

	r.cleanupAsset(asset)
	r.segments.DropStore(videoID)

	log.Printf("[DEBUG] Completed analysis for video %s (%d frames, %d code segments)",
		videoID, total, analysis.CodeSegmentCount())
	job.finish(StatusCompleted, 100, "Completed!", "")
}

// finishCancelled marks the job cancelled. Segments already appended stay
// readable in the in-memory store until the job is evicted; nothing is
// persisted.
func (r *Registry) finishCancelled(job *Job) {
	log.Printf("[DEBUG] Job %s cancelled for video %s", job.ID(), job.VideoID())
	job.finish(StatusCancelled, job.Snapshot().Progress, "Cancelled", "")
}

// classifyWithRetry calls the classifier with exponential backoff on
// transient failures. Permanent failures return immediately.
func (r *Registry) classifyWithRetry(ctx context.Context, frame []byte) (*classifier.Verdict, error) {
	backoff := r.cfg.RetryBackoff

	var lastErr error
	for attempt := 0; attempt <= r.cfg.ClassifierRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		verdict, err := r.clf.ClassifyFrame(ctx, frame)
		if err == nil {
			return verdict, nil
		}
		lastErr = err

		if !classifier.IsTransient(err) {
			return nil, err
		}
		log.Printf("[DEBUG] Transient classifier error (attempt %d/%d): %v", attempt+1, r.cfg.ClassifierRetries+1, err)
	}

	return nil, lastErr
}

// cleanupAsset removes the downloaded media unless configured to keep it
func (r *Registry) cleanupAsset(asset *framesource.Asset) {
	if r.cfg.KeepVideos {
		return
	}
	remover, ok := r.source.(interface{ Remove(*framesource.Asset) error })
	if !ok {
		return
	}
	if err := remover.Remove(asset); err != nil {
		log.Printf("[DEBUG] Failed to remove video file for %s: %v", asset.VideoID, err)
	}
}

// sampleTimestamps returns the frame sampling grid: every interval seconds
// from zero through the video duration, endpoints included
func sampleTimestamps(duration, interval float64) []float64 {
	if duration < 0 || interval <= 0 {
		return nil
	}
	var out []float64
	for ts := 0.0; ts <= duration+1e-9; ts += interval {
		out = append(out, ts)
	}
	return out
}
