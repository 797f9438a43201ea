package concepts

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/codio-labs/codio-api/internal/models"
	"github.com/codio-labs/codio-api/internal/services/segments"
	"github.com/codio-labs/codio-api/internal/services/transcripts"
	"github.com/codio-labs/codio-api/pkg/classifier"
)

type service struct {
	repo        Repository
	transcripts transcripts.Service
	segments    segments.Service
	clf         classifier.Classifier
}

// NewService creates a concept detection service
func NewService(repo Repository, transcriptService transcripts.Service, segmentService segments.Service, clf classifier.Classifier) Service {
	return &service{
		repo:        repo,
		transcripts: transcriptService,
		segments:    segmentService,
		clf:         clf,
	}
}

// Detect runs one classifier pass over the video's transcript and extracted
// code, then replaces the stored concept set with the result
func (s *service) Detect(ctx context.Context, videoID, sourceURL string) ([]models.Concept, error) {
	transcript, err := s.transcripts.FullText(ctx, videoID, sourceURL)
	if err != nil {
		return nil, fmt.Errorf("building transcript for %s: %w", videoID, err)
	}

	segs, found, err := s.segments.Segments(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("loading segments for %s: %w", videoID, err)
	}

	var codeSamples []string
	if found {
		for i := range segs {
			if segs[i].HasCode() {
				codeSamples = append(codeSamples, segs[i].CodeContent)
			}
		}
	}

	if transcript == "" && len(codeSamples) == 0 {
		return nil, fmt.Errorf("video %s has no transcript or code segments to analyze", videoID)
	}

	results, err := s.clf.DetectConcepts(ctx, transcript, codeSamples)
	if err != nil {
		return nil, fmt.Errorf("detecting concepts for %s: %w", videoID, err)
	}

	concepts := make(models.ConceptList, 0, len(results))
	for _, res := range results {
		if res.Name == "" {
			continue
		}
		concepts = append(concepts, models.Concept{
			Name:        res.Name,
			Category:    models.NormalizeCategory(res.Category),
			Timestamps:  res.Timestamps,
			Confidence:  res.Confidence,
			Description: res.Description,
		})
	}

	set := &models.ConceptSet{
		VideoID:    videoID,
		Concepts:   concepts,
		DetectedAt: time.Now().UTC(),
	}
	if err := s.repo.Upsert(ctx, set); err != nil {
		return nil, fmt.Errorf("saving concepts for %s: %w", videoID, err)
	}

	log.Printf("[DEBUG] Detected %d concepts for video %s", len(concepts), videoID)
	return concepts, nil
}

// List returns the stored concept set, empty when detection has never run
func (s *service) List(ctx context.Context, videoID string) ([]models.Concept, error) {
	set, err := s.repo.GetByVideoID(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("loading concepts for %s: %w", videoID, err)
	}
	if set == nil {
		return []models.Concept{}, nil
	}
	return set.Concepts, nil
}
