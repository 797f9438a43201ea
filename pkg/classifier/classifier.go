// Package classifier turns single video frames into structured verdicts about
// on-screen code, and derives programming concepts from transcript text, using
// a remote vision-language model. The Classifier interface is the seam test
// suites use to substitute deterministic stubs for the real model.
package classifier

import (
	"context"
	"errors"
)

// SegmentType describes what a frame shows
type SegmentType string

const (
	SegmentTypeCode     SegmentType = "code"
	SegmentTypeLearning SegmentType = "learning"
	SegmentTypeMixed    SegmentType = "mixed"
)

// Verdict is the structured result of classifying one frame
type Verdict struct {
	SegmentType   SegmentType `json:"segment_type"`
	HasCode       bool        `json:"has_code"`
	CodeContent   string      `json:"code_content,omitempty"`
	LearningTopic string      `json:"learning_topic,omitempty"`
	Confidence    float64     `json:"confidence"`
	Language      string      `json:"language,omitempty"`
	CodeComplete  bool        `json:"code_complete"`
}

// ConceptResult is one concept entry from a concept detection pass
type ConceptResult struct {
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Timestamps  []float64 `json:"timestamps"`
	Confidence  float64   `json:"confidence"`
	Description string    `json:"description,omitempty"`
}

// Classifier is the capability the processing pipeline requires from the
// vision model. Implementations are fallible and rate limited; callers own
// retry policy.
type Classifier interface {
	// ClassifyFrame analyzes one JPEG-encoded frame
	ClassifyFrame(ctx context.Context, frame []byte) (*Verdict, error)

	// DetectConcepts derives high-level programming concepts from a full
	// transcript plus optional code samples, in a single call
	DetectConcepts(ctx context.Context, transcript string, codeSamples []string) ([]ConceptResult, error)
}

// ErrTransient marks failures worth retrying: timeouts, rate limits,
// upstream 5xx. Check with errors.Is.
var ErrTransient = errors.New("transient classifier error")

// IsTransient reports whether err is worth retrying
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}
