package types

import (
	"github.com/codio-labs/codio-api/internal/models"
	"github.com/codio-labs/codio-api/internal/services/transcripts"
)

// ErrorResponse is the standard error payload
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ProcessRequest starts video processing
type ProcessRequest struct {
	URL   string `json:"youtube_url" binding:"required"`
	Force bool   `json:"force_reprocess"`
}

// ProcessResponse reports the job created (or found) for a video
type ProcessResponse struct {
	VideoID  string `json:"video_id"`
	JobID    string `json:"job_id,omitempty"`
	Status   string `json:"status"`
	Progress int    `json:"progress"`
	Stage    string `json:"stage"`
	Cached   bool   `json:"cached"`
}

// StatusResponse reports processing state for a video
type StatusResponse struct {
	VideoID      string `json:"video_id"`
	JobID        string `json:"job_id,omitempty"`
	Status       string `json:"status"`
	Progress     int    `json:"progress"`
	Stage        string `json:"stage"`
	CurrentFrame int    `json:"current_frame,omitempty"`
	TotalFrames  int    `json:"total_frames,omitempty"`
	Error        string `json:"error,omitempty"`
}

// CancelResponse reports the outcome of a cancellation request
type CancelResponse struct {
	VideoID   string `json:"video_id"`
	Cancelled bool   `json:"cancelled"`
	Message   string `json:"message"`
}

// CodeResponse is the pause-to-code resolution payload
type CodeResponse struct {
	VideoID            string  `json:"video_id"`
	Found              bool    `json:"found"`
	Reason             string  `json:"reason,omitempty"`
	TimestampRequested float64 `json:"timestamp_requested"`
	TimestampActual    float64 `json:"timestamp_actual,omitempty"`
	TimeDifference     float64 `json:"time_difference,omitempty"`
	SegmentType        string  `json:"segment_type,omitempty"`
	CodeContent        string  `json:"code_content,omitempty"`
	Language           string  `json:"language,omitempty"`
	CodeComplete       bool    `json:"code_complete,omitempty"`
	LearningTopic      string  `json:"learning_topic,omitempty"`
	Confidence         float64 `json:"confidence,omitempty"`
}

// SegmentsResponse lists a video's extracted segments
type SegmentsResponse struct {
	VideoID  string           `json:"video_id"`
	Count    int              `json:"count"`
	Segments []models.Segment `json:"segments"`
}

// VideoInfoResponse summarizes a cached analysis
type VideoInfoResponse struct {
	VideoID             string  `json:"video_id"`
	Title               string  `json:"video_title"`
	SourceURL           string  `json:"source_url"`
	Duration            float64 `json:"duration"`
	Author              string  `json:"author,omitempty"`
	TotalFramesAnalyzed int     `json:"total_frames_analyzed"`
	CodeSegmentCount    int     `json:"code_segment_count"`
	ExtractionDate      string  `json:"extraction_date"`
}

// VideoListResponse lists all cached analyses
type VideoListResponse struct {
	Count  int                 `json:"count"`
	Videos []VideoInfoResponse `json:"videos"`
}

// TranscriptSearchResponse lists transcript search hits
type TranscriptSearchResponse struct {
	VideoID string             `json:"video_id"`
	Query   string             `json:"query"`
	Count   int                `json:"count"`
	Matches []transcripts.Match `json:"matches"`
}

// ConceptsResponse lists a video's detected concepts
type ConceptsResponse struct {
	VideoID  string           `json:"video_id"`
	Count    int              `json:"count"`
	Concepts []models.Concept `json:"concepts"`
}
