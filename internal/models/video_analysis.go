package models

import (
	"time"

	"gorm.io/gorm"
)

// VideoAnalysis is the durable cache record for one processed video: its
// metadata plus the full ordered segment collection. One row per video_id;
// save overwrites, invalidate deletes.
type VideoAnalysis struct {
	ID                  uint           `gorm:"primarykey" json:"id"`
	VideoID             string         `gorm:"uniqueIndex;not null" json:"video_id"`
	SourceURL           string         `json:"source_url"`
	Title               string         `json:"video_title"`
	Duration            float64        `json:"duration"`
	Author              string         `json:"author,omitempty"`
	TotalFramesAnalyzed int            `json:"total_frames_analyzed"`
	Segments            SegmentList    `gorm:"type:json" json:"code_segments"`
	ExtractionDate      time.Time      `json:"extraction_date"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for GORM
func (VideoAnalysis) TableName() string {
	return "video_analyses"
}

// CodeSegmentCount returns how many segments carry extracted code
func (v *VideoAnalysis) CodeSegmentCount() int {
	count := 0
	for i := range v.Segments {
		if v.Segments[i].HasCode() {
			count++
		}
	}
	return count
}
