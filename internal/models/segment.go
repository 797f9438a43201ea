package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// SegmentType categorizes what a sampled frame shows
type SegmentType string

const (
	SegmentTypeCode     SegmentType = "code"
	SegmentTypeLearning SegmentType = "learning"
	SegmentTypeMixed    SegmentType = "mixed"
)

// Segment is one classified frame's extracted result at a timestamp.
// Immutable once created; owned by its video's segment store.
type Segment struct {
	Timestamp     float64     `json:"timestamp"`
	FrameNumber   int         `json:"frame_number"`
	SegmentType   SegmentType `json:"segment_type"`
	CodeContent   string      `json:"code_content,omitempty"`
	LearningTopic string      `json:"learning_topic,omitempty"`
	Confidence    float64     `json:"confidence"`
	Language      string      `json:"language,omitempty"`
	CodeComplete  bool        `json:"code_complete"`
}

// HasCode reports whether the segment carries extracted code text
func (s *Segment) HasCode() bool {
	return s.CodeContent != ""
}

// SegmentList is the JSON-column representation of a video's ordered segments
type SegmentList []Segment

// Value implements driver.Valuer for SegmentList
func (l SegmentList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for SegmentList
func (l *SegmentList) Scan(value interface{}) error {
	if value == nil {
		*l = SegmentList{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			bytes = []byte(s)
		} else {
			return errors.New("type assertion to []byte failed")
		}
	}

	return json.Unmarshal(bytes, l)
}
