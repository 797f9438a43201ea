package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// ConceptCategory groups detected programming concepts
type ConceptCategory string

const (
	CategoryControlFlow    ConceptCategory = "control_flow"
	CategoryDataStructures ConceptCategory = "data_structures"
	CategoryFunctions      ConceptCategory = "functions"
	CategoryObjectOriented ConceptCategory = "object_oriented"
	CategoryAlgorithms     ConceptCategory = "algorithms"
	CategoryErrorHandling  ConceptCategory = "error_handling"
	CategoryFileOperations ConceptCategory = "file_operations"
	CategoryModules        ConceptCategory = "modules"
	CategoryGeneral        ConceptCategory = "general"
)

// NormalizeCategory maps arbitrary model output onto a known category,
// falling back to general
func NormalizeCategory(raw string) ConceptCategory {
	switch ConceptCategory(raw) {
	case CategoryControlFlow, CategoryDataStructures, CategoryFunctions,
		CategoryObjectOriented, CategoryAlgorithms, CategoryErrorHandling,
		CategoryFileOperations, CategoryModules, CategoryGeneral:
		return ConceptCategory(raw)
	default:
		return CategoryGeneral
	}
}

// Concept is a named programming topic inferred from a video's transcript
// and code segments, with the timestamps where it appears
type Concept struct {
	Name        string          `json:"name"`
	Category    ConceptCategory `json:"category"`
	Timestamps  []float64       `json:"timestamps"`
	Confidence  float64         `json:"confidence"`
	Description string          `json:"description,omitempty"`
}

// ConceptList is the JSON-column representation of a video's concept set
type ConceptList []Concept

// Value implements driver.Valuer for ConceptList
func (l ConceptList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for ConceptList
func (l *ConceptList) Scan(value interface{}) error {
	if value == nil {
		*l = ConceptList{}
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

// ConceptSet is the durable record of the most recent concept detection for a
// video. Detection replaces the whole row's concepts; it never merges.
type ConceptSet struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	VideoID    string         `gorm:"uniqueIndex;not null" json:"video_id"`
	Concepts   ConceptList    `gorm:"type:json" json:"concepts"`
	DetectedAt time.Time      `json:"detected_at"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for GORM
func (ConceptSet) TableName() string {
	return "concept_sets"
}
