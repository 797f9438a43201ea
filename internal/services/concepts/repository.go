package concepts

import (
	"context"
	"errors"

	"github.com/codio-labs/codio-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// repository implements Repository using GORM
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new concept set repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Upsert creates or replaces the concept set row keyed by video_id
func (r *repository) Upsert(ctx context.Context, set *models.ConceptSet) error {
	if set == nil {
		return errors.New("concept set cannot be nil")
	}
	if set.VideoID == "" {
		return errors.New("concept set video ID cannot be empty")
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "video_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"concepts", "detected_at", "updated_at",
		}),
	}).Create(set)

	return result.Error
}

// GetByVideoID returns the concept set for a video, or nil when absent
func (r *repository) GetByVideoID(ctx context.Context, videoID string) (*models.ConceptSet, error) {
	var set models.ConceptSet

	result := r.db.WithContext(ctx).Where("video_id = ?", videoID).First(&set)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return &set, nil
}

// Delete removes the concept set row for a video
func (r *repository) Delete(ctx context.Context, videoID string) error {
	result := r.db.WithContext(ctx).Unscoped().Where("video_id = ?", videoID).Delete(&models.ConceptSet{})
	return result.Error
}
