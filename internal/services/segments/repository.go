package segments

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

// NewRepository creates a new video analysis repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Upsert creates or replaces the analysis row keyed by video_id
func (r *repository) Upsert(ctx context.Context, analysis *models.VideoAnalysis) error {
	if analysis == nil {
		return errors.New("analysis cannot be nil")
	}
	if analysis.VideoID == "" {
		return errors.New("analysis video ID cannot be empty")
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "video_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"source_url", "title", "duration", "author",
			"total_frames_analyzed", "segments", "extraction_date", "updated_at",
		}),
	}).Create(analysis)

	return result.Error
}

// GetByVideoID returns the analysis for a video, or nil when absent
func (r *repository) GetByVideoID(ctx context.Context, videoID string) (*models.VideoAnalysis, error) {
	var analysis models.VideoAnalysis

	result := r.db.WithContext(ctx).Where("video_id = ?", videoID).First(&analysis)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return &analysis, nil
}

// Delete removes the analysis row for a video. Missing rows are not an error:
// invalidate must be idempotent.
func (r *repository) Delete(ctx context.Context, videoID string) error {
	result := r.db.WithContext(ctx).Unscoped().Where("video_id = ?", videoID).Delete(&models.VideoAnalysis{})
	return result.Error
}

// Exists reports whether an analysis row exists for a video
func (r *repository) Exists(ctx context.Context, videoID string) (bool, error) {
	var count int64

	result := r.db.WithContext(ctx).Model(&models.VideoAnalysis{}).Where("video_id = ?", videoID).Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

// List returns all analyses ordered by extraction date descending
func (r *repository) List(ctx context.Context) ([]models.VideoAnalysis, error) {
	var analyses []models.VideoAnalysis

	result := r.db.WithContext(ctx).Order("extraction_date DESC").Find(&analyses)
	if result.Error != nil {
		return nil, result.Error
	}

	return analyses, nil
}
