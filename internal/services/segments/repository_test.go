package segments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codio-labs/codio-api/internal/database"
	"github.com/codio-labs/codio-api/internal/models"
)

func newTestRepo(t *testing.T) Repository {
	t.Helper()

	db, err := database.Initialize(":memory:", false)
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(db.DB)
}

func sampleAnalysis(videoID string) *models.VideoAnalysis {
	return &models.VideoAnalysis{
		VideoID:             videoID,
		SourceURL:           "https://youtu.be/" + videoID,
		Title:               "Intro to Python",
		Duration:            10,
		TotalFramesAnalyzed: 6,
		Segments: models.SegmentList{
			{Timestamp: 0, FrameNumber: 0, SegmentType: models.SegmentTypeLearning, LearningTopic: "variables", Confidence: 0.8},
			{Timestamp: 2, FrameNumber: 1, SegmentType: models.SegmentTypeCode, CodeContent: "x = 1\nprint(x)", Confidence: 0.95, Language: "python", CodeComplete: true},
		},
		ExtractionDate: time.Now().UTC().Truncate(time.Second),
	}
}

func TestRepositoryRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	original := sampleAnalysis("vid-1")
	require.NoError(t, repo.Upsert(ctx, original))

	loaded, err := repo.GetByVideoID(ctx, "vid-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)

	// Every segment field survives the JSON column round trip
	require.Len(t, loaded.Segments, 2)
	assert.Equal(t, original.Segments[1].CodeContent, loaded.Segments[1].CodeContent)
	assert.Equal(t, original.Segments[1].Confidence, loaded.Segments[1].Confidence)
	assert.Equal(t, original.Segments[1].SegmentType, loaded.Segments[1].SegmentType)
	assert.Equal(t, original.Segments[1].CodeComplete, loaded.Segments[1].CodeComplete)
	assert.Equal(t, original.Segments[0].LearningTopic, loaded.Segments[0].LearningTopic)
	assert.Equal(t, original.Title, loaded.Title)
	assert.Equal(t, original.TotalFramesAnalyzed, loaded.TotalFramesAnalyzed)
}

func TestRepositoryUpsertReplaces(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, sampleAnalysis("vid-1")))

	updated := sampleAnalysis("vid-1")
	updated.Title = "Intro to Python (reprocessed)"
	updated.Segments = models.SegmentList{
		{Timestamp: 0, FrameNumber: 0, SegmentType: models.SegmentTypeCode, CodeContent: "pass"},
	}
	require.NoError(t, repo.Upsert(ctx, updated))

	loaded, err := repo.GetByVideoID(ctx, "vid-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "Intro to Python (reprocessed)", loaded.Title)
	require.Len(t, loaded.Segments, 1)

	// Still a single row per video
	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRepositoryGetMissingReturnsNil(t *testing.T) {
	repo := newTestRepo(t)

	loaded, err := repo.GetByVideoID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRepositoryExistsAndDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	exists, err := repo.Exists(ctx, "vid-1")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.Upsert(ctx, sampleAnalysis("vid-1")))

	exists, err = repo.Exists(ctx, "vid-1")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.Delete(ctx, "vid-1"))

	exists, err = repo.Exists(ctx, "vid-1")
	require.NoError(t, err)
	assert.False(t, exists)

	// Deleting again is a no-op
	require.NoError(t, repo.Delete(ctx, "vid-1"))
}

func TestRepositoryListNewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	older := sampleAnalysis("vid-old")
	older.ExtractionDate = time.Now().UTC().Add(-time.Hour)
	require.NoError(t, repo.Upsert(ctx, older))

	newer := sampleAnalysis("vid-new")
	newer.ExtractionDate = time.Now().UTC()
	require.NoError(t, repo.Upsert(ctx, newer))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "vid-new", all[0].VideoID)
	assert.Equal(t, "vid-old", all[1].VideoID)
}
