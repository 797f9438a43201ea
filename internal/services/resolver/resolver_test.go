package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/codio-labs/codio-api/internal/models"
	"github.com/codio-labs/codio-api/internal/services/segments"
	apperrors "github.com/codio-labs/codio-api/pkg/errors"
)

// MockSegmentService stubs the segment read path
type MockSegmentService struct {
	mock.Mock
}

func (m *MockSegmentService) CreateStore(videoID string) *segments.Store {
	args := m.Called(videoID)
	return args.Get(0).(*segments.Store)
}

func (m *MockSegmentService) GetStore(videoID string) (*segments.Store, bool) {
	args := m.Called(videoID)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*segments.Store), args.Bool(1)
}

func (m *MockSegmentService) DropStore(videoID string) {
	m.Called(videoID)
}

func (m *MockSegmentService) Segments(ctx context.Context, videoID string) ([]models.Segment, bool, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]models.Segment), args.Bool(1), args.Error(2)
}

func (m *MockSegmentService) Load(ctx context.Context, videoID string) (*models.VideoAnalysis, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VideoAnalysis), args.Error(1)
}

func (m *MockSegmentService) Persist(ctx context.Context, analysis *models.VideoAnalysis) error {
	args := m.Called(ctx, analysis)
	return args.Error(0)
}

func (m *MockSegmentService) HasAnalysis(ctx context.Context, videoID string) (bool, error) {
	args := m.Called(ctx, videoID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSegmentService) Invalidate(ctx context.Context, videoID string) error {
	args := m.Called(ctx, videoID)
	return args.Error(0)
}

func (m *MockSegmentService) ListAnalyses(ctx context.Context) ([]models.VideoAnalysis, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.VideoAnalysis), args.Error(1)
}

func serviceWithSegments(segs []models.Segment) Service {
	svc := new(MockSegmentService)
	svc.On("Segments", mock.Anything, "vid-1").Return(segs, true, nil)
	return NewService(svc)
}

var testSegments = []models.Segment{
	{Timestamp: 0, FrameNumber: 0, SegmentType: models.SegmentTypeLearning, LearningTopic: "intro"},
	{Timestamp: 2, FrameNumber: 1, SegmentType: models.SegmentTypeCode, CodeContent: "x = 1", Confidence: 0.9},
	{Timestamp: 4, FrameNumber: 2, SegmentType: models.SegmentTypeLearning, LearningTopic: "loops"},
	{Timestamp: 6, FrameNumber: 3, SegmentType: models.SegmentTypeCode, CodeContent: "for i in range(3):", Confidence: 0.7},
	{Timestamp: 10, FrameNumber: 5, SegmentType: models.SegmentTypeCode, CodeContent: "print(i)", Confidence: 0.95},
}

func TestResolveExactMatch(t *testing.T) {
	svc := serviceWithSegments(testSegments)

	result, err := svc.Resolve(context.Background(), "vid-1", 6.0, 2.0)
	require.NoError(t, err)
	assert.Equal(t, KindMatched, result.Kind)
	assert.Equal(t, 6.0, result.TimestampActual)
	assert.Equal(t, 0.0, result.TimeDifference)
	assert.Equal(t, "for i in range(3):", result.Segment.CodeContent)
}

func TestResolveZeroToleranceExactMatch(t *testing.T) {
	svc := serviceWithSegments(testSegments)

	result, err := svc.Resolve(context.Background(), "vid-1", 2.0, 0)
	require.NoError(t, err)
	assert.Equal(t, KindMatched, result.Kind)
	assert.Equal(t, 0.0, result.TimeDifference)

	// Zero tolerance misses anything off the grid
	result, err = svc.Resolve(context.Background(), "vid-1", 2.5, 0)
	require.NoError(t, err)
	assert.Equal(t, KindNoMatch, result.Kind)
}

func TestResolveMatchesNearestRegardlessOfKind(t *testing.T) {
	svc := serviceWithSegments(testSegments)

	// 4.0 lands on a learning segment; it wins over the code segments at
	// 2.0 and 6.0 because it is closer
	result, err := svc.Resolve(context.Background(), "vid-1", 4.0, 2.0)
	require.NoError(t, err)
	assert.Equal(t, KindMatched, result.Kind)
	assert.Equal(t, 4.0, result.TimestampActual)
	assert.False(t, result.Segment.HasCode())
	assert.Equal(t, "loops", result.Segment.LearningTopic)
}

func TestResolveLearningOnlyStoreMatches(t *testing.T) {
	svc := serviceWithSegments([]models.Segment{
		{Timestamp: 4, FrameNumber: 2, SegmentType: models.SegmentTypeLearning, LearningTopic: "recursion"},
	})

	result, err := svc.Resolve(context.Background(), "vid-1", 4.3, 1.0)
	require.NoError(t, err)
	assert.Equal(t, KindMatched, result.Kind)
	assert.Equal(t, 4.0, result.TimestampActual)
	assert.InDelta(t, 0.3, result.TimeDifference, 1e-9)
	assert.Equal(t, models.SegmentTypeLearning, result.Segment.SegmentType)
}

func TestResolveTieBreakPrefersLater(t *testing.T) {
	svc := serviceWithSegments(testSegments)

	// 8.0 is equidistant from the code segments at 6.0 and 10.0
	result, err := svc.Resolve(context.Background(), "vid-1", 8.0, 2.0)
	require.NoError(t, err)
	assert.Equal(t, KindMatched, result.Kind)
	assert.Equal(t, 10.0, result.TimestampActual)
}

func TestResolveClosestWinsRegardlessOfConfidence(t *testing.T) {
	svc := serviceWithSegments(testSegments)

	// 7.0 is closer to the 0.7-confidence segment at 6.0 than the
	// 0.95-confidence one at 10.0
	result, err := svc.Resolve(context.Background(), "vid-1", 7.0, 4.0)
	require.NoError(t, err)
	assert.Equal(t, 6.0, result.TimestampActual)
	assert.Equal(t, 1.0, result.TimeDifference)
}

func TestResolveNoMatchOutsideTolerance(t *testing.T) {
	svc := serviceWithSegments(testSegments)

	result, err := svc.Resolve(context.Background(), "vid-1", 20.0, 2.0)
	require.NoError(t, err)
	assert.Equal(t, KindNoMatch, result.Kind)
	assert.Nil(t, result.Segment)
}

func TestResolveUnknownVideo(t *testing.T) {
	segSvc := new(MockSegmentService)
	segSvc.On("Segments", mock.Anything, "missing").Return(nil, false, nil)
	svc := NewService(segSvc)

	result, err := svc.Resolve(context.Background(), "missing", 5.0, 2.0)
	require.NoError(t, err)
	assert.Equal(t, KindUnavailable, result.Kind)
}

func TestResolveRejectsNegativeTolerance(t *testing.T) {
	svc := serviceWithSegments(testSegments)

	_, err := svc.Resolve(context.Background(), "vid-1", 5.0, -1.0)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeValidation))
}

func TestResolveRejectsNegativeTimestamp(t *testing.T) {
	svc := serviceWithSegments(testSegments)

	_, err := svc.Resolve(context.Background(), "vid-1", -5.0, 2.0)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeValidation))
}

func TestResolveEmptyAnalyzedVideo(t *testing.T) {
	// Analyzed but yielded no segments at all: no_match, not unavailable
	svc := serviceWithSegments([]models.Segment{})

	result, err := svc.Resolve(context.Background(), "vid-1", 5.0, 2.0)
	require.NoError(t, err)
	assert.Equal(t, KindNoMatch, result.Kind)
}
