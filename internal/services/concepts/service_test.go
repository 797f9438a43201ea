package concepts

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/codio-labs/codio-api/internal/database"
	"github.com/codio-labs/codio-api/internal/models"
	"github.com/codio-labs/codio-api/internal/services/segments"
	"github.com/codio-labs/codio-api/internal/services/transcripts"
	"github.com/codio-labs/codio-api/pkg/classifier"
)

// stubTranscripts serves a fixed transcript text
type stubTranscripts struct {
	text string
	err  error
}

func (s *stubTranscripts) Build(ctx context.Context, videoID, sourceURL string) error { return s.err }

func (s *stubTranscripts) Entries(ctx context.Context, videoID, sourceURL string) ([]transcripts.Entry, error) {
	return nil, s.err
}

func (s *stubTranscripts) Search(ctx context.Context, videoID, sourceURL, query string, caseSensitive bool) ([]transcripts.Match, error) {
	return nil, s.err
}

func (s *stubTranscripts) FullText(ctx context.Context, videoID, sourceURL string) (string, error) {
	return s.text, s.err
}

func (s *stubTranscripts) Drop(videoID string) {}

// MockClassifier records concept detection calls
type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) ClassifyFrame(ctx context.Context, frame []byte) (*classifier.Verdict, error) {
	args := m.Called(ctx, frame)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*classifier.Verdict), args.Error(1)
}

func (m *MockClassifier) DetectConcepts(ctx context.Context, transcript string, codeSamples []string) ([]classifier.ConceptResult, error) {
	args := m.Called(ctx, transcript, codeSamples)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]classifier.ConceptResult), args.Error(1)
}

func newTestService(t *testing.T, transcriptText string, clf classifier.Classifier) (Service, segments.Service) {
	t.Helper()

	db, err := database.Initialize(":memory:", false)
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })

	segSvc := segments.NewService(segments.NewRepository(db.DB))
	svc := NewService(NewRepository(db.DB), &stubTranscripts{text: transcriptText}, segSvc, clf)
	return svc, segSvc
}

func TestDetectStoresNormalizedConcepts(t *testing.T) {
	clf := new(MockClassifier)
	clf.On("DetectConcepts", mock.Anything, "we cover loops today", mock.Anything).Return([]classifier.ConceptResult{
		{Name: "for loops", Category: "control_flow", Timestamps: []float64{12.5}, Confidence: 0.9, Description: "iteration"},
		{Name: "mystery", Category: "no_such_category", Confidence: 0.5},
		{Name: "", Category: "functions"},
	}, nil)

	svc, _ := newTestService(t, "we cover loops today", clf)

	concepts, err := svc.Detect(context.Background(), "vid-1", "https://youtu.be/vid-1")
	require.NoError(t, err)
	require.Len(t, concepts, 2)

	assert.Equal(t, "for loops", concepts[0].Name)
	assert.Equal(t, models.CategoryControlFlow, concepts[0].Category)

	// Unknown categories collapse to general; unnamed entries are dropped
	assert.Equal(t, "mystery", concepts[1].Name)
	assert.Equal(t, models.CategoryGeneral, concepts[1].Category)

	listed, err := svc.List(context.Background(), "vid-1")
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestDetectReplacesNotMerges(t *testing.T) {
	clf := new(MockClassifier)
	clf.On("DetectConcepts", mock.Anything, mock.Anything, mock.Anything).Return([]classifier.ConceptResult{
		{Name: "recursion", Category: "algorithms", Confidence: 0.8},
	}, nil).Once()
	clf.On("DetectConcepts", mock.Anything, mock.Anything, mock.Anything).Return([]classifier.ConceptResult{
		{Name: "generators", Category: "functions", Confidence: 0.7},
	}, nil).Once()

	svc, _ := newTestService(t, "some transcript", clf)
	ctx := context.Background()

	first, err := svc.Detect(ctx, "vid-1", "url")
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, "recursion", first[0].Name)

	second, err := svc.Detect(ctx, "vid-1", "url")
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "generators", second[0].Name)

	// The second run fully replaced the first
	listed, err := svc.List(ctx, "vid-1")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "generators", listed[0].Name)
}

func TestDetectPassesCodeSamples(t *testing.T) {
	clf := new(MockClassifier)
	clf.On("DetectConcepts", mock.Anything, mock.Anything, []string{"x = 1", "y = 2"}).Return([]classifier.ConceptResult{
		{Name: "variables", Category: "general", Confidence: 0.9},
	}, nil)

	svc, segSvc := newTestService(t, "transcript", clf)

	store := segSvc.CreateStore("vid-1")
	require.NoError(t, store.Append(models.Segment{Timestamp: 0, FrameNumber: 0, CodeContent: "x = 1"}))
	require.NoError(t, store.Append(models.Segment{Timestamp: 2, FrameNumber: 1, LearningTopic: "no code here"}))
	require.NoError(t, store.Append(models.Segment{Timestamp: 4, FrameNumber: 2, CodeContent: "y = 2"}))

	_, err := svc.Detect(context.Background(), "vid-1", "url")
	require.NoError(t, err)
	clf.AssertExpectations(t)
}

func TestDetectRequiresMaterial(t *testing.T) {
	clf := new(MockClassifier)
	svc, _ := newTestService(t, "", clf)

	_, err := svc.Detect(context.Background(), "vid-1", "url")
	assert.Error(t, err)
	clf.AssertNotCalled(t, "DetectConcepts")
}

func TestDetectClassifierFailure(t *testing.T) {
	clf := new(MockClassifier)
	clf.On("DetectConcepts", mock.Anything, mock.Anything, mock.Anything).Return(nil, fmt.Errorf("model offline"))

	svc, _ := newTestService(t, "transcript", clf)

	_, err := svc.Detect(context.Background(), "vid-1", "url")
	require.Error(t, err)

	// A failed run leaves no stored set behind
	listed, err := svc.List(context.Background(), "vid-1")
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestListWithoutDetection(t *testing.T) {
	svc, _ := newTestService(t, "transcript", new(MockClassifier))

	listed, err := svc.List(context.Background(), "never-detected")
	require.NoError(t, err)
	assert.NotNil(t, listed)
	assert.Empty(t, listed)
}
