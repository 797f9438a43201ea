package transcripts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codio-labs/codio-api/api/types"
	"github.com/codio-labs/codio-api/internal/database"
	"github.com/codio-labs/codio-api/internal/models"
	"github.com/codio-labs/codio-api/internal/services/segments"
	transcriptsService "github.com/codio-labs/codio-api/internal/services/transcripts"
	"github.com/codio-labs/codio-api/pkg/framesource"
)

const testVTT = `WEBVTT

00:00:01.000 --> 00:00:04.000
Welcome to this Python tutorial

00:00:04.000 --> 00:00:08.000
Today we cover for loops in depth
`

type vttSource struct {
	content string
}

func (s vttSource) Fetch(ctx context.Context, url string) (*framesource.Asset, error) {
	return nil, framesource.ErrNoCaptions
}

func (s vttSource) Frame(ctx context.Context, asset *framesource.Asset, ts float64) ([]byte, error) {
	return nil, framesource.ErrNoCaptions
}

func (s vttSource) Captions(ctx context.Context, url string) (string, error) {
	if s.content == "" {
		return "", framesource.ErrNoCaptions
	}
	return s.content, nil
}

func setupRouter(t *testing.T, source framesource.FrameSource) (*gin.Engine, *types.Dependencies) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Initialize(":memory:", false)
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })

	segSvc := segments.NewService(segments.NewRepository(db.DB))
	deps := &types.Dependencies{
		DB:                db,
		SegmentService:    segSvc,
		TranscriptService: transcriptsService.NewService(source),
	}

	router := gin.New()
	group := router.Group("/api/v1/videos")
	RegisterRoutes(group, deps)
	return router, deps
}

func persistAnalysis(t *testing.T, deps *types.Dependencies, videoID string) {
	t.Helper()
	require.NoError(t, deps.SegmentService.Persist(context.Background(), &models.VideoAnalysis{
		VideoID:        videoID,
		SourceURL:      "https://youtu.be/" + videoID,
		ExtractionDate: time.Now().UTC(),
	}))
}

func TestSearchFindsMatches(t *testing.T) {
	router, deps := setupRouter(t, vttSource{content: testVTT})
	persistAnalysis(t, deps, "vid1")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos/vid1/transcript/search?q=for+loops", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp types.TranscriptSearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "for loops", resp.Query)
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, 4.0, resp.Matches[0].Start)
}

func TestSearchNoMatches(t *testing.T) {
	router, deps := setupRouter(t, vttSource{content: testVTT})
	persistAnalysis(t, deps, "vid1")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos/vid1/transcript/search?q=rust", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp types.TranscriptSearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Count)
}

func TestSearchEmptyQuery(t *testing.T) {
	router, deps := setupRouter(t, vttSource{content: testVTT})
	persistAnalysis(t, deps, "vid1")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos/vid1/transcript/search", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchUnknownVideo(t *testing.T) {
	router, _ := setupRouter(t, vttSource{content: testVTT})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos/ghost/transcript/search?q=loops", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearchVideoWithoutCaptions(t *testing.T) {
	router, deps := setupRouter(t, vttSource{})
	persistAnalysis(t, deps, "vid1")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos/vid1/transcript/search?q=loops", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp types.TranscriptSearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Count)
}
