package transcripts

import "context"

// Entry is one caption cue: its start time, how long it stays on screen, and
// its text
type Entry struct {
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
	Text     string  `json:"text"`
}

// Match is one transcript search hit. MatchOffset and MatchLength locate the
// first occurrence of the query inside Text.
type Match struct {
	Start       float64 `json:"start"`
	Duration    float64 `json:"duration"`
	Text        string  `json:"text"`
	MatchOffset int     `json:"match_offset"`
	MatchLength int     `json:"match_length"`
}

// Service builds and queries per-video transcript indexes. Building is lazy:
// the first Search or Entries call for a video fetches and parses its caption
// track, and subsequent calls reuse the cached entries. A video with no
// caption track builds successfully into an empty index.
type Service interface {
	// Build ensures the transcript index for a video exists, fetching and
	// parsing the caption track if needed. Idempotent.
	Build(ctx context.Context, videoID, sourceURL string) error

	// Entries returns the cached transcript entries, building lazily
	Entries(ctx context.Context, videoID, sourceURL string) ([]Entry, error)

	// Search scans the transcript for query and returns every entry that
	// contains it. An empty query is an error; no matches is not.
	Search(ctx context.Context, videoID, sourceURL, query string, caseSensitive bool) ([]Match, error)

	// FullText returns the whole transcript joined into one string
	FullText(ctx context.Context, videoID, sourceURL string) (string, error)

	// Drop removes the cached index for a video
	Drop(videoID string)
}
