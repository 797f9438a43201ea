// Package framesource materializes YouTube videos locally and decodes single
// frames on demand. The pipeline treats it as a black box: given a URL it
// produces an Asset, and given an Asset plus a timestamp it produces one JPEG
// frame. The FrameSource interface exists so pipeline tests can run against a
// deterministic stub instead of yt-dlp and ffmpeg.
package framesource

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"strings"
)

// Asset describes a locally materialized video
type Asset struct {
	VideoID   string
	SourceURL string
	LocalPath string
	Title     string
	Duration  float64 // seconds
	Author    string
}

// FrameSource is the capability the processing pipeline requires for media access
type FrameSource interface {
	// Fetch downloads the video behind url and reports its metadata
	Fetch(ctx context.Context, url string) (*Asset, error)

	// Frame decodes and returns one JPEG frame at the given timestamp
	Frame(ctx context.Context, asset *Asset, timestamp float64) ([]byte, error)

	// Captions returns the video's caption track as WebVTT text.
	// Returns ErrNoCaptions when the video has no caption track.
	Captions(ctx context.Context, url string) (string, error)
}

// ErrNoCaptions indicates the video legitimately has no caption track.
// It is an expected outcome, not a failure.
var ErrNoCaptions = errors.New("no captions available")

// VideoID derives a stable identifier from a YouTube URL. Watch URLs and
// youtu.be short links yield the YouTube video ID; anything else hashes the
// whole URL so arbitrary sources still get a deterministic key.
func VideoID(url string) string {
	if idx := strings.Index(url, "youtu.be/"); idx >= 0 {
		id := url[idx+len("youtu.be/"):]
		if q := strings.IndexAny(id, "?&"); q >= 0 {
			id = id[:q]
		}
		if id != "" {
			return id
		}
	}
	if idx := strings.Index(url, "v="); idx >= 0 {
		id := url[idx+len("v="):]
		if q := strings.IndexByte(id, '&'); q >= 0 {
			id = id[:q]
		}
		if id != "" {
			return id
		}
	}
	sum := md5.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}
