package framesource

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Options configures the yt-dlp backed source
type Options struct {
	YTDLPPath  string        // yt-dlp binary
	FFmpegPath string        // ffmpeg binary, used for frame decoding
	VideoDir   string        // where downloaded videos land
	Timeout    time.Duration // per-download timeout
	SubLangs   string        // caption language preference, yt-dlp syntax
}

// DefaultOptions returns defaults matching a standard yt-dlp/ffmpeg install
func DefaultOptions() Options {
	return Options{
		YTDLPPath:  "yt-dlp",
		FFmpegPath: "ffmpeg",
		VideoDir:   "./codio_cache/videos",
		Timeout:    10 * time.Minute,
		SubLangs:   "en.*,en",
	}
}

// YTDLPSource implements FrameSource with yt-dlp for downloads and ffmpeg for
// single-frame decoding
type YTDLPSource struct {
	opts Options
}

// NewYTDLPSource creates a yt-dlp backed frame source
func NewYTDLPSource(opts Options) *YTDLPSource {
	if opts.YTDLPPath == "" {
		opts.YTDLPPath = "yt-dlp"
	}
	if opts.FFmpegPath == "" {
		opts.FFmpegPath = "ffmpeg"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Minute
	}
	return &YTDLPSource{opts: opts}
}

// ytdlpMetadata is the subset of yt-dlp --dump-json output we consume
type ytdlpMetadata struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Uploader string  `json:"uploader"`
	Duration float64 `json:"duration"`
}

// Fetch downloads the video and returns its local asset description
func (s *YTDLPSource) Fetch(ctx context.Context, url string) (*Asset, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	meta, err := s.metadata(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetching video metadata: %w", err)
	}

	videoID := VideoID(url)
	if meta.ID != "" {
		videoID = meta.ID
	}

	if err := os.MkdirAll(s.opts.VideoDir, 0755); err != nil {
		return nil, fmt.Errorf("creating video directory: %w", err)
	}

	outPath := filepath.Join(s.opts.VideoDir, videoID+".mp4")
	log.Printf("[DEBUG] Downloading %s to %s", url, outPath)

	cmd := exec.CommandContext(ctx, s.opts.YTDLPPath,
		"--format", "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best",
		"--merge-output-format", "mp4",
		"--no-playlist",
		"--no-warnings",
		"--output", outPath,
		url,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("yt-dlp download failed: %w: %s", err, tail(string(out), 300))
	}

	return &Asset{
		VideoID:   videoID,
		SourceURL: url,
		LocalPath: outPath,
		Title:     meta.Title,
		Duration:  meta.Duration,
		Author:    meta.Uploader,
	}, nil
}

// Frame seeks to the timestamp and decodes a single JPEG frame with ffmpeg
func (s *YTDLPSource) Frame(ctx context.Context, asset *Asset, timestamp float64) ([]byte, error) {
	if asset == nil || asset.LocalPath == "" {
		return nil, fmt.Errorf("asset not materialized")
	}
	if timestamp < 0 || (asset.Duration > 0 && timestamp > asset.Duration) {
		return nil, fmt.Errorf("timestamp %.2fs outside video duration %.2fs", timestamp, asset.Duration)
	}

	// -ss before -i makes ffmpeg seek on the demuxer, which is fast enough
	// to call once per sampled frame
	cmd := exec.CommandContext(ctx, s.opts.FFmpegPath,
		"-ss", strconv.FormatFloat(timestamp, 'f', 3, 64),
		"-i", asset.LocalPath,
		"-frames:v", "1",
		"-q:v", "2",
		"-f", "image2pipe",
		"-vcodec", "mjpeg",
		"-",
	)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg frame extraction at %.2fs failed: %w", timestamp, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no frame decoded at %.2fs", timestamp)
	}
	return out, nil
}

// Captions fetches the caption track as WebVTT, preferring manual subtitles
// over auto-generated ones
func (s *YTDLPSource) Captions(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	tmpDir, err := os.MkdirTemp("", "codio-subs-*")
	if err != nil {
		return "", fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	for _, subFlag := range []string{"--write-subs", "--write-auto-subs"} {
		cmd := exec.CommandContext(ctx, s.opts.YTDLPPath,
			"--skip-download",
			subFlag,
			"--sub-langs", s.opts.SubLangs,
			"--sub-format", "vtt",
			"--output", filepath.Join(tmpDir, "%(id)s"),
			"--no-warnings",
			url,
		)
		if err := cmd.Run(); err != nil {
			continue
		}

		matches, _ := filepath.Glob(filepath.Join(tmpDir, "*.vtt"))
		if len(matches) == 0 {
			continue
		}
		data, err := os.ReadFile(matches[0])
		if err != nil {
			return "", fmt.Errorf("reading caption file: %w", err)
		}
		return string(data), nil
	}

	return "", ErrNoCaptions
}

// Remove deletes the downloaded media file for an asset
func (s *YTDLPSource) Remove(asset *Asset) error {
	if asset == nil || asset.LocalPath == "" {
		return nil
	}
	if err := os.Remove(asset.LocalPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing video file: %w", err)
	}
	return nil
}

func (s *YTDLPSource) metadata(ctx context.Context, url string) (*ytdlpMetadata, error) {
	cmd := exec.CommandContext(ctx, s.opts.YTDLPPath,
		"--dump-json",
		"--no-download",
		"--no-playlist",
		"--no-warnings",
		url,
	)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("yt-dlp metadata failed: %w", err)
	}

	var meta ytdlpMetadata
	if err := json.Unmarshal(out, &meta); err != nil {
		return nil, fmt.Errorf("parsing yt-dlp output: %w", err)
	}
	return &meta, nil
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
