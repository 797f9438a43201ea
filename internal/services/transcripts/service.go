package transcripts

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/codio-labs/codio-api/pkg/framesource"
)

type service struct {
	source framesource.FrameSource

	mu      sync.RWMutex
	indexes map[string][]Entry
}

// NewService creates a transcript service backed by the given frame source
func NewService(source framesource.FrameSource) Service {
	return &service{
		source:  source,
		indexes: make(map[string][]Entry),
	}
}

func (s *service) Build(ctx context.Context, videoID, sourceURL string) error {
	_, err := s.ensure(ctx, videoID, sourceURL)
	return err
}

func (s *service) Entries(ctx context.Context, videoID, sourceURL string) ([]Entry, error) {
	return s.ensure(ctx, videoID, sourceURL)
}

func (s *service) Search(ctx context.Context, videoID, sourceURL, query string, caseSensitive bool) ([]Match, error) {
	if query == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}

	entries, err := s.ensure(ctx, videoID, sourceURL)
	if err != nil {
		return nil, err
	}

	matches := []Match{}
	for _, entry := range entries {
		var offset, length int
		if caseSensitive {
			offset = strings.Index(entry.Text, query)
			length = len(query)
		} else {
			offset, length = indexFold(entry.Text, query)
		}
		if offset < 0 {
			continue
		}
		matches = append(matches, Match{
			Start:       entry.Start,
			Duration:    entry.Duration,
			Text:        entry.Text,
			MatchOffset: offset,
			MatchLength: length,
		})
	}

	return matches, nil
}

// indexFold reports the byte offset and length of the first case-insensitive
// occurrence of query in text, or (-1, 0). Both refer to text itself rather
// than a lowercased copy, so runes whose case pair has a different byte
// length cannot skew them.
func indexFold(text, query string) (int, int) {
	queryRunes := []rune(query)
	for start := 0; start < len(text); {
		end := start
		matched := true
		for _, q := range queryRunes {
			r, size := utf8.DecodeRuneInString(text[end:])
			if size == 0 || !runeEqualFold(r, q) {
				matched = false
				break
			}
			end += size
		}
		if matched {
			return start, end - start
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		start += size
	}
	return -1, 0
}

func runeEqualFold(a, b rune) bool {
	if a == b {
		return true
	}
	for r := unicode.SimpleFold(a); r != a; r = unicode.SimpleFold(r) {
		if r == b {
			return true
		}
	}
	return false
}

func (s *service) FullText(ctx context.Context, videoID, sourceURL string) (string, error) {
	entries, err := s.ensure(ctx, videoID, sourceURL)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(entries))
	for _, entry := range entries {
		parts = append(parts, entry.Text)
	}
	return strings.Join(parts, " "), nil
}

func (s *service) Drop(videoID string) {
	s.mu.Lock()
	delete(s.indexes, videoID)
	s.mu.Unlock()
}

// ensure returns the cached index for a video, building it on first use.
// A video without captions caches an empty index rather than failing.
func (s *service) ensure(ctx context.Context, videoID, sourceURL string) ([]Entry, error) {
	s.mu.RLock()
	entries, ok := s.indexes[videoID]
	s.mu.RUnlock()
	if ok {
		return entries, nil
	}

	content, err := s.source.Captions(ctx, sourceURL)
	if err != nil {
		if errors.Is(err, framesource.ErrNoCaptions) {
			log.Printf("[DEBUG] No captions available for video %s", videoID)
			content = ""
		} else {
			return nil, fmt.Errorf("fetching captions for %s: %w", videoID, err)
		}
	}

	entries = parseVTT(content)
	if entries == nil {
		entries = []Entry{}
	}

	s.mu.Lock()
	// Another caller may have built concurrently; first build wins
	if existing, ok := s.indexes[videoID]; ok {
		entries = existing
	} else {
		s.indexes[videoID] = entries
	}
	s.mu.Unlock()

	log.Printf("[DEBUG] Built transcript index for video %s (%d entries)", videoID, len(entries))
	return entries, nil
}
