package framesource

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVideoID(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{
			name:     "watch URL",
			url:      "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			expected: "dQw4w9WgXcQ",
		},
		{
			name:     "watch URL with extra params",
			url:      "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s",
			expected: "dQw4w9WgXcQ",
		},
		{
			name:     "short link",
			url:      "https://youtu.be/dQw4w9WgXcQ",
			expected: "dQw4w9WgXcQ",
		},
		{
			name:     "short link with query",
			url:      "https://youtu.be/dQw4w9WgXcQ?t=10",
			expected: "dQw4w9WgXcQ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, VideoID(tt.url))
		})
	}
}

func TestVideoIDFallbackHash(t *testing.T) {
	// Non-YouTube URLs hash to a stable 32-char hex identifier
	id := VideoID("https://example.com/videos/lesson1.mp4")
	assert.Len(t, id, 32)

	// Deterministic
	assert.Equal(t, id, VideoID("https://example.com/videos/lesson1.mp4"))

	// Different URLs get different identifiers
	other := VideoID("https://example.com/videos/lesson2.mp4")
	assert.NotEqual(t, id, other)
}
