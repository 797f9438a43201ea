package transcripts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVTTBasic(t *testing.T) {
	entries := parseVTT(sampleVTT)
	require.Len(t, entries, 3)

	assert.Equal(t, 1.0, entries[0].Start)
	assert.InDelta(t, 3.0, entries[0].Duration, 1e-9)
	assert.Equal(t, "Welcome to this Python tutorial", entries[0].Text)

	assert.Equal(t, 8.5, entries[2].Start)
	assert.InDelta(t, 3.5, entries[2].Duration, 1e-9)
}

func TestParseVTTWithoutHourField(t *testing.T) {
	content := "WEBVTT\n\n01:30.250 --> 01:35.000\nshort form timestamps\n"

	entries := parseVTT(content)
	require.Len(t, entries, 1)
	assert.InDelta(t, 90.25, entries[0].Start, 1e-9)
}

func TestParseVTTStripsTags(t *testing.T) {
	content := "WEBVTT\n\n00:00:01.000 --> 00:00:03.000\n<v Speaker>hello <i>world</i></v>\n"

	entries := parseVTT(content)
	require.Len(t, entries, 1)
	assert.Equal(t, "hello world", entries[0].Text)
}

func TestParseVTTCollapsesDuplicateCues(t *testing.T) {
	// YouTube auto captions repeat the same text across overlapping cues
	content := `WEBVTT

00:00:01.000 --> 00:00:03.000
hello there

00:00:03.000 --> 00:00:05.000
hello there

00:00:05.000 --> 00:00:07.000
something new
`

	entries := parseVTT(content)
	require.Len(t, entries, 2)
	assert.Equal(t, "hello there", entries[0].Text)
	assert.Equal(t, "something new", entries[1].Text)
}

func TestParseVTTMultilineCue(t *testing.T) {
	content := "WEBVTT\n\n00:00:01.000 --> 00:00:03.000\nfirst line\nsecond line\n"

	entries := parseVTT(content)
	require.Len(t, entries, 1)
	assert.Equal(t, "first line second line", entries[0].Text)
}

func TestParseVTTEmptyAndHeaderOnly(t *testing.T) {
	assert.Empty(t, parseVTT(""))
	assert.Empty(t, parseVTT("WEBVTT\nKind: captions\nLanguage: en\n"))
}
