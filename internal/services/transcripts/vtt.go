package transcripts

import (
	"regexp"
	"strconv"
	"strings"
)

// Regular expression for VTT timestamp lines (e.g. "00:00:01.000 --> 00:00:05.000").
// YouTube omits the hour field for short videos, so it is optional.
var vttTimestampRegex = regexp.MustCompile(`(?:(\d{1,2}):)?(\d{2}):(\d{2})\.(\d{3})\s*-->\s*(?:(\d{1,2}):)?(\d{2}):(\d{2})\.(\d{3})`)

var vttTagRegex = regexp.MustCompile(`<[^>]*>`)

// parseVTT parses WebVTT caption content into transcript entries. Auto
// captions repeat text across overlapping cues; consecutive duplicate cue
// texts are collapsed.
func parseVTT(content string) []Entry {
	var entries []Entry
	var current *Entry
	var textBuilder strings.Builder

	flush := func() {
		if current == nil {
			return
		}
		text := strings.TrimSpace(textBuilder.String())
		textBuilder.Reset()
		if text == "" {
			current = nil
			return
		}
		if n := len(entries); n > 0 && entries[n-1].Text == text {
			current = nil
			return
		}
		current.Text = text
		entries = append(entries, *current)
		current = nil
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)

		if strings.HasPrefix(line, "WEBVTT") || strings.HasPrefix(line, "NOTE") ||
			strings.HasPrefix(line, "Kind:") || strings.HasPrefix(line, "Language:") || line == "" {
			continue
		}

		if matches := vttTimestampRegex.FindStringSubmatch(line); matches != nil {
			flush()
			start := vttSeconds(matches[1], matches[2], matches[3], matches[4])
			end := vttSeconds(matches[5], matches[6], matches[7], matches[8])
			current = &Entry{Start: start, Duration: end - start}
			continue
		}

		if current != nil && !strings.Contains(line, "-->") {
			clean := strings.TrimSpace(vttTagRegex.ReplaceAllString(line, ""))
			if clean == "" {
				continue
			}
			if textBuilder.Len() > 0 {
				textBuilder.WriteString(" ")
			}
			textBuilder.WriteString(clean)
		}
	}
	flush()

	return entries
}

func vttSeconds(hours, minutes, seconds, millis string) float64 {
	h, _ := strconv.Atoi(hours)
	m, _ := strconv.Atoi(minutes)
	s, _ := strconv.Atoi(seconds)
	ms, _ := strconv.Atoi(millis)
	return float64(h)*3600 + float64(m)*60 + float64(s) + float64(ms)/1000
}
