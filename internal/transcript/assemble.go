package transcript

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
)

// FallbackSpeaker labels the single segment produced when no usable
// diarization is available.
const FallbackSpeaker = "Speaker_0"

type diarizationPayload struct {
	Segments []Turn `json:"segments"`
}

// ParseTurns decodes diarization metadata. It reports false when the value is
// absent, null, not a JSON object, structurally invalid, or has no turns.
func ParseTurns(raw json.RawMessage) ([]Turn, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	var payload diarizationPayload
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return nil, false
	}
	if len(payload.Segments) == 0 {
		return nil, false
	}
	return payload.Segments, true
}

// Assemble converts a completed analysis into segments sorted ascending by
// start time, keeping the original turn order on ties.
//
// A word belongs to every turn whose half-open interval [start, end) contains
// the word's start time, so overlapping turns may both claim it. Overlaps are
// passed through untouched.
func Assemble(result Result) []Segment {
	turns, ok := ParseTurns(result.Diarization)
	if !ok {
		return []Segment{Fallback(result)}
	}

	segments := make([]Segment, 0, len(turns))
	for _, turn := range turns {
		segments = append(segments, Segment{
			Speaker: turn.Speaker,
			Start:   millisToSeconds(turn.Start),
			End:     millisToSeconds(turn.End),
			Text:    wordsWithin(result.Words, turn.Start, turn.End),
		})
	}

	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].Start < segments[j].Start
	})
	return segments
}

// Fallback returns the whole-recording segment used without diarization.
func Fallback(result Result) Segment {
	return Segment{
		Speaker: FallbackSpeaker,
		Start:   0,
		End:     result.AudioDuration,
		Text:    result.Text,
	}
}

func wordsWithin(words []Word, start, end int64) string {
	var b strings.Builder
	matched := 0
	for _, w := range words {
		if w.Start < start || w.Start >= end {
			continue
		}
		if matched > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(w.Text)
		matched++
	}
	return b.String()
}

func millisToSeconds(ms int64) float64 {
	return float64(ms) / 1000
}
