package transcript_test

import (
	"encoding/json"
	"testing"

	"diarist/internal/transcript"
)

func TestAssembleAttributesWordsByStartTime(t *testing.T) {
	result := transcript.Result{
		AudioDuration: 4,
		Text:          "hello there general",
		Diarization: json.RawMessage(`{"segments":[
			{"speaker_label":"A","start":0,"end":2000},
			{"speaker_label":"B","start":2000,"end":4000}
		]}`),
		Words: []transcript.Word{
			{Text: "hello", Start: 100, End: 500},
			{Text: "there", Start: 1900, End: 2100},
			{Text: "general", Start: 2000, End: 2600},
		},
	}

	got := transcript.Assemble(result)
	want := []transcript.Segment{
		{Speaker: "A", Start: 0, End: 2, Text: "hello there"},
		{Speaker: "B", Start: 2, End: 4, Text: "general"},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d segments, got %d: %#v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("segment %d: got %#v want %#v", i, got[i], want[i])
		}
	}
}

func TestAssembleKeepsSeparatorAfterEmptyWord(t *testing.T) {
	result := transcript.Result{
		AudioDuration: 1,
		Diarization:   json.RawMessage(`{"segments":[{"speaker_label":"A","start":0,"end":1000}]}`),
		Words: []transcript.Word{
			{Text: "", Start: 0, End: 100},
			{Text: "b", Start: 200, End: 300},
		},
	}

	got := transcript.Assemble(result)
	if len(got) != 1 || got[0].Text != " b" {
		t.Fatalf("expected single-space join %q, got %#v", " b", got)
	}
}

func TestAssembleSortsByStartAndKeepsTieOrder(t *testing.T) {
	result := transcript.Result{
		Diarization: json.RawMessage(`{"segments":[
			{"speaker_label":"late","start":5000,"end":6000},
			{"speaker_label":"first","start":1000,"end":2000},
			{"speaker_label":"second","start":1000,"end":1500}
		]}`),
	}
	got := transcript.Assemble(result)
	order := []string{"first", "second", "late"}
	for i, speaker := range order {
		if got[i].Speaker != speaker {
			t.Fatalf("position %d: got %q want %q", i, got[i].Speaker, speaker)
		}
	}
	for _, seg := range got {
		if seg.Text != "" {
			t.Fatalf("expected empty text without words, got %q", seg.Text)
		}
	}
}

func TestAssembleOverlappingTurnsShareWords(t *testing.T) {
	result := transcript.Result{
		Diarization: json.RawMessage(`{"segments":[
			{"speaker_label":"A","start":0,"end":3000},
			{"speaker_label":"B","start":1000,"end":2000}
		]}`),
		Words: []transcript.Word{{Text: "both", Start: 1500, End: 1800}},
	}
	got := transcript.Assemble(result)
	if got[0].Text != "both" || got[1].Text != "both" {
		t.Fatalf("expected overlapping word in both segments: %#v", got)
	}
}

func TestAssembleFallsBackWithoutUsableDiarization(t *testing.T) {
	cases := map[string]json.RawMessage{
		"absent":         nil,
		"null":           json.RawMessage(`null`),
		"boolean":        json.RawMessage(`true`),
		"string":         json.RawMessage(`"diarized"`),
		"empty segments": json.RawMessage(`{"segments":[]}`),
		"malformed":      json.RawMessage(`{"segments":"nope"}`),
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			got := transcript.Assemble(transcript.Result{
				AudioDuration: 12.5,
				Text:          "full text",
				Diarization:   raw,
			})
			if len(got) != 1 {
				t.Fatalf("expected one segment, got %d", len(got))
			}
			want := transcript.Segment{Speaker: "Speaker_0", Start: 0, End: 12.5, Text: "full text"}
			if got[0] != want {
				t.Fatalf("got %#v want %#v", got[0], want)
			}
		})
	}
}

func TestAssembleDecodesServicePayload(t *testing.T) {
	payload := []byte(`{
		"status": "completed",
		"audio_duration": 3.2,
		"text": "hi",
		"speaker_labels": {"segments": [{"speaker_label": "Speaker_1", "start": 250, "end": 3200}]},
		"words": [{"text": "hi", "start": 250, "end": 700, "confidence": 0.9}]
	}`)
	var result transcript.Result
	if err := json.Unmarshal(payload, &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got := transcript.Assemble(result)
	if len(got) != 1 || got[0].Speaker != "Speaker_1" || got[0].Start != 0.25 || got[0].End != 3.2 || got[0].Text != "hi" {
		t.Fatalf("unexpected segments: %#v", got)
	}
}

func TestFormatClock(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00:00"},
		{59.9, "0:00:59"},
		{61, "0:01:01"},
		{3725.4, "1:02:05"},
		{90000, "25:00:00"},
		{-3, "0:00:00"},
	}
	for _, tc := range cases {
		if got := transcript.FormatClock(tc.seconds); got != tc.want {
			t.Fatalf("FormatClock(%v) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}
