package transcript

import "encoding/json"

// Word is one recognized token. Times are milliseconds from the start of the
// recording as reported by the service.
type Word struct {
	Text  string `json:"text"`
	Start int64  `json:"start"`
	End   int64  `json:"end"`
}

// Turn is one diarization interval in milliseconds.
type Turn struct {
	Speaker string `json:"speaker_label"`
	Start   int64  `json:"start"`
	End     int64  `json:"end"`
}

// Result is the analysis payload of a completed job.
type Result struct {
	// AudioDuration is the total recording length in seconds.
	AudioDuration float64 `json:"audio_duration"`
	Text          string  `json:"text"`
	// Diarization is kept raw because the service may omit it, send null, or
	// send a non-object value; Assemble decides how to treat each shape.
	Diarization json.RawMessage `json:"speaker_labels,omitempty"`
	Words       []Word          `json:"words,omitempty"`
}

// Segment is an assembled, speaker-labelled chunk of transcript. Times are
// seconds.
type Segment struct {
	Speaker string  `json:"speaker"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
}
