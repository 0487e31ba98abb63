// Package transcript turns a finished remote analysis into ordered,
// speaker-attributed segments.
//
// Assemble is pure: it reconciles the service's diarization turns with its
// word tokens by interval containment, falls back to a single whole-recording
// segment when diarization metadata is missing or malformed, and returns the
// segments sorted by start time.
package transcript
