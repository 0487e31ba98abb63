// Package services defines shared utilities consumed by the workflow and the
// remote transcription integration.
//
// Key responsibilities:
//   - Context helpers that stamp remote job IDs, stage names, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent history statuses (errored, detached, failed).
//
// Use these helpers when wiring new stage logic so operational behaviour
// (error classification, observability) stays uniform across the pipeline.
package services
