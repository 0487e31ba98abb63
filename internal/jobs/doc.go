// Package jobs drives a remote transcription job from submission to a
// terminal state.
//
// A job moves Submitted → {Queued, Processing}* → {Completed | Errored} and
// never leaves a terminal state. AwaitCompletion polls the service at a fixed
// interval through an injected Clock, retries a bounded number of consecutive
// transient poll failures, and stops waiting locally on timeout or context
// cancellation without cancelling the remote job.
//
// Failures are typed: SubmissionError, JobError, TransportError, and
// PollTimeoutError each match the corresponding services marker via
// errors.Is.
package jobs
