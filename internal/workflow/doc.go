// Package workflow runs one transcription end to end.
//
// The Runner stages audio (recording it first when asked), submits a job,
// records it in the history store, waits for it through the jobs client,
// assembles speaker segments, and renders them to the requested destination.
// Every step is tagged with a request ID so log lines and history rows can be
// correlated. A file lock under the state directory keeps a second process
// from running a job at the same time.
//
// Resume re-attaches to a job whose local wait ended early, and Render
// rebuilds a document from a stored result without touching the network.
package workflow
