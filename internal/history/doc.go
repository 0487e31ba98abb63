// Package history persists submitted transcription jobs in SQLite.
//
// Every run records the remote job identifier, the staged audio reference,
// and each status change observed while polling. Completed results are stored
// verbatim so documents can be re-rendered offline, and jobs abandoned by a
// local poll timeout stay resumable because the remote service keeps
// processing them.
package history
