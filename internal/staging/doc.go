// Package staging turns caller input into an audio reference the remote
// service can read, and prunes old microphone recordings.
//
// Remote http(s) URLs pass through untouched. Local files are streamed to
// the service's upload endpoint and replaced by the returned URL.
package staging
