// Package assemblyai is the HTTP client for the AssemblyAI v2 transcription
// API: raw audio upload, job submission, and job status retrieval.
//
// Only uploads are retried here, and only on transient failures. Submission
// is attempted once so a lost response cannot create a duplicate remote job;
// status polling retries are owned by the jobs package.
package assemblyai
