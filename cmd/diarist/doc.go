// Package main hosts the diarist CLI entrypoint and command graph.
//
// The Cobra command tree turns terminal invocations into workflow runs
// (transcribe, resume, render), history listings, and configuration
// scaffolding. It centralizes configuration resolution and logger setup so
// subcommands only translate flags into workflow requests and print results.
//
// Transcripts go to stdout or the requested file; status lines and logs go to
// stderr so piping stdout captures nothing but the transcript.
package main
