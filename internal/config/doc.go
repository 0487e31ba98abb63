// Package config loads, normalizes, and validates diarist configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours credential fallbacks such as
// AAI_TOKEN from the process environment or a .env file. The Config type
// centralizes every knob the CLI and workflow need so the transcription
// service credential, polling cadence, and page geometry are discovered in
// one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
