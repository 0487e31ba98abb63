package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"diarist/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It sets a placeholder credential, a one second poll interval, and applies
// any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.AssemblyAI.APIKey = "test-token"
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Jobs.PollIntervalSeconds = 1
	cfgVal.Capture.InputFormat = "lavfi"
	cfgVal.Capture.Device = "anullsrc"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithBaseURL points the remote service at a test server.
func WithBaseURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.AssemblyAI.BaseURL = url
	}
}

// WithPollTimeout bounds the local wait in seconds.
func WithPollTimeout(seconds int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Jobs.PollTimeoutSeconds = seconds
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. Each stub runs script; an empty script exits 0.
// If names is empty, ffmpeg is stubbed.
func WithStubbedBinaries(script string, names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg"}
		}
		if script == "" {
			script = "exit 0\n"
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		contents := []byte("#!/bin/sh\n" + script)
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, contents, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
