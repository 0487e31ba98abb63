package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"diarist/internal/config"
)

func isolateEnv(t *testing.T) string {
	t.Helper()
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("AAI_TOKEN", "")
	t.Setenv("ASSEMBLYAI_API_KEY", "")
	t.Setenv("DIARIST_ENV", "")
	chdirForTest(t, t.TempDir())
	return tempHome
}

func TestLoadDefaultConfigUsesEnvTokenAndExpandsPaths(t *testing.T) {
	tempHome := isolateEnv(t)
	t.Setenv("AAI_TOKEN", "test-token")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "diarist")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.AssemblyAI.APIKey != "test-token" {
		t.Fatalf("expected API key from env, got %q", cfg.AssemblyAI.APIKey)
	}
	if cfg.AssemblyAI.BaseURL != "https://api.assemblyai.com" {
		t.Fatalf("unexpected base url: %q", cfg.AssemblyAI.BaseURL)
	}
	if cfg.PollInterval() != 5*time.Second {
		t.Fatalf("expected default poll interval 5s, got %s", cfg.PollInterval())
	}
	if cfg.PollTimeout() != 0 {
		t.Fatalf("expected no poll timeout by default, got %s", cfg.PollTimeout())
	}
	if cfg.Jobs.MaxTransientRetries != 3 {
		t.Fatalf("expected 3 transient retries, got %d", cfg.Jobs.MaxTransientRetries)
	}
	if w, h := cfg.PageDimensions(); w != 612 || h != 792 {
		t.Fatalf("expected letter page, got %vx%v", w, h)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadFailsWithoutCredential(t *testing.T) {
	isolateEnv(t)

	_, _, _, err := config.Load("")
	if err == nil {
		t.Fatal("expected missing credential error")
	}
	if !strings.Contains(err.Error(), "assemblyai.api_key") {
		t.Fatalf("expected error to name assemblyai.api_key, got %v", err)
	}

	cfg, _, _, err := config.LoadUnvalidated("")
	if err != nil {
		t.Fatalf("LoadUnvalidated returned error: %v", err)
	}
	if cfg.AssemblyAI.APIKey != "" {
		t.Fatalf("expected empty API key, got %q", cfg.AssemblyAI.APIKey)
	}
}

func TestLoadReadsCredentialFromEnvFile(t *testing.T) {
	isolateEnv(t)
	envPath := filepath.Join(t.TempDir(), "diarist.env")
	if err := os.WriteFile(envPath, []byte("export AAI_TOKEN=\"from-file\"\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("DIARIST_ENV", envPath)

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.AssemblyAI.APIKey != "from-file" {
		t.Fatalf("expected API key from env file, got %q", cfg.AssemblyAI.APIKey)
	}
	if _, ok := os.LookupEnv("AAI_TOKEN"); ok && os.Getenv("AAI_TOKEN") != "" {
		t.Fatal("env file must not be exported into the process environment")
	}
}

func TestLoadCustomPath(t *testing.T) {
	isolateEnv(t)
	configPath := filepath.Join(t.TempDir(), "diarist.toml")

	type payload struct {
		AssemblyAI struct {
			APIKey  string `toml:"api_key"`
			BaseURL string `toml:"base_url"`
		} `toml:"assemblyai"`
		Jobs struct {
			PollIntervalSeconds int `toml:"poll_interval_seconds"`
			PollTimeoutSeconds  int `toml:"poll_timeout_seconds"`
		} `toml:"jobs"`
		Document struct {
			PageSize string `toml:"page_size"`
		} `toml:"document"`
	}
	custom := payload{}
	custom.AssemblyAI.APIKey = "abc123"
	custom.AssemblyAI.BaseURL = "https://example.com/aai/"
	custom.Jobs.PollIntervalSeconds = 2
	custom.Jobs.PollTimeoutSeconds = 60
	custom.Document.PageSize = "A4"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	t.Setenv("AAI_TOKEN", "env-token")
	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.AssemblyAI.APIKey != "abc123" {
		t.Fatalf("expected API key from file to win over env fallback, got %q", cfg.AssemblyAI.APIKey)
	}
	if cfg.AssemblyAI.BaseURL != "https://example.com/aai" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.AssemblyAI.BaseURL)
	}
	if cfg.PollInterval() != 2*time.Second || cfg.PollTimeout() != time.Minute {
		t.Fatalf("unexpected polling settings: %s / %s", cfg.PollInterval(), cfg.PollTimeout())
	}
	if cfg.Document.PageSize != config.PageSizeA4 {
		t.Fatalf("expected page size normalized to a4, got %q", cfg.Document.PageSize)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "your_assemblyai_api_key_here") {
		t.Fatalf("sample config missing placeholder key: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if !strings.Contains(cfg.Paths.StateDir, "diarist") {
		t.Fatalf("expected state dir to contain diarist, got %q", cfg.Paths.StateDir)
	}
	if cfg.Document.Margin != 72 || cfg.Document.LineHeight != 14 {
		t.Fatalf("unexpected sample geometry: %+v", cfg.Document)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	base := func() config.Config {
		cfg := config.Default()
		cfg.AssemblyAI.APIKey = "key"
		return cfg
	}

	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"missing key", func(c *config.Config) { c.AssemblyAI.APIKey = "" }},
		{"relative base url", func(c *config.Config) { c.AssemblyAI.BaseURL = "api.assemblyai.com" }},
		{"zero poll interval", func(c *config.Config) { c.Jobs.PollIntervalSeconds = 0 }},
		{"timeout below interval", func(c *config.Config) { c.Jobs.PollTimeoutSeconds = 1 }},
		{"unknown page size", func(c *config.Config) { c.Document.PageSize = "tabloid" }},
		{"zero line height", func(c *config.Config) { c.Document.LineHeight = 0 }},
		{"margin too wide", func(c *config.Config) { c.Document.Margin = 400 }},
		{"bad font style", func(c *config.Config) { c.Document.BodyFontStyle = "X" }},
		{"unknown body font", func(c *config.Config) { c.Document.BodyFont = "Garamond" }},
		{"unknown title font", func(c *config.Config) { c.Document.TitleFont = "Comic Sans" }},
		{"too many speakers", func(c *config.Config) { c.AssemblyAI.SpeakersExpected = 11 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}

	cfg := base()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults plus key to validate, got %v", err)
	}
	cfg.Document.BodyFont = "Courier"
	cfg.Document.TitleFont = "TIMES"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected core fonts to validate case-insensitively, got %v", err)
	}
}

// chdirForTest changes the working directory for the duration of the test
// and restores it on cleanup (equivalent of testing.T.Chdir, Go 1.24+).
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Errorf("restore working directory: %v", err)
		}
	})
}
