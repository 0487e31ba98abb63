package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// AssemblyAI contains configuration for the remote transcription service.
type AssemblyAI struct {
	APIKey           string `toml:"api_key"`
	BaseURL          string `toml:"base_url"`
	TimeoutSeconds   int    `toml:"timeout_seconds"`
	LanguageCode     string `toml:"language_code"`
	SpeakersExpected int    `toml:"speakers_expected"`
}

// Jobs contains polling configuration for submitted transcription jobs.
type Jobs struct {
	PollIntervalSeconds int `toml:"poll_interval_seconds"`
	// PollTimeoutSeconds bounds local waiting; zero waits indefinitely.
	PollTimeoutSeconds  int `toml:"poll_timeout_seconds"`
	MaxTransientRetries int `toml:"max_transient_retries"`
}

// Document contains page geometry and fonts for paginated output. Lengths
// are PDF points.
type Document struct {
	Title          string  `toml:"title"`
	PageSize       string  `toml:"page_size"`
	Margin         float64 `toml:"margin"`
	LineHeight     float64 `toml:"line_height"`
	TitleGap       float64 `toml:"title_gap"`
	TitleFont      string  `toml:"title_font"`
	TitleFontStyle string  `toml:"title_font_style"`
	TitleFontSize  float64 `toml:"title_font_size"`
	BodyFont       string  `toml:"body_font"`
	BodyFontStyle  string  `toml:"body_font_style"`
	BodyFontSize   float64 `toml:"body_font_size"`
}

// Capture contains configuration for microphone recording.
type Capture struct {
	FFmpegBinary string `toml:"ffmpeg_binary"`
	InputFormat  string `toml:"input_format"`
	Device       string `toml:"device"`
	SampleRate   int    `toml:"sample_rate"`
	Channels     int    `toml:"channels"`
	// RetentionHours prunes recordings older than this; zero keeps them.
	RetentionHours int `toml:"retention_hours"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	// ToFile mirrors log output into paths.log_dir/diarist.log.
	ToFile bool `toml:"to_file"`
}

// Config encapsulates all configuration values for diarist.
//
// Configuration sections by subsystem:
//   - Paths: state (history database, lock, recordings) and log directories
//   - AssemblyAI: credential, endpoint, and analysis options
//   - Jobs: poll interval, local wait deadline, transient retry budget
//   - Document: page geometry and fonts for PDF output
//   - Capture: ffmpeg recording settings
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	AssemblyAI AssemblyAI `toml:"assemblyai"`
	Jobs       Jobs       `toml:"jobs"`
	Document   Document   `toml:"document"`
	Capture    Capture    `toml:"capture"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPathValue)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg, resolvedPath, exists, err := LoadUnvalidated(path)
	if err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return cfg, resolvedPath, exists, nil
}

// LoadUnvalidated parses and normalizes configuration without enforcing the
// credential and geometry checks. Commands that never reach the remote
// service (history listing, re-rendering) use it.
func LoadUnvalidated(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPathValue)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(defaultProjectConfigFile)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// HistoryPath returns the SQLite database path for the job history.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.StateDir, defaultHistoryDatabaseName)
}

// LockPath returns the path of the single-run lock file.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, defaultRunLockName)
}

// LogFilePath returns the log file used when logging.to_file is enabled.
func (c *Config) LogFilePath() string {
	return filepath.Join(c.Paths.LogDir, defaultLogFileName)
}

// RecordingDir returns the directory microphone captures are written to.
func (c *Config) RecordingDir() string {
	return filepath.Join(c.Paths.StateDir, defaultRecordingDirectoryName)
}

// PollInterval returns jobs.poll_interval_seconds as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Jobs.PollIntervalSeconds) * time.Second
}

// PollTimeout returns jobs.poll_timeout_seconds as a duration; zero means no deadline.
func (c *Config) PollTimeout() time.Duration {
	if c.Jobs.PollTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Jobs.PollTimeoutSeconds) * time.Second
}

// HTTPTimeout returns the per-request timeout for the transcription service.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.AssemblyAI.TimeoutSeconds) * time.Second
}

// RecordingRetention returns capture.retention_hours as a duration.
func (c *Config) RecordingRetention() time.Duration {
	if c.Capture.RetentionHours <= 0 {
		return 0
	}
	return time.Duration(c.Capture.RetentionHours) * time.Hour
}

// PageDimensions returns the width and height in points of document.page_size.
func (c *Config) PageDimensions() (float64, float64) {
	switch c.Document.PageSize {
	case PageSizeA4:
		return 595.28, 841.89
	case PageSizeLegal:
		return 612, 1008
	default:
		return 612, 792
	}
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
