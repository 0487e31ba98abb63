package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeAssemblyAI(); err != nil {
		return err
	}
	c.normalizeJobs()
	c.normalizeDocument()
	c.normalizeCapture()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeAssemblyAI() error {
	c.AssemblyAI.APIKey = strings.TrimSpace(c.AssemblyAI.APIKey)
	if c.AssemblyAI.APIKey == "" {
		key, err := lookupCredential()
		if err != nil {
			return err
		}
		c.AssemblyAI.APIKey = key
	}
	c.AssemblyAI.BaseURL = strings.TrimRight(strings.TrimSpace(c.AssemblyAI.BaseURL), "/")
	if c.AssemblyAI.BaseURL == "" {
		c.AssemblyAI.BaseURL = defaultAssemblyAIBaseURL
	}
	if c.AssemblyAI.TimeoutSeconds <= 0 {
		c.AssemblyAI.TimeoutSeconds = defaultAssemblyAITimeout
	}
	c.AssemblyAI.LanguageCode = strings.TrimSpace(c.AssemblyAI.LanguageCode)
	if c.AssemblyAI.SpeakersExpected < 0 {
		c.AssemblyAI.SpeakersExpected = 0
	}
	return nil
}

// lookupCredential checks the process environment first, then .env files.
// The .env files are read, never exported into the process environment.
func lookupCredential() (string, error) {
	for _, name := range []string{credentialEnvPrimary, credentialEnvSecondary} {
		if value, ok := os.LookupEnv(name); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value), nil
		}
	}
	files, err := envFiles()
	if err != nil {
		return "", err
	}
	for _, path := range files {
		values, err := godotenv.Read(path)
		if err != nil {
			return "", fmt.Errorf("read env file %s: %w", path, err)
		}
		for _, name := range []string{credentialEnvPrimary, credentialEnvSecondary} {
			if value := strings.TrimSpace(values[name]); value != "" {
				return value, nil
			}
		}
	}
	return "", nil
}

func envFiles() ([]string, error) {
	candidates := make([]string, 0, 3)
	if override := strings.TrimSpace(os.Getenv(envFileOverrideVariable)); override != "" {
		candidates = append(candidates, override)
	}
	candidates = append(candidates, defaultEnvFileInConfigDir, defaultProjectEnvFile)

	files := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		expanded, err := expandPath(candidate)
		if err != nil {
			return nil, fmt.Errorf("env file %q: %w", candidate, err)
		}
		if info, err := os.Stat(expanded); err == nil && !info.IsDir() {
			files = append(files, expanded)
		}
	}
	return files, nil
}

func (c *Config) normalizeJobs() {
	if c.Jobs.PollIntervalSeconds <= 0 {
		c.Jobs.PollIntervalSeconds = defaultPollIntervalSeconds
	}
	if c.Jobs.PollTimeoutSeconds < 0 {
		c.Jobs.PollTimeoutSeconds = 0
	}
	if c.Jobs.MaxTransientRetries < 0 {
		c.Jobs.MaxTransientRetries = 0
	}
}

func (c *Config) normalizeDocument() {
	c.Document.Title = strings.TrimSpace(c.Document.Title)
	if c.Document.Title == "" {
		c.Document.Title = defaultDocumentTitle
	}
	c.Document.PageSize = strings.ToLower(strings.TrimSpace(c.Document.PageSize))
	if c.Document.PageSize == "" {
		c.Document.PageSize = defaultPageSize
	}
	c.Document.TitleFont = strings.TrimSpace(c.Document.TitleFont)
	if c.Document.TitleFont == "" {
		c.Document.TitleFont = defaultTitleFont
	}
	c.Document.TitleFontStyle = strings.ToUpper(strings.TrimSpace(c.Document.TitleFontStyle))
	if c.Document.TitleFontSize <= 0 {
		c.Document.TitleFontSize = defaultTitleFontSize
	}
	c.Document.BodyFont = strings.TrimSpace(c.Document.BodyFont)
	if c.Document.BodyFont == "" {
		c.Document.BodyFont = defaultBodyFont
	}
	c.Document.BodyFontStyle = strings.ToUpper(strings.TrimSpace(c.Document.BodyFontStyle))
	if c.Document.BodyFontSize <= 0 {
		c.Document.BodyFontSize = defaultBodyFontSize
	}
}

func (c *Config) normalizeCapture() {
	c.Capture.FFmpegBinary = strings.TrimSpace(c.Capture.FFmpegBinary)
	if c.Capture.FFmpegBinary == "" {
		c.Capture.FFmpegBinary = defaultFFmpegBinary
	}
	c.Capture.InputFormat = strings.TrimSpace(c.Capture.InputFormat)
	if c.Capture.InputFormat == "" {
		c.Capture.InputFormat = defaultCaptureInputFormat(runtime.GOOS)
	}
	c.Capture.Device = strings.TrimSpace(c.Capture.Device)
	if c.Capture.Device == "" {
		c.Capture.Device = defaultCaptureDevice(runtime.GOOS)
	}
	if c.Capture.SampleRate <= 0 {
		c.Capture.SampleRate = defaultCaptureSampleRate
	}
	if c.Capture.Channels <= 0 {
		c.Capture.Channels = defaultCaptureChannels
	}
	if c.Capture.RetentionHours < 0 {
		c.Capture.RetentionHours = 0
	}
}

func defaultCaptureInputFormat(goos string) string {
	switch goos {
	case "darwin":
		return "avfoundation"
	case "windows":
		return "dshow"
	default:
		return "pulse"
	}
}

func defaultCaptureDevice(goos string) string {
	switch goos {
	case "darwin":
		return ":0"
	case "windows":
		return "audio=default"
	default:
		return "default"
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
