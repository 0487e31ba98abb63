package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAssemblyAI(); err != nil {
		return err
	}
	if err := c.validateJobs(); err != nil {
		return err
	}
	if err := c.ValidateDocument(); err != nil {
		return err
	}
	return c.validateCapture()
}

func (c *Config) validateAssemblyAI() error {
	if c.AssemblyAI.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = defaultConfigPathValue
		}
		return fmt.Errorf("assemblyai.api_key is required. Set %s env var or edit %s (create with 'diarist config init')", credentialEnvPrimary, defaultPath)
	}
	parsed, err := url.Parse(c.AssemblyAI.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("assemblyai.base_url %q must be an absolute URL", c.AssemblyAI.BaseURL)
	}
	if c.AssemblyAI.SpeakersExpected > 10 {
		return errors.New("assemblyai.speakers_expected must be at most 10")
	}
	return nil
}

func (c *Config) validateJobs() error {
	if c.Jobs.PollIntervalSeconds <= 0 {
		return errors.New("jobs.poll_interval_seconds must be positive")
	}
	if c.Jobs.PollTimeoutSeconds > 0 && c.Jobs.PollTimeoutSeconds < c.Jobs.PollIntervalSeconds {
		return errors.New("jobs.poll_timeout_seconds must be zero or at least jobs.poll_interval_seconds")
	}
	return nil
}

// ValidateDocument checks page geometry independently of the credential so
// offline re-rendering can verify it too.
func (c *Config) ValidateDocument() error {
	switch c.Document.PageSize {
	case PageSizeLetter, PageSizeA4, PageSizeLegal:
	default:
		return fmt.Errorf("document.page_size %q is not one of letter, a4, legal", c.Document.PageSize)
	}
	if err := ensurePositiveMap(map[string]float64{
		"document.margin":          c.Document.Margin,
		"document.line_height":     c.Document.LineHeight,
		"document.title_font_size": c.Document.TitleFontSize,
		"document.body_font_size":  c.Document.BodyFontSize,
		"document.title_gap":       c.Document.TitleGap,
	}); err != nil {
		return err
	}
	width, height := c.PageDimensions()
	if 2*c.Document.Margin >= width || 2*c.Document.Margin+c.Document.TitleGap >= height {
		return errors.New("document.margin leaves no room for body text")
	}
	for key, family := range map[string]string{
		"document.title_font": c.Document.TitleFont,
		"document.body_font":  c.Document.BodyFont,
	} {
		if !coreFontFamilies[strings.ToLower(family)] {
			return fmt.Errorf("%s %q is not a core PDF font (courier, helvetica, arial, times, symbol, zapfdingbats)", key, family)
		}
	}
	for key, style := range map[string]string{
		"document.title_font_style": c.Document.TitleFontStyle,
		"document.body_font_style":  c.Document.BodyFontStyle,
	} {
		if strings.Trim(style, "BIU") != "" {
			return fmt.Errorf("%s %q may only contain B, I, U", key, style)
		}
	}
	return nil
}

func (c *Config) validateCapture() error {
	if c.Capture.Channels > 2 {
		return errors.New("capture.channels must be 1 or 2")
	}
	return nil
}

// coreFontFamilies lists the standard PDF fonts usable without embedding.
var coreFontFamilies = map[string]bool{
	"courier":      true,
	"helvetica":    true,
	"arial":        true,
	"times":        true,
	"symbol":       true,
	"zapfdingbats": true,
}

func ensurePositiveMap(values map[string]float64) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
