package main

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"diarist/internal/config"
	"diarist/internal/history"
	"diarist/internal/logging"
	"diarist/internal/services"
	"diarist/internal/workflow"
)

const (
	// annotationSkipConfig marks commands that load configuration themselves.
	annotationSkipConfig = "skipConfigLoad"
	// annotationOffline marks commands that never contact the service and so
	// run without a credential.
	annotationOffline = "offlineConfig"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig(cmd *cobra.Command) (*config.Config, error) {
	c.configOnce.Do(func() {
		load := config.Load
		if hasAnnotation(cmd, annotationOffline) {
			load = config.LoadUnvalidated
		}
		cfg, _, _, err := load(c.configPath())
		if err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "load", "", err)
			return
		}
		if c.logLevelFlag != nil {
			if level := strings.TrimSpace(*c.logLevelFlag); level != "" {
				cfg.Logging.Level = strings.ToLower(level)
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "ensure directories", "", err)
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger(cmd *cobra.Command) (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig(cmd)
		if err != nil {
			c.loggerErr = err
			return
		}
		opts := logging.OptionsFromConfig(cfg)
		opts.Writer = cmd.ErrOrStderr()
		c.logger, c.loggerErr = logging.New(opts)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) withStore(cmd *cobra.Command, fn func(*config.Config, *history.Store) error) error {
	cfg, err := c.ensureConfig(cmd)
	if err != nil {
		return err
	}
	store, err := history.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(cfg, store)
}

func (c *commandContext) withRunner(cmd *cobra.Command, fn func(*workflow.Runner) error) error {
	logger, err := c.ensureLogger(cmd)
	if err != nil {
		return err
	}
	return c.withStore(cmd, func(cfg *config.Config, store *history.Store) error {
		stderr := cmd.ErrOrStderr()
		runner := workflow.New(cfg, store, logger,
			workflow.WithStdout(cmd.OutOrStdout()),
			workflow.WithProgress(progressPrinter(stderr, shouldColorize(stderr))),
		)
		return fn(runner)
	})
}

func hasAnnotation(cmd *cobra.Command, key string) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations[key] == "true" {
			return true
		}
	}
	return false
}

// explainFailure appends a next step to errors the user can act on.
func explainFailure(outcome *workflow.Outcome, err error) error {
	if err == nil {
		return nil
	}
	if outcome == nil || outcome.JobID == "" {
		return err
	}
	switch {
	case errors.Is(err, services.ErrPollTimeout):
		return &hintError{err: err, hint: "job " + outcome.JobID + " is still running; continue with 'diarist resume " + outcome.JobID + "'"}
	case errors.Is(err, services.ErrTransport):
		return &hintError{err: err, hint: "job " + outcome.JobID + " may still finish; retry with 'diarist resume " + outcome.JobID + "'"}
	default:
		return err
	}
}

type hintError struct {
	err  error
	hint string
}

func (e *hintError) Error() string { return e.err.Error() + "\nhint: " + e.hint }

func (e *hintError) Unwrap() error { return e.err }

func writeLine(w io.Writer, line string) {
	_, _ = io.WriteString(w, line+"\n")
}
