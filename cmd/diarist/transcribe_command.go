package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"diarist/internal/services"
	"diarist/internal/workflow"
)

type pollFlags struct {
	interval time.Duration
	timeout  time.Duration
}

func (p *pollFlags) register(cmd *cobra.Command) {
	cmd.Flags().DurationVar(&p.interval, "poll-interval", 0, "Time between status checks (default jobs.poll_interval_seconds)")
	cmd.Flags().DurationVar(&p.timeout, "timeout", 0, "Stop waiting locally after this long; 0 waits indefinitely (default jobs.poll_timeout_seconds)")
}

// resolve returns the interval and timeout overrides for the workflow. An
// explicit zero timeout disables a configured one.
func (p *pollFlags) resolve(cmd *cobra.Command) (time.Duration, time.Duration, error) {
	if p.interval < 0 {
		return 0, 0, services.Wrap(services.ErrValidation, "flags", "poll-interval", "--poll-interval must be positive", nil)
	}
	if p.timeout < 0 {
		return 0, 0, services.Wrap(services.ErrValidation, "flags", "timeout", "--timeout must not be negative", nil)
	}
	timeout := p.timeout
	if cmd.Flags().Changed("timeout") && timeout == 0 {
		timeout = -1
	}
	return p.interval, timeout, nil
}

const transcribeLong = `Upload a local recording (or pass an http(s) URL), wait for the diarized
transcript, and write it to stdout, a .txt file, or a paginated .pdf.`

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var output string
	var record bool
	var poll pollFlags

	cmd := &cobra.Command{
		Use:   "transcribe [file|url]",
		Short: "Transcribe audio with speaker labels",
		Long:  transcribeLong,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := workflow.Request{Output: output, Record: record}
			if len(args) == 1 {
				req.Input = args[0]
			}
			if !record && strings.TrimSpace(req.Input) == "" {
				return services.Wrap(services.ErrValidation, "input", "resolve input", "Give an audio file or URL, or use --record", nil)
			}
			interval, timeout, err := poll.resolve(cmd)
			if err != nil {
				return err
			}
			req.PollInterval = interval
			req.Timeout = timeout
			if record {
				req.Stop = waitForEnter(cmd.InOrStdin())
			}

			return ctx.withRunner(cmd, func(runner *workflow.Runner) error {
				outcome, err := runner.Transcribe(cmd.Context(), req)
				if err != nil {
					return explainFailure(outcome, err)
				}
				printSummary(cmd, outcome)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file; .pdf renders pages, anything else is text (default stdout)")
	cmd.Flags().BoolVar(&record, "record", false, "Record from the microphone until Enter is pressed")
	poll.register(cmd)
	return cmd
}

// waitForEnter closes the returned channel after one line (or EOF) on r.
func waitForEnter(r io.Reader) <-chan struct{} {
	stop := make(chan struct{})
	go func() {
		defer close(stop)
		_, _ = bufio.NewReader(r).ReadString('\n')
	}()
	return stop
}

func printSummary(cmd *cobra.Command, outcome *workflow.Outcome) {
	stderr := cmd.ErrOrStderr()
	target := outcome.Destination.Path
	if target == "" {
		target = "stdout"
	}
	message := fmt.Sprintf("job %s: %d segments to %s (%s)", outcome.JobID, outcome.Segments, target, outcome.Destination.Kind)
	writeLine(stderr, renderStatusLine("Done", statusOK, message, shouldColorize(stderr)))
}
