package main

import (
	"github.com/spf13/cobra"

	"diarist/internal/workflow"
)

func newResumeCommand(ctx *commandContext) *cobra.Command {
	var output string
	var poll pollFlags

	cmd := &cobra.Command{
		Use:   "resume [job-id|latest]",
		Short: "Keep waiting on a submitted job and render it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID := workflow.LatestJob
			if len(args) == 1 {
				jobID = args[0]
			}
			interval, timeout, err := poll.resolve(cmd)
			if err != nil {
				return err
			}
			return ctx.withRunner(cmd, func(runner *workflow.Runner) error {
				outcome, err := runner.Resume(cmd.Context(), jobID, output, interval, timeout)
				if err != nil {
					return explainFailure(outcome, err)
				}
				printSummary(cmd, outcome)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file; .pdf renders pages, anything else is text (default stdout)")
	poll.register(cmd)
	return cmd
}

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:         "render [job-id|latest]",
		Short:       "Re-render a completed job from history without contacting the service",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{annotationOffline: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID := workflow.LatestJob
			if len(args) == 1 {
				jobID = args[0]
			}
			return ctx.withRunner(cmd, func(runner *workflow.Runner) error {
				outcome, err := runner.Render(cmd.Context(), jobID, output)
				if err != nil {
					return err
				}
				printSummary(cmd, outcome)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file; .pdf renders pages, anything else is text (default stdout)")
	return cmd
}
