package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"diarist/internal/config"
	"diarist/internal/history"
)

type jobView struct {
	ID        string    `json:"id"`
	RequestID string    `json:"request_id,omitempty"`
	Source    string    `json:"source"`
	AudioURL  string    `json:"audio_url"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	Output    string    `json:"output,omitempty"`
	Polls     int       `json:"polls"`
	HasResult bool      `json:"has_result"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newJobView(entry *history.Entry) jobView {
	return jobView{
		ID:        entry.ID,
		RequestID: entry.RequestID,
		Source:    entry.Source,
		AudioURL:  entry.AudioURL,
		Status:    string(entry.Status),
		Error:     entry.ErrorMessage,
		Output:    entry.OutputPath,
		Polls:     entry.Polls,
		HasResult: entry.HasResult,
		CreatedAt: entry.CreatedAt,
		UpdatedAt: entry.UpdatedAt,
	}
}

func newJobsCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:         "jobs",
		Short:       "List submitted transcription jobs, newest first",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationOffline: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd, func(_ *config.Config, store *history.Store) error {
				entries, err := store.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if asJSON {
					views := make([]jobView, 0, len(entries))
					for _, entry := range entries {
						views = append(views, newJobView(entry))
					}
					return writeJSON(cmd, views)
				}
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "No jobs recorded yet")
					return nil
				}
				fmt.Fprintln(out, renderTable(jobColumns, jobRows(entries)))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of jobs to show (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print jobs as JSON")
	return cmd
}

func jobRows(entries []*history.Entry) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		status := string(entry.Status)
		if entry.ErrorMessage != "" {
			status += ": " + truncate(entry.ErrorMessage, 40)
		}
		rows = append(rows, []string{
			entry.ID,
			status,
			strconv.Itoa(entry.Polls),
			truncate(displaySource(entry.Source), 40),
			dashIfEmpty(entry.OutputPath),
			entry.UpdatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	return rows
}

func displaySource(source string) string {
	if filepath.IsAbs(source) {
		return filepath.Base(source)
	}
	return source
}

func truncate(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit-1]) + "…"
}

func dashIfEmpty(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
