package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"pictowebp/internal/history"
	"pictowebp/internal/services"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded conversion runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, ok, err := openHistory(cmd.Context(), ctx)
			if err != nil {
				return err
			}
			var runs []history.Run
			if ok {
				defer store.Close()
				if runs, err = store.List(cmd.Context(), limit); err != nil {
					return err
				}
			}
			if jsonOutput {
				if runs == nil {
					runs = []history.Run{}
				}
				return writeJSON(cmd, runs)
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					shortID(run.ID),
					run.StartedAt.Local().Format("2006-01-02 15:04"),
					run.SourceRoot,
					statusLabel(run.Status),
					strconv.Itoa(run.TotalJobs),
					strconv.Itoa(run.Failed),
					savedLabel(run),
					run.Elapsed().Round(100 * time.Millisecond).String(),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Run", "Started", "Source", "Status", "Files", "Failed", "Saved", "Elapsed"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print runs as JSON")

	cmd.AddCommand(newHistoryShowCommand(ctx))
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run and its failed files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, ok, err := openHistory(cmd.Context(), ctx)
			if err != nil {
				return err
			}
			if !ok {
				return services.Wrap(services.ErrNotFound, "history", "show", args[0], history.ErrRunNotFound)
			}
			defer store.Close()

			run, err := resolveRun(cmd, store, args[0])
			if err != nil {
				return err
			}
			failures, err := store.Failures(cmd.Context(), run.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run:      %s\n", run.ID)
			fmt.Fprintf(out, "Status:   %s\n", statusLabel(run.Status))
			fmt.Fprintf(out, "Started:  %s\n", run.StartedAt.Local().Format(time.RFC1123))
			fmt.Fprintf(out, "Elapsed:  %s\n", run.Elapsed().Round(100*time.Millisecond))
			fmt.Fprintf(out, "Source:   %s\n", run.SourceRoot)
			fmt.Fprintf(out, "Output:   %s\n", run.OutputRoot)
			fmt.Fprintf(out, "Settings: %s quality %d, %d workers, chunk size %d\n", run.Format, run.Quality, run.Workers, run.ChunkSize)
			fmt.Fprintf(out, "Files:    %d total, %d converted, %d failed\n", run.TotalJobs, run.Succeeded, run.Failed)
			fmt.Fprintf(out, "Size:     %s -> %s (%s)\n",
				humanize.Bytes(uint64(run.OriginalBytes)), humanize.Bytes(uint64(run.EncodedBytes)), savedLabel(run))

			if len(failures) == 0 {
				return nil
			}
			rows := make([][]string, 0, len(failures))
			for _, f := range failures {
				rows = append(rows, []string{f.Path, f.Kind, f.Message})
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, renderTable([]string{"File", "Kind", "Error"}, rows, nil))
			return nil
		},
	}
}

// openHistory opens the store if the database exists. ok is false when no
// run has ever been recorded.
func openHistory(runCtx context.Context, ctx *commandContext) (*history.Store, bool, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, false, err
	}
	path := cfg.HistoryPath()
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	store, err := history.Open(runCtx, path)
	if err != nil {
		return nil, false, err
	}
	return store, true, nil
}

// resolveRun accepts a full run id or the unique prefix shown by the list view.
func resolveRun(cmd *cobra.Command, store *history.Store, id string) (history.Run, error) {
	run, err := store.Get(cmd.Context(), id)
	if err == nil || !errors.Is(err, history.ErrRunNotFound) {
		return run, err
	}
	runs, listErr := store.List(cmd.Context(), 0)
	if listErr != nil {
		return history.Run{}, listErr
	}
	var match *history.Run
	for i := range runs {
		if len(id) >= 4 && len(runs[i].ID) >= len(id) && runs[i].ID[:len(id)] == id {
			if match != nil {
				return history.Run{}, fmt.Errorf("run id prefix %q is ambiguous", id)
			}
			match = &runs[i]
		}
	}
	if match == nil {
		return history.Run{}, services.Wrap(services.ErrNotFound, "history", "show", id, err)
	}
	return *match, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func statusLabel(status string) string {
	return cases.Title(language.Und).String(status)
}

func savedLabel(run history.Run) string {
	if run.OriginalBytes <= 0 {
		return "-"
	}
	saved := run.OriginalBytes - run.EncodedBytes
	pct := float64(saved) * 100 / float64(run.OriginalBytes)
	if saved < 0 {
		return fmt.Sprintf("+%s", humanize.Bytes(uint64(-saved)))
	}
	return fmt.Sprintf("%s (%.0f%%)", humanize.Bytes(uint64(saved)), pct)
}
