package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Shaun-Gulati/internal-assistant/internal/core/domain"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Mirror a folder into the store",
	Long: `Uploads every supported file in dir that is not stored yet, then
watches the folder. New and modified files are ingested, replacing the
stored version. Removed files are deleted from the store.

Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := requireService("inbox", newInbox != nil); err != nil {
		return err
	}

	info, err := os.Stat(args[0])
	if err != nil {
		return fmt.Errorf("watch folder: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch folder: %s is not a directory", args[0])
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	role := currentRole()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Watching %s as %s (Ctrl+C to stop)\n", args[0], role)

	err = newInbox(args[0], role).Run(ctx, func(event domain.InboxEvent) {
		printInboxEvent(out, event)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func printInboxEvent(w io.Writer, event domain.InboxEvent) {
	switch {
	case event.Delete != nil:
		if event.Delete.Success {
			fmt.Fprintf(w, "- %s: removed %d chunks\n", event.Change.Path, event.Delete.ChunksRemoved)
		} else {
			fmt.Fprintf(w, "✗ %s: %s\n", event.Change.Path, event.Delete.Error)
		}
	case event.Ingest != nil:
		printIngestResult(w, event.Ingest)
	}
}
