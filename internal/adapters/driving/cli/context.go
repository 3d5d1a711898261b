package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Shaun-Gulati/internal-assistant/internal/core/domain"
)

var (
	contextSource    string
	contextChannel   string
	contextAuthor    string
	contextTimestamp string
	contextTags      []string
)

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Manage context entries from chat, mail and other origins",
}

var contextAddCmd = &cobra.Command{
	Use:   "add [content]",
	Short: "Store a context entry",
	Long: `Stores a single piece of context, such as a chat message, under a source
category. The category decides which roles can see it, for example
slack-general, slack-sales, github or outlook.`,
	Example: `  assistant context add "Deploy freeze starts Friday" --source slack-dev --channel "#eng" --author sam`,
	Args:    cobra.ExactArgs(1),
	RunE:    runContextAdd,
}

func init() {
	contextAddCmd.Flags().StringVarP(&contextSource, "source", "s", "", "source category (required)")
	contextAddCmd.Flags().StringVar(&contextChannel, "channel", "", "channel or mailbox")
	contextAddCmd.Flags().StringVar(&contextAuthor, "author", "", "author")
	contextAddCmd.Flags().StringVar(&contextTimestamp, "timestamp", "", "origin timestamp, stored verbatim")
	contextAddCmd.Flags().StringSliceVarP(&contextTags, "tag", "t", nil, "tag (repeatable)")
	_ = contextAddCmd.MarkFlagRequired("source")

	contextCmd.AddCommand(contextAddCmd)
	rootCmd.AddCommand(contextCmd)
}

type contextAddResult struct {
	Stored bool   `json:"stored" yaml:"stored"`
	Source string `json:"source" yaml:"source"`
}

func runContextAdd(cmd *cobra.Command, args []string) error {
	if err := requireService("document", documentService != nil); err != nil {
		return err
	}

	stored, err := documentService.AddContext(cmd.Context(), domain.ContextEntry{
		Content:   args[0],
		Source:    strings.TrimSpace(contextSource),
		Channel:   contextChannel,
		Author:    contextAuthor,
		Timestamp: contextTimestamp,
		Tags:      contextTags,
		Role:      currentRole(),
	})
	if err != nil && !stored {
		return fmt.Errorf("failed to add context: %w", err)
	}

	result := contextAddResult{Stored: stored, Source: contextSource}
	if rerr := render(cmd, outputFormat, result, func(w io.Writer) {
		if stored {
			fmt.Fprintf(w, "Stored context entry under %s.\n", contextSource)
		} else {
			fmt.Fprintln(w, "Context entry not stored: no embedding could be produced.")
		}
	}); rerr != nil {
		return rerr
	}

	if err != nil {
		// Stored in memory, but the flush failed.
		return fmt.Errorf("context stored but not saved: %w", err)
	}
	if !stored {
		return errors.New("embedding service unavailable")
	}
	return nil
}
