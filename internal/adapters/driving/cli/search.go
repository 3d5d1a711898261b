package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Shaun-Gulati/internal-assistant/internal/core/domain"
)

const snippetLength = 160

var (
	searchLimit    int
	searchJSON     bool
	searchUploaded bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search stored documents and context",
	Long: `Embeds the query and ranks stored chunks by cosine similarity.
Only sources the current role may read are returned.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (0 = configured default)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().BoolVar(&searchUploaded, "uploaded", false, "only search uploaded documents")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := requireService("search", searchService != nil); err != nil {
		return err
	}

	if !searchService.IsConnected() {
		cmd.PrintErrln("Embedding service not configured; run 'assistant settings embedding' to enable search.")
	}

	results, err := searchService.Search(cmd.Context(), args[0], currentRole(), domain.SearchOptions{
		Limit:        searchLimit,
		UploadedOnly: searchUploaded,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	format := outputFormat
	if searchJSON {
		format = formatJSON
	}
	return render(cmd, format, results, func(w io.Writer) { printSearchResults(w, results) })
}

func printSearchResults(w io.Writer, results []domain.SearchResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintln(w, "Results:")
	fmt.Fprintln(w)
	for i := range results {
		r := &results[i]
		title := r.Metadata.Filename
		if title == "" {
			title = r.Source
		}
		fmt.Fprintf(w, "  [%d] %s (%.3f)\n", i+1, title, r.Score)
		if r.Metadata.Filename != "" {
			fmt.Fprintf(w, "      Chunk %d of %d\n", r.Metadata.ChunkIndex+1, r.Metadata.TotalChunks)
		} else {
			fmt.Fprintf(w, "      Source: %s\n", r.Source)
		}
		fmt.Fprintf(w, "      %s\n", snippet(r.Content, snippetLength))
		fmt.Fprintln(w)
	}
}

// snippet collapses whitespace and truncates to n runes.
func snippet(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
