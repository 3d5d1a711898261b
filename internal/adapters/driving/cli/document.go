package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Shaun-Gulati/internal-assistant/internal/core/domain"
)

var uploadReplace bool

var uploadCmd = &cobra.Command{
	Use:   "upload [file...]",
	Short: "Upload documents into the store",
	Long: `Extracts text from PDF and Word documents, splits it into overlapping
chunks, embeds each chunk and stores it.

A file whose name is already stored is reported as a duplicate unless
--replace is given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

var replaceCmd = &cobra.Command{
	Use:   "replace [file]",
	Short: "Replace a stored document with a new version",
	Args:  cobra.ExactArgs(1),
	RunE:  runReplace,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List uploaded documents",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var deleteCmd = &cobra.Command{
	Use:   "delete [filename]",
	Short: "Delete an uploaded document",
	Long:  `Removes every chunk of the named document that the current role can see.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var checkCmd = &cobra.Command{
	Use:   "check [filename]",
	Short: "Check whether a document is already stored",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Flush the store to disk",
	Args:  cobra.NoArgs,
	RunE:  runSave,
}

func init() {
	uploadCmd.Flags().BoolVar(&uploadReplace, "replace", false, "replace documents that are already stored")

	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(replaceCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(saveCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	if err := requireService("document", documentService != nil); err != nil {
		return err
	}

	role := currentRole()
	reqs := make([]domain.IngestRequest, 0, len(args))
	for _, path := range args {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		reqs = append(reqs, domain.IngestRequest{
			Content:         content,
			Filename:        filepath.Base(path),
			Role:            role,
			ReplaceExisting: uploadReplace,
		})
	}

	summary := documentService.ProcessBatch(cmd.Context(), reqs)
	return render(cmd, outputFormat, summary, func(w io.Writer) {
		for i := range summary.Results {
			printIngestResult(w, &summary.Results[i])
		}
		fmt.Fprintf(w, "\nProcessed %d of %d files, %d chunks added.\n",
			summary.FilesProcessed, len(reqs), summary.ChunksAdded)
		if len(summary.DuplicatesFound) > 0 {
			fmt.Fprintln(w, "Already stored (use --replace or 'assistant replace' to update):")
			for _, name := range summary.DuplicatesFound {
				fmt.Fprintf(w, "  %s\n", name)
			}
		}
	})
}

func runReplace(cmd *cobra.Command, args []string) error {
	if err := requireService("document", documentService != nil); err != nil {
		return err
	}

	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	result := documentService.ProcessDocument(cmd.Context(), domain.IngestRequest{
		Content:         content,
		Filename:        filepath.Base(args[0]),
		Role:            currentRole(),
		ReplaceExisting: true,
	})
	if err := render(cmd, outputFormat, result, func(w io.Writer) { printIngestResult(w, &result) }); err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("replace failed: %w", result.Err)
	}
	return nil
}

func printIngestResult(w io.Writer, r *domain.IngestResult) {
	switch {
	case r.Success && r.ChunksAdded < r.TotalChunks:
		fmt.Fprintf(w, "~ %s: %d of %d chunks stored (%s)\n", r.Filename, r.ChunksAdded, r.TotalChunks, humanSize(r.FileSize))
	case r.Success && r.Replaced:
		fmt.Fprintf(w, "✓ %s: replaced, %d chunks (%s)\n", r.Filename, r.ChunksAdded, humanSize(r.FileSize))
	case r.Success:
		fmt.Fprintf(w, "✓ %s: %d chunks (%s)\n", r.Filename, r.ChunksAdded, humanSize(r.FileSize))
	case r.Duplicate:
		fmt.Fprintf(w, "= %s: already stored\n", r.Filename)
	default:
		fmt.Fprintf(w, "✗ %s: %s\n", r.Filename, r.Error)
	}
}

func runList(cmd *cobra.Command, _ []string) error {
	if err := requireService("document", documentService != nil); err != nil {
		return err
	}

	docs, err := documentService.List(cmd.Context(), currentRole())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}
	if docs == nil {
		docs = []domain.DocumentSummary{}
	}

	return render(cmd, outputFormat, docs, func(w io.Writer) {
		if len(docs) == 0 {
			fmt.Fprintln(w, "No documents uploaded.")
			return
		}
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "FILENAME\tTYPE\tCHUNKS\tUPLOADED")
		for _, d := range docs {
			uploaded := "-"
			if !d.UploadedAt.IsZero() {
				uploaded = d.UploadedAt.Local().Format("2006-01-02 15:04")
			}
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", d.Filename, d.FileType, d.ChunkCount, uploaded)
		}
		tw.Flush()
	})
}

func runDelete(cmd *cobra.Command, args []string) error {
	if err := requireService("document", documentService != nil); err != nil {
		return err
	}

	result := documentService.Delete(cmd.Context(), args[0], currentRole())
	if err := render(cmd, outputFormat, result, func(w io.Writer) {
		switch {
		case !result.Success:
			fmt.Fprintf(w, "Failed to delete %s: %s\n", args[0], result.Error)
		case result.ChunksRemoved == 0:
			fmt.Fprintf(w, "No stored document named %s.\n", args[0])
		default:
			fmt.Fprintf(w, "Deleted %s (%d chunks).\n", args[0], result.ChunksRemoved)
		}
	}); err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("delete failed: %s", result.Error)
	}
	return nil
}

type checkResult struct {
	Filename string `json:"filename" yaml:"filename"`
	Exists   bool   `json:"exists" yaml:"exists"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	if err := requireService("document", documentService != nil); err != nil {
		return err
	}

	name := filepath.Base(args[0])
	result := checkResult{Filename: name, Exists: documentService.CheckDuplicate(cmd.Context(), name, currentRole())}
	return render(cmd, outputFormat, result, func(w io.Writer) {
		if result.Exists {
			fmt.Fprintf(w, "%s is already stored.\n", name)
		} else {
			fmt.Fprintf(w, "%s is not stored.\n", name)
		}
	})
}

func runSave(cmd *cobra.Command, _ []string) error {
	if err := requireService("document", documentService != nil); err != nil {
		return err
	}

	result, err := documentService.Save(cmd.Context())
	if err != nil {
		return fmt.Errorf("save failed: %w", err)
	}
	return render(cmd, outputFormat, result, func(w io.Writer) {
		fmt.Fprintf(w, "Saved %d documents and %d embeddings to %s\n",
			result.DocumentsCount, result.EmbeddingsCount, result.Location)
	})
}
