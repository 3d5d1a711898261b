package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Shaun-Gulati/internal-assistant/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the embedding provider, storage, chunking and the
default role.

Environment variables (OPENAI_API_KEY, OPENAI_EMBEDDING_MODEL, VECTOR_DB_PATH,
ASSISTANT_ROLE) and a .env file in the working directory override stored values.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure embedding provider",
	Long:  `Interactively select the embedding provider, model and API key.`,
	RunE:  runSettingsEmbedding,
}

var (
	storagePath    string
	storageBackend string
)

var settingsStorageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Configure where the store is persisted",
	RunE:  runSettingsStorage,
}

var (
	chunkSize    int
	chunkOverlap int
)

var settingsChunkingCmd = &cobra.Command{
	Use:   "chunking",
	Short: "Configure chunk size and overlap",
	RunE:  runSettingsChunking,
}

var settingsRoleCmd = &cobra.Command{
	Use:       "role [role]",
	Short:     "Set the default role",
	Args:      cobra.ExactArgs(1),
	ValidArgs: roleNames(),
	RunE:      runSettingsRole,
}

func init() {
	settingsStorageCmd.Flags().StringVar(&storagePath, "path", "", "store directory (empty = default)")
	settingsStorageCmd.Flags().StringVar(&storageBackend, "backend", string(domain.StorageBackendJSON), "json or sqlite")
	settingsChunkingCmd.Flags().IntVar(&chunkSize, "size", 1000, "chunk size in characters")
	settingsChunkingCmd.Flags().IntVar(&chunkOverlap, "overlap", 200, "overlap in characters")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsStorageCmd)
	settingsCmd.AddCommand(settingsChunkingCmd)
	settingsCmd.AddCommand(settingsRoleCmd)
	rootCmd.AddCommand(settingsCmd)
}

type settingsView struct {
	Embedding struct {
		Provider   string  `json:"provider" yaml:"provider"`
		Model      string  `json:"model" yaml:"model"`
		BaseURL    string  `json:"base_url,omitempty" yaml:"base_url,omitempty"`
		APIKey     string  `json:"api_key,omitempty" yaml:"api_key,omitempty"`
		RateLimit  float64 `json:"requests_per_second,omitempty" yaml:"requests_per_second,omitempty"`
		Configured bool    `json:"configured" yaml:"configured"`
	} `json:"embedding" yaml:"embedding"`
	Storage struct {
		Path    string `json:"path" yaml:"path"`
		Backend string `json:"backend" yaml:"backend"`
	} `json:"storage" yaml:"storage"`
	Chunking struct {
		Size    int `json:"chunk_size" yaml:"chunk_size"`
		Overlap int `json:"overlap" yaml:"overlap"`
	} `json:"chunking" yaml:"chunking"`
	SearchLimit int                 `json:"search_default_limit" yaml:"search_default_limit"`
	DefaultRole string              `json:"default_role" yaml:"default_role"`
	Access      map[string][]string `json:"access" yaml:"access"`
}

func newSettingsView(s *domain.AppSettings) settingsView {
	var v settingsView
	v.Embedding.Provider = s.Embedding.Provider.String()
	v.Embedding.Model = s.Embedding.Model
	v.Embedding.BaseURL = s.Embedding.BaseURL
	if s.Embedding.APIKey != "" {
		v.Embedding.APIKey = maskAPIKey(s.Embedding.APIKey)
	}
	v.Embedding.RateLimit = s.Embedding.RequestsPerSecond
	v.Embedding.Configured = s.Embedding.IsConfigured()
	v.Storage.Path = s.Storage.Path
	v.Storage.Backend = s.Storage.Backend.String()
	v.Chunking.Size = s.Chunking.ChunkSize
	v.Chunking.Overlap = s.Chunking.Overlap
	v.SearchLimit = s.Search.DefaultLimit
	v.DefaultRole = s.DefaultRole.String()
	v.Access = make(map[string][]string)
	for _, role := range domain.AllRoles() {
		if role.IsAdmin() {
			continue
		}
		v.Access[role.String()] = s.Access.Allowed(role)
	}
	return v
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if err := requireService("settings", settingsService != nil); err != nil {
		return err
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	view := newSettingsView(settings)

	if err := render(cmd, outputFormat, view, func(w io.Writer) { printSettings(w, settings, &view) }); err != nil {
		return err
	}
	if outputFormat != formatTable {
		return nil
	}

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'assistant settings' subcommands to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func printSettings(w io.Writer, s *domain.AppSettings, v *settingsView) {
	fmt.Fprintln(w, "Current Settings")
	fmt.Fprintln(w, "================")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "[Embedding]")
	fmt.Fprintf(w, "  Provider: %s\n", s.Embedding.Provider.Description())
	fmt.Fprintf(w, "  Model: %s\n", s.Embedding.Model)
	if s.Embedding.Provider.IsLocal() {
		fmt.Fprintf(w, "  Base URL: %s\n", s.Embedding.BaseURL)
	}
	if s.Embedding.Provider.RequiresAPIKey() {
		if v.Embedding.APIKey != "" {
			fmt.Fprintf(w, "  API Key: %s\n", v.Embedding.APIKey)
		} else {
			fmt.Fprintln(w, "  API Key: (not set)")
		}
	}
	if s.Embedding.RequestsPerSecond > 0 {
		fmt.Fprintf(w, "  Rate limit: %.1f req/s\n", s.Embedding.RequestsPerSecond)
	}
	status := "configured"
	if !v.Embedding.Configured {
		status = "not configured"
	}
	fmt.Fprintf(w, "  Status: %s\n", status)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "[Storage]")
	fmt.Fprintf(w, "  Path: %s\n", s.Storage.Path)
	fmt.Fprintf(w, "  Backend: %s\n", s.Storage.Backend)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "[Chunking]")
	fmt.Fprintf(w, "  Chunk size: %d\n", s.Chunking.ChunkSize)
	fmt.Fprintf(w, "  Overlap: %d\n", s.Chunking.Overlap)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "[Access]")
	fmt.Fprintf(w, "  Default role: %s\n", s.DefaultRole)
	fmt.Fprintln(w, "  admin: (all sources)")
	for _, role := range domain.AllRoles() {
		if role.IsAdmin() {
			continue
		}
		fmt.Fprintf(w, "  %s: %s\n", role, strings.Join(v.Access[role.String()], ", "))
	}
	fmt.Fprintln(w)
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if err := requireService("settings", settingsService != nil); err != nil {
		return err
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	return configureEmbeddingProvider(cmd, reader)
}

func configureEmbeddingProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select Embedding Provider")
	providers := domain.AllEmbeddingProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [2]: ")
	idx := parseChoice(readLine(reader), len(providers), 2)
	selectedProvider := providers[idx-1]

	defaultModel := domain.DefaultEmbeddingModels()[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword(cmd.InOrStdin(), reader)
		cmd.Println()
		if !domain.HasUsableAPIKey(apiKey) {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetEmbeddingProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure embedding provider: %w", err)
	}

	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateEmbeddingConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("embedding configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("Embedding provider configured: %s (%s)\n", selectedProvider.Description(), model)
	return nil
}

func runSettingsStorage(cmd *cobra.Command, _ []string) error {
	if err := requireService("settings", settingsService != nil); err != nil {
		return err
	}

	if err := settingsService.SetStorage(storagePath, domain.StorageBackend(storageBackend)); err != nil {
		return fmt.Errorf("failed to configure storage: %w", err)
	}
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	cmd.Printf("Storage set to %s (%s)\n", settings.Storage.Path, settings.Storage.Backend)
	return nil
}

func runSettingsChunking(cmd *cobra.Command, _ []string) error {
	if err := requireService("settings", settingsService != nil); err != nil {
		return err
	}

	if err := settingsService.SetChunking(chunkSize, chunkOverlap); err != nil {
		return fmt.Errorf("failed to configure chunking: %w", err)
	}
	cmd.Printf("Chunking set to %d characters with %d overlap\n", chunkSize, chunkOverlap)
	cmd.Println("Existing documents keep their chunks; replace them to re-chunk.")
	return nil
}

func runSettingsRole(cmd *cobra.Command, args []string) error {
	if err := requireService("settings", settingsService != nil); err != nil {
		return err
	}

	if err := settingsService.SetDefaultRole(domain.Role(args[0])); err != nil {
		return fmt.Errorf("failed to set default role: %w", err)
	}
	cmd.Printf("Default role set to %s\n", args[0])
	return nil
}

func roleNames() []string {
	roles := domain.AllRoles()
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = r.String()
	}
	return names
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo when in is an interactive terminal,
// else a plain line from reader.
func readPassword(in io.Reader, reader *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
