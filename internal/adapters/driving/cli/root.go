// Package cli implements the assistant command line with cobra.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Shaun-Gulati/internal-assistant/internal/core/domain"
	"github.com/Shaun-Gulati/internal-assistant/internal/core/ports/driving"
	"github.com/Shaun-Gulati/internal-assistant/internal/logger"
)

// Services holds the core services the commands drive.
type Services struct {
	Document driving.DocumentService
	Search   driving.SearchService
	Settings driving.SettingsService

	// NewInbox builds an inbox watcher for dir. Optional.
	NewInbox func(dir string, role domain.Role) driving.InboxService

	// Close releases resources such as the embedding client and database.
	Close func() error
}

// Bootstrap builds the services for a config directory.
// An empty configDir selects the default location.
type Bootstrap func(configDir string) (*Services, error)

var (
	documentService driving.DocumentService
	searchService   driving.SearchService
	settingsService driving.SettingsService
	newInbox        func(dir string, role domain.Role) driving.InboxService
	closeServices   func() error

	bootstrap Bootstrap
	version   = "dev"
)

// Global flags.
var (
	verbose      bool
	roleFlag     string
	configDir    string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "assistant",
	Short: "Internal knowledge assistant",
	Long: `assistant keeps a local semantic store of uploaded documents and
workplace context, and answers similarity searches filtered by role.

Upload PDF and Word documents, search them by meaning, and expose the
store to AI assistants over MCP.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		return teardown()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&roleFlag, "role", "r", "", "role to act as (default from settings)")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.assistant)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", formatTable, "output format: table, json or yaml")
}

// SetBootstrap registers the function that wires services on startup.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices installs services directly, bypassing the bootstrap.
func SetServices(s *Services) {
	if s == nil {
		documentService, searchService, settingsService = nil, nil, nil
		newInbox, closeServices = nil, nil
		return
	}
	documentService = s.Document
	searchService = s.Search
	settingsService = s.Settings
	newInbox = s.NewInbox
	closeServices = s.Close
}

// Execute runs the root command.
func Execute(v string) error {
	if v != "" {
		version = v
	}
	return rootCmd.Execute()
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	logger.SetOutput(cmd.ErrOrStderr())

	if err := validateOutputFormat(outputFormat); err != nil {
		return err
	}
	if skipBootstrap(cmd) || bootstrap == nil || documentService != nil {
		return nil
	}

	services, err := bootstrap(configDir)
	if err != nil {
		return err
	}
	SetServices(services)
	return nil
}

func teardown() error {
	if closeServices == nil {
		return nil
	}
	err := closeServices()
	closeServices = nil
	return err
}

// skipBootstrap reports whether cmd runs without services.
func skipBootstrap(cmd *cobra.Command) bool {
	return cmd == versionCmd || cmd.Name() == "help" || cmd.Name() == "completion"
}

// currentRole returns --role, else the configured default, else RoleUser.
func currentRole() domain.Role {
	if roleFlag != "" {
		return domain.Role(roleFlag)
	}
	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil && settings.DefaultRole != "" {
			return settings.DefaultRole
		}
	}
	return domain.RoleUser
}

var errNotConfigured = errors.New("not configured")

func requireService(name string, ok bool) error {
	if !ok {
		return fmt.Errorf("%s service %w", name, errNotConfigured)
	}
	return nil
}
