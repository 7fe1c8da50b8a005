// sowkit: GTM statement-of-work builder and MCP server.
//
// Turns a GTM diagnostic into a priced engagement proposal and keeps the
// resulting statements of work on disk.
//
// Usage:
//
//	sowkit serve                      # Start MCP server (stdio transport)
//	sowkit preview --items run.json   # Print the engagement preview
//	sowkit catalog import services.yaml
//	sowkit catalog list
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/HendryAvila/sowkit/internal/catalog"
	"github.com/HendryAvila/sowkit/internal/config"
	"github.com/HendryAvila/sowkit/internal/logging"
	sowserver "github.com/HendryAvila/sowkit/internal/server"
)

var (
	configPath string
	verbose    bool

	cfg    config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "sowkit",
	Short: "GTM statement-of-work builder",
	Long: `sowkit turns a GTM diagnostic into a priced engagement proposal:
priority items, sections, hour and investment ranges and a recommended
monthly-hours tier. Run 'sowkit serve' to expose it as an MCP server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		logger, err = logging.New(level, cfg.Log.Development)
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server on stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, cleanup, err := sowserver.New(cfg, logger)
		if err != nil {
			return fmt.Errorf("creating server: %w", err)
		}
		defer cleanup()

		logger.Info("serving on stdio", zap.String("version", sowserver.Version), zap.String("data_dir", cfg.DataDir))
		return server.ServeStdio(s)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	// Needs no config.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "sowkit v%s\n", sowserver.Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath(), "Config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(serveCmd, previewCmd, catalogCmd, versionCmd)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openProvider builds the catalog provider the CLI commands price
// against. The live store is optional, as in the server; the returned
// store is nil when it could not be opened.
func openProvider(cfg config.Config, logger *zap.Logger) (*catalog.Provider, *catalog.Store, func(), error) {
	fallback, err := sowserver.LoadFallback(cfg.Catalog.StaticPath)
	if err != nil {
		return nil, nil, func() {}, err
	}

	store, err := catalog.New(catalog.Config{
		Path:             cfg.Catalog.Database,
		MaxSearchResults: cfg.Catalog.MaxSearchResults,
	})
	if err != nil {
		logger.Warn("live catalog disabled, using static fallback", zap.Error(err))
		return catalog.NewProvider(nil, fallback, logger), nil, func() {}, nil
	}

	closeStore := func() {
		if err := store.Close(); err != nil {
			logger.Warn("catalog store close", zap.Error(err))
		}
	}
	return catalog.NewProvider(store, fallback, logger), store, closeStore, nil
}
