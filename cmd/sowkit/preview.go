package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/HendryAvila/sowkit/internal/diagnostic"
	"github.com/HendryAvila/sowkit/internal/engagement"
	"github.com/HendryAvila/sowkit/internal/templates"
	"github.com/HendryAvila/sowkit/internal/tools"
	"github.com/HendryAvila/sowkit/internal/watch"
)

var (
	previewItems string
	previewJSON  bool
	previewWatch bool
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print the engagement preview for a diagnostic run",
	Long: `Reads diagnostic items (a JSON array) from --items and prints the
engagement preview. With --watch the preview is printed again every time
the file is saved.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if previewItems == "" {
			return fmt.Errorf("--items is required")
		}

		provider, _, closeStore, err := openProvider(cfg, logger)
		if err != nil {
			return err
		}
		defer closeStore()

		renderer, err := templates.NewRenderer()
		if err != nil {
			return fmt.Errorf("creating template renderer: %w", err)
		}

		p := &previewer{
			path:     previewItems,
			asJSON:   previewJSON,
			catalog:  provider,
			opts:     cfg.EngagementOptions(),
			renderer: renderer,
			out:      cmd.OutOrStdout(),
		}
		if !previewWatch {
			return p.print(cmd.Context())
		}
		return p.watch(cmd.Context(), logger)
	},
}

func init() {
	previewCmd.Flags().StringVarP(&previewItems, "items", "i", "", "JSON file with the diagnostic items")
	previewCmd.Flags().BoolVar(&previewJSON, "json", false, "Print the preview as JSON")
	previewCmd.Flags().BoolVarP(&previewWatch, "watch", "w", false, "Recompute whenever the items file changes")
}

type previewer struct {
	path     string
	asJSON   bool
	catalog  tools.CatalogSource
	opts     engagement.Options
	renderer templates.Renderer
	out      io.Writer
}

func (p *previewer) print(ctx context.Context) error {
	items, err := diagnostic.LoadFile(p.path)
	if err != nil {
		return err
	}

	result := engagement.ComputePreview(items, p.catalog.Snapshot(ctx).Entries, p.opts)

	if p.asJSON {
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	text, err := p.renderer.Render(templates.Preview, result)
	if err != nil {
		return fmt.Errorf("rendering preview: %w", err)
	}
	_, err = fmt.Fprintln(p.out, text)
	return err
}

// watch prints once, then again after every save until ctx is done. A
// file caught mid-save is logged and the next event retried.
func (p *previewer) watch(ctx context.Context, logger *zap.Logger) error {
	if err := p.print(ctx); err != nil {
		logger.Warn("preview failed", zap.Error(err))
	}

	w, err := watch.New([]string{p.path}, watch.DefaultDelay, func() {
		if err := p.print(ctx); err != nil {
			logger.Warn("preview failed", zap.Error(err))
		}
	}, logger)
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Stop()

	<-ctx.Done()
	return nil
}
