// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates concrete implementations
// and injects them into the tools/prompts/resources that depend on
// small interfaces. No business logic lives here, only wiring.
package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/HendryAvila/sowkit/internal/catalog"
	"github.com/HendryAvila/sowkit/internal/config"
	"github.com/HendryAvila/sowkit/internal/prompts"
	"github.com/HendryAvila/sowkit/internal/resources"
	"github.com/HendryAvila/sowkit/internal/sow"
	"github.com/HendryAvila/sowkit/internal/templates"
	"github.com/HendryAvila/sowkit/internal/tools"
	"github.com/HendryAvila/sowkit/internal/watch"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools, prompts,
// and resources registered.
//
// The returned cleanup function closes the catalog database and stops
// the static catalog watcher. It is always non-nil and safe to call even
// if those subsystems never started.
func New(cfg config.Config, logger *zap.Logger) (*server.MCPServer, func(), error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	// --- Create shared dependencies ---

	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, noop, fmt.Errorf("creating template renderer: %w", err)
	}

	opts := cfg.EngagementOptions()

	fallback, err := LoadFallback(cfg.Catalog.StaticPath)
	if err != nil {
		return nil, noop, err
	}

	sowStore := sow.NewFileStore(cfg.SOWDir())

	// The live catalog is optional: without it every call is priced
	// against the static fallback.
	var live catalog.Source
	catStore, catErr := catalog.New(catalog.Config{
		Path:             cfg.Catalog.Database,
		MaxSearchResults: cfg.Catalog.MaxSearchResults,
	})
	if catErr != nil {
		logger.Warn("live catalog disabled, using static fallback", zap.Error(catErr))
	} else {
		live = catStore
	}
	provider := catalog.NewProvider(live, fallback, logger.Named("catalog"))

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"sowkit",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register engagement tools ---

	selectTool := tools.NewSelectPriorityTool()
	s.AddTool(selectTool.Definition(), selectTool.Handle)

	enrichTool := tools.NewEnrichTool(provider, opts)
	s.AddTool(enrichTool.Definition(), enrichTool.Handle)

	groupTool := tools.NewGroupItemsTool()
	s.AddTool(groupTool.Definition(), groupTool.Handle)

	previewTool := tools.NewPreviewTool(provider, opts, renderer)
	s.AddTool(previewTool.Definition(), previewTool.Handle)

	catalogListTool := tools.NewCatalogListTool(provider)
	s.AddTool(catalogListTool.Definition(), catalogListTool.Handle)

	// --- Register SOW tools ---

	createTool := tools.NewSOWCreateTool(sowStore, provider, opts, renderer)
	s.AddTool(createTool.Definition(), createTool.Handle)

	getTool := tools.NewSOWGetTool(sowStore, renderer)
	s.AddTool(getTool.Definition(), getTool.Handle)

	listTool := tools.NewSOWListTool(sowStore, renderer)
	s.AddTool(listTool.Definition(), listTool.Handle)

	transitionTool := tools.NewSOWTransitionTool(sowStore)
	s.AddTool(transitionTool.Definition(), transitionTool.Handle)

	editTool := tools.NewSOWEditSectionTool(sowStore, opts, renderer)
	s.AddTool(editTool.Definition(), editTool.Handle)

	// --- Register live catalog tools ---
	//
	// Only when the database opened; the read-side tools above keep
	// working on the fallback either way.

	cleanups := []func(){}
	if catErr == nil {
		cleanups = append(cleanups, func() {
			if err := catStore.Close(); err != nil {
				logger.Warn("catalog store close", zap.Error(err))
			}
		})
		registerCatalogTools(s, catStore, provider)
	}

	// --- Watch the static catalog ---

	if cfg.Catalog.Watch && cfg.Catalog.StaticPath != "" {
		stop, err := watchFallback(cfg.Catalog.StaticPath, provider, logger.Named("watch"))
		if err != nil {
			logger.Warn("static catalog watch disabled", zap.Error(err))
		} else {
			cleanups = append(cleanups, stop)
		}
	}

	// --- Register prompts ---

	draftPrompt := prompts.NewDraftPrompt()
	s.AddPrompt(draftPrompt.Definition(), draftPrompt.Handle)

	statusPrompt := prompts.NewStatusPrompt()
	s.AddPrompt(statusPrompt.Definition(), statusPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(provider, opts)
	s.AddResource(resourceHandler.TiersResource(), resourceHandler.HandleTiers)
	s.AddResource(resourceHandler.CatalogResource(), resourceHandler.HandleCatalog)

	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}
	return s, cleanup, nil
}

// noop is the cleanup returned when New fails before anything started.
func noop() {}

// registerCatalogTools registers the tools that need the SQLite catalog.
func registerCatalogTools(s *server.MCPServer, store *catalog.Store, provider *catalog.Provider) {
	searchTool := tools.NewCatalogSearchTool(store)
	s.AddTool(searchTool.Definition(), searchTool.Handle)

	upsertTool := tools.NewCatalogUpsertTool(store, provider)
	s.AddTool(upsertTool.Definition(), upsertTool.Handle)

	importTool := tools.NewCatalogImportTool(store, provider)
	s.AddTool(importTool.Definition(), importTool.Handle)
}

// LoadFallback returns the static catalog: the file at path when set,
// the embedded table otherwise.
func LoadFallback(path string) ([]catalog.Entry, error) {
	if path == "" {
		entries, err := catalog.DefaultStatic()
		if err != nil {
			return nil, fmt.Errorf("loading embedded catalog: %w", err)
		}
		return entries, nil
	}
	entries, err := catalog.LoadStaticFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading static catalog: %w", err)
	}
	return entries, nil
}

// watchFallback reloads the static catalog into provider whenever path
// changes. A file that fails to parse keeps the previous table.
func watchFallback(path string, provider *catalog.Provider, logger *zap.Logger) (func(), error) {
	reload := func() {
		entries, err := catalog.LoadStaticFile(path)
		if err != nil {
			logger.Warn("static catalog reload failed", zap.String("path", path), zap.Error(err))
			return
		}
		provider.SetFallback(entries)
		provider.Invalidate()
		logger.Info("static catalog reloaded", zap.String("path", path), zap.Int("entries", len(entries)))
	}

	w, err := watch.New([]string{path}, watch.DefaultDelay, reload, logger)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Start(ctx); err != nil {
		cancel()
		return nil, err
	}
	return func() {
		w.Stop()
		cancel()
	}, nil
}

// serverInstructions returns the system instructions that tell the AI
// how to use sowkit.
func serverInstructions() string {
	return `You have access to sowkit, a statement-of-work builder for go-to-market engagements.

## What it does
sowkit turns a GTM diagnostic (a list of assessed items, each with a business
function and a status of healthy, careful, warning or unable) into a priced
engagement proposal: sections, hour ranges, an investment range and a
recommended monthly-hours tier.

## Items
Every engagement tool takes 'items' as a JSON array. Each item has:
- name (required) and function (Marketing, Sales, Customer Success, RevOps, Finance, or anything else)
- status: healthy | careful | warning | unable
- addToEngagement: true when the user flagged it for the engagement
- optional outcome, serviceId and serviceType

An item needs attention when its status is warning or unable, or when it
was flagged. Only those items are priced.

## Workflow
1. sow_select_priority: show the user which items need attention
2. sow_preview: price them against the service catalog and recommend a tier
3. sow_create: store the result as a draft SOW for a customer
4. sow_edit_section: reorder or drop sections while the SOW is a draft
5. sow_transition: submit, approve, reopen or archive
6. sow_list / sow_get: review what is on file

## Catalog
catalog_list shows the services used for pricing and whether they come from
the live catalog or the built-in fallback. When the live catalog is
available, catalog_search, catalog_upsert and catalog_import manage it.
Items that match no service are priced with the default estimate.

## Rules
- Never invent hours or rates: they come from the catalog or the defaults.
- Always show the user the preview before calling sow_create.
- Only drafts can be edited. A SOW in review can be reopened; an approved one is final.`
}
