// Package extractor encodes a live web page into the bridge contract: one
// injected walker captures raw presentation data, all inference (layout,
// classification, hashing, tokens, components) runs in Go.
package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/pagebridge/pagebridge/bridge"
	"github.com/pagebridge/pagebridge/components"
	"github.com/pagebridge/pagebridge/extractor/internal/browser"
	"github.com/pagebridge/pagebridge/tokens"
)

// Fetch modes. ModeHTTP skips the browser entirely and falls back to a
// static snapshot.
const (
	ModeHTTP     = "http"
	ModeHeadless = "headless"
	ModeHeadful  = "headful"
)

// Config configures an Extractor.
type Config struct {
	// Mode is one of ModeHTTP, ModeHeadless, ModeHeadful. Default headless.
	Mode string

	// RemoteURL connects to an external Chrome instead of launching one.
	RemoteURL string

	// NavigateTimeout bounds navigation plus load wait.
	NavigateTimeout time.Duration

	Settings bridge.Settings
	Logger   *slog.Logger
}

// Extractor drives a browser to capture pages. In ModeHTTP no browser is
// started and extraction degrades to a static snapshot.
type Extractor struct {
	mgr  *browser.Manager
	set  bridge.Settings
	log  *slog.Logger
	mode string
}

// New creates an Extractor. Call Start before extracting (a no-op in
// ModeHTTP), and Close when done.
func New(cfg Config) *Extractor {
	cfg.Settings.ApplyDefaults()
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeHeadless
	}
	bcfg := browser.Config{
		RemoteURL:       cfg.RemoteURL,
		NavigateTimeout: cfg.NavigateTimeout,
		Logger:          cfg.Logger,
		Mode:            browser.ModeHeadless,
	}
	if cfg.Mode == ModeHeadful {
		bcfg.Mode = browser.ModeHeadful
	}
	return &Extractor{
		mgr:  browser.NewManager(bcfg),
		set:  cfg.Settings,
		log:  cfg.Logger,
		mode: cfg.Mode,
	}
}

// Start launches the browser.
func (e *Extractor) Start(ctx context.Context) error {
	if e.mode == ModeHTTP {
		return nil
	}
	if _, err := e.mgr.Start(ctx); err != nil {
		return fmt.Errorf("extractor: %w", err)
	}
	return nil
}

// Close shuts the browser down.
func (e *Extractor) Close() error { return e.mgr.Close() }

// ExtractPage captures one page at the browser's natural viewport.
func (e *Extractor) ExtractPage(ctx context.Context, pageURL string) (*bridge.ExtractionResult, error) {
	if e.mode == ModeHTTP {
		return e.snapshot(ctx, pageURL)
	}

	tab, err := browser.OpenTab(ctx, e.mgr, pageURL)
	if err != nil {
		return nil, fmt.Errorf("extractor: %w", err)
	}
	defer tab.Close()

	return e.capture(ctx, tab, pageURL)
}

// ExtractViewports captures one page at several widths through a single
// navigation, constraining the page width per capture and restoring it
// afterwards. Widths are captured widest first so the first entry is the
// token-defining one downstream.
func (e *Extractor) ExtractViewports(ctx context.Context, pageURL string, widths []int) (*bridge.MultiViewportResult, error) {
	if len(widths) == 0 {
		res, err := e.ExtractPage(ctx, pageURL)
		if err != nil {
			return nil, err
		}
		data, err := bridge.MarshalResult(res)
		if err != nil {
			return nil, fmt.Errorf("extractor: %w", err)
		}
		return bridge.ParsePayload(data)
	}
	if e.mode == ModeHTTP {
		return nil, fmt.Errorf("extractor: multi-viewport capture needs a browser")
	}

	sorted := append([]int(nil), widths...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	tab, err := browser.OpenTab(ctx, e.mgr, pageURL)
	if err != nil {
		return nil, fmt.Errorf("extractor: %w", err)
	}
	defer tab.Close()
	defer func() {
		if err := tab.RestoreWidth(context.WithoutCancel(ctx)); err != nil {
			e.log.Warn("viewport restore failed", "err", err)
		}
	}()

	multi := &bridge.MultiViewportResult{Type: bridge.MultiViewportDiscriminant}
	for _, w := range sorted {
		if err := tab.ConstrainWidth(ctx, w); err != nil {
			return nil, fmt.Errorf("extractor: %w", err)
		}
		res, err := e.capture(ctx, tab, pageURL)
		if err != nil {
			return nil, err
		}
		multi.Viewports = append(multi.Viewports, bridge.ViewportCapture{
			Label:  bridge.ViewportLabel(w),
			Width:  w,
			Height: res.Viewport.Height,
			Result: res,
		})
	}
	return multi, nil
}

// capture runs the walker in the tab and assembles the extraction result.
func (e *Extractor) capture(ctx context.Context, tab *browser.Tab, pageURL string) (*bridge.ExtractionResult, error) {
	var page rawPage
	if err := tab.EvalJSON(ctx, walkerJS, &page); err != nil {
		return nil, fmt.Errorf("extractor: walk page: %w", err)
	}
	if page.Root == nil {
		return nil, fmt.Errorf("extractor: page has no body")
	}
	return e.assemble(ctx, &page, pageURL), nil
}

// assemble runs the Go-side inference over one raw capture.
func (e *Extractor) assemble(ctx context.Context, page *rawPage, pageURL string) *bridge.ExtractionResult {
	root := convertTree(page.Root, e.set.MaxDepth)
	inlineImages(ctx, root, pageURL, e.set.ImageQuality, e.log)

	framework := classifyFramework(page.Signals, page.Generator)
	meta := pageMeta(page, framework)

	var comps []bridge.DetectedComponent
	if e.set.CreateComponents {
		hashed := components.Detect(root, components.DefaultThreshold)
		if e.set.SiteAware && meta.DesignToolSite {
			named := components.DetectBoundaries(root, components.BoundaryThreshold)
			comps = components.Merge(hashed, named)
		} else {
			comps = hashed
		}
	}

	url := page.URL
	if url == "" {
		url = pageURL
	}
	return &bridge.ExtractionResult{
		URL:        url,
		Viewport:   page.Viewport,
		Timestamp:  time.Now().UnixMilli(),
		Framework:  framework,
		Root:       root,
		Tokens:     tokens.Scan(root, page.Variables),
		Components: comps,
		Fonts:      page.Fonts,
		Meta:       meta,
	}
}
