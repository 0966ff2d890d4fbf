// Package pipeline orchestrates one conversion end to end: parse and
// validate a bridge payload, combine viewports on a canvas, and persist
// fingerprints for re-import. Conversion-scoped state (style map, component
// map, name registry) is created fresh per run and never shared.
package pipeline

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"

	"github.com/pagebridge/pagebridge/bridge"
	"github.com/pagebridge/pagebridge/dbopen"
	"github.com/pagebridge/pagebridge/extractor"
	"github.com/pagebridge/pagebridge/generate"
	"github.com/pagebridge/pagebridge/idgen"
	"github.com/pagebridge/pagebridge/kit"
	"github.com/pagebridge/pagebridge/reimport"
	"github.com/pagebridge/pagebridge/variants"
)

// Report is the user-facing outcome of one conversion. Degraded sub-steps
// are counted, not fatal: a partially successful conversion is still
// usable.
type Report struct {
	ConversionID string          `json:"conversionId"`
	Group        generate.NodeID `json:"group"`
	Variants     int             `json:"variants"`
	Stats        generate.Stats  `json:"stats"`
	Fingerprints int             `json:"fingerprints"`
}

// Pipeline wires the extractor, converter, and fingerprint store.
type Pipeline struct {
	cfg *Config
	ext *extractor.Extractor
	db  *sql.DB
	fps *reimport.Store
	log *slog.Logger
	ids idgen.Generator
}

// New builds a Pipeline from config. The fingerprint store opens lazily on
// first use when StorePath is set.
func New(cfg *Config, log *slog.Logger) (*Pipeline, error) {
	if cfg == nil {
		cfg = Default()
	}
	if log == nil {
		log = slog.Default()
	}

	p := &Pipeline{
		cfg: cfg,
		log: log,
		ids: idgen.Prefixed("conv_", idgen.UUIDv7()),
		ext: extractor.New(extractor.Config{
			Mode:            cfg.Extractor.Mode,
			RemoteURL:       cfg.Extractor.RemoteURL,
			NavigateTimeout: cfg.Extractor.NavigateTimeout,
			Settings:        cfg.Settings,
			Logger:          log,
		}),
	}

	if cfg.StorePath != "" {
		db, err := dbopen.Open(cfg.StorePath,
			dbopen.WithMkdirAll(),
			dbopen.WithSchema(reimport.Schema),
		)
		if err != nil {
			return nil, fmt.Errorf("pipeline: open store: %w", err)
		}
		p.db = db
		p.fps = reimport.NewStore(db)
	}
	return p, nil
}

// Start launches the extractor's browser.
func (p *Pipeline) Start(ctx context.Context) error { return p.ext.Start(ctx) }

// Close releases the browser and the store.
func (p *Pipeline) Close() error {
	err := p.ext.Close()
	if p.db != nil {
		if cerr := p.db.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Extract captures a page at the given widths (the configured defaults when
// none are passed) and returns the serialized bridge payload.
func (p *Pipeline) Extract(ctx context.Context, pageURL string, widths []int) ([]byte, error) {
	if len(widths) == 0 {
		widths = p.cfg.Viewports
	}
	multi, err := p.ext.ExtractViewports(ctx, pageURL, widths)
	if err != nil {
		return nil, err
	}
	return bridge.MarshalMulti(multi)
}

// Convert runs one conversion of a payload onto a canvas. The payload is
// validated first; malformation is the single terminal error and commits
// nothing. On success the widest viewport's fingerprint map is mirrored
// into the store, keyed by page URL.
func (p *Pipeline) Convert(ctx context.Context, canvas variants.Canvas, payload []byte) (*Report, error) {
	multi, err := bridge.ParsePayload(payload)
	if err != nil {
		return nil, err
	}

	convID := p.ids()
	ctx = kit.WithConversionID(ctx, convID)

	res, err := variants.Combine(canvas, multi, p.cfg.Settings, p.log)
	if err != nil {
		return nil, err
	}

	report := &Report{
		ConversionID: convID,
		Group:        res.Group,
		Variants:     res.Variants,
		Stats:        res.Stats,
	}

	widest := widestCapture(multi)
	if widest != nil && widest.Result != nil && widest.Result.Root != nil {
		m := reimport.BuildFingerprintMap(widest.Result.Root)
		report.Fingerprints = len(m)
		if p.fps != nil {
			if err := p.fps.Save(ctx, widest.Result.URL, m); err != nil {
				// Store failure degrades re-import, not the conversion.
				p.log.Warn("fingerprint save failed", "url", widest.Result.URL, "err", err)
			}
		}
	}

	p.log.Info("conversion finished",
		"conversion", convID,
		"variants", report.Variants,
		"nodes", report.Stats.Nodes,
		"styles", report.Stats.Styles,
		"components", report.Stats.Components,
		"degraded", report.Stats.Degraded,
	)
	return report, nil
}

// DiffPayloads diffs two payloads' widest viewports by fingerprint path.
func (p *Pipeline) DiffPayloads(oldPayload, newPayload []byte) (*reimport.Diff, error) {
	oldRoot, err := widestRoot(oldPayload)
	if err != nil {
		return nil, err
	}
	newRoot, err := widestRoot(newPayload)
	if err != nil {
		return nil, err
	}
	d := reimport.ComputeDiff(
		reimport.BuildFingerprintMap(newRoot),
		reimport.BuildFingerprintMap(oldRoot),
	)
	return &d, nil
}

// DiffStored diffs a new payload against the fingerprints persisted by the
// previous conversion of the same page URL.
func (p *Pipeline) DiffStored(ctx context.Context, payload []byte) (*reimport.Diff, error) {
	if p.fps == nil {
		return nil, fmt.Errorf("pipeline: no fingerprint store configured")
	}
	multi, err := bridge.ParsePayload(payload)
	if err != nil {
		return nil, err
	}
	widest := widestCapture(multi)
	if widest == nil || widest.Result == nil || widest.Result.Root == nil {
		return nil, fmt.Errorf("pipeline: payload has no usable capture")
	}

	existing, err := p.fps.Load(ctx, widest.Result.URL)
	if err != nil {
		return nil, err
	}
	d := reimport.ComputeDiff(reimport.BuildFingerprintMap(widest.Result.Root), existing)
	return &d, nil
}

func widestCapture(multi *bridge.MultiViewportResult) *bridge.ViewportCapture {
	var best *bridge.ViewportCapture
	for i := range multi.Viewports {
		vc := &multi.Viewports[i]
		if vc.Result == nil || vc.Result.Root == nil {
			continue
		}
		if best == nil || vc.Width > best.Width {
			best = vc
		}
	}
	return best
}

func widestRoot(payload []byte) (*bridge.BridgeNode, error) {
	multi, err := bridge.ParsePayload(payload)
	if err != nil {
		return nil, err
	}
	vc := widestCapture(multi)
	if vc == nil {
		return nil, fmt.Errorf("pipeline: payload has no usable capture")
	}
	return vc.Result.Root, nil
}
