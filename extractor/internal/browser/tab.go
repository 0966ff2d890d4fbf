package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// widthOverrideID is the id of the injected style element constraining the
// page width during multi-viewport capture. A fixed id keeps the injection
// idempotent: re-injecting replaces the previous override.
const widthOverrideID = "__pagebridge_viewport_override"

// settleDelay is the fixed wait after a layout-affecting mutation before
// styles are read back.
const settleDelay = 400 * time.Millisecond

// Tab wraps a Rod page with extraction-specific setup.
type Tab struct {
	Page    *rod.Page
	PageURL string
	manager *Manager
}

// OpenTab creates a stealth tab and navigates it to the URL.
func OpenTab(ctx context.Context, mgr *Manager, pageURL string) (*Tab, error) {
	b := mgr.Browser()
	if b == nil {
		return nil, fmt.Errorf("browser: no active browser")
	}

	var page *rod.Page
	var err error
	if mgr.cfg.Mode >= ModeHeadless {
		page, err = stealth.Page(b)
	} else {
		page, err = b.Page(proto.TargetCreateTarget{URL: ""})
	}
	if err != nil {
		return nil, fmt.Errorf("browser: create tab: %w", err)
	}

	navCtx, cancel := context.WithTimeout(ctx, mgr.cfg.NavigateTimeout)
	defer cancel()

	if err := page.Context(navCtx).Navigate(pageURL); err != nil {
		page.Close()
		return nil, fmt.Errorf("browser: navigate %s: %w", pageURL, err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		mgr.cfg.Logger.Warn("browser: wait load timeout", "url", pageURL, "error", err)
	}

	return &Tab{Page: page, PageURL: pageURL, manager: mgr}, nil
}

// EvalJSON runs a JS function in the page and unmarshals its JSON-able
// return value into out.
func (t *Tab) EvalJSON(ctx context.Context, js string, out any) error {
	res, err := t.Page.Context(ctx).Eval(js)
	if err != nil {
		return fmt.Errorf("browser: eval: %w", err)
	}
	data, err := res.Value.MarshalJSON()
	if err != nil {
		return fmt.Errorf("browser: marshal eval result: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("browser: decode eval result: %w", err)
	}
	return nil
}

// ConstrainWidth injects a max-width override so the page reflows at the
// given width, then waits the settle delay. Idempotent: calling again with
// another width replaces the override.
func (t *Tab) ConstrainWidth(ctx context.Context, width int) error {
	js := fmt.Sprintf(`() => {
		let el = document.getElementById(%q);
		if (!el) {
			el = document.createElement('style');
			el.id = %q;
			document.head.appendChild(el);
		}
		el.textContent = 'html, body { max-width: %dpx !important; margin: 0 auto !important; }';
	}`, widthOverrideID, widthOverrideID, width)
	if _, err := t.Page.Context(ctx).Eval(js); err != nil {
		return fmt.Errorf("browser: constrain width: %w", err)
	}
	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width: width, Height: 0, DeviceScaleFactor: 1, Mobile: width <= 480,
	}).Call(t.Page); err != nil {
		t.manager.cfg.Logger.Warn("browser: device metrics override failed", "error", err)
	}
	t.settle(ctx)
	return nil
}

// RestoreWidth removes the override and emulation. Safe to call when
// nothing was injected.
func (t *Tab) RestoreWidth(ctx context.Context) error {
	js := fmt.Sprintf(`() => {
		const el = document.getElementById(%q);
		if (el) el.remove();
	}`, widthOverrideID)
	if _, err := t.Page.Context(ctx).Eval(js); err != nil {
		return fmt.Errorf("browser: restore width: %w", err)
	}
	if err := (proto.EmulationClearDeviceMetricsOverride{}).Call(t.Page); err != nil {
		t.manager.cfg.Logger.Warn("browser: clear device metrics failed", "error", err)
	}
	t.settle(ctx)
	return nil
}

func (t *Tab) settle(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(settleDelay):
	}
}

// Close closes the tab.
func (t *Tab) Close() error {
	if t.Page != nil {
		return t.Page.Close()
	}
	return nil
}
