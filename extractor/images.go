package extractor

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pagebridge/pagebridge/bridge"
)

// inlineCaps maps the image-quality tier to the maximum raster size, in
// bytes, that gets embedded into the payload. Larger images stay as URLs.
var inlineCaps = map[string]int64{
	"low":    64 << 10,
	"medium": 256 << 10,
	"high":   1 << 20,
}

const imageFetchTimeout = 5 * time.Second

// inlineImages walks the tree and embeds small same-origin raster images as
// bytes. Cross-origin and oversized images keep their URL only; any fetch
// failure is logged and skipped, never fatal.
func inlineImages(ctx context.Context, root *bridge.BridgeNode, pageURL string, quality string, log *slog.Logger) {
	limit, ok := inlineCaps[quality]
	if !ok {
		limit = inlineCaps["medium"]
	}
	page, err := url.Parse(pageURL)
	if err != nil {
		return
	}

	client := &http.Client{Timeout: imageFetchTimeout}
	root.Walk(func(n *bridge.BridgeNode) bool {
		if n.Type != bridge.NodeImage || n.ImageURL == "" {
			return true
		}
		src, err := page.Parse(n.ImageURL)
		if err != nil {
			return true
		}
		if src.Host != page.Host {
			return true
		}
		if strings.HasSuffix(strings.ToLower(src.Path), ".svg") {
			return true
		}

		data, err := fetchCapped(ctx, client, src.String(), limit)
		if err != nil {
			log.Debug("image inline skipped", "url", src.String(), "err", err)
			return true
		}
		if data != nil {
			n.ImageBytes = data
		}
		return true
	})
}

// fetchCapped downloads at most limit+1 bytes. A body larger than the limit
// returns (nil, nil): the image is simply not inlined.
func fetchCapped(ctx context.Context, client *http.Client, u string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, io.ErrUnexpectedEOF
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, nil
	}
	return data, nil
}
