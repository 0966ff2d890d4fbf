// Command pagebridge converts web pages into design-canvas payloads.
//
// Usage:
//
//	pagebridge -extract https://example.com -out page.json
//	pagebridge -extract https://example.com -viewports 1440,768,375
//	pagebridge -convert page.json
//	pagebridge -diff page.json -old previous.json
//	pagebridge -serve
//	pagebridge -mcp
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pagebridge/pagebridge/generate/memdoc"
	"github.com/pagebridge/pagebridge/pipeline"
	"github.com/pagebridge/pagebridge/relay"
)

func main() {
	_ = godotenv.Load()

	extractURL := flag.String("extract", "", "extract a URL into a bridge payload")
	viewports := flag.String("viewports", "", "comma-separated capture widths (with -extract)")
	outPath := flag.String("out", "", "write the payload to a file instead of stdout")
	convertPath := flag.String("convert", "", "convert a payload file against the in-memory canvas")
	diffPath := flag.String("diff", "", "payload file to diff")
	oldPath := flag.String("old", "", "previous payload file (with -diff); omitted = stored fingerprints")
	serve := flag.Bool("serve", false, "run the loopback relay server")
	mcpMode := flag.Bool("mcp", false, "serve the conversion tools over MCP stdio")
	configPath := flag.String("config", "", "path to pagebridge.yaml")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn, error")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "pagebridge:", err)
		os.Exit(1)
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	logger := newLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, cfg, *extractURL, *viewports, *outPath, *convertPath, *diffPath, *oldPath, *serve, *mcpMode); err != nil {
		logger.Error("pagebridge: fatal", "error", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*pipeline.Config, error) {
	if path == "" {
		if env := os.Getenv("PAGEBRIDGE_CONFIG"); env != "" {
			path = env
		}
	}
	if path == "" {
		return pipeline.Default(), nil
	}
	return pipeline.Load(path)
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

func run(ctx context.Context, logger *slog.Logger, cfg *pipeline.Config,
	extractURL, viewports, outPath, convertPath, diffPath, oldPath string, serve, mcpMode bool) error {

	switch {
	case extractURL != "":
		return runExtract(ctx, logger, cfg, extractURL, viewports, outPath)
	case convertPath != "":
		return runConvert(ctx, logger, cfg, convertPath)
	case diffPath != "":
		return runDiff(ctx, logger, cfg, diffPath, oldPath)
	case serve:
		return relay.New(cfg.Relay.Addr, logger).ListenAndServe(ctx)
	case mcpMode:
		return runMCP(ctx, logger, cfg)
	}

	fmt.Fprintln(os.Stderr, "usage: pagebridge -extract <url> | -convert <file> | -diff <file> [-old <file>] | -serve | -mcp")
	os.Exit(1)
	return nil
}

func runExtract(ctx context.Context, logger *slog.Logger, cfg *pipeline.Config, pageURL, viewports, outPath string) error {
	widths, err := parseWidths(viewports)
	if err != nil {
		return err
	}

	p, err := pipeline.New(cfg, logger)
	if err != nil {
		return err
	}
	defer p.Close()

	if err := p.Start(ctx); err != nil {
		return err
	}

	payload, err := p.Extract(ctx, pageURL, widths)
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}

	if outPath == "" {
		_, err = os.Stdout.Write(payload)
		return err
	}
	if err := os.WriteFile(outPath, payload, 0o644); err != nil {
		return fmt.Errorf("write payload: %w", err)
	}
	logger.Info("payload written", "path", outPath, "bytes", len(payload))
	return nil
}

func runConvert(ctx context.Context, logger *slog.Logger, cfg *pipeline.Config, path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read payload: %w", err)
	}

	p, err := pipeline.New(cfg, logger)
	if err != nil {
		return err
	}
	defer p.Close()

	report, err := p.Convert(ctx, memdoc.New(), payload)
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}
	return printJSON(report)
}

func runDiff(ctx context.Context, logger *slog.Logger, cfg *pipeline.Config, newPath, oldPath string) error {
	newPayload, err := os.ReadFile(newPath)
	if err != nil {
		return fmt.Errorf("read payload: %w", err)
	}

	p, err := pipeline.New(cfg, logger)
	if err != nil {
		return err
	}
	defer p.Close()

	if oldPath != "" {
		oldPayload, err := os.ReadFile(oldPath)
		if err != nil {
			return fmt.Errorf("read old payload: %w", err)
		}
		d, err := p.DiffPayloads(oldPayload, newPayload)
		if err != nil {
			return fmt.Errorf("diff: %w", err)
		}
		return printJSON(d)
	}

	d, err := p.DiffStored(ctx, newPayload)
	if err != nil {
		return fmt.Errorf("diff: %w", err)
	}
	return printJSON(d)
}

func runMCP(ctx context.Context, logger *slog.Logger, cfg *pipeline.Config) error {
	p, err := pipeline.New(cfg, logger)
	if err != nil {
		return err
	}
	defer p.Close()

	if err := p.Start(ctx); err != nil {
		return err
	}

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "pagebridge",
		Version: "1.0.0",
	}, nil)
	p.RegisterMCP(srv)

	logger.Info("mcp server starting", "transport", "stdio")
	return srv.Run(ctx, &mcp.StdioTransport{})
}

func parseWidths(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	var widths []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		w, err := strconv.Atoi(part)
		if err != nil || w <= 0 {
			return nil, fmt.Errorf("invalid viewport width %q", part)
		}
		widths = append(widths, w)
	}
	return widths, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
