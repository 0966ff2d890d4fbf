package pipeline

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pagebridge/pagebridge/generate/memdoc"
	"github.com/pagebridge/pagebridge/kit"
)

// RegisterMCP registers the conversion tools on an MCP server.
func (p *Pipeline) RegisterMCP(srv *mcp.Server) {
	p.registerExtractTool(srv)
	p.registerConvertTool(srv)
	p.registerDiffTool(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// --- extract ---

type extractReq struct {
	URL       string `json:"url"`
	Viewports []int  `json:"viewports"`
}

type extractResp struct {
	Payload json.RawMessage `json:"payload"`
}

func (p *Pipeline) registerExtractTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "pagebridge_extract",
		Description: "Extract a web page into a bridge payload, optionally at multiple viewport widths.",
		InputSchema: inputSchema(map[string]any{
			"url": map[string]any{"type": "string", "description": "Page URL to extract"},
			"viewports": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "integer"},
				"description": "Capture widths in px; defaults to the configured set",
			},
		}, []string{"url"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*extractReq)
		payload, err := p.Extract(ctx, r.URL, r.Viewports)
		if err != nil {
			return nil, err
		}
		return &extractResp{Payload: payload}, nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r extractReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- convert ---

type convertReq struct {
	Payload json.RawMessage `json:"payload"`
}

func (p *Pipeline) registerConvertTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "pagebridge_convert",
		Description: "Convert a bridge payload into a canvas node tree and report aggregate counts.",
		InputSchema: inputSchema(map[string]any{
			"payload": map[string]any{"type": "object", "description": "Bridge payload (ExtractionResult or MultiViewportResult)"},
		}, []string{"payload"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*convertReq)
		// The MCP surface has no plugin host attached; conversions run
		// against the in-memory canvas and report counts.
		return p.Convert(ctx, memdoc.New(), r.Payload)
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r convertReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- diff ---

type diffReq struct {
	Payload    json.RawMessage `json:"payload"`
	OldPayload json.RawMessage `json:"oldPayload"`
}

func (p *Pipeline) registerDiffTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "pagebridge_diff",
		Description: "Diff a bridge payload against a previous one, or against the stored fingerprints of its page URL.",
		InputSchema: inputSchema(map[string]any{
			"payload":    map[string]any{"type": "object", "description": "New bridge payload"},
			"oldPayload": map[string]any{"type": "object", "description": "Previous payload; omitted = use the fingerprint store"},
		}, []string{"payload"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*diffReq)
		if len(r.OldPayload) > 0 {
			return p.DiffPayloads(r.OldPayload, r.Payload)
		}
		return p.DiffStored(ctx, r.Payload)
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r diffReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}
