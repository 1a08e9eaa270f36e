package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for labelscan resources.
	uriScheme = "labelscan://"

	recentLimit = 50
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for recent scans.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "history/recent",
		Name:        "recent-scans",
		Description: "The latest recorded scans, newest first",
		MIMEType:    "application/json",
	}, s.handleRecentResource)

	// Template for a single barcode.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "barcodes/{barcode}",
		Name:        "barcode",
		Description: "Scan history and product data for one barcode",
		MIMEType:    "application/json",
	}, s.handleBarcodeResource)
}

// handleRecentResource returns the latest scans.
func (s *Server) handleRecentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.History == nil {
		return jsonResult(req.Params.URI, "[]"), nil
	}

	events, err := s.ports.History.Recent(ctx, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("listing recent scans: %w", err)
	}

	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling scans: %w", err)
	}
	return jsonResult(req.Params.URI, string(data)), nil
}

// handleBarcodeResource returns the stored record for a barcode.
func (s *Server) handleBarcodeResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.History == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract barcode from URI: labelscan://barcodes/{barcode}
	barcode := extractBarcode(req.Params.URI)
	if barcode == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	info, err := s.ports.History.Get(ctx, barcode)
	if err != nil {
		return nil, fmt.Errorf("getting barcode: %w", err)
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling barcode: %w", err)
	}
	return jsonResult(req.Params.URI, string(data)), nil
}

func jsonResult(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     text,
		}},
	}
}

// extractBarcode extracts the barcode from a URI like labelscan://barcodes/{barcode}.
func extractBarcode(uri string) string {
	const prefix = uriScheme + "barcodes/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
