package mcp

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/labelscan/internal/core/domain"
	"github.com/custodia-labs/labelscan/internal/core/ports/driving"
)

// readFile is swapped in tests.
var readFile = os.ReadFile

// DecodeInput is the input schema for the decode_image tool.
type DecodeInput struct {
	Path        string `json:"path,omitempty" jsonschema:"local path of the photo to decode"`
	ImageBase64 string `json:"image_base64,omitempty" jsonschema:"base64 encoded photo, used when path is empty"`
	Policy      string `json:"policy,omitempty" jsonschema:"pipeline policy: smart, parallel, debug or sequential"`
	Record      bool   `json:"record,omitempty" jsonschema:"record the codes in scan history"`
}

// DecodeOutput is the output schema for the decode_image tool.
type DecodeOutput struct {
	ScanID   string           `json:"scan_id"`
	Policy   string           `json:"policy"`
	Codes    []CodeOutput     `json:"codes"`
	Count    int              `json:"count"`
	Timeline []TimelineOutput `json:"timeline,omitempty"`
}

// CodeOutput represents a single decoded code.
type CodeOutput struct {
	Symbology string `json:"symbology"`
	Value     string `json:"value"`
	Source    string `json:"source"`
}

// TimelineOutput represents one decoder's contribution.
type TimelineOutput struct {
	Decoder    string `json:"decoder"`
	Count      int    `json:"count"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
	Skipped    bool   `json:"skipped,omitempty"`
}

// BarcodeInput is the input schema for the barcode_info tool.
type BarcodeInput struct {
	Barcode string `json:"barcode" jsonschema:"the barcode value to look up"`
}

// BarcodeOutput is the output schema for the barcode_info tool.
type BarcodeOutput struct {
	Barcode     string `json:"barcode"`
	Symbology   string `json:"symbology"`
	FirstSeen   string `json:"first_seen"`
	LastSeen    string `json:"last_seen"`
	ScanCount   int    `json:"scan_count"`
	ProductName string `json:"product_name,omitempty"`
	Brand       string `json:"brand,omitempty"`
	Category    string `json:"category,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "decode_image",
		Description: "Decode barcodes, QR codes and GG labels in a photo",
	}, s.handleDecode)

	if s.ports.History != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "barcode_info",
			Description: "Look up scan history and product data for a barcode",
		}, s.handleBarcodeInfo)
	}
}

// handleDecode handles the decode_image tool invocation.
func (s *Server) handleDecode(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DecodeInput,
) (*mcp.CallToolResult, DecodeOutput, error) {
	data, err := loadImage(input)
	if err != nil {
		return nil, DecodeOutput{}, err
	}

	opts := driving.ScanOptions{
		Policy:     domain.Policy(strings.TrimSpace(input.Policy)),
		SkipRecord: !input.Record,
	}
	result, err := s.ports.Scan.Scan(ctx, data, opts)
	if err != nil {
		return nil, DecodeOutput{}, err
	}

	output := DecodeOutput{
		ScanID: result.ID,
		Policy: result.Policy.String(),
		Codes:  make([]CodeOutput, len(result.Codes)),
		Count:  len(result.Codes),
	}
	for i, c := range result.Codes {
		output.Codes[i] = CodeOutput{Symbology: c.Symbology, Value: c.Value, Source: c.Source}
	}
	for _, e := range result.Timeline {
		output.Timeline = append(output.Timeline, TimelineOutput{
			Decoder:    e.Decoder,
			Count:      e.Count,
			DurationMS: e.Milliseconds(),
			Error:      e.Error,
			Skipped:    e.Skipped,
		})
	}

	return nil, output, nil
}

// handleBarcodeInfo handles the barcode_info tool invocation.
func (s *Server) handleBarcodeInfo(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input BarcodeInput,
) (*mcp.CallToolResult, BarcodeOutput, error) {
	info, err := s.ports.History.Get(ctx, input.Barcode)
	if err != nil {
		return nil, BarcodeOutput{}, err
	}
	return nil, BarcodeOutput{
		Barcode:     info.Barcode,
		Symbology:   info.Symbology,
		FirstSeen:   info.FirstSeen.Format(time.RFC3339),
		LastSeen:    info.LastSeen.Format(time.RFC3339),
		ScanCount:   info.ScanCount,
		ProductName: info.ProductName,
		Brand:       info.Brand,
		Category:    info.Category,
		Notes:       info.Notes,
	}, nil
}

func loadImage(input DecodeInput) ([]byte, error) {
	switch {
	case input.Path != "":
		data, err := readFile(input.Path)
		if err != nil {
			return nil, fmt.Errorf("reading image: %w", err)
		}
		return data, nil
	case input.ImageBase64 != "":
		data, err := base64.StdEncoding.DecodeString(input.ImageBase64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidImage, err)
		}
		return data, nil
	default:
		return nil, errNoImage
	}
}
