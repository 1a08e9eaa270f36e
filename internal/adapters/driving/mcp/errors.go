// Package mcp provides an MCP (Model Context Protocol) server adapter for labelscan.
// It lets AI assistants decode photos and look up scanned barcodes.
package mcp

import "errors"

// ErrMissingScanService is returned when the scan service is not provided.
var ErrMissingScanService = errors.New("mcp: scan service is required")

// errNoImage is returned when decode_image receives neither a path nor image data.
var errNoImage = errors.New("either path or image_base64 is required")
