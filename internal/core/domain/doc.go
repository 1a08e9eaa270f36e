// Package domain defines the core business entities for labelscan.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Code: A recognised barcode, QR payload or printed label
//   - DecodeRequest: A decoded image plus its original encoded bytes
//   - TimelineEntry: Per-decoder diagnostics for one pipeline run
//   - ScanRecord: Barcode history returned by the scan store
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
