// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Decoder: Recognises codes in one photo
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - TextDetector: Cloud OCR. Without it, OCR and GG label decoders return nothing.
//   - VisionCache: Content-addressed cache of OCR results. Without it, every call hits the network.
//   - VisionLLM: Multimodal LLM. Without it, the LLM barcode decoder is disabled.
//   - ScanStore: Barcode scan history. Without it, scans are not recorded.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or decoder package
package driven
