// Package connectors groups clients for external recognition services.
// Each subpackage wraps one provider and exposes a driven port such as
// TextDetector; decoders never talk to a provider SDK directly.
package connectors
