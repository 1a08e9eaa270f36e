package domain

import (
	"encoding/json"
	"time"
)

// TimelineEntry records one decoder's marginal contribution to a pipeline run.
// It is purely diagnostic and never affects deduplication or control flow.
type TimelineEntry struct {
	// Decoder is the decoder name.
	Decoder string `json:"decoder"`

	// Count is the number of codes this decoder added that no earlier
	// decoder in the run had already produced.
	Count int `json:"count"`

	// Elapsed is the wall-clock duration of the decoder call.
	Elapsed time.Duration `json:"-"`

	// Error is the decoder's error text, empty when it succeeded.
	Error string `json:"error,omitempty"`

	// Skipped marks slow-tier decoders the tiered policy did not run.
	Skipped bool `json:"skipped,omitempty"`
}

// Milliseconds returns the elapsed time in whole milliseconds.
func (e TimelineEntry) Milliseconds() int64 {
	return e.Elapsed.Milliseconds()
}

// MarshalJSON adds elapsed_ms, the elapsed time in whole milliseconds.
func (e TimelineEntry) MarshalJSON() ([]byte, error) {
	type plain TimelineEntry
	return json.Marshal(struct {
		plain
		ElapsedMS int64 `json:"elapsed_ms"`
	}{plain(e), e.Milliseconds()})
}

// Tier partitions decoders for the tiered parallel policy.
type Tier int

const (
	// TierSlow covers cloud and heuristic decoders. It is the default.
	TierSlow Tier = iota

	// TierQuick covers local decoders that need no network.
	TierQuick
)

// String returns the tier name.
func (t Tier) String() string {
	if t == TierQuick {
		return "quick"
	}
	return "slow"
}

// OCRMode selects the cloud text recognition feature.
type OCRMode string

const (
	// OCRModeText is general text detection.
	OCRModeText OCRMode = "TEXT_DETECTION"

	// OCRModeDocument is dense document text detection.
	OCRModeDocument OCRMode = "DOCUMENT_TEXT_DETECTION"
)
