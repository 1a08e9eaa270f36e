package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/labelscan/internal/core/domain"
	"github.com/custodia-labs/labelscan/internal/core/ports/driven"
	"github.com/custodia-labs/labelscan/internal/core/ports/driving"
	"github.com/custodia-labs/labelscan/internal/logger"
)

// Ensure Pipeline implements the interface.
var _ driving.DecodePipeline = (*Pipeline)(nil)

// Pipeline owns an ordered list of decoders and runs them under one of
// four policies. Every policy deduplicates by (symbology, value); the
// first decoder in priority order to produce a key owns the entry.
type Pipeline struct {
	decoders      []driven.Decoder
	isProvisional domain.ProvisionalFunc
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithProvisional replaces the rule deciding which quick-tier codes are not
// definitive enough to skip the slow tier. The default treats Q-codes as
// provisional.
func WithProvisional(fn domain.ProvisionalFunc) PipelineOption {
	return func(p *Pipeline) {
		if fn != nil {
			p.isProvisional = fn
		}
	}
}

// NewPipeline creates a pipeline over the given decoders.
// Decoders are prioritised in the order provided.
func NewPipeline(decoders []driven.Decoder, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		decoders:      append([]driven.Decoder(nil), decoders...),
		isProvisional: domain.ProvisionalByRules(domain.DefaultProvisionalRules),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// DecoderNames returns the decoder names in list order.
func (p *Pipeline) DecoderNames() []string {
	names := make([]string, len(p.decoders))
	for i, d := range p.decoders {
		names[i] = d.Name()
	}
	return names
}

// Run executes every decoder sequentially in list order.
func (p *Pipeline) Run(ctx context.Context, req *domain.DecodeRequest) []domain.Code {
	acc := newAccumulator()
	for _, d := range p.decoders {
		acc.add(invoke(ctx, d, req).codes)
	}
	return acc.codes
}

// RunDebug executes every decoder sequentially and records, per decoder,
// the number of codes it added, its duration and its error.
func (p *Pipeline) RunDebug(ctx context.Context, req *domain.DecodeRequest) ([]domain.Code, []domain.TimelineEntry) {
	logger.Section("Decode Pipeline (sequential)")

	acc := newAccumulator()
	timeline := make([]domain.TimelineEntry, 0, len(p.decoders))
	for _, d := range p.decoders {
		out := invoke(ctx, d, req)
		timeline = append(timeline, out.entry(d.Name(), acc.add(out.codes)))
	}
	return acc.codes, timeline
}

// RunParallelDebug dispatches every decoder concurrently and waits for all
// of them. Results merge in list order regardless of completion order.
func (p *Pipeline) RunParallelDebug(ctx context.Context, req *domain.DecodeRequest) ([]domain.Code, []domain.TimelineEntry) {
	logger.Section("Decode Pipeline (parallel)")

	acc := newAccumulator()
	outs := runConcurrently(ctx, p.decoders, req)
	timeline := make([]domain.TimelineEntry, 0, len(p.decoders))
	for i, d := range p.decoders {
		timeline = append(timeline, outs[i].entry(d.Name(), acc.add(outs[i].codes)))
	}
	return acc.codes, timeline
}

// RunSmartParallelDebug runs the quick tier concurrently. If it produced at
// least one definitive (non-provisional) code, the slow tier is skipped and
// recorded with empty timeline entries. Otherwise the slow tier runs
// concurrently and its codes merge after the quick tier's.
func (p *Pipeline) RunSmartParallelDebug(ctx context.Context, req *domain.DecodeRequest) ([]domain.Code, []domain.TimelineEntry) {
	logger.Section("Decode Pipeline (tiered)")

	quick, slow := p.partition()
	acc := newAccumulator()
	timeline := make([]domain.TimelineEntry, 0, len(p.decoders))

	quickOuts := runConcurrently(ctx, quick, req)
	for i, d := range quick {
		timeline = append(timeline, quickOuts[i].entry(d.Name(), acc.add(quickOuts[i].codes)))
	}

	if p.hasDefinitive(acc.codes) {
		logger.Info("Quick tier found a definitive code, skipping %d slow decoder(s)", len(slow))
		for _, d := range slow {
			timeline = append(timeline, domain.TimelineEntry{Decoder: d.Name(), Skipped: true})
		}
		return acc.codes, timeline
	}

	logger.Debug("Quick tier found %d code(s), none definitive; running slow tier", len(acc.codes))
	slowOuts := runConcurrently(ctx, slow, req)
	for i, d := range slow {
		timeline = append(timeline, slowOuts[i].entry(d.Name(), acc.add(slowOuts[i].codes)))
	}
	return acc.codes, timeline
}

// partition splits decoders into quick and slow tiers, preserving list order.
func (p *Pipeline) partition() (quick, slow []driven.Decoder) {
	for _, d := range p.decoders {
		if driven.TierOf(d) == domain.TierQuick {
			quick = append(quick, d)
		} else {
			slow = append(slow, d)
		}
	}
	return quick, slow
}

func (p *Pipeline) hasDefinitive(codes []domain.Code) bool {
	for _, c := range codes {
		if !p.isProvisional(c) {
			return true
		}
	}
	return false
}

// outcome is the result of one decoder call.
type outcome struct {
	codes   []domain.Code
	elapsed time.Duration
	err     error
}

func (o outcome) entry(name string, added int) domain.TimelineEntry {
	e := domain.TimelineEntry{
		Decoder: name,
		Count:   added,
		Elapsed: o.elapsed,
	}
	if o.err != nil {
		e.Error = o.err.Error()
	}
	return e
}

// invoke calls one decoder, converting errors and panics into an empty result.
func invoke(ctx context.Context, d driven.Decoder, req *domain.DecodeRequest) (out outcome) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			out = outcome{err: fmt.Errorf("panic: %v", r)}
		}
		out.elapsed = time.Since(start)
		if out.err != nil {
			logger.Warn("Decoder %s failed: %v", d.Name(), out.err)
		} else {
			logger.Debug("Decoder %s: %d code(s) in %s", d.Name(), len(out.codes), out.elapsed)
		}
	}()

	codes, err := d.Decode(ctx, req)
	if err != nil {
		return outcome{err: err}
	}
	return outcome{codes: codes}
}

// runConcurrently dispatches each decoder on its own goroutine and waits
// for all of them. Outcomes are indexed like decoders.
func runConcurrently(ctx context.Context, decoders []driven.Decoder, req *domain.DecodeRequest) []outcome {
	outs := make([]outcome, len(decoders))

	var wg sync.WaitGroup
	wg.Add(len(decoders))
	for i, d := range decoders {
		go func(i int, d driven.Decoder) {
			defer wg.Done()
			outs[i] = invoke(ctx, d, req)
		}(i, d)
	}
	wg.Wait()

	return outs
}

// accumulator deduplicates codes incrementally.
type accumulator struct {
	seen  map[domain.Key]struct{}
	codes []domain.Code
}

func newAccumulator() *accumulator {
	return &accumulator{
		seen:  make(map[domain.Key]struct{}),
		codes: make([]domain.Code, 0),
	}
}

// add merges codes and returns how many were new.
func (a *accumulator) add(codes []domain.Code) int {
	added := 0
	for _, c := range codes {
		if c.Value == "" {
			continue
		}
		key := c.Key()
		if _, ok := a.seen[key]; ok {
			continue
		}
		a.seen[key] = struct{}{}
		a.codes = append(a.codes, c)
		added++
	}
	return added
}
