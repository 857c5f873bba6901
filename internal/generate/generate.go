// Package generate produces synthetic ground-truth traces from configured
// distributions: the producer-of-Trace-objects collaborator spec.md §1
// treats as external. Grounded on original_source/ppcalc/src/{source,
// destination,network}.rs, reimplemented with math/rand and the shared
// worker-pool pattern instead of rand_distr/statrs.
package generate

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/cdoepmann/ppcalc-go/internal/config"
	"github.com/cdoepmann/ppcalc-go/pkg/ids"
	"github.com/cdoepmann/ppcalc-go/pkg/trace"
	"github.com/cdoepmann/ppcalc-go/pkg/workerpool"
)

// sourceEvent is one message a source intends to send, before a destination
// and network delay have been assigned — the Go shape of the original's
// PreNetworkTraceEntry/SourceTrace split.
type sourceEvent struct {
	sourceId        ids.SourceId
	sourceTimestamp time.Time
}

// Generate builds a full Trace from cfg, deterministic given rng's seed.
func Generate(cfg config.GenerateConfig, rng *rand.Rand) (*trace.Trace, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	events := genSourceEvents(cfg, rng)
	destinations := selectDestinations(cfg, rng)

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].sourceTimestamp.Before(events[j].sourceTimestamp)
	})

	b := trace.NewBuilder()
	for mid, e := range events {
		dest := destinations[e.sourceId]
		delayRange := cfg.NetworkDelayMax - cfg.NetworkDelayMin
		delay := cfg.NetworkDelayMin
		if delayRange > 0 {
			delay += time.Duration(rng.Int63n(int64(delayRange) + 1))
		}
		b.AddEntry(trace.Entry{
			MessageId:            ids.MessageId(mid),
			SourceId:             e.sourceId,
			SourceTimestamp:      e.sourceTimestamp,
			DestinationId:        dest,
			DestinationTimestamp: e.sourceTimestamp.Add(delay),
		})
	}
	b.Fix()
	return b.Build()
}

// genSourceEvents generates, per source, a Poisson-ish arrival process: a
// normally-sampled message count, with inter-message delays themselves
// normally sampled around cfg's mean/stdev (mirroring source.rs's use of a
// Normal distribution for both message count and inter-message delay).
func genSourceEvents(cfg config.GenerateConfig, rng *rand.Rand) []sourceEvent {
	epoch := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

	// Each source gets its own generator seeded from rng up front, so the
	// workers never share rng and the output does not depend on scheduling.
	seeds := make([]int64, cfg.NumSources)
	for i := range seeds {
		seeds[i] = rng.Int63()
	}

	perSource := workerpool.Run(workerpool.WorkerPoolConfig{}, cfg.NumSources, func(i int) []sourceEvent {
		srcRng := rand.New(rand.NewSource(seeds[i]))
		count := int(math.Ceil(sampleNormal(srcRng, cfg.MessagesPerSourceMean, cfg.MessagesPerSourceStdev)))
		if count < 1 {
			count = 1
		}

		out := make([]sourceEvent, 0, count)
		t := epoch
		for m := 0; m < count; m++ {
			delay := sampleNormal(srcRng, float64(cfg.InterMessageDelayMean), float64(cfg.InterMessageDelayStdev))
			if delay < 0 {
				delay = 0
			}
			t = t.Add(time.Duration(delay))
			out = append(out, sourceEvent{sourceId: ids.SourceId(i), sourceTimestamp: t})
		}
		return out
	})

	var events []sourceEvent
	for _, es := range perSource {
		events = append(events, es...)
	}
	return events
}

// selectDestinations assigns each source a single destination id, per
// cfg.DestinationSelection (spec-supplemented; original_source's
// small-world mode is left unimplemented there too, so it has no Go
// counterpart here).
func selectDestinations(cfg config.GenerateConfig, rng *rand.Rand) map[ids.SourceId]ids.DestinationId {
	out := make(map[ids.SourceId]ids.DestinationId, cfg.NumSources)
	switch cfg.DestinationSelection {
	case "roundrobin":
		for i := 0; i < cfg.NumSources; i++ {
			out[ids.SourceId(i)] = ids.DestinationId(i % cfg.NumDestinations)
		}
	case "normal":
		mean := float64(cfg.NumDestinations) / 2
		stdev := float64(cfg.NumDestinations) / 6
		for i := 0; i < cfg.NumSources; i++ {
			d := int(sampleNormal(rng, mean, stdev))
			out[ids.SourceId(i)] = ids.DestinationId(clamp(d, 0, cfg.NumDestinations-1))
		}
	default: // "uniform"
		for i := 0; i < cfg.NumSources; i++ {
			out[ids.SourceId(i)] = ids.DestinationId(rng.Intn(cfg.NumDestinations))
		}
	}
	return out
}

func sampleNormal(rng *rand.Rand, mean, stdev float64) float64 {
	return rng.NormFloat64()*stdev + mean
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
