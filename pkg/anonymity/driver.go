package anonymity

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/cdoepmann/ppcalc-go/internal/obsmetrics"
	"github.com/cdoepmann/ppcalc-go/internal/progress"
	"github.com/cdoepmann/ppcalc-go/pkg/ids"
	"github.com/cdoepmann/ppcalc-go/pkg/trace"
	"github.com/cdoepmann/ppcalc-go/pkg/workerpool"
)

// Deps bundles the driver's optional collaborators. Every field may be left
// at its zero value; Compute/ComputeSizes degrade to silent, unmeasured,
// untraced operation rather than requiring a caller to wire observability
// it doesn't want (spec's Non-goals exclude observability as a FEATURE, not
// as ambient plumbing the driver is allowed to skip when absent).
type Deps struct {
	Logger   *logrus.Logger
	Reporter *progress.Reporter
	Tracer   oteltrace.Tracer
	Workers  workerpool.WorkerPoolConfig
}

func (d Deps) logger() *logrus.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

// SourceAnonymitySets maps each source to its sequence of per-message
// results, in send order.
type SourceAnonymitySets[T any] map[ids.SourceId][]Result[T]

// Compute runs the full relationship-anonymity pipeline (spec §4.3–§4.5)
// and returns, for every source and every message it sent, the full set of
// destinations that remain plausible recipients.
func Compute(tr *trace.Trace, minDelay, maxDelay time.Duration, deps Deps) SourceAnonymitySets[[]ids.DestinationId] {
	return computeGeneric(tr, minDelay, maxDelay, deps, FullSetMapper)
}

// ComputeSizes runs the same pipeline as Compute but only reports, per
// message, how many destinations remain plausible — avoiding the cost of
// materializing and retaining full destination lists for callers (such as
// large batch runs) that only need the size-over-time curve (spec §9).
func ComputeSizes(tr *trace.Trace, minDelay, maxDelay time.Duration, deps Deps) SourceAnonymitySets[int] {
	return computeGeneric(tr, minDelay, maxDelay, deps, SizeMapper)
}

func computeGeneric[T any](tr *trace.Trace, minDelay, maxDelay time.Duration, deps Deps, mapper func(map[ids.DestinationId]int) T) SourceAnonymitySets[T] {
	logger := deps.logger()
	numSources := int(tr.MaxSourceId()) + 1

	perSource := workerpool.Run(deps.Workers, numSources, func(i int) []Result[T] {
		source := ids.SourceId(i)

		deltas := withSpan(deps.Tracer, "anonymity.build_message_sets", func() []MessageDelta {
			return buildSourceDeltas(tr, source, minDelay, maxDelay)
		})

		results := withSpan(deps.Tracer, "anonymity.intersect_candidates", func() []Result[T] {
			return intersectSource(deltas, mapper)
		})

		obsmetrics.MessagesProcessed.Add(float64(len(results)))
		obsmetrics.SourcesProcessed.Inc()
		if deps.Reporter != nil {
			deps.Reporter.Advance()
		}

		logger.WithFields(logrus.Fields{
			"source":   source,
			"messages": len(results),
		}).Debug("source processed")

		return results
	})

	out := make(SourceAnonymitySets[T], numSources)
	for i, results := range perSource {
		out[ids.SourceId(i)] = results
	}
	return out
}

func withSpan[T any](tracer oteltrace.Tracer, name string, fn func() T) T {
	if tracer == nil {
		return fn()
	}
	_, span := tracer.Start(context.Background(), name)
	defer span.End()
	return fn()
}
