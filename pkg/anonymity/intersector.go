package anonymity

import (
	"sort"

	"github.com/cdoepmann/ppcalc-go/internal/obsmetrics"
	"github.com/cdoepmann/ppcalc-go/pkg/ids"
)

// intersectSource folds one source's message deltas into the final
// monotonically-narrowing candidate sets (spec §4.4).
//
// remaining tracks, per destination still plausible, how many of that
// destination's candidate messages are still unassigned to earlier messages
// of this source. The first
// message bootstraps remaining[d] = 0 for every destination it names, which
// the fold immediately turns into candidates = added (the size of its own
// anonymity set) since min(0, overlap) is always 0. Every later message
// narrows: candidates = added + min(remaining[d], overlap); a destination is
// dropped for good the moment candidates reaches 0, and otherwise one
// candidate is consumed (this message itself) before moving on.
//
// mapper converts the destination->remaining map into the output
// representation the caller wants (a full destination list, or just its
// size); it is invoked with next AFTER the "subtract 1" step, so it sees the
// final remaining values for this message.
func intersectSource[T any](deltas []MessageDelta, mapper func(map[ids.DestinationId]int) T) []Result[T] {
	result := make([]Result[T], 0, len(deltas))

	var remaining map[ids.DestinationId]int
	bootstrap := true

	for _, md := range deltas {
		if bootstrap {
			remaining = make(map[ids.DestinationId]int, len(md.Deltas))
			for d := range md.Deltas {
				remaining[d] = 0
			}
			bootstrap = false
		}

		next := make(map[ids.DestinationId]int, len(remaining))
		for d, delta := range md.Deltas {
			prev, ok := remaining[d]
			if !ok {
				continue
			}
			overlap := delta.Overlap
			if prev < overlap {
				overlap = prev
			}
			candidates := delta.Added + overlap
			if candidates == 0 {
				continue
			}
			next[d] = candidates - 1
		}

		obsmetrics.AnonymitySetSize.Observe(float64(len(next)))
		result = append(result, Result[T]{
			MessageId:    md.MessageId,
			AnonymitySet: mapper(next),
		})
		remaining = next
	}

	return result
}

// FullSetMapper returns the sorted list of surviving destination ids.
func FullSetMapper(next map[ids.DestinationId]int) []ids.DestinationId {
	out := make([]ids.DestinationId, 0, len(next))
	for d := range next {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// SizeMapper returns only the number of surviving destinations, without
// materializing the list.
func SizeMapper(next map[ids.DestinationId]int) int {
	return len(next)
}
