package anonymity

import (
	"sort"
	"time"

	"github.com/cdoepmann/ppcalc-go/pkg/containers"
	"github.com/cdoepmann/ppcalc-go/pkg/ids"
	"github.com/cdoepmann/ppcalc-go/pkg/trace"
)

// sourceMessages returns tr's entries belonging to source, ordered by
// source timestamp with message id as a tiebreak — the "natural message
// order" spec §5's ordering guarantee requires, which need not coincide
// with arrival order when per-message network delay varies.
func sourceMessages(tr *trace.Trace, source ids.SourceId) []trace.Entry {
	var out []trace.Entry
	for _, e := range tr.Entries() {
		if e.SourceId == source {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].SourceTimestamp.Equal(out[j].SourceTimestamp) {
			return out[i].SourceTimestamp.Before(out[j].SourceTimestamp)
		}
		return out[i].MessageId < out[j].MessageId
	})
	return out
}

// buildSourceDeltas walks one source's messages in send order and, for each
// one, computes the per-destination (added, overlap) delta relative to the
// previous message of the same source (spec §4.3).
//
// The anonymity set of a message m is every message that arrived within
// [m.SourceTimestamp+minDelay, m.SourceTimestamp+maxDelay], split by
// destination. The window's lower edge is located with a binary search over
// tr's arrival-sorted entries; the upper edge is found by a linear scan
// forward from there, since in practice windows are narrow relative to the
// trace.
func buildSourceDeltas(tr *trace.Trace, source ids.SourceId, minDelay, maxDelay time.Duration) []MessageDelta {
	messages := sourceMessages(tr, source)
	entries := tr.Entries()

	result := make([]MessageDelta, 0, len(messages))
	var prevSplit map[ids.DestinationId]*containers.MessageSet

	for _, m := range messages {
		from := m.SourceTimestamp.Add(minDelay)
		to := m.SourceTimestamp.Add(maxDelay)

		start := sort.Search(len(entries), func(i int) bool {
			return !entries[i].DestinationTimestamp.Before(from)
		})

		set := containers.New()
		for i := start; i < len(entries) && !entries[i].DestinationTimestamp.After(to); i++ {
			set.Insert(entries[i].MessageId)
		}

		split := containers.SplitBy(set, func(id ids.MessageId) ids.DestinationId {
			return tr.DestinationOf(id)
		})

		deltas := make(map[ids.DestinationId]Delta, len(split))
		for dest, subset := range split {
			prevSubset, ok := prevSplit[dest]
			if !ok {
				deltas[dest] = Delta{Added: subset.Len(), Overlap: 0}
				continue
			}
			added, overlap := prevSubset.Distance(subset)
			deltas[dest] = Delta{Added: added, Overlap: overlap}
		}

		result = append(result, MessageDelta{MessageId: m.MessageId, Deltas: deltas})
		prevSplit = split
	}

	return result
}
