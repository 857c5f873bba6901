package anonymity

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cdoepmann/ppcalc-go/pkg/ids"
	"github.com/cdoepmann/ppcalc-go/pkg/trace"
)

// buildDriverFixture produces a two-source trace whose messages never share
// a delay window, so every message's anonymity set is a known singleton.
func buildDriverFixture(t *testing.T) *trace.Trace {
	t.Helper()
	b := trace.NewBuilder()
	b.AddEntry(trace.Entry{MessageId: 0, SourceId: 0, SourceTimestamp: baseTime(0), DestinationId: 0, DestinationTimestamp: baseTime(1)})
	b.AddEntry(trace.Entry{MessageId: 1, SourceId: 0, SourceTimestamp: baseTime(50), DestinationId: 0, DestinationTimestamp: baseTime(51)})
	b.AddEntry(trace.Entry{MessageId: 2, SourceId: 1, SourceTimestamp: baseTime(100), DestinationId: 1, DestinationTimestamp: baseTime(101)})
	tr, err := b.Build()
	require.NoError(t, err)
	return tr
}

func TestComputeProducesSingletonSetsForDisjointWindows(t *testing.T) {
	tr := buildDriverFixture(t)

	got := Compute(tr, time.Second, time.Second, Deps{})
	require.Len(t, got, 2)

	require.Equal(t, []ids.DestinationId{0}, got[0][0].AnonymitySet)
	require.Equal(t, []ids.DestinationId{0}, got[0][1].AnonymitySet)
	require.Equal(t, []ids.DestinationId{1}, got[1][0].AnonymitySet)
}

// TestComputeTwoSourceInterleaveNarrowsWhenPeerStopsSending mirrors the
// stable two-source, two-destination interleave scenario: s1 -> d1 and
// s2 -> d2 send at regular intervals and stay in each other's window until
// one source stops, at which point the survivor's last message narrows to
// its own true destination.
func TestComputeTwoSourceInterleaveNarrowsWhenPeerStopsSending(t *testing.T) {
	t.Run("s1 outlasts s2", func(t *testing.T) {
		tr := buildInterleaveFixture(t, 0, 1, 0, 1)
		got := Compute(tr, time.Second, 100*time.Second, Deps{})

		s1 := got[0]
		require.Len(t, s1, 4)
		require.ElementsMatch(t, []ids.DestinationId{0, 1}, s1[0].AnonymitySet)
		require.ElementsMatch(t, []ids.DestinationId{0, 1}, s1[1].AnonymitySet)
		require.ElementsMatch(t, []ids.DestinationId{0, 1}, s1[2].AnonymitySet)
		require.Equal(t, []ids.DestinationId{0}, s1[3].AnonymitySet)
	})

	t.Run("s2 outlasts s1", func(t *testing.T) {
		tr := buildInterleaveFixture(t, 1, 0, 1, 0)
		got := Compute(tr, time.Second, 100*time.Second, Deps{})

		s2 := got[1]
		require.Len(t, s2, 4)
		require.ElementsMatch(t, []ids.DestinationId{0, 1}, s2[0].AnonymitySet)
		require.ElementsMatch(t, []ids.DestinationId{0, 1}, s2[1].AnonymitySet)
		require.ElementsMatch(t, []ids.DestinationId{0, 1}, s2[2].AnonymitySet)
		require.Equal(t, []ids.DestinationId{1}, s2[3].AnonymitySet)
	})
}

// buildInterleaveFixture builds a trace where longSource sends 4 messages at
// t=0,20,40,60s (arriving 5s later) to longDest, and shortSource sends the
// same first 3 messages to shortDest then stops, so only longSource's final
// message falls outside shortSource's last arrival window.
func buildInterleaveFixture(t *testing.T, longSource, shortSource ids.SourceId, longDest, shortDest ids.DestinationId) *trace.Trace {
	t.Helper()
	b := trace.NewBuilder()
	mid := ids.MessageId(0)
	for i, ts := range []int{0, 20, 40, 60} {
		b.AddEntry(trace.Entry{MessageId: mid, SourceId: longSource, SourceTimestamp: baseTime(ts), DestinationId: longDest, DestinationTimestamp: baseTime(ts + 5)})
		mid++
		if i < 3 {
			b.AddEntry(trace.Entry{MessageId: mid, SourceId: shortSource, SourceTimestamp: baseTime(ts), DestinationId: shortDest, DestinationTimestamp: baseTime(ts + 5)})
			mid++
		}
	}
	tr, err := b.Build()
	require.NoError(t, err)
	return tr
}

// TestComputeGroundTruthDestinationAlwaysPresent checks the 1:1 ground-truth
// property: for a bijective source -> destination assignment, the true
// destination stays in every emitted set for that source.
func TestComputeGroundTruthDestinationAlwaysPresent(t *testing.T) {
	truth := []struct {
		source ids.SourceId
		dest   ids.DestinationId
	}{
		{0, 3}, {1, 1}, {2, 2},
	}

	var entries []trace.Entry
	for _, tc := range truth {
		for i := 0; i < 3; i++ {
			ts := i*30 + int(tc.source)
			entries = append(entries, trace.Entry{SourceId: tc.source, SourceTimestamp: baseTime(ts), DestinationId: tc.dest, DestinationTimestamp: baseTime(ts + 2)})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].DestinationTimestamp.Before(entries[j].DestinationTimestamp)
	})

	b := trace.NewBuilder()
	for i := range entries {
		entries[i].MessageId = ids.MessageId(i)
		b.AddEntry(entries[i])
	}
	tr, err := b.Build()
	require.NoError(t, err)

	got := Compute(tr, time.Second, 50*time.Second, Deps{})
	for _, tc := range truth {
		for _, r := range got[tc.source] {
			require.Contains(t, r.AnonymitySet, tc.dest)
		}
	}
}

func TestComputeSizesMatchesComputeSetLengths(t *testing.T) {
	tr := buildDriverFixture(t)

	sets := Compute(tr, time.Second, time.Second, Deps{})
	sizes := ComputeSizes(tr, time.Second, time.Second, Deps{})

	for source, results := range sets {
		for i, r := range results {
			require.Equal(t, len(r.AnonymitySet), sizes[source][i].AnonymitySet)
			require.Equal(t, r.MessageId, sizes[source][i].MessageId)
		}
	}
}
