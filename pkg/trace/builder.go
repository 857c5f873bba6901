package trace

import (
	"sort"

	"github.com/cdoepmann/ppcalc-go/pkg/apperr"
	"github.com/cdoepmann/ppcalc-go/pkg/ids"
)

// Builder accepts entries by hand or by parsing a CSV file and enforces the
// Trace invariants (spec §3) on Build.
type Builder struct {
	entries []Entry
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddEntry appends an entry to the builder, in no particular required order.
func (b *Builder) AddEntry(e Entry) {
	b.entries = append(b.entries, e)
}

// Len reports how many entries have been added so far.
func (b *Builder) Len() int {
	return len(b.entries)
}

// Fix sorts the accumulated entries by destination timestamp and renumbers
// message ids to 0..N-1 in that order. It is idempotent, but callers should
// only invoke it when they explicitly accept that it can mask a genuine
// upstream ordering bug (spec §9).
func (b *Builder) Fix() {
	sort.SliceStable(b.entries, func(i, j int) bool {
		return b.entries[i].DestinationTimestamp.Before(b.entries[j].DestinationTimestamp)
	})
	for i := range b.entries {
		b.entries[i].MessageId = ids.MessageId(i)
	}
}

// Build validates the accumulated entries against the spec §3 invariants and
// returns the resulting immutable Trace, or a typed error naming the first
// offending id.
func (b *Builder) Build() (*Trace, error) {
	n := len(b.entries)
	if n == 0 {
		return nil, apperr.NewTraceValidationError(apperr.EmptyTrace, 0)
	}

	positioned, err := positionByMessageId(b.entries)
	if err != nil {
		return nil, err
	}

	for i := 1; i < len(positioned); i++ {
		if positioned[i].DestinationTimestamp.Before(positioned[i-1].DestinationTimestamp) {
			return nil, apperr.NewTraceValidationError(apperr.NotSortedByArrival, uint64(positioned[i].MessageId))
		}
	}

	maxSource, err := checkSourceIdsContiguous(positioned)
	if err != nil {
		return nil, err
	}

	sourceMapping := make([]ids.SourceId, n)
	destinationMapping := make([]ids.DestinationId, n)
	for i, e := range positioned {
		sourceMapping[i] = e.SourceId
		destinationMapping[i] = e.DestinationId
	}

	return &Trace{
		entries:            positioned,
		sourceMapping:      sourceMapping,
		destinationMapping: destinationMapping,
		maxMessageId:       ids.MessageId(n - 1),
		maxSourceId:        maxSource,
	}, nil
}

// positionByMessageId reorders entries into an array indexed by message id,
// verifying that message ids form the contiguous range [0, N) with no
// duplicates. It names the first offending id on failure.
func positionByMessageId(entries []Entry) ([]Entry, error) {
	n := len(entries)
	sorted := make([]Entry, n)
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MessageId < sorted[j].MessageId })

	for i, e := range sorted {
		want := uint64(i)
		got := uint64(e.MessageId)
		switch {
		case got == want:
			continue
		case got < want:
			return nil, apperr.NewTraceValidationError(apperr.MessageIdsNotUnique, got)
		default:
			return nil, apperr.NewTraceValidationError(apperr.MessageIdsHaveGaps, want)
		}
	}
	return sorted, nil
}

// checkSourceIdsContiguous verifies that the source ids appearing in
// entries form the contiguous range [0, S), returning the max source id
// (S-1) on success.
func checkSourceIdsContiguous(entries []Entry) (ids.SourceId, error) {
	var maxSource ids.SourceId
	for _, e := range entries {
		if e.SourceId > maxSource {
			maxSource = e.SourceId
		}
	}

	seen := make([]bool, maxSource+1)
	for _, e := range entries {
		seen[e.SourceId] = true
	}
	for i, ok := range seen {
		if !ok {
			return 0, apperr.NewTraceValidationError(apperr.SourceIdsHaveGaps, uint64(i))
		}
	}
	return maxSource, nil
}
