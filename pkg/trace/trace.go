// Package trace holds the validated, immutable Trace type plus the
// TraceBuilder that constructs one from hand-added entries or a CSV file.
package trace

import (
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/cdoepmann/ppcalc-go/pkg/ids"
)

// Entry is a single row of ground truth: a message that left SourceId at
// SourceTimestamp and arrived at DestinationId at DestinationTimestamp.
// DestinationTimestamp must never precede SourceTimestamp.
type Entry struct {
	MessageId            ids.MessageId
	SourceId             ids.SourceId
	SourceTimestamp      time.Time
	DestinationId        ids.DestinationId
	DestinationTimestamp time.Time
}

// Trace is an immutable, validated collection of Entry values. Entries are
// stored indexed by message id, which TraceBuilder.Build guarantees is
// equivalent to indexing by arrival-sorted position (spec §3).
type Trace struct {
	entries            []Entry
	sourceMapping      []ids.SourceId
	destinationMapping []ids.DestinationId
	maxMessageId       ids.MessageId
	maxSourceId        ids.SourceId
}

// Entries returns the trace's entries, ordered by message id (equivalently,
// by non-decreasing destination timestamp). Callers must not mutate it.
func (t *Trace) Entries() []Entry {
	return t.entries
}

// Len returns the number of entries (N in spec §3).
func (t *Trace) Len() int {
	return len(t.entries)
}

// MaxMessageId returns the largest message id present (N-1).
func (t *Trace) MaxMessageId() ids.MessageId {
	return t.maxMessageId
}

// MaxSourceId returns the largest source id present (S-1).
func (t *Trace) MaxSourceId() ids.SourceId {
	return t.maxSourceId
}

// SourceOf returns the source id that sent message id.
func (t *Trace) SourceOf(id ids.MessageId) ids.SourceId {
	return t.sourceMapping[id]
}

// DestinationOf returns the destination id that received message id.
func (t *Trace) DestinationOf(id ids.MessageId) ids.DestinationId {
	return t.destinationMapping[id]
}

// MessageSent returns the source timestamp of message id.
func (t *Trace) MessageSent(id ids.MessageId) time.Time {
	return t.entries[id].SourceTimestamp
}

// Entry returns the entry for message id.
func (t *Trace) Entry(id ids.MessageId) Entry {
	return t.entries[id]
}

// Checksum xxhashes the entry stream (ids and timestamps) so two analysis
// runs over nominally the same trace file can be compared cheaply without
// re-reading or re-parsing the whole CSV.
func (t *Trace) Checksum() uint64 {
	h := xxhash.New()
	var buf [8]byte
	putUint64 := func(v uint64) {
		for i := 0; i < 8; i++ {
			buf[i] = byte(v >> (8 * i))
		}
		h.Write(buf[:])
	}
	for _, e := range t.entries {
		putUint64(uint64(e.MessageId))
		putUint64(uint64(e.SourceId))
		putUint64(uint64(e.SourceTimestamp.UnixNano()))
		putUint64(uint64(e.DestinationId))
		putUint64(uint64(e.DestinationTimestamp.UnixNano()))
	}
	return h.Sum64()
}
