// Package containers holds MessageSet, the order-preserving collection of
// message ids used by the anonymity-set builder.
package containers

import (
	"sort"

	"github.com/cdoepmann/ppcalc-go/pkg/ids"
)

// MessageSet is an append-optimized, single-writer ordered collection of
// message ids. Inserts are O(1); the set tracks whether it is still sorted
// so Sort and Distance can skip redundant work.
type MessageSet struct {
	messages []ids.MessageId
	sorted   bool
}

// New returns an empty, (trivially) sorted MessageSet.
func New() *MessageSet {
	return &MessageSet{sorted: true}
}

// Insert appends id to the set, clearing the sorted flag if id is smaller
// than the previously inserted id.
func (s *MessageSet) Insert(id ids.MessageId) {
	if len(s.messages) > 0 && s.messages[len(s.messages)-1] > id {
		s.sorted = false
	}
	s.messages = append(s.messages, id)
}

// Sort orders the set's ids ascending. Idempotent and a no-op if the set is
// already known to be sorted.
func (s *MessageSet) Sort() {
	if s.sorted {
		return
	}
	sort.Slice(s.messages, func(i, j int) bool { return s.messages[i] < s.messages[j] })
	s.sorted = true
}

// Len returns the number of ids in the set.
func (s *MessageSet) Len() int {
	return len(s.messages)
}

// IsSorted reports whether the set is currently known to be sorted.
func (s *MessageSet) IsSorted() bool {
	return s.sorted
}

// Ids returns the underlying slice of ids in insertion (not necessarily
// sorted) order. Callers must not mutate the returned slice.
func (s *MessageSet) Ids() []ids.MessageId {
	return s.messages
}

// SplitBy consumes the set, partitioning its ids into a map keyed by
// label(id). Every resulting subset is sorted before being returned.
func SplitBy[G comparable](s *MessageSet, label func(ids.MessageId) G) map[G]*MessageSet {
	result := make(map[G]*MessageSet)
	for _, id := range s.messages {
		key := label(id)
		subset, ok := result[key]
		if !ok {
			subset = New()
			result[key] = subset
		}
		subset.Insert(id)
	}
	for _, subset := range result {
		subset.Sort()
	}
	return result
}

// Distance computes the relative set distance from self to other: both
// operands must already be sorted. It returns (added, overlap), where added
// is the number of ids present in other but not in self, and overlap is the
// number of ids present in both. Cost is O(len(self) + len(other)) via a
// single linear merge.
func (s *MessageSet) Distance(other *MessageSet) (added, overlap int) {
	if !s.sorted || !other.sorted {
		panic("containers: Distance called on unsorted MessageSet")
	}

	left := s.messages
	li := 0

	for _, right := range other.messages {
		for li < len(left) && left[li] < right {
			li++
		}
		if li < len(left) && left[li] == right {
			overlap++
			li++
		} else {
			added++
		}
	}

	return added, overlap
}
