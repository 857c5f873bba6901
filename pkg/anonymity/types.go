// Package anonymity implements the per-message anonymity-set builder and
// the candidate intersector that together compute, for every message a
// source ever sent, the set of destinations that remain plausible
// recipients after all observations up to that message (spec §4.3, §4.4).
package anonymity

import "github.com/cdoepmann/ppcalc-go/pkg/ids"

// Delta is the (added, overlap) descriptor that summarizes how one
// destination's anonymity set changed between two consecutive messages of
// the same source.
type Delta struct {
	Added   int
	Overlap int
}

// MessageDelta is one source message's per-destination delta map, in the
// order emitted by the anonymity-set builder.
type MessageDelta struct {
	MessageId ids.MessageId
	Deltas    map[ids.DestinationId]Delta
}

// Result pairs a message id with its computed relationship-anonymity set,
// generic over the output representation (a full destination list, or just
// its size — spec §9's "output mapper" polymorphism).
type Result[T any] struct {
	MessageId    ids.MessageId
	AnonymitySet T
}
