// Package ids defines the opaque identifier types shared across a Trace:
// messages, sources, and destinations. They are disjoint wrappers around
// uint64 so that a SourceId can never be passed where a DestinationId is
// expected, while still being cheap to copy, compare, and hash.
package ids

import "strconv"

// MessageId identifies a single message entering or leaving the network.
type MessageId uint64

// SourceId identifies the sending party of a message.
type SourceId uint64

// DestinationId identifies the receiving party of a message.
type DestinationId uint64

func (id MessageId) String() string     { return strconv.FormatUint(uint64(id), 10) }
func (id SourceId) String() string      { return strconv.FormatUint(uint64(id), 10) }
func (id DestinationId) String() string { return strconv.FormatUint(uint64(id), 10) }
