// Package progress implements the single dedicated progress reporter spec
// §5 calls for: one bounded MPSC channel fed by every source-processing
// goroutine, drained by exactly one goroutine so log lines never interleave.
package progress

import "github.com/sirupsen/logrus"

// Reporter counts completed units of work and logs every reportEvery of
// them. It is safe for concurrent use by many producers; there is exactly
// one consumer goroutine.
type Reporter struct {
	events chan struct{}
	done   chan struct{}
}

// NewReporter starts the reporter's consumer goroutine and returns a handle.
// label names what is being counted (e.g. "sources") for the log line.
// reportEvery must be positive; spec §5 suggests 1000.
func NewReporter(logger *logrus.Logger, label string, reportEvery int) *Reporter {
	if reportEvery <= 0 {
		reportEvery = 1000
	}
	r := &Reporter{
		events: make(chan struct{}, 256),
		done:   make(chan struct{}),
	}
	go r.run(logger, label, reportEvery)
	return r
}

func (r *Reporter) run(logger *logrus.Logger, label string, reportEvery int) {
	defer close(r.done)
	seen := 0
	for range r.events {
		seen++
		if seen%reportEvery == 0 {
			logger.WithField("count", seen).Infof("processed %d %s", seen, label)
		}
	}
}

// Advance records that one more unit of work finished. Safe to call from
// many goroutines.
func (r *Reporter) Advance() {
	r.events <- struct{}{}
}

// Close signals no more Advance calls will happen and blocks until the
// consumer goroutine has drained the channel.
func (r *Reporter) Close() {
	close(r.events)
	<-r.done
}
