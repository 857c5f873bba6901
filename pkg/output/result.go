// Package output serializes the driver's per-source anonymity sets and the
// ground-truth trace to the external JSON/CSV formats spec §6 defines,
// through the optional compression codecs in pkg/compression.
package output

import (
	"encoding/json"

	"github.com/cdoepmann/ppcalc-go/pkg/anonymity"
	"github.com/cdoepmann/ppcalc-go/pkg/compression"
	"github.com/cdoepmann/ppcalc-go/pkg/ids"
	"github.com/cdoepmann/ppcalc-go/pkg/trace"
)

// MsgEntry is one source message's anonymity-set entry in a Result, where T
// is either []ids.DestinationId (full-set mode) or int (sizes-only mode).
type MsgEntry[T any] struct {
	M  ids.MessageId `json:"m"`
	As T             `json:"as"`
}

// SourceResult is the per-source object of the result JSON (spec §6).
type SourceResult[T any] struct {
	LastAnonsetSize   *int          `json:"last_anonset_size"`
	DeanonymizedAtNum *int          `json:"deanonymized_at_num"`
	TimeToDeanon      *float64      `json:"time_to_deanon"`
	Msgs              []MsgEntry[T] `json:"msgs"`
}

// Result is the full result JSON: source-id decimal strings to SourceResult.
type Result[T any] map[string]SourceResult[T]

// BuildResult assembles the result JSON structure for full-set mode.
func BuildResult(tr *trace.Trace, sets anonymity.SourceAnonymitySets[[]ids.DestinationId]) Result[[]ids.DestinationId] {
	return buildResult(tr, sets, func(set []ids.DestinationId) int { return len(set) })
}

// BuildSizesResult assembles the result JSON structure for sizes-only mode.
func BuildSizesResult(tr *trace.Trace, sets anonymity.SourceAnonymitySets[int]) Result[int] {
	return buildResult(tr, sets, func(size int) int { return size })
}

func buildResult[T any](tr *trace.Trace, sets anonymity.SourceAnonymitySets[T], sizeOf func(T) int) Result[T] {
	out := make(Result[T], len(sets))
	for source, results := range sets {
		out[source.String()] = buildSourceResult(tr, results, sizeOf)
	}
	return out
}

func buildSourceResult[T any](tr *trace.Trace, results []anonymity.Result[T], sizeOf func(T) int) SourceResult[T] {
	msgs := make([]MsgEntry[T], len(results))
	for i, r := range results {
		msgs[i] = MsgEntry[T]{M: r.MessageId, As: r.AnonymitySet}
	}

	var sr SourceResult[T]
	sr.Msgs = msgs

	if len(results) == 0 {
		return sr
	}

	lastSize := sizeOf(results[len(results)-1].AnonymitySet)
	sr.LastAnonsetSize = &lastSize

	deanonIdx := -1
	for i := len(results) - 1; i >= 0; i-- {
		if sizeOf(results[i].AnonymitySet) == 1 {
			deanonIdx = i
			continue
		}
		break
	}
	if deanonIdx >= 0 {
		deanonAt := deanonIdx + 1
		sr.DeanonymizedAtNum = &deanonAt

		elapsed := tr.MessageSent(results[deanonIdx].MessageId).Sub(tr.MessageSent(results[0].MessageId)).Seconds()
		sr.TimeToDeanon = &elapsed
	}

	return sr
}

// WriteResult marshals result as JSON to path, compressing it if path's
// suffix names a known codec (spec §6).
func WriteResult[T any](path string, result Result[T]) error {
	w, err := compression.CreateFile(path)
	if err != nil {
		return err
	}
	defer w.Close()

	enc := json.NewEncoder(w)
	return enc.Encode(result)
}
