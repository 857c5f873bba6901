package output

import (
	"encoding/json"
	"sort"

	"github.com/cdoepmann/ppcalc-go/pkg/anonymity"
	"github.com/cdoepmann/ppcalc-go/pkg/compression"
	"github.com/cdoepmann/ppcalc-go/pkg/ids"
)

// DeanonEntry is one source's deanonymization summary (spec §6). It is
// emitted only for full-set mode: a sizes-only run has nothing to name as
// "the destination".
type DeanonEntry struct {
	Source                ids.SourceId        `json:"source"`
	Destination           *ids.DestinationId  `json:"destination"`
	RemainingAnonymitySet []ids.DestinationId `json:"remaining_anonymity_set"`
	Messages              int                 `json:"messages"`
	DeanomizedAt          *int                `json:"deanomized_at"`
}

// BuildDeanonymization summarizes every source whose final anonymity set has
// narrowed to a single destination, alongside every other source for
// completeness. Entries are sorted by source id for reproducible output.
func BuildDeanonymization(sets anonymity.SourceAnonymitySets[[]ids.DestinationId]) []DeanonEntry {
	entries := make([]DeanonEntry, 0, len(sets))
	for source, results := range sets {
		entries = append(entries, buildDeanonEntry(source, results))
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Source < entries[j].Source })
	return entries
}

func buildDeanonEntry(source ids.SourceId, results []anonymity.Result[[]ids.DestinationId]) DeanonEntry {
	entry := DeanonEntry{Source: source, Messages: len(results)}
	if len(results) == 0 {
		return entry
	}

	final := results[len(results)-1].AnonymitySet
	entry.RemainingAnonymitySet = final
	if len(final) == 1 {
		dest := final[0]
		entry.Destination = &dest
	}

	deanonIdx := -1
	for i := len(results) - 1; i >= 0; i-- {
		if len(results[i].AnonymitySet) == 1 {
			deanonIdx = i
			continue
		}
		break
	}
	if deanonIdx >= 0 {
		at := deanonIdx + 1
		entry.DeanomizedAt = &at
	}

	return entry
}

// WriteDeanonymization marshals entries as JSON to path, compressing it if
// path's suffix names a known codec.
func WriteDeanonymization(path string, entries []DeanonEntry) error {
	w, err := compression.CreateFile(path)
	if err != nil {
		return err
	}
	defer w.Close()

	enc := json.NewEncoder(w)
	return enc.Encode(entries)
}
