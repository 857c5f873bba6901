package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/cdoepmann/ppcalc-go/pkg/anonymity"
	"github.com/cdoepmann/ppcalc-go/pkg/apperr"
	"github.com/cdoepmann/ppcalc-go/pkg/ids"
	"github.com/cdoepmann/ppcalc-go/pkg/trace"
)

// Params is the testcase folder's params.json (spec §6): delay bounds in
// integer milliseconds.
type Params struct {
	MinDelay int64 `json:"min_delay"`
	MaxDelay int64 `json:"max_delay"`
}

// WriteTestcase writes a full testcase folder: network_trace.csv (the
// ground-truth trace), sras.json (the flat message-id -> destination-set
// mapping, union of every source's emissions), and params.json.
func WriteTestcase(dir string, tr *trace.Trace, sets anonymity.SourceAnonymitySets[[]ids.DestinationId], minDelay, maxDelay time.Duration) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperr.NewIOError("mkdir", dir, err)
	}

	if err := tr.WriteToFile(filepath.Join(dir, "network_trace.csv")); err != nil {
		return err
	}

	if err := writeSRAS(filepath.Join(dir, "sras.json"), sets); err != nil {
		return err
	}

	return writeParams(filepath.Join(dir, "params.json"), minDelay, maxDelay)
}

func writeSRAS(path string, sets anonymity.SourceAnonymitySets[[]ids.DestinationId]) error {
	flat := make(map[string][]ids.DestinationId)
	for _, results := range sets {
		for _, r := range results {
			flat[r.MessageId.String()] = r.AnonymitySet
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return apperr.NewIOError("create", path, err)
	}
	defer f.Close()

	return json.NewEncoder(f).Encode(flat)
}

func writeParams(path string, minDelay, maxDelay time.Duration) error {
	f, err := os.Create(path)
	if err != nil {
		return apperr.NewIOError("create", path, err)
	}
	defer f.Close()

	params := Params{
		MinDelay: minDelay.Milliseconds(),
		MaxDelay: maxDelay.Milliseconds(),
	}
	return json.NewEncoder(f).Encode(params)
}
