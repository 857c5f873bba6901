package output

import (
	"encoding/json"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cdoepmann/ppcalc-go/pkg/anonymity"
	"github.com/cdoepmann/ppcalc-go/pkg/compression"
	"github.com/cdoepmann/ppcalc-go/pkg/ids"
	"github.com/cdoepmann/ppcalc-go/pkg/trace"
)

func openDecompressed(t *testing.T, path string) ([]byte, error) {
	t.Helper()
	r, err := compression.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func fixtureTrace(t *testing.T) *trace.Trace {
	t.Helper()
	b := trace.NewBuilder()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for mid := 0; mid < 3; mid++ {
		b.AddEntry(trace.Entry{
			MessageId:            ids.MessageId(mid),
			SourceId:             0,
			SourceTimestamp:      base.Add(time.Duration(mid) * time.Second),
			DestinationId:        0,
			DestinationTimestamp: base.Add(time.Duration(mid+10) * time.Second),
		})
	}
	tr, err := b.Build()
	require.NoError(t, err)
	return tr
}

func TestBuildResultComputesDeanonAndLastSize(t *testing.T) {
	tr := fixtureTrace(t)
	destA := ids.DestinationId(0)
	destB := ids.DestinationId(1)

	sets := anonymity.SourceAnonymitySets[[]ids.DestinationId]{
		0: {
			{MessageId: 0, AnonymitySet: []ids.DestinationId{destA, destB}},
			{MessageId: 1, AnonymitySet: []ids.DestinationId{destA}},
			{MessageId: 2, AnonymitySet: []ids.DestinationId{destA}},
		},
	}

	result := BuildResult(tr, sets)
	sr := result["0"]
	require.NotNil(t, sr.LastAnonsetSize)
	assert.Equal(t, 1, *sr.LastAnonsetSize)
	require.NotNil(t, sr.DeanonymizedAtNum)
	assert.Equal(t, 2, *sr.DeanonymizedAtNum)
	require.NotNil(t, sr.TimeToDeanon)
	assert.Equal(t, 1.0, *sr.TimeToDeanon)
	assert.Len(t, sr.Msgs, 3)
}

func TestBuildResultNeverDeanonymizedIsNil(t *testing.T) {
	tr := fixtureTrace(t)
	sets := anonymity.SourceAnonymitySets[[]ids.DestinationId]{
		0: {
			{MessageId: 0, AnonymitySet: []ids.DestinationId{0, 1}},
			{MessageId: 1, AnonymitySet: []ids.DestinationId{0, 1}},
		},
	}

	result := BuildResult(tr, sets)
	sr := result["0"]
	assert.Nil(t, sr.DeanonymizedAtNum)
	assert.Nil(t, sr.TimeToDeanon)
	require.NotNil(t, sr.LastAnonsetSize)
	assert.Equal(t, 2, *sr.LastAnonsetSize)
}

func TestWriteResultRoundTripsThroughCompression(t *testing.T) {
	tr := fixtureTrace(t)
	sets := anonymity.SourceAnonymitySets[int]{
		0: {{MessageId: 0, AnonymitySet: 2}, {MessageId: 1, AnonymitySet: 1}},
	}
	result := BuildSizesResult(tr, sets)

	path := filepath.Join(t.TempDir(), "result.json.zst")
	require.NoError(t, WriteResult(path, result))

	r, err := openDecompressed(t, path)
	require.NoError(t, err)

	var decoded Result[int]
	require.NoError(t, json.Unmarshal(r, &decoded))
	assert.Equal(t, 1, *decoded["0"].LastAnonsetSize)
}
