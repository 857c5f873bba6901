package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cdoepmann/ppcalc-go/pkg/anonymity"
	"github.com/cdoepmann/ppcalc-go/pkg/ids"
)

func TestWriteTestcaseProducesAllThreeFiles(t *testing.T) {
	tr := fixtureTrace(t)
	sets := anonymity.SourceAnonymitySets[[]ids.DestinationId]{
		0: {
			{MessageId: 0, AnonymitySet: []ids.DestinationId{0}},
			{MessageId: 1, AnonymitySet: []ids.DestinationId{0}},
		},
	}

	dir := filepath.Join(t.TempDir(), "testcase")
	require.NoError(t, WriteTestcase(dir, tr, sets, 5*time.Millisecond, 50*time.Millisecond))

	for _, name := range []string{"network_trace.csv", "sras.json", "params.json"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	var params Params
	data, err := os.ReadFile(filepath.Join(dir, "params.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &params))
	assert.EqualValues(t, 5, params.MinDelay)
	assert.EqualValues(t, 50, params.MaxDelay)

	var sras map[string][]ids.DestinationId
	data, err = os.ReadFile(filepath.Join(dir, "sras.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &sras))
	assert.Equal(t, []ids.DestinationId{0}, sras["0"])
	assert.Equal(t, []ids.DestinationId{0}, sras["1"])
}
