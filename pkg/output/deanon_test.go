package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cdoepmann/ppcalc-go/pkg/anonymity"
	"github.com/cdoepmann/ppcalc-go/pkg/ids"
)

func TestBuildDeanonymizationNamesSingletonDestination(t *testing.T) {
	sets := anonymity.SourceAnonymitySets[[]ids.DestinationId]{
		0: {
			{MessageId: 0, AnonymitySet: []ids.DestinationId{0, 1}},
			{MessageId: 1, AnonymitySet: []ids.DestinationId{0}},
		},
		1: {
			{MessageId: 2, AnonymitySet: []ids.DestinationId{0, 1, 2}},
		},
	}

	entries := BuildDeanonymization(sets)
	require.Len(t, entries, 2)

	assert.Equal(t, ids.SourceId(0), entries[0].Source)
	require.NotNil(t, entries[0].Destination)
	assert.Equal(t, ids.DestinationId(0), *entries[0].Destination)
	require.NotNil(t, entries[0].DeanomizedAt)
	assert.Equal(t, 2, *entries[0].DeanomizedAt)
	assert.Equal(t, 2, entries[0].Messages)

	assert.Equal(t, ids.SourceId(1), entries[1].Source)
	assert.Nil(t, entries[1].Destination)
	assert.Nil(t, entries[1].DeanomizedAt)
}
