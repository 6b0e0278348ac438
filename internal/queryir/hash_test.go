package queryir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash_Deterministic(t *testing.T) {
	q := ListCombination{Queries: []Query{
		GroupReference{Label: "otto"},
		SingleLookup{Identifier: 16},
	}}

	h1, err := Hash(q)
	require.NoError(t, err)
	h2, err := Hash(q)
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64) // hex-encoded SHA-256
}

func TestHash_StructurallyEqualQueriesHashEqual(t *testing.T) {
	a := RangeLookup{First: 0, Last: 32}
	b := RangeLookup{First: 0, Last: 32}

	ha, err := Hash(a)
	require.NoError(t, err)
	hb, err := Hash(b)
	require.NoError(t, err)

	assert.Equal(t, ha, hb)
}

func TestHash_DifferentQueriesHashDifferent(t *testing.T) {
	ha, err := Hash(SingleLookup{Identifier: 0})
	require.NoError(t, err)
	hb, err := Hash(SingleLookup{Identifier: 1})
	require.NoError(t, err)

	assert.NotEqual(t, ha, hb)
}

func TestHash_VariantsWithSameFieldsHashDifferent(t *testing.T) {
	// A list and an intersection over the same operands are distinct
	// queries and must have distinct identities.
	operands := []Query{SingleLookup{Identifier: 0}, SingleLookup{Identifier: 1}}

	hl, err := Hash(ListCombination{Queries: operands})
	require.NoError(t, err)
	hi, err := Hash(Intersection{Queries: operands})
	require.NoError(t, err)

	assert.NotEqual(t, hl, hi)
}

func TestHash_NilQueryFails(t *testing.T) {
	_, err := Hash(nil)
	require.Error(t, err)
}
