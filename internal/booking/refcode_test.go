package booking_test

import (
	"strings"
	"testing"

	"courtbook/internal/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceGeneratorFormat(t *testing.T) {
	g, err := booking.NewReferenceGenerator("test-salt")
	require.NoError(t, err)

	ref := g.Generate(42)
	parts := strings.Split(ref, "-")
	require.Len(t, parts, 3)
	assert.Equal(t, "CB", parts[0])
	assert.GreaterOrEqual(t, len(parts[1]), 6)
	assert.Len(t, parts[2], 4)
	assert.Equal(t, strings.ToUpper(ref), ref)
}

func TestReferenceGeneratorUnique(t *testing.T) {
	g, err := booking.NewReferenceGenerator("test-salt")
	require.NoError(t, err)

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		ref := g.Generate(7)
		assert.False(t, seen[ref], "duplicate reference %s", ref)
		seen[ref] = true
	}
}
