package notifications

import (
	"testing"

	"github.com/9ssi7/exponent"
	"github.com/stretchr/testify/require"
)

func TestNewExpoAdapter(t *testing.T) {
	adapter := NewExpoAdapter(exponent.NewClient())
	require.NotNil(t, adapter)
	require.NotNil(t, adapter.client)
}
