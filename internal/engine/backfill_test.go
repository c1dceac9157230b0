package engine

import (
	"testing"

	"github.com/arloliu/tawzi/types"
	"github.com/stretchr/testify/require"
)

func TestBackfillGuidance(t *testing.T) {
	sup := types.Supervisor{Code: "A", GuidanceCode: "G1"}

	code, filled := backfillGuidance("G9", sup)
	require.Equal(t, "G9", code)
	require.False(t, filled)

	code, filled = backfillGuidance("", sup)
	require.Equal(t, "G1", code)
	require.True(t, filled)

	code, filled = backfillGuidance("", types.Supervisor{Code: "B"})
	require.Empty(t, code)
	require.False(t, filled)
}
