package engine

import (
	"testing"

	"github.com/arloliu/tawzi/types"
	"github.com/stretchr/testify/require"
)

func TestIsAvailableStatus(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{status: "", want: true},
		{status: "متاح", want: true},
		{status: "available", want: true},
		{status: "نشط", want: true},
		{status: "1", want: true},
		{status: "غير متاح", want: false},
		{status: "  غير متاح  ", want: false},
		{status: "غير نشط", want: false},
		{status: "0", want: false},
		{status: " 0\t", want: false},
		{status: "00", want: true},
	}

	for _, tt := range tests {
		t.Run("status="+tt.status, func(t *testing.T) {
			require.Equal(t, tt.want, IsAvailableStatus(tt.status))
			require.Equal(t, tt.want, IsAvailable(types.Supervisor{Code: "A", Status: tt.status}))
		})
	}
}

func TestActiveSupervisors(t *testing.T) {
	sups := []types.Supervisor{
		{Code: "A", Name: "Alice"},
		{Code: "B", Name: "Bob", Status: "غير نشط"},
		{Code: "", Name: "Nobody"},
		{Code: "C", Name: "Carol", Status: "متاح"},
		{Code: "A", Name: "Alice again"},
	}

	active := ActiveSupervisors(sups)

	require.Len(t, active, 2)
	require.Equal(t, "Alice", active[0].Name)
	require.Equal(t, "C", active[1].Code)
}

func TestActiveSupervisors_Empty(t *testing.T) {
	require.Empty(t, ActiveSupervisors(nil))
}
