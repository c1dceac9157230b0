package strategy

import (
	"testing"

	"github.com/arloliu/tawzi/types"
	"github.com/stretchr/testify/require"
)

func TestLoadOnly_Score(t *testing.T) {
	lo := NewLoadOnly()
	school := types.School{GuidanceCode: "G1", Stage: "primary"}

	match := lo.Score(school, types.Supervisor{GuidanceCode: "G1"}, fakeLoad{total: 2})
	require.Equal(t, 2*DefaultTotalWeight, match.Value)
	require.True(t, match.SpecialtyMatch)

	other := lo.Score(school, types.Supervisor{GuidanceCode: "G2"}, fakeLoad{byStage: map[string]int{"primary": 4}})
	require.Equal(t, 0.0, other.Value)
	require.False(t, other.SpecialtyMatch)
}

func TestNewLoadOnly_Weight(t *testing.T) {
	require.Equal(t, DefaultTotalWeight, NewLoadOnly().LoadWeight())
	require.Equal(t, 80.0, NewLoadOnly(WithLoadWeight(80)).LoadWeight())
	require.Equal(t, DefaultTotalWeight, NewLoadOnly(WithLoadWeight(0)).LoadWeight())
	require.Equal(t, DefaultTotalWeight, NewLoadOnly(nil).LoadWeight())

	score := NewLoadOnly(WithLoadWeight(80)).Score(types.School{}, types.Supervisor{}, fakeLoad{total: 3})
	require.Equal(t, 240.0, score.Value)
}

func TestByName(t *testing.T) {
	tests := []struct {
		name    string
		want    any
		wantErr error
	}{
		{name: "", want: &FairnessBalanced{}},
		{name: NameFairness, want: &FairnessBalanced{}},
		{name: NameLoadOnly, want: &LoadOnly{}},
		{name: "round-robin", wantErr: ErrUnknownStrategy},
	}

	for _, tt := range tests {
		t.Run("name="+tt.name, func(t *testing.T) {
			s, err := ByName(tt.name)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, s)

				return
			}

			require.NoError(t, err)
			require.IsType(t, tt.want, s)
		})
	}
}

func TestByName_LoadOnlyTakesTotalWeight(t *testing.T) {
	s, err := ByName(NameLoadOnly, WithTotalWeight(120), WithSpecialtyPenalty(1))
	require.NoError(t, err)

	lo, ok := s.(*LoadOnly)
	require.True(t, ok)
	require.Equal(t, 120.0, lo.LoadWeight())
}

func TestByName_PassesFairnessOptions(t *testing.T) {
	s, err := ByName(NameFairness, WithSpecialtyPenalty(42))
	require.NoError(t, err)

	fb, ok := s.(*FairnessBalanced)
	require.True(t, ok)
	require.Equal(t, 42.0, fb.SpecialtyPenalty())
}
