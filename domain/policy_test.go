package domain

import (
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestDefaultTierTablesAreConsistent(t *testing.T) {
	state := DefaultPolicyState()

	for i := 1; i < SupplyTierCount; i++ {
		require.True(t, state.SupplyTiers[i].Gt(state.SupplyTiers[i-1]),
			"supply tier %d must exceed tier %d", i, i-1)
		require.LessOrEqual(t, state.ExpansionTiers[i], state.ExpansionTiers[i-1],
			"expansion cap %d must not exceed cap %d", i, i-1)
	}
	require.True(t, state.SupplyTiers[0].IsZero())
}

func TestSelectExpansionTier(t *testing.T) {
	state := DefaultPolicyState()

	tests := []struct {
		circulating *uint256.Int
		want        int
	}{
		{new(uint256.Int), 0},
		{wads(499_999), 0},
		{wads(500_000), 1},
		{wads(999_999), 1},
		{wads(1_000_000), 2},
		{wads(49_999_999), 7},
		{wads(50_000_000), 8},
		{wads(999_999_999), 8},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, state.SelectExpansionTier(tt.circulating),
			"circulating %v", tt.circulating)
	}
}

func TestNextEpochPoint(t *testing.T) {
	state := DefaultPolicyState()
	state.StartTime = time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC)

	require.Equal(t, state.StartTime, state.NextEpochPoint())

	state.Epoch = 4
	require.Equal(t, state.StartTime.Add(24*time.Hour), state.NextEpochPoint())
}

func TestPolicyCheckpointRoundTrip(t *testing.T) {
	state := DefaultPolicyState()
	state.Epoch = 17
	state.StartTime = time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC)
	state.Started = true
	state.BondsStarted = true
	state.SeigniorageSaved = wads(975)
	state.MaxSupplyExpansionPercent = 350
	state.EpochSupplyContractionLeft = wads(3_000)
	state.PreviousEpochPrice = BpsOf(One(), 10500)

	encoded := CheckpointOf(state).ToJson()

	restoredCheckpoint := &PolicyCheckpoint{}
	require.NoError(t, restoredCheckpoint.FromJson(encoded))

	restored := DefaultPolicyState()
	require.NoError(t, restoredCheckpoint.Restore(restored))

	require.Equal(t, uint64(17), restored.Epoch)
	require.True(t, restored.StartTime.Equal(state.StartTime))
	require.True(t, restored.Started)
	require.True(t, restored.BondsStarted)
	require.Equal(t, wads(975).String(), restored.SeigniorageSaved.String())
	require.Equal(t, uint64(350), restored.MaxSupplyExpansionPercent)
	require.Equal(t, wads(3_000).String(), restored.EpochSupplyContractionLeft.String())
	require.Equal(t, BpsOf(One(), 10500).String(), restored.PreviousEpochPrice.String())
}

func TestCheckpointRestoreRejectsGarbage(t *testing.T) {
	checkpoint := &PolicyCheckpoint{SeigniorageSaved: "not a number"}
	require.ErrorIs(t, checkpoint.Restore(DefaultPolicyState()), ErrorBadParameter)

	empty := &PolicyCheckpoint{}
	state := DefaultPolicyState()
	require.NoError(t, empty.Restore(state))
	require.True(t, state.SeigniorageSaved.IsZero())
}
