package domain

import (
	"time"

	"github.com/holiman/uint256"
)

// ForgeSnapshot is one entry of the append-only reward history. RewardPerShare
// is cumulative and wad-scaled; it never decreases across snapshots.
type ForgeSnapshot struct {
	Time           time.Time
	RewardReceived *uint256.Int
	RewardPerShare *uint256.Int
}

// GenesisSnapshot is the index-0 snapshot every forge history starts from.
func GenesisSnapshot(at time.Time) ForgeSnapshot {
	return ForgeSnapshot{
		Time:           at,
		RewardReceived: new(uint256.Int),
		RewardPerShare: new(uint256.Int),
	}
}

// StakerSeat is the per-staker checkpoint. Seats are created lazily on first
// stake and zeroed, never deleted, on full withdrawal.
type StakerSeat struct {
	LastSnapshotIndex uint64
	RewardEarned      *uint256.Int
	EpochTimerStart   uint64
}

func NewStakerSeat() *StakerSeat {
	return &StakerSeat{
		RewardEarned: new(uint256.Int),
	}
}
