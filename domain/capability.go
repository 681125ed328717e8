package domain

import (
	"time"

	"github.com/holiman/uint256"
)

const (
	RoleOperator = "operator"
)

// Oracle is the price feed the treasury consults. Update refreshes the feed's
// internal accumulator and is best-effort at every call site; Consult and TWAP
// failures are fatal to the operation that needed the price.
type Oracle interface {
	Update() error
	Consult(token string, amountIn *uint256.Int) (*uint256.Int, error)
	TWAP(token string, amountIn *uint256.Int) (*uint256.Int, error)
}

// Token is the capability surface of a managed token (stable, bond or share).
// Accounts are plain string addresses. Amounts are wad-scaled.
type Token interface {
	Address() string
	Mint(to string, amount *uint256.Int) error
	BurnFrom(from string, amount *uint256.Int) error
	Transfer(from, to string, amount *uint256.Int) error
	Approve(owner, spender string, amount *uint256.Int) error
	TransferFrom(spender, from, to string, amount *uint256.Int) error
	BalanceOf(account string) *uint256.Int
	TotalSupply() *uint256.Int
	HasRole(role, account string) bool
}

// StakeLedger is the wrapper ledger the forge builds on: plain amount-per-staker
// bookkeeping with token custody, no reward logic.
type StakeLedger interface {
	Stake(account string, amount *uint256.Int) error
	Withdraw(account string, amount *uint256.Int) error
	BalanceOf(account string) *uint256.Int
	TotalSupply() *uint256.Int
}

// EpochClock is the forge's view of the treasury cadence.
type EpochClock interface {
	Epoch() uint64
	NextEpochPoint() time.Time
}

// SharePool is the forge as seen by the treasury and governance.
type SharePool interface {
	AllocateSeigniorage(operator string, amount *uint256.Int) error
	SetLockUp(operator string, withdrawEpochs, rewardEpochs uint64) error
	TotalStaked() *uint256.Int
	Epoch() uint64
	NextEpochPoint() time.Time
	GovernanceRecoverUnsupported(caller string, token Token, amount *uint256.Int, to string) error
}

// EventSink receives the audit-trail events of every mutating entry point.
type EventSink interface {
	Append(event Event) error
}
