package usecase

import (
	"based/domain"
	"log"
	"sync"
	"time"

	"github.com/holiman/uint256"
)

// SnapshotStore persists the forge's append-only reward history.
type SnapshotStore interface {
	Append(index uint64, snapshot domain.ForgeSnapshot) error
}

// ForgeInteractor is the epoch-locked staking ledger. Stakers deposit the
// share token through the underlying stake ledger and earn the stable-token
// seigniorage allocated by the treasury, pro-rata via the reward-per-share
// accumulator.
type ForgeInteractor struct {
	mu sync.Mutex

	share  domain.Token
	stable domain.Token
	ledger domain.StakeLedger
	clock  domain.EpochClock

	snapshots []domain.ForgeSnapshot
	seats     map[string]*domain.StakerSeat

	withdrawLockupEpochs uint64
	rewardLockupEpochs   uint64

	events domain.EventSink
	guard  *EntryGuard
	store  SnapshotStore

	address  string
	operator string

	now func() time.Time
}

func NewForgeInteractor(share domain.Token,
	stable domain.Token,
	ledger domain.StakeLedger,
	clock domain.EpochClock,
	events domain.EventSink,
	guard *EntryGuard,
	store SnapshotStore,
	address string,
	operator string) *ForgeInteractor {
	interactor := &ForgeInteractor{
		share:                share,
		stable:               stable,
		ledger:               ledger,
		clock:                clock,
		snapshots:            []domain.ForgeSnapshot{domain.GenesisSnapshot(time.Now())},
		seats:                make(map[string]*domain.StakerSeat),
		withdrawLockupEpochs: 6,
		rewardLockupEpochs:   3,
		events:               events,
		guard:                guard,
		store:                store,
		address:              address,
		operator:             operator,
		now:                  time.Now,
	}
	return interactor
}

//-------------------------------------------------------------------
// Views

func (interactor *ForgeInteractor) LatestSnapshotIndex() uint64 {
	interactor.mu.Lock()
	defer interactor.mu.Unlock()
	return uint64(len(interactor.snapshots) - 1)
}

func (interactor *ForgeInteractor) RewardPerShare() *uint256.Int {
	interactor.mu.Lock()
	defer interactor.mu.Unlock()
	return interactor.latestSnapshot().RewardPerShare.Clone()
}

func (interactor *ForgeInteractor) BalanceOf(staker string) *uint256.Int {
	return interactor.ledger.BalanceOf(staker)
}

func (interactor *ForgeInteractor) TotalStaked() *uint256.Int {
	return interactor.ledger.TotalSupply()
}

// Earned is the staker's accrued-but-unclaimed stable reward.
func (interactor *ForgeInteractor) Earned(staker string) *uint256.Int {
	interactor.mu.Lock()
	defer interactor.mu.Unlock()
	return interactor.earned(staker)
}

// The clock is always read before taking the forge lock: the treasury calls
// into the forge while holding its own lock, so the reverse order would be a
// lock-order inversion.

func (interactor *ForgeInteractor) CanWithdraw(staker string) bool {
	epoch := interactor.clock.Epoch()
	interactor.mu.Lock()
	defer interactor.mu.Unlock()
	return interactor.seatOf(staker).EpochTimerStart+interactor.withdrawLockupEpochs <= epoch
}

func (interactor *ForgeInteractor) CanClaimReward(staker string) bool {
	epoch := interactor.clock.Epoch()
	interactor.mu.Lock()
	defer interactor.mu.Unlock()
	return interactor.seatOf(staker).EpochTimerStart+interactor.rewardLockupEpochs <= epoch
}

func (interactor *ForgeInteractor) Epoch() uint64 {
	return interactor.clock.Epoch()
}

func (interactor *ForgeInteractor) NextEpochPoint() time.Time {
	return interactor.clock.NextEpochPoint()
}

//-------------------------------------------------------------------
// Staker operations

// Stake deposits share tokens. Any stake restarts both lockup clocks.
func (interactor *ForgeInteractor) Stake(staker string, amount *uint256.Int) (err error) {
	done, err := interactor.guard.Enter(staker)
	if err != nil {
		return err
	}
	defer func() { done(err) }()

	epoch := interactor.clock.Epoch()
	interactor.mu.Lock()
	defer interactor.mu.Unlock()

	if amount == nil || amount.IsZero() {
		err = domain.ErrorZeroAmount
		return err
	}

	interactor.updateReward(staker)
	if err = interactor.ledger.Stake(staker, amount); err != nil {
		return err
	}
	interactor.seat(staker).EpochTimerStart = epoch

	interactor.emit(domain.NewEvent(domain.EventStaked, staker, amount, ""))
	return nil
}

// Withdraw returns principal after the withdraw lockup has elapsed. Pending
// reward is claimed first as a forced side effect; the reward lockup can
// never still be running here because it is bounded by the withdraw lockup.
func (interactor *ForgeInteractor) Withdraw(staker string, amount *uint256.Int) (err error) {
	done, err := interactor.guard.Enter(staker)
	if err != nil {
		return err
	}
	defer func() { done(err) }()

	epoch := interactor.clock.Epoch()
	interactor.mu.Lock()
	defer interactor.mu.Unlock()

	if amount == nil || amount.IsZero() {
		err = domain.ErrorZeroAmount
		return err
	}
	balance := interactor.ledger.BalanceOf(staker)
	if balance.IsZero() {
		err = domain.ErrorNoStake
		return err
	}
	if balance.Lt(amount) {
		err = domain.ErrorExceedsStake
		return err
	}
	if interactor.seatOf(staker).EpochTimerStart+interactor.withdrawLockupEpochs > epoch {
		err = domain.ErrorWithdrawLocked
		return err
	}

	interactor.updateReward(staker)
	if err = interactor.claim(staker, epoch); err != nil {
		return err
	}
	if err = interactor.ledger.Withdraw(staker, amount); err != nil {
		return err
	}

	interactor.emit(domain.NewEvent(domain.EventWithdrawn, staker, amount, ""))
	return nil
}

// ClaimReward pays out the accrued reward after the reward lockup has
// elapsed. Claiming restarts both lockup clocks.
func (interactor *ForgeInteractor) ClaimReward(staker string) (err error) {
	done, err := interactor.guard.Enter(staker)
	if err != nil {
		return err
	}
	defer func() { done(err) }()

	epoch := interactor.clock.Epoch()
	interactor.mu.Lock()
	defer interactor.mu.Unlock()

	interactor.updateReward(staker)
	err = interactor.claim(staker, epoch)
	return err
}

// Exit withdraws the full balance, which cascades into the implicit claim.
func (interactor *ForgeInteractor) Exit(staker string) error {
	return interactor.Withdraw(staker, interactor.ledger.BalanceOf(staker))
}

//-------------------------------------------------------------------
// Treasury operations

// AllocateSeigniorage appends a reward snapshot and pulls the allocated
// stable tokens from the caller. This is the only mechanism through which
// reward-per-share ever grows.
func (interactor *ForgeInteractor) AllocateSeigniorage(caller string, amount *uint256.Int) (err error) {
	done, err := interactor.guard.Enter(caller)
	if err != nil {
		return err
	}
	defer func() { done(err) }()

	interactor.mu.Lock()
	defer interactor.mu.Unlock()

	if caller != interactor.operator {
		err = domain.ErrorNotOperator
		return err
	}
	if amount == nil || amount.IsZero() {
		err = domain.ErrorZeroAmount
		return err
	}
	total := interactor.ledger.TotalSupply()
	if total.IsZero() {
		err = domain.ErrorNoStakers
		return err
	}

	previous := interactor.latestSnapshot().RewardPerShare
	delta := domain.WadDiv(amount, total)
	next := domain.ForgeSnapshot{
		Time:           interactor.now(),
		RewardReceived: amount.Clone(),
		RewardPerShare: new(uint256.Int).Add(previous, delta),
	}

	if err = interactor.stable.TransferFrom(interactor.address, caller, interactor.address, amount); err != nil {
		return err
	}
	interactor.snapshots = append(interactor.snapshots, next)
	interactor.persistSnapshot(uint64(len(interactor.snapshots)-1), next)

	interactor.emit(domain.NewEvent(domain.EventRewardAdded, caller, amount, ""))
	return nil
}

// SetLockUp bounds: withdraw >= reward, and withdraw at most 56 epochs
// (about two weeks at the six hour cadence).
func (interactor *ForgeInteractor) SetLockUp(caller string, withdrawEpochs, rewardEpochs uint64) error {
	interactor.mu.Lock()
	defer interactor.mu.Unlock()

	if caller != interactor.operator {
		return domain.ErrorNotOperator
	}
	if withdrawEpochs < rewardEpochs || withdrawEpochs > 56 {
		return domain.ErrorBadLockup
	}
	interactor.withdrawLockupEpochs = withdrawEpochs
	interactor.rewardLockupEpochs = rewardEpochs
	return nil
}

// GovernanceRecoverUnsupported transfers out stray tokens. The staked share
// token and the stable reward token are protected.
func (interactor *ForgeInteractor) GovernanceRecoverUnsupported(caller string, token domain.Token, amount *uint256.Int, to string) error {
	interactor.mu.Lock()
	defer interactor.mu.Unlock()

	if caller != interactor.operator {
		return domain.ErrorNotOperator
	}
	if token.Address() == interactor.share.Address() || token.Address() == interactor.stable.Address() {
		return domain.ErrorProtectedToken
	}
	if err := token.Transfer(interactor.address, to, amount); err != nil {
		return err
	}
	interactor.emit(domain.NewEvent(domain.EventRecovered, caller, amount, token.Address()))
	return nil
}

//-------------------------------------------------------------------
// Internals

func (interactor *ForgeInteractor) latestSnapshot() domain.ForgeSnapshot {
	return interactor.snapshots[len(interactor.snapshots)-1]
}

// seat is the write-side lookup; it creates the seat on first use and must
// only run inside mutating operations.
func (interactor *ForgeInteractor) seat(staker string) *domain.StakerSeat {
	seat, exists := interactor.seats[staker]
	if !exists {
		seat = domain.NewStakerSeat()
		interactor.seats[staker] = seat
	}
	return seat
}

// seatOf reads a seat without creating one, so views never grow the map.
func (interactor *ForgeInteractor) seatOf(staker string) domain.StakerSeat {
	if seat, exists := interactor.seats[staker]; exists {
		return *seat
	}
	return *domain.NewStakerSeat()
}

func (interactor *ForgeInteractor) earned(staker string) *uint256.Int {
	seat := interactor.seatOf(staker)
	latest := interactor.latestSnapshot().RewardPerShare
	checkpointed := interactor.snapshots[seat.LastSnapshotIndex].RewardPerShare

	delta := new(uint256.Int).Sub(latest, checkpointed)
	accrued := domain.WadMul(interactor.ledger.BalanceOf(staker), delta)
	return accrued.Add(accrued, seat.RewardEarned)
}

// updateReward checkpoints the staker against the latest snapshot. It must
// run before every balance-changing operation, otherwise the accumulator
// would apply the new balance to rewards from before the change.
func (interactor *ForgeInteractor) updateReward(staker string) {
	seat := interactor.seat(staker)
	seat.RewardEarned = interactor.earned(staker)
	seat.LastSnapshotIndex = uint64(len(interactor.snapshots) - 1)
}

// claim pays out the checkpointed reward. Callers must have run updateReward.
func (interactor *ForgeInteractor) claim(staker string, epoch uint64) error {
	seat := interactor.seat(staker)
	reward := seat.RewardEarned
	if reward.IsZero() {
		return nil
	}
	if seat.EpochTimerStart+interactor.rewardLockupEpochs > epoch {
		return domain.ErrorRewardLocked
	}

	seat.EpochTimerStart = epoch
	seat.RewardEarned = new(uint256.Int)
	if err := interactor.stable.Transfer(interactor.address, staker, reward); err != nil {
		seat.RewardEarned = reward
		return err
	}

	interactor.emit(domain.NewEvent(domain.EventRewardPaid, staker, reward, ""))
	return nil
}

func (interactor *ForgeInteractor) persistSnapshot(index uint64, snapshot domain.ForgeSnapshot) {
	if interactor.store == nil {
		return
	}
	if err := interactor.store.Append(index, snapshot); err != nil {
		log.Printf("🟡 persisting snapshot #%v - %v\n", index, err.Error())
	}
}

func (interactor *ForgeInteractor) emit(event domain.Event) {
	if interactor.events == nil {
		return
	}
	if err := interactor.events.Append(event); err != nil {
		log.Printf("🟡 appending %v event - %v\n", event.Kind, err.Error())
	}
}
