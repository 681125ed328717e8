package usecase

import (
	"based/domain"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/holiman/uint256"
)

// TreasuryInteractor is the monetary-policy coordinator. All mutation of the
// policy state flows through one method per external operation; the state is
// never touched from outside the interactor.
type TreasuryInteractor struct {
	mu    sync.Mutex
	state *domain.PolicyState

	stable domain.Token
	bond   domain.Token
	share  domain.Token
	oracle domain.Oracle
	forge  domain.SharePool

	events domain.EventSink
	guard  *EntryGuard

	address      string
	forgeAddress string
	operator     string

	now func() time.Time
}

func NewTreasuryInteractor(state *domain.PolicyState,
	stable domain.Token,
	bond domain.Token,
	share domain.Token,
	oracle domain.Oracle,
	forge domain.SharePool,
	events domain.EventSink,
	guard *EntryGuard,
	address string,
	forgeAddress string,
	operator string) *TreasuryInteractor {
	interactor := &TreasuryInteractor{
		state:        state,
		stable:       stable,
		bond:         bond,
		share:        share,
		oracle:       oracle,
		forge:        forge,
		events:       events,
		guard:        guard,
		address:      address,
		forgeAddress: forgeAddress,
		operator:     operator,
		now:          time.Now,
	}
	return interactor
}

// SetForge wires the share pool after construction; the forge needs the
// treasury as its epoch clock, so one of the two is always wired late.
func (interactor *TreasuryInteractor) SetForge(forge domain.SharePool) {
	interactor.mu.Lock()
	defer interactor.mu.Unlock()
	interactor.forge = forge
}

//-------------------------------------------------------------------
// Lifecycle

// Start opens the treasury. One-way: a started treasury can never be
// un-started, only halted by revoking its token permissions.
func (interactor *TreasuryInteractor) Start(caller string, startTime time.Time) error {
	interactor.mu.Lock()
	defer interactor.mu.Unlock()

	if caller != interactor.operator {
		return domain.ErrorNotOperator
	}
	if interactor.state.Started {
		return domain.ErrorAlreadyStarted
	}

	interactor.state.StartTime = startTime
	interactor.state.Started = true
	return nil
}

// StartBonds opens the bond market. One-way as well.
func (interactor *TreasuryInteractor) StartBonds(caller string) error {
	interactor.mu.Lock()
	defer interactor.mu.Unlock()

	if caller != interactor.operator {
		return domain.ErrorNotOperator
	}
	interactor.state.BondsStarted = true
	return nil
}

//-------------------------------------------------------------------
// Epoch clock (also serves the forge as its EpochClock)

func (interactor *TreasuryInteractor) Epoch() uint64 {
	interactor.mu.Lock()
	defer interactor.mu.Unlock()
	return interactor.state.Epoch
}

func (interactor *TreasuryInteractor) NextEpochPoint() time.Time {
	interactor.mu.Lock()
	defer interactor.mu.Unlock()
	return interactor.state.NextEpochPoint()
}

//-------------------------------------------------------------------
// Policy tick

// AdvanceEpoch performs one policy tick: consult the oracle, expand supply
// toward the forge when the price sits above the ceiling, and reset the
// per-epoch contraction budget. Callable by anyone once the epoch is due;
// the treasury itself must hold operator permission on every managed token.
func (interactor *TreasuryInteractor) AdvanceEpoch(caller string) (err error) {
	done, err := interactor.guard.Enter(caller)
	if err != nil {
		return err
	}
	defer func() { done(err) }()

	interactor.mu.Lock()
	defer interactor.mu.Unlock()

	state := interactor.state
	if !state.Started {
		return domain.ErrorNotStarted
	}
	if interactor.now().Before(state.NextEpochPoint()) {
		return domain.ErrorEpochNotDue
	}
	if !interactor.hasTokenPermissions() {
		return domain.ErrorNoTokenPermission
	}

	// Refreshing the accumulator is best-effort; a stale feed still serves
	// the consult below, so the failure is logged and swallowed.
	if refreshErr := interactor.oracle.Update(); refreshErr != nil {
		log.Printf("🟡 refreshing oracle accumulator - %v\n", refreshErr.Error())
	}

	// Policy ticks run on the time-weighted price; the bond market below
	// consults the spot price instead.
	price, consultErr := interactor.oracle.TWAP(interactor.stable.Address(), domain.One())
	if consultErr != nil {
		log.Printf("🔴 reading oracle twap - %v\n", consultErr.Error())
		err = domain.ErrorOracleFailed
		return err
	}
	state.PreviousEpochPrice = price.Clone()

	circulating := interactor.circulatingSupply()

	if state.Epoch < state.BootstrapEpochs {
		// Bootstrap phase expands at a fixed rate regardless of price.
		err = interactor.sendToForge(domain.BpsOf(circulating, state.BootstrapSupplyExpansionPercent))
		if err != nil {
			return err
		}
	} else if price.Gt(state.PriceCeiling) {
		err = interactor.expand(price, circulating)
		if err != nil {
			return err
		}
	}

	if price.Gt(state.PriceCeiling) {
		state.EpochSupplyContractionLeft = new(uint256.Int)
	} else {
		state.EpochSupplyContractionLeft = domain.BpsOf(circulating, state.MaxSupplyContractionPercent)
	}

	state.Epoch++
	interactor.emit(domain.NewEvent(domain.EventEpochAdvanced, caller, price, fmt.Sprintf("epoch %v", state.Epoch)))
	return nil
}

// expand mints seigniorage for one above-ceiling epoch. The tier scan updates
// the persistent expansion cap as a documented side effect: later epochs
// inherit the new cap until supply crosses into another tier.
func (interactor *TreasuryInteractor) expand(price, circulating *uint256.Int) error {
	state := interactor.state

	tier := state.SelectExpansionTier(circulating)
	state.MaxSupplyExpansionPercent = state.ExpansionTiers[tier]

	percentage := new(uint256.Int).Sub(price, state.PriceOne)
	ceiling := domain.BpsToWad(state.MaxSupplyExpansionPercent)
	if percentage.Gt(ceiling) {
		percentage = ceiling
	}

	seigniorage := domain.WadMul(circulating, percentage)
	if seigniorage.IsZero() {
		return nil
	}

	bondSupply := interactor.bond.TotalSupply()
	depletionFloor := domain.BpsOf(bondSupply, state.BondDepletionFloorPercent)
	if !state.SeigniorageSaved.Lt(depletionFloor) {
		// Reserve is healthy: the whole expansion funds the stakers.
		return interactor.sendToForge(seigniorage)
	}

	// Debt-repayment phase: the floor share still reaches the forge, the
	// rest is minted into the treasury as bond-redemption backing.
	forgeShare := domain.BpsOf(seigniorage, state.SeigniorageExpansionFloorPercent)
	if err := interactor.sendToForge(forgeShare); err != nil {
		return err
	}

	remainder := new(uint256.Int).Sub(seigniorage, forgeShare)
	bondShare := domain.BpsOf(remainder, state.MintingFactorForPayingDebt)
	if bondShare.IsZero() {
		return nil
	}
	if err := interactor.stable.Mint(interactor.address, bondShare); err != nil {
		return err
	}
	state.SeigniorageSaved = new(uint256.Int).Add(state.SeigniorageSaved, bondShare)
	interactor.emit(domain.NewEvent(domain.EventTreasuryFunded, interactor.address, bondShare, "bond redemption backing"))
	return nil
}

// sendToForge mints amount to the treasury, peels off the dao and dev fund
// shares, and forwards the remainder to the forge's seigniorage entry point.
func (interactor *TreasuryInteractor) sendToForge(amount *uint256.Int) error {
	if amount == nil || amount.IsZero() {
		return nil
	}

	// The allocation below rejects an empty forge; nothing may be minted
	// unless the allocation can land.
	if interactor.forge.TotalStaked().IsZero() {
		return domain.ErrorNoStakers
	}

	state := interactor.state
	if err := interactor.stable.Mint(interactor.address, amount); err != nil {
		return err
	}

	remainder := amount.Clone()

	daoShare := domain.BpsOf(amount, state.DaoFundSharedPercent)
	if !daoShare.IsZero() && state.DaoFund != "" {
		if err := interactor.stable.Transfer(interactor.address, state.DaoFund, daoShare); err != nil {
			return err
		}
		remainder.Sub(remainder, daoShare)
		interactor.emit(domain.NewEvent(domain.EventDaoFundFunded, interactor.address, daoShare, state.DaoFund))
	}

	devShare := domain.BpsOf(amount, state.DevFundSharedPercent)
	if !devShare.IsZero() && state.DevFund != "" {
		if err := interactor.stable.Transfer(interactor.address, state.DevFund, devShare); err != nil {
			return err
		}
		remainder.Sub(remainder, devShare)
		interactor.emit(domain.NewEvent(domain.EventDevFundFunded, interactor.address, devShare, state.DevFund))
	}

	if err := interactor.stable.Approve(interactor.address, interactor.forgeAddress, remainder); err != nil {
		return err
	}
	if err := interactor.forge.AllocateSeigniorage(interactor.address, remainder); err != nil {
		return err
	}

	interactor.emit(domain.NewEvent(domain.EventSeigniorageFunded, interactor.address, remainder, "forge"))
	return nil
}

//-------------------------------------------------------------------
// Bond market

// BuyBonds burns stable tokens against freshly minted bonds while the price
// sits below the peg. targetPrice must equal the oracle price exactly; the
// mismatch rejection is the slippage guard, not a retryable condition.
func (interactor *TreasuryInteractor) BuyBonds(buyer string, amount, targetPrice *uint256.Int) (err error) {
	done, err := interactor.guard.Enter(buyer)
	if err != nil {
		return err
	}
	defer func() { done(err) }()

	interactor.mu.Lock()
	defer interactor.mu.Unlock()

	state := interactor.state
	if !state.Started || !state.BondsStarted {
		err = domain.ErrorBondsNotStarted
		return err
	}
	if amount == nil || amount.IsZero() {
		err = domain.ErrorZeroAmount
		return err
	}

	price, consultErr := interactor.oracle.Consult(interactor.stable.Address(), domain.One())
	if consultErr != nil {
		log.Printf("🔴 consulting oracle - %v\n", consultErr.Error())
		err = domain.ErrorOracleFailed
		return err
	}
	if !price.Eq(targetPrice) {
		err = domain.ErrorPriceMoved
		return err
	}
	if !price.Lt(state.PriceOne) {
		err = domain.ErrorPriceNotBelowPeg
		return err
	}
	if state.EpochSupplyContractionLeft.Lt(amount) {
		err = domain.ErrorContractionExhausted
		return err
	}

	rate := interactor.bondDiscountRate(price)
	bondAmount := domain.WadMul(amount, rate)

	circulating := interactor.circulatingSupply()
	newBondSupply := new(uint256.Int).Add(interactor.bond.TotalSupply(), bondAmount)
	if newBondSupply.Gt(domain.BpsOf(circulating, state.MaxDebtRatioPercent)) {
		err = domain.ErrorDebtCeiling
		return err
	}

	if err = interactor.stable.BurnFrom(buyer, amount); err != nil {
		return err
	}
	if err = interactor.bond.Mint(buyer, bondAmount); err != nil {
		return err
	}
	state.EpochSupplyContractionLeft = new(uint256.Int).Sub(state.EpochSupplyContractionLeft, amount)

	interactor.emit(domain.NewEvent(domain.EventBoughtBonds, buyer, bondAmount, fmt.Sprintf("burned %v", amount.ToBig().String())))
	return nil
}

// RedeemBonds burns bonds against the treasury's stable balance while the
// price sits above the ceiling, paying a premium above the threshold.
func (interactor *TreasuryInteractor) RedeemBonds(redeemer string, amount, targetPrice *uint256.Int) (err error) {
	done, err := interactor.guard.Enter(redeemer)
	if err != nil {
		return err
	}
	defer func() { done(err) }()

	interactor.mu.Lock()
	defer interactor.mu.Unlock()

	state := interactor.state
	if !state.Started || !state.BondsStarted {
		err = domain.ErrorBondsNotStarted
		return err
	}
	if amount == nil || amount.IsZero() {
		err = domain.ErrorZeroAmount
		return err
	}

	price, consultErr := interactor.oracle.Consult(interactor.stable.Address(), domain.One())
	if consultErr != nil {
		log.Printf("🔴 consulting oracle - %v\n", consultErr.Error())
		err = domain.ErrorOracleFailed
		return err
	}
	if !price.Eq(targetPrice) {
		err = domain.ErrorPriceMoved
		return err
	}
	if !price.Gt(state.PriceCeiling) {
		err = domain.ErrorPriceNotAboveCeiling
		return err
	}

	rate := interactor.bondPremiumRate(price)
	payout := domain.WadMul(amount, rate)
	if interactor.stable.BalanceOf(interactor.address).Lt(payout) {
		err = domain.ErrorTreasuryInsufficient
		return err
	}
	if interactor.bond.BalanceOf(redeemer).Lt(amount) {
		err = domain.ErrorExceedsBalance
		return err
	}

	// The reserve is written after every fallible step, so a rejected
	// redemption leaves it untouched.
	if err = interactor.bond.BurnFrom(redeemer, amount); err != nil {
		return err
	}
	if err = interactor.stable.Transfer(interactor.address, redeemer, payout); err != nil {
		return err
	}
	state.SeigniorageSaved = domain.SubClamped(state.SeigniorageSaved, payout)

	interactor.emit(domain.NewEvent(domain.EventRedeemedBonds, redeemer, payout, fmt.Sprintf("burned %v bonds", amount.ToBig().String())))
	return nil
}

//-------------------------------------------------------------------
// Views

// CirculatingSupply is the stable supply net of excluded balances and of the
// reserve already earmarked for bond redemption.
func (interactor *TreasuryInteractor) CirculatingSupply() *uint256.Int {
	interactor.mu.Lock()
	defer interactor.mu.Unlock()
	return interactor.circulatingSupply()
}

func (interactor *TreasuryInteractor) circulatingSupply() *uint256.Int {
	circulating := interactor.stable.TotalSupply().Clone()
	for account := range interactor.state.ExcludedFromSupply {
		circulating = domain.SubClamped(circulating, interactor.stable.BalanceOf(account))
	}
	return domain.SubClamped(circulating, interactor.state.SeigniorageSaved)
}

func (interactor *TreasuryInteractor) SeigniorageSaved() *uint256.Int {
	interactor.mu.Lock()
	defer interactor.mu.Unlock()
	return interactor.state.SeigniorageSaved.Clone()
}

func (interactor *TreasuryInteractor) PreviousEpochPrice() *uint256.Int {
	interactor.mu.Lock()
	defer interactor.mu.Unlock()
	return interactor.state.PreviousEpochPrice.Clone()
}

// BondDiscountRate is the bonds-per-stable rate a buyer would get now.
func (interactor *TreasuryInteractor) BondDiscountRate() (*uint256.Int, error) {
	interactor.mu.Lock()
	defer interactor.mu.Unlock()

	price, err := interactor.oracle.Consult(interactor.stable.Address(), domain.One())
	if err != nil {
		return nil, domain.ErrorOracleFailed
	}
	return interactor.bondDiscountRate(price), nil
}

// BondPremiumRate is the stable-per-bond rate a redeemer would get now.
func (interactor *TreasuryInteractor) BondPremiumRate() (*uint256.Int, error) {
	interactor.mu.Lock()
	defer interactor.mu.Unlock()

	price, err := interactor.oracle.Consult(interactor.stable.Address(), domain.One())
	if err != nil {
		return nil, domain.ErrorOracleFailed
	}
	return interactor.bondPremiumRate(price), nil
}

// BurnableStableLeft is the stable amount still burnable through bond
// purchases this epoch, net of the debt ceiling headroom.
func (interactor *TreasuryInteractor) BurnableStableLeft() (*uint256.Int, error) {
	interactor.mu.Lock()
	defer interactor.mu.Unlock()

	state := interactor.state
	price, err := interactor.oracle.Consult(interactor.stable.Address(), domain.One())
	if err != nil {
		return nil, domain.ErrorOracleFailed
	}
	if !price.Lt(state.PriceOne) {
		return new(uint256.Int), nil
	}

	circulating := interactor.circulatingSupply()
	bondCeiling := domain.BpsOf(circulating, state.MaxDebtRatioPercent)
	bondSupply := interactor.bond.TotalSupply()
	if !bondSupply.Lt(bondCeiling) {
		return new(uint256.Int), nil
	}

	headroom := new(uint256.Int).Sub(bondCeiling, bondSupply)
	maxBurnable := domain.WadDiv(headroom, interactor.bondDiscountRate(price))
	return domain.MinWad(state.EpochSupplyContractionLeft, maxBurnable), nil
}

// RedeemableBonds is the bond amount the treasury's balance can pay out now.
func (interactor *TreasuryInteractor) RedeemableBonds() (*uint256.Int, error) {
	interactor.mu.Lock()
	defer interactor.mu.Unlock()

	price, err := interactor.oracle.Consult(interactor.stable.Address(), domain.One())
	if err != nil {
		return nil, domain.ErrorOracleFailed
	}
	if !price.Gt(interactor.state.PriceCeiling) {
		return new(uint256.Int), nil
	}
	balance := interactor.stable.BalanceOf(interactor.address)
	return domain.WadDiv(balance, interactor.bondPremiumRate(price)), nil
}

//-------------------------------------------------------------------
// Rate math

func (interactor *TreasuryInteractor) bondDiscountRate(price *uint256.Int) *uint256.Int {
	state := interactor.state
	one := state.PriceOne

	if !price.Lt(one) || state.DiscountPercent == 0 {
		return one.Clone()
	}

	// One stable buys one*one/price bonds at peg parity; the configured
	// percentage of that surplus is granted as discount.
	pegBonds := new(uint256.Int).Mul(one, one)
	pegBonds.Div(pegBonds, price)
	discount := domain.BpsOf(new(uint256.Int).Sub(pegBonds, one), state.DiscountPercent)
	rate := new(uint256.Int).Add(one, discount)
	if state.MaxDiscountRate != nil && rate.Gt(state.MaxDiscountRate) {
		rate = state.MaxDiscountRate.Clone()
	}
	return rate
}

func (interactor *TreasuryInteractor) bondPremiumRate(price *uint256.Int) *uint256.Int {
	state := interactor.state
	one := state.PriceOne

	if !price.Gt(state.PriceCeiling) {
		return one.Clone()
	}
	threshold := domain.BpsOf(one, state.PremiumThreshold)
	if price.Lt(threshold) {
		return one.Clone()
	}

	premium := domain.BpsOf(new(uint256.Int).Sub(price, one), state.PremiumPercent)
	rate := new(uint256.Int).Add(one, premium)
	if state.MaxPremiumRate != nil && rate.Gt(state.MaxPremiumRate) {
		rate = state.MaxPremiumRate.Clone()
	}
	return rate
}

//-------------------------------------------------------------------
// Internals

// hasTokenPermissions requires the treasury to simultaneously hold operator
// permission on every managed token; losing any one halts all policy ticks.
func (interactor *TreasuryInteractor) hasTokenPermissions() bool {
	return interactor.stable.HasRole(domain.RoleOperator, interactor.address) &&
		interactor.bond.HasRole(domain.RoleOperator, interactor.address) &&
		interactor.share.HasRole(domain.RoleOperator, interactor.address)
}

// The audit trail is persisted out of band; a sink failure must not revert
// an already-applied policy action, so it is logged and swallowed.
func (interactor *TreasuryInteractor) emit(event domain.Event) {
	if interactor.events == nil {
		return
	}
	if err := interactor.events.Append(event); err != nil {
		log.Printf("🟡 appending %v event - %v\n", event.Kind, err.Error())
	}
}

// Checkpoint snapshots the restart-relevant state for persistence.
func (interactor *TreasuryInteractor) Checkpoint() *domain.PolicyCheckpoint {
	interactor.mu.Lock()
	defer interactor.mu.Unlock()
	return domain.CheckpointOf(interactor.state)
}

// RestoreCheckpoint loads a persisted checkpoint back into the state.
func (interactor *TreasuryInteractor) RestoreCheckpoint(checkpoint *domain.PolicyCheckpoint) error {
	interactor.mu.Lock()
	defer interactor.mu.Unlock()
	return checkpoint.Restore(interactor.state)
}
