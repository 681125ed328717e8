package usecase

import (
	"based/domain"

	"github.com/holiman/uint256"
)

// Governance setters. Each one is operator-gated and validates its documented
// range before touching the state, so a rejection changes nothing.

func (interactor *TreasuryInteractor) operatorGate(caller string) error {
	if caller != interactor.operator {
		return domain.ErrorNotOperator
	}
	return nil
}

// SetSupplyTiersEntry replaces one supply threshold. Neighbouring thresholds
// must stay strictly increasing.
func (interactor *TreasuryInteractor) SetSupplyTiersEntry(caller string, index int, value *uint256.Int) error {
	interactor.mu.Lock()
	defer interactor.mu.Unlock()

	if err := interactor.operatorGate(caller); err != nil {
		return err
	}
	if index < 0 || index >= domain.SupplyTierCount || value == nil {
		return domain.ErrorBadParameter
	}
	tiers := &interactor.state.SupplyTiers
	if index > 0 && !value.Gt(tiers[index-1]) {
		return domain.ErrorBadParameter
	}
	if index < domain.SupplyTierCount-1 && !value.Lt(tiers[index+1]) {
		return domain.ErrorBadParameter
	}
	tiers[index] = value.Clone()
	return nil
}

// SetExpansionTiersEntry replaces one expansion cap (10..1000 bps).
func (interactor *TreasuryInteractor) SetExpansionTiersEntry(caller string, index int, bps uint64) error {
	interactor.mu.Lock()
	defer interactor.mu.Unlock()

	if err := interactor.operatorGate(caller); err != nil {
		return err
	}
	if index < 0 || index >= domain.SupplyTierCount || bps < 10 || bps > 1000 {
		return domain.ErrorBadParameter
	}
	interactor.state.ExpansionTiers[index] = bps
	return nil
}

// SetMaxSupplyExpansionPercents overrides the active cap (10..1000 bps).
func (interactor *TreasuryInteractor) SetMaxSupplyExpansionPercents(caller string, bps uint64) error {
	interactor.mu.Lock()
	defer interactor.mu.Unlock()

	if err := interactor.operatorGate(caller); err != nil {
		return err
	}
	if bps < 10 || bps > 1000 {
		return domain.ErrorBadParameter
	}
	interactor.state.MaxSupplyExpansionPercent = bps
	return nil
}

// SetMaxSupplyContractionPercent bounds the per-epoch bond budget (100..1500 bps).
func (interactor *TreasuryInteractor) SetMaxSupplyContractionPercent(caller string, bps uint64) error {
	interactor.mu.Lock()
	defer interactor.mu.Unlock()

	if err := interactor.operatorGate(caller); err != nil {
		return err
	}
	if bps < 100 || bps > 1500 {
		return domain.ErrorBadParameter
	}
	interactor.state.MaxSupplyContractionPercent = bps
	return nil
}

// SetMaxDebtRatioPercent bounds total bond debt (1000..10000 bps).
func (interactor *TreasuryInteractor) SetMaxDebtRatioPercent(caller string, bps uint64) error {
	interactor.mu.Lock()
	defer interactor.mu.Unlock()

	if err := interactor.operatorGate(caller); err != nil {
		return err
	}
	if bps < 1000 || bps > 10000 {
		return domain.ErrorBadParameter
	}
	interactor.state.MaxDebtRatioPercent = bps
	return nil
}

// SetBootstrap adjusts the unconditional-expansion launch phase
// (epochs <= 120, 100..1000 bps).
func (interactor *TreasuryInteractor) SetBootstrap(caller string, epochs, bps uint64) error {
	interactor.mu.Lock()
	defer interactor.mu.Unlock()

	if err := interactor.operatorGate(caller); err != nil {
		return err
	}
	if epochs > 120 || bps < 100 || bps > 1000 {
		return domain.ErrorBadParameter
	}
	interactor.state.BootstrapEpochs = epochs
	interactor.state.BootstrapSupplyExpansionPercent = bps
	return nil
}

// SetExtraFunds routes the fund shares (dao <= 3000, dev <= 1000 bps).
func (interactor *TreasuryInteractor) SetExtraFunds(caller, daoFund string, daoBps uint64, devFund string, devBps uint64) error {
	interactor.mu.Lock()
	defer interactor.mu.Unlock()

	if err := interactor.operatorGate(caller); err != nil {
		return err
	}
	if daoBps > 3000 || devBps > 1000 {
		return domain.ErrorBadParameter
	}
	if (daoBps > 0 && daoFund == "") || (devBps > 0 && devFund == "") {
		return domain.ErrorBadParameter
	}
	state := interactor.state
	state.DaoFund = daoFund
	state.DaoFundSharedPercent = daoBps
	state.DevFund = devFund
	state.DevFundSharedPercent = devBps
	return nil
}

// SetDiscountConfig adjusts the bond purchase discount (percent <= 20000 bps,
// nil rate means uncapped).
func (interactor *TreasuryInteractor) SetDiscountConfig(caller string, discountBps uint64, maxRate *uint256.Int) error {
	interactor.mu.Lock()
	defer interactor.mu.Unlock()

	if err := interactor.operatorGate(caller); err != nil {
		return err
	}
	if discountBps > 20000 {
		return domain.ErrorBadParameter
	}
	interactor.state.DiscountPercent = discountBps
	if maxRate != nil {
		maxRate = maxRate.Clone()
	}
	interactor.state.MaxDiscountRate = maxRate
	return nil
}

// SetPremiumConfig adjusts the bond redemption premium. The threshold is in
// bps of the peg, at most 15000 and never below the price ceiling.
func (interactor *TreasuryInteractor) SetPremiumConfig(caller string, thresholdBps, premiumBps uint64, maxRate *uint256.Int) error {
	interactor.mu.Lock()
	defer interactor.mu.Unlock()

	if err := interactor.operatorGate(caller); err != nil {
		return err
	}
	state := interactor.state
	if thresholdBps > 15000 || premiumBps > 20000 {
		return domain.ErrorBadParameter
	}
	if domain.BpsOf(state.PriceOne, thresholdBps).Lt(state.PriceCeiling) {
		return domain.ErrorBadParameter
	}
	state.PremiumThreshold = thresholdBps
	state.PremiumPercent = premiumBps
	if maxRate != nil {
		maxRate = maxRate.Clone()
	}
	state.MaxPremiumRate = maxRate
	return nil
}

// SetMintingFactorForPayingDebt (10000..20000 bps).
func (interactor *TreasuryInteractor) SetMintingFactorForPayingDebt(caller string, bps uint64) error {
	interactor.mu.Lock()
	defer interactor.mu.Unlock()

	if err := interactor.operatorGate(caller); err != nil {
		return err
	}
	if bps < 10000 || bps > 20000 {
		return domain.ErrorBadParameter
	}
	interactor.state.MintingFactorForPayingDebt = bps
	return nil
}

// SetSeigniorageExpansionFloorPercent (<= 10000 bps).
func (interactor *TreasuryInteractor) SetSeigniorageExpansionFloorPercent(caller string, bps uint64) error {
	interactor.mu.Lock()
	defer interactor.mu.Unlock()

	if err := interactor.operatorGate(caller); err != nil {
		return err
	}
	if bps > 10000 {
		return domain.ErrorBadParameter
	}
	interactor.state.SeigniorageExpansionFloorPercent = bps
	return nil
}

// SetBondDepletionFloorPercent (<= 10000 bps).
func (interactor *TreasuryInteractor) SetBondDepletionFloorPercent(caller string, bps uint64) error {
	interactor.mu.Lock()
	defer interactor.mu.Unlock()

	if err := interactor.operatorGate(caller); err != nil {
		return err
	}
	if bps > 10000 {
		return domain.ErrorBadParameter
	}
	interactor.state.BondDepletionFloorPercent = bps
	return nil
}

// ExcludeFromSupply removes an account's balance from circulating supply.
func (interactor *TreasuryInteractor) ExcludeFromSupply(caller, account string) error {
	interactor.mu.Lock()
	defer interactor.mu.Unlock()

	if err := interactor.operatorGate(caller); err != nil {
		return err
	}
	if account == "" {
		return domain.ErrorBadParameter
	}
	interactor.state.ExcludedFromSupply[account] = true
	return nil
}

// IncludeInSupply undoes ExcludeFromSupply.
func (interactor *TreasuryInteractor) IncludeInSupply(caller, account string) error {
	interactor.mu.Lock()
	defer interactor.mu.Unlock()

	if err := interactor.operatorGate(caller); err != nil {
		return err
	}
	delete(interactor.state.ExcludedFromSupply, account)
	return nil
}

// GovernanceRecoverUnsupported transfers out tokens that ended up in the
// treasury by mistake. The managed stable and bond tokens are protected.
func (interactor *TreasuryInteractor) GovernanceRecoverUnsupported(caller string, token domain.Token, amount *uint256.Int, to string) error {
	interactor.mu.Lock()
	defer interactor.mu.Unlock()

	if err := interactor.operatorGate(caller); err != nil {
		return err
	}
	if token.Address() == interactor.stable.Address() || token.Address() == interactor.bond.Address() {
		return domain.ErrorProtectedToken
	}
	if err := token.Transfer(interactor.address, to, amount); err != nil {
		return err
	}
	interactor.emit(domain.NewEvent(domain.EventRecovered, caller, amount, token.Address()))
	return nil
}
