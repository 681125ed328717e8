package domain

import (
	"time"

	"github.com/holiman/uint256"
)

const (
	// SupplyTierCount is the number of (threshold, cap) pairs in the
	// expansion tier tables. The two tables always move together.
	SupplyTierCount = 9
)

// PolicyState is the whole mutable state of the treasury policy engine.
// It is owned by the TreasuryInteractor; nothing mutates it from outside.
type PolicyState struct {
	Epoch       uint64
	StartTime   time.Time
	EpochPeriod time.Duration

	PriceOne     *uint256.Int
	PriceCeiling *uint256.Int

	// Stable tokens minted and held back as bond-redemption backing.
	SeigniorageSaved *uint256.Int

	// SupplyTiers must be strictly increasing, ExpansionTiers (bps caps)
	// non-increasing; tier i applies while circulating supply is at or
	// above SupplyTiers[i] and below SupplyTiers[i+1].
	SupplyTiers    [SupplyTierCount]*uint256.Int
	ExpansionTiers [SupplyTierCount]uint64

	// Active expansion cap in bps. Updated by the tier scan on every epoch
	// tick and inherited by later epochs until supply moves tiers.
	MaxSupplyExpansionPercent uint64

	BootstrapEpochs                 uint64
	BootstrapSupplyExpansionPercent uint64

	MaxSupplyContractionPercent      uint64
	MaxDebtRatioPercent              uint64
	BondDepletionFloorPercent        uint64
	SeigniorageExpansionFloorPercent uint64
	MintingFactorForPayingDebt       uint64

	DiscountPercent  uint64
	MaxDiscountRate  *uint256.Int // nil means uncapped
	PremiumThreshold uint64       // bps of PriceOne
	PremiumPercent   uint64
	MaxPremiumRate   *uint256.Int // nil means uncapped

	DaoFund              string
	DevFund              string
	DaoFundSharedPercent uint64
	DevFundSharedPercent uint64

	// Accounts whose balances do not count toward circulating supply.
	ExcludedFromSupply map[string]bool

	// Remaining stable amount burnable through bond purchases this epoch.
	EpochSupplyContractionLeft *uint256.Int

	// Price read at the latest completed tick, kept for reporting.
	PreviousEpochPrice *uint256.Int

	Started      bool
	BondsStarted bool
}

// DefaultPolicyState returns the launch parameterization of the protocol.
func DefaultPolicyState() *PolicyState {
	state := &PolicyState{
		EpochPeriod: 6 * time.Hour,

		PriceOne:         One(),
		PriceCeiling:     BpsOf(One(), 10100),
		SeigniorageSaved: new(uint256.Int),

		MaxSupplyExpansionPercent: 450,

		BootstrapEpochs:                 28,
		BootstrapSupplyExpansionPercent: 450,

		MaxSupplyContractionPercent:      300,
		MaxDebtRatioPercent:              3500,
		BondDepletionFloorPercent:        10000,
		SeigniorageExpansionFloorPercent: 3500,
		MintingFactorForPayingDebt:       10000,

		DiscountPercent:  0,
		PremiumThreshold: 11000,
		PremiumPercent:   7000,

		DaoFundSharedPercent: 1000,
		DevFundSharedPercent: 500,

		ExcludedFromSupply:         make(map[string]bool),
		EpochSupplyContractionLeft: new(uint256.Int),
		PreviousEpochPrice:         new(uint256.Int),
	}

	tokens := func(n uint64) *uint256.Int {
		return new(uint256.Int).Mul(uint256.NewInt(n), One())
	}
	state.SupplyTiers = [SupplyTierCount]*uint256.Int{
		new(uint256.Int),
		tokens(500_000),
		tokens(1_000_000),
		tokens(1_500_000),
		tokens(2_000_000),
		tokens(5_000_000),
		tokens(10_000_000),
		tokens(20_000_000),
		tokens(50_000_000),
	}
	state.ExpansionTiers = [SupplyTierCount]uint64{450, 400, 350, 300, 250, 200, 150, 125, 100}

	return state
}

// NextEpochPoint is the time at which the next policy tick becomes due.
func (state *PolicyState) NextEpochPoint() time.Time {
	return state.StartTime.Add(time.Duration(state.Epoch) * state.EpochPeriod)
}

// SelectExpansionTier scans the supply tiers from the top down and returns the
// index of the first tier whose threshold is at or below the circulating
// supply. The scan uses a signed counter so that tier 0, whose threshold is
// zero, is evaluated exactly once and always matches as the fallback.
func (state *PolicyState) SelectExpansionTier(circulating *uint256.Int) int {
	for tier := SupplyTierCount - 1; tier >= 0; tier-- {
		if !circulating.Lt(state.SupplyTiers[tier]) {
			return tier
		}
	}
	return 0
}
