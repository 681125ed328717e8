package usecase

import (
	"based/domain"
	"based/infrastructure/token"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

const (
	testTreasury = "treasury.addr"
	testForge    = "forge.addr"
	testOperator = "operator.addr"
)

func wad(n uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), domain.One())
}

// priceBps builds a wad price from bps of the peg: priceBps(9500) = 0.95.
func priceBps(bps uint64) *uint256.Int {
	return domain.BpsOf(domain.One(), bps)
}

type stubOracle struct {
	price      *uint256.Int
	twap       *uint256.Int // nil means "same as spot"
	updateErr  error
	consultErr error
	updates    int
}

func (oracle *stubOracle) Update() error {
	oracle.updates++
	return oracle.updateErr
}

func (oracle *stubOracle) Consult(tokenAddress string, amountIn *uint256.Int) (*uint256.Int, error) {
	if oracle.consultErr != nil {
		return nil, oracle.consultErr
	}
	return domain.WadMul(amountIn, oracle.price), nil
}

func (oracle *stubOracle) TWAP(tokenAddress string, amountIn *uint256.Int) (*uint256.Int, error) {
	if oracle.consultErr != nil {
		return nil, oracle.consultErr
	}
	price := oracle.price
	if oracle.twap != nil {
		price = oracle.twap
	}
	return domain.WadMul(amountIn, price), nil
}

type memorySink struct {
	events []domain.Event
}

func (sink *memorySink) Append(event domain.Event) error {
	sink.events = append(sink.events, event)
	return nil
}

func (sink *memorySink) kinds() []string {
	kinds := make([]string, 0, len(sink.events))
	for _, event := range sink.events {
		kinds = append(kinds, event.Kind)
	}
	return kinds
}

// protocolFixture wires a full in-memory protocol: tokens, oracle, treasury
// and forge, with a controllable wall clock and guard height.
type protocolFixture struct {
	stable  *token.Ledger
	bond    *token.Ledger
	share   *token.Ledger
	wrapper *token.StakeWrapper
	oracle  *stubOracle
	events  *memorySink

	state    *domain.PolicyState
	treasury *TreasuryInteractor
	forge    *ForgeInteractor

	clock  time.Time
	height uint64
}

func newProtocolFixture(t *testing.T) *protocolFixture {
	t.Helper()

	fixture := &protocolFixture{
		stable: token.NewLedger("based.token"),
		bond:   token.NewLedger("bbond.token"),
		share:  token.NewLedger("bshare.token"),
		oracle: &stubOracle{price: domain.One()},
		events: &memorySink{},
		state:  domain.DefaultPolicyState(),
		clock:  time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC),
		height: 1,
	}
	fixture.wrapper = token.NewStakeWrapper(fixture.share, testForge)

	// Each guard call lands in a fresh unit unless a test pins the height.
	heightFn := func() uint64 {
		fixture.height++
		return fixture.height
	}

	fixture.treasury = NewTreasuryInteractor(
		fixture.state,
		fixture.stable, fixture.bond, fixture.share,
		fixture.oracle,
		nil,
		fixture.events,
		NewEntryGuard(heightFn),
		testTreasury, testForge, testOperator,
	)
	fixture.forge = NewForgeInteractor(
		fixture.share, fixture.stable,
		fixture.wrapper,
		fixture.treasury,
		fixture.events,
		NewEntryGuard(heightFn),
		nil,
		testForge, testTreasury,
	)
	fixture.treasury.SetForge(fixture.forge)
	fixture.treasury.now = func() time.Time { return fixture.clock }

	fixture.stable.GrantRole(domain.RoleOperator, testTreasury)
	fixture.bond.GrantRole(domain.RoleOperator, testTreasury)
	fixture.share.GrantRole(domain.RoleOperator, testTreasury)

	require.NoError(t, fixture.treasury.Start(testOperator, fixture.clock))
	return fixture
}

// elapseEpoch moves the wall clock to the next epoch point.
func (fixture *protocolFixture) elapseEpoch() {
	fixture.clock = fixture.treasury.NextEpochPoint()
}

// stakeShares mints share tokens to the staker and stakes them.
func (fixture *protocolFixture) stakeShares(t *testing.T, staker string, amount *uint256.Int) {
	t.Helper()
	require.NoError(t, fixture.share.Mint(staker, amount))
	require.NoError(t, fixture.forge.Stake(staker, amount))
}
