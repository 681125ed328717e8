package token

import (
	"based/domain"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func amount(n uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), domain.One())
}

func TestMintAndBurnTrackTotalSupply(t *testing.T) {
	ledger := NewLedger("based.token")

	require.NoError(t, ledger.Mint("alice", amount(100)))
	require.NoError(t, ledger.Mint("bob", amount(50)))
	require.Equal(t, amount(150).String(), ledger.TotalSupply().String())

	require.NoError(t, ledger.BurnFrom("alice", amount(30)))
	require.Equal(t, amount(70).String(), ledger.BalanceOf("alice").String())
	require.Equal(t, amount(120).String(), ledger.TotalSupply().String())

	require.ErrorIs(t, ledger.BurnFrom("bob", amount(51)), domain.ErrorExceedsBalance)
}

func TestTransferRequiresBalance(t *testing.T) {
	ledger := NewLedger("based.token")
	require.NoError(t, ledger.Mint("alice", amount(10)))

	require.NoError(t, ledger.Transfer("alice", "bob", amount(4)))
	require.Equal(t, amount(6).String(), ledger.BalanceOf("alice").String())
	require.Equal(t, amount(4).String(), ledger.BalanceOf("bob").String())

	require.ErrorIs(t, ledger.Transfer("alice", "bob", amount(7)), domain.ErrorExceedsBalance)
	require.ErrorIs(t, ledger.Transfer("alice", "bob", new(uint256.Int)), domain.ErrorZeroAmount)
}

func TestTransferFromConsumesAllowance(t *testing.T) {
	ledger := NewLedger("based.token")
	require.NoError(t, ledger.Mint("alice", amount(10)))

	require.ErrorIs(t, ledger.TransferFrom("spender", "alice", "bob", amount(5)),
		domain.ErrorExceedsAllowance)

	require.NoError(t, ledger.Approve("alice", "spender", amount(5)))
	require.NoError(t, ledger.TransferFrom("spender", "alice", "bob", amount(3)))
	require.Equal(t, amount(3).String(), ledger.BalanceOf("bob").String())

	// 2 left on the allowance.
	require.ErrorIs(t, ledger.TransferFrom("spender", "alice", "bob", amount(3)),
		domain.ErrorExceedsAllowance)
	require.NoError(t, ledger.TransferFrom("spender", "alice", "bob", amount(2)))
}

func TestRoleGrantAndRevoke(t *testing.T) {
	ledger := NewLedger("based.token")

	require.False(t, ledger.HasRole(domain.RoleOperator, "treasury"))
	ledger.GrantRole(domain.RoleOperator, "treasury")
	require.True(t, ledger.HasRole(domain.RoleOperator, "treasury"))
	ledger.RevokeRole(domain.RoleOperator, "treasury")
	require.False(t, ledger.HasRole(domain.RoleOperator, "treasury"))
}

func TestStakeWrapperMovesShares(t *testing.T) {
	share := NewLedger("bshare.token")
	wrapper := NewStakeWrapper(share, "forge.addr")
	require.NoError(t, share.Mint("alice", amount(10)))

	require.NoError(t, wrapper.Stake("alice", amount(10)))
	require.Equal(t, amount(10).String(), wrapper.BalanceOf("alice").String())
	require.Equal(t, amount(10).String(), wrapper.TotalSupply().String())
	require.Equal(t, amount(10).String(), share.BalanceOf("forge.addr").String())

	require.ErrorIs(t, wrapper.Withdraw("alice", amount(11)), domain.ErrorExceedsStake)
	require.NoError(t, wrapper.Withdraw("alice", amount(10)))
	require.Equal(t, amount(10).String(), share.BalanceOf("alice").String())
	require.True(t, wrapper.TotalSupply().IsZero())
}
