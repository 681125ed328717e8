package token

import (
	"based/domain"
	"sync"

	"github.com/holiman/uint256"
)

// StakeWrapper is the plain amount-per-staker ledger the forge builds on.
// It moves share tokens between the staker and the pool account and keeps
// its own balance book; reward logic stays in the forge.
type StakeWrapper struct {
	mu       sync.RWMutex
	share    domain.Token
	pool     string
	balances map[string]*uint256.Int
	total    *uint256.Int
}

func NewStakeWrapper(share domain.Token, pool string) *StakeWrapper {
	return &StakeWrapper{
		share:    share,
		pool:     pool,
		balances: make(map[string]*uint256.Int),
		total:    new(uint256.Int),
	}
}

func (wrapper *StakeWrapper) Stake(account string, amount *uint256.Int) error {
	if amount == nil || amount.IsZero() {
		return domain.ErrorZeroAmount
	}
	wrapper.mu.Lock()
	defer wrapper.mu.Unlock()

	if err := wrapper.share.Transfer(account, wrapper.pool, amount); err != nil {
		return err
	}
	wrapper.balances[account] = new(uint256.Int).Add(wrapper.balanceOf(account), amount)
	wrapper.total = new(uint256.Int).Add(wrapper.total, amount)
	return nil
}

func (wrapper *StakeWrapper) Withdraw(account string, amount *uint256.Int) error {
	if amount == nil || amount.IsZero() {
		return domain.ErrorZeroAmount
	}
	wrapper.mu.Lock()
	defer wrapper.mu.Unlock()

	balance := wrapper.balanceOf(account)
	if balance.Lt(amount) {
		return domain.ErrorExceedsStake
	}
	if err := wrapper.share.Transfer(wrapper.pool, account, amount); err != nil {
		return err
	}
	wrapper.balances[account] = new(uint256.Int).Sub(balance, amount)
	wrapper.total = new(uint256.Int).Sub(wrapper.total, amount)
	return nil
}

func (wrapper *StakeWrapper) BalanceOf(account string) *uint256.Int {
	wrapper.mu.RLock()
	defer wrapper.mu.RUnlock()
	return wrapper.balanceOf(account).Clone()
}

func (wrapper *StakeWrapper) TotalSupply() *uint256.Int {
	wrapper.mu.RLock()
	defer wrapper.mu.RUnlock()
	return wrapper.total.Clone()
}

func (wrapper *StakeWrapper) balanceOf(account string) *uint256.Int {
	balance, exists := wrapper.balances[account]
	if !exists {
		return new(uint256.Int)
	}
	return balance
}
