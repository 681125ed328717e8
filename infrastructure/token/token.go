package token

import (
	"based/domain"
	"sync"

	"github.com/holiman/uint256"
)

// Ledger is an in-memory carrier of the Token capability: balances,
// allowances and a role table. It backs the daemon wiring and the tests; it
// is not an ERC20 implementation and carries none of the transfer-tax logic
// of the on-chain token.
type Ledger struct {
	mu         sync.RWMutex
	address    string
	balances   map[string]*uint256.Int
	allowances map[string]map[string]*uint256.Int
	total      *uint256.Int
	roles      map[string]map[string]bool
}

func NewLedger(address string) *Ledger {
	return &Ledger{
		address:    address,
		balances:   make(map[string]*uint256.Int),
		allowances: make(map[string]map[string]*uint256.Int),
		total:      new(uint256.Int),
		roles:      make(map[string]map[string]bool),
	}
}

func (ledger *Ledger) Address() string {
	return ledger.address
}

func (ledger *Ledger) GrantRole(role, account string) {
	ledger.mu.Lock()
	defer ledger.mu.Unlock()
	if ledger.roles[role] == nil {
		ledger.roles[role] = make(map[string]bool)
	}
	ledger.roles[role][account] = true
}

func (ledger *Ledger) RevokeRole(role, account string) {
	ledger.mu.Lock()
	defer ledger.mu.Unlock()
	delete(ledger.roles[role], account)
}

func (ledger *Ledger) HasRole(role, account string) bool {
	ledger.mu.RLock()
	defer ledger.mu.RUnlock()
	return ledger.roles[role][account]
}

func (ledger *Ledger) Mint(to string, amount *uint256.Int) error {
	if amount == nil || amount.IsZero() {
		return domain.ErrorZeroAmount
	}
	ledger.mu.Lock()
	defer ledger.mu.Unlock()

	ledger.balances[to] = new(uint256.Int).Add(ledger.balanceOf(to), amount)
	ledger.total = new(uint256.Int).Add(ledger.total, amount)
	return nil
}

func (ledger *Ledger) BurnFrom(from string, amount *uint256.Int) error {
	if amount == nil || amount.IsZero() {
		return domain.ErrorZeroAmount
	}
	ledger.mu.Lock()
	defer ledger.mu.Unlock()

	balance := ledger.balanceOf(from)
	if balance.Lt(amount) {
		return domain.ErrorExceedsBalance
	}
	ledger.balances[from] = new(uint256.Int).Sub(balance, amount)
	ledger.total = new(uint256.Int).Sub(ledger.total, amount)
	return nil
}

func (ledger *Ledger) Transfer(from, to string, amount *uint256.Int) error {
	if amount == nil || amount.IsZero() {
		return domain.ErrorZeroAmount
	}
	ledger.mu.Lock()
	defer ledger.mu.Unlock()
	return ledger.move(from, to, amount)
}

func (ledger *Ledger) Approve(owner, spender string, amount *uint256.Int) error {
	ledger.mu.Lock()
	defer ledger.mu.Unlock()

	if ledger.allowances[owner] == nil {
		ledger.allowances[owner] = make(map[string]*uint256.Int)
	}
	ledger.allowances[owner][spender] = amount.Clone()
	return nil
}

func (ledger *Ledger) TransferFrom(spender, from, to string, amount *uint256.Int) error {
	if amount == nil || amount.IsZero() {
		return domain.ErrorZeroAmount
	}
	ledger.mu.Lock()
	defer ledger.mu.Unlock()

	allowance := ledger.allowances[from][spender]
	if allowance == nil || allowance.Lt(amount) {
		return domain.ErrorExceedsAllowance
	}
	if err := ledger.move(from, to, amount); err != nil {
		return err
	}
	ledger.allowances[from][spender] = new(uint256.Int).Sub(allowance, amount)
	return nil
}

func (ledger *Ledger) BalanceOf(account string) *uint256.Int {
	ledger.mu.RLock()
	defer ledger.mu.RUnlock()
	return ledger.balanceOf(account).Clone()
}

func (ledger *Ledger) TotalSupply() *uint256.Int {
	ledger.mu.RLock()
	defer ledger.mu.RUnlock()
	return ledger.total.Clone()
}

func (ledger *Ledger) balanceOf(account string) *uint256.Int {
	balance, exists := ledger.balances[account]
	if !exists {
		return new(uint256.Int)
	}
	return balance
}

func (ledger *Ledger) move(from, to string, amount *uint256.Int) error {
	balance := ledger.balanceOf(from)
	if balance.Lt(amount) {
		return domain.ErrorExceedsBalance
	}
	ledger.balances[from] = new(uint256.Int).Sub(balance, amount)
	ledger.balances[to] = new(uint256.Int).Add(ledger.balanceOf(to), amount)
	return nil
}
