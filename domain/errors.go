package domain

import "fmt"

// Rejection reasons surfaced by the treasury and the forge. The strings are
// machine-stable: automation matches on them and resubmits with fresh
// parameters, so never reword an existing one.
var (
	ErrorNotStarted       = fmt.Errorf("treasury is not started yet")
	ErrorAlreadyStarted   = fmt.Errorf("treasury is already started")
	ErrorBondsNotStarted  = fmt.Errorf("bond market is not open yet")
	ErrorEpochNotDue      = fmt.Errorf("epoch point is not due yet")
	ErrorNotOperator      = fmt.Errorf("caller is not the operator")
	ErrorNoTokenPermission = fmt.Errorf("treasury lacks operator permission on a managed token")

	ErrorZeroAmount    = fmt.Errorf("amount must be greater than zero")
	ErrorPriceMoved    = fmt.Errorf("price moved away from target price")
	ErrorPriceNotBelowPeg = fmt.Errorf("price is not below the peg")
	ErrorPriceNotAboveCeiling = fmt.Errorf("price is not above the ceiling")
	ErrorOracleFailed  = fmt.Errorf("failed to consult the price oracle")

	ErrorContractionExhausted = fmt.Errorf("contraction budget for this epoch is exhausted")
	ErrorDebtCeiling          = fmt.Errorf("bond supply would exceed the max debt ratio")
	ErrorTreasuryInsufficient = fmt.Errorf("treasury has no budget to redeem bonds")

	ErrorExceedsBalance   = fmt.Errorf("amount exceeds balance")
	ErrorExceedsAllowance = fmt.Errorf("amount exceeds allowance")

	ErrorNoStake         = fmt.Errorf("the staker does not exist")
	ErrorExceedsStake    = fmt.Errorf("withdraw amount exceeds staked balance")
	ErrorWithdrawLocked  = fmt.Errorf("still in withdraw lockup")
	ErrorRewardLocked    = fmt.Errorf("still in reward lockup")
	ErrorNoStakers       = fmt.Errorf("cannot allocate seigniorage with no stake")
	ErrorBadLockup       = fmt.Errorf("lockup epochs are out of range")

	ErrorReentrantCall  = fmt.Errorf("reentrant call")
	ErrorOneCallPerUnit = fmt.Errorf("one guarded call per origin per block")

	ErrorBadParameter   = fmt.Errorf("parameter is out of its allowed range")
	ErrorProtectedToken = fmt.Errorf("cannot recover a managed token")
	ErrorNoPrice        = fmt.Errorf("no oracle price available")
)
