package domain

import (
	"time"

	"github.com/holiman/uint256"
)

const (
	EventEpochAdvanced     = "epoch_advanced"
	EventSeigniorageFunded = "seigniorage_funded"
	EventTreasuryFunded    = "treasury_funded"
	EventDaoFundFunded     = "dao_fund_funded"
	EventDevFundFunded     = "dev_fund_funded"
	EventBoughtBonds       = "bought_bonds"
	EventRedeemedBonds     = "redeemed_bonds"
	EventStaked            = "staked"
	EventWithdrawn         = "withdrawn"
	EventRewardPaid        = "reward_paid"
	EventRewardAdded       = "reward_added"
	EventRecovered         = "recovered"
)

// Event is one record of the canonical audit trail. Amounts are kept as
// decimal strings so the record survives storage untouched by float rounding.
type Event struct {
	Kind      string    `json:"kind"`
	Actor     string    `json:"actor"`
	Amount    string    `json:"amount"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

func NewEvent(kind, actor string, amount *uint256.Int, note string) Event {
	value := "0"
	if amount != nil {
		value = amount.ToBig().String()
	}
	return Event{
		Kind:      kind,
		Actor:     actor,
		Amount:    value,
		Note:      note,
		CreatedAt: time.Now(),
	}
}
