package domain

import (
	"encoding/json"
	"math/big"
	"time"

	"github.com/holiman/uint256"
)

type Memorable interface {
	ToJson() string
	FromJson(jstr string) error
}

type Checkpoint struct {
	Key   string `json:"key"`
	State string `json:"state"`
}

// PolicyCheckpoint is the persisted image of the treasury state written after
// every successful tick, so a restarted daemon resumes from the right epoch.
// Big amounts travel as decimal strings.
type PolicyCheckpoint struct {
	Epoch                      uint64    `json:"epoch"`
	StartTime                  time.Time `json:"start_time"`
	Started                    bool      `json:"started"`
	BondsStarted               bool      `json:"bonds_started"`
	SeigniorageSaved           string    `json:"seigniorage_saved"`
	MaxSupplyExpansionPercent  uint64    `json:"max_supply_expansion_percent"`
	EpochSupplyContractionLeft string    `json:"epoch_supply_contraction_left"`
	PreviousEpochPrice         string    `json:"previous_epoch_price"`
}

func (obj *PolicyCheckpoint) ToJson() string {
	jstr, err := json.Marshal(obj)
	if err != nil {
		return err.Error()
	}
	return string(jstr)
}

func (obj *PolicyCheckpoint) FromJson(jstr string) error {
	err := json.Unmarshal([]byte(jstr), obj)
	return err
}

// CheckpointOf captures the restart-relevant part of a policy state.
func CheckpointOf(state *PolicyState) *PolicyCheckpoint {
	return &PolicyCheckpoint{
		Epoch:                      state.Epoch,
		StartTime:                  state.StartTime,
		Started:                    state.Started,
		BondsStarted:               state.BondsStarted,
		SeigniorageSaved:           state.SeigniorageSaved.ToBig().String(),
		MaxSupplyExpansionPercent:  state.MaxSupplyExpansionPercent,
		EpochSupplyContractionLeft: state.EpochSupplyContractionLeft.ToBig().String(),
		PreviousEpochPrice:         state.PreviousEpochPrice.ToBig().String(),
	}
}

// Restore writes the checkpoint back into a policy state.
func (obj *PolicyCheckpoint) Restore(state *PolicyState) error {
	saved, err := parseDecimal(obj.SeigniorageSaved)
	if err != nil {
		return err
	}
	left, err := parseDecimal(obj.EpochSupplyContractionLeft)
	if err != nil {
		return err
	}
	price, err := parseDecimal(obj.PreviousEpochPrice)
	if err != nil {
		return err
	}

	state.Epoch = obj.Epoch
	state.StartTime = obj.StartTime
	state.Started = obj.Started
	state.BondsStarted = obj.BondsStarted
	state.SeigniorageSaved = saved
	state.MaxSupplyExpansionPercent = obj.MaxSupplyExpansionPercent
	state.EpochSupplyContractionLeft = left
	state.PreviousEpochPrice = price
	return nil
}

func parseDecimal(value string) (*uint256.Int, error) {
	if value == "" {
		return new(uint256.Int), nil
	}
	parsed, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, ErrorBadParameter
	}
	converted, overflow := uint256.FromBig(parsed)
	if overflow {
		return nil, ErrorBadParameter
	}
	return converted, nil
}
