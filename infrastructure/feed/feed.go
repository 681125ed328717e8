package feed

import (
	"based/domain"
	"based/interface/repository"
	"math/big"
	"sync"

	"github.com/holiman/uint256"
)

// PriceSource serves the latest posted observation, usually backed by the
// posted-price table.
type PriceSource interface {
	FindLatest() (*repository.PostedPrice, error)
}

// PriceFeed adapts a price source to the Oracle capability. Update pulls the
// latest observation into the cache; Consult and TWAP serve from the cache
// and fail hard when no observation was ever loaded.
type PriceFeed struct {
	mu     sync.RWMutex
	prices PriceSource
	price  *uint256.Int
	twap   *uint256.Int
}

func NewPriceFeed(prices PriceSource) *PriceFeed {
	return &PriceFeed{prices: prices}
}

func (feed *PriceFeed) Update() error {
	posted, err := feed.prices.FindLatest()
	if err != nil {
		return err
	}
	if posted == nil {
		return domain.ErrorNoPrice
	}

	price, err := parseWad(posted.Price)
	if err != nil {
		return err
	}
	twap, err := parseWad(posted.TWAP)
	if err != nil {
		return err
	}

	feed.mu.Lock()
	defer feed.mu.Unlock()
	feed.price = price
	feed.twap = twap
	return nil
}

func (feed *PriceFeed) Consult(token string, amountIn *uint256.Int) (*uint256.Int, error) {
	feed.mu.RLock()
	defer feed.mu.RUnlock()
	if feed.price == nil {
		return nil, domain.ErrorNoPrice
	}
	return domain.WadMul(amountIn, feed.price), nil
}

func (feed *PriceFeed) TWAP(token string, amountIn *uint256.Int) (*uint256.Int, error) {
	feed.mu.RLock()
	defer feed.mu.RUnlock()
	if feed.twap == nil {
		return nil, domain.ErrorNoPrice
	}
	return domain.WadMul(amountIn, feed.twap), nil
}

func parseWad(value string) (*uint256.Int, error) {
	parsed, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, domain.ErrorNoPrice
	}
	converted, overflow := uint256.FromBig(parsed)
	if overflow {
		return nil, domain.ErrorNoPrice
	}
	return converted, nil
}
