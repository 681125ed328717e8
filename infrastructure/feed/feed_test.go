package feed

import (
	"based/domain"
	"based/interface/repository"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubSource struct {
	posted *repository.PostedPrice
	err    error
}

func (source *stubSource) FindLatest() (*repository.PostedPrice, error) {
	return source.posted, source.err
}

func TestConsultBeforeFirstUpdateFails(t *testing.T) {
	feed := NewPriceFeed(&stubSource{})

	_, err := feed.Consult("based.token", domain.One())
	require.ErrorIs(t, err, domain.ErrorNoPrice)
	_, err = feed.TWAP("based.token", domain.One())
	require.ErrorIs(t, err, domain.ErrorNoPrice)
}

func TestUpdateCachesLatestObservation(t *testing.T) {
	source := &stubSource{posted: &repository.PostedPrice{
		Price:    "950000000000000000",
		TWAP:     "960000000000000000",
		PostTime: time.Now(),
	}}
	feed := NewPriceFeed(source)
	require.NoError(t, feed.Update())

	price, err := feed.Consult("based.token", domain.One())
	require.NoError(t, err)
	require.Equal(t, "950000000000000000", price.String())

	twap, err := feed.TWAP("based.token", domain.One())
	require.NoError(t, err)
	require.Equal(t, "960000000000000000", twap.String())
}

func TestUpdateFailureKeepsServingCache(t *testing.T) {
	source := &stubSource{posted: &repository.PostedPrice{
		Price: "950000000000000000",
		TWAP:  "950000000000000000",
	}}
	feed := NewPriceFeed(source)
	require.NoError(t, feed.Update())

	source.posted = nil
	source.err = fmt.Errorf("connection refused")
	require.Error(t, feed.Update())

	price, err := feed.Consult("based.token", domain.One())
	require.NoError(t, err)
	require.Equal(t, "950000000000000000", price.String())
}

func TestUpdateRejectsEmptyTableAndGarbage(t *testing.T) {
	feed := NewPriceFeed(&stubSource{})
	require.ErrorIs(t, feed.Update(), domain.ErrorNoPrice)

	feed = NewPriceFeed(&stubSource{posted: &repository.PostedPrice{Price: "abc", TWAP: "1"}})
	require.ErrorIs(t, feed.Update(), domain.ErrorNoPrice)
}
