package repository

import (
	"time"

	"github.com/behrang/sqlbatch"
)

const (
	sqlPriceInsert = `
	insert into prices (
			price, twap, post_time
		)
		values (
			$1, $2, $3
		)
`

	sqlPriceFindLatest = `
	select
		price, twap, post_time
	from prices
	order by post_time desc
	limit 1
`
)

// PostedPrice is one oracle observation as posted by the off-protocol price
// publisher. Amounts are wad-scaled decimal strings.
type PostedPrice struct {
	Price    string
	TWAP     string
	PostTime time.Time
}

// PriceRepository reads the posted oracle observations the feed adapter
// serves to the treasury.
type PriceRepository struct {
	batchHandler BatchHandler
}

func NewPriceRepository(db BatchHandler) *PriceRepository {
	return &PriceRepository{batchHandler: db}
}

func readPrice(scan func(...interface{}) error) (interface{}, error) {
	r := PostedPrice{}
	err := scan(
		&r.Price, &r.TWAP, &r.PostTime,
	)
	return &r, err
}

func (repo *PriceRepository) Insert(price, twap string, postTime time.Time) error {
	_, err := repo.batchHandler.Batch(&BatchOptionNormal, []sqlbatch.Command{
		{
			Query:  sqlPriceInsert,
			Args:   []interface{}{price, twap, postTime},
			Affect: 1,
		},
	})
	return err
}

func (repo *PriceRepository) FindLatest() (*PostedPrice, error) {
	results, err := repo.batchHandler.Batch(&BatchOptionNormalReadOnly, []sqlbatch.Command{
		{
			Query:   sqlPriceFindLatest,
			ReadOne: readPrice,
		},
	})
	result, _ := results[0].(*PostedPrice)
	return result, err
}
