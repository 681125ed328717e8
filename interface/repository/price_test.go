package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/behrang/sqlbatch"
	"github.com/stretchr/testify/require"
)

type stubBatchHandler struct {
	opts     *sql.TxOptions
	commands []sqlbatch.Command
	results  []interface{}
	err      error
}

func (handler *stubBatchHandler) Batch(opts *sql.TxOptions, commands []sqlbatch.Command) ([]interface{}, error) {
	handler.opts = opts
	handler.commands = commands
	if handler.results == nil {
		handler.results = make([]interface{}, len(commands))
	}
	return handler.results, handler.err
}

func TestPriceInsertIssuesOneAffectingCommand(t *testing.T) {
	handler := &stubBatchHandler{}
	repo := NewPriceRepository(handler)

	postTime := time.Date(2023, 10, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Insert("950000000000000000", "960000000000000000", postTime))

	require.Len(t, handler.commands, 1)
	command := handler.commands[0]
	require.Equal(t, sqlPriceInsert, command.Query)
	require.Equal(t, []interface{}{"950000000000000000", "960000000000000000", postTime}, command.Args)
	require.EqualValues(t, 1, command.Affect)
	require.False(t, handler.opts.ReadOnly)
}

func TestPriceFindLatestReadsOneRow(t *testing.T) {
	posted := &PostedPrice{
		Price:    "950000000000000000",
		TWAP:     "960000000000000000",
		PostTime: time.Date(2023, 10, 1, 12, 0, 0, 0, time.UTC),
	}
	handler := &stubBatchHandler{results: []interface{}{posted}}
	repo := NewPriceRepository(handler)

	found, err := repo.FindLatest()
	require.NoError(t, err)
	require.Equal(t, posted, found)
	require.Equal(t, sqlPriceFindLatest, handler.commands[0].Query)
	require.True(t, handler.opts.ReadOnly)
}

func TestReadPriceScansAllColumns(t *testing.T) {
	postTime := time.Date(2023, 10, 1, 12, 0, 0, 0, time.UTC)
	row := []interface{}{"950000000000000000", "960000000000000000", postTime}

	result, err := readPrice(func(dest ...interface{}) error {
		require.Len(t, dest, len(row))
		*dest[0].(*string) = row[0].(string)
		*dest[1].(*string) = row[1].(string)
		*dest[2].(*time.Time) = row[2].(time.Time)
		return nil
	})
	require.NoError(t, err)

	posted := result.(*PostedPrice)
	require.Equal(t, "950000000000000000", posted.Price)
	require.Equal(t, "960000000000000000", posted.TWAP)
	require.True(t, posted.PostTime.Equal(postTime))
}
