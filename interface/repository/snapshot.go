package repository

import (
	"based/domain"

	"github.com/behrang/sqlbatch"
)

const (
	sqlSnapshotInsertIfNotExists = `
	insert into forge_snapshots as c (
			idx, snapshot_time, reward_received, reward_per_share
		)
		values (
			$1, $2, $3, $4
		)
	on conflict (idx) do nothing
`

	sqlSnapshotFindAll = `
	select
		idx, snapshot_time, reward_received, reward_per_share
	from forge_snapshots
	order by idx asc
`
)

// SnapshotRepository mirrors the forge's append-only reward history, so the
// whole accumulator trail survives a daemon restart for auditing.
type SnapshotRepository struct {
	batchHandler BatchHandler
}

func NewSnapshotRepository(db BatchHandler) *SnapshotRepository {
	return &SnapshotRepository{batchHandler: db}
}

// StoredSnapshot is the persisted row; amounts are decimal strings.
type StoredSnapshot struct {
	Index          uint64
	Time           string
	RewardReceived string
	RewardPerShare string
}

func readAllSnapshots(all interface{}, scan func(...interface{}) error) (interface{}, error) {
	r := StoredSnapshot{}
	err := scan(
		&r.Index, &r.Time, &r.RewardReceived, &r.RewardPerShare,
	)

	list := all.([]StoredSnapshot)
	list = append(list, r)
	return list, err
}

// Append implements usecase.SnapshotStore.
func (repo *SnapshotRepository) Append(index uint64, snapshot domain.ForgeSnapshot) error {
	_, err := repo.batchHandler.Batch(&BatchOptionNormal, []sqlbatch.Command{
		{
			Query: sqlSnapshotInsertIfNotExists,
			Args: []interface{}{
				index,
				snapshot.Time,
				snapshot.RewardReceived.ToBig().String(),
				snapshot.RewardPerShare.ToBig().String(),
			},
		},
	})
	return err
}

func (repo *SnapshotRepository) FindAll() ([]StoredSnapshot, error) {
	results, err := repo.batchHandler.Batch(&BatchOptionNormalReadOnly, []sqlbatch.Command{
		{
			Query:   sqlSnapshotFindAll,
			Init:    make([]StoredSnapshot, 0),
			ReadAll: readAllSnapshots,
		},
	})
	result, _ := results[0].([]StoredSnapshot)
	return result, err
}
