package repository

import (
	"based/domain"

	"github.com/behrang/sqlbatch"
)

const (
	sqlCheckpointUpsert = `
	insert into checkpoints as c (
			key, state
		)
		values (
			$1, $2::jsonb
		)
	on conflict (key) do
		update set
			state = $2::jsonb
`

	sqlCheckpointFind = `
	select
		key, state
	from checkpoints
	where key = $1
`
)

// CheckpointRepository keeps the latest policy-state image per key so a
// restarted daemon resumes from the epoch it left off at.
type CheckpointRepository struct {
	batchHandler BatchHandler
}

func NewCheckpointRepository(db BatchHandler) *CheckpointRepository {
	return &CheckpointRepository{batchHandler: db}
}

func readCheckpoint(scan func(...interface{}) error) (interface{}, error) {
	r := domain.Checkpoint{}
	var jstr []byte
	err := scan(
		&r.Key, &jstr,
	)
	if err != nil {
		return &r, err
	}
	r.State = string(jstr)
	return &r, nil
}

func (repo *CheckpointRepository) Upsert(key string, state domain.Memorable) (*domain.Checkpoint, error) {

	jstr := state.ToJson()
	results, err := repo.batchHandler.Batch(&BatchOptionNormal, []sqlbatch.Command{
		{
			Query: sqlCheckpointUpsert,
			Args: []interface{}{
				key, jstr,
			},
			Affect: 1,
		},
		{
			Query:   sqlCheckpointFind,
			Args:    []interface{}{key},
			ReadOne: readCheckpoint,
		},
	})

	result, _ := results[1].(*domain.Checkpoint)
	return result, err
}

func (repo *CheckpointRepository) Find(key string) (*domain.Checkpoint, error) {
	results, err := repo.batchHandler.Batch(&BatchOptionNormal, []sqlbatch.Command{
		{
			Query:   sqlCheckpointFind,
			Args:    []interface{}{key},
			ReadOne: readCheckpoint,
		},
	})
	result, _ := results[0].(*domain.Checkpoint)
	return result, err
}
