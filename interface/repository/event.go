package repository

import (
	"based/domain"

	"github.com/behrang/sqlbatch"
)

const (
	sqlEventInsert = `
	insert into events (
			kind, actor, amount, note, create_time
		)
		values (
			$1, $2, $3, $4, $5
		)
`

	sqlEventFindRecent = `
	select
		kind, actor, amount, note, create_time
	from events
	order by create_time desc
	limit $1
`

	sqlEventFindByKind = `
	select
		kind, actor, amount, note, create_time
	from events
	where kind = $1
	order by create_time desc
	limit $2
`
)

// EventRepository persists the audit trail. It is the canonical log of every
// mutating entry point; there is no other persisted log format.
type EventRepository struct {
	batchHandler BatchHandler
}

func NewEventRepository(db BatchHandler) *EventRepository {
	return &EventRepository{batchHandler: db}
}

func readAllEvents(all interface{}, scan func(...interface{}) error) (interface{}, error) {
	r := domain.Event{}
	err := scan(
		&r.Kind, &r.Actor, &r.Amount, &r.Note, &r.CreatedAt,
	)

	list := all.([]domain.Event)
	list = append(list, r)
	return list, err
}

// Append implements domain.EventSink.
func (repo *EventRepository) Append(event domain.Event) error {
	_, err := repo.batchHandler.Batch(&BatchOptionNormal, []sqlbatch.Command{
		{
			Query: sqlEventInsert,
			Args: []interface{}{
				event.Kind, event.Actor, event.Amount, event.Note, event.CreatedAt,
			},
			Affect: 1,
		},
	})
	return err
}

func (repo *EventRepository) FindRecent(limit int) ([]domain.Event, error) {
	results, err := repo.batchHandler.Batch(&BatchOptionNormalReadOnly, []sqlbatch.Command{
		{
			Query:   sqlEventFindRecent,
			Args:    []interface{}{limit},
			Init:    make([]domain.Event, 0),
			ReadAll: readAllEvents,
		},
	})
	result, _ := results[0].([]domain.Event)
	return result, err
}

func (repo *EventRepository) FindByKind(kind string, limit int) ([]domain.Event, error) {
	results, err := repo.batchHandler.Batch(&BatchOptionNormalReadOnly, []sqlbatch.Command{
		{
			Query:   sqlEventFindByKind,
			Args:    []interface{}{kind, limit},
			Init:    make([]domain.Event, 0),
			ReadAll: readAllEvents,
		},
	})
	result, _ := results[0].([]domain.Event)
	return result, err
}
