package inmemdb

import (
	"context"

	"github.com/mfanajozi/dipapa/core/record"
	"github.com/mfanajozi/dipapa/core/table"
)

type recordRepository struct {
	db *DB
}

var _ record.Repository = (*recordRepository)(nil) // interface compliance check

func NewRecordRepository(db *DB) record.Repository {
	return &recordRepository{db: db}
}

func (repo *recordRepository) QueryRecords(ctx context.Context, resource string) ([]table.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	t := repo.db.table(resource, false)
	if t == nil {
		return []table.Record{}, nil
	}
	recs := make([]table.Record, len(t.rows))
	for i, rec := range t.rows {
		recs[i] = rec.Clone()
	}
	return recs, nil
}

func (repo *recordRepository) GetRecord(ctx context.Context, resource, id string) (table.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if t := repo.db.table(resource, false); t != nil {
		if i, ok := t.index[id]; ok {
			return t.rows[i].Clone(), nil
		}
	}
	return nil, record.ErrNotFound
}

func (repo *recordRepository) CreateRecords(ctx context.Context, resource string, records ...table.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	t := repo.db.table(resource, true)
	for _, rec := range records {
		t.upsert(rec.Clone())
	}
	return nil
}
