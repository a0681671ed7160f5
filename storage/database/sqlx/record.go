package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/mfanajozi/dipapa/core/record"
	"github.com/mfanajozi/dipapa/core/table"
)

// recordRow is one row of the records table. data holds the record as a JSON object.
type recordRow struct {
	ID   string `db:"id"`
	Data string `db:"data"`
}

func (r recordRow) decode() (table.Record, error) {
	var rec table.Record
	if err := json.Unmarshal([]byte(r.Data), &rec); err != nil {
		return nil, errors.Wrapf(err, "decoding record %q", r.ID)
	}
	if rec == nil {
		rec = table.Record{}
	}
	rec["id"] = r.ID
	return rec, nil
}

type recordRepository struct {
	db *sqlx.DB
}

var _ record.Repository = (*recordRepository)(nil) // interface compliance check

func NewRecordRepository(db *sqlx.DB) record.Repository {
	return &recordRepository{db: db}
}

func (repo *recordRepository) QueryRecords(ctx context.Context, resource string) ([]table.Record, error) {
	var rows []recordRow
	q := repo.db.Rebind(`SELECT id, data FROM records WHERE resource = ? ORDER BY position, id`)
	if err := repo.db.SelectContext(ctx, &rows, q, resource); err != nil {
		return nil, errors.Wrap(err, "selecting records")
	}

	recs := make([]table.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := row.decode()
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func (repo *recordRepository) GetRecord(ctx context.Context, resource, id string) (table.Record, error) {
	var row recordRow
	q := repo.db.Rebind(`SELECT id, data FROM records WHERE resource = ? AND id = ?`)
	if err := repo.db.GetContext(ctx, &row, q, resource, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, record.ErrNotFound
		}
		return nil, errors.Wrap(err, "selecting record")
	}
	return row.decode()
}

func (repo *recordRepository) CreateRecords(ctx context.Context, resource string, records ...table.Record) (err error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var last int
	q := tx.Rebind(`SELECT COALESCE(MAX(position), 0) FROM records WHERE resource = ?`)
	if err = tx.GetContext(ctx, &last, q, resource); err != nil {
		return errors.Wrap(err, "selecting last position")
	}

	upsert := tx.Rebind(`
		INSERT INTO records (resource, id, position, data)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (resource, id) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`)
	for i, rec := range records {
		var data []byte
		if data, err = json.Marshal(rec); err != nil {
			return errors.Wrapf(err, "encoding record %q", rec.ID())
		}
		if _, err = tx.ExecContext(ctx, upsert, resource, rec.ID(), last+i+1, string(data)); err != nil {
			return errors.Wrapf(err, "upserting record %q", rec.ID())
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "committing transaction")
	}
	return nil
}
