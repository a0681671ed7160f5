// Package storage opens the record repository selected by the configuration.
package storage

import (
	"io"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/mfanajozi/dipapa/core"
	"github.com/mfanajozi/dipapa/core/record"
	appfs "github.com/mfanajozi/dipapa/fs"
	"github.com/mfanajozi/dipapa/storage/database"
	inmemdb "github.com/mfanajozi/dipapa/storage/database/inmem"
	sqlxrepos "github.com/mfanajozi/dipapa/storage/database/sqlx"
	remotedb "github.com/mfanajozi/dipapa/storage/remote"
)

type closerFunc func() error

func (fn closerFunc) Close() error { return fn() }

var noopCloser = closerFunc(func() error { return nil })

// OpenRepository returns the repository of conf.Source.Kind and the closer releasing it:
//   - fixtures: an in-memory store seeded with the embedded fixtures
//   - database: the migrated SQL database of conf.Database
//   - remote: the read-only REST endpoint of conf.Source
func OpenRepository(conf *core.Config, logger core.Logger) (record.Repository, io.Closer, error) {
	switch conf.Source.Kind {
	case core.SourceFixtures, "":
		db, err := inmemdb.Open()
		if err != nil {
			return nil, nil, err
		}
		fixtures, err := inmemdb.ReadFixtures(appfs.FS, appfs.FixturesDir)
		if err != nil {
			return nil, nil, errors.Wrap(err, "reading fixtures")
		}
		inmemdb.Load(db, fixtures...)
		return inmemdb.NewRecordRepository(db), noopCloser, nil

	case core.SourceDatabase:
		db, err := OpenDB(conf)
		if err != nil {
			return nil, nil, err
		}
		if err = database.Migrate(db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return sqlxrepos.NewRecordRepository(db), db, nil

	case core.SourceRemote:
		repo, err := remotedb.NewRecordRepository(remotedb.Options{
			BaseURL:  conf.Source.RemoteURL,
			APIKey:   conf.Source.APIKey,
			RetryMax: conf.Source.RetryMax,
			Timeout:  conf.Source.Timeout,
			CacheTTL: conf.Source.CacheTTL,
			Logger:   logger,
		})
		if err != nil {
			return nil, nil, err
		}
		return repo, repo, nil

	default:
		return nil, nil, errors.Errorf("unknown record source %q", conf.Source.Kind)
	}
}

// OpenDB creates the database of conf when missing and opens it.
func OpenDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, errors.Wrap(err, "creating database")
	}
	db, err := database.Open(conf)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	return db, nil
}
