package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/mfanajozi/dipapa/core"
	"github.com/mfanajozi/dipapa/core/record"
	"github.com/mfanajozi/dipapa/core/table"
	"github.com/mfanajozi/dipapa/fs"
	"github.com/mfanajozi/dipapa/storage/database"
	"github.com/mfanajozi/dipapa/storage/database/inmem"
)

// Logger is a core.Logger keeping every message in memory.
type Logger struct {
	mu       sync.Mutex
	Messages []string
}

var _ core.Logger = (*Logger)(nil)

func (l *Logger) log(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Messages = append(l.Messages, fmt.Sprintf("%s: %s", level, msg))
}

func (l *Logger) Debug(msg string, _ ...interface{}) { l.log("DEBUG", msg) }
func (l *Logger) Info(msg string, _ ...interface{})  { l.log("INFO", msg) }
func (l *Logger) Warn(msg string, _ ...interface{})  { l.log("WARN", msg) }
func (l *Logger) Error(msg string, _ ...interface{}) { l.log("ERROR", msg) }
func (l *Logger) Fatal(msg string, _ ...interface{}) { l.log("FATAL", msg) }

func (l *Logger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.Messages...)
}

// PrepareDB opens a migrated in-memory sqlite database, closed when the test ends.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Migrate(db); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	return db
}

// Fixtures returns the embedded seed records.
func Fixtures(t *testing.T) []inmemdb.Fixture {
	t.Helper()
	fixtures, err := inmemdb.ReadFixtures(appfs.FS, appfs.FixturesDir)
	if err != nil {
		t.Fatalf("Fixtures() failed: %v", err)
	}
	return fixtures
}

// FixtureRepository returns an in-memory repository holding the embedded seed records.
func FixtureRepository(t *testing.T) record.Repository {
	t.Helper()
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("FixtureRepository() failed: %v", err)
	}
	inmemdb.Load(db, Fixtures(t)...)
	return inmemdb.NewRecordRepository(db)
}

func CreateRecords(t *testing.T, repo record.Repository, resource string, records ...table.Record) {
	t.Helper()
	if err := repo.CreateRecords(context.Background(), resource, records...); err != nil {
		t.Fatalf("CreateRecords() failed: %v", err)
	}
}
