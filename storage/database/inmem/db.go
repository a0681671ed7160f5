package inmemdb

import (
	"sync"

	"github.com/mfanajozi/dipapa/core/table"
)

type (
	DB struct {
		mutex     sync.RWMutex
		resources map[string]*resourceTable
	}

	// resourceTable keeps records in insertion order with an id index.
	resourceTable struct {
		rows  []table.Record
		index map[string]int
	}
)

func Open() (*DB, error) {
	db := &DB{
		resources: make(map[string]*resourceTable),
	}
	return db, nil
}

// Reset drops every record.
func (db *DB) Reset() {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.resources = make(map[string]*resourceTable)
}

func (db *DB) table(resource string, create bool) *resourceTable {
	t, ok := db.resources[resource]
	if !ok && create {
		t = &resourceTable{index: make(map[string]int)}
		db.resources[resource] = t
	}
	return t
}

func (t *resourceTable) upsert(rec table.Record) {
	if i, ok := t.index[rec.ID()]; ok {
		t.rows[i] = rec
		return
	}
	t.index[rec.ID()] = len(t.rows)
	t.rows = append(t.rows, rec)
}
