package inmemdb

import (
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/mfanajozi/dipapa/core/table"
)

// Fixture is the YAML-decoded record list of one resource.
type Fixture struct {
	Resource string
	Records  []table.Record
}

// ReadFixtures decodes every <resource>.yaml file of dir, sorted by resource name.
// Each file holds a list of records; every record must have an id.
func ReadFixtures(fsys fs.FS, dir string) ([]Fixture, error) {
	matches, err := fs.Glob(fsys, path.Join(dir, "*.yaml"))
	if err != nil {
		return nil, errors.Wrap(err, "listing fixtures")
	}
	sort.Strings(matches)

	fixtures := make([]Fixture, 0, len(matches))
	for _, fp := range matches {
		fx, err := readFixture(fsys, fp)
		if err != nil {
			return nil, err
		}
		fixtures = append(fixtures, fx)
	}
	return fixtures, nil
}

func readFixture(fsys fs.FS, fp string) (Fixture, error) {
	data, err := fs.ReadFile(fsys, fp)
	if err != nil {
		return Fixture{}, errors.Wrapf(err, "reading fixture %s", fp)
	}
	var rows []map[string]interface{}
	if err = yaml.Unmarshal(data, &rows); err != nil {
		return Fixture{}, errors.Wrapf(err, "decoding fixture %s", fp)
	}

	fx := Fixture{
		Resource: strings.TrimSuffix(path.Base(fp), path.Ext(fp)),
		Records:  make([]table.Record, 0, len(rows)),
	}
	for i, row := range rows {
		rec := table.Record(row)
		if rec.ID() == "" {
			return Fixture{}, errors.Errorf("fixture %s: record #%d has no id", fp, i+1)
		}
		fx.Records = append(fx.Records, rec)
	}
	return fx, nil
}

// Load stores fixtures into db.
func Load(db *DB, fixtures ...Fixture) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	for _, fx := range fixtures {
		t := db.table(fx.Resource, true)
		for _, rec := range fx.Records {
			t.upsert(rec.Clone())
		}
	}
}
