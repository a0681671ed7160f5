// Package page declares the dashboard pages: one parameterized page per resource,
// each a table over the records of that resource plus a detail view.
package page

import (
	"context"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mfanajozi/dipapa/core/datefmt"
	"github.com/mfanajozi/dipapa/core/table"
)

var (
	nameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	pathRegex = regexp.MustCompile(`^(/[a-z0-9_-]+)+$`)
)

type (
	// Source supplies the records of a resource (see record.Service).
	Source interface {
		Query(ctx context.Context, resource string) ([]table.Record, error)
	}

	// Pin moves the records whose Key field equals Value to the front, keeping source order otherwise.
	Pin struct {
		Key   string
		Value string
	}

	Config struct {
		Name        string
		Path        string
		Title       string
		Description string
		// Resource defaults to Name.
		Resource    string
		CreateLabel string

		Columns           []table.Column
		SearchKey         string
		SearchPlaceholder string
		FilterKey         string
		FilterOptions     []table.FilterOption
		PageSize          int
		SkeletonRows      int
		Pin               *Pin

		// Heading names a record on its detail page; defaults to the search field, then the id.
		Heading func(rec table.Record) string
		// Avatar shows the record initials next to the detail heading.
		Avatar bool
	}

	Page struct {
		Config
		table *table.Table
	}

	// Field is one line of a detail view.
	Field struct {
		Key   string
		Label string
		Cell  table.Cell
	}

	Detail struct {
		ID       string
		Heading  string
		Initials string
		Fields   []Field
	}
)

// New validates cfg and builds the page table. The last column links every row to its detail page.
func New(cfg Config) (*Page, error) {
	if !nameRegex.MatchString(cfg.Name) {
		return nil, errors.Errorf("page: invalid name %q", cfg.Name)
	}
	if !pathRegex.MatchString(cfg.Path) {
		return nil, errors.Errorf("page %s: invalid path %q", cfg.Name, cfg.Path)
	}
	if cfg.Resource == "" {
		cfg.Resource = cfg.Name
	}
	if !nameRegex.MatchString(cfg.Resource) {
		return nil, errors.Errorf("page %s: invalid resource %q", cfg.Name, cfg.Resource)
	}
	if cfg.Title == "" {
		cfg.Title = cases.Title(language.English).String(strings.ReplaceAll(cfg.Name, "_", " "))
	}

	p := &Page{Config: cfg}
	columns := make([]table.Column, 0, len(cfg.Columns)+1)
	columns = append(columns, cfg.Columns...)
	columns = append(columns, table.Action("", table.Link("View", func(rec table.Record) string {
		return p.DetailPath(rec.ID())
	})))

	tbl, err := table.New(columns, table.Options{
		SearchKey:         cfg.SearchKey,
		SearchPlaceholder: cfg.SearchPlaceholder,
		FilterKey:         cfg.FilterKey,
		FilterOptions:     cfg.FilterOptions,
		PageSize:          cfg.PageSize,
		SkeletonRows:      cfg.SkeletonRows,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "page %s", cfg.Name)
	}
	if cfg.Pin != nil {
		if _, ok := tbl.Column(cfg.Pin.Key); !ok {
			return nil, errors.Wrapf(&table.ConfigurationError{
				Field:  "pin",
				Value:  cfg.Pin.Key,
				Reason: "references no column",
			}, "page %s", cfg.Name)
		}
	}
	p.table = tbl
	return p, nil
}

// MustNew is like New but panics on an invalid configuration.
func MustNew(cfg Config) *Page {
	p, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Page) Table() *table.Table { return p.table }

func (p *Page) DetailPath(id string) string {
	return p.Path + "/" + url.PathEscape(id)
}

// Arrange applies the page pin to records. The input slice is never modified.
func (p *Page) Arrange(records []table.Record) []table.Record {
	if p.Pin == nil {
		return records
	}
	out := make([]table.Record, 0, len(records))
	for _, rec := range records {
		if strings.EqualFold(rec.String(p.Pin.Key), p.Pin.Value) {
			out = append(out, rec)
		}
	}
	for _, rec := range records {
		if !strings.EqualFold(rec.String(p.Pin.Key), p.Pin.Value) {
			out = append(out, rec)
		}
	}
	return out
}

// Load fetches the page records from src into inst.
// The result is applied only if ctx is still live and no newer load began on inst;
// applied reports whether it was. A source failure is applied as an empty set carrying the error.
func (p *Page) Load(ctx context.Context, inst *table.Instance, src Source) (applied bool, err error) {
	ticket := inst.Begin()
	recs, err := src.Query(ctx, p.Resource)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return false, ctxErr
	}
	if err != nil {
		return inst.Apply(ticket, nil, err), err
	}
	return inst.Apply(ticket, p.Arrange(recs), nil), nil
}

// Detail lays out rec: the page columns first, then the remaining fields sorted by key.
func (p *Page) Detail(rec table.Record) Detail {
	d := Detail{ID: rec.ID(), Heading: p.heading(rec)}
	if p.Avatar {
		d.Initials = Initials(d.Heading)
	}

	seen := map[string]bool{"id": true}
	for _, col := range p.table.Columns() {
		// header-less columns (avatars) are listed with the raw fields
		if !col.Keyed() || col.Header == "" || seen[col.Key] {
			continue
		}
		seen[col.Key] = true
		d.Fields = append(d.Fields, Field{Key: col.Key, Label: col.Header, Cell: col.Render(rec)})
	}

	rest := make([]string, 0, len(rec))
	for k := range rec {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		d.Fields = append(d.Fields, Field{Key: k, Label: labelFor(k), Cell: table.Cell{Text: formatField(k, rec.String(k))}})
	}
	return d
}

func (p *Page) heading(rec table.Record) string {
	if p.Heading != nil {
		if h := strings.TrimSpace(p.Heading(rec)); h != "" {
			return h
		}
	}
	if p.SearchKey != "" {
		if h := rec.String(p.SearchKey); h != "" {
			return h
		}
	}
	return rec.ID()
}

// labelFor turns a field key such as "date_of_birth" into "Date Of Birth".
func labelFor(key string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(key, "_", " "))
}

func formatField(key, value string) string {
	switch {
	case value == "":
		return ""
	case key == "date" || strings.HasSuffix(key, "_date") || strings.HasPrefix(key, "date_"):
		return datefmt.FormatDateLong(value)
	case key == "time" || strings.HasPrefix(key, "time_"):
		return datefmt.FormatTime(value)
	default:
		return value
	}
}
