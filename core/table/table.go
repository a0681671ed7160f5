package table

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
)

const (
	DefaultPageSize     = 10
	DefaultSkeletonRows = 5

	suggestionMinRatio = .6
)

// ErrUnknownColumn is returned when a sort key references no sortable column.
var ErrUnknownColumn = errors.New("unknown column")

type (
	// FilterOption is one choice of the filter control.
	FilterOption struct {
		Label string `json:"label"`
		Value string `json:"value"`
	}

	Options struct {
		SearchKey         string
		SearchPlaceholder string
		FilterKey         string
		FilterOptions     []FilterOption
		PageSize          int
		SkeletonRows      int
	}

	// Table is a validated set of column descriptors and options.
	// It holds no per-view state and is safe for concurrent use.
	Table struct {
		columns []Column
		opts    Options
		keys    map[string]int
	}
)

// ConfigurationError reports an invalid table declaration.
type ConfigurationError struct {
	Field      string
	Value      string
	Reason     string
	Suggestion string
}

func (e *ConfigurationError) Error() string {
	msg := "table: " + e.Field
	if e.Value != "" {
		msg += fmt.Sprintf(" %q", e.Value)
	}
	msg += " " + e.Reason
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

// IsConfigurationError reports whether the cause of err is a *ConfigurationError.
func IsConfigurationError(err error) bool {
	_, ok := errors.Cause(err).(*ConfigurationError)
	return ok
}

// New validates columns and opts and returns a Table ready to compute views.
// Any declaration problem is reported as a *ConfigurationError.
func New(columns []Column, opts Options) (*Table, error) {
	t := &Table{
		columns: make([]Column, len(columns)),
		opts:    opts,
		keys:    make(map[string]int, len(columns)),
	}
	copy(t.columns, columns)
	t.opts.FilterOptions = append([]FilterOption(nil), opts.FilterOptions...)

	if len(columns) == 0 {
		return nil, &ConfigurationError{Field: "columns", Reason: "must declare at least one column"}
	}

	for i, col := range t.columns {
		switch col.Kind {
		case KindText:
			if col.Key == "" {
				return nil, &ConfigurationError{Field: "column", Value: col.Header, Reason: "is a text column without a key"}
			}
		case KindCustom:
			if col.render == nil {
				return nil, &ConfigurationError{Field: "column", Value: col.Key, Reason: "is a custom column without a renderer"}
			}
		case KindAction:
			if col.action == nil {
				return nil, &ConfigurationError{Field: "column", Value: col.Header, Reason: "is an action column without a renderer"}
			}
			continue
		default:
			return nil, &ConfigurationError{Field: "column", Value: col.Key, Reason: "has an unknown kind"}
		}

		if col.Key == "" {
			continue
		}
		if _, dup := t.keys[col.Key]; dup {
			return nil, &ConfigurationError{Field: "column key", Value: col.Key, Reason: "is declared more than once"}
		}
		t.keys[col.Key] = i
	}

	if err := t.checkKey("searchKey", opts.SearchKey); err != nil {
		return nil, err
	}
	if err := t.checkKey("filterKey", opts.FilterKey); err != nil {
		return nil, err
	}
	if opts.FilterKey == "" && len(opts.FilterOptions) > 0 {
		return nil, &ConfigurationError{Field: "filterOptions", Reason: "are set without a filterKey"}
	}
	seen := make(map[string]bool, len(opts.FilterOptions))
	for _, opt := range opts.FilterOptions {
		if seen[opt.Value] {
			return nil, &ConfigurationError{Field: "filter option", Value: opt.Value, Reason: "is declared more than once"}
		}
		seen[opt.Value] = true
	}

	switch {
	case opts.PageSize < 0:
		return nil, &ConfigurationError{Field: "pageSize", Value: fmt.Sprint(opts.PageSize), Reason: "must not be negative"}
	case opts.PageSize == 0:
		t.opts.PageSize = DefaultPageSize
	}
	switch {
	case opts.SkeletonRows < 0:
		return nil, &ConfigurationError{Field: "skeletonRows", Value: fmt.Sprint(opts.SkeletonRows), Reason: "must not be negative"}
	case opts.SkeletonRows == 0:
		t.opts.SkeletonRows = DefaultSkeletonRows
	}
	return t, nil
}

// MustNew is like New but panics on a configuration error. Use it for package-level declarations.
func MustNew(columns []Column, opts Options) *Table {
	t, err := New(columns, opts)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table) checkKey(field, key string) error {
	if key == "" {
		return nil
	}
	if _, ok := t.keys[key]; ok {
		return nil
	}
	return &ConfigurationError{
		Field:      field,
		Value:      key,
		Reason:     "references no column",
		Suggestion: closest(key, t.Keys()),
	}
}

// Columns returns a copy of the column descriptors in declaration order.
func (t *Table) Columns() []Column {
	cols := make([]Column, len(t.columns))
	copy(cols, t.columns)
	return cols
}

func (t *Table) Options() Options {
	opts := t.opts
	opts.FilterOptions = append([]FilterOption(nil), t.opts.FilterOptions...)
	return opts
}

// Keys returns the declared field keys in declaration order.
func (t *Table) Keys() []string {
	keys := make([]string, 0, len(t.keys))
	for _, col := range t.columns {
		if col.Keyed() {
			keys = append(keys, col.Key)
		}
	}
	return keys
}

// Column returns the keyed column declared under key.
func (t *Table) Column(key string) (Column, bool) {
	i, ok := t.keys[key]
	if !ok {
		return Column{}, false
	}
	return t.columns[i], true
}

// CheckSortKey returns ErrUnknownColumn (wrapped) unless key is empty or names a sortable column.
func (t *Table) CheckSortKey(key string) error {
	if key == "" {
		return nil
	}
	if col, ok := t.Column(key); ok && col.Sortable() {
		return nil
	}
	msg := fmt.Sprintf("cannot sort by %q", key)
	if s := closest(key, t.Keys()); s != "" {
		msg += fmt.Sprintf(", did you mean %q?", s)
	}
	return errors.Wrap(ErrUnknownColumn, msg)
}

// closest returns the candidate most similar to s, or "" if none is similar enough.
func closest(s string, candidates []string) string {
	var (
		best      string
		bestRatio float64
	)
	sorted := append([]string(nil), candidates...)
	sort.Strings(sorted)
	a := strings.Split(strings.ToLower(s), "")
	for _, c := range sorted {
		m := difflib.NewMatcher(a, strings.Split(strings.ToLower(c), ""))
		if r := m.Ratio(); r > bestRatio {
			best, bestRatio = c, r
		}
	}
	if bestRatio < suggestionMinRatio {
		return ""
	}
	return best
}
