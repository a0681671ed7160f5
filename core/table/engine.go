package table

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Direction is a sort direction.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// Ordering is a sort request on one column. The zero value means "source order".
type Ordering struct {
	Key       string
	Direction Direction
}

// ParseOrdering parses "key" (ascending) or "-key" (descending).
func ParseOrdering(s string) Ordering {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "-") {
		return Ordering{Key: strings.TrimSpace(s[1:]), Direction: Descending}
	}
	return Ordering{Key: s}
}

func (o Ordering) String() string {
	if o.Key == "" {
		return ""
	}
	if o.Direction == Descending {
		return "-" + o.Key
	}
	return o.Key
}

// Search returns the records whose key field contains term, ignoring case, in input order.
// An empty term returns records unchanged.
func Search(records []Record, key, term string) []Record {
	if term == "" || key == "" {
		return records
	}
	folder := cases.Fold()
	needle := folder.String(term)

	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if strings.Contains(folder.String(rec.String(key)), needle) {
			out = append(out, rec)
		}
	}
	return out
}

// Filter returns the records whose key field equals value, in input order.
// An empty value disables filtering.
func Filter(records []Record, key, value string) []Record {
	if value == "" || key == "" {
		return records
	}
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if rec.String(key) == value {
			out = append(out, rec)
		}
	}
	return out
}

// Sort returns a stably sorted copy of records. Ties keep their input order in both directions.
func Sort(records []Record, ord Ordering) []Record {
	out := make([]Record, len(records))
	copy(out, records)
	if ord.Key == "" {
		return out
	}

	// collators are not safe for concurrent use
	coll := collate.New(language.English, collate.IgnoreCase, collate.Numeric)
	less := func(i, j int) bool {
		a, _ := out[i].Get(ord.Key)
		b, _ := out[j].Get(ord.Key)
		return compare(coll, a, b) < 0
	}
	if ord.Direction == Descending {
		less = func(i, j int) bool {
			a, _ := out[i].Get(ord.Key)
			b, _ := out[j].Get(ord.Key)
			return compare(coll, b, a) < 0
		}
	}
	sort.SliceStable(out, less)
	return out
}

// compare orders nil first, then compares numbers, times and booleans natively and anything else as text.
func compare(coll *collate.Collator, a, b interface{}) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			}
			return 0
		}
	}
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}
	if ba, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			switch {
			case ba == bb:
				return 0
			case !ba:
				return -1
			}
			return 1
		}
	}
	return coll.CompareString(ValueString(a), ValueString(b))
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
