package table

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func visitors() []Record {
	return []Record{
		{"id": "v1", "full_name": "John Smith", "email": "john.smith@example.com", "code_status": "Generated", "visits": 3},
		{"id": "v2", "full_name": "Sarah Johnson", "email": "sarah.johnson@example.com", "code_status": "Used", "visits": 1},
		{"id": "v3", "full_name": "Michael Brown", "email": "michael.brown@example.com", "code_status": "Expired", "visits": 3},
		{"id": "v4", "full_name": "emily SMITHERS", "email": "emily.wilson@example.com", "code_status": "Generated"},
		{"id": "v5", "full_name": "David Lee", "email": "david.lee@example.com", "code_status": "Used", "visits": 2},
	}
}

func ids(records []Record) []string {
	out := make([]string, len(records))
	for i, rec := range records {
		out[i] = rec.ID()
	}
	return out
}

func TestSearch(t *testing.T) {
	recs := visitors()

	tests := []struct {
		name string
		key  string
		term string
		want []string
	}{
		{name: "empty term is identity", key: "full_name", term: "", want: []string{"v1", "v2", "v3", "v4", "v5"}},
		{name: "smith any case", key: "full_name", term: "smith", want: []string{"v1", "v4"}},
		{name: "SMITH any case", key: "full_name", term: "SMITH", want: []string{"v1", "v4"}},
		{name: "substring", key: "email", term: "SON@", want: []string{"v2", "v4"}},
		{name: "no match", key: "full_name", term: "nobody", want: []string{}},
		{name: "missing field never matches", key: "nickname", term: "a", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Search(recs, tt.key, tt.term)))
		})
	}
}

func TestSearch_idempotent(t *testing.T) {
	recs := visitors()
	for _, term := range []string{"", "o", "SMITH", "e", "zz", "lee"} {
		once := Search(recs, "full_name", term)
		twice := Search(once, "full_name", term)
		assert.Equal(t, ids(once), ids(twice), "term %q", term)
	}
}

func TestFilter(t *testing.T) {
	recs := visitors()

	for _, value := range []string{"Generated", "Used", "Expired", "Unknown"} {
		t.Run(value, func(t *testing.T) {
			got := Filter(recs, "code_status", value)
			for _, rec := range got {
				assert.Equal(t, value, rec["code_status"])
				assert.Contains(t, recs, rec)
			}
		})
	}
	assert.Equal(t, ids(recs), ids(Filter(recs, "code_status", "")), "empty value disables filtering")
}

func TestFilter_onePerStatus(t *testing.T) {
	statuses := []string{"Pending", "Processing", "Approved", "Rejected", "Closed"}
	recs := make([]Record, len(statuses))
	for i, s := range statuses {
		recs[i] = Record{"id": fmt.Sprintf("q%d", i+1), "status": s}
	}

	got := Filter(recs, "status", "Closed")
	require.Len(t, got, 1)
	assert.Equal(t, "q5", got[0].ID())
}

func TestSort(t *testing.T) {
	recs := visitors()

	tests := []struct {
		name string
		ord  Ordering
		want []string
	}{
		{name: "source order", ord: Ordering{}, want: []string{"v1", "v2", "v3", "v4", "v5"}},
		{name: "text asc ignores case", ord: Ordering{Key: "full_name"}, want: []string{"v5", "v4", "v1", "v3", "v2"}},
		{name: "text desc", ord: Ordering{Key: "full_name", Direction: Descending}, want: []string{"v2", "v3", "v1", "v4", "v5"}},
		// v4 has no visits and sorts first; v1 and v3 tie and keep their input order
		{name: "numbers asc", ord: Ordering{Key: "visits"}, want: []string{"v4", "v2", "v5", "v1", "v3"}},
		{name: "numbers desc keeps ties stable", ord: Ordering{Key: "visits", Direction: Descending}, want: []string{"v1", "v3", "v5", "v2", "v4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Sort(recs, tt.ord)))
		})
	}
	assert.Equal(t, []string{"v1", "v2", "v3", "v4", "v5"}, ids(recs), "input must not be mutated")
}

func TestSort_idempotent(t *testing.T) {
	recs := visitors()
	for _, ord := range []Ordering{{Key: "full_name"}, {Key: "code_status", Direction: Descending}, {Key: "visits"}} {
		once := Sort(recs, ord)
		assert.Equal(t, ids(once), ids(Sort(once, ord)), ord.String())
	}
}

func TestSort_reverseNonTied(t *testing.T) {
	recs := []Record{
		{"id": "a", "status": "Used"},
		{"id": "b", "status": "Generated"},
		{"id": "c", "status": "Used"},
		{"id": "d", "status": "Expired"},
	}
	asc := Sort(recs, Ordering{Key: "status"})
	desc := Sort(recs, Ordering{Key: "status", Direction: Descending})

	assert.Equal(t, []string{"d", "b", "a", "c"}, ids(asc))
	assert.Equal(t, []string{"a", "c", "b", "d"}, ids(desc))
}

func TestSort_times(t *testing.T) {
	base := time.Date(2023, 3, 20, 10, 0, 0, 0, time.UTC)
	recs := []Record{
		{"id": "late", "at": base.Add(2 * time.Hour)},
		{"id": "early", "at": base},
		{"id": "mid", "at": base.Add(time.Hour)},
	}
	assert.Equal(t, []string{"early", "mid", "late"}, ids(Sort(recs, Ordering{Key: "at"})))
}

func TestParseOrdering(t *testing.T) {
	assert.Equal(t, Ordering{Key: "amount", Direction: Descending}, ParseOrdering("-amount"))
	assert.Equal(t, Ordering{Key: "amount"}, ParseOrdering(" amount "))
	assert.Equal(t, Ordering{}, ParseOrdering(""))
	assert.Equal(t, "-amount", Ordering{Key: "amount", Direction: Descending}.String())
}
