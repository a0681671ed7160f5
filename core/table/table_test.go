package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func viewLink(rec Record) string { return "/visitors/" + rec.ID() }

func visitorColumns() []Column {
	return []Column{
		Text("full_name", "Full Name"),
		Text("email", "Email"),
		Custom("code_status", "Status", func(rec Record, v interface{}) Cell {
			return Cell{Text: ValueString(v), Class: "badge"}
		}),
		Action("", Link("View", viewLink)),
	}
}

func TestNew(t *testing.T) {
	noop := func(Record, interface{}) Cell { return Cell{} }

	tests := []struct {
		name       string
		columns    []Column
		opts       Options
		wantErr    bool
		wantErrStr string
	}{
		{name: "valid", columns: visitorColumns(), opts: Options{SearchKey: "full_name", FilterKey: "code_status"}},
		{name: "no columns", wantErr: true, wantErrStr: `table: columns must declare at least one column`},
		{
			name:       "duplicate keys",
			columns:    []Column{Text("title", "Title"), Custom("title", "Again", noop)},
			wantErr:    true,
			wantErrStr: `table: column key "title" is declared more than once`,
		},
		{
			name:    "action columns may share an empty key",
			columns: []Column{Text("title", "Title"), Action("", Link("View", viewLink)), Action("", Link("Edit", viewLink))},
		},
		{
			name:    "custom column without key",
			columns: []Column{Text("title", "Title"), Custom("", "Avatar", noop)},
		},
		{
			name:       "text column without key",
			columns:    []Column{Text("", "Title")},
			wantErr:    true,
			wantErrStr: `table: column "Title" is a text column without a key`,
		},
		{
			name:       "custom column without renderer",
			columns:    []Column{Custom("title", "Title", nil)},
			wantErr:    true,
			wantErrStr: `table: column "title" is a custom column without a renderer`,
		},
		{
			name:       "unknown search key with suggestion",
			columns:    visitorColumns(),
			opts:       Options{SearchKey: "emial"},
			wantErr:    true,
			wantErrStr: `table: searchKey "emial" references no column (did you mean "email"?)`,
		},
		{
			name:       "unknown filter key without suggestion",
			columns:    visitorColumns(),
			opts:       Options{FilterKey: "zzz"},
			wantErr:    true,
			wantErrStr: `table: filterKey "zzz" references no column`,
		},
		{
			name:       "filter options without filter key",
			columns:    visitorColumns(),
			opts:       Options{FilterOptions: []FilterOption{{Label: "Used", Value: "Used"}}},
			wantErr:    true,
			wantErrStr: `table: filterOptions are set without a filterKey`,
		},
		{
			name:    "duplicate filter options",
			columns: visitorColumns(),
			opts: Options{FilterKey: "code_status", FilterOptions: []FilterOption{
				{Label: "Used", Value: "Used"}, {Label: "Used again", Value: "Used"},
			}},
			wantErr: true,
		},
		{
			name:    "negative page size",
			columns: visitorColumns(),
			opts:    Options{PageSize: -1},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := New(tt.columns, tt.opts)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.NotNil(t, tbl)
				return
			}
			require.Error(t, err)
			assert.True(t, IsConfigurationError(err))
			if tt.wantErrStr != "" {
				assert.Equal(t, tt.wantErrStr, err.Error())
			}
		})
	}
}

func TestNew_defaults(t *testing.T) {
	tbl, err := New(visitorColumns(), Options{})
	require.NoError(t, err)
	assert.Equal(t, DefaultPageSize, tbl.Options().PageSize)
	assert.Equal(t, DefaultSkeletonRows, tbl.Options().SkeletonRows)
	assert.Equal(t, []string{"full_name", "email", "code_status"}, tbl.Keys())
}

func TestMustNew(t *testing.T) {
	assert.Panics(t, func() { MustNew(nil, Options{}) })
	assert.NotPanics(t, func() { MustNew(visitorColumns(), Options{}) })
}

func TestTable_CheckSortKey(t *testing.T) {
	tbl := MustNew(visitorColumns(), Options{})

	assert.NoError(t, tbl.CheckSortKey(""))
	assert.NoError(t, tbl.CheckSortKey("email"))

	err := tbl.CheckSortKey("full_nam")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownColumn)
	assert.Contains(t, err.Error(), `did you mean "full_name"?`)
}
