package render

import (
	"net/url"
	"strconv"

	"github.com/mfanajozi/dipapa/core/page"
	"github.com/mfanajozi/dipapa/core/table"
)

// Query parameters of the table views.
const (
	ParamSearch   = "q"
	ParamFilter   = "filter"
	ParamOrdering = "ordering"
	ParamPage     = "page"
)

type (
	NavItem struct {
		Title  string
		Path   string
		Active bool
	}

	// Layout is shared by every full document.
	Layout struct {
		AppName string
		Title   string
		Nav     []NavItem
	}

	IndexData struct {
		Layout
		Pages []*page.Page
	}

	// TableData is a table view of a page, with the links of its controls.
	TableData struct {
		Page *page.Page
		View table.View
	}

	// PageData is the page shell: controls plus a skeleton table swapped out once the rows are fetched.
	PageData struct {
		Layout
		TableData
		FragmentURL string
	}

	DetailData struct {
		Layout
		Page   *page.Page
		Detail page.Detail
	}

	ErrorData struct {
		Layout
		Code    int
		Message string
	}
)

// NewLayout builds the navigation of pages, marking active as current.
func NewLayout(appName, title string, pages []*page.Page, active *page.Page) Layout {
	nav := make([]NavItem, len(pages))
	for i, p := range pages {
		nav[i] = NavItem{Title: p.Title, Path: p.Path, Active: p == active}
	}
	return Layout{AppName: appName, Title: title, Nav: nav}
}

// StateQuery encodes st as table view query parameters.
func StateQuery(st table.State) url.Values {
	q := make(url.Values)
	if st.Search != "" {
		q.Set(ParamSearch, st.Search)
	}
	if st.Filter != "" {
		q.Set(ParamFilter, st.Filter)
	}
	if st.Order.Key != "" {
		q.Set(ParamOrdering, st.Order.String())
	}
	if st.Page > 0 {
		q.Set(ParamPage, strconv.Itoa(st.Page))
	}
	return q
}

func (d TableData) link(st table.State) string {
	q := StateQuery(st)
	if len(q) == 0 {
		return d.Page.Path
	}
	return d.Page.Path + "?" + q.Encode()
}

// SortURL orders by h, flipping the direction when the view is already sorted by it.
func (d TableData) SortURL(h table.Header) string {
	st := d.View.State
	st.Page = 0
	dir := table.Ascending
	if h.Sorted && h.Direction == table.Ascending {
		dir = table.Descending
	}
	st.Order = table.Ordering{Key: h.Key, Direction: dir}
	return d.link(st)
}

func (d TableData) PageURL(n int) string {
	st := d.View.State
	st.Page = n
	return d.link(st)
}

func (d TableData) PrevURL() string { return d.PageURL(d.View.State.Page - 1) }
func (d TableData) NextURL() string { return d.PageURL(d.View.State.Page + 1) }

// ColumnCount includes the action column.
func (d TableData) ColumnCount() int {
	return len(d.View.Headers)
}

// FirstRow and LastRow are the 1-based bounds of the rows shown.
func (d TableData) FirstRow() int {
	if len(d.View.Rows) == 0 {
		return 0
	}
	return d.View.State.Page*d.View.Options.PageSize + 1
}

func (d TableData) LastRow() int {
	return d.View.State.Page*d.View.Options.PageSize + len(d.View.Rows)
}
