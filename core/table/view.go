package table

// Status distinguishes what a View presents.
type Status int

const (
	StatusLoading Status = iota
	StatusNoResults
	StatusRows
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusNoResults:
		return "no_results"
	default:
		return "rows"
	}
}

type (
	// State is the transient, per-instance view state.
	State struct {
		Search string
		Filter string
		Order  Ordering
		Page   int
	}

	Header struct {
		Key      string
		Label    string
		Kind     Kind
		Sortable bool
		// Sorted is set when the view is ordered by this column.
		Sorted    bool
		Direction Direction
	}

	Row struct {
		ID     string
		Cells  []Cell
		Record Record
	}

	View struct {
		Status  Status
		Headers []Header
		Rows    []Row
		State   State
		Options Options

		Total     int // records supplied by the source
		Matched   int // records left after search and filter
		PageCount int

		// SourceErr is set by the caller when the record source failed; Rows is then empty.
		SourceErr error
	}
)

func (v View) Loading() bool   { return v.Status == StatusLoading }
func (v View) NoResults() bool { return v.Status == StatusNoResults }

// HasPrev and HasNext report whether neighbouring pages exist.
func (v View) HasPrev() bool { return v.State.Page > 0 }
func (v View) HasNext() bool { return v.State.Page+1 < v.PageCount }

func (t *Table) headers(ord Ordering) []Header {
	hdrs := make([]Header, len(t.columns))
	for i, col := range t.columns {
		hdrs[i] = Header{
			Key:      col.Key,
			Label:    col.Header,
			Kind:     col.Kind,
			Sortable: col.Sortable(),
		}
		if col.Sortable() && col.Key == ord.Key {
			hdrs[i].Sorted = true
			hdrs[i].Direction = ord.Direction
		}
	}
	return hdrs
}

// Compute applies search, filter, sort and pagination to records and renders the visible rows.
// records are never mutated. The page index is clamped to the available pages.
func (t *Table) Compute(records []Record, st State) (View, error) {
	if err := t.CheckSortKey(st.Order.Key); err != nil {
		return View{}, err
	}

	matched := Search(records, t.opts.SearchKey, st.Search)
	matched = Filter(matched, t.opts.FilterKey, st.Filter)
	matched = Sort(matched, st.Order)

	size := t.opts.PageSize
	pages := (len(matched) + size - 1) / size
	if pages == 0 {
		pages = 1
	}
	switch {
	case st.Page < 0:
		st.Page = 0
	case st.Page >= pages:
		st.Page = pages - 1
	}

	v := View{
		Status:    StatusRows,
		Headers:   t.headers(st.Order),
		State:     st,
		Options:   t.Options(),
		Total:     len(records),
		Matched:   len(matched),
		PageCount: pages,
	}
	if len(matched) == 0 {
		v.Status = StatusNoResults
		return v, nil
	}

	start := st.Page * size
	end := start + size
	if end > len(matched) {
		end = len(matched)
	}
	v.Rows = make([]Row, 0, end-start)
	for _, rec := range matched[start:end] {
		v.Rows = append(v.Rows, t.row(rec))
	}
	return v, nil
}

// Failed returns the no-results view presented when the record source failed with err.
func (t *Table) Failed(st State, err error) View {
	v, _ := t.Compute(nil, State{Search: st.Search, Filter: st.Filter})
	v.SourceErr = err
	return v
}

// Skeleton returns the loading placeholder: the same headers as the eventual table and
// SkeletonRows rows of empty cells.
func (t *Table) Skeleton(st State) View {
	rows := make([]Row, t.opts.SkeletonRows)
	for i := range rows {
		rows[i] = Row{Cells: make([]Cell, len(t.columns))}
	}
	return View{
		Status:    StatusLoading,
		Headers:   t.headers(st.Order),
		Rows:      rows,
		State:     st,
		Options:   t.Options(),
		PageCount: 1,
	}
}

func (t *Table) row(rec Record) Row {
	cells := make([]Cell, len(t.columns))
	for i, col := range t.columns {
		cells[i] = col.Render(rec)
	}
	return Row{ID: rec.ID(), Cells: cells, Record: rec}
}
