package render

import (
	"fmt"
	"html"
	"io"

	"github.com/microcosm-cc/bluemonday"
	"github.com/olekukonko/tablewriter"

	"github.com/mfanajozi/dipapa/core"
	"github.com/mfanajozi/dipapa/core/table"
)

const (
	defaultWidth = 100
	minColWidth  = 8
	// room taken by the borders and padding of each column
	colPadding = 3
)

// Text writes table views as plain text tables, for terminals.
type Text struct {
	policy *bluemonday.Policy
}

func NewText() *Text {
	return &Text{policy: bluemonday.StrictPolicy()}
}

// WriteTable writes v to w, fitting the columns into width characters (0 for the default width).
// Action columns are left out.
func (t *Text) WriteTable(w io.Writer, v table.View, width int) error {
	switch {
	case v.Loading():
		_, err := fmt.Fprintln(w, "Loading...")
		return err
	case v.NoResults():
		if v.SourceErr != nil {
			if _, err := fmt.Fprintf(w, "Could not load records: %v\n", v.SourceErr); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintln(w, "No results.")
		return err
	}

	var (
		cols    []int
		headers []string
	)
	for i, h := range v.Headers {
		if h.Kind == table.KindAction {
			continue
		}
		cols = append(cols, i)
		label := h.Label
		switch {
		case h.Sorted && h.Direction == table.Descending:
			label += " v"
		case h.Sorted:
			label += " ^"
		}
		headers = append(headers, label)
	}
	if len(cols) == 0 {
		return nil
	}

	if width <= 0 {
		width = defaultWidth
	}
	colWidth := width/len(cols) - colPadding
	if colWidth < minColWidth {
		colWidth = minColWidth
	}

	tw := tablewriter.NewWriter(w)
	tw.SetHeader(headers)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	tw.SetColWidth(colWidth)
	tw.SetCaption(true, t.caption(v))
	for _, row := range v.Rows {
		line := make([]string, len(cols))
		for j, i := range cols {
			line[j] = core.Truncate(t.Plain(row.Cells[i].Text), colWidth)
		}
		tw.Append(line)
	}
	tw.Render()
	return nil
}

// Plain strips any markup from a cell text.
func (t *Text) Plain(s string) string {
	return html.UnescapeString(t.policy.Sanitize(s))
}

func (t *Text) caption(v table.View) string {
	first := v.State.Page*v.Options.PageSize + 1
	last := first + len(v.Rows) - 1
	s := fmt.Sprintf("%d-%d of %d", first, last, v.Matched)
	if v.Matched != v.Total {
		s += fmt.Sprintf(" (filtered from %d)", v.Total)
	}
	if v.PageCount > 1 {
		s += fmt.Sprintf(", page %d/%d", v.State.Page+1, v.PageCount)
	}
	return s
}
