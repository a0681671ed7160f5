package table

import "html/template"

// Kind tags the rendering variant of a Column.
type Kind int

const (
	KindText Kind = iota
	KindCustom
	KindAction
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindCustom:
		return "custom"
	case KindAction:
		return "action"
	default:
		return "unknown"
	}
}

type (
	// Cell is the rendered content of one table cell.
	// Text is always set; HTML, when present, is preferred by HTML renderers and is sanitized before output.
	Cell struct {
		Text  string        `json:"text"`
		HTML  template.HTML `json:"-"`
		Href  string        `json:"href,omitempty"`
		Class string        `json:"class,omitempty"`
	}

	// CellFunc renders a custom cell from the full record and the raw value under the column key.
	CellFunc func(rec Record, value interface{}) Cell

	// ActionFunc renders a row action (usually a link to the record's detail page).
	ActionFunc func(rec Record) Cell

	// Column describes one table column. Build it with Text, Custom or Action.
	Column struct {
		Kind   Kind
		Key    string
		Header string
		render CellFunc
		action ActionFunc
	}
)

// Text declares a column rendering the raw field value as plain text.
func Text(key, header string) Column {
	return Column{Kind: KindText, Key: key, Header: header}
}

// Custom declares a column whose cells are produced by fn. key may be empty.
func Custom(key, header string, fn CellFunc) Column {
	return Column{Kind: KindCustom, Key: key, Header: header, render: fn}
}

// Action declares a row-action column; fn receives the full record.
func Action(header string, fn ActionFunc) Column {
	return Column{Kind: KindAction, Header: header, action: fn}
}

// Keyed reports whether the column addresses a record field.
func (c Column) Keyed() bool {
	return c.Kind != KindAction && c.Key != ""
}

// Sortable reports whether the column can be used as a sort key.
func (c Column) Sortable() bool {
	return c.Keyed()
}

// Render produces the cell for rec. A missing field renders as empty text.
func (c Column) Render(rec Record) Cell {
	switch c.Kind {
	case KindAction:
		return c.action(rec)
	case KindCustom:
		var v interface{}
		if c.Key != "" {
			v, _ = rec.Get(c.Key)
		}
		return c.render(rec, v)
	default:
		return Cell{Text: rec.String(c.Key)}
	}
}

// Link is a small ActionFunc helper rendering label as a link to href(rec).
func Link(label string, href func(rec Record) string) ActionFunc {
	return func(rec Record) Cell {
		return Cell{Text: label, Href: href(rec)}
	}
}
