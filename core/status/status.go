// Package status maps record statuses to badge styles.
package status

import (
	"strings"

	"github.com/mfanajozi/dipapa/core/table"
)

// Known statuses.
const (
	Pending    = "pending"
	Processing = "processing"
	Approved   = "approved"
	Rejected   = "rejected"
	Closed     = "closed"
	Generated  = "generated"
	Used       = "used"
	Expired    = "expired"
)

const (
	BadgeClass   = "inline-flex items-center rounded-full px-2.5 py-0.5 text-xs font-medium"
	DefaultStyle = "bg-gray-100 text-gray-800"
)

var styles = map[string]string{
	Pending:    "bg-yellow-100 text-yellow-800",
	Processing: "bg-blue-100 text-blue-800",
	Approved:   "bg-green-100 text-green-800",
	Rejected:   "bg-red-100 text-red-800",
	Closed:     DefaultStyle,
	Generated:  "bg-purple-100 text-purple-800",
	Used:       "bg-green-100 text-green-800",
	Expired:    DefaultStyle,
}

// Style returns the visual class for s, ignoring case and surrounding space.
// Unknown statuses get DefaultStyle.
func Style(s string) string {
	if style, ok := styles[strings.ToLower(strings.TrimSpace(s))]; ok {
		return style
	}
	return DefaultStyle
}

// Known reports whether s is one of the known statuses.
func Known(s string) bool {
	_, ok := styles[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// Badge renders s as a status badge cell.
func Badge(s string) table.Cell {
	return table.Cell{Text: s, Class: BadgeClass + " " + Style(s)}
}

// BadgeCell is a table.CellFunc rendering the column value as a badge.
func BadgeCell(_ table.Record, v interface{}) table.Cell {
	return Badge(table.ValueString(v))
}
