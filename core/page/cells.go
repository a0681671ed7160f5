package page

import (
	"encoding/json"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"unicode"

	"github.com/dustin/go-humanize"

	"github.com/mfanajozi/dipapa/core"
	"github.com/mfanajozi/dipapa/core/datefmt"
	"github.com/mfanajozi/dipapa/core/table"
)

const (
	// longest text shown in a table cell before it is cut
	cellTextMax   = 80
	truncateClass = "max-w-[300px] truncate"
	avatarClass   = "avatar"

	currencySymbol = "R"
)

// Initials returns the upper-cased first letters of the words of name ("John Doe" -> "JD").
func Initials(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		for _, r := range word {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				b.WriteRune(unicode.ToUpper(r))
				break
			}
		}
	}
	return b.String()
}

// FullName joins the non-empty values of keys with spaces.
func FullName(rec table.Record, keys ...string) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if s := strings.TrimSpace(rec.String(k)); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// AvatarCell shows the image at the column URL, or the initials of the record name when there is none.
func AvatarCell(nameKeys ...string) table.CellFunc {
	return func(rec table.Record, v interface{}) table.Cell {
		name := FullName(rec, nameKeys...)
		cell := table.Cell{Text: Initials(name), Class: avatarClass}
		if src := strings.TrimSpace(table.ValueString(v)); src != "" {
			cell.HTML = template.HTML(fmt.Sprintf(
				`<img src="%s" alt="%s" class="h-9 w-9 rounded-full">`,
				template.HTMLEscapeString(src), template.HTMLEscapeString(name),
			))
		}
		return cell
	}
}

// TruncateCell shows at most cellTextMax characters of long text columns.
func TruncateCell(_ table.Record, v interface{}) table.Cell {
	return table.Cell{Text: core.Truncate(table.ValueString(v), cellTextMax), Class: truncateClass}
}

func DateCell(_ table.Record, v interface{}) table.Cell {
	return table.Cell{Text: datefmt.FormatDate(table.ValueString(v))}
}

func TimeCell(_ table.Record, v interface{}) table.Cell {
	return table.Cell{Text: datefmt.FormatTime(table.ValueString(v))}
}

// AmountCell formats numbers as rand amounts ("R 1,500.00"). Other values are shown as is.
func AmountCell(_ table.Record, v interface{}) table.Cell {
	f, ok := number(v)
	if !ok {
		return table.Cell{Text: table.ValueString(v)}
	}
	return table.Cell{Text: currencySymbol + " " + humanize.FormatFloat("#,###.##", f), Class: "tabular-nums"}
}

func number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
