// Package render turns table views and pages into HTML documents and plain text tables.
package render

import (
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/Masterminds/sprig/v3"
	"github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"

	"github.com/mfanajozi/dipapa/core/table"
)

// Template names.
const (
	TmplIndex  = "index"
	TmplPage   = "page"
	TmplTable  = "table"
	TmplDetail = "detail"
	TmplError  = "error"
)

// HTML renders the embedded templates. Files starting with "_" are partials parsed with every page.
type HTML struct {
	tmpls  map[string]*template.Template
	policy *bluemonday.Policy
}

// NewHTML parses every template of dir in fsys. strict makes missing map keys fail rendering.
func NewHTML(fsys fs.FS, dir string, strict bool) (*HTML, error) {
	h := &HTML{
		tmpls:  make(map[string]*template.Template),
		policy: newPolicy(),
	}

	fps, err := fs.Glob(fsys, path.Join(dir, "*.gohtml"))
	if err != nil {
		return nil, errors.Wrap(err, "listing templates")
	}
	partials := path.Join(dir, "_*.gohtml")
	for _, fp := range fps {
		fname := path.Base(fp)
		if strings.HasPrefix(fname, "_") {
			continue
		}
		tmpl, err := template.New(fname).Funcs(h.funcs()).ParseFS(fsys, partials, fp)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing template %s", fname)
		}
		if strict {
			tmpl = tmpl.Option("missingkey=error")
		}
		h.tmpls[strings.TrimSuffix(fname, path.Ext(fname))] = tmpl
	}

	for _, name := range []string{TmplIndex, TmplPage, TmplTable, TmplDetail, TmplError} {
		if _, ok := h.tmpls[name]; !ok {
			return nil, errors.Errorf("missing template %s", name)
		}
	}
	return h, nil
}

// Execute renders the template name with data.
func (h *HTML) Execute(w io.Writer, name string, data interface{}) error {
	tmpl, ok := h.tmpls[name]
	if !ok {
		return errors.Errorf("unknown template %s", name)
	}
	return tmpl.ExecuteTemplate(w, name+".gohtml", data)
}

// CellHTML returns the sanitized HTML of cell, or its escaped text.
func (h *HTML) CellHTML(cell table.Cell) template.HTML {
	if cell.HTML != "" {
		return template.HTML(h.policy.Sanitize(string(cell.HTML)))
	}
	return template.HTML(template.HTMLEscapeString(cell.Text))
}

func (h *HTML) funcs() template.FuncMap {
	funcs := sprig.HtmlFuncMap()
	funcs["cell"] = h.CellHTML
	return funcs
}

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowStandardURLs()
	p.AllowAttrs("class").OnElements("img", "span", "div", "a")
	return p
}
