package echoapi

import (
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mfanajozi/dipapa/core"
	"github.com/mfanajozi/dipapa/core/table"
	"github.com/mfanajozi/dipapa/services/render"
)

var queryDecoder = newQueryDecoder()

func newQueryDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

// TableQuery is the view state requested in the query string: ?q=&filter=&ordering=&page=
type TableQuery struct {
	Search   string `schema:"q" validate:"max=200"`
	Filter   string `schema:"filter" validate:"max=100"`
	Ordering string `schema:"ordering" validate:"omitempty,ordering"`
	Page     int    `schema:"page" validate:"gte=0"`
}

// Bind decodes and validates the query string. Only one ordering is accepted.
func (q *TableQuery) Bind(ctx echo.Context, validate *validator.Validate) error {
	params := ctx.QueryParams()
	if len(params[render.ParamOrdering]) > 1 {
		return core.NewValidationError(nil, core.FieldError{
			Field: render.ParamOrdering,
			Error: "only one ordering is allowed",
		})
	}

	if err := queryDecoder.Decode(q, params); err != nil {
		var mErr schema.MultiError
		if errors.As(err, &mErr) {
			flds := make([]core.FieldError, 0, len(mErr))
			for fld := range mErr {
				flds = append(flds, core.FieldError{Field: fld, Error: "invalid value"})
			}
			return core.NewValidationError(err, flds...)
		}
		return errors.Wrap(err, "decoding table query")
	}

	q.Search = core.CleanString(q.Search)
	q.Filter = core.CleanString(q.Filter)
	q.Ordering = core.CleanString(q.Ordering)
	return validate.Struct(q)
}

// State checks the ordering against t and returns the requested view state.
func (q TableQuery) State(t *table.Table) (table.State, error) {
	st := table.State{
		Search: q.Search,
		Filter: q.Filter,
		Order:  table.ParseOrdering(q.Ordering),
		Page:   q.Page,
	}
	if err := t.CheckSortKey(st.Order.Key); err != nil {
		return table.State{}, core.NewValidationError(err, core.FieldError{Field: render.ParamOrdering, Error: err.Error()})
	}
	return st, nil
}
