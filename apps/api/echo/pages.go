package echoapi

import (
	"fmt"
	"net/http"

	"github.com/Velocidex/ordereddict"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mfanajozi/dipapa/core/page"
	"github.com/mfanajozi/dipapa/core/table"
	"github.com/mfanajozi/dipapa/services/render"
)

const sourceErrorMessage = "records could not be loaded"

type pageApi struct {
	*Server
	page *page.Page
}

func registerPage(e *echo.Echo, s *Server, p *page.Page) {
	api := pageApi{Server: s, page: p}

	// HTML views
	e.GET(p.Path, api.shell)
	e.GET(p.Path+"/table", api.fragment)
	e.GET(p.Path+"/:id", api.detail)

	// JSON API
	e.GET("/api"+p.Path, api.query)
	e.GET("/api"+p.Path+"/:id", api.retrieve)
}

type (
	columnInfo struct {
		Key      string `json:"key,omitempty"`
		Header   string `json:"header"`
		Kind     string `json:"kind"`
		Sortable bool   `json:"sortable"`
	}

	pageInfo struct {
		Name              string               `json:"name"`
		Path              string               `json:"path"`
		Title             string               `json:"title"`
		Description       string               `json:"description,omitempty"`
		Resource          string               `json:"resource"`
		Columns           []columnInfo         `json:"columns"`
		SearchKey         string               `json:"search_key,omitempty"`
		SearchPlaceholder string               `json:"search_placeholder,omitempty"`
		FilterKey         string               `json:"filter_key,omitempty"`
		FilterOptions     []table.FilterOption `json:"filter_options,omitempty"`
		PageSize          int                  `json:"page_size"`
	}

	viewResponse struct {
		Page      string              `json:"page"`
		Status    string              `json:"status"`
		Error     string              `json:"error,omitempty"`
		Total     int                 `json:"total"`
		Matched   int                 `json:"matched"`
		PageIndex int                 `json:"page_index"`
		PageCount int                 `json:"page_count"`
		Columns   []columnInfo        `json:"columns"`
		Rows      []*ordereddict.Dict `json:"rows"`
	}
)

func newPageInfo(p *page.Page) pageInfo {
	opts := p.Table().Options()
	info := pageInfo{
		Name:              p.Name,
		Path:              p.Path,
		Title:             p.Title,
		Description:       p.Description,
		Resource:          p.Resource,
		SearchKey:         opts.SearchKey,
		SearchPlaceholder: opts.SearchPlaceholder,
		FilterKey:         opts.FilterKey,
		FilterOptions:     opts.FilterOptions,
		PageSize:          opts.PageSize,
	}
	for _, col := range p.Table().Columns() {
		info.Columns = append(info.Columns, columnInfo{
			Key:      col.Key,
			Header:   col.Header,
			Kind:     col.Kind.String(),
			Sortable: col.Sortable(),
		})
	}
	return info
}

// Handlers

func (s *Server) index(ctx echo.Context) error {
	return ctx.Render(http.StatusOK, render.TmplIndex, render.IndexData{
		Layout: s.layout("", nil),
		Pages:  s.deps.Pages.All(),
	})
}

func (s *Server) listPages(ctx echo.Context) error {
	pages := s.deps.Pages.All()
	infos := make([]pageInfo, len(pages))
	for i, p := range pages {
		infos[i] = newPageInfo(p)
	}
	return ctx.JSON(http.StatusOK, infos)
}

func (api pageApi) bindState(ctx echo.Context) (table.State, error) {
	q := new(TableQuery)
	if err := q.Bind(ctx, api.deps.Validate); err != nil {
		return table.State{}, err
	}
	return q.State(api.page.Table())
}

// load mounts a table instance for the request and fills it from the record source.
// ok is false when the request was cancelled before the records arrived.
func (api pageApi) load(ctx echo.Context) (v table.View, ok bool, err error) {
	st, err := api.bindState(ctx)
	if err != nil {
		return table.View{}, false, err
	}

	opts := []table.MountOption{table.WithState(st)}
	if api.deps.Conf.Debug {
		opts = append(opts, table.WithObserver(api.logPhase))
	}
	inst := api.page.Table().Mount(opts...)
	defer inst.Unmount()

	reqCtx := ctx.Request().Context()
	applied, _ := api.page.Load(reqCtx, inst, api.source) // source errors are carried by the view
	if !applied {
		if reqCtx.Err() != nil {
			return table.View{}, false, nil
		}
		return table.View{}, false, errors.Errorf("records of %s were not applied", api.page.Name)
	}

	v = inst.View()
	api.deps.Metrics.ObserveView(api.page.Name, v.Status)
	return v, true, nil
}

func (api pageApi) logPhase(instanceID string, from, to table.Phase) {
	api.deps.Logger.Debug(fmt.Sprintf("%s table %s: %s -> %s", api.page.Name, instanceID, from, to))
}

func (api pageApi) shell(ctx echo.Context) error {
	st, err := api.bindState(ctx)
	if err != nil {
		return err
	}
	fragment := api.page.Path + "/table"
	if q := render.StateQuery(st); len(q) > 0 {
		fragment += "?" + q.Encode()
	}
	return ctx.Render(http.StatusOK, render.TmplPage, render.PageData{
		Layout:      api.layout(api.page.Title, api.page),
		TableData:   render.TableData{Page: api.page, View: api.page.Table().Skeleton(st)},
		FragmentURL: fragment,
	})
}

func (api pageApi) fragment(ctx echo.Context) error {
	v, ok, err := api.load(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return ctx.NoContent(statusClientClosedRequest)
	}
	return ctx.Render(http.StatusOK, render.TmplTable, render.TableData{Page: api.page, View: v})
}

func (api pageApi) detail(ctx echo.Context) error {
	rec, err := api.deps.Records.Get(ctx.Request().Context(), api.page.Resource, ctx.Param("id"))
	if err != nil {
		return errors.Wrapf(err, "getting %s record", api.page.Name)
	}
	d := api.page.Detail(rec)
	return ctx.Render(http.StatusOK, render.TmplDetail, render.DetailData{
		Layout: api.layout(d.Heading, api.page),
		Page:   api.page,
		Detail: d,
	})
}

func (api pageApi) query(ctx echo.Context) error {
	v, ok, err := api.load(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return ctx.NoContent(statusClientClosedRequest)
	}

	resp := viewResponse{
		Page:      api.page.Name,
		Status:    v.Status.String(),
		Total:     v.Total,
		Matched:   v.Matched,
		PageIndex: v.State.Page,
		PageCount: v.PageCount,
		Columns:   newPageInfo(api.page).Columns,
		Rows:      make([]*ordereddict.Dict, 0, len(v.Rows)),
	}
	if v.SourceErr != nil {
		resp.Error = sourceErrorMessage
	}
	for _, row := range v.Rows {
		resp.Rows = append(resp.Rows, rowDict(v.Headers, row))
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (api pageApi) retrieve(ctx echo.Context) error {
	rec, err := api.deps.Records.Get(ctx.Request().Context(), api.page.Resource, ctx.Param("id"))
	if err != nil {
		return errors.Wrapf(err, "getting %s record", api.page.Name)
	}
	return ctx.JSON(http.StatusOK, rec)
}

// rowDict lays out the rendered cells of row in column order: "id", one entry per keyed column,
// then the detail link of the action column.
func rowDict(headers []table.Header, row table.Row) *ordereddict.Dict {
	d := ordereddict.NewDict().Set("id", row.ID)
	for i, h := range headers {
		cell := row.Cells[i]
		switch {
		case h.Kind == table.KindAction:
			if cell.Href != "" {
				d.Set("detail_url", cell.Href)
			}
		case h.Key != "":
			d.Set(h.Key, cell.Text)
		}
	}
	return d
}
