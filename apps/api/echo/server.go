package echoapi

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/mfanajozi/dipapa/core"
	"github.com/mfanajozi/dipapa/core/page"
	"github.com/mfanajozi/dipapa/core/table"
	metricsvc "github.com/mfanajozi/dipapa/services/metrics"
	"github.com/mfanajozi/dipapa/services/render"
)

type (
	// RecordService reads the records behind the pages (see record.Service).
	RecordService interface {
		Query(ctx context.Context, resource string) ([]table.Record, error)
		Get(ctx context.Context, resource, id string) (table.Record, error)
	}

	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		Pages      *page.Registry
		Records    RecordService
		HTML       *render.HTML
		Metrics    *metricsvc.Metrics
		Validate   *validator.Validate
		Translator ut.Translator
	}

	Server struct {
		deps     ServerDeps
		app      *echo.Echo
		source   page.Source
		errors   chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		source:   deps.Metrics.Source(deps.Records),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Debug = conf.Debug
	s.app.Server.ReadTimeout = conf.Server.ReadTimeout
	s.app.Server.WriteTimeout = conf.Server.WriteTimeout
	s.app.Renderer = htmlRenderer{s.deps.HTML}
	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.renderError, s.signalShutdown)

	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	if !conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(metricsMiddleware(s.deps.Metrics))

	s.app.GET("/", s.index)
	s.app.GET("/healthz", healthz)
	s.app.GET("/metrics", echo.WrapHandler(s.deps.Metrics.Handler()))
	s.app.GET("/api/pages", s.listPages)

	for _, p := range s.deps.Pages.All() {
		registerPage(s.app, s, p)
	}
}

// Start blocks until the server stops. Failures are sent to Errors().
func (s *Server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error { return s.errors }

func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

func (s *Server) Shutdown(ctx context.Context) error {
	signal.Stop(s.shutdown)
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default: // already shutting down
	}
}

func (s *Server) layout(title string, active *page.Page) render.Layout {
	return render.NewLayout(s.deps.Conf.AppName, title, s.deps.Pages.All(), active)
}

func (s *Server) renderError(ctx echo.Context, code int, message string) error {
	return ctx.Render(code, render.TmplError, render.ErrorData{
		Layout:  s.layout(http.StatusText(code), nil),
		Code:    code,
		Message: message,
	})
}

type htmlRenderer struct {
	html *render.HTML
}

func (r htmlRenderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.html.Execute(w, name, data)
}

func healthz(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
