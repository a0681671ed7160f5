package echoapi

import (
	"net/http"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mfanajozi/dipapa/core"
	"github.com/mfanajozi/dipapa/core/record"
	"github.com/mfanajozi/dipapa/core/table"
)

// statusClientClosedRequest is answered when the client went away before its records were loaded.
const statusClientClosedRequest = 499

var errHttpNotFound = echo.NewHTTPError(http.StatusNotFound, "not found")

type htmlErrorFunc func(ctx echo.Context, code int, message string) error

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// Browsers get an HTML error page; /api routes and other clients get JSON.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(
	logger core.Logger,
	translator ut.Translator,
	renderHTML htmlErrorFunc,
	signalShutdown func(),
) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(translator)
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *core.ValidationError:
			if origErr.Fields != nil {
				message = origErr.FieldMap()
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		default:
			switch origErr {
			case record.ErrNotFound, record.ErrInvalidResource:
				code = http.StatusNotFound
				message = errHttpNotFound.Message
			case table.ErrUnknownColumn:
				code = http.StatusBadRequest
				message = map[string]string{"ordering": err.Error()}
			default: // any other error is a server error
				code = http.StatusInternalServerError
				msg := http.StatusText(http.StatusInternalServerError)
				message = msg
				logger.Error(msg, errors.Wrap(err, msg), ctx.Request())

				// shutting down...
				if core.IsShutdown(err) {
					signalShutdown()
				}
			}
		}

		if ctx.Response().Committed {
			return
		}
		if ctx.Request().Method == http.MethodHead { // Issue #608
			logResponseErr(ctx, ctx.NoContent(code))
			return
		}
		if wantsHTML(ctx) {
			text, ok := message.(string)
			if !ok || ctx.Echo().Debug {
				text = err.Error()
			}
			if rErr := renderHTML(ctx, code, text); rErr == nil {
				return
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}
		logResponseErr(ctx, ctx.JSON(code, message))
	}
}

func logResponseErr(ctx echo.Context, err error) {
	if err != nil {
		ctx.Echo().Logger.Error(err)
	}
}

// wantsHTML reports whether the error page should be HTML: browser requests outside /api.
func wantsHTML(ctx echo.Context) bool {
	req := ctx.Request()
	if strings.HasPrefix(req.URL.Path, "/api/") || req.URL.Path == "/api" {
		return false
	}
	return strings.Contains(req.Header.Get(echo.HeaderAccept), echo.MIMETextHTML)
}
