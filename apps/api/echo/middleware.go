package echoapi

import (
	"github.com/labstack/echo/v4"

	metricsvc "github.com/mfanajozi/dipapa/services/metrics"
)

// metricsMiddleware counts requests by route template and final status code.
func metricsMiddleware(m *metricsvc.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			err := next(ctx)
			if err != nil {
				// let the error handler write the response so that its status is known
				ctx.Error(err)
			}
			route := ctx.Path()
			if route == "" {
				route = "unmatched"
			}
			m.ObserveRequest(ctx.Request().Method, route, ctx.Response().Status)
			return nil
		}
	}
}
