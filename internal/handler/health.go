package handler // HTTP handlers for the control API

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is a liveness probe.  It answers as long as the HTTP server runs,
// even after the simulation itself has finished.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
