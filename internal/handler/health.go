// Package handler contains the Echo HTTP handlers. Handlers bind and
// validate requests, call the repositories or the booking service and
// translate errors into JSON responses; no business rule lives here.
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health reports liveness.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
