package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskly/taskly-api/internal/api/middleware"
)

// ctxUserID extracts the caller identity injected by the Auth middleware.
// An empty value means the route was mounted without Auth.
func ctxUserID(c echo.Context) (string, error) {
	userID, _ := c.Get(middleware.ContextUserID).(string)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, nil
}

// bindAndValidate decodes the request body into req and runs struct
// validation, reporting both failures as 400.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
