package handler

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/room-reservation/internal/service"
)

// writeError translates core errors into JSON responses.  Validation
// failures keep their message; storage faults are logged and replaced by a
// generic one.
func writeError(c echo.Context, err error) error {
    switch {
    case errors.Is(err, service.ErrInvalidDate),
        errors.Is(err, service.ErrPastDate),
        errors.Is(err, service.ErrUnknownRoom),
        errors.Is(err, service.ErrInvalidSlots),
        errors.Is(err, service.ErrInvalidContact):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    case errors.Is(err, service.ErrConflict):
        return c.JSON(http.StatusConflict, echo.Map{"error": "some of the requested hours are already booked"})
    case errors.Is(err, service.ErrNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
    default:
        c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
    }
}
