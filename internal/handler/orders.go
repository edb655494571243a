package handler

import (
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/room-reservation/internal/middleware"
)

type orderItem struct {
    ID        uint64 `json:"id"`
    Room      uint64 `json:"room"`
    RoomName  string `json:"room_name"`
    Date      string `json:"date"`
    Hours     []int  `json:"hours"`
    Title     string `json:"title"`
    Cellphone string `json:"cellphone"`
}

// ListOrders handles GET /v1/orders for staff.  Without parameters it lists
// today and tomorrow inclusive.  With only startdate it lists reservations
// strictly after that day; with only enddate it starts from today.
func (h *BookingHandler) ListOrders(c echo.Context) error {
    start, end := c.QueryParam("startdate"), c.QueryParam("enddate")
    switch {
    case start == "" && end == "":
        start, end = h.Svc.TodayRange()
    case start == "":
        start = h.Svc.Today()
    }
    list, err := h.Svc.ListReservations(c.Request().Context(), start, end)
    if err != nil {
        return writeError(c, err)
    }
    items := make([]orderItem, 0, len(list))
    for _, r := range list {
        items = append(items, orderItem{
            ID:        r.ID,
            Room:      r.RoomID,
            RoomName:  r.RoomName,
            Date:      r.Date,
            Hours:     r.Hours,
            Title:     r.Contact.Title,
            Cellphone: r.Contact.Cellphone,
        })
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// CancelOrder handles DELETE /v1/orders/:id for staff.
func (h *BookingHandler) CancelOrder(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    if err := h.Svc.Cancel(c.Request().Context(), id, middleware.Username(c)); err != nil {
        return writeError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}
