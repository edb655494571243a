package handler

import (
    "net/http"
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/room-reservation/internal/model"
    "github.com/iliyamo/room-reservation/internal/service"
)

// BookingHandler exposes the booking core over HTTP.  Public routes book,
// query and cancel by token; staff routes list and cancel by id.
type BookingHandler struct {
    Svc *service.BookingService
}

func NewBookingHandler(svc *service.BookingService) *BookingHandler {
    if svc == nil {
        panic("nil service passed to NewBookingHandler")
    }
    return &BookingHandler{Svc: svc}
}

type bookReq struct {
    Room      uint64 `json:"room" form:"room"`
    Date      string `json:"date" form:"date"`
    Hours     string `json:"hours" form:"hours"` // e.g. "9,10,11"
    Title     string `json:"title" form:"title"`
    Cellphone string `json:"cellphone" form:"cellphone"`
}

type bookResp struct {
    ID          uint64 `json:"id"`
    Room        uint64 `json:"room"`
    Date        string `json:"date"`
    Hours       []int  `json:"hours"`
    CancelToken string `json:"cancel_token"`
}

// Book handles POST /v1/book.  It returns 201 with the reservation id and
// a cancel token that is never shown again.
func (h *BookingHandler) Book(c echo.Context) error {
    var req bookReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    b, err := h.Svc.Book(c.Request().Context(), service.BookingRequest{
        RoomID:  req.Room,
        Date:    strings.TrimSpace(req.Date),
        Hours:   req.Hours,
        Contact: model.Contact{Title: req.Title, Cellphone: req.Cellphone},
    })
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusCreated, bookResp{
        ID:          b.Reservation.ID,
        Room:        b.Reservation.RoomID,
        Date:        b.Reservation.Date,
        Hours:       b.Reservation.Hours,
        CancelToken: b.CancelToken,
    })
}

// CancelByToken handles DELETE /v1/book/:token.
func (h *BookingHandler) CancelByToken(c echo.Context) error {
    if err := h.Svc.CancelByToken(c.Request().Context(), c.Param("token")); err != nil {
        return writeError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

type roomOccupancy struct {
    Room     uint64 `json:"room"`
    Occupied []int  `json:"occupied"`
}

// Query handles GET /v1/query.  With ?room= it reports one room, with
// ?roomtype= every room of that type; date is required in both cases.
func (h *BookingHandler) Query(c echo.Context) error {
    ctx := c.Request().Context()
    date := c.QueryParam("date")

    if raw := c.QueryParam("room"); raw != "" {
        roomID, err := strconv.ParseUint(raw, 10, 64)
        if err != nil || roomID == 0 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room"})
        }
        hours, err := h.Svc.OccupiedHours(ctx, date, roomID)
        if err != nil {
            return writeError(c, err)
        }
        return c.JSON(http.StatusOK, roomOccupancy{Room: roomID, Occupied: hours})
    }

    raw := c.QueryParam("roomtype")
    if raw == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "room or roomtype is required"})
    }
    typeID, err := strconv.ParseUint(raw, 10, 64)
    if err != nil || typeID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid roomtype"})
    }
    byRoom, err := h.Svc.OccupiedHoursByType(ctx, date, typeID)
    if err != nil {
        return writeError(c, err)
    }
    items := make([]roomOccupancy, 0, len(byRoom))
    for _, id := range service.SortedRoomIDs(byRoom) {
        items = append(items, roomOccupancy{Room: id, Occupied: byRoom[id]})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}
