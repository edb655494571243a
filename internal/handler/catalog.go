package handler

import (
    "context"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/room-reservation/internal/model"
)

// RoomLister is the read side of the room catalog.
type RoomLister interface {
    ListRoomTypes(ctx context.Context) ([]model.RoomType, error)
    ListRooms(ctx context.Context, typeID uint64) ([]model.Room, error)
}

// CatalogHandler serves the public room catalog.  Responses are cacheable.
type CatalogHandler struct {
    Rooms RoomLister
}

func NewCatalogHandler(rooms RoomLister) *CatalogHandler {
    return &CatalogHandler{Rooms: rooms}
}

// ListRoomTypes handles GET /v1/room-types.
func (h *CatalogHandler) ListRoomTypes(c echo.Context) error {
    types, err := h.Rooms.ListRoomTypes(c.Request().Context())
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": types})
}

// ListRooms handles GET /v1/rooms, optionally filtered by ?type=.
func (h *CatalogHandler) ListRooms(c echo.Context) error {
    var typeID uint64
    if raw := c.QueryParam("type"); raw != "" {
        n, err := strconv.ParseUint(raw, 10, 64)
        if err != nil || n == 0 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid type"})
        }
        typeID = n
    }
    rooms, err := h.Rooms.ListRooms(c.Request().Context(), typeID)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": rooms})
}
