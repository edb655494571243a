// Package repository contains data access logic separated from HTTP handlers.
// This file defines the room catalog: room types and the rooms that can be
// booked.  The catalog is read-mostly; rows are created by the admin CLI.
package repository

import (
	"context"      // context allows passing deadlines and cancellation signals to DB operations
	"database/sql" // sql provides sentinel errors such as ErrNoRows
	"errors"       // errors is used to define custom error values

	"github.com/jmoiron/sqlx" // sqlx scans rows straight into tagged structs

	"github.com/iliyamo/room-reservation/internal/model"
)

// ErrRoomNotFound is returned when a room cannot be found in the DB.
var ErrRoomNotFound = errors.New("room not found")

// RoomRepo encapsulates all database queries related to rooms and room types.
type RoomRepo struct {
	db *sqlx.DB
}

// NewRoomRepo constructs a RoomRepo with the provided DB handle.
func NewRoomRepo(db *sqlx.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

// ListRoomTypes returns every room type ordered by id.
func (r *RoomRepo) ListRoomTypes(ctx context.Context) ([]model.RoomType, error) {
	types := make([]model.RoomType, 0)
	if err := r.db.SelectContext(ctx, &types, "SELECT id, name, `desc` FROM places_types ORDER BY id"); err != nil {
		return nil, storageErr("list room types", err)
	}
	return types, nil
}

// ListRooms returns the rooms of the given type ordered by id.  A typeID
// of zero returns all rooms.
func (r *RoomRepo) ListRooms(ctx context.Context, typeID uint64) ([]model.Room, error) {
	rooms := make([]model.Room, 0)
	var err error
	if typeID == 0 {
		err = r.db.SelectContext(ctx, &rooms, "SELECT id, name, `type` FROM places ORDER BY id")
	} else {
		err = r.db.SelectContext(ctx, &rooms, "SELECT id, name, `type` FROM places WHERE `type` = ? ORDER BY id", typeID)
	}
	if err != nil {
		return nil, storageErr("list rooms", err)
	}
	return rooms, nil
}

// GetRoom fetches a room by id.  It returns ErrRoomNotFound if no row matches.
func (r *RoomRepo) GetRoom(ctx context.Context, id uint64) (*model.Room, error) {
	var room model.Room
	if err := r.db.GetContext(ctx, &room, "SELECT id, name, `type` FROM places WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, storageErr("get room", err)
	}
	return &room, nil
}

// CreateRoomType inserts a room type and populates its generated id.
func (r *RoomRepo) CreateRoomType(ctx context.Context, t *model.RoomType) error {
	res, err := r.db.ExecContext(ctx, "INSERT INTO places_types (name, `desc`) VALUES (?, ?)", t.Name, t.Description)
	if err != nil {
		return storageErr("insert room type", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return storageErr("insert room type", err)
	}
	t.ID = uint64(id)
	return nil
}

// CreateRoom inserts a room and populates its generated id.
func (r *RoomRepo) CreateRoom(ctx context.Context, room *model.Room) error {
	res, err := r.db.ExecContext(ctx, "INSERT INTO places (name, `type`) VALUES (?, ?)", room.Name, room.TypeID)
	if err != nil {
		return storageErr("insert room", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return storageErr("insert room", err)
	}
	room.ID = uint64(id)
	return nil
}
