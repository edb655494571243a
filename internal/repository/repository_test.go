package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/room-reservation/internal/database"
	"github.com/iliyamo/room-reservation/internal/model"
)

// newTestDB opens a migrated SQLite database in a per-test directory.
func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.Open(database.Options{
		Driver: database.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "rooms.db"),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// seedRooms creates one room type with two rooms and returns them.
func seedRooms(t *testing.T, db *sqlx.DB) (model.RoomType, []model.Room) {
	t.Helper()
	ctx := context.Background()
	repo := NewRoomRepo(db)
	rt := model.RoomType{Name: "meeting", Description: "meeting rooms"}
	if err := repo.CreateRoomType(ctx, &rt); err != nil {
		t.Fatalf("CreateRoomType: %v", err)
	}
	rooms := []model.Room{{Name: "Room A", TypeID: rt.ID}, {Name: "Room B", TypeID: rt.ID}}
	for i := range rooms {
		if err := repo.CreateRoom(ctx, &rooms[i]); err != nil {
			t.Fatalf("CreateRoom: %v", err)
		}
	}
	return rt, rooms
}
