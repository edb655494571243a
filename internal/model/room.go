package model

// RoomType groups rooms of the same kind, e.g. "meeting room" or
// "practice room".  Rows live in the `places_types` table and are read-only
// reference data for the booking core.
type RoomType struct {
    ID          uint64 `db:"id" json:"id"`          // places_types.id
    Name        string `db:"name" json:"name"`      // places_types.name
    Description string `db:"desc" json:"desc"`      // places_types.desc
}

// Room is a bookable place.  Rows live in the `places` table.
//
// Fields:
//  ID     – primary key identifier.
//  Name   – display name.
//  TypeID – room type (places.type).
type Room struct {
    ID     uint64 `db:"id" json:"id"`     // places.id
    Name   string `db:"name" json:"name"` // places.name
    TypeID uint64 `db:"type" json:"type"` // places.type
}
