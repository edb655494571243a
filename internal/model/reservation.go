package model

import (
    "encoding/json"
    "errors"
    "strings"
    "time"
)

// Reservation records a booking of one contiguous block of hours in a
// room on a given day.  Reservations are never edited in place; a
// cancellation deletes the row.
//
// Fields:
//  ID        – primary key identifier.
//  RoomID    – room being reserved (reservations.place).
//  Date      – calendar day in YYYY-MM-DD form.
//  Hours     – ascending hour labels occupied by the reservation.
//  Contact   – who to call about the booking.
//  CreatedAt – creation timestamp.
type Reservation struct {
    ID        uint64    `json:"id"`         // reservations.id
    RoomID    uint64    `json:"room_id"`    // reservations.place
    Date      string    `json:"date"`       // reservations.date
    Hours     []int     `json:"hours"`      // reservations.hours (comma joined)
    Contact   Contact   `json:"contact"`    // reservations.contact (JSON)
    CreatedAt time.Time `json:"created_at"` // reservations.created_at
}

// DefaultContactTitle is used when a booking does not name its holder.
const DefaultContactTitle = "Anonymous"

// Contact is the structured payload stored alongside a reservation.  It is
// persisted as a JSON object with the keys "title" and "cellphone".
type Contact struct {
    Title     string `json:"title"`
    Cellphone string `json:"cellphone"`
}

// ErrMalformedContact is returned by DecodeContact when the stored blob is
// not a JSON object.
var ErrMalformedContact = errors.New("malformed contact")

// Normalize trims both fields and fills in the default title.
func (c Contact) Normalize() Contact {
    c.Title = strings.TrimSpace(c.Title)
    c.Cellphone = strings.TrimSpace(c.Cellphone)
    if c.Title == "" {
        c.Title = DefaultContactTitle
    }
    return c
}

// Encode serializes the contact into its storage form.
func (c Contact) Encode() (string, error) {
    b, err := json.Marshal(c)
    if err != nil {
        return "", err
    }
    return string(b), nil
}

// DecodeContact parses the storage form produced by Contact.Encode.
func DecodeContact(stored string) (Contact, error) {
    var c Contact
    if err := json.Unmarshal([]byte(stored), &c); err != nil {
        return Contact{}, errors.Join(ErrMalformedContact, err)
    }
    return c, nil
}
