// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationQueueName is the durable queue carrying reservation events.
const ReservationQueueName = "reservation.events"

// Event types carried in ReservationEvent.Type.
const (
    EventCommitted = "reservation.committed"
    EventCancelled = "reservation.cancelled"
)

// ReservationEvent is published after a reservation is committed or
// cancelled.  It contains enough information for the audit consumer to
// write a self-contained line without querying the primary database.  The
// contact phone number is deliberately left out.
type ReservationEvent struct {
    EventID       string `json:"event_id"`
    Type          string `json:"type"`
    ReservationID uint64 `json:"reservation_id"`
    RoomID        uint64 `json:"room_id"`
    RoomName      string `json:"room_name"`
    Date          string `json:"date"`
    Hours         []int  `json:"hours"`
    ContactTitle  string `json:"contact_title"`
    Actor         string `json:"actor,omitempty"`
    OccurredAt    string `json:"occurred_at"`
}
