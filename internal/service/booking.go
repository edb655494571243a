// Package service holds the booking core: it validates a reservation
// request in a fixed order, hands the atomic conflict check to the
// reservation store and exposes the read-only queries used by the HTTP
// shell.  The service knows nothing about sessions or roles; callers pass
// the request context and an already authenticated actor where relevant.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/queue"
	"github.com/iliyamo/room-reservation/internal/repository"
	"github.com/iliyamo/room-reservation/internal/slots"
	"github.com/iliyamo/room-reservation/internal/utils"
)

// DateLayout is the only accepted calendar date format.
const DateLayout = "2006-01-02"

// RoomDeletedName is shown for reservations whose room no longer exists.
const RoomDeletedName = "room deleted"

var (
	ErrInvalidDate    = errors.New("invalid date")
	ErrPastDate       = errors.New("reservations start tomorrow at the earliest")
	ErrUnknownRoom    = errors.New("unknown room")
	ErrInvalidContact = errors.New("cellphone is required")

	// Re-exported so callers only depend on this package.
	ErrInvalidSlots = slots.ErrInvalidSlots
	ErrConflict     = repository.ErrConflict
	ErrNotFound     = repository.ErrNotFound
	ErrStorage      = repository.ErrStorage
)

// RoomCatalog is the read side of the room catalog used by the core.
type RoomCatalog interface {
	GetRoom(ctx context.Context, id uint64) (*model.Room, error)
	ListRooms(ctx context.Context, typeID uint64) ([]model.Room, error)
}

// ReservationStore performs the atomic conflict-check-and-insert and the
// queries over committed reservations.
type ReservationStore interface {
	TryReserve(ctx context.Context, roomID uint64, date string, hours slots.Set, contact model.Contact, tokenHash string) (*model.Reservation, error)
	OccupiedHours(ctx context.Context, roomID uint64, date string) (slots.Set, error)
	ListReservations(ctx context.Context, start string, end *string) ([]model.Reservation, error)
	Cancel(ctx context.Context, id uint64) (*model.Reservation, error)
	CancelByTokenHash(ctx context.Context, tokenHash string) (*model.Reservation, error)
}

// EventPublisher delivers reservation events.  A nil publisher disables events.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.ReservationEvent) error
}

// BookingRequest is one "propose and commit" call.  Hours is the raw comma
// separated list as typed by the user.
type BookingRequest struct {
	RoomID  uint64
	Date    string
	Hours   string
	Contact model.Contact
}

// Booking is the result of a successful Book.  CancelToken is shown to the
// booker once; only its digest is stored.
type Booking struct {
	Reservation model.Reservation
	CancelToken string
}

// ReservationView is a reservation enriched with its room name for listings.
type ReservationView struct {
	model.Reservation
	RoomName string `json:"room_name"`
}

// BookingService orchestrates the slot codec, room catalog and reservation store.
type BookingService struct {
	rooms  RoomCatalog
	store  ReservationStore
	events EventPublisher
	loc    *time.Location
	now    func() time.Time
}

// Option customizes a BookingService.
type Option func(*BookingService)

// WithClock replaces time.Now, which decides what "today" is.
func WithClock(now func() time.Time) Option {
	return func(s *BookingService) { s.now = now }
}

// WithLocation sets the time zone in which calendar days are evaluated.
func WithLocation(loc *time.Location) Option {
	return func(s *BookingService) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// NewBookingService wires the core.  events may be nil.
func NewBookingService(rooms RoomCatalog, store ReservationStore, events EventPublisher, opts ...Option) *BookingService {
	if rooms == nil || store == nil {
		panic("nil dependency passed to NewBookingService")
	}
	s := &BookingService{rooms: rooms, store: store, events: events, loc: time.Local, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Book validates req and commits it.  The first failed rule wins, in this
// order: date format, date in the future, room exists, hours valid and
// contiguous, cellphone present.  The store is only touched after all of
// them pass, so every failure is free of side effects.  ErrConflict and
// ErrStorage from the store are returned unchanged.
func (s *BookingService) Book(ctx context.Context, req BookingRequest) (*Booking, error) {
	day, err := s.parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	if !day.After(s.today()) {
		return nil, ErrPastDate
	}
	room, err := s.rooms.GetRoom(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, ErrUnknownRoom
		}
		return nil, err
	}
	hours, err := slots.Parse(req.Hours)
	if err != nil {
		return nil, err
	}
	contact := req.Contact.Normalize()
	if contact.Cellphone == "" {
		return nil, ErrInvalidContact
	}

	tok, err := utils.NewCancelToken()
	if err != nil {
		return nil, fmt.Errorf("cancel token: %w", err)
	}
	res, err := s.store.TryReserve(ctx, room.ID, day.Format(DateLayout), hours, contact, tok.Hash)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, queue.EventCommitted, res, room.Name, "")
	return &Booking{Reservation: *res, CancelToken: tok.Raw}, nil
}

// OccupiedHours returns the hours already held in roomID on date.
func (s *BookingService) OccupiedHours(ctx context.Context, date string, roomID uint64) ([]int, error) {
	day, err := s.parseDate(date)
	if err != nil {
		return nil, err
	}
	set, err := s.store.OccupiedHours(ctx, roomID, day.Format(DateLayout))
	if err != nil {
		return nil, err
	}
	return set.Ints(), nil
}

// OccupiedHoursByType returns the occupied hours of every room of typeID on
// date, keyed by room id.  A typeID of zero covers all rooms.
func (s *BookingService) OccupiedHoursByType(ctx context.Context, date string, typeID uint64) (map[uint64][]int, error) {
	day, err := s.parseDate(date)
	if err != nil {
		return nil, err
	}
	rooms, err := s.rooms.ListRooms(ctx, typeID)
	if err != nil {
		return nil, err
	}
	out := make(map[uint64][]int, len(rooms))
	for _, room := range rooms {
		set, err := s.store.OccupiedHours(ctx, room.ID, day.Format(DateLayout))
		if err != nil {
			return nil, err
		}
		out[room.ID] = set.Ints()
	}
	return out, nil
}

// ListReservations returns reservations between start and end inclusive,
// or strictly after start when end is empty, each tagged with its room name.
func (s *BookingService) ListReservations(ctx context.Context, start, end string) ([]ReservationView, error) {
	startDay, err := s.parseDate(start)
	if err != nil {
		return nil, err
	}
	var endPtr *string
	if end != "" {
		endDay, err := s.parseDate(end)
		if err != nil {
			return nil, err
		}
		e := endDay.Format(DateLayout)
		endPtr = &e
	}
	list, err := s.store.ListReservations(ctx, startDay.Format(DateLayout), endPtr)
	if err != nil {
		return nil, err
	}
	rooms, err := s.rooms.ListRooms(ctx, 0)
	if err != nil {
		return nil, err
	}
	names := make(map[uint64]string, len(rooms))
	for _, r := range rooms {
		names[r.ID] = r.Name
	}
	out := make([]ReservationView, 0, len(list))
	for _, res := range list {
		name, ok := names[res.RoomID]
		if !ok {
			name = RoomDeletedName
		}
		out = append(out, ReservationView{Reservation: res, RoomName: name})
	}
	return out, nil
}

// Cancel deletes reservation id on behalf of actor.  Cancelling a
// nonexistent or already cancelled reservation returns ErrNotFound.
func (s *BookingService) Cancel(ctx context.Context, id uint64, actor string) error {
	res, err := s.store.Cancel(ctx, id)
	if err != nil {
		return err
	}
	s.publish(ctx, queue.EventCancelled, res, s.roomName(ctx, res.RoomID), actor)
	return nil
}

// CancelByToken deletes the reservation issued with the raw cancel token.
func (s *BookingService) CancelByToken(ctx context.Context, token string) error {
	if token == "" {
		return ErrNotFound
	}
	res, err := s.store.CancelByTokenHash(ctx, utils.HashToken(token))
	if err != nil {
		return err
	}
	s.publish(ctx, queue.EventCancelled, res, s.roomName(ctx, res.RoomID), "token")
	return nil
}

// Today returns the current calendar day in the service location.
func (s *BookingService) Today() string {
	return s.today().Format(DateLayout)
}

// TodayRange returns today and tomorrow, the inclusive range staff see by
// default.
func (s *BookingService) TodayRange() (string, string) {
	today := s.today()
	return today.Format(DateLayout), today.AddDate(0, 0, 1).Format(DateLayout)
}

// SortedRoomIDs returns the keys of an OccupiedHoursByType result in order.
func SortedRoomIDs(m map[uint64][]int) []uint64 {
	ids := make([]uint64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *BookingService) parseDate(raw string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, raw, s.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return d, nil
}

// today is midnight of the current day in the service location.
func (s *BookingService) today() time.Time {
	now := s.now().In(s.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
}

func (s *BookingService) roomName(ctx context.Context, id uint64) string {
	room, err := s.rooms.GetRoom(ctx, id)
	if err != nil {
		return RoomDeletedName
	}
	return room.Name
}

// publish never fails the caller: the reservation is already committed.
func (s *BookingService) publish(ctx context.Context, typ string, res *model.Reservation, roomName, actor string) {
	if s.events == nil {
		return
	}
	ev := queue.ReservationEvent{
		EventID:       uuid.NewString(),
		Type:          typ,
		ReservationID: res.ID,
		RoomID:        res.RoomID,
		RoomName:      roomName,
		Date:          res.Date,
		Hours:         res.Hours,
		ContactTitle:  res.Contact.Title,
		Actor:         actor,
		OccurredAt:    s.now().UTC().Format(time.RFC3339),
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := s.events.Publish(pubCtx, ev); err != nil {
		log.Printf("booking: publish %s for reservation %d failed: %v", typ, res.ID, err)
	}
}
