package repository

import (
    "context"
    "database/sql"
    "errors"
    "fmt"
    "sync"
    "time"

    "github.com/jmoiron/sqlx"

    "github.com/iliyamo/room-reservation/internal/model"
    "github.com/iliyamo/room-reservation/internal/slots"
)

// ReservationRepo owns the reservations table and the conflict check that
// keeps the hours of a room on one day pairwise disjoint.  Every mutation
// runs under a single store-wide write lock for the whole
// read-check-insert sequence; queries take the read side of the same lock
// so they never observe a transaction in flight.  Booking volume is low,
// so one writer at a time is plenty.
type ReservationRepo struct {
    db *sqlx.DB
    mu sync.RWMutex
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sqlx.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = "id, place, `date`, hours, contact, created_at"

// lockingRead returns the suffix that turns a SELECT inside a transaction
// into a locking read.  SQLite already holds the write lock for the whole
// transaction (_txlock=immediate) and has no such syntax.
func (r *ReservationRepo) lockingRead() string {
    if r.db.DriverName() == "mysql" {
        return " FOR UPDATE"
    }
    return ""
}

// TryReserve inserts a reservation for hours in roomID on date unless any
// of those hours is already held there.  On overlap it returns ErrConflict
// and writes nothing.  Driver faults, including constraint violations, are
// returned wrapped in ErrStorage.  tokenHash is the digest of the cancel
// token handed to the caller and may be empty.
func (r *ReservationRepo) TryReserve(ctx context.Context, roomID uint64, date string, hours slots.Set, contact model.Contact, tokenHash string) (*model.Reservation, error) {
    blob, err := contact.Encode()
    if err != nil {
        return nil, fmt.Errorf("encode contact: %w", err)
    }

    r.mu.Lock()
    defer r.mu.Unlock()

    tx, err := r.db.BeginTxx(ctx, nil)
    if err != nil {
        return nil, storageErr("begin", err)
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    taken, err := occupiedTx(ctx, tx, roomID, date, r.lockingRead())
    if err != nil {
        return nil, err
    }
    if taken.Intersects(hours) {
        return nil, ErrConflict
    }

    var token sql.NullString
    if tokenHash != "" {
        token = sql.NullString{String: tokenHash, Valid: true}
    }
    const ins = "INSERT INTO reservations (place, `date`, hours, contact, token_hash) VALUES (?, ?, ?, ?, ?)"
    res, err := tx.ExecContext(ctx, ins, roomID, date, slots.Encode(hours), blob, token)
    if err != nil {
        return nil, storageErr("insert reservation", err)
    }
    id, err := res.LastInsertId()
    if err != nil {
        return nil, storageErr("insert reservation", err)
    }
    if err := tx.Commit(); err != nil {
        return nil, storageErr("commit", err)
    }
    committed = true

    return &model.Reservation{
        ID:        uint64(id),
        RoomID:    roomID,
        Date:      date,
        Hours:     hours.Ints(),
        Contact:   contact,
        CreatedAt: time.Now().UTC(),
    }, nil
}

// occupiedTx returns the union of hours held in roomID on date as seen by tx.
func occupiedTx(ctx context.Context, tx *sqlx.Tx, roomID uint64, date, suffix string) (slots.Set, error) {
    q := "SELECT hours FROM reservations WHERE place = ? AND `date` = ?" + suffix
    rows, err := tx.QueryContext(ctx, q, roomID, date)
    if err != nil {
        return nil, storageErr("select hours", err)
    }
    defer rows.Close()
    return collectHours(rows)
}

func collectHours(rows *sql.Rows) (slots.Set, error) {
    var held []slots.Set
    for rows.Next() {
        var stored string
        if err := rows.Scan(&stored); err != nil {
            return nil, storageErr("scan hours", err)
        }
        s, err := slots.Decode(stored)
        if err != nil {
            return nil, storageErr("decode hours", err)
        }
        held = append(held, s)
    }
    if err := rows.Err(); err != nil {
        return nil, storageErr("iterate hours", err)
    }
    return slots.Union(held...), nil
}

// OccupiedHours returns the union of hours held by committed reservations
// for roomID on date, ascending and without duplicates.
func (r *ReservationRepo) OccupiedHours(ctx context.Context, roomID uint64, date string) (slots.Set, error) {
    r.mu.RLock()
    defer r.mu.RUnlock()

    rows, err := r.db.QueryContext(ctx, "SELECT hours FROM reservations WHERE place = ? AND `date` = ?", roomID, date)
    if err != nil {
        return nil, storageErr("select hours", err)
    }
    defer rows.Close()
    return collectHours(rows)
}

// ListReservations returns reservations ordered by date, then id.  When end
// is non-nil the range [start, end] is inclusive; otherwise only
// reservations strictly after start are returned.  Dates are YYYY-MM-DD, so
// string comparison matches calendar order.
func (r *ReservationRepo) ListReservations(ctx context.Context, start string, end *string) ([]model.Reservation, error) {
    r.mu.RLock()
    defer r.mu.RUnlock()

    var (
        rows *sql.Rows
        err  error
    )
    if end != nil {
        q := "SELECT " + reservationColumns + " FROM reservations WHERE `date` BETWEEN ? AND ? ORDER BY `date`, id"
        rows, err = r.db.QueryContext(ctx, q, start, *end)
    } else {
        q := "SELECT " + reservationColumns + " FROM reservations WHERE `date` > ? ORDER BY `date`, id"
        rows, err = r.db.QueryContext(ctx, q, start)
    }
    if err != nil {
        return nil, storageErr("list reservations", err)
    }
    defer rows.Close()

    out := make([]model.Reservation, 0)
    for rows.Next() {
        res, err := scanReservation(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *res)
    }
    if err := rows.Err(); err != nil {
        return nil, storageErr("iterate reservations", err)
    }
    return out, nil
}

// Cancel deletes the reservation with the given id and returns it.  A
// missing or already cancelled reservation yields ErrNotFound.
func (r *ReservationRepo) Cancel(ctx context.Context, id uint64) (*model.Reservation, error) {
    return r.deleteWhere(ctx, "id = ?", id)
}

// CancelByTokenHash deletes the reservation whose cancel token digest is
// tokenHash.  Semantics match Cancel.
func (r *ReservationRepo) CancelByTokenHash(ctx context.Context, tokenHash string) (*model.Reservation, error) {
    if tokenHash == "" {
        return nil, ErrNotFound
    }
    return r.deleteWhere(ctx, "token_hash = ?", tokenHash)
}

func (r *ReservationRepo) deleteWhere(ctx context.Context, cond string, arg interface{}) (*model.Reservation, error) {
    r.mu.Lock()
    defer r.mu.Unlock()

    tx, err := r.db.BeginTxx(ctx, nil)
    if err != nil {
        return nil, storageErr("begin", err)
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    row := tx.QueryRowContext(ctx, "SELECT "+reservationColumns+" FROM reservations WHERE "+cond+r.lockingRead(), arg)
    res, err := scanReservation(row)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrNotFound
        }
        return nil, err
    }
    if _, err := tx.ExecContext(ctx, "DELETE FROM reservations WHERE id = ?", res.ID); err != nil {
        return nil, storageErr("delete reservation", err)
    }
    if err := tx.Commit(); err != nil {
        return nil, storageErr("commit", err)
    }
    committed = true
    return res, nil
}

type rowScanner interface {
    Scan(dest ...interface{}) error
}

// scanReservation reads one row selected with reservationColumns.
// sql.ErrNoRows is returned unwrapped so callers can map it to ErrNotFound.
func scanReservation(s rowScanner) (*model.Reservation, error) {
    var (
        res     model.Reservation
        hours   string
        contact string
        created dbTime
    )
    if err := s.Scan(&res.ID, &res.RoomID, &res.Date, &hours, &contact, &created); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, err
        }
        return nil, storageErr("scan reservation", err)
    }
    set, err := slots.Decode(hours)
    if err != nil {
        return nil, storageErr("decode hours", err)
    }
    res.Hours = set.Ints()
    // An unreadable contact blob should not hide the reservation from staff.
    if c, err := model.DecodeContact(contact); err == nil {
        res.Contact = c
    }
    res.CreatedAt = created.Time
    return &res, nil
}

// dbTime scans timestamps from either driver: MySQL returns time.Time
// (parseTime=true) while SQLite may hand back text.
type dbTime struct{ time.Time }

var timeLayouts = []string{
    "2006-01-02 15:04:05",
    "2006-01-02T15:04:05Z07:00",
    time.RFC3339Nano,
}

func (t *dbTime) Scan(src interface{}) error {
    switch v := src.(type) {
    case nil:
        t.Time = time.Time{}
        return nil
    case time.Time:
        t.Time = v.UTC()
        return nil
    case []byte:
        return t.parse(string(v))
    case string:
        return t.parse(v)
    case int64:
        t.Time = time.Unix(v, 0).UTC()
        return nil
    }
    return fmt.Errorf("unsupported timestamp type %T", src)
}

func (t *dbTime) parse(s string) error {
    for _, layout := range timeLayouts {
        if parsed, err := time.Parse(layout, s); err == nil {
            t.Time = parsed.UTC()
            return nil
        }
    }
    return fmt.Errorf("unparseable timestamp %q", s)
}
