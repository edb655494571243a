package repository

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/slots"
)

var alice = model.Contact{Title: "Alice", Cellphone: "555-1"}

func TestTryReserveConflicts(t *testing.T) {
	db := newTestDB(t)
	_, rooms := seedRooms(t, db)
	repo := NewReservationRepo(db)
	ctx := context.Background()
	room := rooms[0].ID

	if _, err := repo.TryReserve(ctx, room, "2025-06-10", slots.Set{1, 2, 3}, alice, ""); err != nil {
		t.Fatalf("first reservation: %v", err)
	}
	if _, err := repo.TryReserve(ctx, room, "2025-06-10", slots.Set{3, 4}, alice, ""); !errors.Is(err, ErrConflict) {
		t.Fatalf("overlapping reservation error = %v, want ErrConflict", err)
	}
	if _, err := repo.TryReserve(ctx, room, "2025-06-10", slots.Set{4, 5}, alice, ""); err != nil {
		t.Fatalf("adjacent reservation: %v", err)
	}
	// same hours, other room and other date do not collide
	if _, err := repo.TryReserve(ctx, rooms[1].ID, "2025-06-10", slots.Set{1, 2, 3}, alice, ""); err != nil {
		t.Fatalf("other room: %v", err)
	}
	if _, err := repo.TryReserve(ctx, room, "2025-06-11", slots.Set{1, 2, 3}, alice, ""); err != nil {
		t.Fatalf("other date: %v", err)
	}

	got, err := repo.OccupiedHours(ctx, room, "2025-06-10")
	if err != nil {
		t.Fatalf("OccupiedHours: %v", err)
	}
	if want := (slots.Set{1, 2, 3, 4, 5}); !reflect.DeepEqual(got, want) {
		t.Errorf("OccupiedHours = %v, want %v", got, want)
	}
}

func TestReservationScenario(t *testing.T) {
	db := newTestDB(t)
	_, rooms := seedRooms(t, db)
	repo := NewReservationRepo(db)
	ctx := context.Background()
	room := rooms[0].ID

	first, err := repo.TryReserve(ctx, room, "2025-06-10", slots.Set{9, 10, 11}, alice, "")
	if err != nil {
		t.Fatalf("reserve 9-11: %v", err)
	}
	if first.ID != 1 {
		t.Errorf("first id = %d, want 1", first.ID)
	}
	if _, err := repo.TryReserve(ctx, room, "2025-06-10", slots.Set{11, 12}, alice, ""); !errors.Is(err, ErrConflict) {
		t.Fatalf("reserve 11-12 error = %v, want ErrConflict", err)
	}
	second, err := repo.TryReserve(ctx, room, "2025-06-10", slots.Set{12, 13}, alice, "")
	if err != nil {
		t.Fatalf("reserve 12-13: %v", err)
	}
	if second.ID != 2 {
		t.Errorf("second id = %d, want 2", second.ID)
	}
	got, err := repo.OccupiedHours(ctx, room, "2025-06-10")
	if err != nil {
		t.Fatalf("OccupiedHours: %v", err)
	}
	if want := (slots.Set{9, 10, 11, 12, 13}); !reflect.DeepEqual(got, want) {
		t.Errorf("OccupiedHours = %v, want %v", got, want)
	}
}

func TestOccupiedHoursEmpty(t *testing.T) {
	db := newTestDB(t)
	_, rooms := seedRooms(t, db)
	got, err := NewReservationRepo(db).OccupiedHours(context.Background(), rooms[0].ID, "2030-01-01")
	if err != nil {
		t.Fatalf("OccupiedHours: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("OccupiedHours = %v, want empty", got)
	}
}

func TestTryReserveConcurrent(t *testing.T) {
	db := newTestDB(t)
	_, rooms := seedRooms(t, db)
	repo := NewReservationRepo(db)
	ctx := context.Background()

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok        int
		conflicts int
		others    []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// every request overlaps hour 10
			hours := slots.Set{9 + i%2, 10}
			_, err := repo.TryReserve(ctx, rooms[0].ID, "2025-06-10", hours, alice, "")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrConflict):
				conflicts++
			default:
				others = append(others, err)
			}
		}(i)
	}
	wg.Wait()

	if len(others) > 0 {
		t.Fatalf("unexpected errors: %v", others)
	}
	if ok != 1 || conflicts != workers-1 {
		t.Fatalf("ok=%d conflicts=%d, want 1 and %d", ok, conflicts, workers-1)
	}
	list, err := repo.ListReservations(ctx, "2025-06-09", nil)
	if err != nil {
		t.Fatalf("ListReservations: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("stored %d reservations, want 1", len(list))
	}
}

func TestListReservationsRange(t *testing.T) {
	db := newTestDB(t)
	_, rooms := seedRooms(t, db)
	repo := NewReservationRepo(db)
	ctx := context.Background()

	for _, d := range []string{"2025-06-12", "2025-06-10", "2025-06-11", "2025-06-10"} {
		hours := slots.Set{8}
		if d == "2025-06-10" {
			// second booking on the 10th needs other hours
			if occ, _ := repo.OccupiedHours(ctx, rooms[0].ID, d); len(occ) > 0 {
				hours = slots.Set{9}
			}
		}
		if _, err := repo.TryReserve(ctx, rooms[0].ID, d, hours, alice, ""); err != nil {
			t.Fatalf("reserve %s: %v", d, err)
		}
	}

	dates := func(list []model.Reservation) []string {
		out := []string{}
		for _, r := range list {
			out = append(out, r.Date)
		}
		return out
	}

	end := "2025-06-11"
	got, err := repo.ListReservations(ctx, "2025-06-10", &end)
	if err != nil {
		t.Fatalf("ListReservations with end: %v", err)
	}
	if want := []string{"2025-06-10", "2025-06-10", "2025-06-11"}; !reflect.DeepEqual(dates(got), want) {
		t.Errorf("inclusive range = %v, want %v", dates(got), want)
	}
	if got[0].ID > got[1].ID {
		t.Errorf("same-day reservations not ordered by id: %d, %d", got[0].ID, got[1].ID)
	}

	got, err = repo.ListReservations(ctx, "2025-06-10", nil)
	if err != nil {
		t.Fatalf("ListReservations open ended: %v", err)
	}
	if want := []string{"2025-06-11", "2025-06-12"}; !reflect.DeepEqual(dates(got), want) {
		t.Errorf("open range = %v, want %v", dates(got), want)
	}

	if got[0].Contact != alice {
		t.Errorf("contact = %+v, want %+v", got[0].Contact, alice)
	}
	if got[0].CreatedAt.IsZero() {
		t.Error("created_at was not read back")
	}
}

func TestCancel(t *testing.T) {
	db := newTestDB(t)
	_, rooms := seedRooms(t, db)
	repo := NewReservationRepo(db)
	ctx := context.Background()

	res, err := repo.TryReserve(ctx, rooms[0].ID, "2025-06-10", slots.Set{9, 10}, alice, "")
	if err != nil {
		t.Fatalf("TryReserve: %v", err)
	}
	cancelled, err := repo.Cancel(ctx, res.ID)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if cancelled.ID != res.ID || !reflect.DeepEqual(cancelled.Hours, []int{9, 10}) {
		t.Errorf("Cancel returned %+v", cancelled)
	}
	if _, err := repo.Cancel(ctx, res.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Cancel error = %v, want ErrNotFound", err)
	}
	if _, err := repo.Cancel(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("Cancel unknown id error = %v, want ErrNotFound", err)
	}
	// hours are free again
	if _, err := repo.TryReserve(ctx, rooms[0].ID, "2025-06-10", slots.Set{10, 11}, alice, ""); err != nil {
		t.Errorf("reserve after cancel: %v", err)
	}
}

func TestCancelByTokenHash(t *testing.T) {
	db := newTestDB(t)
	_, rooms := seedRooms(t, db)
	repo := NewReservationRepo(db)
	ctx := context.Background()

	res, err := repo.TryReserve(ctx, rooms[0].ID, "2025-06-10", slots.Set{14}, alice, "digest-1")
	if err != nil {
		t.Fatalf("TryReserve: %v", err)
	}
	if _, err := repo.CancelByTokenHash(ctx, "digest-2"); !errors.Is(err, ErrNotFound) {
		t.Errorf("wrong token error = %v, want ErrNotFound", err)
	}
	if _, err := repo.CancelByTokenHash(ctx, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("empty token error = %v, want ErrNotFound", err)
	}
	got, err := repo.CancelByTokenHash(ctx, "digest-1")
	if err != nil {
		t.Fatalf("CancelByTokenHash: %v", err)
	}
	if got.ID != res.ID {
		t.Errorf("cancelled id = %d, want %d", got.ID, res.ID)
	}
	if _, err := repo.CancelByTokenHash(ctx, "digest-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("repeat cancel error = %v, want ErrNotFound", err)
	}
}

func TestTryReserveDuplicateTokenIsStorageFailure(t *testing.T) {
	db := newTestDB(t)
	_, rooms := seedRooms(t, db)
	repo := NewReservationRepo(db)
	ctx := context.Background()

	if _, err := repo.TryReserve(ctx, rooms[0].ID, "2025-06-10", slots.Set{1}, alice, "same"); err != nil {
		t.Fatalf("TryReserve: %v", err)
	}
	_, err := repo.TryReserve(ctx, rooms[0].ID, "2025-06-10", slots.Set{2}, alice, "same")
	if !errors.Is(err, ErrStorage) {
		t.Fatalf("duplicate token error = %v, want ErrStorage", err)
	}
	// nothing was written by the failed call
	occ, _ := repo.OccupiedHours(ctx, rooms[0].ID, "2025-06-10")
	if !reflect.DeepEqual(occ, slots.Set{1}) {
		t.Errorf("OccupiedHours = %v, want [1]", occ)
	}
}

func TestTryReserveCancelledContext(t *testing.T) {
	db := newTestDB(t)
	_, rooms := seedRooms(t, db)
	repo := NewReservationRepo(db)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := repo.TryReserve(ctx, rooms[0].ID, "2025-06-10", slots.Set{1}, alice, ""); !errors.Is(err, ErrStorage) {
		t.Fatalf("error = %v, want ErrStorage", err)
	}
	// the lock was released: a live caller gets through
	if _, err := repo.TryReserve(context.Background(), rooms[0].ID, "2025-06-10", slots.Set{1}, alice, ""); err != nil {
		t.Fatalf("TryReserve after abandoned call: %v", err)
	}
}
