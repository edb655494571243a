package queue

import (
    "encoding/json"
    "os"
    "path/filepath"
    "strings"
    "testing"
)

func TestHandleMessageAppendsLines(t *testing.T) {
    logPath := filepath.Join(t.TempDir(), "logs", "reservations.log")
    events := []ReservationEvent{
        {EventID: "e1", Type: EventCommitted, ReservationID: 1, RoomID: 3, RoomName: "Room A", Date: "2025-06-10", Hours: []int{9, 10, 11}, ContactTitle: "Alice", OccurredAt: "2025-06-09T10:00:00Z"},
        {EventID: "e2", Type: EventCancelled, ReservationID: 1, RoomID: 3, RoomName: "Room A", Date: "2025-06-10", Hours: []int{9, 10, 11}, ContactTitle: "Alice", Actor: "admin", OccurredAt: "2025-06-09T11:00:00Z"},
    }
    for _, ev := range events {
        body, _ := json.Marshal(ev)
        if err := HandleMessage(body, logPath); err != nil {
            t.Fatalf("HandleMessage: %v", err)
        }
    }
    data, err := os.ReadFile(logPath)
    if err != nil {
        t.Fatalf("read log: %v", err)
    }
    lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
    if len(lines) != 2 {
        t.Fatalf("got %d lines, want 2:\n%s", len(lines), data)
    }
    if !strings.Contains(lines[0], "reservation.committed | reservation_id=1") || !strings.Contains(lines[0], "hours=[9,10,11]") {
        t.Errorf("unexpected first line: %s", lines[0])
    }
    if !strings.Contains(lines[1], `actor="admin"`) {
        t.Errorf("cancel line misses actor: %s", lines[1])
    }
}

func TestHandleMessageRejectsBadPayloads(t *testing.T) {
    logPath := filepath.Join(t.TempDir(), "audit.log")
    for _, body := range []string{"not json", `{"type":""}`, `{"type":"reservation.committed"}`} {
        if err := HandleMessage([]byte(body), logPath); err == nil {
            t.Errorf("HandleMessage(%q) succeeded, want error", body)
        }
    }
    if _, err := os.Stat(logPath); !os.IsNotExist(err) {
        t.Errorf("log file written for rejected payloads")
    }
}
