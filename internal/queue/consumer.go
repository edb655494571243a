// Package queue contains the background consumer that listens to the
// reservation.events queue and appends an audit trail to a log file.
package queue

import (
    "encoding/json"
    "errors"
    "fmt"
    "log"
    "os"
    "path/filepath"
    "strconv"
    "strings"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
)

// StartAuditConsumer connects to RabbitMQ, declares the reservation.events
// queue (durable), and starts consuming messages. Each message is appended
// to logPath in a single-line, human-friendly format. The function runs a
// reconnect loop forever and logs processing errors while rejecting the
// offending message so the server continues operating.
func StartAuditConsumer(url, logPath string) {
    backoff := time.Second
    for {
        conn, err := amqp.Dial(url)
        if err != nil {
            log.Printf("audit-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
            time.Sleep(backoff)
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second // reset after successful connect

        if err := consumeLoop(conn, logPath); err != nil {
            log.Printf("audit-consumer: consume loop ended: %v; reconnecting", err)
            _ = conn.Close()
            time.Sleep(2 * time.Second)
        }
    }
}

func consumeLoop(conn *amqp.Connection, logPath string) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        log.Printf("audit-consumer: set QoS failed: %v", err)
    }

    _, err = ch.QueueDeclare(ReservationQueueName, true, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }

    msgs, err := ch.Consume(ReservationQueueName, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for d := range msgs {
        if err := HandleMessage(d.Body, logPath); err != nil {
            log.Printf("audit-consumer: handle message failed: %v", err)
            _ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
            continue
        }
        _ = d.Ack(false)
    }
    return errors.New("deliveries channel closed")
}

// HandleMessage decodes one ReservationEvent and appends its audit line.
func HandleMessage(body []byte, logPath string) error {
    var ev ReservationEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if ev.Type == "" || ev.ReservationID == 0 {
        return errors.New("event without type or reservation id")
    }
    if dir := filepath.Dir(logPath); dir != "" && dir != "." {
        if err := os.MkdirAll(dir, 0o755); err != nil {
            return fmt.Errorf("mkdir %s: %w", dir, err)
        }
    }
    f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()

    if _, err := f.WriteString(FormatAuditLine(ev)); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}

// FormatAuditLine renders ev as one newline-terminated line.
func FormatAuditLine(ev ReservationEvent) string {
    hours := make([]string, len(ev.Hours))
    for i, h := range ev.Hours {
        hours[i] = strconv.Itoa(h)
    }
    line := fmt.Sprintf("[%s] %s | reservation_id=%d | room_id=%d | room=%q | date=%s | hours=[%s] | contact=%q",
        ev.OccurredAt, ev.Type, ev.ReservationID, ev.RoomID, ev.RoomName, ev.Date, strings.Join(hours, ","), ev.ContactTitle)
    if ev.Actor != "" {
        line += fmt.Sprintf(" | actor=%q", ev.Actor)
    }
    return line + " | event_id=" + ev.EventID + "\n"
}
