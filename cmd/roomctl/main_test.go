package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunAgainstSQLite(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "rooms.db"))

	steps := []struct {
		cmd   string
		args  []string
		stdin string
		want  string
	}{
		{"initdb", nil, "", "schema ready"},
		{"room-type-add", []string{"-name", "meeting", "-desc", "Meeting rooms"}, "", "room type 1: meeting"},
		{"room-add", []string{"-name", "Room A", "-type", "1"}, "", "room 1: Room A"},
		{"useradd", []string{"-username", "admin"}, "s3cret\n", "admin: ok"},
		{"passwd", []string{"-username", "admin", "-password", "n3w"}, "", "admin: ok"},
	}
	for _, s := range steps {
		var out bytes.Buffer
		if err := run(s.cmd, s.args, strings.NewReader(s.stdin), &out); err != nil {
			t.Fatalf("%s: %v", s.cmd, err)
		}
		if !strings.Contains(out.String(), s.want) {
			t.Fatalf("%s output = %q, want %q", s.cmd, out.String(), s.want)
		}
	}
}

func TestRunErrors(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "rooms.db"))

	tests := []struct {
		cmd   string
		args  []string
		stdin string
	}{
		{"bogus", nil, ""},
		{"useradd", nil, ""},
		{"useradd", []string{"-username", "admin"}, ""},
		{"passwd", []string{"-username", "ghost", "-password", "x"}, ""},
		{"room-add", []string{"-name", "Room A"}, ""},
		{"room-type-add", nil, ""},
	}
	for _, tt := range tests {
		if err := run(tt.cmd, tt.args, strings.NewReader(tt.stdin), &bytes.Buffer{}); err == nil {
			t.Errorf("%s %v: expected error", tt.cmd, tt.args)
		}
	}
}
