// Command roomctl administers the reservation database: it creates the
// schema, manages staff accounts and maintains the room catalog.
//
//	roomctl initdb
//	roomctl useradd -username admin [-password secret]
//	roomctl passwd -username admin [-password secret]
//	roomctl room-type-add -name meeting -desc "Meeting rooms"
//	roomctl room-add -name "Room A" -type 1
//
// The database is selected with the same environment variables as the
// server (DB_DRIVER, DB_*, SQLITE_PATH).  When -password is omitted the
// password is read from the first line of stdin.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	"github.com/iliyamo/room-reservation/internal/database"
	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/repository"
	"github.com/iliyamo/room-reservation/internal/service"
)

const usage = `usage: roomctl <command> [flags]

commands:
  initdb          create the schema
  useradd         add a staff account
  passwd          change a staff password
  room-type-add   add a room type
  room-add        add a room
`

func main() {
	log.SetFlags(0)
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("warning: .env not loaded: %v", err)
	}
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err := run(os.Args[1], os.Args[2:], os.Stdin, os.Stdout); err != nil {
		log.Fatalf("roomctl %s: %v", os.Args[1], err)
	}
}

func run(cmd string, args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	var (
		username = fs.String("username", "", "staff username")
		password = fs.String("password", "", "password (read from stdin when empty)")
		name     = fs.String("name", "", "room or room type name")
		desc     = fs.String("desc", "", "room type description")
		typeID   = fs.Uint64("type", 0, "room type id")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch cmd {
	case "initdb":
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()
		fmt.Fprintln(stdout, "schema ready")
		return nil

	case "useradd", "passwd":
		if *username == "" {
			return errors.New("-username is required")
		}
		pw, err := readPassword(*password, stdin)
		if err != nil {
			return err
		}
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()
		creds := service.NewCredentialService(repository.NewUserRepo(db))
		if cmd == "useradd" {
			err = creds.CreateUser(ctx, *username, pw)
		} else {
			err = creds.SetPassword(ctx, *username, pw)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s: ok\n", *username)
		return nil

	case "room-type-add":
		if *name == "" {
			return errors.New("-name is required")
		}
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()
		rt := model.RoomType{Name: *name, Description: *desc}
		if err := repository.NewRoomRepo(db).CreateRoomType(ctx, &rt); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "room type %d: %s\n", rt.ID, rt.Name)
		return nil

	case "room-add":
		if *name == "" || *typeID == 0 {
			return errors.New("-name and -type are required")
		}
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()
		room := model.Room{Name: *name, TypeID: *typeID}
		if err := repository.NewRoomRepo(db).CreateRoom(ctx, &room); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "room %d: %s\n", room.ID, room.Name)
		return nil
	}
	return fmt.Errorf("unknown command %q\n%s", cmd, usage)
}

// openDB reads only the storage variables, so the CLI works without the
// server's JWT and port settings.
func openDB() (*sqlx.DB, error) {
	return database.Open(database.Options{
		Driver: getenv("DB_DRIVER", database.DriverMySQL),
		User:   os.Getenv("DB_USER"),
		Pass:   os.Getenv("DB_PASS"),
		Host:   os.Getenv("DB_HOST"),
		Port:   os.Getenv("DB_PORT"),
		Name:   os.Getenv("DB_NAME"),
		Path:   getenv("SQLITE_PATH", "var/rooms.db"),
	})
}

func readPassword(flagValue string, stdin io.Reader) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	pw := strings.TrimRight(line, "\r\n")
	if pw == "" {
		return "", errors.New("empty password")
	}
	return pw, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
