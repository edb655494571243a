package database

import (
	"embed"
	"log"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
)

//go:embed migrations/mysql/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// Migrate applies every embedded migration for the connection's driver in
// file name order.  Statements use IF NOT EXISTS, so running it against an
// initialized database is a no-op.
func Migrate(db *sqlx.DB) error {
	dir := "migrations/" + db.DriverName()
	entries, err := migrationsFS.ReadDir(dir)
	if err != nil {
		return err
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for _, name := range files {
		log.Printf("migration: %s/%s", db.DriverName(), name)
		sqlBytes, err := migrationsFS.ReadFile(dir + "/" + name)
		if err != nil {
			return err
		}
		// MySQL rejects multiple statements per Exec without multiStatements=true.
		for _, stmt := range strings.Split(string(sqlBytes), ";") {
			if strings.TrimSpace(stmt) == "" {
				continue
			}
			if _, err := db.Exec(stmt); err != nil {
				return err
			}
		}
	}
	return nil
}
