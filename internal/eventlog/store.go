package eventlog

import (
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is stamped into PRAGMA user_version.
// 1: runs and derivations.
const schemaVersion = 1

// pragma is a connection setting and the value SQLite reports once it holds.
type pragma struct {
	name, set, reads string
}

var pragmas = []pragma{
	{"journal_mode", "WAL", "wal"},
	{"synchronous", "NORMAL", "1"},
	{"busy_timeout", "5000", "5000"},
	{"foreign_keys", "ON", "1"},
}

// Log records reasoning runs in a SQLite database. WAL mode lets history
// queries read while a run is being written.
type Log struct {
	db *sql.DB
}

// Open creates or opens the run log at path, configures the connection and
// applies the schema. Opening an existing log again is harmless.
func Open(path string) (*Log, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open run log: %w", err)
	}
	// One connection: SQLite allows a single writer, and pragmas are per connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	l := &Log{db: db}
	for _, step := range []func() error{db.Ping, l.configure, l.migrate} {
		if err := step(); err != nil {
			db.Close()
			return nil, fmt.Errorf("open run log %s: %w", path, err)
		}
	}
	return l, nil
}

// Close closes the database connection.
func (l *Log) Close() error {
	if l.db == nil {
		return nil
	}
	return l.db.Close()
}

// configure applies every pragma and checks that SQLite accepted it.
func (l *Log) configure() error {
	for _, p := range pragmas {
		if _, err := l.db.Exec(fmt.Sprintf("PRAGMA %s = %s", p.name, p.set)); err != nil {
			return fmt.Errorf("pragma %s: %w", p.name, err)
		}
		if err := l.expectPragma(p.name, p.reads); err != nil {
			return err
		}
	}
	return nil
}

// migrate creates missing tables and stamps the schema version. A log
// written by a newer schema is rejected.
func (l *Log) migrate() error {
	var version int
	if err := l.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version > schemaVersion {
		return fmt.Errorf("schema version %d is newer than supported version %d", version, schemaVersion)
	}
	if _, err := l.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	if _, err := l.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("stamp schema version: %w", err)
	}
	return nil
}

func (l *Log) expectPragma(name, want string) error {
	var got string
	if err := l.db.QueryRow("PRAGMA " + name).Scan(&got); err != nil {
		return fmt.Errorf("read pragma %s: %w", name, err)
	}
	if got != want {
		return fmt.Errorf("pragma %s = %q, want %q", name, got, want)
	}
	return nil
}
