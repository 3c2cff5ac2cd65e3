package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Open opens a DB and ensures schema exists.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:academico.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/academico?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	if err := ensureSchema(ctx, db, driver); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	var schema string
	switch driver {
	case DriverSQLite:
		schema = schemaSQLite
	case DriverPostgres:
		schema = schemaPostgres
	}
	_, err := db.ExecContext(ctx, schema)
	return err
}

// first_access is an int flag (1 on creation, 0 once the student has bound
// an email and chosen a password). pim lives on students: the project grade
// is one value per student, joined into every subject's grade read.

const schemaSQLite = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS students (
  ra TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT UNIQUE,
  password_hash TEXT NOT NULL,
  program TEXT NOT NULL,
  first_access INTEGER NOT NULL DEFAULT 1,
  pim REAL NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS professors (
  email TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  primary_subject TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS grades (
  ra TEXT NOT NULL REFERENCES students(ra) ON DELETE CASCADE,
  subject TEXT NOT NULL,
  np1 REAL NOT NULL DEFAULT 0,
  np2 REAL NOT NULL DEFAULT 0,
  PRIMARY KEY (ra, subject)
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS students (
  ra TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT UNIQUE,
  password_hash TEXT NOT NULL,
  program TEXT NOT NULL,
  first_access INTEGER NOT NULL DEFAULT 1,
  pim DOUBLE PRECISION NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS professors (
  email TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  primary_subject TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS grades (
  ra TEXT NOT NULL REFERENCES students(ra) ON DELETE CASCADE,
  subject TEXT NOT NULL,
  np1 DOUBLE PRECISION NOT NULL DEFAULT 0,
  np2 DOUBLE PRECISION NOT NULL DEFAULT 0,
  PRIMARY KEY (ra, subject)
);
`
