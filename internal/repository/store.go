package repository

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"github.com/segyhp/collection-engine/internal/config"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
)

//go:embed schema/*.sql
var schemaFS embed.FS

// TxFunc runs inside a transaction with repositories bound to it.
type TxFunc func(ctx context.Context, repos *Repositories) error

// UnitOfWork runs a function atomically.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

// Repositories groups every repository over one connection or transaction.
type Repositories struct {
	Clients       ClientRepository
	Charges       ChargeRepository
	Installments  InstallmentRepository
	Payments      PaymentRepository
	Settings      SettingsRepository
	Notifications NotificationRepository
}

func newRepositories(q sqlx.ExtContext) *Repositories {
	return &Repositories{
		Clients:       NewClientRepository(q),
		Charges:       NewChargeRepository(q),
		Installments:  NewInstallmentRepository(q),
		Payments:      NewPaymentRepository(q),
		Settings:      NewSettingsRepository(q),
		Notifications: NewNotificationRepository(q),
	}
}

// Store owns the database handle and hands out repositories.
type Store struct {
	db    *sqlx.DB
	repos *Repositories
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{
		db:    db,
		repos: newRepositories(db),
	}
}

// Repositories bound to the pool, outside any transaction.
func (s *Store) Repositories() *Repositories {
	return s.repos
}

// DB exposes the handle for health checks.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// WithinTx commits when fn returns nil and rolls back otherwise.
func (s *Store) WithinTx(ctx context.Context, fn TxFunc) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(ctx, newRepositories(tx)); err != nil {
		return err
	}

	return tx.Commit()
}

// Open connects with the configured driver and applies pool settings.
func Open(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	dsn := cfg.DSN()
	if cfg.Driver == DriverSQLite {
		dsn = sqliteDSN(dsn)
	}

	db, err := sqlx.Connect(cfg.Driver, dsn)
	if err != nil {
		return nil, err
	}

	if cfg.Driver == DriverSQLite {
		// one writer; transactions serialize on the single connection
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return db, nil
}

func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on"
}

// Migrate creates the schema for the handle's dialect. It is idempotent.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	name := "schema/schema_postgres.sql"
	if db.DriverName() == DriverSQLite {
		name = "schema/schema_sqlite.sql"
	}
	ddl, err := schemaFS.ReadFile(name)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, string(ddl)); err != nil {
		return fmt.Errorf("apply %s: %w", name, err)
	}
	return nil
}

// mapError normalizes driver errors to ErrNotFound and ErrDuplicate.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%w: %s", ErrDuplicate, pqErr.Constraint)
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) &&
		(sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique || sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey) {
		return fmt.Errorf("%w: %s", ErrDuplicate, sqliteErr.Error())
	}

	return err
}

// expectAffected turns a zero-row write into ErrNotFound.
func expectAffected(res sql.Result, err error) error {
	if err != nil {
		return mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// forUpdate appends a row lock where the dialect supports one. SQLite
// serializes writers on the single connection instead.
func forUpdate(q sqlx.ExtContext, query string) string {
	if q.DriverName() == DriverPostgres {
		return query + " FOR UPDATE"
	}
	return query
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
