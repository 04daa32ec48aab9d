package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"github.com/meetapp-io/meetapp/internal/config"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailTaken           = errors.New("email already taken")
	ErrFileNotFound         = errors.New("file not found")
	ErrMeetupNotFound       = errors.New("meetup not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrAlreadySubscribed    = errors.New("already subscribed")
)

// DB wraps the sqlx handle together with the driver name so stores can
// pick the right id-returning insert strategy.
type DB struct {
	*sqlx.DB
	driver string
}

// Open connects to the configured database and runs pending migrations.
func Open(cfg *config.Config) (*DB, error) {
	var (
		db  *sqlx.DB
		err error
	)

	switch cfg.Database.Type {
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.Database.Host,
			cfg.Database.Port,
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.Name,
			cfg.Database.SSLMode,
		)
		db, err = sqlx.Open("postgres", dsn)
	case "sqlite", "":
		db, err = sqlx.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=on", cfg.Database.Path))
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Database.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.Database.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.Database.MaxConns)
	}
	if cfg.Database.MaxIdle > 0 {
		db.SetMaxIdleConns(cfg.Database.MaxIdle)
	}
	if cfg.Database.ConnMaxLifetime != "" {
		if d, perr := time.ParseDuration(cfg.Database.ConnMaxLifetime); perr == nil {
			db.SetConnMaxLifetime(d)
		} else {
			log.Printf("Warning: invalid connMaxLifetime %q: %v", cfg.Database.ConnMaxLifetime, perr)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	wrapped := &DB{DB: db, driver: cfg.Database.Type}
	if wrapped.driver == "" {
		wrapped.driver = "sqlite"
	}

	if err := RunMigrations(wrapped); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return wrapped, nil
}

// insertID executes an insert written with "?" placeholders and returns
// the generated row id, using RETURNING on Postgres and LastInsertId on
// SQLite.
func (d *DB) insertID(ctx context.Context, query string, args ...interface{}) (int64, error) {
	if d.driver == "postgres" {
		var id int64
		err := d.QueryRowContext(ctx, d.Rebind(query+" RETURNING id"), args...).Scan(&id)
		return id, err
	}

	res, err := d.ExecContext(ctx, d.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// isUniqueViolation reports whether err is a unique-constraint error
// from either supported driver.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
