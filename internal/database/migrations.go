package database

import (
	"fmt"
	"log"
)

// Migration represents a single schema migration
type Migration struct {
	Version     int
	Description string
	SQL         string
}

// GetMigrations returns the migrations for the given database type
func GetMigrations(dbType string) []Migration {
	if dbType == "postgres" {
		return getPostgresMigrations()
	}
	return getSQLiteMigrations()
}

func getPostgresMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create users table",
			SQL: `CREATE TABLE IF NOT EXISTS users (
				id BIGSERIAL PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				email VARCHAR(255) UNIQUE NOT NULL,
				password VARCHAR(255) NOT NULL,
				provider BOOLEAN NOT NULL DEFAULT FALSE,
				reset_password_token VARCHAR(64),
				reset_password_expires TIMESTAMP WITH TIME ZONE,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			)`,
		},
		{
			Version:     2,
			Description: "Create files table",
			SQL: `CREATE TABLE IF NOT EXISTS files (
				id BIGSERIAL PRIMARY KEY,
				path VARCHAR(255) NOT NULL,
				url TEXT NOT NULL,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			)`,
		},
		{
			Version:     3,
			Description: "Create meetups table",
			SQL: `CREATE TABLE IF NOT EXISTS meetups (
				id BIGSERIAL PRIMARY KEY,
				title VARCHAR(255) NOT NULL,
				description TEXT NOT NULL,
				location VARCHAR(255) NOT NULL,
				date TIMESTAMP WITH TIME ZONE NOT NULL,
				banner_id BIGINT NOT NULL REFERENCES files(id),
				user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			)`,
		},
		{
			Version:     4,
			Description: "Create subscriptions table",
			SQL: `CREATE TABLE IF NOT EXISTS subscriptions (
				id BIGSERIAL PRIMARY KEY,
				user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				meetup_id BIGINT NOT NULL REFERENCES meetups(id) ON DELETE CASCADE,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				UNIQUE (user_id, meetup_id)
			)`,
		},
		{
			Version:     5,
			Description: "Create indexes",
			SQL: `CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
				CREATE INDEX IF NOT EXISTS idx_users_reset_token ON users(reset_password_token);
				CREATE INDEX IF NOT EXISTS idx_meetups_user_id ON meetups(user_id);
				CREATE INDEX IF NOT EXISTS idx_meetups_date ON meetups(date);
				CREATE INDEX IF NOT EXISTS idx_subscriptions_user_id ON subscriptions(user_id);
				CREATE INDEX IF NOT EXISTS idx_subscriptions_meetup_id ON subscriptions(meetup_id);`,
		},
	}
}

func getSQLiteMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create users table",
			SQL: `CREATE TABLE IF NOT EXISTS users (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL,
				email TEXT UNIQUE NOT NULL,
				password TEXT NOT NULL,
				provider BOOLEAN NOT NULL DEFAULT 0,
				reset_password_token TEXT,
				reset_password_expires DATETIME,
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL
			)`,
		},
		{
			Version:     2,
			Description: "Create files table",
			SQL: `CREATE TABLE IF NOT EXISTS files (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				path TEXT NOT NULL,
				url TEXT NOT NULL,
				created_at DATETIME NOT NULL
			)`,
		},
		{
			Version:     3,
			Description: "Create meetups table",
			SQL: `CREATE TABLE IF NOT EXISTS meetups (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				title TEXT NOT NULL,
				description TEXT NOT NULL,
				location TEXT NOT NULL,
				date DATETIME NOT NULL,
				banner_id INTEGER NOT NULL,
				user_id INTEGER NOT NULL,
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL,
				FOREIGN KEY (banner_id) REFERENCES files(id),
				FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
			)`,
		},
		{
			Version:     4,
			Description: "Create subscriptions table",
			SQL: `CREATE TABLE IF NOT EXISTS subscriptions (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				user_id INTEGER NOT NULL,
				meetup_id INTEGER NOT NULL,
				created_at DATETIME NOT NULL,
				UNIQUE (user_id, meetup_id),
				FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
				FOREIGN KEY (meetup_id) REFERENCES meetups(id) ON DELETE CASCADE
			)`,
		},
		{
			Version:     5,
			Description: "Create indexes",
			SQL: `CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
				CREATE INDEX IF NOT EXISTS idx_users_reset_token ON users(reset_password_token);
				CREATE INDEX IF NOT EXISTS idx_meetups_user_id ON meetups(user_id);
				CREATE INDEX IF NOT EXISTS idx_meetups_date ON meetups(date);
				CREATE INDEX IF NOT EXISTS idx_subscriptions_user_id ON subscriptions(user_id);
				CREATE INDEX IF NOT EXISTS idx_subscriptions_meetup_id ON subscriptions(meetup_id);`,
		},
	}
}

// RunMigrations runs all pending migrations
func RunMigrations(db *DB) error {
	if err := createMigrationsTable(db); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := getAppliedMigrations(db)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	for _, m := range GetMigrations(db.driver) {
		if applied[m.Version] {
			continue
		}
		log.Printf("Applying migration %d: %s", m.Version, m.Description)
		if _, err := db.Exec(m.SQL); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Description, err)
		}
		if err := recordMigration(db, m.Version); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
	}

	return nil
}

func createMigrationsTable(db *DB) error {
	query := `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`
	if db.driver == "postgres" {
		query = `CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)`
	}
	_, err := db.Exec(query)
	return err
}

func getAppliedMigrations(db *DB) (map[int]bool, error) {
	applied := make(map[int]bool)

	rows, err := db.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return applied, err
	}
	defer rows.Close()

	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return applied, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func recordMigration(db *DB, version int) error {
	_, err := db.Exec(db.Rebind("INSERT INTO schema_migrations (version) VALUES (?)"), version)
	return err
}
