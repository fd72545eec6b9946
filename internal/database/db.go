package database

import (
	"context"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// Open builds the MySQL DSN, opens a sqlx pool and verifies the connection
// with a bounded ping. loc=UTC and parseTime=true keep DATE columns aligned
// with the core's UTC-only stay-date handling.
func Open(user, pass, host, port, name string) (*sqlx.DB, error) {
	dsn := buildDSN(user, pass, host, port, name)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db, err := sqlx.ConnectContext(ctx, "mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("database: connect %s/%s: %w", host, name, err)
	}

	// Sized for a single API instance; row-lock critical sections hold
	// connections only for the duration of one booking write.
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

func buildDSN(user, pass, host, port, name string) string {
	auth := user
	if pass != "" {
		auth = user + ":" + pass
	}
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)
}
