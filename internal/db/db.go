package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/gratefultolord/meme_relay_bot/internal/config"
	"github.com/gratefultolord/meme_relay_bot/internal/db/migrations"
)

type DB struct {
	Conn *sqlx.DB
}

func New(cfg *config.Config) (*DB, error) {
	dbConn, err := sqlx.Connect("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("db.New: cannot connect to database: %w", err)
	}

	dbConn.SetMaxOpenConns(20)
	dbConn.SetMaxIdleConns(5)
	dbConn.SetConnMaxLifetime(60 * time.Minute)

	return &DB{Conn: dbConn}, nil
}

// RunMigrations applies the embedded schema migrations.
func (db *DB) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.FS)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("db.RunMigrations: %w", err)
	}

	if err := goose.UpContext(ctx, db.Conn.DB, "."); err != nil {
		return fmt.Errorf("db.RunMigrations: %w", err)
	}

	return nil
}

func (db *DB) Close() error {
	return db.Conn.Close()
}
