package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	_ "github.com/lib/pq"
)

type Config struct {
	Host         string
	Port         string
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
}

const (
	maxRetries = 10
	retryDelay = 2 * time.Second
)

func (c Config) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     c.DBName,
		RawQuery: url.Values{"sslmode": []string{c.SSLMode}}.Encode(),
	}
	return u.String()
}

// NewPostgresDB opens the pool and waits for the server to accept
// connections, retrying while it starts up.
func NewPostgresDB(ctx context.Context, cfg Config, log *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxOpenConns)
	}
	db.SetConnMaxLifetime(5 * time.Minute)

	for i := 1; i <= maxRetries; i++ {
		log.Info("connecting to database", slog.Int("attempt", i), slog.Int("max_attempts", maxRetries))

		if err = db.PingContext(ctx); err == nil {
			log.Info("database connected")
			return db, nil
		}

		log.Warn("database not ready yet", slog.Duration("retry_in", retryDelay), slog.String("error", err.Error()))
		select {
		case <-ctx.Done():
			db.Close()
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}

	db.Close()
	return nil, fmt.Errorf("database unreachable after %d attempts: %w", maxRetries, err)
}
