package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sqlstore "github.com/de-tools/metric-atlas/pkg/store/sql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
)

type Settings struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	PoolSize int
}

// Open creates a pooled connection to the metrics warehouse and verifies it
// with a ping.
func Open(settings Settings) (*sql.DB, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		settings.User, settings.Password, settings.Host, settings.Port, settings.Database)

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	poolSize := settings.PoolSize
	if poolSize <= 0 {
		poolSize = 10
	}
	db.SetMaxOpenConns(poolSize)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	return db, nil
}

// Executor runs validated read-only queries against a *sql.DB.
type Executor struct {
	db *sql.DB
}

func NewExecutor(db *sql.DB) *Executor {
	return &Executor{db: db}
}

func (e *Executor) Execute(ctx context.Context, query string, params sqlstore.Params) ([]sqlstore.Row, error) {
	logger := zerolog.Ctx(ctx)

	if err := sqlstore.Validate(query); err != nil {
		return nil, err
	}
	expanded, args, err := sqlstore.Expand(query, params)
	if err != nil {
		return nil, err
	}

	rows, err := e.db.QueryContext(ctx, expanded, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close query rows")
		}
	}(rows)

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	var result []sqlstore.Row
	for rows.Next() {
		values := make([]any, len(columns))
		scans := make([]any, len(columns))
		for i := range values {
			scans[i] = &values[i]
		}
		if err := rows.Scan(scans...); err != nil {
			return nil, err
		}

		row := make(sqlstore.Row, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
