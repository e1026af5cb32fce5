package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/easymigrate/docintake/internal/common"
	"github.com/easymigrate/docintake/internal/entity"
)

// Postgres stores records in the primary database over a pgx pool.
type Postgres struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewPostgres(ctx context.Context, cfg common.DatabaseConfig, logger *slog.Logger) (*Postgres, error) {
	if logger == nil {
		logger = slog.Default()
	}
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse database dsn: %w", err)
	}
	pc.MaxConns = cfg.MaxConns
	pc.MinConns = cfg.MinConns
	pc.MaxConnLifetime = cfg.MaxConnLifetime
	pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	pc.ConnConfig.ConnectTimeout = cfg.DialTimeout

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	logger.Info("storage.postgres.connected", "max_conns", pc.MaxConns)
	return &Postgres{pool: pool, logger: logger}, nil
}

func (p *Postgres) SaveRecord(ctx context.Context, table string, rec entity.CanonicalRecord) error {
	stmt, args, err := insertStatement(table, rec, "$")
	if err != nil {
		return err
	}
	tag, err := p.pool.Exec(ctx, stmt, args...)
	if err != nil {
		return common.NewAppError("STORAGE", fmt.Sprintf("insert into %s", table), err)
	}
	p.logger.Info("storage.postgres.saved", "table", table, "rows", tag.RowsAffected())
	return nil
}

func (p *Postgres) Close() {
	p.pool.Close()
}
