package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/starbookhq/starbook/pkg/config"
	"github.com/starbookhq/starbook/pkg/db"
)

type DBManager struct {
	Pool *pgxpool.Pool
}

func New(cfg *config.DatabaseConfig) (*DBManager, error) {
	poolCfg, err := pgxpool.ParseConfig(db.GetDBDSN(cfg))
	if err != nil {
		return nil, err
	}
	if cfg.MaxOpenConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, err
	}

	return &DBManager{Pool: pool}, nil
}

func (dm *DBManager) ShutDown() {
	if dm.Pool != nil {
		dm.Pool.Close()
	}
}
