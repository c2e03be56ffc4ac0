// Package backends opens the sample store selected on the command line.
package backends

import (
	"context"
	"fmt"

	"livechart/config"
	"livechart/store"
	"livechart/store/clickhouse"
	"livechart/store/memory"
	"livechart/store/postgres"
)

// Open connects to the configured store and applies its schema. The returned close func releases the connection.
func Open(ctx context.Context, flags *config.Flags) (store.SampleStore, func(), error) {
	switch flags.Store {
	case config.Memory, "":
		return memory.NewSampleStore(flags.Retention), func() {}, nil

	case config.Postgres:
		if flags.PostgresDSN == "" {
			return nil, nil, fmt.Errorf("postgres store needs -postgres-dsn: %w", store.ErrInvalidInput)
		}
		pool, err := postgres.NewPool(ctx, flags.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return postgres.NewSampleStore(pool), pool.Close, nil

	case config.ClickHouse:
		if flags.ClickHouseDSN == "" {
			return nil, nil, fmt.Errorf("clickhouse store needs -clickhouse-dsn: %w", store.ErrInvalidInput)
		}
		conn, err := clickhouse.NewConn(ctx, flags.ClickHouseDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := clickhouse.Migrate(ctx, conn); err != nil {
			_ = conn.Close()
			return nil, nil, err
		}
		return clickhouse.NewSampleStore(conn), func() { _ = conn.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown store %q: %w", flags.Store, store.ErrInvalidInput)
}
