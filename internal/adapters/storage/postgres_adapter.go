package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/zatekoja/hospitaladmin/internal/domain/providers"
	"github.com/zatekoja/hospitaladmin/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/hospitaladmin/internal/infrastructure/observability"
)

const storageTable = "client_storage"

// PostgresAdapter implements StorageProvider on the client_storage table.
// Expired rows read as missing until PurgeExpired removes them.
type PostgresAdapter struct {
	client  *postgres.Client
	db      *goqu.Database
	metrics *observability.Metrics
	now     func() time.Time
}

// NewPostgresAdapter creates a new Postgres storage adapter
func NewPostgresAdapter(client *postgres.Client, metrics *observability.Metrics) *PostgresAdapter {
	return &PostgresAdapter{
		client:  client,
		db:      goqu.New("postgres", client.DB()),
		metrics: metrics,
		now:     time.Now,
	}
}

var _ providers.StorageProvider = (*PostgresAdapter)(nil)

// Get retrieves a value
func (a *PostgresAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	defer a.observe(ctx, "get", time.Now())
	return a.lookup(ctx, key)
}

func (a *PostgresAdapter) lookup(ctx context.Context, key string) ([]byte, error) {
	query, args, err := a.db.From(storageTable).
		Select("value", "expires_at").
		Where(goqu.C("key").Eq(key)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build storage select: %w", err)
	}

	var (
		value     []byte
		expiresAt sql.NullTime
	)
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", providers.ErrKeyNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read storage key: %w", err)
	}
	if expiresAt.Valid && !a.now().Before(expiresAt.Time) {
		return nil, fmt.Errorf("%w: %s", providers.ErrKeyNotFound, key)
	}
	return value, nil
}

// Set upserts a value with expiration
func (a *PostgresAdapter) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	defer a.observe(ctx, "set", time.Now())

	expiresAt := sql.NullTime{}
	if expirationSeconds > 0 {
		expiresAt = sql.NullTime{Time: a.now().Add(time.Duration(expirationSeconds) * time.Second), Valid: true}
	}

	record := goqu.Record{
		"key":        key,
		"value":      value,
		"expires_at": expiresAt,
	}
	query, args, err := a.db.Insert(storageTable).
		Rows(record).
		OnConflict(goqu.DoUpdate("key", goqu.Record{
			"value":      goqu.L("EXCLUDED.value"),
			"expires_at": goqu.L("EXCLUDED.expires_at"),
		})).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("failed to build storage upsert: %w", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to write storage key: %w", err)
	}
	return nil
}

// Delete removes a value
func (a *PostgresAdapter) Delete(ctx context.Context, key string) error {
	defer a.observe(ctx, "delete", time.Now())

	query, args, err := a.db.Delete(storageTable).
		Where(goqu.C("key").Eq(key)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("failed to build storage delete: %w", err)
	}
	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete storage key: %w", err)
	}
	return nil
}

// Exists checks if a live key exists
func (a *PostgresAdapter) Exists(ctx context.Context, key string) (bool, error) {
	defer a.observe(ctx, "exists", time.Now())

	_, err := a.lookup(ctx, key)
	if errors.Is(err, providers.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// PurgeExpired deletes every expired row and returns how many were removed
func (a *PostgresAdapter) PurgeExpired(ctx context.Context) (int64, error) {
	defer a.observe(ctx, "purge", time.Now())

	query, args, err := a.db.Delete(storageTable).
		Where(goqu.C("expires_at").Lte(a.now())).
		Prepared(true).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("failed to build storage purge: %w", err)
	}
	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired keys: %w", err)
	}
	return result.RowsAffected()
}

// StartSweeper runs PurgeExpired every interval until ctx is done
func (a *PostgresAdapter) StartSweeper(ctx context.Context, interval time.Duration) {
	logger := observability.ComponentLogger("postgres_storage")
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := a.PurgeExpired(ctx)
				if err != nil {
					if ctx.Err() == nil {
						logger.Warn().Err(err).Msg("Failed to purge expired storage keys")
					}
					continue
				}
				if removed > 0 {
					logger.Debug().Int64("removed", removed).Msg("Purged expired storage keys")
				}
			}
		}
	}()
}

func (a *PostgresAdapter) observe(ctx context.Context, op string, start time.Time) {
	observability.RecordStorageMetric(ctx, a.metrics, "postgres", op, time.Since(start))
}
