// Package postgres provides PostgreSQL implementations of the domain repositories.
// Amounts travel as text in both directions so no precision is lost to floats.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/payments-engine/internal/domain/account"
	"github.com/payments-engine/internal/platform/persistence"
	"github.com/shopspring/decimal"
)

// SnapshotRepository implements account.Repository for PostgreSQL
type SnapshotRepository struct {
	querier persistence.Querier // *pgxpool.Pool, or pgxmock in tests
	logger  *slog.Logger
	now     func() time.Time
}

// NewSnapshotRepository creates a repository over the pool
func NewSnapshotRepository(logger *slog.Logger, db *persistence.PostgresDB) account.Repository {
	return &SnapshotRepository{
		querier: db.Pool(),
		logger:  logger,
		now:     time.Now,
	}
}

const upsertSnapshotsQuery = `
		INSERT INTO account_snapshots (client, available, held, total, locked, run_id, updated_at)
		SELECT s.client, s.available::numeric, s.held::numeric, s.total::numeric, s.locked, $6, $7
		FROM unnest($1::int[], $2::text[], $3::text[], $4::text[], $5::bool[])
			AS s(client, available, held, total, locked)
		ON CONFLICT (client) DO UPDATE
		SET available = EXCLUDED.available,
			held = EXCLUDED.held,
			total = EXCLUDED.total,
			locked = EXCLUDED.locked,
			run_id = EXCLUDED.run_id,
			updated_at = EXCLUDED.updated_at
	`

// SaveAll upserts every snapshot in a single statement, so a failed export
// leaves the previous one untouched.
func (r *SnapshotRepository) SaveAll(ctx context.Context, runID uuid.UUID, snapshots []account.Snapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	clients := make([]int32, len(snapshots))
	available := make([]string, len(snapshots))
	held := make([]string, len(snapshots))
	total := make([]string, len(snapshots))
	locked := make([]bool, len(snapshots))
	for i, s := range snapshots {
		clients[i] = int32(s.Client)
		available[i] = s.Available.String()
		held[i] = s.Held.String()
		total[i] = s.Total.String()
		locked[i] = s.Locked
	}

	_, err := r.querier.Exec(ctx, upsertSnapshotsQuery,
		clients, available, held, total, locked, runID, r.now().UTC())
	if err != nil {
		r.logger.Error("Failed to save account snapshots", "run_id", runID.String(), "count", len(snapshots), "error", err)
		return fmt.Errorf("failed to save account snapshots: %w", err)
	}

	return nil
}

const selectSnapshotColumns = `client, available::text, held::text, total::text, locked, run_id::text, updated_at`

// GetByClient retrieves the last exported snapshot of one client
func (r *SnapshotRepository) GetByClient(ctx context.Context, client uint16) (*account.StoredSnapshot, error) {
	query := `SELECT ` + selectSnapshotColumns + ` FROM account_snapshots WHERE client = $1`

	stored, err := scanSnapshot(r.querier.QueryRow(ctx, query, int32(client)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrSnapshotNotFound{Client: client}
		}
		r.logger.Error("Failed to get account snapshot", "client", client, "error", err)
		return nil, fmt.Errorf("failed to get account snapshot: %w", err)
	}

	return stored, nil
}

// List returns snapshots ordered by client
func (r *SnapshotRepository) List(ctx context.Context, limit, offset int) ([]*account.StoredSnapshot, error) {
	query := `SELECT ` + selectSnapshotColumns + ` FROM account_snapshots ORDER BY client LIMIT $1 OFFSET $2`

	rows, err := r.querier.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list account snapshots", "error", err)
		return nil, fmt.Errorf("failed to list account snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*account.StoredSnapshot
	for rows.Next() {
		stored, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account snapshot: %w", err)
		}
		snapshots = append(snapshots, stored)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate account snapshots: %w", err)
	}

	return snapshots, nil
}

func scanSnapshot(row pgx.Row) (*account.StoredSnapshot, error) {
	var (
		client                 int32
		available, held, total string
		locked                 bool
		runID                  string
		updatedAt              time.Time
	)
	if err := row.Scan(&client, &available, &held, &total, &locked, &runID, &updatedAt); err != nil {
		return nil, err
	}

	stored := &account.StoredSnapshot{UpdatedAt: updatedAt}
	stored.Client = uint16(client)
	stored.Locked = locked

	var err error
	if stored.Available, err = decimal.NewFromString(available); err != nil {
		return nil, fmt.Errorf("invalid available amount %q: %w", available, err)
	}
	if stored.Held, err = decimal.NewFromString(held); err != nil {
		return nil, fmt.Errorf("invalid held amount %q: %w", held, err)
	}
	if stored.Total, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("invalid total amount %q: %w", total, err)
	}
	if stored.RunID, err = uuid.Parse(runID); err != nil {
		return nil, fmt.Errorf("invalid run id %q: %w", runID, err)
	}

	return stored, nil
}
