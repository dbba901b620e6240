package account

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StoredSnapshot is an exported snapshot together with the run that produced it
type StoredSnapshot struct {
	Snapshot
	RunID     uuid.UUID `json:"run_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Writer stores a full export of account snapshots
type Writer interface {
	// SaveAll upserts one row per client, overwriting the previous export
	SaveAll(ctx context.Context, runID uuid.UUID, snapshots []Snapshot) error
}

// Repository persists the latest exported snapshot of every client
type Repository interface {
	Writer
	GetByClient(ctx context.Context, client uint16) (*StoredSnapshot, error)
	List(ctx context.Context, limit, offset int) ([]*StoredSnapshot, error)
}

// ErrSnapshotNotFound indicates no snapshot was ever exported for the client
type ErrSnapshotNotFound struct {
	Client uint16
}

func (e ErrSnapshotNotFound) Error() string {
	return fmt.Sprintf("no snapshot found for client: %d", e.Client)
}
