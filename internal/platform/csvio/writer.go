package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/payments-engine/internal/domain/account"
)

var snapshotHeader = []string{"client", "available", "held", "total", "locked"}

// WriteSnapshots renders already rounded snapshots as CSV with a header row
func WriteSnapshots(w io.Writer, snapshots []account.Snapshot) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(snapshotHeader); err != nil {
		return fmt.Errorf("failed to write snapshot header: %w", err)
	}

	for _, s := range snapshots {
		row := []string{
			strconv.FormatUint(uint64(s.Client), 10),
			s.Available.String(),
			s.Held.String(),
			s.Total.String(),
			strconv.FormatBool(s.Locked),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to output an account record for client %d: %w", s.Client, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
