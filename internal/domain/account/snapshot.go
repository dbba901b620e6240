package account

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Snapshot is the rendered, rounded view of an account handed to output sinks
type Snapshot struct {
	Client    uint16          `json:"client"`
	Available decimal.Decimal `json:"available"`
	Held      decimal.Decimal `json:"held"`
	Total     decimal.Decimal `json:"total"`
	Locked    bool            `json:"locked"`
}

// Snapshots renders every account. The order of the input is preserved.
func Snapshots(accounts []*Account, precision int32) []Snapshot {
	out := make([]Snapshot, 0, len(accounts))
	for _, acc := range accounts {
		out = append(out, acc.Snapshot(precision))
	}
	return out
}

// SortByClient orders snapshots by client id, for callers that want stable output
func SortByClient(snapshots []Snapshot) {
	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Client < snapshots[j].Client
	})
}
