package snapshot_poller

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/payments-engine/internal/config"
	"github.com/payments-engine/internal/domain/account"
	"github.com/payments-engine/internal/transaction_processor/service"
)

// SnapshotSource is the live engine whose balances get exported
type SnapshotSource interface {
	RunID() uuid.UUID
	Snapshot() []account.Snapshot
	Stats() service.StreamStats
}

// Poller periodically exports the stream engine's balances
type Poller struct {
	source       SnapshotSource
	exporter     Exporter
	logger       *slog.Logger
	pollInterval time.Duration

	lastExported int
	exportedOnce bool
}

func NewPoller(cfg *config.SnapshotConfig, source SnapshotSource, exporter Exporter, logger *slog.Logger) *Poller {
	return &Poller{
		source:       source,
		exporter:     exporter,
		logger:       logger,
		pollInterval: cfg.PollingInterval,
	}
}

// Start exports on every tick until ctx is canceled, then makes one last export
// with shutdownCtx so the final balances are not lost.
func (p *Poller) Start(ctx context.Context, shutdownCtx context.Context) {
	p.logger.Info("Starting snapshot poller", "poll_interval", p.pollInterval.String())
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Snapshot poller stopping, exporting final balances")
			if err := p.exportIfChanged(shutdownCtx); err != nil {
				p.logger.Error("Final snapshot export failed", "error", err)
			}
			return
		case <-ticker.C:
			if err := p.exportIfChanged(ctx); err != nil {
				p.logger.Error("Snapshot export failed", "error", err)
			}
		}
	}
}

// exportIfChanged skips the export when no event reached the engine since the last one
func (p *Poller) exportIfChanged(ctx context.Context) error {
	stats := p.source.Stats()
	seen := stats.Applied + stats.Rejected
	if p.exportedOnce && seen == p.lastExported {
		p.logger.Debug("No new events since last export")
		return nil
	}

	snapshots := p.source.Snapshot()
	if len(snapshots) == 0 {
		return nil
	}

	if err := p.exporter.Export(ctx, p.source.RunID(), snapshots); err != nil {
		return fmt.Errorf("failed to export %d account snapshots: %w", len(snapshots), err)
	}

	p.lastExported = seen
	p.exportedOnce = true
	p.logger.Info("Exported account snapshots", "accounts", len(snapshots), "events", seen)
	return nil
}
