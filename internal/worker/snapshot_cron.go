package worker

import (
	"context"
	"fmt"
	"time"

	"casaceja/internal/model"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// PriceSnapshotter archives the current price list.
type PriceSnapshotter interface {
	SnapshotPrecios(ctx context.Context) (*model.Snapshot, error)
}

const snapshotTimeout = 2 * time.Minute

// StartSnapshotScheduler runs the price snapshot on the standard 5-field cron
// spec until ctx is cancelled. The returned scheduler is already running.
func StartSnapshotScheduler(ctx context.Context, spec string, s PriceSnapshotter) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() { runSnapshot(ctx, s) })
	if err != nil {
		return nil, fmt.Errorf("snapshot_cron: invalid spec %q: %w", spec, err)
	}
	c.Start()
	log.Info().Str("spec", spec).Msg("snapshot_cron: started")

	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
		log.Info().Msg("snapshot_cron: shutting down")
	}()
	return c, nil
}

func runSnapshot(ctx context.Context, s PriceSnapshotter) {
	if ctx.Err() != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, snapshotTimeout)
	defer cancel()

	snap, err := s.SnapshotPrecios(ctx)
	if err != nil {
		log.Error().Err(err).Msg("snapshot_cron: price snapshot failed")
		return
	}
	log.Info().Str("id", snap.ID.String()).Int("bytes", len(snap.Datos)).Msg("snapshot_cron: price snapshot stored")
}
