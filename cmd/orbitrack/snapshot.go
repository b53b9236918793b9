package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/samirrijal/orbitrack/internal/adapters/valkey"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Print the latest snapshot mirrored by a running tracker",
	RunE:  runSnapshot,
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig("orbitrack-snapshot")
	if err != nil {
		return err
	}

	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		return err
	}
	defer cache.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	snap, err := valkey.NewSnapshotMirror(cache, cfg.Valkey.SnapshotTTL).LatestSnapshot(ctx, cfg.Tracker.CatalogNumber)
	if err != nil {
		return fmt.Errorf("catalog %d: %w", cfg.Tracker.CatalogNumber, err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}
