package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	natsadapter "github.com/samirrijal/orbitrack/internal/adapters/nats"
	"github.com/samirrijal/orbitrack/internal/core/domain"
)

var followCmd = &cobra.Command{
	Use:   "follow",
	Short: "Stream snapshots published by a running tracker",
	Long:  `Prints the last published snapshot and then every new one, one JSON document per line.`,
	RunE:  runFollow,
}

func runFollow(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig("orbitrack-follow")
	if err != nil {
		return err
	}

	nc, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		return err
	}
	defer nc.Drain()

	sub, err := natsadapter.NewSubscriber(nc, logger)
	if err != nil {
		return err
	}
	defer sub.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	enc := json.NewEncoder(cmd.OutOrStdout())
	err = sub.SubscribeSnapshots(ctx, cfg.Tracker.CatalogNumber, func(ctx context.Context, snap *domain.Snapshot) error {
		return enc.Encode(snap)
	})
	if err != nil {
		return err
	}

	logger.Info("following snapshots", "subject", natsadapter.Subject(cfg.Tracker.CatalogNumber))
	<-ctx.Done()
	return nil
}
