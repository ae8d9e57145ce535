package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cascade-dex/cascade/app"
	"github.com/cascade-dex/cascade/pkg/logger"
)

func startCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the engine daemon",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log := logger.New("cascaded", cfg.LogLevel)

			a, err := app.New(cfg, log)
			if err != nil {
				return err
			}

			if err := importGenesisIfFresh(a, cfg.HomeDir); err != nil {
				a.Close()
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.Run(ctx)
		},
	}
	return cmd
}

// importGenesisIfFresh loads config/genesis.json into an empty database.
// A node with existing state ignores the file.
func importGenesisIfFresh(a *app.App, homeDir string) error {
	supply, err := a.Keeper.GetShareSupply(context.Background())
	if err != nil {
		return err
	}
	pools, err := a.Keeper.GetAllPools()
	if err != nil {
		return err
	}
	if !supply.IsZero() || len(pools) > 0 {
		return nil
	}

	path := filepath.Join(homeDir, "config", "genesis.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read genesis: %w", err)
	}

	var doc genesisDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse genesis: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	if err := a.Bank.InitGenesis(ctx, doc.Bank); err != nil {
		return fmt.Errorf("import bank genesis: %w", err)
	}
	if err := a.Keeper.InitGenesis(ctx, doc.Amm); err != nil {
		return fmt.Errorf("import engine genesis: %w", err)
	}
	return nil
}
