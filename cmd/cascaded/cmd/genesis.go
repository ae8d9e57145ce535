package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cascade-dex/cascade/app"
	"github.com/cascade-dex/cascade/pkg/logger"
)

func genesisCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "genesis",
		Short: "Genesis file commands",
	}
	cmd.AddCommand(genesisExportCmd())
	return cmd
}

func genesisExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the current engine and bank state as a genesis document",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			// Servers stay down for an export run.
			cfg.API.Enabled = false
			cfg.Ops.Enabled = false
			cfg.Faucet.Enabled = false
			cfg.Journal.Enabled = false
			cfg.Telemetry.Enabled = false

			a, err := app.New(cfg, logger.NewNop())
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := context.Background()
			ammState, err := a.Keeper.ExportGenesis(ctx)
			if err != nil {
				return fmt.Errorf("export engine genesis: %w", err)
			}
			bankState, err := a.Bank.ExportGenesis()
			if err != nil {
				return fmt.Errorf("export bank genesis: %w", err)
			}

			doc := &genesisDoc{Amm: ammState, Bank: bankState}
			data, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal genesis: %w", err)
			}
			cmd.Println(string(data))
			return nil
		},
	}
	return cmd
}
