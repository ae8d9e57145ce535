package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cascade-dex/cascade/app"
	"github.com/cascade-dex/cascade/pkg/logger"
	ammkeeper "github.com/cascade-dex/cascade/x/amm/keeper"
)

func invariantsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invariants",
		Short: "Check every engine invariant against the stored state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
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

			msg, broken := ammkeeper.AllInvariants(*a.Keeper)(context.Background())
			if broken {
				return fmt.Errorf("invariant broken:\n%s", msg)
			}
			cmd.Println("all invariants hold")
			return nil
		},
	}
	return cmd
}
