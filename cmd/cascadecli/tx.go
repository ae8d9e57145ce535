package main

import (
	"net/http"

	"github.com/spf13/cobra"
)

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Submit engine transactions (requires --token)",
	}
	cmd.PersistentFlags().String(flagDeadline, "1m", "transaction deadline: unix timestamp or duration from now")
	cmd.AddCommand(
		txAddLiquidityCmd(),
		txRemoveLiquidityCmd(),
		txSwapCmd(),
		txSimulateCmd(),
	)
	return cmd
}

func txAddLiquidityCmd() *cobra.Command {
	var amountAMin, amountBMin, recipient string
	cmd := &cobra.Command{
		Use:   "add-liquidity <tokenA> <tokenB> <amountA> <amountB>",
		Short: "Deposit a token pair for liquidity shares",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			deadline, err := deadlineFrom(cmd)
			if err != nil {
				return err
			}
			body := map[string]any{
				"token_a":          args[0],
				"token_b":          args[1],
				"amount_a_desired": args[2],
				"amount_b_desired": args[3],
				"amount_a_min":     amountAMin,
				"amount_b_min":     amountBMin,
				"recipient":        recipient,
				"deadline":         deadline,
			}
			var out any
			if err := clientFrom(cmd).call(http.MethodPost, "/api/v1/liquidity/add", body, &out); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&amountAMin, "amount-a-min", "0", "minimum accepted amount of tokenA")
	cmd.Flags().StringVar(&amountBMin, "amount-b-min", "0", "minimum accepted amount of tokenB")
	cmd.Flags().StringVar(&recipient, "recipient", "", "share recipient (defaults to the operator address)")
	return cmd
}

func txRemoveLiquidityCmd() *cobra.Command {
	var amountAMin, amountBMin, recipient string
	cmd := &cobra.Command{
		Use:   "remove-liquidity <tokenA> <tokenB> <shares>",
		Short: "Burn liquidity shares for the proportional reserves",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			deadline, err := deadlineFrom(cmd)
			if err != nil {
				return err
			}
			body := map[string]any{
				"token_a":      args[0],
				"token_b":      args[1],
				"liquidity":    args[2],
				"amount_a_min": amountAMin,
				"amount_b_min": amountBMin,
				"recipient":    recipient,
				"deadline":     deadline,
			}
			var out any
			if err := clientFrom(cmd).call(http.MethodPost, "/api/v1/liquidity/remove", body, &out); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&amountAMin, "amount-a-min", "0", "minimum accepted amount of tokenA")
	cmd.Flags().StringVar(&amountBMin, "amount-b-min", "0", "minimum accepted amount of tokenB")
	cmd.Flags().StringVar(&recipient, "recipient", "", "withdrawal recipient (defaults to the operator address)")
	return cmd
}

func txSwapCmd() *cobra.Command {
	var amountOutMin, recipient string
	cmd := &cobra.Command{
		Use:   "swap <tokenIn> <tokenOut> <amountIn>",
		Short: "Swap an exact input amount",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			deadline, err := deadlineFrom(cmd)
			if err != nil {
				return err
			}
			body := map[string]any{
				"amount_in":      args[2],
				"amount_out_min": amountOutMin,
				"path":           []string{args[0], args[1]},
				"recipient":      recipient,
				"deadline":       deadline,
			}
			var out any
			if err := clientFrom(cmd).call(http.MethodPost, "/api/v1/swap", body, &out); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&amountOutMin, "amount-out-min", "1", "minimum accepted output amount")
	cmd.Flags().StringVar(&recipient, "recipient", "", "output recipient (defaults to the operator address)")
	return cmd
}

func txSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate <tokenIn> <tokenOut> <amountIn>",
		Short: "Quote a swap without executing it",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			deadline, err := deadlineFrom(cmd)
			if err != nil {
				return err
			}
			body := map[string]any{
				"amount_in":      args[2],
				"amount_out_min": "1",
				"path":           []string{args[0], args[1]},
				"deadline":       deadline,
			}
			var out any
			if err := clientFrom(cmd).call(http.MethodPost, "/api/v1/swap/simulate", body, &out); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	return cmd
}
