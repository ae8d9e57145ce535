package main

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

const (
	flagNode     = "node"
	flagOps      = "ops"
	flagToken    = "token"
	flagDeadline = "deadline"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "cascadecli",
		Short:        "Cascade AMM engine client",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String(flagNode, "http://localhost:8080", "daemon REST endpoint")
	rootCmd.PersistentFlags().String(flagOps, "http://localhost:8081", "daemon ops endpoint")
	rootCmd.PersistentFlags().String(flagToken, "", "bearer token for transaction commands")

	rootCmd.AddCommand(
		loginCmd(),
		queryCmd(),
		txCmd(),
		faucetCmd(),
	)
	return rootCmd
}

func clientFrom(cmd *cobra.Command) *client {
	node, _ := cmd.Flags().GetString(flagNode)
	token, _ := cmd.Flags().GetString(flagToken)
	return newClient(node, token)
}

// deadlineFrom resolves the --deadline flag: an absolute unix timestamp, or
// a duration ahead of now when the flag holds a parseable duration.
func deadlineFrom(cmd *cobra.Command) (int64, error) {
	raw, _ := cmd.Flags().GetString(flagDeadline)
	if ts, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return ts, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("deadline %q is neither a unix timestamp nor a duration", raw)
	}
	return time.Now().Add(d).Unix(), nil
}

func loginCmd() *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Obtain a bearer token for transaction commands",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var resp struct {
				Token     string `json:"token"`
				ExpiresAt int64  `json:"expires_at"`
			}
			err := clientFrom(cmd).call(http.MethodPost, "/auth/login", map[string]string{
				"username": username,
				"password": password,
			}, &resp)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "operator", "operator username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "operator password")
	cmd.MarkFlagRequired("password")
	return cmd
}

func queryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query engine state",
	}
	cmd.AddCommand(
		queryPoolsCmd(),
		queryPriceCmd(),
		queryQuoteCmd(),
		queryBalanceCmd(),
		querySupplyCmd(),
	)
	return cmd
}

func queryPoolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pools [tokenA tokenB]",
		Short: "List all pools, or show one pair",
		Args:  cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/pools"
			if len(args) == 2 {
				path = fmt.Sprintf("/api/v1/pools/%s/%s", args[0], args[1])
			} else if len(args) == 1 {
				return fmt.Errorf("provide both tokens or neither")
			}
			var out any
			if err := clientFrom(cmd).call(http.MethodGet, path, nil, &out); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}

func queryPriceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "price <tokenA> <tokenB>",
		Short: "Spot price of tokenB per unit of tokenA, scaled by 1e18",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out any
			path := fmt.Sprintf("/api/v1/price/%s/%s", args[0], args[1])
			if err := clientFrom(cmd).call(http.MethodGet, path, nil, &out); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}

func queryQuoteCmd() *cobra.Command {
	var amountIn, reserveIn, reserveOut string
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Quote the pricing formula against arbitrary reserves",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var out any
			path := fmt.Sprintf("/api/v1/quote?amount_in=%s&reserve_in=%s&reserve_out=%s",
				amountIn, reserveIn, reserveOut)
			if err := clientFrom(cmd).call(http.MethodGet, path, nil, &out); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&amountIn, "amount-in", "", "input amount")
	cmd.Flags().StringVar(&reserveIn, "reserve-in", "", "input-side reserve")
	cmd.Flags().StringVar(&reserveOut, "reserve-out", "", "output-side reserve")
	cmd.MarkFlagRequired("amount-in")
	cmd.MarkFlagRequired("reserve-in")
	cmd.MarkFlagRequired("reserve-out")
	return cmd
}

func queryBalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance <address>",
		Short: "Liquidity share balance of an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out any
			if err := clientFrom(cmd).call(http.MethodGet, "/api/v1/shares/"+args[0], nil, &out); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}

func querySupplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "supply",
		Short: "Total liquidity share supply",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var out any
			if err := clientFrom(cmd).call(http.MethodGet, "/api/v1/shares/supply", nil, &out); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}

func faucetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "faucet <address>",
		Short: "Claim development tokens from the faucet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, _ := cmd.Flags().GetString(flagOps)
			var out any
			err := newClient(ops, "").call(http.MethodPost, "/faucet/claim",
				map[string]string{"address": args[0]}, &out)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	return cmd
}
