package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"task-market.com/task-market/internal/auth"
	config "task-market.com/task-market/internal/configs"
)

var tokenTTL time.Duration

var tokenCmd = &cobra.Command{
	Use:   "token <account-id>",
	Short: "Issue a session token for an account (local development)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		ttl := tokenTTL
		if ttl <= 0 {
			ttl = time.Duration(cfg.JWTTTLMinutes) * time.Minute
		}

		token, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, ttl).Issue(args[0])
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "token lifetime (defaults to JWT_TTL_MINUTES)")
	rootCmd.AddCommand(tokenCmd)
}
