package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"pokedex_bot/logger"
	"pokedex_bot/services"
)

func newVerifyCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check that the configured credentials can log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if err := cfg.Twitter.Credentials.Validate(); err != nil {
				return err
			}
			client := services.NewTwitterClient(cfg.Twitter.Credentials, services.TwitterClientConfig{
				APIBaseURL: cfg.Twitter.APIBaseURL,
				Timeout:    time.Duration(cfg.Twitter.TimeoutSec) * time.Second,
			})

			account, err := client.VerifyCredentials(cmd.Context())
			if err != nil {
				return err
			}
			logger.Info("凭证有效",
				"screen_name", account.ScreenName,
				"name", account.Name,
				"statuses", account.StatusesCount,
				"followers", account.FollowersCount)
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as @%s (%s)\n", account.ScreenName, account.Name)
			return nil
		},
	}
}
