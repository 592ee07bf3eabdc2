package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/wisp167/BookSales/internal/app"
	"github.com/wisp167/BookSales/internal/config"
)

func newTokenCmd(v *viper.Viper) *cobra.Command {
	var (
		ttl     time.Duration
		subject string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a bearer token for the sales report API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadEnvFiles(config.AppFs, v); err != nil {
				return err
			}
			token, err := app.IssueToken(v.GetString("jwt_key"), subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	cmd.Flags().StringVar(&subject, "subject", "booksales", "token subject")
	return cmd
}
