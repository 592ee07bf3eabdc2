package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/wisp167/BookSales/internal/app"
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Seed the database and serve sales reports over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(v)
			if err != nil {
				return err
			}

			application, err := app.New(cfg, logger)
			if err != nil {
				return err
			}
			defer application.Close()

			if err := application.Seed(cmd.Context()); err != nil {
				return err
			}
			if err := application.Start(); err != nil {
				return err
			}

			<-cmd.Context().Done()
			logger.Println("Shutdown Server ...")

			if err := application.Stop(); err != nil {
				return err
			}
			logger.Println("Server exiting")
			return application.Close()
		},
	}
}
