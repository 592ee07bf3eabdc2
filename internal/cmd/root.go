package main

import (
	"context"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/wisp167/BookSales/internal/app"
	"github.com/wisp167/BookSales/internal/config"
	"github.com/wisp167/BookSales/internal/report"
)

func newRootCmd() *cobra.Command {
	v := config.New()

	cmd := &cobra.Command{
		Use:   "booksales [publisher]",
		Short: "Seed the book sales database and print a publisher's sales",
		Long: `Drops and recreates the publisher, book, shop, stock and sale tables,
loads them from the JSON fixture and prints every sale of the given
publisher's books as "title shop price date". The publisher is read from the
argument, or asked for when none is given; digits select it by id, anything
else by name.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.Context(), v, args, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cobra.CheckErr(config.BindFlags(cmd.PersistentFlags(), v))

	cmd.AddCommand(newServeCmd(v), newTokenCmd(v))
	return cmd
}

func setup(v *viper.Viper) (config.Config, *log.Logger, error) {
	logger := log.New(os.Stderr, "", log.Ldate|log.Ltime|log.Lshortfile)

	if err := config.LoadEnvFiles(config.AppFs, v); err != nil {
		return config.Config{}, nil, err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return config.Config{}, nil, err
	}

	logger.Printf("Config: %s", cfg)
	return cfg, logger, nil
}

func runReport(ctx context.Context, v *viper.Viper, args []string, in io.Reader, out io.Writer) error {
	cfg, logger, err := setup(v)
	if err != nil {
		return err
	}

	application, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	defer application.Close()

	if err := application.Seed(ctx); err != nil {
		return err
	}

	var token string
	if len(args) > 0 {
		token = args[0]
	} else {
		token, err = report.NewPrompter(in, out).Ask(ctx)
		if err != nil {
			return err
		}
	}

	if err := application.Report(ctx, token, out); err != nil {
		return err
	}
	return application.Close()
}
