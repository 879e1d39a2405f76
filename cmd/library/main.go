package main

import (
	"context"
	stdLog "log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/Astemirdum/library-borrow/library/app"
	"github.com/Astemirdum/library-borrow/library/config"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		stdLog.Println("load envs from .env ", err)
	}
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		logLevel   string
		printCfg   bool
		seedOnRun  string
		migrateDn  bool
		seedSource string
	)

	loadConfig := func(extra ...config.Option) (*config.Config, error) {
		var ops []config.Option
		if logLevel != "" {
			lvl, err := zapcore.ParseLevel(logLevel)
			if err != nil {
				return nil, err
			}
			ops = append(ops, config.WithLogLevel(lvl))
		}
		cfg, err := config.NewConfig(append(ops, extra...)...)
		if err != nil {
			return nil, err
		}
		if printCfg {
			config.Print(cfg)
		}
		return cfg, nil
	}

	root := &cobra.Command{
		Use:          "library",
		Short:        "Library borrowing service",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&printCfg, "print-config", false, "print resolved config")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var extra []config.Option
			if seedOnRun != "" {
				extra = append(extra, config.WithSeedFile(seedOnRun))
			}
			cfg, err := loadConfig(extra...)
			if err != nil {
				return err
			}
			return app.Run(cmd.Context(), cfg)
		},
	}
	serve.Flags().StringVar(&seedOnRun, "seed", "", "seed accounts from this YAML file before serving")

	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return app.Migrate(cmd.Context(), cfg, migrateDn)
		},
	}
	migrate.Flags().BoolVar(&migrateDn, "down", false, "revert the latest migration")

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Create accounts listed in a YAML file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return app.Seed(cmd.Context(), cfg, seedSource)
		},
	}
	seedCmd.Flags().StringVar(&seedSource, "file", "", "YAML file with accounts")
	_ = seedCmd.MarkFlagRequired("file")

	watch := &cobra.Command{
		Use:   "watch",
		Short: "Log borrowing slip events from Kafka",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return app.Watch(cmd.Context(), cfg)
		},
	}

	root.AddCommand(serve, migrate, seedCmd, watch)
	return root
}
