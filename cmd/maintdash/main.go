package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jrsteele09/go-maint-dashboard/internal/config"
	"github.com/jrsteele09/go-maint-dashboard/internal/logging"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var envFile string

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "maintdash",
		Short:         "Maintenance dashboard client",
		Long:          "Command line client for the maintenance dashboard API, with a local dev backend.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadEnvFile(envFile); err != nil {
				return err
			}
			cfg := config.New()
			logging.Setup(cfg.GetEnv(), cfg.GetLogLevel())
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading configuration")

	cmd.AddCommand(
		loginCmd(),
		logoutCmd(),
		whoamiCmd(),
		sitesCmd(),
		requestCmd(),
		serveDevCmd(),
	)
	return cmd
}

// loadEnvFile loads path if it exists. Variables already set in the environment win.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("[maintdash] failed to load %s: %w", path, err)
	}
	return nil
}

func execute() error {
	ctx, cancelOnSignal := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancelOnSignal()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		log.Debug().Err(err).Msg("command failed")
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func main() {
	if err := execute(); err != nil {
		os.Exit(1)
	}
}
