package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/tripduration/app"
	"github.com/kilianp07/tripduration/config"
	"github.com/kilianp07/tripduration/infra/logger"
)

var (
	cfgPath  string
	rootPath string
)

var rootCmd = &cobra.Command{
	Use:          "tripduration",
	Short:        "Taxi trip duration batch pipeline",
	Long:         "Builds features from cleaned taxi trips, trains and selects a duration model, and writes batch predictions.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json)")
	rootCmd.PersistentFlags().StringVar(&rootPath, "root", "", "project root holding the data directory (default: working directory; pass the binary's directory to run from anywhere)")
	rootCmd.AddCommand(featuresCmd, trainCmd, predictCmd, allCmd, newRunsCmd())
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// withService loads the configuration, builds the service and hands it to
// fn with a context cancelled on SIGINT or SIGTERM.
func withService(fn func(ctx context.Context, svc *app.Service) error) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg, rootPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	return fn(ctx, svc)
}
