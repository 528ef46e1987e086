package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kilianp07/tripduration/app"
)

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Build featured records from the cleaned trips",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(ctx context.Context, svc *app.Service) error {
			_, err := svc.Features(ctx)
			return err
		})
	},
}

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the candidate models and persist the better one",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(ctx context.Context, svc *app.Service) error {
			_, err := svc.Train(ctx)
			return err
		})
	},
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict trip durations for the featured records",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(ctx context.Context, svc *app.Service) error {
			_, err := svc.Predict(ctx)
			return err
		})
	},
}

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Run features, train and predict in sequence",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(ctx context.Context, svc *app.Service) error {
			return svc.All(ctx)
		})
	},
}
