package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Mafufuyu/DriveLens/internal/app"
	"github.com/Mafufuyu/DriveLens/internal/config"
)

const version = "0.1.0"

var (
	flagSource   string
	flagEndpoint string
	flagInterval int
	flagWindow   bool
)

var rootCmd = &cobra.Command{
	Use:     "drivelens",
	Short:   "Edge capture agent: sample camera frames and offload them for cloud inference",
	Version: version,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Capture frames and upload samples to the inference endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig(cmd)

		application, err := app.New(cfg)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return application.Run(ctx)
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent captures from the local history database",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, err := cmd.Flags().GetInt("limit")
		if err != nil {
			return err
		}

		application, err := app.New(loadConfig(cmd))
		if err != nil {
			return err
		}
		return application.History(limit)
	},
}

// loadConfig reads the environment configuration and applies any CLI flag
// overrides the user set explicitly.
func loadConfig(cmd *cobra.Command) *config.Config {
	cfg := config.Load()

	if cmd.Flags().Changed("source") {
		cfg.Source = flagSource
	}
	if cmd.Flags().Changed("endpoint") {
		cfg.EndpointURL = flagEndpoint
	}
	if cmd.Flags().Changed("interval") {
		cfg.CaptureInterval = flagInterval
	}
	if cmd.Flags().Changed("window") {
		cfg.ShowWindow = flagWindow
	}
	return cfg
}

func init() {
	runCmd.Flags().StringVarP(&flagSource, "source", "s", "0", "Camera index or video file path")
	runCmd.Flags().StringVarP(&flagEndpoint, "endpoint", "e", "", "Inference endpoint URL")
	runCmd.Flags().IntVarP(&flagInterval, "interval", "i", 2, "Seconds between upload samples")
	runCmd.Flags().BoolVarP(&flagWindow, "window", "w", false, "Show the live stream in a window")

	historyCmd.Flags().IntP("limit", "n", 20, "Number of history rows to show")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
