package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"udinder-backend/internal/bootstrap"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var probeEndpoint string

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Fetch the bootstrap endpoint once and log the response",
	Run: func(cmd *cobra.Command, args []string) {
		endpoint := probeEndpoint
		if endpoint == "" {
			endpoint = loadConfig().Bootstrap.Endpoint
		} else {
			setupLogger(logLevel)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if _, err := bootstrap.NewProber(nil, endpoint, log.Logger).Run(ctx); err != nil {
			stop()
			os.Exit(1)
		}
	},
}

func init() {
	probeCmd.Flags().StringVar(&probeEndpoint, "endpoint", "", "endpoint to fetch; defaults to bootstrap.endpoint")
	rootCmd.AddCommand(probeCmd)
}
