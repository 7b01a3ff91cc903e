package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agromitra/agromitra/internal/config"
	"github.com/agromitra/agromitra/internal/server"
)

var (
	configPath string
	serverCmd  = &cobra.Command{
		Use:   "server",
		Short: "Start the advisory HTTP server",
		Long: `Start the HTTP server exposing the weather failover chain,
reverse geocoding and alert generation endpoints.`,
		RunE: runServer,
	}
)

func init() {
	serverCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to configuration file (default: ./config.yaml)")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()

	log.Info("Starting advisory server",
		zap.String("config_path", configPath),
		zap.Bool("primary_configured", cfg.Sources.Primary.APIKey != ""),
		zap.Bool("secondary_configured", cfg.Sources.Secondary.APIKey != ""),
		zap.Bool("telemetry_enabled", cfg.Telemetry.Enabled),
		zap.Int("server_port", cfg.Server.Port))

	srv := server.NewServer(log, tele)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		log.Error("Server error", zap.Error(err))
		return err
	case <-cmd.Context().Done():
		log.Info("Shutting down server")

		if err := srv.Shutdown(); err != nil {
			log.Error("Error during server shutdown", zap.Error(err))
			return err
		}

		log.Info("Server shutdown complete")
		return nil
	}
}
