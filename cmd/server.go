package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/vzahanych/weather-forecast/internal/config"
	"github.com/vzahanych/weather-forecast/internal/forecaster"
	"github.com/vzahanych/weather-forecast/internal/server"
	"go.uber.org/zap"
)

func serverCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "server",
		Short:   "Start the forecast HTTP server",
		Long:    `Start the HTTP server that serves validated forecasts from the configured data sources.`,
		PreRunE: initializeServices,
		RunE:    runServer,
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	defer shutdownServices()

	cfg := config.GetConfig()

	log.Info("Starting forecast server",
		zap.String("config_path", configPath),
		zap.Bool("telemetry_enabled", cfg.Telemetry.Enabled),
		zap.Int("server_port", cfg.Server.Port),
		zap.String("default_source", cfg.Forecast.DefaultSource))

	f := forecaster.NewForecaster(&cfg.Forecast, log.Logger, tele)
	srv := server.NewServer(cfg, f, log.Logger, tele)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		if err != nil {
			log.Error("Server error", zap.Error(err))
		}
		return err
	case <-cmd.Context().Done():
		log.Info("Shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Error during server shutdown", zap.Error(err))
			return err
		}

		log.Info("Server shutdown complete")
		return nil
	}
}
