package cmd

import (
	"context"
	"encoding/json"
	"time"

	"github.com/spf13/cobra"
	"github.com/vzahanych/weather-forecast/internal/config"
	"github.com/vzahanych/weather-forecast/internal/forecaster"
)

func fetchCmd() *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:     "fetch",
		Short:   "Fetch one validated forecast and print it as JSON",
		Args:    cobra.NoArgs,
		PreRunE: initializeServices,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer shutdownServices()

			cfg := config.GetConfig()
			f := forecaster.NewForecaster(&cfg.Forecast, log.Logger, tele)

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(cfg.Forecast.Timeout+5)*time.Second)
			defer cancel()

			forecast, err := f.GetForecast(ctx, source)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(forecast)
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", "", "data source name (default: forecast.default_source)")

	return cmd
}
