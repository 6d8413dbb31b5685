package main

import (
	"fmt"
	"strings"

	"github.com/delocator/delocator/internal/config"
	"github.com/delocator/delocator/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var anonymizeCmd = &cobra.Command{
	Use:   "anonymize <address>",
	Short: "Anonymize a single address and print the result",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustLoad()
		logger := setupLogger(cfg.Env)
		appMetrics := metrics.NewMetrics(prometheus.NewRegistry())

		engine, _, _, err := buildEngine(cfg, logger, appMetrics)
		if err != nil {
			return err
		}

		address := strings.Join(args, " ")
		result, err := engine.Anonymize(cmd.Context(), address)
		if err != nil {
			return err
		}

		if result.FromSaved {
			fmt.Fprintln(cmd.OutOrStdout(), "Saved location reused.")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", result.Label, result.Category)
		fmt.Fprintf(cmd.OutOrStdout(), "  at %.6f, %.6f (original %.6f, %.6f)\n",
			result.Coordinates.Latitude, result.Coordinates.Longitude,
			result.OriginalCoordinates.Latitude, result.OriginalCoordinates.Longitude)
		return nil
	},
}

var savedCmd = &cobra.Command{
	Use:   "saved",
	Short: "List saved anonymized locations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := config.MustLoad()
		logger := setupLogger(cfg.Env)
		appMetrics := metrics.NewMetrics(prometheus.NewRegistry())

		_, locationStore, _, err := buildEngine(cfg, logger, appMetrics)
		if err != nil {
			return err
		}

		records, err := locationStore.Load()
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No saved locations found.")
			return nil
		}

		for _, record := range records {
			fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s", record.Icon.Label(), record.Address)
			if record.Description != "" {
				fmt.Fprintf(cmd.OutOrStdout(), ": %s", record.Description)
			}
			fmt.Fprintln(cmd.OutOrStdout())
		}
		return nil
	},
}
