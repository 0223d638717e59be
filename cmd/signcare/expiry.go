package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mamadbah2/signcare/internal/domain/models"
	"github.com/mamadbah2/signcare/internal/expiry"
)

type expiryOutput struct {
	Now     string               `json:"now"`
	Summary models.ExpirySummary `json:"summary"`
	Items   []models.ExpiryInfo  `json:"items,omitempty"`
	Areas   []models.AreaGroup   `json:"areas,omitempty"`
}

func newExpiryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expiry",
		Short: "Computes expiry info for a JSON array of products.",
		Long: `Computes expiry date, days remaining, priority and alert status for every
product in --input, ranked by urgency. With --areas the products that need an
intervention are grouped for route planning instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, _ := cmd.Flags().GetString("input")
			rawNow, _ := cmd.Flags().GetString("now")
			rawStatus, _ := cmd.Flags().GetString("status")
			defaultYears, _ := cmd.Flags().GetInt("default-years")
			areas, _ := cmd.Flags().GetBool("areas")
			rawStrategy, _ := cmd.Flags().GetString("strategy")
			maxKm, _ := cmd.Flags().GetFloat64("max-distance-km")

			now, err := parseInstant(rawNow)
			if err != nil {
				return fmt.Errorf("--now: %w", err)
			}
			status := models.AlertStatus(rawStatus)
			if status != "" && !status.Valid() {
				return fmt.Errorf("--status %q is not one of ok, warning, critical, expired", rawStatus)
			}
			strategy, ok := expiry.ParseStrategy(rawStrategy)
			if !ok {
				return fmt.Errorf("--strategy %q is not one of bucket, grid", rawStrategy)
			}

			var records []models.ExpiryRecord
			if err := readJSONInput(cmd, input, &records); err != nil {
				return err
			}
			for _, record := range records {
				if err := record.Validate(); err != nil {
					return err
				}
			}

			log := commandLogger(cmd)
			defer func() { _ = log.Sync() }()

			engine := expiry.New(expiry.WithDefaultYears(defaultYears), expiry.WithLogger(log.Named("expiry")))
			infos := engine.Infos(records, now)

			out := expiryOutput{Now: now.UTC().Format(time.RFC3339), Summary: expiry.Summarize(infos)}
			if areas {
				actionable := make([]models.ExpiryInfo, 0, len(infos))
				for _, info := range infos {
					if info.AlertStatus != models.AlertOK {
						actionable = append(actionable, info)
					}
				}
				out.Areas = expiry.GroupByArea(actionable, expiry.WithStrategy(strategy), expiry.WithMaxDistanceKm(maxKm))
			} else {
				out.Items = expiry.RankByUrgency(infos, status)
			}

			return writeJSON(cmd, out)
		},
	}

	cmd.Flags().StringP("input", "i", "-", "JSON file with an array of products (- for stdin)")
	cmd.Flags().String("now", "", "Evaluation time, RFC3339 or YYYY-MM-DD (default: current time)")
	cmd.Flags().StringP("status", "s", "", "Keep only products with this alert status")
	cmd.Flags().Int("default-years", expiry.DefaultYears, "Duration applied to unknown film classes")
	cmd.Flags().Bool("areas", false, "Group products needing intervention by area")
	cmd.Flags().String("strategy", string(expiry.StrategyBucket), "Area grouping strategy: bucket or grid")
	cmd.Flags().Float64("max-distance-km", expiry.DefaultMaxDistanceKm, "Cell size for the grid strategy")
	return cmd
}
