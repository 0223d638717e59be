package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mamadbah2/signcare/internal/domain/models"
	"github.com/mamadbah2/signcare/internal/service/calendar"
)

// fileMaintenances serves maintenances decoded from an input file.
type fileMaintenances []models.ScheduledMaintenance

func (f fileMaintenances) ListMaintenances(_ context.Context, from, to models.Date) ([]models.ScheduledMaintenance, error) {
	var out []models.ScheduledMaintenance
	for _, m := range f {
		if m.ScheduledDate.Before(from) || m.ScheduledDate.After(to) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func newScheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Renders the calendar for a JSON array of scheduled maintenances.",
		Long: `Renders the day (or with --week the Monday-start week) containing --date,
with half-hour slots, hourly workload and overlapping interventions per employee.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, _ := cmd.Flags().GetString("input")
			rawDate, _ := cmd.Flags().GetString("date")
			employee, _ := cmd.Flags().GetString("employee")
			week, _ := cmd.Flags().GetBool("week")

			if rawDate == "" {
				return errors.New("--date is required")
			}
			date, err := models.ParseDate(rawDate)
			if err != nil {
				return fmt.Errorf("--date: %w", err)
			}

			var records []models.ScheduledMaintenance
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

			svc := calendar.NewService(fileMaintenances(records), nil, log.Named("svc.calendar"))
			if week {
				view, err := svc.Week(cmd.Context(), date, employee)
				if err != nil {
					return err
				}
				return writeJSON(cmd, view)
			}

			view, err := svc.Day(cmd.Context(), date, employee)
			if err != nil {
				return err
			}
			return writeJSON(cmd, view)
		},
	}

	cmd.Flags().StringP("input", "i", "-", "JSON file with an array of maintenances (- for stdin)")
	cmd.Flags().StringP("date", "d", "", "Date to render, YYYY-MM-DD")
	cmd.Flags().StringP("employee", "e", "", "Restrict to one employee id")
	cmd.Flags().Bool("week", false, "Render the whole week containing --date")
	return cmd
}
