package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mamadbah2/signcare/internal/domain/models"
	"github.com/mamadbah2/signcare/pkg/logger"
)

// newRootCmd builds the command tree. Commands read JSON files and print JSON
// to stdout; logs go to stderr.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "signcare",
		Short: "Offline expiry and schedule computations for road-sign maintenance.",
		Long: `signcare runs the film expiry engine and the technician schedule grid over
exported JSON records, without a running server or record source.`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringP("loglevel", "l", "warn", "Set log level. Available: debug, info, warn, error")

	root.AddCommand(newExpiryCmd())
	root.AddCommand(newScheduleCmd())
	return root
}

func commandLogger(cmd *cobra.Command) *zap.Logger {
	level, _ := cmd.Flags().GetString("loglevel")
	log, err := logger.New(level, "console")
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// readJSONInput decodes path into v. "-" reads stdin.
func readJSONInput(cmd *cobra.Command, path string, v any) error {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseInstant reads an RFC3339 timestamp or a plain date (midnight UTC).
// Empty means now.
func parseInstant(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now(), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		return time.Time{}, err
	}
	return d.Time(), nil
}
