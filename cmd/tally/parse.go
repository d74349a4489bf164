package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/tally/internal/extract"
)

func newParseCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "parse <message>",
		Short: "Show what a message would log, without submitting it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			if date != "" {
				d, err := time.ParseInLocation("2006-01-02", date, time.Local)
				if err != nil {
					return fmt.Errorf("invalid --date %q: %w", date, err)
				}
				now = d
			}

			parsed, err := extract.Parse(strings.Join(args, " "), now)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(parsed)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "resolve relative days against this date (YYYY-MM-DD)")

	return cmd
}
