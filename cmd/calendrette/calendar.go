package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"calendrette/internal/domain/calendar"
	"calendrette/internal/infra/calendarview"

	"github.com/spf13/cobra"
)

func newCalendarCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show a month with period, prediction and ovulation markers",
		Long: `Show a month grid with markers for every recorded cycle.

Examples:
  calendrette calendar
  calendrette calendar --month 2025-02
  calendrette calendar --agenda
  calendrette calendar --ics cycles.ics
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			monthFlag, _ := cmd.Flags().GetString("month")
			agenda, _ := cmd.Flags().GetBool("agenda")
			icsPath, _ := cmd.Flags().GetString("ics")
			refFlag, _ := cmd.Flags().GetString("reference")

			return opts.withRuntime(cmd.Context(), func(ctx context.Context, rt *appRuntime) error {
				now := time.Now().In(rt.cfg.Location)
				year, month := now.Year(), now.Month()
				if monthFlag != "" {
					m, err := time.Parse("2006-01", monthFlag)
					if err != nil {
						return fmt.Errorf("invalid --month %q, expected YYYY-MM", monthFlag)
					}
					year, month = m.Year(), m.Month()
				}
				var reference time.Time
				if refFlag != "" {
					r, err := time.Parse("2006-01-02", refFlag)
					if err != nil {
						return fmt.Errorf("invalid --reference %q, expected YYYY-MM-DD", refFlag)
					}
					reference = r
				}

				cycles, err := rt.storage.LoadDerived(ctx)
				if err != nil {
					return err
				}
				markers := calendar.NewGenerator().Generate(cycles, reference)

				if icsPath != "" {
					return writeICS(cmd.OutOrStdout(), icsPath, markers, now)
				}

				out := cmd.OutOrStdout()
				if agenda {
					fmt.Fprintln(out, calendarview.FormatAgenda(calendarview.MonthAgenda(year, month, markers)))
					return nil
				}
				fmt.Fprint(out, calendarview.RenderMonth(year, month, markers, now))
				return nil
			})
		},
	}

	cmd.Flags().String("month", "", "Month to show (YYYY-MM, default current)")
	cmd.Flags().Bool("agenda", false, "List marked days instead of drawing a grid")
	cmd.Flags().String("ics", "", "Write every marker to an iCalendar file ('-' for stdout)")
	cmd.Flags().String("reference", "", "Dim cycles that started before this date (YYYY-MM-DD)")
	return cmd
}

func writeICS(stdout io.Writer, path string, markers []calendar.Marker, now time.Time) error {
	if path == "-" {
		return calendarview.WriteICS(stdout, markers, now)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", path, err)
	}
	if err := calendarview.WriteICS(f, markers, now); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Wrote %d markers to %s.\n", len(markers), path)
	return nil
}
