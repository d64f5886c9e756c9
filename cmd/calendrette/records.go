package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"calendrette/internal/domain/period"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

func newAddCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <start YYYY-MM-DD>",
		Short: "Record a period start",
		Long: `Record a period start date.

Without --predicted the next period is predicted from the average of the
recorded cycle lengths, or DEFAULT_CYCLE_LENGTH when there are none.

Examples:
  calendrette add 2025-01-01
  calendrette add 2025-01-01 --predicted 2025-01-29
  calendrette add 2025-01-01 --cycle 30
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			predicted, _ := cmd.Flags().GetString("predicted")
			cycle, _ := cmd.Flags().GetInt("cycle")
			quiet, _ := cmd.Flags().GetBool("quiet")

			return opts.withRuntime(cmd.Context(), func(ctx context.Context, rt *appRuntime) error {
				start, err := time.Parse(period.DateLayout, args[0])
				if err != nil {
					return fmt.Errorf("%w: invalid start date %q", period.ErrValidation, args[0])
				}
				if predicted == "" {
					if cycle <= 0 {
						cycles, err := rt.storage.LoadDerived(ctx)
						if err != nil {
							return err
						}
						cycle = period.SuggestCycleLength(cycles, rt.cfg.DefaultCycleLength)
					}
					predicted = period.Predict(start, cycle)
				}

				id, err := rt.storage.Save(ctx, period.Draft{StartDate: args[0], PredictedDate: predicted})
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				switch {
				case quiet:
					fmt.Fprintln(out, id)
				case id == "":
					fmt.Fprintf(out, "A period starting %s is already recorded.\n", args[0])
				default:
					fmt.Fprintf(out, "Saved period %s: %s, next expected %s.\n", id, args[0], predicted)
				}
				return nil
			})
		},
	}

	cmd.Flags().String("predicted", "", "Predicted start of the next period (YYYY-MM-DD)")
	cmd.Flags().Int("cycle", 0, "Cycle length in days used when --predicted is not given")
	cmd.Flags().Bool("quiet", false, "Minimal output (ID only)")
	return cmd
}

type cycleView struct {
	ID            string `json:"id"`
	StartDate     string `json:"startDate"`
	PredictedDate string `json:"predictedDate"`
	OvulationDate string `json:"ovulationDate,omitempty"`
	CycleDays     int    `json:"cycleDays"`
	CreatedAt     string `json:"createdAt"`
	Valid         bool   `json:"valid"`
}

func newListCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded cycles, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOutput, _ := cmd.Flags().GetBool("json")

			return opts.withRuntime(cmd.Context(), func(ctx context.Context, rt *appRuntime) error {
				records, err := rt.storage.Load(ctx)
				if err != nil {
					return err
				}

				views := make([]cycleView, 0, len(records))
				for _, r := range records {
					d := period.Derive(r)
					v := cycleView{ID: r.ID, StartDate: r.StartDate, PredictedDate: r.PredictedDate, CreatedAt: r.CreatedAt, Valid: d.Valid}
					if d.Valid {
						v.CycleDays = d.CycleDays
						v.OvulationDate = d.OvulationDate.Format(period.DateLayout)
					}
					views = append(views, v)
				}

				out := cmd.OutOrStdout()
				if jsonOutput {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(views)
				}
				if len(views) == 0 {
					fmt.Fprintln(out, "No periods recorded yet.")
					return nil
				}

				t := table.New().
					Border(lipgloss.NormalBorder()).
					Headers("ID", "START", "PREDICTED", "DAYS", "OVULATION")
				for _, v := range views {
					days := "?"
					if v.Valid {
						days = strconv.Itoa(v.CycleDays)
					}
					t.Row(v.ID, v.StartDate, v.PredictedDate, days, v.OvulationDate)
				}
				fmt.Fprintln(out, t.String())
				return nil
			})
		},
	}

	cmd.Flags().Bool("json", false, "Output in JSON format")
	return cmd
}

func newDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a recorded cycle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withRuntime(cmd.Context(), func(ctx context.Context, rt *appRuntime) error {
				if err := rt.storage.Delete(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s.\n", args[0])
				return nil
			})
		},
	}
}
