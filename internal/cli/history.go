package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"equity-trader/internal/models"
	"equity-trader/internal/store"
)

func newHistoryCmd(app *App) *cobra.Command {
	var ticker string
	var decision string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past decisions from the history store",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("decision history store is unavailable")
			}

			filter := store.RecordFilter{Ticker: ticker, Limit: limit}
			if decision != "" {
				switch models.FinalDecision(decision) {
				case models.Approve, models.Wait, models.Reject:
					filter.Decision = models.FinalDecision(decision)
				default:
					return fmt.Errorf("invalid --decision %q (want APPROVE, WAIT or REJECT)", decision)
				}
			}

			records, err := app.Store.GetRecords(cmd.Context(), filter)
			if err != nil {
				return fmt.Errorf("listing decision history: %w", err)
			}

			if output.IsJSON() {
				return output.JSON(records)
			}
			if len(records) == 0 {
				output.Dim("no recorded decisions")
				return nil
			}
			for _, record := range records {
				output.Printf("%s  %-6s %-7s %-16s %s\n",
					record.CreatedAt.Format("2006-01-02 15:04"),
					record.Ticker,
					output.Decision(record.Decision),
					record.CandidateType,
					record.BlockStage)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&ticker, "ticker", "", "filter by ticker")
	cmd.Flags().StringVar(&decision, "decision", "", "filter by final decision")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum records to list")

	cmd.AddCommand(newHistoryShowCmd(app))
	return cmd
}

func newHistoryShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one recorded decision in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("decision history store is unavailable")
			}

			record, err := app.Store.GetRecordByID(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("loading decision %s: %w", args[0], err)
			}
			if output.IsJSON() {
				return output.JSON(record)
			}

			printReport(output, record.Ticker, models.DecisionReport{
				Decision:   record.Decision,
				ReasonLog:  record.ReasonLog,
				ActionPlan: record.ActionPlan,
			})
			output.Dim("recorded at %s", record.CreatedAt.Format("2006-01-02 15:04:05"))
			return nil
		},
	}
}
