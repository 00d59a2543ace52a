package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"equity-trader/internal/logging"
	"equity-trader/internal/models"
	"equity-trader/internal/scan"
)

func newScanCmd(app *App) *cobra.Command {
	var tickersFlag string
	var mode string
	var regimeFlag string
	var useAdjustedClose bool
	var resultsDir string

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Evaluate a list of tickers and write CSV and markdown reports",
		Long: `Run the decision pipeline over a ticker list and summarize the outcome
per ticker: decision, candidate type, top blocking reason and the stage
that blocked the trade. Reports are written under the results directory
as scan_<timestamp>.csv and scan_<timestamp>.md.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			tickers := scan.LoadTickers(tickersFlag)
			if len(tickers) == 0 {
				return fmt.Errorf("ticker list is empty")
			}
			regime, ok := parseRegime(regimeFlag)
			if !ok {
				return fmt.Errorf("invalid --market-regime %q (want RISK_ON, NEUTRAL or RISK_OFF)", regimeFlag)
			}
			if mode != scan.ModeSample && mode != scan.ModeLive {
				return fmt.Errorf("invalid --mode %q (want sample or live)", mode)
			}
			if useAdjustedClose {
				app.Config.Data.UseAdjustedClose = true
			}

			scanner := scan.New(app.Engine, app.Builder, app.Constraints(), app.Logger)
			results := scanner.Run(cmd.Context(), tickers, mode, regime)

			var approved, waiting, rejected int
			for _, result := range results {
				switch result.Decision {
				case models.Approve:
					approved++
				case models.Wait:
					waiting++
				case models.Reject:
					rejected++
				}
			}
			logging.LogScan(app.Logger, len(tickers), approved, waiting, rejected)

			if err := os.MkdirAll(resultsDir, 0o755); err != nil {
				return fmt.Errorf("creating results directory: %w", err)
			}
			timestamp := time.Now().Format("20060102_1504")
			csvPath := filepath.Join(resultsDir, fmt.Sprintf("scan_%s.csv", timestamp))
			mdPath := filepath.Join(resultsDir, fmt.Sprintf("scan_%s.md", timestamp))
			if err := scan.WriteCSV(csvPath, results); err != nil {
				return err
			}
			if err := scan.WriteMarkdown(mdPath, results); err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"tickers":  len(tickers),
					"approved": approved,
					"waiting":  waiting,
					"rejected": rejected,
					"csv":      csvPath,
					"markdown": mdPath,
				})
			}

			output.Bold("Scanned %d tickers: %d APPROVE / %d WAIT / %d REJECT", len(tickers), approved, waiting, rejected)
			output.Printf("Saved CSV: %s\n", csvPath)
			output.Printf("Saved Markdown: %s\n", mdPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&tickersFlag, "tickers", "", "comma-separated tickers or a file with one ticker per line")
	cmd.Flags().StringVar(&mode, "mode", scan.ModeLive, "data mode: sample or live")
	cmd.Flags().StringVar(&regimeFlag, "market-regime", "", "override the market regime (RISK_ON, NEUTRAL, RISK_OFF)")
	cmd.Flags().BoolVar(&useAdjustedClose, "use-adjusted-close", false, "use the adjusted close price when available")
	cmd.Flags().StringVar(&resultsDir, "results-dir", "results", "directory for scan reports")
	cmd.MarkFlagRequired("tickers")
	return cmd
}
