package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"equity-trader/internal/engine"
	"equity-trader/internal/logging"
	"equity-trader/internal/marketdata"
	"equity-trader/internal/models"
	"equity-trader/internal/scan"
	"equity-trader/internal/store"
	"equity-trader/pkg/utils"
)

// evaluateResponse is the JSON shape of a single evaluation.
type evaluateResponse struct {
	Ticker               string               `json:"ticker"`
	MarketRegimeOverride models.MarketRegime  `json:"market_regime_override,omitempty"`
	Decision             models.FinalDecision `json:"decision"`
	ReasonLog            []string             `json:"reason_log"`
	ActionPlan           []string             `json:"action_plan"`
}

func newEvaluateCmd(app *App) *cobra.Command {
	var mode string
	var regimeFlag string
	var save bool

	cmd := &cobra.Command{
		Use:   "evaluate TICKER",
		Short: "Evaluate whether a ticker may be bought right now",
		Long: `Run the full decision pipeline for one ticker and print the decision,
the ordered reason log and the action plan.

Sample mode uses built-in snapshots; live mode fetches price history
from Yahoo Finance.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ticker := args[0]

			regime, ok := parseRegime(regimeFlag)
			if !ok {
				return fmt.Errorf("invalid --market-regime %q (want RISK_ON, NEUTRAL or RISK_OFF)", regimeFlag)
			}
			if mode != scan.ModeSample && mode != scan.ModeLive {
				return fmt.Errorf("invalid --mode %q (want sample or live)", mode)
			}

			market := marketdata.SampleMarket(regime)
			var stock models.StockSnapshot
			var report models.DecisionReport
			if mode == scan.ModeLive {
				ctx := cmd.Context()
				if regime == "" {
					if live, err := app.Builder.MarketSnapshot(ctx); err == nil {
						market = live
					} else {
						app.Logger.Warn().Err(err).Msg("falling back to sample market snapshot")
					}
				}
				var err error
				stock, err = app.Builder.StockSnapshot(ctx, ticker)
				if err != nil {
					// Incomplete data never reaches the engine; the caller
					// substitutes a WAIT report.
					stock.Ticker = strings.ToUpper(ticker)
					report = models.DecisionReport{
						Decision:   models.Wait,
						ReasonLog:  []string{fmt.Sprintf("%s (%v)", scan.MsgDataUnavailable, err)},
						ActionPlan: []string{scan.MsgDataReevaluate},
					}
				}
			} else {
				stock = marketdata.SampleStock(ticker)
			}

			if report.Decision == "" {
				report = app.Engine.Evaluate(market, stock, app.Constraints())
			}
			logging.LogEvaluation(app.Logger, stock.Ticker, string(report.Decision), len(report.ReasonLog))

			if save && app.Store != nil {
				record := recordFromReport(stock.Ticker, report)
				if err := app.Store.SaveRecord(cmd.Context(), record); err != nil {
					app.Logger.Warn().Err(err).Msg("failed to save decision record")
				}
			}

			if !output.IsJSON() && stock.Price != 0 {
				output.Dim("price %.2f, avg volume %s, volatility %s, 6m drawdown %s",
					stock.Price,
					utils.FormatVolume(stock.AvgVolume),
					utils.FormatPercent(stock.VolatilityAnnual),
					utils.FormatSignedPercent(stock.Drawdown6M))
			}
			printReport(output, stock.Ticker, report)
			if output.IsJSON() {
				return output.JSON(evaluateResponse{
					Ticker:               stock.Ticker,
					MarketRegimeOverride: regime,
					Decision:             report.Decision,
					ReasonLog:            report.ReasonLog,
					ActionPlan:           report.ActionPlan,
				})
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", scan.ModeSample, "data mode: sample or live")
	cmd.Flags().StringVar(&regimeFlag, "market-regime", "", "override the market regime (RISK_ON, NEUTRAL, RISK_OFF)")
	cmd.Flags().BoolVar(&save, "save", true, "persist the decision to the history store")
	return cmd
}

func printReport(output *Output, ticker string, report models.DecisionReport) {
	if output.IsJSON() {
		return
	}
	output.Bold("=== %s ===", ticker)
	output.Println("(1) Decision")
	output.Println(output.Decision(report.Decision))
	output.Println("(2) Reason Log")
	for _, item := range report.ReasonLog {
		output.Printf("- %s\n", item)
	}
	output.Println("(3) Action Plan")
	for _, item := range report.ActionPlan {
		output.Printf("- %s\n", item)
	}
}

func recordFromReport(ticker string, report models.DecisionReport) *store.DecisionRecord {
	record := &store.DecisionRecord{
		Ticker:     ticker,
		Decision:   report.Decision,
		BlockStage: string(scan.InferBlockStage(report.ReasonLog, report.Decision)),
		ReasonLog:  report.ReasonLog,
		ActionPlan: report.ActionPlan,
	}
	for _, line := range report.ActionPlan {
		if ct, ok := engine.ParseCandidateTypeLine(line); ok {
			record.CandidateType = ct
			break
		}
	}
	return record
}
