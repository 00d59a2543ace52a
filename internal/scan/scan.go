// Package scan runs the decision pipeline over a list of tickers and
// summarizes the outcome per ticker: final decision, candidate type,
// top blocking reason and the stage that blocked the trade.
package scan

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"equity-trader/internal/engine"
	"equity-trader/internal/marketdata"
	"equity-trader/internal/models"
)

// Data modes.
const (
	ModeSample = "sample"
	ModeLive   = "live"
)

// Messages for scan-level WAIT reports built without invoking the engine.
const (
	MsgDataUnavailable = "Live data incomplete; holding as WAIT."
	MsgDataReevaluate  = "Re-evaluate once data is complete."
)

// Result is the per-ticker summary row of a scan.
type Result struct {
	Ticker        string
	Decision      models.FinalDecision
	CandidateType models.CandidateType
	WaitReasonTop string
	BlockStage    BlockStage
	KeyMetrics    string
	Stock         *models.StockSnapshot
}

// Scanner evaluates tickers against a shared market snapshot.
type Scanner struct {
	engine      *engine.Engine
	builder     *marketdata.Builder
	constraints models.PortfolioConstraints
	logger      zerolog.Logger
}

// New creates a scanner around an engine and a snapshot builder.
func New(eng *engine.Engine, builder *marketdata.Builder, constraints models.PortfolioConstraints, logger zerolog.Logger) *Scanner {
	return &Scanner{engine: eng, builder: builder, constraints: constraints, logger: logger}
}

// LoadTickers reads a ticker list from a file path (one per line) or a
// comma-separated string, uppercased with duplicates removed in order.
func LoadTickers(value string) []string {
	var raw []string
	if info, err := os.Stat(value); err == nil && !info.IsDir() {
		content, err := os.ReadFile(value)
		if err == nil {
			raw = strings.Split(string(content), "\n")
		}
	}
	if raw == nil {
		raw = strings.Split(value, ",")
	}

	seen := make(map[string]bool)
	tickers := make([]string, 0, len(raw))
	for _, item := range raw {
		ticker := strings.ToUpper(strings.TrimSpace(item))
		if ticker == "" || seen[ticker] {
			continue
		}
		seen[ticker] = true
		tickers = append(tickers, ticker)
	}
	return tickers
}

// Run evaluates every ticker and returns one result per ticker. A ticker
// whose data cannot be fetched is recorded as WAIT at the DATA stage
// instead of aborting the scan.
func (s *Scanner) Run(ctx context.Context, tickers []string, mode string, regime models.MarketRegime) []Result {
	market := s.market(ctx, mode, regime)

	results := make([]Result, 0, len(tickers))
	for _, ticker := range tickers {
		result := s.evaluate(ctx, market, ticker, mode)
		s.logger.Debug().
			Str("ticker", result.Ticker).
			Str("decision", string(result.Decision)).
			Str("block_stage", string(result.BlockStage)).
			Msg("scanned ticker")
		results = append(results, result)
	}
	return results
}

func (s *Scanner) market(ctx context.Context, mode string, regime models.MarketRegime) models.MarketSnapshot {
	if mode == ModeLive && s.builder != nil && regime == "" {
		market, err := s.builder.MarketSnapshot(ctx)
		if err == nil {
			return market
		}
		s.logger.Warn().Err(err).Msg("falling back to sample market snapshot")
	}
	return marketdata.SampleMarket(regime)
}

// Whether live snapshots use the adjusted close is decided by the data
// configuration the builder was constructed with.
func (s *Scanner) evaluate(ctx context.Context, market models.MarketSnapshot, ticker, mode string) Result {
	var stock *models.StockSnapshot
	var report models.DecisionReport

	if mode == ModeLive {
		snapshot, err := s.builder.StockSnapshot(ctx, ticker)
		if err != nil {
			report = models.DecisionReport{
				Decision:  models.Wait,
				ReasonLog: []string{fmt.Sprintf("%s (%v)", MsgDataUnavailable, err)},
				ActionPlan: []string{
					MsgDataReevaluate,
				},
			}
			return s.summarize(ticker, report, nil)
		}
		stock = &snapshot
	} else {
		snapshot := marketdata.SampleStock(ticker)
		stock = &snapshot
	}

	report = s.engine.Evaluate(market, *stock, s.constraints)
	return s.summarize(ticker, report, stock)
}

func (s *Scanner) summarize(ticker string, report models.DecisionReport, stock *models.StockSnapshot) Result {
	result := Result{
		Ticker:     ticker,
		Decision:   report.Decision,
		BlockStage: InferBlockStage(report.ReasonLog, report.Decision),
		KeyMetrics: FormatKeyMetrics(stock),
		Stock:      stock,
	}
	for _, line := range report.ActionPlan {
		if ct, ok := engine.ParseCandidateTypeLine(line); ok {
			result.CandidateType = ct
			break
		}
	}
	if report.Decision == models.Wait {
		result.WaitReasonTop = SummarizeWaitReason(report.ReasonLog)
	}
	return result
}

// FormatKeyMetrics renders the derived ratios a reviewer needs to judge a
// row at a glance. Ratios with a zero denominator are omitted.
func FormatKeyMetrics(stock *models.StockSnapshot) string {
	if stock == nil {
		return ""
	}
	parts := make([]string, 0, 5)
	if stock.MA200 != 0 {
		parts = append(parts, fmt.Sprintf("price_to_ma200=%.4f", stock.Price/stock.MA200))
	}
	parts = append(parts,
		fmt.Sprintf("volatility_annual=%.4f", stock.VolatilityAnnual),
		fmt.Sprintf("drawdown_6m=%.4f", stock.Drawdown6M),
	)
	if stock.AvgVolume != 0 {
		parts = append(parts, fmt.Sprintf("volume_ratio=%.4f", stock.Volume/stock.AvgVolume))
	}
	if stock.MA50 != 0 {
		distance := stock.Price - stock.MA50
		if distance < 0 {
			distance = -distance
		}
		parts = append(parts, fmt.Sprintf("ma50_distance=%.4f", distance/stock.MA50))
	}
	return strings.Join(parts, ", ")
}
