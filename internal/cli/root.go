// Package cli provides the command-line interface for the decision engine.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"equity-trader/internal/config"
	"equity-trader/internal/engine"
	"equity-trader/internal/logging"
	"equity-trader/internal/marketdata"
	"equity-trader/internal/models"
	"equity-trader/internal/store"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies.
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Engine  *engine.Engine
	Builder *marketdata.Builder
	Store   store.DecisionStore
}

// Constraints returns the portfolio constraints from configuration with
// defaults applied.
func (a *App) Constraints() models.PortfolioConstraints {
	return models.PortfolioConstraints{
		MaxPositionPct:   a.Config.Constraints.MaxPositionPct,
		TrancheCount:     a.Config.Constraints.TrancheCount,
		MaxRiskPct:       a.Config.Constraints.MaxRiskPct,
		TargetVolatility: a.Config.Constraints.TargetVolatility,
	}.WithDefaults()
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config:  cfg,
		Logger:  logger,
		Engine:  engine.NewDefault(cfg.Gates.MinAvgVolume, cfg.Gates.MaxVolatility),
		Builder: marketdata.NewBuilder(marketdata.NewYahooSource(), cfg),
	}

	dbPath := config.DefaultConfigDir() + "/trader.db"
	decisionStore, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to initialize store, decision history unavailable")
	} else {
		app.Store = decisionStore
		logger.Debug().Msg("SQLite store initialized")
	}

	rootCmd := &cobra.Command{
		Use:   "trader",
		Short: "Equity trade decision engine",
		Long: `Equity Trader evaluates whether a stock may be bought right now.

Each evaluation classifies the market regime, runs hard risk gates,
matches the stock against candidate setups, checks entry triggers and
sizes the position, producing an APPROVE, WAIT or REJECT with a full
reason log and action plan.

Use 'trader help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/equity-trader)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newEvaluateCmd(app))
	rootCmd.AddCommand(newScanCmd(app))
	rootCmd.AddCommand(newHistoryCmd(app))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"version": Version})
			} else {
				output.Printf("Equity Trader v%s\n", Version)
			}
		},
	}
}

// parseRegime maps a --market-regime flag value to a regime override.
// An empty value means no override.
func parseRegime(value string) (models.MarketRegime, bool) {
	switch value {
	case "":
		return "", true
	case string(models.RegimeRiskOn):
		return models.RegimeRiskOn, true
	case string(models.RegimeNeutral):
		return models.RegimeNeutral, true
	case string(models.RegimeRiskOff):
		return models.RegimeRiskOff, true
	}
	return "", false
}
