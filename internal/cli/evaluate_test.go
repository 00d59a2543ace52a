package cli

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"equity-trader/internal/config"
	"equity-trader/internal/engine"
	"equity-trader/internal/models"
)

func testApp() *App {
	cfg := config.Default()
	return &App{
		Config: cfg,
		Logger: zerolog.Nop(),
		Engine: engine.NewDefault(cfg.Gates.MinAvgVolume, cfg.Gates.MaxVolatility),
	}
}

func runCommand(t *testing.T, app *App, args ...string) string {
	t.Helper()
	cmd := newEvaluateCmd(app)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return buf.String()
}

func TestEvaluateSampleApprove(t *testing.T) {
	out := runCommand(t, testApp(), "XYZ", "--mode", "sample")

	assert.Contains(t, out, "=== XYZ ===")
	assert.Contains(t, out, "(1) Decision")
	assert.Contains(t, out, "APPROVE")
	assert.Contains(t, out, "(2) Reason Log")
	assert.Contains(t, out, engine.MsgRegimeRiskOn)
	assert.Contains(t, out, "(3) Action Plan")
	assert.Contains(t, out, engine.CandidateTypeLine(models.TrendPullback))
}

func TestEvaluateRegimeOverride(t *testing.T) {
	// TSLA is not a defensive sector, so RISK_OFF rejects it at the
	// regime gate.
	out := runCommand(t, testApp(), "TSLA", "--mode", "sample", "--market-regime", "RISK_OFF")

	assert.Contains(t, out, "REJECT")
	assert.Contains(t, out, engine.MsgRegimeMismatchReject)
}

func TestEvaluateRejectsInvalidFlags(t *testing.T) {
	cmd := newEvaluateCmd(testApp())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"XYZ", "--market-regime", "SIDEWAYS"})
	assert.Error(t, cmd.Execute())

	cmd = newEvaluateCmd(testApp())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"XYZ", "--mode", "replay"})
	assert.Error(t, cmd.Execute())
}

func TestParseRegime(t *testing.T) {
	cases := []struct {
		value string
		want  models.MarketRegime
		ok    bool
	}{
		{"", "", true},
		{"RISK_ON", models.RegimeRiskOn, true},
		{"NEUTRAL", models.RegimeNeutral, true},
		{"RISK_OFF", models.RegimeRiskOff, true},
		{"risk_on", "", false},
		{"SIDEWAYS", "", false},
	}
	for _, tc := range cases {
		regime, ok := parseRegime(tc.value)
		assert.Equal(t, tc.ok, ok, tc.value)
		assert.Equal(t, tc.want, regime, tc.value)
	}
}
