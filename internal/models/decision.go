package models

// MarketRegime is the coarse market risk classification.
type MarketRegime string

const (
	RegimeRiskOn  MarketRegime = "RISK_ON"
	RegimeNeutral MarketRegime = "NEUTRAL"
	RegimeRiskOff MarketRegime = "RISK_OFF"
)

// GateDecision is the outcome of a single eligibility gate.
// Severity order: REJECT > WAIT > PASS.
type GateDecision string

const (
	GatePass   GateDecision = "PASS"
	GateWait   GateDecision = "WAIT"
	GateReject GateDecision = "REJECT"
)

// CandidateType is one of three mutually-exclusive trade setups.
type CandidateType string

const (
	TrendPullback   CandidateType = "TREND_PULLBACK"
	MeanReversion   CandidateType = "MEAN_REVERSION"
	DefensiveIncome CandidateType = "DEFENSIVE_INCOME"
)

// CandidateTypes lists every candidate type in rule-evaluation order.
func CandidateTypes() []CandidateType {
	return []CandidateType{TrendPullback, MeanReversion, DefensiveIncome}
}

// EntryDecision is the outcome of an entry-trigger rule.
type EntryDecision string

const (
	EntryAllowed        EntryDecision = "ENTRY_ALLOWED"
	WaitForConfirmation EntryDecision = "WAIT_FOR_CONFIRMATION"
	// NoEntry is a reachable mapping target (it maps to a REJECT final
	// decision) that no current entry rule produces.
	NoEntry EntryDecision = "NO_ENTRY"
)

// FinalDecision is the terminal output of an evaluation.
type FinalDecision string

const (
	Approve FinalDecision = "APPROVE"
	Wait    FinalDecision = "WAIT"
	Reject  FinalDecision = "REJECT"
)

// RuleResult is the outcome of a single named rule.
type RuleResult struct {
	Name    string
	Passed  bool
	Message string
}

// GateResult is the outcome of a single gate evaluation.
type GateResult struct {
	Name     string
	Decision GateDecision
	Message  string
}

// ClassificationResult resolves the candidate rules to zero or one type.
// Type is empty when no single candidate type could be determined.
type ClassificationResult struct {
	Type     CandidateType
	Messages []string
}

// EntryResult is the outcome of the entry-trigger evaluation.
type EntryResult struct {
	Decision EntryDecision
	Messages []string
}

// PositionPlan is the volatility-scaled sizing output.
type PositionPlan struct {
	MaxPositionPct float64
	TranchePct     float64
	RiskCapPct     float64
	Messages       []string
}

// DecisionReport is the terminal report of one evaluation: the final
// decision plus ordered, order-significant audit and action lines.
type DecisionReport struct {
	Decision   FinalDecision `json:"decision"`
	ReasonLog  []string      `json:"reason_log"`
	ActionPlan []string      `json:"action_plan"`
}
