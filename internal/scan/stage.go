package scan

import (
	"strings"

	"equity-trader/internal/engine"
	"equity-trader/internal/models"
)

// BlockStage names the pipeline stage that blocked a non-APPROVE ticker.
type BlockStage string

// Block stages, ordered by pipeline position.
const (
	StageData         BlockStage = "DATA"
	StageHardGate     BlockStage = "HARD_GATE"
	StageCandidate    BlockStage = "CANDIDATE"
	StageEntryTrigger BlockStage = "ENTRY_TRIGGER"
	StageNone         BlockStage = "NONE"
)

// Reason-log lines are matched against the pipeline's fixed message
// constants rather than scanned for keywords, so a wording change in one
// stage cannot silently reclassify another.
var candidateMessages = map[string]bool{
	engine.MsgCandidateConflict:  true,
	engine.MsgCandidateUndecided: true,
}

var entryMessages = map[string]bool{
	engine.MsgTrendEntryMiss:     true,
	engine.MsgMeanRevEntryMiss:   true,
	engine.MsgDefensiveEntryMiss: true,
}

var hardGateMessages = map[string]bool{
	engine.MsgLiquidityReject:       true,
	engine.MsgVolatilityWait:        true,
	engine.MsgRegimeMismatchReject:  true,
	engine.MsgEventRiskWait:         true,
	engine.MsgBusinessClarityReject: true,
}

func isDataMessage(line string) bool {
	return strings.HasPrefix(line, MsgDataUnavailable)
}

// isBlocking reports whether a reason-log line explains why the trade did
// not go through. Pass confirmations, regime classifications and the
// per-rule diagnostics are informational.
func isBlocking(line string) bool {
	return isDataMessage(line) ||
		candidateMessages[line] ||
		entryMessages[line] ||
		hardGateMessages[line] ||
		line == engine.MsgTrendPullbackMiss ||
		line == engine.MsgMeanReversionMiss ||
		line == engine.MsgDefensiveMiss
}

// InferBlockStage maps a report's reason log to the earliest pipeline
// stage that blocked it. APPROVE reports block nowhere.
func InferBlockStage(reasonLog []string, decision models.FinalDecision) BlockStage {
	if decision == models.Approve {
		return StageNone
	}

	for _, line := range reasonLog {
		if isDataMessage(line) {
			return StageData
		}
	}
	for _, line := range reasonLog {
		if hardGateMessages[line] {
			return StageHardGate
		}
	}
	for _, line := range reasonLog {
		if candidateMessages[line] {
			return StageCandidate
		}
	}
	for _, line := range reasonLog {
		if entryMessages[line] {
			return StageEntryTrigger
		}
	}
	return StageHardGate
}

// SummarizeWaitReason picks the last blocking line of a WAIT report's
// reason log.
func SummarizeWaitReason(reasonLog []string) string {
	for i := len(reasonLog) - 1; i >= 0; i-- {
		if isBlocking(reasonLog[i]) {
			return reasonLog[i]
		}
	}
	return "(no blocking reason detected)"
}
