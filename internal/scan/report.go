package scan

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/gocarina/gocsv"

	"equity-trader/internal/models"
)

type csvRow struct {
	Ticker        string `csv:"ticker"`
	Decision      string `csv:"decision"`
	CandidateType string `csv:"candidate_type"`
	WaitReasonTop string `csv:"wait_reason_top"`
	BlockStage    string `csv:"block_stage"`
	KeyMetrics    string `csv:"key_metrics"`
}

// WriteCSV writes one row per scan result.
func WriteCSV(path string, results []Result) error {
	rows := make([]csvRow, 0, len(results))
	for _, result := range results {
		rows = append(rows, csvRow{
			Ticker:        result.Ticker,
			Decision:      string(result.Decision),
			CandidateType: string(result.CandidateType),
			WaitReasonTop: result.WaitReasonTop,
			BlockStage:    string(result.BlockStage),
			KeyMetrics:    result.KeyMetrics,
		})
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating csv report: %w", err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return fmt.Errorf("writing csv report: %w", err)
	}
	return nil
}

// WriteMarkdown writes the rendered markdown report.
func WriteMarkdown(path string, results []Result) error {
	if err := os.WriteFile(path, []byte(FormatMarkdown(results)), 0o644); err != nil {
		return fmt.Errorf("writing markdown report: %w", err)
	}
	return nil
}

// FormatMarkdown renders the scan summary: per-ticker table, decision and
// block-stage distributions, and a breakdown of entry-trigger WAITs.
func FormatMarkdown(results []Result) string {
	decisions := map[models.FinalDecision]int{}
	candidates := map[models.CandidateType]int{}
	waitReasons := map[string]int{}
	blockStages := map[BlockStage]int{}
	var entryTriggerWaits []Result

	for _, result := range results {
		decisions[result.Decision]++
		if result.CandidateType != "" {
			candidates[result.CandidateType]++
		}
		if result.Decision == models.Wait {
			waitReasons[result.WaitReasonTop]++
			if result.BlockStage == StageEntryTrigger {
				entryTriggerWaits = append(entryTriggerWaits, result)
			}
		}
		blockStages[result.BlockStage]++
	}

	var b strings.Builder
	b.WriteString("# Scan Results\n\n## Summary Table\n\n")
	b.WriteString("| Ticker | Decision | Candidate Type | WAIT Reason | Block Stage | Key Metrics |\n")
	b.WriteString("| --- | --- | --- | --- | --- | --- |\n")
	for _, result := range results {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			result.Ticker, result.Decision, result.CandidateType,
			result.WaitReasonTop, result.BlockStage, result.KeyMetrics)
	}

	b.WriteString("\n## Statistics\n\n### Decision distribution\n")
	for _, decision := range []models.FinalDecision{models.Approve, models.Wait, models.Reject} {
		fmt.Fprintf(&b, "- %s: %d\n", decision, decisions[decision])
	}

	b.WriteString("\n### Candidate type distribution\n")
	if len(candidates) == 0 {
		b.WriteString("- no candidate types\n")
	} else {
		for _, entry := range sortedCounts(candidates) {
			fmt.Fprintf(&b, "- %s: %d\n", entry.key, entry.count)
		}
	}

	b.WriteString("\n### Top WAIT reasons\n")
	if len(waitReasons) == 0 {
		b.WriteString("- no WAIT reasons\n")
	} else {
		for i, entry := range sortedCounts(waitReasons) {
			if i == 5 {
				break
			}
			fmt.Fprintf(&b, "- %s: %d\n", entry.key, entry.count)
		}
	}

	b.WriteString("\n### Block stage distribution\n")
	for _, entry := range sortedCounts(blockStages) {
		fmt.Fprintf(&b, "- %s: %d\n", entry.key, entry.count)
	}

	if decisions[models.Approve] == 0 {
		b.WriteString("\nWarning: zero APPROVE results; entry triggers may be too strict.\n")
	}

	b.WriteString("\n### ENTRY_TRIGGER WAIT analysis\n")
	if len(entryTriggerWaits) == 0 {
		b.WriteString("- no tickers waiting on an entry trigger\n")
	} else {
		writeTriggerAnalysis(&b, entryTriggerWaits)
	}

	return b.String()
}

type countEntry struct {
	key   string
	count int
}

// sortedCounts orders by descending count, ties broken by key, so the
// report is deterministic across runs.
func sortedCounts[K ~string](counts map[K]int) []countEntry {
	entries := make([]countEntry, 0, len(counts))
	for key, count := range counts {
		entries = append(entries, countEntry{key: string(key), count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].key < entries[j].key
	})
	return entries
}
