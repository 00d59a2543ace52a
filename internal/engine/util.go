package engine

import "strings"

// safeRatio divides x by y, degrading to 0 on a zero denominator. Every
// ratio in the pipeline goes through this guard so malformed snapshots
// produce a sentinel instead of a panic or Inf.
func safeRatio(x, y float64) float64 {
	if y == 0 {
		return 0
	}
	return x / y
}

func passFail(ok bool) string {
	if ok {
		return "PASS"
	}
	return "FAIL"
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

func splitLines(message string) []string {
	if message == "" {
		return []string{""}
	}
	return strings.Split(message, "\n")
}
