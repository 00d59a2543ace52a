// Package utils provides shared utility functions.
package utils

import "fmt"

// FormatPercent renders a fraction as a percentage with two decimals,
// e.g. 0.08 -> "8.00%".
func FormatPercent(fraction float64) string {
	return fmt.Sprintf("%.2f%%", fraction*100)
}

// FormatSignedPercent renders a fraction as a signed percentage,
// e.g. -0.12 -> "-12.00%", 0.03 -> "+3.00%".
func FormatSignedPercent(fraction float64) string {
	sign := ""
	if fraction > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, fraction*100)
}

// FormatVolume renders a share volume with thousands separators.
func FormatVolume(volume float64) string {
	s := fmt.Sprintf("%.0f", volume)
	n := len(s)
	if n <= 3 {
		return s
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	return string(out)
}
