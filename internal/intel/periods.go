package intel

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
)

var monthCodes = []string{"JAN", "FEB", "MAR", "APR", "MAY", "JUN", "JUL", "AUG", "SEP", "OCT", "NOV", "DEC"}

var codePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(JAN|FEB|MAR|APR|MAY|JUN|JUL|AUG|SEP|OCT|NOV|DEC)\d{2}$`),
	regexp.MustCompile(`^\d{2}Q[1-4]$`),
	regexp.MustCompile(`^\d{2}(WIN|SUM)$`),
	regexp.MustCompile(`^(CAL|GY|SY)\d{2}$`),
}

// Codes generates the predefined delivery-period menu starting at startYear
// and spanning years: month codes (MAR26), quarters (26Q1), seasons (26WIN,
// 26SUM), calendar (CAL26), gas year (GY26) and storage year (SY26). The
// result is sorted.
func Codes(startYear, years int) []string {
	var out []string
	for y := startYear; y < startYear+years; y++ {
		yy := y % 100
		for _, m := range monthCodes {
			out = append(out, fmt.Sprintf("%s%02d", m, yy))
		}
		for q := 1; q <= 4; q++ {
			out = append(out, fmt.Sprintf("%02dQ%d", yy, q))
		}
		out = append(out,
			fmt.Sprintf("%02dWIN", yy),
			fmt.Sprintf("%02dSUM", yy),
			fmt.Sprintf("CAL%02d", yy),
			fmt.Sprintf("GY%02d", yy),
			fmt.Sprintf("SY%02d", yy),
		)
	}
	sort.Strings(out)
	return out
}

// ValidPeriod accepts a single day (2026-08-31), a day range
// ("2026-10-01 to 2027-03-31"), a predefined code, or a custom non-empty
// code without whitespace.
func ValidPeriod(period string) bool {
	period = strings.TrimSpace(period)
	if period == "" {
		return false
	}

	if _, err := time.Parse("2006-01-02", period); err == nil {
		return true
	}

	if from, to, ok := strings.Cut(period, " to "); ok {
		start, errFrom := time.Parse("2006-01-02", strings.TrimSpace(from))
		end, errTo := time.Parse("2006-01-02", strings.TrimSpace(to))
		return errFrom == nil && errTo == nil && !end.Before(start)
	}

	upper := strings.ToUpper(period)
	for _, re := range codePatterns {
		if re.MatchString(upper) {
			return true
		}
	}

	// Custom period codes are allowed, as long as they look like a code.
	return !strings.ContainsAny(period, " \t")
}
