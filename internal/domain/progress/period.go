package progress

import (
	"fmt"
	"strconv"
	"strings"
)

// Period is the look-back window, in days, for the period-scoped metrics.
type Period int

const (
	PeriodWeek    Period = 7
	PeriodMonth   Period = 30
	PeriodQuarter Period = 90
)

// DefaultPeriod is used when a request omits the period.
const DefaultPeriod = PeriodMonth

// Days returns the window length.
func (p Period) Days() int { return int(p) }

// Valid reports whether p is one of the selectable windows.
func (p Period) Valid() bool {
	switch p {
	case PeriodWeek, PeriodMonth, PeriodQuarter:
		return true
	}
	return false
}

// ParsePeriod accepts "7", "30", "90" (optionally suffixed with "d").
// An empty string yields DefaultPeriod.
func ParsePeriod(raw string) (Period, error) {
	s := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(raw)), "d")
	if s == "" {
		return DefaultPeriod, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("period %q is not a number", raw)
	}
	p := Period(n)
	if !p.Valid() {
		return 0, fmt.Errorf("period must be one of 7, 30 or 90 days, got %d", n)
	}
	return p, nil
}
