package domain

import (
	"fmt"
	"strings"
)

// Frequency is the number of contribution periods per year.
type Frequency int

const (
	Monthly    Frequency = 12
	Quarterly  Frequency = 4
	Semiannual Frequency = 2
)

// PeriodsPerYear returns the frequency as a plain integer.
func (f Frequency) PeriodsPerYear() int { return int(f) }

// Valid reports whether f is one of the supported contribution frequencies.
func (f Frequency) Valid() bool {
	switch f {
	case Monthly, Quarterly, Semiannual:
		return true
	}
	return false
}

func (f Frequency) String() string {
	switch f {
	case Monthly:
		return "monthly"
	case Quarterly:
		return "quarterly"
	case Semiannual:
		return "semiannual"
	}
	return fmt.Sprintf("frequency(%d)", int(f))
}

// PeriodLabel is the singular noun for one period ("month", "quarter", "half-year").
func (f Frequency) PeriodLabel() string {
	switch f {
	case Monthly:
		return "month"
	case Quarterly:
		return "quarter"
	case Semiannual:
		return "half-year"
	}
	return "period"
}

// ParseFrequency accepts the frequency names used in plan files.
// There is deliberately no default: an empty value is an error.
func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "monthly", "month", "12":
		return Monthly, nil
	case "quarterly", "quarter", "4":
		return Quarterly, nil
	case "semiannual", "semi-annual", "half-yearly", "2":
		return Semiannual, nil
	}
	return 0, invalid("frequency", "must be monthly, quarterly or semiannual, got %q", s)
}

func (f Frequency) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, invalid("frequency", "unsupported value %d", int(f))
	}
	return []byte(f.String()), nil
}

func (f *Frequency) UnmarshalText(b []byte) error {
	v, err := ParseFrequency(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// RateConvention selects how an annual return is turned into a per-period rate.
type RateConvention int

const (
	// Nominal divides the annual rate by the number of periods: r/p.
	Nominal RateConvention = iota
	// Geometric uses the annual-equivalent rate: (1+r)^(1/p) - 1.
	Geometric
)

func (c RateConvention) String() string {
	switch c {
	case Nominal:
		return "nominal"
	case Geometric:
		return "geometric"
	}
	return fmt.Sprintf("convention(%d)", int(c))
}

// ParseRateConvention parses "nominal" or "geometric".
func ParseRateConvention(s string) (RateConvention, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nominal":
		return Nominal, nil
	case "geometric", "effective":
		return Geometric, nil
	}
	return 0, invalid("rate_convention", "must be nominal or geometric, got %q", s)
}

func (c RateConvention) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *RateConvention) UnmarshalText(b []byte) error {
	v, err := ParseRateConvention(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Granularity selects the spacing of projection points.
type Granularity int

const (
	// PerPeriod emits one point per compounding period.
	PerPeriod Granularity = iota
	// PerYear emits one point per year, each year stepped with the closed-form annuity.
	PerYear
)

func (g Granularity) String() string {
	if g == PerYear {
		return "year"
	}
	return "period"
}

// ParseGranularity parses "period" or "year".
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "period", "periodic":
		return PerPeriod, nil
	case "year", "yearly", "annual":
		return PerYear, nil
	}
	return 0, invalid("granularity", "must be period or year, got %q", s)
}

func (g Granularity) MarshalText() ([]byte, error) { return []byte(g.String()), nil }

func (g *Granularity) UnmarshalText(b []byte) error {
	v, err := ParseGranularity(string(b))
	if err != nil {
		return err
	}
	*g = v
	return nil
}
