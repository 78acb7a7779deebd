// Package core provides the pure budget domain: yen amounts, the
// payday-anchored period calculator, and the ledger aggregator.
//
// This file contains yen parsing and formatting helpers used at input
// boundaries.
package core

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ParseYenInput converts a user-entered yen string to an integer amount.
//
// It tolerates a leading yen sign and thousands separators but rejects
// signs, decimals and anything non-numeric. Yen has no fractional unit,
// so "1,200" and "¥1200" both parse to 1200. The result must be
// strictly positive.
func ParseYenInput(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "¥")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, ErrInvalidAmount
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if v <= 0 {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// FormatYen renders an amount as "¥1,234" with thousands separators.
func FormatYen(m Money) string {
	yen := m.Yen
	neg := yen < 0
	if neg {
		yen = -yen
	}
	digits := strconv.FormatInt(yen, 10)
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString("¥")
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
		if len(digits) > lead {
			b.WriteByte(',')
		}
	}
	for i := lead; i < len(digits); i += 3 {
		b.WriteString(digits[i : i+3])
		if i+3 < len(digits) {
			b.WriteByte(',')
		}
	}
	return b.String()
}

// ClampPercent clamps a percentage to [0,100]. Non-finite input (NaN,
// ±Inf) coerces to 0 so malformed values never propagate.
func ClampPercent(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
