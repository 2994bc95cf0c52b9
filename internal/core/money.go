// This file contains budget amount parsing and formatting. Amounts are kept
// as integer cents to avoid floating-point drift in budget roll-ups.

package core

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Money is a non-negative budget amount in cents. The zero value is a valid
// "no budget" amount.
type Money struct {
	Cents int64
}

// ParseMoney converts a decimal string to Money with half-up rounding on
// the third decimal place. It accepts both dot (12.34) and comma (12,34)
// separators. Zero is allowed; negative values and malformed input are not.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Money{}, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return Money{}, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return Money{}, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return Money{}, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return Money{}, ErrInvalidAmount
	}
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	return Money{Cents: iv*100 + fracCents}, nil
}

// MoneyFromCents wraps a cent amount without validation. Callers loading
// persisted data validate separately.
func MoneyFromCents(cents int64) Money {
	return Money{Cents: cents}
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool { return m.Cents == 0 }

// Add returns m + other.
func (m Money) Add(other Money) Money { return Money{Cents: m.Cents + other.Cents} }

// Sub returns m - other. The result may be negative, which callers use to
// signal budget overage.
func (m Money) Sub(other Money) Money { return Money{Cents: m.Cents - other.Cents} }

// String formats the amount as a plain decimal, e.g. "1234.50".
func (m Money) String() string {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
