// Package currency converts between balance keystrokes, BRL display text and decimal values.
//
// Display text has the form "R$ 1.234,56" (negative: "-R$ 1.234,56"): symbol, a space,
// '.' thousands separators and exactly two fraction digits after ','.
package currency

import (
	"math/big"
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

const (
	// Symbol prefixes every display string.
	Symbol = "R$"

	// ZeroDisplay is the canonical display of zero.
	ZeroDisplay = "R$ 0,00"
	// NegativeZeroDisplay is shown once the user has typed a minus but no digits yet.
	NegativeZeroDisplay = "-R$ 0,00"

	minusAfterZero = ZeroDisplay + "-"
)

// leadingNumber matches the float literal a lenient parser accepts at the start of a string.
var leadingNumber = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)`)

// Format turns the raw contents of a balance input into canonical display text.
// The digits typed so far are read as cents.
func Format(raw string) string {
	if raw == minusAfterZero || raw == "-" {
		return NegativeZeroDisplay
	}

	negative := negativeIntent(raw)

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)

	if digits == "" {
		if negative {
			return NegativeZeroDisplay
		}
		return ZeroDisplay
	}

	cents, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return ZeroDisplay
	}

	return render(decimal.NewFromBigInt(cents, -2), negative)
}

// FormatAmount renders a stored value as display text.
func FormatAmount(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	return render(rounded.Abs(), rounded.IsNegative())
}

// Parse converts display text into a signed value. Text that holds no number parses as zero.
func Parse(display string) decimal.Decimal {
	s := strings.Map(func(r rune) rune {
		if r == 'R' || r == '$' || r == '.' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, display)

	s = strings.Replace(s, ",", ".", 1)

	negative := strings.HasPrefix(strings.TrimSpace(display), "-") || strings.Contains(display, "(-")

	s = strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)

	value, ok := parseLeading(s)
	if !ok {
		return decimal.Zero
	}

	if negative && value.IsPositive() {
		value = value.Neg()
	}

	return value
}

// IsNegative reports whether display text shows a negative balance.
func IsNegative(display string) bool {
	return strings.HasPrefix(display, "-") || strings.Contains(display, "(-")
}

// Tone classifies a display string for presentation.
type Tone string

const (
	ToneNegative    Tone = "negative"
	ToneNonNegative Tone = "non-negative"
)

// Classify returns the presentation tone of display text.
func Classify(display string) Tone {
	if IsNegative(display) {
		return ToneNegative
	}
	return ToneNonNegative
}

func negativeIntent(raw string) bool {
	return strings.HasPrefix(strings.TrimSpace(raw), "-") ||
		strings.HasSuffix(raw, "-") ||
		strings.Contains(raw, minusAfterZero)
}

// render formats a non-negative magnitude with pt-BR separators.
func render(magnitude decimal.Decimal, negative bool) string {
	fixed := magnitude.StringFixed(2)
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	b.WriteString(Symbol)
	b.WriteByte(' ')
	b.WriteString(groupThousands(intPart))
	b.WriteByte(',')
	b.WriteString(fracPart)

	return b.String()
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}

	return b.String()
}

func parseLeading(s string) (decimal.Decimal, bool) {
	literal := leadingNumber.FindString(s)
	if literal == "" {
		return decimal.Zero, false
	}

	sign := ""
	if literal[0] == '-' || literal[0] == '+' {
		sign, literal = literal[:1], literal[1:]
	}
	literal = strings.TrimSuffix(literal, ".")
	if strings.HasPrefix(literal, ".") {
		literal = "0" + literal
	}
	if sign == "-" {
		literal = "-" + literal
	}

	value, err := decimal.NewFromString(literal)
	if err != nil {
		return decimal.Zero, false
	}

	return value, true
}
