package ledger

import (
	"github.com/shopspring/decimal"
)

// ScaleFactor is the number of smallest units (MIST) per display unit (SUI).
// Monetary values cross the wire as smallest-unit integers and are converted
// only at the presentation boundary.
const ScaleFactor = 1_000_000_000

var scale = decimal.NewFromInt(ScaleFactor)

// ToDisplay converts a smallest-unit amount to its display value.
func ToDisplay(mist uint64) decimal.Decimal {
	return decimal.NewFromUint64(mist).Div(scale)
}

// FormatAmount renders a smallest-unit amount for display with two decimal
// places, e.g. 12_340_000_000 -> "12.34".
func FormatAmount(mist uint64) string {
	return ToDisplay(mist).StringFixed(2)
}

// ToSmallestUnit converts a display-decimal amount to smallest units,
// flooring so fractional smallest units are never submitted.
func ToSmallestUnit(display decimal.Decimal) uint64 {
	floored := display.Mul(scale).Floor()
	if floored.IsNegative() {
		return 0
	}
	return floored.BigInt().Uint64()
}

// ParseDisplayAmount parses a user-supplied display amount ("12.34") into
// smallest units.
func ParseDisplayAmount(s string) (uint64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	return ToSmallestUnit(d), nil
}
