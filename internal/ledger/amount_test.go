package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "5.00", FormatAmount(5_000_000_000))
	assert.Equal(t, "12.34", FormatAmount(12_340_000_000))
	assert.Equal(t, "0.00", FormatAmount(0))
	assert.Equal(t, "0.10", FormatAmount(100_000_000))
}

func TestAmountRoundTrip(t *testing.T) {
	// Converting out to display and back must recover the original integer
	// exactly; the decimal type must not introduce float drift.
	samples := []uint64{
		0,
		1,
		999_999_999,
		1_000_000_000,
		5_000_000_000,
		12_340_000_000,
		18_446_744_073_000_000_000,
	}
	for _, mist := range samples {
		assert.Equal(t, mist, ToSmallestUnit(ToDisplay(mist)), "round trip for %d", mist)
	}
}

func TestToSmallestUnitFloors(t *testing.T) {
	// Fractional smallest units are floored away, never rounded up.
	d := decimal.RequireFromString("1.0000000009")
	assert.Equal(t, uint64(1_000_000_000), ToSmallestUnit(d))

	assert.Equal(t, uint64(0), ToSmallestUnit(decimal.RequireFromString("-3")))
}

func TestParseDisplayAmount(t *testing.T) {
	mist, err := ParseDisplayAmount("12.34")
	assert.NoError(t, err)
	assert.Equal(t, uint64(12_340_000_000), mist)

	_, err = ParseDisplayAmount("not a number")
	assert.Error(t, err)
}
