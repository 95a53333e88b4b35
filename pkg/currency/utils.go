package currency

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// USD amounts carry two fractional digits, crypto amounts eight.
const (
	USDScale    = 2
	CryptoScale = 8
)

// ExpectedAssetAmount converts a USD amount into the crypto amount a user is
// asked to send, at a frozen USD-per-unit rate, rounded to eight places.
func ExpectedAssetAmount(amountUSD, rateUSD decimal.Decimal) (decimal.Decimal, error) {
	if rateUSD.IsZero() || rateUSD.IsNegative() {
		return decimal.Zero, fmt.Errorf("invalid rate %s", rateUSD)
	}
	return amountUSD.DivRound(rateUSD, CryptoScale), nil
}

// RoundUSD normalizes a USD amount to cents precision.
func RoundUSD(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(USDScale)
}

// FormatUSD renders a USD amount for display.
func FormatUSD(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(USDScale)
}

// ParseUSD parses a USD string into an exact decimal rounded to cents.
func ParseUSD(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid USD amount %q: %w", s, err)
	}
	return RoundUSD(d), nil
}
