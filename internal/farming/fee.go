package farming

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
)

const maxFeeDecimal = 18

// FeeConfig describes the harvest fee. Rate is a percentage with Decimal
// fractional digits: Rate=15, Decimal=1 is 1.5%.
type FeeConfig struct {
	Recipient string
	Rate      uint64
	Decimal   uint8
}

func (f FeeConfig) denominator() sdkmath.Uint {
	d := sdkmath.NewUint(100)
	for range f.Decimal {
		d = d.MulUint64(10)
	}
	return d
}

func (f FeeConfig) Validate() error {
	if f.Decimal > maxFeeDecimal {
		return fmt.Errorf("%w: fee decimal %d exceeds %d", ErrInvalidFee, f.Decimal, maxFeeDecimal)
	}
	if sdkmath.NewUint(f.Rate).GTE(f.denominator()) {
		return fmt.Errorf("%w: fee rate %d with %d decimals is not below 100%%", ErrInvalidFee, f.Rate, f.Decimal)
	}
	if f.Rate > 0 && f.Recipient == "" {
		return fmt.Errorf("%w: fee recipient is required when fee rate is set", ErrInvalidFee)
	}
	return nil
}

// Split returns (net, fee) with fee rounded down, so net+fee == gross.
func (f FeeConfig) Split(gross sdkmath.Uint) (sdkmath.Uint, sdkmath.Uint) {
	fee := gross.MulUint64(f.Rate).Quo(f.denominator())
	return gross.Sub(fee), fee
}
