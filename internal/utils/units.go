package utils

import (
	"fmt"
	"math/big"

	sdkmath "cosmossdk.io/math"
	"github.com/shopspring/decimal"
)

const maxUnitDecimals = 77

// ParseUnits converts a human readable decimal amount such as "1000.5" into
// base units with the given number of decimals.
func ParseUnits(amount string, decimals uint8) (sdkmath.Uint, error) {
	if decimals > maxUnitDecimals {
		return sdkmath.Uint{}, fmt.Errorf("decimals %d exceed %d", decimals, maxUnitDecimals)
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return sdkmath.Uint{}, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	if d.IsNegative() {
		return sdkmath.Uint{}, fmt.Errorf("amount %q is negative", amount)
	}

	scaled := d.Shift(int32(decimals))
	if !scaled.IsInteger() {
		return sdkmath.Uint{}, fmt.Errorf("amount %q has more than %d decimals", amount, decimals)
	}
	return toUint(scaled.BigInt())
}

// FormatUnits renders base units as a decimal string, trimming trailing zeros.
func FormatUnits(amount sdkmath.Uint, decimals uint8) string {
	if amount.IsNil() {
		return "0"
	}
	return decimal.NewFromBigInt(amount.BigInt(), -int32(decimals)).String()
}

func toUint(i *big.Int) (u sdkmath.Uint, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("amount out of range: %v", r)
		}
	}()
	return sdkmath.NewUintFromBigInt(i), nil
}
