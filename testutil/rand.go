package testutil

import (
	"strings"

	sdkmath "cosmossdk.io/math"
	"github.com/brianvoe/gofakeit/v7"
)

// ContainerName appends a random suffix to prefix. Docker refuses a second
// container with the same name, and a previous run may not have been purged.
func ContainerName(prefix string) string {
	return prefix + "-" + strings.ToLower(gofakeit.LetterN(5))
}

// RandomAccount returns a fresh account name for fixtures.
func RandomAccount() string {
	return strings.ToLower(gofakeit.Username()) + "-" + gofakeit.DigitN(4)
}

// RandomAmount returns an amount in [1, max].
func RandomAmount(max uint64) sdkmath.Uint {
	return sdkmath.NewUint(gofakeit.Uint64()%max + 1)
}
