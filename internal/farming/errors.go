package farming

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnauthorized      = errors.New("not in the whitelist")
	ErrPoolNotFound      = errors.New("pool not found")
	ErrInsufficientStake = errors.New("withdraw amount exceeds staked balance")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrTransferFailed    = errors.New("asset transfer failed")
	ErrInvalidWindow     = errors.New("start time is after end time")
	ErrPoolInactive      = errors.New("pool is not accepting deposits")
	ErrInvalidAsset      = errors.New("invalid asset")
	ErrInvalidFee        = errors.New("invalid fee configuration")
	ErrOverflow          = errors.New("arithmetic overflow")
	ErrInvalidAddress    = errors.New("invalid address")
	ErrInvalidState      = errors.New("invalid engine state")
	ErrCommitFailed      = errors.New("failed to commit operation")
)

func poolNotFound(index uint64) error {
	return fmt.Errorf("%w: index %d", ErrPoolNotFound, index)
}

// recoverArithmetic turns the overflow/underflow panics raised by
// sdkmath.Uint into ErrOverflow. Operations mutate scratch copies only, so
// nothing has been committed when this fires.
func recoverArithmetic(err *error) {
	r := recover()
	if r == nil {
		return
	}
	msg := fmt.Sprint(r)
	if strings.Contains(msg, "overflow") || strings.Contains(msg, "underflow") {
		*err = fmt.Errorf("%w: %s", ErrOverflow, msg)
		return
	}
	panic(r)
}
