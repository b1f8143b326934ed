// Copyright (c) 2026 The StakeVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reverts defines the rejection errors surfaced by ledger operations.
// A revert is a precondition failure that leaves state unchanged; callers can
// branch on the exact kind. Anything else returned by the ledger is an internal
// failure and must not be interpreted as a rejection.
package reverts

import (
	"errors"
)

// ErrRevert is a non-retryable rejection of a ledger operation.
type ErrRevert struct {
	message string
}

func New(message string) *ErrRevert {
	return &ErrRevert{
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

// IsRevertErr reports whether err is (or wraps) a rejection.
func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// The full set of rejections. Every one of these aborts the whole operation
// with no partial state change.
var (
	ErrPaused        = New("ledger is paused")
	ErrAlreadyPaused = New("ledger is already paused")
	ErrNotPaused     = New("ledger is not paused")
	ErrUnauthorized  = New("caller is not the owner")
	ErrReentrancy    = New("reentrant call")

	ErrInvalidAmount  = New("amount must be greater than zero")
	ErrTransferFailed = New("token transfer failed")

	ErrZeroWithdrawal            = New("withdrawal amount must be greater than zero")
	ErrNoIDsProvided             = New("no stake ids provided")
	ErrBatchTooLarge             = New("too many stake ids")
	ErrDuplicateID               = New("duplicate stake id")
	ErrInvalidID                 = New("invalid stake id")
	ErrAlreadyWithdrawn          = New("stake already withdrawn")
	ErrLockNotEnded              = New("lock period not ended")
	ErrInsufficientStakedBalance = New("insufficient staked balance")

	ErrNoRewardsToClaim        = New("no rewards to claim")
	ErrInsufficientRewardFunds = New("insufficient reward liquidity")
	ErrInvalidRate             = New("reward rate must be greater than zero")
)
