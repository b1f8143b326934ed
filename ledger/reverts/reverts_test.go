// Copyright (c) 2026 The StakeVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestIsRevertErr(t *testing.T) {
	assert.True(t, IsRevertErr(ErrPaused))
	assert.True(t, IsRevertErr(New("custom rejection")))

	// wrapping keeps the rejection detectable
	assert.True(t, IsRevertErr(errors.Wrap(ErrLockNotEnded, "withdraw")))

	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr(errors.New("io failure")))
	assert.False(t, IsRevertErr("not an error"))
}

func TestMessage(t *testing.T) {
	assert.EqualError(t, ErrInsufficientStakedBalance, "insufficient staked balance")
	assert.EqualError(t, New("boom"), "boom")
}
