// Copyright (c) 2026 The StakeVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"github.com/stakevault/stakevault/vault"
)

// Address is the custody account all ledger state and deposits live under.
var Address = vault.BytesToAddress([]byte("stake-ledger"))

const (
	// MaxWithdrawBatchSize caps the stake identifiers accepted per withdrawal.
	MaxWithdrawBatchSize = 50

	// DefaultRewardRatePercent is the annual reward rate installed at first boot.
	DefaultRewardRatePercent = 10

	// DefaultLockDuration is the lock period installed at first boot, 30 days.
	DefaultLockDuration = uint64(30 * 24 * 3600)
)
