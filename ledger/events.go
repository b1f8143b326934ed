// Copyright (c) 2026 The StakeVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"

	"github.com/stakevault/stakevault/vault"
)

// Event names.
const (
	EventStaked         = "Staked"
	EventWithdrawn      = "Withdrawn"
	EventRewardsClaimed = "RewardsClaimed"
	EventPaused         = "Paused"
	EventUnpaused       = "Unpaused"
)

// Event is emitted by a successful ledger operation.
// A withdrawal batch emits one Withdrawn event per record touched.
type Event struct {
	Name    string
	User    vault.Address
	Amount  *big.Int
	StakeID uint64
	Time    uint64
}

// Recorder persists events for off-chain observers.
// Events reach the recorder only after the state change is committed.
type Recorder interface {
	Record(events []Event) error
}
