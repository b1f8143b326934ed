// Copyright (c) 2026 The StakeVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/stakevault/stakevault/ledger/stakes"
	"github.com/stakevault/stakevault/vault"
)

// StakeRequest is the body of a deposit.
type StakeRequest struct {
	Caller vault.Address         `json:"caller"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

// StakeResponse returns the identifier of the new stake record.
type StakeResponse struct {
	ID uint64 `json:"id"`
}

// WithdrawRequest is the body of a batched withdrawal.
type WithdrawRequest struct {
	Caller   vault.Address         `json:"caller"`
	StakeIDs []uint64              `json:"stakeIds"`
	Amount   *math.HexOrDecimal256 `json:"amount"`
}

// ClaimRequest is the body of a reward claim.
type ClaimRequest struct {
	Caller vault.Address `json:"caller"`
}

// ClaimResponse returns the paid amount in whole asset units.
type ClaimResponse struct {
	Amount *math.HexOrDecimal256 `json:"amount"`
}

// SettleRequest is the body of a standalone settlement.
type SettleRequest struct {
	User vault.Address `json:"user"`
}

// Stake is one stake record as presented by the API.
type Stake struct {
	ID          uint64                `json:"id"`
	Amount      *math.HexOrDecimal256 `json:"amount"`
	DepositedAt uint64                `json:"depositedAt"`
	Closed      bool                  `json:"closed"`
}

// Totals reports ledger-wide custody.
type Totals struct {
	Staked          *math.HexOrDecimal256 `json:"staked"`
	UnclaimedScaled *math.HexOrDecimal256 `json:"unclaimedScaled"`
}

func convertStake(id uint64, record *stakes.Stake) *Stake {
	return &Stake{
		ID:          id,
		Amount:      (*math.HexOrDecimal256)(record.Amount),
		DepositedAt: record.DepositedAt,
		Closed:      record.IsClosed(),
	}
}

func toBig(v *math.HexOrDecimal256) *big.Int {
	if v == nil {
		return nil
	}
	return (*big.Int)(v)
}
