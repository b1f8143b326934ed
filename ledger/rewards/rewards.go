// Copyright (c) 2026 The StakeVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package rewards implements the linear reward accrual engine.
//
// Reward amounts are kept in fixed-point "scaled units" (asset units times
// Scale) so integer division never loses precision before the final payout.
// Every record carries a reward debt: the cumulative scaled reward already
// checkpointed for its current principal. Settling credits the difference
// between freshly computed accrual and the debt into the user's unclaimed
// pool, which makes settling idempotent at any fixed instant.
package rewards

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/ledger/stakes"
	"github.com/stakevault/stakevault/ledger/stor"
	"github.com/stakevault/stakevault/vault"
)

// Scale is the fixed-point factor applied before division in the accrual formula.
var Scale = big.NewInt(1_000_000_000_000) // 1e12

var (
	secondsPerYear = big.NewInt(365 * 86400)
	oneHundred     = big.NewInt(100)

	slotUnclaimed = vault.BytesToBytes32([]byte("unclaimed-rewards"))
)

// Accrued returns the total scaled reward for a principal held over elapsed
// seconds at an annual integer percent rate:
//
//	amount * rate * elapsed * Scale / (100 * secondsPerYear)
func Accrued(amount, ratePercent *big.Int, elapsed uint64) *big.Int {
	r := new(big.Int).Mul(amount, ratePercent)
	r.Mul(r, new(big.Int).SetUint64(elapsed))
	r.Mul(r, Scale)
	return r.Div(r, new(big.Int).Mul(oneHundred, secondsPerYear))
}

// Service maintains per-record checkpoints and the per-user unclaimed pool.
type Service struct {
	stakes    *stakes.Service
	unclaimed *stor.Mapping[vault.Address, *big.Int]
}

func New(sctx *stor.Context, stakes *stakes.Service) *Service {
	return &Service{
		stakes:    stakes,
		unclaimed: stor.NewMapping[vault.Address, *big.Int](sctx, slotUnclaimed),
	}
}

// Settle checkpoints every active record of the user: reward earned since the
// last checkpoint moves into the unclaimed pool and the record's debt advances.
// It returns the scaled amount newly credited.
func (s *Service) Settle(user vault.Address, ratePercent *big.Int, now uint64) (*big.Int, error) {
	credited := new(big.Int)
	err := s.stakes.ForEach(user, func(id uint64, record *stakes.Stake) error {
		increment := settleIncrement(record, ratePercent, now)
		if increment == nil {
			return nil
		}
		credited.Add(credited, increment)
		record.RewardDebt = new(big.Int).Add(record.RewardDebt, increment)
		return s.stakes.Update(user, id, record)
	})
	if err != nil {
		return nil, err
	}
	if credited.Sign() > 0 {
		pool, err := s.Unclaimed(user)
		if err != nil {
			return nil, err
		}
		pool.Add(pool, credited)
		if err := s.unclaimed.Set(user, pool); err != nil {
			return nil, errors.Wrap(err, "failed to set unclaimed pool")
		}
	}
	return credited, nil
}

// Pending returns the scaled reward a settle at the given instant would leave
// claimable: the unclaimed pool plus every record's un-checkpointed accrual.
// Pure view, no state change.
func (s *Service) Pending(user vault.Address, ratePercent *big.Int, now uint64) (*big.Int, error) {
	pending, err := s.Unclaimed(user)
	if err != nil {
		return nil, err
	}
	err = s.stakes.ForEach(user, func(_ uint64, record *stakes.Stake) error {
		if increment := settleIncrement(record, ratePercent, now); increment != nil {
			pending.Add(pending, increment)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pending, nil
}

// settleIncrement computes the scaled reward a record has earned since its
// last checkpoint, or nil when there is nothing to credit. A record whose debt
// exceeds fresh accrual (possible after a rate decrease) credits nothing until
// accrual catches up.
func settleIncrement(record *stakes.Stake, ratePercent *big.Int, now uint64) *big.Int {
	if record.IsClosed() || now <= record.DepositedAt {
		return nil
	}
	total := Accrued(record.Amount, ratePercent, now-record.DepositedAt)
	increment := total.Sub(total, record.RewardDebt)
	if increment.Sign() <= 0 {
		return nil
	}
	return increment
}

// Unclaimed returns the user's scaled unclaimed pool.
func (s *Service) Unclaimed(user vault.Address) (*big.Int, error) {
	pool, err := s.unclaimed.Get(user)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get unclaimed pool")
	}
	return pool, nil
}

// Clear zeroes the user's unclaimed pool. Residual fractional reward below one
// scaling unit is forfeited with it; that is accepted claim behavior.
func (s *Service) Clear(user vault.Address) error {
	if err := s.unclaimed.Clear(user); err != nil {
		return errors.Wrap(err, "failed to clear unclaimed pool")
	}
	return nil
}
