// Copyright (c) 2026 The StakeVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package stakes owns the per-user, per-deposit stake records.
//
// Records form an append-only arena: a record's identifier is its position in
// the user's sequence, assigned at creation and never reused or reordered. A
// fully withdrawn record is zeroed, not removed, so identifiers stay valid and
// historical queries keep working.
package stakes

import (
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/ledger/reverts"
	"github.com/stakevault/stakevault/ledger/stor"
	"github.com/stakevault/stakevault/vault"
)

var (
	slotRecords = vault.BytesToBytes32([]byte("stake-records"))
	slotCounts  = vault.BytesToBytes32([]byte("stake-counts"))
)

// Stake is one deposit event.
type Stake struct {
	Amount      *big.Int // remaining principal, zero once fully withdrawn
	DepositedAt uint64   // creation timestamp, immutable
	RewardDebt  *big.Int // cumulative scaled reward checkpointed for the current amount
}

// IsClosed returns true once the principal is fully withdrawn.
func (s *Stake) IsClosed() bool {
	return s.Amount == nil || s.Amount.Sign() == 0
}

// Unlocked reports whether the lock period has ended at the given time.
func (s *Stake) Unlocked(now, lockDuration uint64) bool {
	return now >= s.DepositedAt+lockDuration
}

// Service manages the stake record arena.
type Service struct {
	records *stor.Mapping[vault.Bytes32, *Stake]
	counts  *stor.Mapping[vault.Address, *big.Int]
}

func New(sctx *stor.Context) *Service {
	return &Service{
		records: stor.NewMapping[vault.Bytes32, *Stake](sctx, slotRecords),
		counts:  stor.NewMapping[vault.Address, *big.Int](sctx, slotCounts),
	}
}

func recordKey(user vault.Address, id uint64) vault.Bytes32 {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], id)
	return vault.Blake2b(user.Bytes(), b[:])
}

// Count returns the length of the user's record sequence, closed records included.
func (s *Service) Count(user vault.Address) (uint64, error) {
	count, err := s.counts.Get(user)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get stake count")
	}
	return count.Uint64(), nil
}

// Get returns the record at the given position.
// It rejects with ErrInvalidID when the position was never assigned.
func (s *Service) Get(user vault.Address, id uint64) (*Stake, error) {
	count, err := s.Count(user)
	if err != nil {
		return nil, err
	}
	if id >= count {
		return nil, reverts.ErrInvalidID
	}
	record, err := s.records.Get(recordKey(user, id))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get stake record")
	}
	return record, nil
}

// Append creates a new record and returns its identifier,
// the sequence length before the append.
func (s *Service) Append(user vault.Address, amount *big.Int, now uint64) (uint64, error) {
	count, err := s.Count(user)
	if err != nil {
		return 0, err
	}
	record := &Stake{
		Amount:      new(big.Int).Set(amount),
		DepositedAt: now,
		RewardDebt:  new(big.Int),
	}
	if err := s.records.Set(recordKey(user, count), record); err != nil {
		return 0, errors.Wrap(err, "failed to set stake record")
	}
	if err := s.counts.Set(user, new(big.Int).SetUint64(count+1)); err != nil {
		return 0, errors.Wrap(err, "failed to set stake count")
	}
	return count, nil
}

// Update overwrites the record at an already-assigned position.
func (s *Service) Update(user vault.Address, id uint64, record *Stake) error {
	if err := s.records.Set(recordKey(user, id), record); err != nil {
		return errors.Wrap(err, "failed to update stake record")
	}
	return nil
}

// ForEach walks the user's full record sequence in identifier order.
func (s *Service) ForEach(user vault.Address, fn func(id uint64, record *Stake) error) error {
	count, err := s.Count(user)
	if err != nil {
		return err
	}
	for id := uint64(0); id < count; id++ {
		record, err := s.records.Get(recordKey(user, id))
		if err != nil {
			return errors.Wrap(err, "failed to get stake record")
		}
		if err := fn(id, record); err != nil {
			return err
		}
	}
	return nil
}

// All returns the full ordered record sequence, closed records included.
func (s *Service) All(user vault.Address) ([]*Stake, error) {
	count, err := s.Count(user)
	if err != nil {
		return nil, err
	}
	records := make([]*Stake, 0, count)
	err = s.ForEach(user, func(_ uint64, record *Stake) error {
		records = append(records, record)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ActiveCount returns the number of records with remaining principal.
func (s *Service) ActiveCount(user vault.Address) (uint64, error) {
	var active uint64
	err := s.ForEach(user, func(_ uint64, record *Stake) error {
		if !record.IsClosed() {
			active++
		}
		return nil
	})
	return active, err
}
