// Copyright (c) 2026 The StakeVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package totals tracks ledger-wide custody figures.
package totals

import (
	"math/big"

	"github.com/stakevault/stakevault/ledger/stor"
	"github.com/stakevault/stakevault/vault"
)

var (
	slotStaked    = vault.BytesToBytes32([]byte("total-staked"))
	slotUnclaimed = vault.BytesToBytes32([]byte("total-unclaimed-scaled"))
)

// Service manages ledger-wide staking totals: the principal held in custody
// and the scaled reward settled but not yet claimed. Together they bound what
// the ledger can ever owe, so custody balance must always cover
// staked + unclaimed/Scale.
type Service struct {
	staked    *stor.Uint256
	unclaimed *stor.Uint256
}

func New(sctx *stor.Context) *Service {
	return &Service{
		staked:    stor.NewUint256(sctx, slotStaked),
		unclaimed: stor.NewUint256(sctx, slotUnclaimed),
	}
}

func (s *Service) AddStaked(amount *big.Int) error {
	return s.staked.Add(amount)
}

func (s *Service) SubStaked(amount *big.Int) error {
	return s.staked.Sub(amount)
}

func (s *Service) AddUnclaimed(scaled *big.Int) error {
	return s.unclaimed.Add(scaled)
}

func (s *Service) SubUnclaimed(scaled *big.Int) error {
	return s.unclaimed.Sub(scaled)
}

// Totals returns the staked principal and the scaled unclaimed reward.
func (s *Service) Totals() (*big.Int, *big.Int, error) {
	staked, err := s.staked.Get()
	if err != nil {
		return nil, nil, err
	}
	unclaimed, err := s.unclaimed.Get()
	if err != nil {
		return nil, nil, err
	}
	return staked, unclaimed, nil
}
