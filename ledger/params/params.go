// Copyright (c) 2026 The StakeVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package params holds the global, owner-settable ledger parameters.
package params

import (
	"math/big"

	"github.com/stakevault/stakevault/ledger/stor"
	"github.com/stakevault/stakevault/vault"
)

var (
	slotRewardRate   = vault.BytesToBytes32([]byte("reward-rate-percent"))
	slotLockDuration = vault.BytesToBytes32([]byte("lock-duration"))
	slotPaused       = vault.BytesToBytes32([]byte("paused"))
	slotOwner        = vault.BytesToBytes32([]byte("owner"))
)

// Params binder of the global parameter slots.
type Params struct {
	rewardRate   *stor.Uint256
	lockDuration *stor.Uint256
	paused       *stor.Uint256
	owner        *stor.Address
}

func New(sctx *stor.Context) *Params {
	return &Params{
		rewardRate:   stor.NewUint256(sctx, slotRewardRate),
		lockDuration: stor.NewUint256(sctx, slotLockDuration),
		paused:       stor.NewUint256(sctx, slotPaused),
		owner:        stor.NewAddress(sctx, slotOwner),
	}
}

// RewardRate returns the annual reward rate as an integer percent.
func (p *Params) RewardRate() (*big.Int, error) {
	return p.rewardRate.Get()
}

func (p *Params) SetRewardRate(rate *big.Int) {
	p.rewardRate.Set(rate)
}

// LockDuration returns the seconds a stake must age before withdrawal.
func (p *Params) LockDuration() (uint64, error) {
	d, err := p.lockDuration.Get()
	if err != nil {
		return 0, err
	}
	return d.Uint64(), nil
}

func (p *Params) SetLockDuration(seconds uint64) {
	p.lockDuration.Set(new(big.Int).SetUint64(seconds))
}

// IsPaused returns the state-mutation gate.
func (p *Params) IsPaused() (bool, error) {
	v, err := p.paused.Get()
	if err != nil {
		return false, err
	}
	return v.Sign() != 0, nil
}

func (p *Params) SetPaused(paused bool) {
	if paused {
		p.paused.Set(big.NewInt(1))
	} else {
		p.paused.Set(big.NewInt(0))
	}
}

// Owner returns the administration account.
func (p *Params) Owner() (vault.Address, error) {
	return p.owner.Get()
}

func (p *Params) SetOwner(owner vault.Address) {
	p.owner.Set(owner)
}
