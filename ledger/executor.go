// Copyright (c) 2026 The StakeVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"
	"sync"

	"github.com/stakevault/stakevault/ledger/stakes"
	"github.com/stakevault/stakevault/vault"
)

// Executor serializes ledger operations. The ledger itself is a
// single-writer structure; the executor is the one place that discipline is
// enforced, so API handlers and background jobs can share one instance.
// Views take the same lock: a view session performs several independent
// reads, and interleaving with a commit must never yield a half-applied mix.
type Executor struct {
	mu     sync.Mutex
	ledger *Ledger
}

// NewExecutor wraps the ledger for concurrent use.
func NewExecutor(ledger *Ledger) *Executor {
	return &Executor{ledger: ledger}
}

func (e *Executor) Initialize(owner vault.Address, ratePercent *big.Int, lockDuration uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Initialize(owner, ratePercent, lockDuration)
}

func (e *Executor) Stake(caller vault.Address, amount *big.Int, now uint64) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id, err := e.ledger.Stake(caller, amount, now)
	countOp("stake", err)
	return id, err
}

func (e *Executor) Withdraw(caller vault.Address, stakeIDs []uint64, totalAmount *big.Int, now uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	err := e.ledger.Withdraw(caller, stakeIDs, totalAmount, now)
	countOp("withdraw", err)
	return err
}

func (e *Executor) ClaimRewards(caller vault.Address, now uint64) (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	payout, err := e.ledger.ClaimRewards(caller, now)
	countOp("claim", err)
	return payout, err
}

func (e *Executor) Settle(user vault.Address, now uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	err := e.ledger.Settle(user, now)
	countOp("settle", err)
	return err
}

func (e *Executor) SetLockDuration(caller vault.Address, seconds uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	err := e.ledger.SetLockDuration(caller, seconds)
	countOp("setLockDuration", err)
	return err
}

func (e *Executor) SetRewardRate(caller vault.Address, ratePercent *big.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	err := e.ledger.SetRewardRate(caller, ratePercent)
	countOp("setRewardRate", err)
	return err
}

func (e *Executor) Pause(caller vault.Address, now uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	err := e.ledger.Pause(caller, now)
	countOp("pause", err)
	return err
}

func (e *Executor) Unpause(caller vault.Address, now uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	err := e.ledger.Unpause(caller, now)
	countOp("unpause", err)
	return err
}

func (e *Executor) StakeInfo(user vault.Address, id uint64) (*stakes.Stake, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.StakeInfo(user, id)
}

func (e *Executor) AllStakes(user vault.Address) ([]*stakes.Stake, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.AllStakes(user)
}

func (e *Executor) ActiveStakeCount(user vault.Address) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.ActiveStakeCount(user)
}

func (e *Executor) CanWithdraw(user vault.Address, id uint64, now uint64) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.CanWithdraw(user, id, now)
}

func (e *Executor) AccruedRewards(user vault.Address, now uint64) (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.AccruedRewards(user, now)
}

func (e *Executor) Totals() (*big.Int, *big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Totals()
}

func (e *Executor) RewardRate() (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.RewardRate()
}

func (e *Executor) LockDuration() (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.LockDuration()
}

func (e *Executor) IsPaused() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.IsPaused()
}

func (e *Executor) Owner() (vault.Address, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Owner()
}
