// Copyright (c) 2026 The StakeVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ledger implements the token-custody stake ledger.
//
// Every mutating operation runs against a fresh state whose writes buffer in
// memory and commit to the store as one atomic batch on success, so any
// rejection or transfer failure leaves no partial state change. Before any
// amount is touched, the caller's stakes are settled: reward earned since the
// last checkpoint moves into the unclaimed pool. That settle-before-mutate
// ordering is the central invariant of the design.
package ledger

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/ledger/authority"
	"github.com/stakevault/stakevault/ledger/params"
	"github.com/stakevault/stakevault/ledger/reverts"
	"github.com/stakevault/stakevault/ledger/rewards"
	"github.com/stakevault/stakevault/ledger/stakes"
	"github.com/stakevault/stakevault/ledger/stor"
	"github.com/stakevault/stakevault/ledger/totals"
	"github.com/stakevault/stakevault/log"
	"github.com/stakevault/stakevault/state"
	"github.com/stakevault/stakevault/vault"
)

var logger = log.WithContext("pkg", "ledger")

// TokenLedger is the asset custody collaborator. Pull and push move the
// underlying asset between an account and the ledger's custody account.
// A false result aborts the whole ledger operation with no partial state.
// Balance reports the custody account's current holdings.
type TokenLedger interface {
	PullFrom(payer vault.Address, amount *big.Int) (bool, error)
	PushTo(payee vault.Address, amount *big.Int) (bool, error)
	Balance() (*big.Int, error)
}

// TokenBinder binds a TokenLedger to the state a ledger operation runs on,
// so asset moves commit or roll back together with the ledger's own writes.
type TokenBinder interface {
	Bind(st *state.State) TokenLedger
}

// Ledger owns the per-user stake records, the reward accrual checkpoints and
// the global parameters.
//
// Ledger methods are not safe for concurrent use; wrap it in an Executor,
// which provides the single-writer discipline. The in-call guard below then
// only ever trips on genuine re-entrancy from a token transfer callback.
type Ledger struct {
	stateC   *state.Creator
	token    TokenBinder
	recorder Recorder

	inCall bool // call-in-progress guard for state-mutating entry points
}

// New creates a ledger over the given state creator.
// The recorder may be nil, which discards events.
func New(stateC *state.Creator, token TokenBinder, recorder Recorder) *Ledger {
	return &Ledger{
		stateC:   stateC,
		token:    token,
		recorder: recorder,
	}
}

// session groups the services bound to one state instance. Each external call
// gets its own session; dropping it without commit undoes everything.
type session struct {
	state   *state.State
	params  *params.Params
	auth    *authority.Service
	stakes  *stakes.Service
	rewards *rewards.Service
	totals  *totals.Service
	token   TokenLedger
	events  []Event
}

func (l *Ledger) newSession() *session {
	st := l.stateC.NewState()
	sctx := stor.NewContext(Address, st)
	stakesSvc := stakes.New(sctx)
	s := &session{
		state:   st,
		params:  params.New(sctx),
		stakes:  stakesSvc,
		rewards: rewards.New(sctx, stakesSvc),
		totals:  totals.New(sctx),
	}
	s.auth = authority.New(s.params)
	if l.token != nil {
		s.token = l.token.Bind(st)
	}
	return s
}

func (s *session) record(ev Event) {
	s.events = append(s.events, ev)
}

func (s *session) requireNotPaused() error {
	paused, err := s.params.IsPaused()
	if err != nil {
		return err
	}
	if paused {
		return reverts.ErrPaused
	}
	return nil
}

func (s *session) requireOwner(caller vault.Address) error {
	ok, err := s.auth.IsOwner(caller)
	if err != nil {
		return err
	}
	if !ok {
		return reverts.ErrUnauthorized
	}
	return nil
}

func (l *Ledger) enter() error {
	if l.inCall {
		return reverts.ErrReentrancy
	}
	l.inCall = true
	return nil
}

func (l *Ledger) leave() {
	l.inCall = false
}

// settle checkpoints all of the user's stakes into the unclaimed pool and
// returns the reward rate in force. Called unconditionally at the top of every
// mutating entry point, before any amount changes.
func (l *Ledger) settle(s *session, user vault.Address, now uint64) (*big.Int, error) {
	rate, err := s.params.RewardRate()
	if err != nil {
		return nil, err
	}
	credited, err := s.rewards.Settle(user, rate, now)
	if err != nil {
		return nil, err
	}
	if credited.Sign() > 0 {
		if err := s.totals.AddUnclaimed(credited); err != nil {
			return nil, err
		}
	}
	return rate, nil
}

// commit flushes the session's state atomically, then hands the buffered
// events to the recorder. A recorder failure after the state is committed is
// logged, not surfaced: the operation itself has succeeded.
func (l *Ledger) commit(s *session) error {
	if err := s.state.Commit(); err != nil {
		return err
	}
	gaugeTotals(s)
	if l.recorder != nil && len(s.events) > 0 {
		if err := l.recorder.Record(s.events); err != nil {
			logger.Warn("failed to record events", "error", err)
		}
	}
	return nil
}

// Initialize installs the owner and initial parameters on first boot.
// It is a no-op when an owner is already set.
func (l *Ledger) Initialize(owner vault.Address, ratePercent *big.Int, lockDuration uint64) error {
	if ratePercent == nil || ratePercent.Sign() <= 0 {
		return reverts.ErrInvalidRate
	}
	s := l.newSession()
	existing, err := s.params.Owner()
	if err != nil {
		return err
	}
	if !existing.IsZero() {
		return nil
	}
	s.params.SetOwner(owner)
	s.params.SetRewardRate(ratePercent)
	s.params.SetLockDuration(lockDuration)
	if err := l.commit(s); err != nil {
		return err
	}
	logger.Info("initialized ledger", "owner", owner, "rate", ratePercent, "lock", lockDuration)
	return nil
}

//
// Setters - state change
//

// Stake deposits amount into a new stake record and returns its identifier.
func (l *Ledger) Stake(caller vault.Address, amount *big.Int, now uint64) (uint64, error) {
	logger.Debug("staking", "caller", caller, "amount", amount)

	if err := l.enter(); err != nil {
		return 0, err
	}
	defer l.leave()

	s := l.newSession()
	if err := s.requireNotPaused(); err != nil {
		return 0, err
	}
	if amount == nil || amount.Sign() <= 0 {
		return 0, reverts.ErrInvalidAmount
	}
	if _, err := l.settle(s, caller, now); err != nil {
		return 0, err
	}

	// funds move in before the record exists, so a failed pull leaves no orphan
	ok, err := s.token.PullFrom(caller, amount)
	if err != nil {
		return 0, errors.Wrap(err, "failed to pull deposit")
	}
	if !ok {
		return 0, reverts.ErrTransferFailed
	}

	id, err := s.stakes.Append(caller, amount, now)
	if err != nil {
		return 0, err
	}
	if err := s.totals.AddStaked(amount); err != nil {
		return 0, err
	}
	s.record(Event{Name: EventStaked, User: caller, Amount: new(big.Int).Set(amount), StakeID: id, Time: now})

	if err := l.commit(s); err != nil {
		return 0, err
	}
	logger.Info("staked", "caller", caller, "amount", amount, "id", id)
	return id, nil
}

// Withdraw releases totalAmount of unlocked principal drawn from the given
// stake records in order. The request must be fulfilled exactly; identifiers
// past the point of fulfillment are not validated. The asset leaves custody as
// a single transfer for the whole batch.
func (l *Ledger) Withdraw(caller vault.Address, stakeIDs []uint64, totalAmount *big.Int, now uint64) error {
	logger.Debug("withdrawing", "caller", caller, "ids", len(stakeIDs), "amount", totalAmount)

	if err := l.enter(); err != nil {
		return err
	}
	defer l.leave()

	s := l.newSession()
	if err := s.requireNotPaused(); err != nil {
		return err
	}
	if len(stakeIDs) == 0 {
		return reverts.ErrNoIDsProvided
	}
	if len(stakeIDs) > MaxWithdrawBatchSize {
		return reverts.ErrBatchTooLarge
	}
	if totalAmount == nil || totalAmount.Sign() <= 0 {
		return reverts.ErrZeroWithdrawal
	}

	rate, err := l.settle(s, caller, now)
	if err != nil {
		return err
	}
	lockDuration, err := s.params.LockDuration()
	if err != nil {
		return err
	}

	remaining := new(big.Int).Set(totalAmount)
	seen := make(map[uint64]struct{}, len(stakeIDs))
	for _, id := range stakeIDs {
		if remaining.Sign() == 0 {
			break
		}
		if _, dup := seen[id]; dup {
			return reverts.ErrDuplicateID
		}
		seen[id] = struct{}{}

		record, err := s.stakes.Get(caller, id)
		if err != nil {
			return err
		}
		if record.IsClosed() {
			return reverts.ErrAlreadyWithdrawn
		}
		if !record.Unlocked(now, lockDuration) {
			return reverts.ErrLockNotEnded
		}

		take := new(big.Int).Set(remaining)
		if record.Amount.Cmp(take) < 0 {
			take.Set(record.Amount)
		}

		// the accrual basis shrinks, so the checkpoint restarts on the
		// reduced principal; reward on the withdrawn part is already settled
		record.Amount = new(big.Int).Sub(record.Amount, take)
		record.RewardDebt = rewards.Accrued(record.Amount, rate, now-record.DepositedAt)
		if err := s.stakes.Update(caller, id, record); err != nil {
			return err
		}

		remaining.Sub(remaining, take)
		s.record(Event{Name: EventWithdrawn, User: caller, Amount: take, StakeID: id, Time: now})
	}
	if remaining.Sign() != 0 {
		return reverts.ErrInsufficientStakedBalance
	}

	if err := s.totals.SubStaked(totalAmount); err != nil {
		return err
	}
	ok, err := s.token.PushTo(caller, totalAmount)
	if err != nil {
		return errors.Wrap(err, "failed to push withdrawal")
	}
	if !ok {
		return reverts.ErrTransferFailed
	}

	if err := l.commit(s); err != nil {
		return err
	}
	logger.Info("withdrew", "caller", caller, "amount", totalAmount)
	return nil
}

// ClaimRewards pays out the caller's settled reward, truncated to whole asset
// units. Fractional reward below one scaling unit is forfeited with the claim.
func (l *Ledger) ClaimRewards(caller vault.Address, now uint64) (*big.Int, error) {
	logger.Debug("claiming rewards", "caller", caller)

	if err := l.enter(); err != nil {
		return nil, err
	}
	defer l.leave()

	s := l.newSession()
	if err := s.requireNotPaused(); err != nil {
		return nil, err
	}
	if _, err := l.settle(s, caller, now); err != nil {
		return nil, err
	}

	pool, err := s.rewards.Unclaimed(caller)
	if err != nil {
		return nil, err
	}
	payout := new(big.Int).Div(pool, rewards.Scale)
	if payout.Sign() <= 0 {
		return nil, reverts.ErrNoRewardsToClaim
	}

	// reward is paid out of provisioned liquidity, never out of principal:
	// after the payout, custody must still cover every stake's principal
	// and every other user's settled reward
	staked, unclaimedTotal, err := s.totals.Totals()
	if err != nil {
		return nil, err
	}
	balance, err := s.token.Balance()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read custody balance")
	}
	owed := new(big.Int).Sub(unclaimedTotal, pool)
	owed.Div(owed, rewards.Scale)
	owed.Add(owed, staked)
	owed.Add(owed, payout)
	if balance.Cmp(owed) < 0 {
		return nil, reverts.ErrInsufficientRewardFunds
	}

	if err := s.rewards.Clear(caller); err != nil {
		return nil, err
	}
	if err := s.totals.SubUnclaimed(pool); err != nil {
		return nil, err
	}
	ok, err := s.token.PushTo(caller, payout)
	if err != nil {
		return nil, errors.Wrap(err, "failed to push reward")
	}
	if !ok {
		return nil, reverts.ErrTransferFailed
	}
	s.record(Event{Name: EventRewardsClaimed, User: caller, Amount: payout, Time: now})

	if err := l.commit(s); err != nil {
		return nil, err
	}
	logger.Info("claimed rewards", "caller", caller, "amount", payout)
	return payout, nil
}

// Settle checkpoints the user's stakes without any other state change.
// It stays available while paused: it only moves already-earned reward into
// the unclaimed pool.
func (l *Ledger) Settle(user vault.Address, now uint64) error {
	if err := l.enter(); err != nil {
		return err
	}
	defer l.leave()

	s := l.newSession()
	if _, err := l.settle(s, user, now); err != nil {
		return err
	}
	return l.commit(s)
}

//
// Administration - owner only
//

// SetLockDuration changes the lock period for all future lock checks,
// including those on existing stakes.
func (l *Ledger) SetLockDuration(caller vault.Address, seconds uint64) error {
	s := l.newSession()
	if err := s.requireOwner(caller); err != nil {
		return err
	}
	s.params.SetLockDuration(seconds)
	if err := l.commit(s); err != nil {
		return err
	}
	logger.Info("set lock duration", "caller", caller, "seconds", seconds)
	return nil
}

// SetRewardRate changes the annual rate used by all subsequent accrual,
// for old and new stakes alike. Reward already checkpointed is unaffected.
func (l *Ledger) SetRewardRate(caller vault.Address, ratePercent *big.Int) error {
	s := l.newSession()
	if err := s.requireOwner(caller); err != nil {
		return err
	}
	if ratePercent == nil || ratePercent.Sign() <= 0 {
		return reverts.ErrInvalidRate
	}
	s.params.SetRewardRate(ratePercent)
	if err := l.commit(s); err != nil {
		return err
	}
	logger.Info("set reward rate", "caller", caller, "percent", ratePercent)
	return nil
}

// Pause gates stake, withdraw and claim. Views stay available.
func (l *Ledger) Pause(caller vault.Address, now uint64) error {
	s := l.newSession()
	if err := s.requireOwner(caller); err != nil {
		return err
	}
	paused, err := s.params.IsPaused()
	if err != nil {
		return err
	}
	if paused {
		return reverts.ErrAlreadyPaused
	}
	s.params.SetPaused(true)
	s.record(Event{Name: EventPaused, User: caller, Time: now})
	if err := l.commit(s); err != nil {
		return err
	}
	logger.Info("paused", "caller", caller)
	return nil
}

// Unpause lifts the gate.
func (l *Ledger) Unpause(caller vault.Address, now uint64) error {
	s := l.newSession()
	if err := s.requireOwner(caller); err != nil {
		return err
	}
	paused, err := s.params.IsPaused()
	if err != nil {
		return err
	}
	if !paused {
		return reverts.ErrNotPaused
	}
	s.params.SetPaused(false)
	s.record(Event{Name: EventUnpaused, User: caller, Time: now})
	if err := l.commit(s); err != nil {
		return err
	}
	logger.Info("unpaused", "caller", caller)
	return nil
}

//
// Getters - no state change
//

// StakeInfo returns the record at the given position,
// rejecting with ErrInvalidID when out of range.
func (l *Ledger) StakeInfo(user vault.Address, id uint64) (*stakes.Stake, error) {
	return l.newSession().stakes.Get(user, id)
}

// AllStakes returns the user's full ordered record sequence, closed records
// included; callers filter.
func (l *Ledger) AllStakes(user vault.Address) ([]*stakes.Stake, error) {
	return l.newSession().stakes.All(user)
}

// ActiveStakeCount returns the number of records with remaining principal.
func (l *Ledger) ActiveStakeCount(user vault.Address) (uint64, error) {
	return l.newSession().stakes.ActiveCount(user)
}

// CanWithdraw reports whether the record holds principal and is past its lock.
// An out-of-range id yields false, never an error.
func (l *Ledger) CanWithdraw(user vault.Address, id uint64, now uint64) (bool, error) {
	s := l.newSession()
	record, err := s.stakes.Get(user, id)
	if err != nil {
		if reverts.IsRevertErr(err) {
			return false, nil
		}
		return false, err
	}
	lockDuration, err := s.params.LockDuration()
	if err != nil {
		return false, err
	}
	return !record.IsClosed() && record.Unlocked(now, lockDuration), nil
}

// AccruedRewards returns what a settle-then-claim at the given instant would
// pay, in whole asset units. Pure view.
func (l *Ledger) AccruedRewards(user vault.Address, now uint64) (*big.Int, error) {
	s := l.newSession()
	rate, err := s.params.RewardRate()
	if err != nil {
		return nil, err
	}
	pending, err := s.rewards.Pending(user, rate, now)
	if err != nil {
		return nil, err
	}
	return pending.Div(pending, rewards.Scale), nil
}

// Totals returns the staked principal and scaled unclaimed reward held
// ledger-wide.
func (l *Ledger) Totals() (*big.Int, *big.Int, error) {
	return l.newSession().totals.Totals()
}

// RewardRate returns the annual reward rate percent in force.
func (l *Ledger) RewardRate() (*big.Int, error) {
	return l.newSession().params.RewardRate()
}

// LockDuration returns the lock period in force, in seconds.
func (l *Ledger) LockDuration() (uint64, error) {
	return l.newSession().params.LockDuration()
}

// IsPaused returns the mutation gate.
func (l *Ledger) IsPaused() (bool, error) {
	return l.newSession().params.IsPaused()
}

// Owner returns the administration account.
func (l *Ledger) Owner() (vault.Address, error) {
	return l.newSession().params.Owner()
}
