// Copyright (c) 2026 The StakeVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stakevault/stakevault/lvldb"
	"github.com/stakevault/stakevault/state"
	"github.com/stakevault/stakevault/vault"
)

const (
	testRate = 10
	testLock = uint64(30 * 24 * 3600)

	yearSeconds = uint64(365 * 86400)
)

// memToken is an in-memory custody collaborator. Balances move only on
// successful pulls and pushes, which is exactly when the ledger commits.
type memToken struct {
	balances map[vault.Address]*big.Int
	failPull bool
	failPush bool
	pullHook func() error
}

func newMemToken() *memToken {
	return &memToken{balances: make(map[vault.Address]*big.Int)}
}

func (m *memToken) Bind(_ *state.State) TokenLedger {
	return m
}

func (m *memToken) balanceOf(holder vault.Address) *big.Int {
	if bal, ok := m.balances[holder]; ok {
		return bal
	}
	return new(big.Int)
}

func (m *memToken) fund(holder vault.Address, amount int64) {
	m.balances[holder] = new(big.Int).Add(m.balanceOf(holder), big.NewInt(amount))
}

func (m *memToken) move(from, to vault.Address, amount *big.Int) bool {
	bal := m.balanceOf(from)
	if bal.Cmp(amount) < 0 {
		return false
	}
	m.balances[from] = new(big.Int).Sub(bal, amount)
	m.balances[to] = new(big.Int).Add(m.balanceOf(to), amount)
	return true
}

func (m *memToken) PullFrom(payer vault.Address, amount *big.Int) (bool, error) {
	if m.pullHook != nil {
		if err := m.pullHook(); err != nil {
			return false, err
		}
	}
	if m.failPull {
		return false, nil
	}
	return m.move(payer, Address, amount), nil
}

func (m *memToken) PushTo(payee vault.Address, amount *big.Int) (bool, error) {
	if m.failPush {
		return false, nil
	}
	return m.move(Address, payee, amount), nil
}

func (m *memToken) Balance() (*big.Int, error) {
	return m.balanceOf(Address), nil
}

// memRecorder captures committed events in order.
type memRecorder struct {
	events []Event
}

func (r *memRecorder) Record(events []Event) error {
	r.events = append(r.events, events...)
	return nil
}

type testEnv struct {
	t        *testing.T
	ledger   *Ledger
	exec     *Executor
	token    *memToken
	recorder *memRecorder

	owner vault.Address
	alice vault.Address
	bob   vault.Address

	now uint64
}

func newTest(t *testing.T) *testEnv {
	db, err := lvldb.NewMem()
	require.NoError(t, err)

	env := &testEnv{
		t:        t,
		token:    newMemToken(),
		recorder: &memRecorder{},
		owner:    vault.BytesToAddress([]byte("owner")),
		alice:    vault.BytesToAddress([]byte("alice")),
		bob:      vault.BytesToAddress([]byte("bob")),
		now:      1700000000,
	}
	env.ledger = New(state.NewCreator(db), env.token, env.recorder)
	require.NoError(t, env.ledger.Initialize(env.owner, big.NewInt(testRate), testLock))
	env.exec = NewExecutor(env.ledger)

	env.token.fund(env.alice, 1_000_000)
	env.token.fund(env.bob, 1_000_000)
	return env
}

func (env *testEnv) advance(seconds uint64) {
	env.now += seconds
}

// fundRewards provisions claim liquidity the way a deployment does: by
// minting to the custody account itself.
func (env *testEnv) fundRewards(amount int64) {
	env.token.fund(Address, amount)
}

func (env *testEnv) stake(caller vault.Address, amount int64) uint64 {
	id, err := env.exec.Stake(caller, big.NewInt(amount), env.now)
	require.NoError(env.t, err)
	return id
}

func (env *testEnv) withdraw(caller vault.Address, ids []uint64, amount int64) error {
	return env.exec.Withdraw(caller, ids, big.NewInt(amount), env.now)
}

func (env *testEnv) claim(caller vault.Address) (*big.Int, error) {
	return env.exec.ClaimRewards(caller, env.now)
}

func (env *testEnv) balance(holder vault.Address) int64 {
	return env.token.balanceOf(holder).Int64()
}

func (env *testEnv) recordAmount(user vault.Address, id uint64) int64 {
	record, err := env.exec.StakeInfo(user, id)
	require.NoError(env.t, err)
	if record.Amount == nil {
		return 0
	}
	return record.Amount.Int64()
}
