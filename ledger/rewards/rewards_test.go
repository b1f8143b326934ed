// Copyright (c) 2026 The StakeVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakevault/stakevault/ledger/stakes"
	"github.com/stakevault/stakevault/ledger/stor"
	"github.com/stakevault/stakevault/lvldb"
	"github.com/stakevault/stakevault/state"
	"github.com/stakevault/stakevault/vault"
)

const year = uint64(365 * 86400)

func newServices(t *testing.T) (*Service, *stakes.Service) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	st := state.NewCreator(db).NewState()
	sctx := stor.NewContext(vault.BytesToAddress([]byte("test")), st)
	stakesSvc := stakes.New(sctx)
	return New(sctx, stakesSvc), stakesSvc
}

func TestAccrued(t *testing.T) {
	// 1000 at 10% over a full year is 100 asset units, scaled
	got := Accrued(big.NewInt(1000), big.NewInt(10), year)
	assert.Equal(t, new(big.Int).Mul(big.NewInt(100), Scale), got)

	// half the time, half the reward
	got = Accrued(big.NewInt(1000), big.NewInt(10), year/2)
	assert.Equal(t, new(big.Int).Mul(big.NewInt(50), Scale), got)

	// sub-unit accrual stays representable in scaled units
	got = Accrued(big.NewInt(1), big.NewInt(10), year)
	assert.Equal(t, new(big.Int).Div(Scale, big.NewInt(10)), got)

	// zero elapsed, zero reward
	assert.Equal(t, int64(0), Accrued(big.NewInt(1000), big.NewInt(10), 0).Int64())
}

func TestSettleAndPending(t *testing.T) {
	svc, stakesSvc := newServices(t)
	user := vault.BytesToAddress([]byte("user"))
	rate := big.NewInt(10)

	_, err := stakesSvc.Append(user, big.NewInt(1000), 1000)
	require.NoError(t, err)

	credited, err := svc.Settle(user, rate, 1000+year)
	require.NoError(t, err)
	assert.Equal(t, new(big.Int).Mul(big.NewInt(100), Scale), credited)

	// same instant again credits nothing
	credited, err = svc.Settle(user, rate, 1000+year)
	require.NoError(t, err)
	assert.Equal(t, int64(0), credited.Int64())

	pool, err := svc.Unclaimed(user)
	require.NoError(t, err)
	assert.Equal(t, new(big.Int).Mul(big.NewInt(100), Scale), pool)

	// pending equals pool plus the next span's accrual, without writing
	pending, err := svc.Pending(user, rate, 1000+2*year)
	require.NoError(t, err)
	assert.Equal(t, new(big.Int).Mul(big.NewInt(200), Scale), pending)
	pool, err = svc.Unclaimed(user)
	require.NoError(t, err)
	assert.Equal(t, new(big.Int).Mul(big.NewInt(100), Scale), pool)
}

func TestSettleSkipsClosedAndFresh(t *testing.T) {
	svc, stakesSvc := newServices(t)
	user := vault.BytesToAddress([]byte("user"))
	rate := big.NewInt(10)

	id, err := stakesSvc.Append(user, big.NewInt(1000), 1000)
	require.NoError(t, err)

	// before the deposit instant nothing accrues
	credited, err := svc.Settle(user, rate, 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(0), credited.Int64())

	// a closed record credits nothing regardless of elapsed time
	require.NoError(t, stakesSvc.Update(user, id, &stakes.Stake{
		Amount:      new(big.Int),
		DepositedAt: 1000,
		RewardDebt:  new(big.Int),
	}))
	credited, err = svc.Settle(user, rate, 1000+year)
	require.NoError(t, err)
	assert.Equal(t, int64(0), credited.Int64())
}

func TestRateDecreaseClampsIncrement(t *testing.T) {
	svc, stakesSvc := newServices(t)
	user := vault.BytesToAddress([]byte("user"))

	_, err := stakesSvc.Append(user, big.NewInt(1000), 1000)
	require.NoError(t, err)

	_, err = svc.Settle(user, big.NewInt(10), 1000+year)
	require.NoError(t, err)

	// accrual at the lower rate is below the debt: no credit, no clawback
	credited, err := svc.Settle(user, big.NewInt(5), 1000+year+1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), credited.Int64())

	pool, err := svc.Unclaimed(user)
	require.NoError(t, err)
	assert.Equal(t, new(big.Int).Mul(big.NewInt(100), Scale), pool)
}

func TestClear(t *testing.T) {
	svc, stakesSvc := newServices(t)
	user := vault.BytesToAddress([]byte("user"))

	_, err := stakesSvc.Append(user, big.NewInt(1000), 1000)
	require.NoError(t, err)
	_, err = svc.Settle(user, big.NewInt(10), 1000+year)
	require.NoError(t, err)

	require.NoError(t, svc.Clear(user))
	pool, err := svc.Unclaimed(user)
	require.NoError(t, err)
	assert.Equal(t, int64(0), pool.Int64())
}
