// Copyright (c) 2026 The StakeVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stor

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakevault/stakevault/vault"
)

func TestUint256(t *testing.T) {
	sctx := newContext(t)
	u := NewUint256(sctx, vault.BytesToBytes32([]byte("counter")))

	v, err := u.Get()
	require.NoError(t, err)
	assert.Equal(t, int64(0), v.Int64())

	u.Set(big.NewInt(100))
	require.NoError(t, u.Add(big.NewInt(23)))
	v, err = u.Get()
	require.NoError(t, err)
	assert.Equal(t, int64(123), v.Int64())

	require.NoError(t, u.Sub(big.NewInt(23)))
	v, err = u.Get()
	require.NoError(t, err)
	assert.Equal(t, int64(100), v.Int64())

	// unsigned storage cannot go negative
	err = u.Sub(big.NewInt(101))
	assert.EqualError(t, err, "uint256 underflow")
	v, err = u.Get()
	require.NoError(t, err)
	assert.Equal(t, int64(100), v.Int64())
}

func TestAddress(t *testing.T) {
	sctx := newContext(t)
	a := NewAddress(sctx, vault.BytesToBytes32([]byte("owner")))

	v, err := a.Get()
	require.NoError(t, err)
	assert.True(t, v.IsZero())

	want := vault.BytesToAddress([]byte("someone"))
	a.Set(want)
	v, err = a.Get()
	require.NoError(t, err)
	assert.Equal(t, want, v)
}
