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

	"github.com/stakevault/stakevault/lvldb"
	"github.com/stakevault/stakevault/state"
	"github.com/stakevault/stakevault/vault"
)

func newContext(t *testing.T) *Context {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	st := state.NewCreator(db).NewState()
	return NewContext(vault.BytesToAddress([]byte("test")), st)
}

func TestMappingBigInt(t *testing.T) {
	sctx := newContext(t)
	m := NewMapping[vault.Address, *big.Int](sctx, vault.BytesToBytes32([]byte("balances")))

	key := vault.BytesToAddress([]byte("holder"))

	// an empty slot reads as the zero value, allocated
	v, err := m.Get(key)
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, int64(0), v.Int64())

	require.NoError(t, m.Set(key, big.NewInt(42)))
	v, err = m.Get(key)
	require.NoError(t, err)
	assert.Equal(t, int64(42), v.Int64())

	require.NoError(t, m.Clear(key))
	v, err = m.Get(key)
	require.NoError(t, err)
	assert.Equal(t, int64(0), v.Int64())
}

func TestMappingStruct(t *testing.T) {
	type entry struct {
		Amount *big.Int
		Time   uint64
	}

	sctx := newContext(t)
	m := NewMapping[vault.Bytes32, *entry](sctx, vault.BytesToBytes32([]byte("entries")))

	key := vault.Blake2b([]byte("k"))
	require.NoError(t, m.Set(key, &entry{Amount: big.NewInt(7), Time: 99}))

	got, err := m.Get(key)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.Amount.Int64())
	assert.Equal(t, uint64(99), got.Time)
}

func TestMappingPositionsAreDisjoint(t *testing.T) {
	sctx := newContext(t)
	a := NewMapping[vault.Address, *big.Int](sctx, vault.BytesToBytes32([]byte("a")))
	b := NewMapping[vault.Address, *big.Int](sctx, vault.BytesToBytes32([]byte("b")))

	key := vault.BytesToAddress([]byte("holder"))
	require.NoError(t, a.Set(key, big.NewInt(1)))
	require.NoError(t, b.Set(key, big.NewInt(2)))

	va, err := a.Get(key)
	require.NoError(t, err)
	vb, err := b.Get(key)
	require.NoError(t, err)
	assert.Equal(t, int64(1), va.Int64())
	assert.Equal(t, int64(2), vb.Int64())
}
