// Copyright (c) 2026 The StakeVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakevault/stakevault/ledger"
	"github.com/stakevault/stakevault/vault"
)

func newDB(t *testing.T) *EventDB {
	db, err := NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRecordAndFilter(t *testing.T) {
	db := newDB(t)
	alice := vault.BytesToAddress([]byte("alice"))
	bob := vault.BytesToAddress([]byte("bob"))

	require.NoError(t, db.Record([]ledger.Event{
		{Name: ledger.EventStaked, User: alice, Amount: big.NewInt(1000), StakeID: 0, Time: 100},
		{Name: ledger.EventStaked, User: bob, Amount: big.NewInt(500), StakeID: 0, Time: 200},
	}))
	require.NoError(t, db.Record([]ledger.Event{
		{Name: ledger.EventWithdrawn, User: alice, Amount: big.NewInt(1000), StakeID: 0, Time: 300},
	}))

	all, err := db.Filter(nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, uint64(1), all[0].Sequence)
	assert.Equal(t, ledger.EventStaked, all[0].Name)
	assert.Equal(t, alice, all[0].User)
	assert.Equal(t, int64(1000), all[0].Amount.Int64())

	byUser, err := db.Filter(&Filter{User: &alice})
	require.NoError(t, err)
	require.Len(t, byUser, 2)

	byName, err := db.Filter(&Filter{Name: ledger.EventWithdrawn})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, uint64(300), byName[0].Time)

	byRange, err := db.Filter(&Filter{Range: &Range{From: 150, To: 250}})
	require.NoError(t, err)
	require.Len(t, byRange, 1)
	assert.Equal(t, bob, byRange[0].User)
}

func TestFilterOrderAndPaging(t *testing.T) {
	db := newDB(t)
	user := vault.BytesToAddress([]byte("user"))

	var batch []ledger.Event
	for i := 0; i < 5; i++ {
		batch = append(batch, ledger.Event{
			Name:   ledger.EventStaked,
			User:   user,
			Amount: big.NewInt(int64(i)),
			Time:   uint64(i),
		})
	}
	require.NoError(t, db.Record(batch))

	desc, err := db.Filter(&Filter{Order: DESC})
	require.NoError(t, err)
	require.Len(t, desc, 5)
	assert.Equal(t, int64(4), desc[0].Amount.Int64())

	page, err := db.Filter(&Filter{Options: &Options{Offset: 1, Limit: 2}})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, int64(1), page[0].Amount.Int64())
	assert.Equal(t, int64(2), page[1].Amount.Int64())
}

func TestRecordEmptyIsNoop(t *testing.T) {
	db := newDB(t)
	require.NoError(t, db.Record(nil))

	all, err := db.Filter(nil)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestBigAmountsRoundTrip(t *testing.T) {
	db := newDB(t)
	user := vault.BytesToAddress([]byte("user"))

	huge, ok := new(big.Int).SetString("123456789012345678901234567890", 10)
	require.True(t, ok)

	require.NoError(t, db.Record([]ledger.Event{
		{Name: ledger.EventRewardsClaimed, User: user, Amount: huge, Time: 1},
	}))

	all, err := db.Filter(nil)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, huge, all[0].Amount)
}
