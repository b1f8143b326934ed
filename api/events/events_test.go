// Copyright (c) 2026 The StakeVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"bytes"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakevault/stakevault/eventdb"
	"github.com/stakevault/stakevault/ledger"
	"github.com/stakevault/stakevault/vault"
)

func newServer(t *testing.T) (string, *eventdb.EventDB) {
	db, err := eventdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	router := mux.NewRouter()
	New(db, 10).Mount(router, "/events")

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv.URL, db
}

func post(t *testing.T, url string, body interface{}) (int, []byte) {
	data, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := http.Post(url+"/events", "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer res.Body.Close()
	payload, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, payload
}

func TestFilterEndpoint(t *testing.T) {
	url, db := newServer(t)
	alice := vault.BytesToAddress([]byte("alice"))

	require.NoError(t, db.Record([]ledger.Event{
		{Name: ledger.EventStaked, User: alice, Amount: big.NewInt(100), Time: 10},
		{Name: ledger.EventWithdrawn, User: alice, Amount: big.NewInt(100), Time: 20},
	}))

	code, body := post(t, url, map[string]interface{}{
		"name": ledger.EventStaked,
	})
	require.Equal(t, http.StatusOK, code, string(body))

	var found []*eventdb.Event
	require.NoError(t, json.Unmarshal(body, &found))
	require.Len(t, found, 1)
	assert.Equal(t, ledger.EventStaked, found[0].Name)

	// no matches is an empty array, not null
	code, body = post(t, url, map[string]interface{}{
		"name": ledger.EventPaused,
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "[]\n", string(body))
}

func TestFilterLimits(t *testing.T) {
	url, _ := newServer(t)

	code, body := post(t, url, map[string]interface{}{
		"options": map[string]interface{}{"offset": 0, "limit": 100},
	})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Contains(t, string(body), "options.limit")

	code, body = post(t, url, map[string]interface{}{
		"range": map[string]interface{}{"from": 100, "to": 10},
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, string(body), "range.to")
}
