// Copyright (c) 2026 The StakeVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

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

	"github.com/stakevault/stakevault/ledger"
	"github.com/stakevault/stakevault/lvldb"
	"github.com/stakevault/stakevault/state"
	"github.com/stakevault/stakevault/token"
	"github.com/stakevault/stakevault/vault"
)

type testServer struct {
	t     *testing.T
	url   string
	exec  *ledger.Executor
	owner vault.Address
	alice vault.Address
}

func newServer(t *testing.T) *testServer {
	db, err := lvldb.NewMem()
	require.NoError(t, err)

	srv := &testServer{
		t:     t,
		owner: vault.BytesToAddress([]byte("owner")),
		alice: vault.BytesToAddress([]byte("alice")),
	}

	ldg := ledger.New(state.NewCreator(db), token.NewBinder(), nil)
	require.NoError(t, ldg.Initialize(srv.owner, big.NewInt(10), 60))
	srv.exec = ledger.NewExecutor(ldg)

	router := mux.NewRouter()
	New(srv.exec).Mount(router, "/admin")

	httpSrv := httptest.NewServer(router)
	t.Cleanup(httpSrv.Close)
	srv.url = httpSrv.URL
	return srv
}

func (srv *testServer) request(method, path string, body interface{}) (int, []byte) {
	data, err := json.Marshal(body)
	require.NoError(srv.t, err)
	req, err := http.NewRequest(method, srv.url+path, bytes.NewReader(data))
	require.NoError(srv.t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(srv.t, err)
	defer res.Body.Close()
	payload, err := io.ReadAll(res.Body)
	require.NoError(srv.t, err)
	return res.StatusCode, payload
}

func TestSetRate(t *testing.T) {
	srv := newServer(t)

	code, body := srv.request(http.MethodPut, "/admin/rate", map[string]interface{}{
		"caller": srv.owner.String(),
		"rate":   "20",
	})
	require.Equal(t, http.StatusOK, code, string(body))

	rate, err := srv.exec.RewardRate()
	require.NoError(t, err)
	assert.Equal(t, int64(20), rate.Int64())

	// non-owner calls are forbidden, not just rejected
	code, _ = srv.request(http.MethodPut, "/admin/rate", map[string]interface{}{
		"caller": srv.alice.String(),
		"rate":   "20",
	})
	assert.Equal(t, http.StatusForbidden, code)

	code, body = srv.request(http.MethodPut, "/admin/rate", map[string]interface{}{
		"caller": srv.owner.String(),
		"rate":   "0",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, string(body), "reward rate must be greater than zero")
}

func TestSetLock(t *testing.T) {
	srv := newServer(t)

	code, body := srv.request(http.MethodPut, "/admin/lock", map[string]interface{}{
		"caller": srv.owner.String(),
		"lock":   3600,
	})
	require.Equal(t, http.StatusOK, code, string(body))

	lock, err := srv.exec.LockDuration()
	require.NoError(t, err)
	assert.Equal(t, uint64(3600), lock)
}

func TestPauseUnpause(t *testing.T) {
	srv := newServer(t)

	code, body := srv.request(http.MethodPost, "/admin/pause", map[string]interface{}{
		"caller": srv.owner.String(),
	})
	require.Equal(t, http.StatusOK, code, string(body))

	paused, err := srv.exec.IsPaused()
	require.NoError(t, err)
	assert.True(t, paused)

	// pausing twice is a client error
	code, _ = srv.request(http.MethodPost, "/admin/pause", map[string]interface{}{
		"caller": srv.owner.String(),
	})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = srv.request(http.MethodPost, "/admin/unpause", map[string]interface{}{
		"caller": srv.owner.String(),
	})
	require.Equal(t, http.StatusOK, code, string(body))

	paused, err = srv.exec.IsPaused()
	require.NoError(t, err)
	assert.False(t, paused)
}

func TestGetOwner(t *testing.T) {
	srv := newServer(t)

	code, body := srv.request(http.MethodGet, "/admin/owner", nil)
	require.Equal(t, http.StatusOK, code, string(body))
	assert.Contains(t, string(body), srv.owner.String())
}
