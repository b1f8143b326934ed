// Copyright (c) 2026 The StakeVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package admin exposes the owner-only ledger operations over REST.
package admin

import (
	"math/big"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/api/restutil"
	"github.com/stakevault/stakevault/ledger"
	"github.com/stakevault/stakevault/ledger/reverts"
	"github.com/stakevault/stakevault/vault"
)

type Admin struct {
	exec *ledger.Executor
	now  func() uint64
}

func New(exec *ledger.Executor) *Admin {
	return &Admin{
		exec: exec,
		now:  func() uint64 { return uint64(time.Now().Unix()) },
	}
}

// RateRequest sets the annual reward rate percent.
type RateRequest struct {
	Caller vault.Address         `json:"caller"`
	Rate   *math.HexOrDecimal256 `json:"rate"`
}

// LockRequest sets the lock duration in seconds.
type LockRequest struct {
	Caller vault.Address `json:"caller"`
	Lock   uint64        `json:"lock"`
}

// PauseRequest toggles the mutation gate.
type PauseRequest struct {
	Caller vault.Address `json:"caller"`
}

func convertErr(err error) error {
	if err == nil {
		return nil
	}
	if err == reverts.ErrUnauthorized {
		return restutil.Forbidden(err)
	}
	if reverts.IsRevertErr(err) {
		return restutil.BadRequest(err)
	}
	return err
}

func (a *Admin) handleSetRate(w http.ResponseWriter, req *http.Request) error {
	var body RateRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := a.exec.SetRewardRate(body.Caller, toBig(body.Rate)); err != nil {
		return convertErr(err)
	}
	return restutil.WriteJSON(w, restutil.M{"rate": body.Rate})
}

func (a *Admin) handleSetLock(w http.ResponseWriter, req *http.Request) error {
	var body LockRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := a.exec.SetLockDuration(body.Caller, body.Lock); err != nil {
		return convertErr(err)
	}
	return restutil.WriteJSON(w, restutil.M{"lock": body.Lock})
}

func (a *Admin) handlePause(w http.ResponseWriter, req *http.Request) error {
	var body PauseRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := a.exec.Pause(body.Caller, a.now()); err != nil {
		return convertErr(err)
	}
	return restutil.WriteJSON(w, restutil.M{"paused": true})
}

func (a *Admin) handleUnpause(w http.ResponseWriter, req *http.Request) error {
	var body PauseRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := a.exec.Unpause(body.Caller, a.now()); err != nil {
		return convertErr(err)
	}
	return restutil.WriteJSON(w, restutil.M{"paused": false})
}

func (a *Admin) handleGetOwner(w http.ResponseWriter, _ *http.Request) error {
	owner, err := a.exec.Owner()
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, restutil.M{"owner": owner})
}

func (a *Admin) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/rate").
		Methods(http.MethodPut).
		Name("PUT /admin/rate").
		HandlerFunc(restutil.WrapHandlerFunc(a.handleSetRate))
	sub.Path("/lock").
		Methods(http.MethodPut).
		Name("PUT /admin/lock").
		HandlerFunc(restutil.WrapHandlerFunc(a.handleSetLock))
	sub.Path("/pause").
		Methods(http.MethodPost).
		Name("POST /admin/pause").
		HandlerFunc(restutil.WrapHandlerFunc(a.handlePause))
	sub.Path("/unpause").
		Methods(http.MethodPost).
		Name("POST /admin/unpause").
		HandlerFunc(restutil.WrapHandlerFunc(a.handleUnpause))
	sub.Path("/owner").
		Methods(http.MethodGet).
		Name("GET /admin/owner").
		HandlerFunc(restutil.WrapHandlerFunc(a.handleGetOwner))
}

func toBig(v *math.HexOrDecimal256) *big.Int {
	if v == nil {
		return nil
	}
	return (*big.Int)(v)
}
