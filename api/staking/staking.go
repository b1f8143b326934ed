// Copyright (c) 2026 The StakeVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package staking exposes the ledger's user-facing operations over REST.
package staking

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/api/restutil"
	"github.com/stakevault/stakevault/ledger"
	"github.com/stakevault/stakevault/ledger/reverts"
	"github.com/stakevault/stakevault/vault"
)

type Staking struct {
	exec *ledger.Executor
	now  func() uint64
}

func New(exec *ledger.Executor) *Staking {
	return &Staking{
		exec: exec,
		now:  func() uint64 { return uint64(time.Now().Unix()) },
	}
}

// convertErr maps ledger rejections onto HTTP statuses. Rule violations are
// the client's fault; everything else is ours.
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

func (s *Staking) handleStake(w http.ResponseWriter, req *http.Request) error {
	var body StakeRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	id, err := s.exec.Stake(body.Caller, toBig(body.Amount), s.now())
	if err != nil {
		return convertErr(err)
	}
	return restutil.WriteJSON(w, &StakeResponse{ID: id})
}

func (s *Staking) handleWithdraw(w http.ResponseWriter, req *http.Request) error {
	var body WithdrawRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := s.exec.Withdraw(body.Caller, body.StakeIDs, toBig(body.Amount), s.now()); err != nil {
		return convertErr(err)
	}
	return restutil.WriteJSON(w, restutil.M{"withdrawn": true})
}

func (s *Staking) handleClaim(w http.ResponseWriter, req *http.Request) error {
	var body ClaimRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	payout, err := s.exec.ClaimRewards(body.Caller, s.now())
	if err != nil {
		return convertErr(err)
	}
	return restutil.WriteJSON(w, &ClaimResponse{Amount: (*math.HexOrDecimal256)(payout)})
}

func (s *Staking) handleSettle(w http.ResponseWriter, req *http.Request) error {
	var body SettleRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := s.exec.Settle(body.User, s.now()); err != nil {
		return convertErr(err)
	}
	return restutil.WriteJSON(w, restutil.M{"settled": true})
}

func userParam(req *http.Request) (vault.Address, error) {
	user, err := vault.ParseAddress(mux.Vars(req)["user"])
	if err != nil {
		return vault.Address{}, restutil.BadRequest(errors.WithMessage(err, "user"))
	}
	return user, nil
}

func idParam(req *http.Request) (uint64, error) {
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 64)
	if err != nil {
		return 0, restutil.BadRequest(errors.WithMessage(err, "id"))
	}
	return id, nil
}

func (s *Staking) handleGetStakes(w http.ResponseWriter, req *http.Request) error {
	user, err := userParam(req)
	if err != nil {
		return err
	}
	records, err := s.exec.AllStakes(user)
	if err != nil {
		return convertErr(err)
	}
	out := make([]*Stake, len(records))
	for i, record := range records {
		out[i] = convertStake(uint64(i), record)
	}
	return restutil.WriteJSON(w, out)
}

func (s *Staking) handleGetStake(w http.ResponseWriter, req *http.Request) error {
	user, err := userParam(req)
	if err != nil {
		return err
	}
	id, err := idParam(req)
	if err != nil {
		return err
	}
	record, err := s.exec.StakeInfo(user, id)
	if err != nil {
		if reverts.IsRevertErr(err) {
			return restutil.HTTPError(fmt.Errorf("no stake with id %d", id), http.StatusNotFound)
		}
		return err
	}
	return restutil.WriteJSON(w, convertStake(id, record))
}

func (s *Staking) handleCanWithdraw(w http.ResponseWriter, req *http.Request) error {
	user, err := userParam(req)
	if err != nil {
		return err
	}
	id, err := idParam(req)
	if err != nil {
		return err
	}
	ok, err := s.exec.CanWithdraw(user, id, s.now())
	if err != nil {
		return convertErr(err)
	}
	return restutil.WriteJSON(w, restutil.M{"withdrawable": ok})
}

func (s *Staking) handleGetRewards(w http.ResponseWriter, req *http.Request) error {
	user, err := userParam(req)
	if err != nil {
		return err
	}
	accrued, err := s.exec.AccruedRewards(user, s.now())
	if err != nil {
		return convertErr(err)
	}
	count, err := s.exec.ActiveStakeCount(user)
	if err != nil {
		return convertErr(err)
	}
	return restutil.WriteJSON(w, restutil.M{
		"accrued":      (*math.HexOrDecimal256)(accrued),
		"activeStakes": count,
	})
}

func (s *Staking) handleGetTotals(w http.ResponseWriter, _ *http.Request) error {
	staked, unclaimed, err := s.exec.Totals()
	if err != nil {
		return convertErr(err)
	}
	return restutil.WriteJSON(w, &Totals{
		Staked:          (*math.HexOrDecimal256)(staked),
		UnclaimedScaled: (*math.HexOrDecimal256)(unclaimed),
	})
}

func (s *Staking) handleGetParams(w http.ResponseWriter, _ *http.Request) error {
	rate, err := s.exec.RewardRate()
	if err != nil {
		return convertErr(err)
	}
	lock, err := s.exec.LockDuration()
	if err != nil {
		return convertErr(err)
	}
	paused, err := s.exec.IsPaused()
	if err != nil {
		return convertErr(err)
	}
	return restutil.WriteJSON(w, restutil.M{
		"rewardRatePercent": (*math.HexOrDecimal256)(rate),
		"lockDuration":      lock,
		"paused":            paused,
	})
}

func (s *Staking) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/stakes").
		Methods(http.MethodPost).
		Name("POST /staking/stakes").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleStake))
	sub.Path("/withdrawals").
		Methods(http.MethodPost).
		Name("POST /staking/withdrawals").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleWithdraw))
	sub.Path("/claims").
		Methods(http.MethodPost).
		Name("POST /staking/claims").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleClaim))
	sub.Path("/settlements").
		Methods(http.MethodPost).
		Name("POST /staking/settlements").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleSettle))
	sub.Path("/accounts/{user}/stakes").
		Methods(http.MethodGet).
		Name("GET /staking/accounts/{user}/stakes").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetStakes))
	sub.Path("/accounts/{user}/stakes/{id}").
		Methods(http.MethodGet).
		Name("GET /staking/accounts/{user}/stakes/{id}").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetStake))
	sub.Path("/accounts/{user}/stakes/{id}/withdrawable").
		Methods(http.MethodGet).
		Name("GET /staking/accounts/{user}/stakes/{id}/withdrawable").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleCanWithdraw))
	sub.Path("/accounts/{user}/rewards").
		Methods(http.MethodGet).
		Name("GET /staking/accounts/{user}/rewards").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetRewards))
	sub.Path("/totals").
		Methods(http.MethodGet).
		Name("GET /staking/totals").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetTotals))
	sub.Path("/params").
		Methods(http.MethodGet).
		Name("GET /staking/params").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetParams))
}
