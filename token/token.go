// Copyright (c) 2026 The StakeVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token is the custody asset the ledger stakes. Balances live in the
// same buffered state as the ledger's own records, so asset moves commit or
// roll back with the operation that caused them.
package token

import (
	"math/big"

	"github.com/stakevault/stakevault/ledger/stor"
	"github.com/stakevault/stakevault/state"
	"github.com/stakevault/stakevault/vault"
)

// Address is the account the token's own bookkeeping lives under.
var Address = vault.BytesToAddress([]byte("stake-token"))

var (
	slotSupply  = vault.BytesToBytes32([]byte("token-supply"))
	posBalances = vault.BytesToBytes32([]byte("token-balances"))
)

// Token reads and moves balances on one bound state.
type Token struct {
	supply   *stor.Uint256
	balances *stor.Mapping[vault.Address, *big.Int]
}

// New binds the token to a state.
func New(st *state.State) *Token {
	sctx := stor.NewContext(Address, st)
	return &Token{
		supply:   stor.NewUint256(sctx, slotSupply),
		balances: stor.NewMapping[vault.Address, *big.Int](sctx, posBalances),
	}
}

// TotalSupply returns the amount ever minted.
func (t *Token) TotalSupply() (*big.Int, error) {
	return t.supply.Get()
}

// BalanceOf returns the holder's balance.
func (t *Token) BalanceOf(holder vault.Address) (*big.Int, error) {
	bal, err := t.balances.Get(holder)
	if err != nil {
		return nil, err
	}
	if bal == nil {
		return new(big.Int), nil
	}
	return bal, nil
}

// Mint credits amount to the holder out of thin air. Dev and test use.
func (t *Token) Mint(holder vault.Address, amount *big.Int) error {
	if err := t.add(holder, amount); err != nil {
		return err
	}
	return t.supply.Add(amount)
}

// Transfer moves amount between holders. A short balance returns false with
// no state change.
func (t *Token) Transfer(from, to vault.Address, amount *big.Int) (bool, error) {
	if amount.Sign() == 0 {
		return true, nil
	}
	ok, err := t.sub(from, amount)
	if err != nil || !ok {
		return false, err
	}
	if err := t.add(to, amount); err != nil {
		return false, err
	}
	return true, nil
}

func (t *Token) add(holder vault.Address, amount *big.Int) error {
	bal, err := t.BalanceOf(holder)
	if err != nil {
		return err
	}
	return t.balances.Set(holder, new(big.Int).Add(bal, amount))
}

func (t *Token) sub(holder vault.Address, amount *big.Int) (bool, error) {
	bal, err := t.BalanceOf(holder)
	if err != nil {
		return false, err
	}
	if bal.Cmp(amount) < 0 {
		return false, nil
	}
	return true, t.balances.Set(holder, new(big.Int).Sub(bal, amount))
}
