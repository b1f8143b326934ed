// Copyright (c) 2026 The StakeVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"

	"github.com/stakevault/stakevault/ledger"
	"github.com/stakevault/stakevault/state"
	"github.com/stakevault/stakevault/vault"
)

// Binder adapts the token into the ledger's custody collaborator.
type Binder struct{}

// NewBinder returns a binder for the ledger.
func NewBinder() *Binder {
	return &Binder{}
}

// Bind binds a custody view of the token to the given state.
func (b *Binder) Bind(st *state.State) ledger.TokenLedger {
	return &custody{New(st)}
}

// custody moves the asset relative to the ledger's custody account.
type custody struct {
	token *Token
}

func (c *custody) PullFrom(payer vault.Address, amount *big.Int) (bool, error) {
	return c.token.Transfer(payer, ledger.Address, amount)
}

func (c *custody) PushTo(payee vault.Address, amount *big.Int) (bool, error) {
	return c.token.Transfer(ledger.Address, payee, amount)
}

func (c *custody) Balance() (*big.Int, error) {
	return c.token.BalanceOf(ledger.Address)
}
