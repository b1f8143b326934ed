// Copyright (c) 2026 The StakeVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stor

import (
	"github.com/stakevault/stakevault/vault"
)

// Address is a wrapper for storage and retrieval of an account address.
type Address struct {
	context *Context
	pos     vault.Bytes32
}

func NewAddress(context *Context, slot vault.Bytes32) *Address {
	return &Address{context: context, pos: slot}
}

func (a *Address) Get() (vault.Address, error) {
	storage, err := a.context.state.GetStorage(a.context.address, a.pos)
	if err != nil {
		return vault.Address{}, err
	}
	return vault.BytesToAddress(storage.Bytes()), nil
}

func (a *Address) Set(value vault.Address) {
	a.context.state.SetStorage(a.context.address, a.pos, vault.BytesToBytes32(value.Bytes()))
}
