// Copyright (c) 2026 The StakeVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package authority gates the owner-only administration operations.
package authority

import (
	"github.com/stakevault/stakevault/ledger/params"
	"github.com/stakevault/stakevault/vault"
)

// Service answers ownership checks against the persisted owner address.
type Service struct {
	params *params.Params
}

func New(params *params.Params) *Service {
	return &Service{params: params}
}

// IsOwner reports whether caller is the administration account.
// A zero owner (uninitialized ledger) authorizes nobody.
func (s *Service) IsOwner(caller vault.Address) (bool, error) {
	owner, err := s.params.Owner()
	if err != nil {
		return false, err
	}
	if owner.IsZero() {
		return false, nil
	}
	return owner == caller, nil
}
