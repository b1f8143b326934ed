// Copyright (c) 2026 The StakeVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/kv"
	"github.com/stakevault/stakevault/vault"
)

// Creator creates state instances bound to the underlying key-value store.
type Creator struct {
	db kv.GetPutter
}

// NewCreator creates a state creator.
func NewCreator(db kv.GetPutter) *Creator {
	return &Creator{db: db}
}

// NewState returns a fresh state.
// Reads hit the store directly, writes are buffered until Commit.
func (c *Creator) NewState() *State {
	return &State{
		db:      c.db,
		changes: make(map[vault.Bytes32][]byte),
	}
}

// State provides structured storage namespaced by account address.
// All writes stay in memory; Commit flushes them as a single atomic batch,
// so a state that is dropped without Commit leaves the store untouched.
type State struct {
	db      kv.GetPutter
	changes map[vault.Bytes32][]byte
}

func storageKey(addr vault.Address, key vault.Bytes32) vault.Bytes32 {
	return vault.Blake2b(addr.Bytes(), key.Bytes())
}

// GetRawStorage returns the raw value stored at (addr, key), nil if absent.
func (s *State) GetRawStorage(addr vault.Address, key vault.Bytes32) ([]byte, error) {
	sk := storageKey(addr, key)
	if raw, ok := s.changes[sk]; ok {
		return raw, nil
	}
	raw, err := s.db.Get(sk.Bytes())
	if err != nil {
		if s.db.IsNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "get storage")
	}
	return raw, nil
}

// SetRawStorage buffers the raw value at (addr, key). Empty value deletes the slot.
func (s *State) SetRawStorage(addr vault.Address, key vault.Bytes32, raw []byte) {
	s.changes[storageKey(addr, key)] = raw
}

// GetStorage returns the 32-byte value stored at (addr, key).
func (s *State) GetStorage(addr vault.Address, key vault.Bytes32) (vault.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return vault.Bytes32{}, err
	}
	return vault.BytesToBytes32(raw), nil
}

// SetStorage sets the 32-byte value at (addr, key). A zero value clears the slot.
func (s *State) SetStorage(addr vault.Address, key vault.Bytes32, value vault.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	s.SetRawStorage(addr, key, value.Bytes())
}

// DecodeStorage calls the decoder with the raw value at (addr, key).
// The decoder receives nil when the slot is empty.
func (s *State) DecodeStorage(addr vault.Address, key vault.Bytes32, decode func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	return decode(raw)
}

// EncodeStorage stores the value produced by the encoder at (addr, key).
// An empty encoded value clears the slot.
func (s *State) EncodeStorage(addr vault.Address, key vault.Bytes32, encode func() ([]byte, error)) error {
	raw, err := encode()
	if err != nil {
		return err
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// Commit writes all buffered changes to the store as one atomic batch.
func (s *State) Commit() error {
	if len(s.changes) == 0 {
		return nil
	}
	batch := s.db.NewBatch()
	for sk, raw := range s.changes {
		if len(raw) == 0 {
			if err := batch.Delete(sk.Bytes()); err != nil {
				return errors.Wrap(err, "commit state")
			}
			continue
		}
		if err := batch.Put(sk.Bytes(), raw); err != nil {
			return errors.Wrap(err, "commit state")
		}
	}
	if err := batch.Write(); err != nil {
		return errors.Wrap(err, "commit state")
	}
	s.changes = make(map[vault.Bytes32][]byte)
	return nil
}
