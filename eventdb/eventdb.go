// Copyright (c) 2026 The StakeVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package eventdb stores ledger events in sqlite for off-chain queries.
package eventdb

import (
	"database/sql"
	"fmt"
	"math/big"

	_ "github.com/mattn/go-sqlite3"

	"github.com/stakevault/stakevault/ledger"
	"github.com/stakevault/stakevault/vault"
)

const eventTableSchema = `CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	ts INTEGER NOT NULL,
	name TEXT NOT NULL,
	user BLOB NOT NULL,
	amount TEXT NOT NULL,
	stakeId INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS event_i1 ON event(user, name);
CREATE INDEX IF NOT EXISTS event_i2 ON event(ts);`

type OrderType string

const (
	ASC  OrderType = "ASC"
	DESC OrderType = "DESC"
)

// Range bounds event timestamps, inclusive.
type Range struct {
	From uint64 `json:"from"`
	To   uint64 `json:"to"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

// Filter selects stored events. Nil fields match everything.
type Filter struct {
	Name    string         `json:"name"`
	User    *vault.Address `json:"user"`
	Order   OrderType      `json:"order"` // default asc
	Range   *Range         `json:"range"`
	Options *Options       `json:"options"`
}

// Event is a stored ledger event with its assigned sequence number.
type Event struct {
	Sequence uint64        `json:"sequence"`
	Time     uint64        `json:"time"`
	Name     string        `json:"name"`
	User     vault.Address `json:"user"`
	Amount   *big.Int      `json:"amount"`
	StakeID  uint64        `json:"stakeId"`
}

// EventDB stores events appended by committed ledger operations.
type EventDB struct {
	path string
	db   *sql.DB
}

// New opens or creates the event db at path.
func New(path string) (*EventDB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(eventTableSchema); err != nil {
		db.Close()
		return nil, err
	}
	return &EventDB{path: path, db: db}, nil
}

// NewMem creates an in-memory event db.
func NewMem() (*EventDB, error) {
	return New(":memory:")
}

// Path returns the db file path.
func (db *EventDB) Path() string {
	return db.path
}

// Close closes the underlying db.
func (db *EventDB) Close() error {
	return db.db.Close()
}

// Record appends the events of one committed operation in a single
// transaction. It implements ledger.Recorder.
func (db *EventDB) Record(events []ledger.Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	for _, ev := range events {
		amount := "0"
		if ev.Amount != nil {
			amount = ev.Amount.String()
		}
		if _, err := tx.Exec(
			"INSERT INTO event(ts, name, user, amount, stakeId) VALUES (?, ?, ?, ?, ?);",
			ev.Time, ev.Name, ev.User.Bytes(), amount, ev.StakeID,
		); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Filter returns stored events matching the filter, in sequence order.
func (db *EventDB) Filter(filter *Filter) ([]*Event, error) {
	if filter == nil {
		return db.query("SELECT seq, ts, name, user, amount, stakeId FROM event")
	}
	stmt := "SELECT seq, ts, name, user, amount, stakeId FROM event WHERE 1"
	var args []interface{}
	if filter.Name != "" {
		stmt += " AND name = ?"
		args = append(args, filter.Name)
	}
	if filter.User != nil {
		stmt += " AND user = ?"
		args = append(args, filter.User.Bytes())
	}
	if filter.Range != nil {
		stmt += " AND ts >= ? AND ts <= ?"
		args = append(args, filter.Range.From, filter.Range.To)
	}
	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC"
	} else {
		stmt += " ORDER BY seq ASC"
	}
	if filter.Options != nil {
		stmt += " LIMIT ?, ?"
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.query(stmt, args...)
}

func (db *EventDB) query(stmt string, args ...interface{}) ([]*Event, error) {
	rows, err := db.db.Query(stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		var (
			ev     Event
			user   []byte
			amount string
		)
		if err := rows.Scan(&ev.Sequence, &ev.Time, &ev.Name, &user, &amount, &ev.StakeID); err != nil {
			return nil, err
		}
		ev.User = vault.BytesToAddress(user)
		var ok bool
		if ev.Amount, ok = new(big.Int).SetString(amount, 10); !ok {
			return nil, fmt.Errorf("eventdb: bad amount %q at seq %d", amount, ev.Sequence)
		}
		events = append(events, &ev)
	}
	return events, rows.Err()
}
