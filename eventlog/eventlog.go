// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package eventlog keeps an append-only, queryable copy of ledger events.
package eventlog

import (
	"context"
	"database/sql"
	"strings"

	"github.com/holiman/uint256"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/repstake/account"
	"github.com/vechain/repstake/co"
	"github.com/vechain/repstake/ledger"
	"github.com/vechain/repstake/log"
)

var logger = log.WithContext("pkg", "eventlog")

type EventLog struct {
	path          string
	db            *sql.DB
	driverVersion string
	written       co.Signal
}

// New create or open the event log at given path.
func New(path string) (eventLog *EventLog, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if eventLog == nil {
			db.Close()
		}
	}()
	if path == ":memory:" {
		// every connection would otherwise see its own database
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, errors.Wrap(err, "create schema")
	}

	driverVer, _, _ := sqlite3.Version()
	return &EventLog{
		path:          path,
		db:            db,
		driverVersion: driverVer,
	}, nil
}

// NewMem create an event log in ram.
func NewMem() (*EventLog, error) {
	return New(":memory:")
}

func (el *EventLog) Close() error {
	return el.db.Close()
}

func (el *EventLog) Path() string {
	return el.path
}

func (el *EventLog) DriverVersion() string {
	return el.driverVersion
}

func blob(v *uint256.Int) any {
	if v == nil {
		return nil
	}
	b := v.Bytes32()
	return b[:]
}

func value(b []byte) *uint256.Int {
	if b == nil {
		return nil
	}
	return new(uint256.Int).SetBytes(b)
}

// Write appends events in one transaction. Already stored sequence numbers are skipped.
func (el *EventLog) Write(ctx context.Context, events []*ledger.Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := el.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx,
		"INSERT OR IGNORE INTO event(seq, kind, account, previous, amount, total, oldValue, newValue, timestamp) VALUES(?,?,?,?,?,?,?,?,?)")
	if err != nil {
		return errors.Wrap(err, "prepare")
	}
	defer stmt.Close()

	for _, ev := range events {
		if _, err := stmt.ExecContext(ctx,
			ev.Seq,
			string(ev.Kind),
			ev.Account.Bytes(),
			ev.Previous.Bytes(),
			blob(ev.Amount),
			blob(ev.Total),
			blob(ev.OldValue),
			blob(ev.NewValue),
			ev.Timestamp,
		); err != nil {
			return errors.Wrapf(err, "insert event %d", ev.Seq)
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit")
	}
	el.written.Broadcast()
	return nil
}

// NewEvents returns a channel closed on the next successful Write.
func (el *EventLog) NewEvents() <-chan struct{} {
	return el.written.Wait()
}

// Observer returns a ledger observer that appends every committed event.
func (el *EventLog) Observer() ledger.Observer {
	return func(events []*ledger.Event) {
		if err := el.Write(context.Background(), events); err != nil {
			logger.Warn("failed to write events", "first", events[0].Seq, "count", len(events), "err", err)
		}
	}
}

// LastSeq returns the highest stored sequence number, 0 if empty.
func (el *EventLog) LastSeq(ctx context.Context) (uint64, error) {
	var seq sql.NullInt64
	if err := el.db.QueryRowContext(ctx, "SELECT MAX(seq) FROM event").Scan(&seq); err != nil {
		return 0, errors.Wrap(err, "last seq")
	}
	return uint64(seq.Int64), nil
}

// Filter queries events matching filter, in seq order.
func (el *EventLog) Filter(ctx context.Context, filter *Filter) ([]*ledger.Event, error) {
	const columns = "SELECT seq, kind, account, previous, amount, total, oldValue, newValue, timestamp FROM event"
	if filter == nil {
		return el.query(ctx, columns+" ORDER BY seq ASC")
	}

	var args []any
	stmt := columns + " WHERE 1"
	if filter.Account != nil {
		args = append(args, filter.Account.Bytes())
		stmt += " AND account = ?"
	}
	if filter.After > 0 {
		args = append(args, filter.After)
		stmt += " AND seq > ?"
	}
	if len(filter.Kinds) > 0 {
		stmt += " AND kind IN (" + strings.TrimSuffix(strings.Repeat("?,", len(filter.Kinds)), ",") + ")"
		for _, kind := range filter.Kinds {
			args = append(args, string(kind))
		}
	}
	if filter.Range != nil {
		args = append(args, filter.Range.From)
		stmt += " AND timestamp >= ?"
		if filter.Range.To >= filter.Range.From {
			args = append(args, filter.Range.To)
			stmt += " AND timestamp <= ?"
		}
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
	return el.query(ctx, stmt, args...)
}

func (el *EventLog) query(ctx context.Context, stmt string, args ...any) ([]*ledger.Event, error) {
	rows, err := el.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query")
	}
	defer rows.Close()

	var events []*ledger.Event
	for rows.Next() {
		var (
			ev                                ledger.Event
			kind                              string
			acc, previous                     []byte
			amount, total, oldValue, newValue []byte
		)
		if err := rows.Scan(
			&ev.Seq,
			&kind,
			&acc,
			&previous,
			&amount,
			&total,
			&oldValue,
			&newValue,
			&ev.Timestamp,
		); err != nil {
			return nil, errors.Wrap(err, "scan")
		}
		ev.Kind = ledger.EventKind(kind)
		ev.Account = account.BytesToAddress(acc)
		ev.Previous = account.BytesToAddress(previous)
		ev.Amount = value(amount)
		ev.Total = value(total)
		ev.OldValue = value(oldValue)
		ev.NewValue = value(newValue)
		events = append(events, &ev)
	}
	return events, errors.Wrap(rows.Err(), "rows")
}
