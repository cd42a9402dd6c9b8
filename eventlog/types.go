// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventlog

import (
	"github.com/vechain/repstake/account"
	"github.com/vechain/repstake/ledger"
)

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range is an inclusive timestamp range. To below From means unbounded.
type Range struct {
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

// Filter selects events. Nil or empty fields match everything.
type Filter struct {
	Account *account.Address
	After   uint64 // only events with a greater seq
	Kinds   []ledger.EventKind
	Range   *Range
	Order   Order
	Options *Options
}
