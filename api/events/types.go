// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"github.com/holiman/uint256"

	"github.com/vechain/repstake/account"
	"github.com/vechain/repstake/ledger"
)

// Event is the JSON form of a ledger event. Amounts are decimal strings.
type Event struct {
	Seq       uint64           `json:"seq"`
	Kind      ledger.EventKind `json:"kind"`
	Account   account.Address  `json:"account"`
	Previous  *account.Address `json:"previous,omitempty"`
	Amount    *string          `json:"amount,omitempty"`
	Total     *string          `json:"total,omitempty"`
	OldValue  *string          `json:"oldValue,omitempty"`
	NewValue  *string          `json:"newValue,omitempty"`
	Timestamp uint64           `json:"timestamp"`
}

func dec(v *uint256.Int) *string {
	if v == nil {
		return nil
	}
	s := v.Dec()
	return &s
}

// ConvertEvent converts a ledger event into its JSON form.
func ConvertEvent(ev *ledger.Event) *Event {
	e := &Event{
		Seq:       ev.Seq,
		Kind:      ev.Kind,
		Account:   ev.Account,
		Amount:    dec(ev.Amount),
		Total:     dec(ev.Total),
		OldValue:  dec(ev.OldValue),
		NewValue:  dec(ev.NewValue),
		Timestamp: ev.Timestamp,
	}
	if ev.Kind == ledger.EventOwnershipTransferred {
		previous := ev.Previous
		e.Previous = &previous
	}
	return e
}
