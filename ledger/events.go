// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"github.com/holiman/uint256"

	"github.com/vechain/repstake/account"
)

// EventKind names a ledger event.
type EventKind string

const (
	EventStaked               EventKind = "staked"
	EventWithdrawn            EventKind = "withdrawn"
	EventReputationUpdated    EventKind = "reputation-updated"
	EventUserBlacklisted      EventKind = "user-blacklisted"
	EventUserUnblacklisted    EventKind = "user-unblacklisted"
	EventMinimumStakeUpdated  EventKind = "minimum-stake-updated"
	EventOwnershipTransferred EventKind = "ownership-transferred"
)

// EventKinds lists every kind in declaration order.
var EventKinds = []EventKind{
	EventStaked,
	EventWithdrawn,
	EventReputationUpdated,
	EventUserBlacklisted,
	EventUserUnblacklisted,
	EventMinimumStakeUpdated,
	EventOwnershipTransferred,
}

// Valid reports whether k is a known kind.
func (k EventKind) Valid() bool {
	for _, kind := range EventKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Event is an entry of the ledger's observable log.
//
// Account is the staker for staked, withdrawn and reputation-updated, the user for
// the blacklist kinds and the new owner for ownership-transferred, where Previous
// holds the former owner. Amount and Total are the moved amount and the resulting
// stake; OldValue and NewValue carry reputation or minimum stake changes.
// Unused fields are nil.
type Event struct {
	Seq       uint64
	Kind      EventKind
	Account   account.Address
	Previous  account.Address
	Amount    *uint256.Int
	Total     *uint256.Int
	OldValue  *uint256.Int
	NewValue  *uint256.Int
	Timestamp uint64
}

// Observer receives the events of each committed operation, in emission order.
// It runs while the ledger is locked and must not call back into the ledger.
type Observer func(events []*Event)

// Subscribe registers o and returns a function that removes it.
func (l *Ledger) Subscribe(o Observer) (unsubscribe func()) {
	l.observersMu.Lock()
	defer l.observersMu.Unlock()

	id := l.nextObserverID
	l.nextObserverID++
	l.observers[id] = o

	return func() {
		l.observersMu.Lock()
		defer l.observersMu.Unlock()
		delete(l.observers, id)
	}
}

func (l *Ledger) emit(ev *Event) {
	ev.Seq = l.seq + uint64(len(l.pending)) + 1
	l.pending = append(l.pending, ev)
}

func (l *Ledger) notify(events []*Event) {
	if len(events) == 0 {
		return
	}
	l.observersMu.Lock()
	observers := make([]Observer, 0, len(l.observers))
	for _, o := range l.observers {
		observers = append(observers, o)
	}
	l.observersMu.Unlock()

	for _, o := range observers {
		o(events)
	}
}
