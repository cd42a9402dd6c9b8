// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package clock provides the trusted time source of the ledger.
package clock

import (
	"sync"
	"time"
)

// Clock returns the current time as unix seconds.
type Clock interface {
	Now() uint64
}

// System is the host's wall clock.
type System struct{}

func (System) Now() uint64 {
	return uint64(time.Now().Unix())
}

// Manual is a clock that only moves when told to.
type Manual struct {
	mu  sync.Mutex
	now uint64
}

func NewManual(start uint64) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward by secs seconds and returns the new time.
func (m *Manual) Advance(secs uint64) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now += secs
	return m.now
}

func (m *Manual) Set(now uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}
