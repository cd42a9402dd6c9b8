// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package testnode

import (
	"errors"
	"net/http/httptest"

	"github.com/vechain/repstake/api"
	"github.com/vechain/repstake/test/testledger"
)

// Node represents a ledger served over a test api server.
type Node interface {
	// Ledger returns the underlying ledger bundle
	Ledger() *testledger.Ledger

	// Start starts the api server
	Start() error

	// Stop stops the api server
	Stop() error

	// APIServer returns the node api server
	APIServer() *httptest.Server
}

type node struct {
	ledger          *testledger.Ledger
	options         api.Options
	apiServer       *httptest.Server
	apiServerCloser func()
}

// Start starts the api server. It fails if the node is already running.
func (n *node) Start() error {
	if n.ledger == nil {
		return errors.New("ledger is not initialized")
	}
	if n.apiServer != nil {
		return errors.New("node is already running")
	}

	handler, closer := api.New(
		n.ledger.Ledger(),
		n.ledger.Registry(),
		n.ledger.EventLog(),
		n.ledger.Clock(),
		n.options,
	)
	n.apiServer = httptest.NewServer(handler)
	n.apiServerCloser = closer
	return nil
}

// Stop closes the subscriptions and the api server.
func (n *node) Stop() error {
	if n.apiServer == nil {
		return errors.New("node is not running")
	}
	n.apiServerCloser()
	n.apiServer.Close()
	n.apiServer = nil
	n.apiServerCloser = nil
	return nil
}

func (n *node) Ledger() *testledger.Ledger {
	return n.ledger
}

// APIServer returns the node api server
func (n *node) APIServer() *httptest.Server {
	return n.apiServer
}
