// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package testnode

import (
	"fmt"

	"github.com/vechain/repstake/account"
	"github.com/vechain/repstake/api"
	"github.com/vechain/repstake/test/testledger"
)

// DefaultOwner initializes ledgers created by the builder.
var DefaultOwner = account.BytesToAddress([]byte("owner"))

// NodeBuilder implements the builder pattern for creating a test node instance
type NodeBuilder struct {
	ledger  *testledger.Ledger
	options api.Options
}

// NewNodeBuilder creates a new NodeBuilder with default configuration
func NewNodeBuilder() *NodeBuilder {
	return &NodeBuilder{
		options: api.Options{
			AllowedOrigins: "*",
			EventsLimit:    1000,
			BacktraceLimit: 1000,
		},
	}
}

// WithLedger sets the ledger for the node.
// If not set, a default ledger owned by DefaultOwner will be created during Build().
func (b *NodeBuilder) WithLedger(l *testledger.Ledger) *NodeBuilder {
	if l == nil {
		panic("ledger cannot be nil")
	}
	b.ledger = l
	return b
}

// WithOptions replaces the api options.
func (b *NodeBuilder) WithOptions(opts api.Options) *NodeBuilder {
	b.options = opts
	return b
}

// Build creates a new Node with the current configuration.
func (b *NodeBuilder) Build() (Node, error) {
	l := b.ledger
	if l == nil {
		var err error
		if l, err = testledger.New(DefaultOwner); err != nil {
			return nil, fmt.Errorf("failed to create default ledger: %w", err)
		}
	}
	return &node{
		ledger:  l,
		options: b.options,
	}, nil
}

// NewDefaultNode creates a new node with default configuration
func NewDefaultNode() (Node, error) {
	return NewNodeBuilder().Build()
}
