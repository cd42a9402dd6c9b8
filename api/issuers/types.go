// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package issuers

import "github.com/vechain/repstake/account"

// Registry describes the registry ownership.
type Registry struct {
	Owner        *account.Address `json:"owner"`
	PendingOwner *account.Address `json:"pendingOwner"`
}

type Issuer struct {
	Address account.Address `json:"address"`
	Issuer  bool            `json:"issuer"`
}

// Request is the body of the registry operations. NewOwner is only read by transfer-ownership.
type Request struct {
	Caller   *account.Address `json:"caller"`
	NewOwner *account.Address `json:"newOwner,omitempty"`
}
