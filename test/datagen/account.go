// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/vechain/repstake/account"
)

func RandAddress() account.Address {
	return account.BytesToAddress(RandBytes(account.AddressLength))
}

// RandKey returns a fresh key and the address it signs for.
func RandKey() (*ecdsa.PrivateKey, account.Address) {
	key, err := crypto.GenerateKey()
	if err != nil {
		panic(err)
	}
	return key, account.FromPublicKey(key.PublicKey)
}
