// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"crypto/rand"
	mathrand "math/rand/v2"

	"github.com/holiman/uint256"
)

func RandIntN(n int) int {
	return mathrand.N(n) //#nosec G404
}

// RandAmount returns an amount in [1, limit].
func RandAmount(limit uint64) *uint256.Int {
	return uint256.NewInt(mathrand.Uint64N(limit) + 1) //#nosec G404
}

func RandBytes(n int) []byte {
	b := make([]byte, n)
	rand.Read(b)
	return b
}
