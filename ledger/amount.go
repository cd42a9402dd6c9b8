// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"strings"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// ParseAmount parses a decimal or 0x-prefixed hex amount.
func ParseAmount(s string) (*uint256.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("empty amount")
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		digits := strings.TrimLeft(s[2:], "0")
		if digits == "" {
			digits = "0"
		}
		v, err := uint256.FromHex("0x" + digits)
		return v, errors.Wrapf(err, "invalid hex amount %q", s)
	}
	v, err := uint256.FromDecimal(s)
	return v, errors.Wrapf(err, "invalid amount %q", s)
}
