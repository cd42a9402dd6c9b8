// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    uint64
		wantErr bool
	}{
		{"200", 200, false},
		{" 100 ", 100, false},
		{"0x64", 100, false},
		{"0X64", 100, false},
		{"0x0064", 100, false},
		{"0x0", 0, false},
		{"0", 0, false},
		{"", 0, true},
		{"-1", 0, true},
		{"1.5", 0, true},
		{"0xzz", 0, true},
	}
	for _, tt := range tests {
		v, err := ParseAmount(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		if assert.NoError(t, err, tt.in) {
			assert.Equal(t, tt.want, v.Uint64(), tt.in)
		}
	}

	_, err := ParseAmount("115792089237316195423570985008687907853269984665640564039457584007913129639936")
	assert.Error(t, err, "2^256 overflows")
}
