// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package account

import (
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"0x7567d83b7b8d80addcb281a71d54fc7b3364ffed", false},
		{"7567d83b7b8d80addcb281a71d54fc7b3364ffed", false},
		{"0X7567D83B7B8D80ADDCB281A71D54FC7B3364FFED", false},
		{"1x7567d83b7b8d80addcb281a71d54fc7b3364ffed", true},
		{"0x7567d83b7b8d80addcb281a71d54fc7b3364ff", true},
		{"0x7567d83b7b8d80addcb281a71d54fc7b3364ffzz", true},
		{"", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			addr, err := ParseAddress(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, "0x7567d83b7b8d80addcb281a71d54fc7b3364ffed", addr.String())
		})
	}
}

func TestAddressIsZero(t *testing.T) {
	assert.True(t, Address{}.IsZero())
	assert.False(t, BytesToAddress([]byte("alice")).IsZero())
}

func TestBytesToAddress(t *testing.T) {
	addr := BytesToAddress([]byte{1, 2})
	assert.Equal(t, "0x0000000000000000000000000000000000000102", addr.String())
	assert.Len(t, addr.Bytes(), AddressLength)
}

func TestAddressJSON(t *testing.T) {
	addr := BytesToAddress([]byte("alice"))

	data, err := json.Marshal(map[string]Address{"a": addr})
	require.NoError(t, err)
	assert.Equal(t, `{"a":"`+addr.String()+`"}`, string(data))

	var decoded map[string]Address
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, addr, decoded["a"])

	assert.Error(t, json.Unmarshal([]byte(`{"a":"0x12"}`), &decoded))
}

func TestFromPublicKey(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	addr := FromPublicKey(key.PublicKey)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey).Bytes(), addr.Bytes())
}

func TestMustParseAddress(t *testing.T) {
	assert.Panics(t, func() { MustParseAddress("nope") })
	assert.NotPanics(t, func() { MustParseAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed") })
}
