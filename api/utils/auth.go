// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"bytes"
	"crypto/ecdsa"
	"encoding/binary"
	"io"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/vechain/repstake/account"
	"github.com/vechain/repstake/cache"
	"github.com/vechain/repstake/clock"
)

const (
	// SignatureHeader carries the caller's signature of a mutating request.
	SignatureHeader = "X-Signature"
	// SignatureTimeHeader carries the unix time, in seconds, the signature was made at.
	SignatureTimeHeader = "X-Signature-Time"

	// SignatureWindow is how far, in seconds, a signature time may be from the server clock.
	SignatureWindow = 300

	maxTrackedSignatures = 65536
)

// SigningHash returns keccak256(method || path || uint64be(timestamp) || body), the hash a caller signs.
func SigningHash(method, path string, timestamp uint64, body []byte) []byte {
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], timestamp)
	return crypto.Keccak256([]byte(method), []byte(path), ts[:], body)
}

// RecoverSigner returns the address whose key produced sig over the request.
// sig is 65 bytes [R || S || V], V being 0/1 or 27/28.
func RecoverSigner(method, path string, timestamp uint64, body, sig []byte) (account.Address, error) {
	if len(sig) != crypto.SignatureLength {
		return account.Address{}, errors.New("invalid signature length")
	}
	normalized := make([]byte, crypto.SignatureLength)
	copy(normalized, sig)
	if normalized[64] >= 27 {
		normalized[64] -= 27
	}
	pub, err := crypto.SigToPub(SigningHash(method, path, timestamp, body), normalized)
	if err != nil {
		return account.Address{}, err
	}
	return account.FromPublicKey(*pub), nil
}

// SignRequest signs req with key at timestamp and sets both signature headers.
// body must be the bytes req will send.
func SignRequest(req *http.Request, body []byte, key *ecdsa.PrivateKey, timestamp uint64) error {
	sig, err := crypto.Sign(SigningHash(req.Method, req.URL.Path, timestamp, body), key)
	if err != nil {
		return err
	}
	req.Header.Set(SignatureHeader, hexutil.Encode(sig))
	req.Header.Set(SignatureTimeHeader, strconv.FormatUint(timestamp, 10))
	return nil
}

// ReadBody reads the whole request body.
func ReadBody(req *http.Request) ([]byte, error) {
	if req.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, BadRequest(errors.WithMessage(err, "body"))
	}
	req.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}

// Authenticator checks that mutating requests are signed by their caller.
// A signed request is accepted once: its signing hash is remembered for the
// signature window, after which the time check rejects it.
type Authenticator struct {
	required bool
	clock    clock.Clock
	seen     *cache.LRU[common.Hash, struct{}]
}

// NewAuthenticator returns an Authenticator checking times against clk.
// When required is false every request is accepted unchecked.
func NewAuthenticator(required bool, clk clock.Clock) *Authenticator {
	seen, err := cache.NewLRU[common.Hash, struct{}](maxTrackedSignatures)
	if err != nil {
		panic(err) // size is a positive constant
	}
	return &Authenticator{
		required: required,
		clock:    clk,
		seen:     seen,
	}
}

// Required reports whether requests must be signed.
func (a *Authenticator) Required() bool {
	return a.required
}

// Check verifies the signature headers of req against caller.
func (a *Authenticator) Check(req *http.Request, body []byte, caller account.Address) error {
	if !a.required {
		return nil
	}
	header := req.Header.Get(SignatureHeader)
	if header == "" {
		return HTTPError(errors.New("missing signature"), http.StatusUnauthorized)
	}
	sig, err := hexutil.Decode(header)
	if err != nil {
		return BadRequest(errors.WithMessage(err, "signature"))
	}
	timestamp, err := strconv.ParseUint(req.Header.Get(SignatureTimeHeader), 10, 64)
	if err != nil {
		return BadRequest(errors.WithMessage(err, "signature time"))
	}
	now := a.clock.Now()
	if timestamp+SignatureWindow < now || timestamp > now+SignatureWindow {
		return HTTPError(errors.New("signature time out of window"), http.StatusUnauthorized)
	}

	signer, err := RecoverSigner(req.Method, req.URL.Path, timestamp, body, sig)
	if err != nil {
		return BadRequest(errors.WithMessage(err, "signature"))
	}
	if signer != caller {
		return HTTPError(errors.New("signature does not match caller"), http.StatusUnauthorized)
	}
	hash := common.BytesToHash(SigningHash(req.Method, req.URL.Path, timestamp, body))
	if seen, _ := a.seen.ContainsOrAdd(hash, struct{}{}); seen {
		return HTTPError(errors.New("signature already used"), http.StatusUnauthorized)
	}
	return nil
}
