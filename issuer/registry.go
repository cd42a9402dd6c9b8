// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package issuer keeps the registry of trusted credential issuers.
package issuer

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/vechain/repstake/account"
	"github.com/vechain/repstake/kv"
	"github.com/vechain/repstake/ledger/reverts"
	"github.com/vechain/repstake/log"
)

var logger = log.WithContext("pkg", "issuer")

var (
	ErrUnauthorized       = reverts.New("Unauthorized", "caller is not the owner")
	ErrZeroAddress        = reverts.New("ZeroAddress", "zero address")
	ErrAlreadyRegistered  = reverts.New("AlreadyRegistered", "issuer already registered")
	ErrNotPendingOwner    = reverts.New("NotPendingOwner", "caller is not the pending owner")
	ErrAlreadyInitialized = reverts.New("AlreadyInitialized", "registry already initialized")
	ErrNotInitialized     = reverts.New("NotInitialized", "registry not initialized")
)

const (
	bucket = kv.Bucket("I")

	ownerKey   = "owner"
	pendingKey = "pending"
	issuerKey  = "r"
)

// Registry answers whether an address is a trusted issuer.
// Ownership moves in two steps: the owner nominates, the nominee accepts.
type Registry struct {
	mu    sync.RWMutex
	store kv.Store
}

func New(store kv.Store) *Registry {
	return &Registry{store: bucket.NewStore(store)}
}

func (r *Registry) getAddress(key string) (account.Address, error) {
	v, err := r.store.Get([]byte(key))
	if err != nil {
		if r.store.IsNotFound(err) {
			return account.Address{}, nil
		}
		return account.Address{}, errors.Wrap(err, "get "+key)
	}
	return account.BytesToAddress(v), nil
}

func (r *Registry) owner() (account.Address, error) {
	owner, err := r.getAddress(ownerKey)
	if err != nil {
		return account.Address{}, err
	}
	if owner.IsZero() {
		return account.Address{}, ErrNotInitialized
	}
	return owner, nil
}

func (r *Registry) isIssuer(addr account.Address) (bool, error) {
	has, err := r.store.Has(append([]byte(issuerKey), addr[:]...))
	return has, errors.Wrap(err, "has issuer")
}

// Initialize sets the first owner.
func (r *Registry) Initialize(owner account.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, err := r.getAddress(ownerKey); err != nil {
		return err
	} else if !current.IsZero() {
		return ErrAlreadyInitialized
	}
	if owner.IsZero() {
		return ErrZeroAddress
	}
	if err := r.store.Put([]byte(ownerKey), owner.Bytes()); err != nil {
		return errors.Wrap(err, "put owner")
	}
	logger.Info("ownership transferred", "previous", account.Address{}, "owner", owner)
	return nil
}

// RegisterAsIssuer adds caller to the registry.
func (r *Registry) RegisterAsIssuer(caller account.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.owner(); err != nil {
		return err
	}
	if caller.IsZero() {
		return ErrZeroAddress
	}
	registered, err := r.isIssuer(caller)
	if err != nil {
		return err
	}
	if registered {
		return ErrAlreadyRegistered
	}
	if err := r.store.Put(append([]byte(issuerKey), caller[:]...), []byte{1}); err != nil {
		return errors.Wrap(err, "put issuer")
	}
	logger.Info("issuer registered", "issuer", caller)
	return nil
}

// TransferOwnership nominates newOwner. It takes effect once accepted.
func (r *Registry) TransferOwnership(caller, newOwner account.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	owner, err := r.owner()
	if err != nil {
		return err
	}
	if caller != owner {
		return ErrUnauthorized
	}
	if newOwner.IsZero() {
		return ErrZeroAddress
	}
	if err := r.store.Put([]byte(pendingKey), newOwner.Bytes()); err != nil {
		return errors.Wrap(err, "put pending owner")
	}
	logger.Info("new owner registered", "pending", newOwner)
	return nil
}

// AcceptOwnership completes a transfer started by TransferOwnership.
func (r *Registry) AcceptOwnership(caller account.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous, err := r.owner()
	if err != nil {
		return err
	}
	if caller.IsZero() {
		return ErrZeroAddress
	}
	pending, err := r.getAddress(pendingKey)
	if err != nil {
		return err
	}
	if pending != caller {
		return ErrNotPendingOwner
	}

	bulk := r.store.Bulk()
	if err := bulk.Put([]byte(ownerKey), caller.Bytes()); err != nil {
		return errors.Wrap(err, "put owner")
	}
	if err := bulk.Delete([]byte(pendingKey)); err != nil {
		return errors.Wrap(err, "delete pending owner")
	}
	if err := bulk.Write(); err != nil {
		return errors.Wrap(err, "write")
	}
	logger.Info("ownership transferred", "previous", previous, "owner", caller)
	return nil
}

func (r *Registry) IsIssuer(addr account.Address) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.isIssuer(addr)
}

// Owner returns the owner, or the zero address before initialization.
func (r *Registry) Owner() (account.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.getAddress(ownerKey)
}

// PendingOwner returns the nominated owner, or the zero address if none.
func (r *Registry) PendingOwner() (account.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.getAddress(pendingKey)
}
