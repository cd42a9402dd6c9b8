// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"encoding/binary"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/repstake/account"
	"github.com/vechain/repstake/cache"
	"github.com/vechain/repstake/kv"
	"github.com/vechain/repstake/stackedmap"
)

const (
	ledgerBucket  = kv.Bucket("L")
	accountBucket = kv.Bucket("a")
)

// keys in the ledger bucket
const (
	ownerKey      = "owner"
	minStakeKey   = "minstake"
	multiplierKey = "multiplier"
	totalStakeKey = "totalstake"
	totalRepKey   = "totalrep"
	seqKey        = "seq"
)

type storageKey struct {
	bucket kv.Bucket
	key    string
}

func slot(name string) storageKey {
	return storageKey{ledgerBucket, name}
}

func accountSlot(addr account.Address) storageKey {
	return storageKey{accountBucket, string(addr[:])}
}

// state stages writes on top of the kv store.
// A nil value in the stage marks a deletion.
type state struct {
	store  kv.Store
	staged *stackedmap.StackedMap[storageKey, []byte]
	cache  *cache.LRU[storageKey, []byte]
}

func newState(store kv.Store, cacheSize int) (*state, error) {
	c, err := cache.NewLRU[storageKey, []byte](cacheSize)
	if err != nil {
		return nil, err
	}
	s := &state{store: store, cache: c}
	s.staged = stackedmap.New(func(k storageKey) ([]byte, bool, error) {
		v, err := s.cache.GetOrLoad(k, s.load)
		if err != nil {
			return nil, false, err
		}
		return v, v != nil, nil
	})
	return s, nil
}

func (s *state) load(k storageKey) ([]byte, error) {
	v, err := k.bucket.NewGetter(s.store).Get([]byte(k.key))
	if err != nil {
		if s.store.IsNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "load")
	}
	return v, nil
}

// checkpoint opens a new stage level and returns the depth to revert to.
func (s *state) checkpoint() int {
	return s.staged.Push()
}

func (s *state) revertTo(depth int) {
	s.staged.PopTo(depth)
}

func (s *state) get(k storageKey) ([]byte, error) {
	v, _, err := s.staged.Get(k)
	return v, err
}

func (s *state) put(k storageKey, v []byte) {
	s.staged.Put(k, v)
}

// commit writes all staged entries in one batch and refreshes the cache.
// Staged levels are left in place; the caller reverts them afterwards.
func (s *state) commit() error {
	bulk := s.store.Bulk()

	var err error
	s.staged.Journal(func(k storageKey, v []byte) bool {
		putter := k.bucket.NewPutter(bulk)
		if v == nil {
			err = putter.Delete([]byte(k.key))
		} else {
			err = putter.Put([]byte(k.key), v)
		}
		return err == nil
	})
	if err != nil {
		return errors.Wrap(err, "stage")
	}
	if bulk.Len() == 0 {
		return nil
	}
	if err := bulk.Write(); err != nil {
		return errors.Wrap(err, "write")
	}

	s.staged.Journal(func(k storageKey, v []byte) bool {
		s.cache.Add(k, v)
		return true
	})
	return nil
}

func (s *state) getUint256(name string) (*uint256.Int, error) {
	v, err := s.get(slot(name))
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).SetBytes(v), nil
}

func (s *state) setUint256(name string, v *uint256.Int) {
	b := v.Bytes32()
	s.put(slot(name), b[:])
}

func (s *state) getUint64(name string) (uint64, error) {
	v, err := s.get(slot(name))
	if err != nil {
		return 0, err
	}
	if len(v) != 8 {
		return 0, nil
	}
	return binary.BigEndian.Uint64(v), nil
}

func (s *state) setUint64(name string, v uint64) {
	s.put(slot(name), binary.BigEndian.AppendUint64(nil, v))
}

// getOwner returns the owner and whether the ledger is initialized.
func (s *state) getOwner() (account.Address, bool, error) {
	v, err := s.get(slot(ownerKey))
	if err != nil {
		return account.Address{}, false, err
	}
	if len(v) != account.AddressLength {
		return account.Address{}, false, nil
	}
	return account.BytesToAddress(v), true, nil
}

func (s *state) setOwner(addr account.Address) {
	s.put(slot(ownerKey), addr.Bytes())
}

func (s *state) getAccount(addr account.Address) (*Account, error) {
	v, err := s.get(accountSlot(addr))
	if err != nil {
		return nil, err
	}
	return decodeAccount(v)
}

func (s *state) setAccount(addr account.Address, a *Account) error {
	if a.IsEmpty() {
		s.put(accountSlot(addr), nil)
		return nil
	}
	data, err := encodeAccount(a)
	if err != nil {
		return errors.Wrap(err, "encode account")
	}
	s.put(accountSlot(addr), data)
	return nil
}

// iterateAccounts walks all stored accounts in address order, bypassing the stage.
func (s *state) iterateAccounts(fn func(account.Address, *Account) error) error {
	iter := accountBucket.NewStore(s.store).Iterate(kv.Range{})
	defer iter.Release()

	for iter.Next() {
		a, err := decodeAccount(iter.Value())
		if err != nil {
			return err
		}
		if err := fn(account.BytesToAddress(iter.Key()), a); err != nil {
			return err
		}
	}
	return iter.Error()
}
