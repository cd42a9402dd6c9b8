// Copyright (c) 2021 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"github.com/syndtr/goleveldb/leveldb/util"
)

// Bucket is a key prefix partitioning a store.
type Bucket string

func (b Bucket) key(key []byte) []byte {
	k := make([]byte, 0, len(b)+len(key))
	return append(append(k, b...), key...)
}

// NewGetter creates a bucket getter from the source getter.
func (b Bucket) NewGetter(src Getter) Getter {
	return &bucketGetter{b, src}
}

// NewPutter creates a bucket putter from the source putter.
func (b Bucket) NewPutter(src Putter) Putter {
	return &bucketPutter{b, src}
}

// NewBulk creates a bucket bulk from the source bulk.
func (b Bucket) NewBulk(src Bulk) Bulk {
	return &bucketBulk{bucketPutter{b, src}, src}
}

// NewStore creates a bucket store from the source store.
// Iterated keys have the bucket stripped.
func (b Bucket) NewStore(src Store) Store {
	return &bucketStore{
		bucketGetter: bucketGetter{b, src},
		bucketPutter: bucketPutter{b, src},
		bucket:       b,
		src:          src,
	}
}

type bucketGetter struct {
	bucket Bucket
	src    Getter
}

func (g *bucketGetter) Get(key []byte) ([]byte, error) {
	return g.src.Get(g.bucket.key(key))
}

func (g *bucketGetter) Has(key []byte) (bool, error) {
	return g.src.Has(g.bucket.key(key))
}

func (g *bucketGetter) IsNotFound(err error) bool {
	return g.src.IsNotFound(err)
}

type bucketPutter struct {
	bucket Bucket
	src    Putter
}

func (p *bucketPutter) Put(key, val []byte) error {
	return p.src.Put(p.bucket.key(key), val)
}

func (p *bucketPutter) Delete(key []byte) error {
	return p.src.Delete(p.bucket.key(key))
}

type bucketBulk struct {
	bucketPutter
	bulk Bulk
}

func (b *bucketBulk) Len() int     { return b.bulk.Len() }
func (b *bucketBulk) Write() error { return b.bulk.Write() }

type bucketStore struct {
	bucketGetter
	bucketPutter
	bucket Bucket
	src    Store
}

func (s *bucketStore) Bulk() Bulk {
	return s.bucket.NewBulk(s.src.Bulk())
}

func (s *bucketStore) Iterate(r Range) Iterator {
	r.Start = s.bucket.key(r.Start)
	if len(r.Limit) == 0 {
		r.Limit = util.BytesPrefix([]byte(s.bucket)).Limit
	} else {
		r.Limit = s.bucket.key(r.Limit)
	}
	return &bucketIterator{s.src.Iterate(r), len(s.bucket)}
}

type bucketIterator struct {
	Iterator
	prefixLen int
}

func (it *bucketIterator) Key() []byte {
	return it.Iterator.Key()[it.prefixLen:]
}
