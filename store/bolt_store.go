// Package store implements the FeedStore collaborator referenced by §6.3
// and §8.7: persistence of StoredFeed (value, write_time, package_time) per
// feed id, outside the decoder core.
//
// Grounded on node/store/db.go (bbolt Open-with-timeout, one bucket per
// purpose, created-if-missing at Open) and node/store/utxo_encoding.go's
// fixed-layout binary encoding convention (value || metadata fields,
// concatenated by hand rather than via encoding/gob); the integer fields
// here are big-endian.
package store

import (
	"encoding/binary"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"redstone.dev/oracle/admission"
	"redstone.dev/oracle/protocol"
)

var bucketStoredFeeds = []byte("stored_feeds_by_feed_id")

// FeedStore is the host collaborator admission/C8 consult to read and
// persist the most recently accepted value per feed.
type FeedStore interface {
	Get(feedID protocol.FeedId) (*admission.StoredFeed, error)
	Put(feedID protocol.FeedId, sf admission.StoredFeed) error
}

// BoltFeedStore is the default FeedStore, backed by go.etcd.io/bbolt (the
// teacher's own storage dependency, node/store/db.go).
type BoltFeedStore struct {
	db *bolt.DB
}

// OpenBoltFeedStore opens (creating if absent) a bbolt-backed FeedStore at
// path, mirroring node/store/db.go's Open: bounded-timeout open, buckets
// created if missing.
func OpenBoltFeedStore(path string) (*BoltFeedStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketStoredFeeds)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}
	return &BoltFeedStore{db: db}, nil
}

// Close releases the underlying bbolt handle.
func (s *BoltFeedStore) Close() error {
	return s.db.Close()
}

// Get returns the stored feed state, or nil if the feed has never been
// written (§4.7 "stored is None -> accept first write").
func (s *BoltFeedStore) Get(feedID protocol.FeedId) (*admission.StoredFeed, error) {
	var out *admission.StoredFeed
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketStoredFeeds)
		raw := b.Get(feedID[:])
		if raw == nil {
			return nil
		}
		sf, err := decodeStoredFeed(raw)
		if err != nil {
			return err
		}
		out = &sf
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Put persists sf for feedID, overwriting any previous value.
func (s *BoltFeedStore) Put(feedID protocol.FeedId, sf admission.StoredFeed) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketStoredFeeds)
		return b.Put(feedID[:], encodeStoredFeed(sf))
	})
}

// encodeStoredFeed lays out value(32) || write_time(8 BE) ||
// package_time(8 BE), a fixed-width record in the teacher's
// concatenate-by-hand convention (node/store/utxo_encoding.go).
func encodeStoredFeed(sf admission.StoredFeed) []byte {
	out := make([]byte, 0, 32+8+8)
	out = append(out, sf.Value[:]...)
	var tmp8 [8]byte
	binary.BigEndian.PutUint64(tmp8[:], uint64(sf.WriteTime))
	out = append(out, tmp8[:]...)
	binary.BigEndian.PutUint64(tmp8[:], uint64(sf.PackageTime))
	out = append(out, tmp8[:]...)
	return out
}

func decodeStoredFeed(b []byte) (admission.StoredFeed, error) {
	if len(b) != 32+8+8 {
		return admission.StoredFeed{}, fmt.Errorf("stored feed: expected %d bytes, got %d", 32+8+8, len(b))
	}
	var sf admission.StoredFeed
	copy(sf.Value[:], b[0:32])
	sf.WriteTime = protocol.TimestampMillis(binary.BigEndian.Uint64(b[32:40]))
	sf.PackageTime = protocol.TimestampMillis(binary.BigEndian.Uint64(b[40:48]))
	return sf, nil
}
