// Package store persists the library. The default backend is a local
// BoltDB file with an in-memory promotion cache; a Redis backend covers
// setups that sync the library between machines.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"mangatrack/internal/domain"
)

// Bucket names
var (
	bucketLibrary       = []byte("library")
	bucketNotifications = []byte("notifications")
	bucketMeta          = []byte("meta")
)

const notificationsKey = "list"

// BoltStore implements domain.Store using BoltDB. With an empty data
// directory it runs memory-only, which keeps tests and one-off runs off
// the filesystem.
type BoltStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte

	// Serializes notification read-modify-write cycles; the sweep appends
	// from several workers at once.
	notifMu sync.Mutex

	subMu sync.Mutex
	subs  map[int]func([]domain.LibraryEntry)
	subID int
}

func NewBoltStore(dataDir string) (*BoltStore, error) {
	if dataDir == "" {
		// Memory-only mode (no persistence)
		return &BoltStore{
			cache: make(map[string][]byte),
			subs:  make(map[int]func([]domain.LibraryEntry)),
		}, nil
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dataDir, "mangatrack.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketLibrary, bucketNotifications, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{
		db:    db,
		cache: make(map[string][]byte),
		subs:  make(map[int]func([]domain.LibraryEntry)),
	}, nil
}

func (s *BoltStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *BoltStore) get(bucket []byte, key string, dest interface{}) bool {
	cacheKey := string(bucket) + ":" + key

	// Check memory cache first
	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	// Read from BoltDB
	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *BoltStore) set(bucket []byte, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	cacheKey := string(bucket) + ":" + key

	// Update memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	// Write to BoltDB
	err = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		return b.Put([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreWrite, err)
	}
	return nil
}

func (s *BoltStore) delete(bucket []byte, key string) {
	cacheKey := string(bucket) + ":" + key

	// Clear from memory cache
	s.mu.Lock()
	delete(s.cache, cacheKey)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b != nil {
			b.Delete([]byte(key))
		}
		return nil
	})
}

// === Library entries ===

func (s *BoltStore) Entries() ([]domain.LibraryEntry, error) {
	var entries []domain.LibraryEntry

	if s.db != nil {
		err := s.db.View(func(tx *bolt.Tx) error {
			b := tx.Bucket(bucketLibrary)
			if b == nil {
				return nil
			}
			return b.ForEach(func(k, v []byte) error {
				var e domain.LibraryEntry
				if err := json.Unmarshal(v, &e); err != nil {
					return nil // Skip corrupt records
				}
				entries = append(entries, e)
				return nil
			})
		})
		if err != nil {
			return nil, err
		}
	} else {
		s.mu.RLock()
		prefix := string(bucketLibrary) + ":"
		for k, data := range s.cache {
			if !strings.HasPrefix(k, prefix) {
				continue
			}
			var e domain.LibraryEntry
			if err := json.Unmarshal(data, &e); err == nil {
				entries = append(entries, e)
			}
		}
		s.mu.RUnlock()
	}

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.Before(entries[j].CreatedAt)
		}
		return entries[i].ID < entries[j].ID
	})
	return entries, nil
}

func (s *BoltStore) Get(id string) (domain.LibraryEntry, error) {
	var e domain.LibraryEntry
	if !s.get(bucketLibrary, id, &e) {
		return domain.LibraryEntry{}, fmt.Errorf("entry %s: %w", id, domain.ErrSeriesNotFound)
	}
	return e, nil
}

func (s *BoltStore) Put(entry domain.LibraryEntry) error {
	if err := s.set(bucketLibrary, entry.ID, entry); err != nil {
		return err
	}
	s.broadcast()
	return nil
}

// Patch applies fn to one entry as a single read-modify-write. With a
// database attached the whole step runs inside one transaction.
func (s *BoltStore) Patch(id string, fn func(*domain.LibraryEntry)) error {
	if s.db == nil {
		s.mu.Lock()
		cacheKey := string(bucketLibrary) + ":" + id
		data, ok := s.cache[cacheKey]
		if !ok {
			s.mu.Unlock()
			return fmt.Errorf("entry %s: %w", id, domain.ErrSeriesNotFound)
		}
		var e domain.LibraryEntry
		if err := json.Unmarshal(data, &e); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("entry %s: %w", id, domain.ErrSeriesNotFound)
		}
		fn(&e)
		updated, err := json.Marshal(e)
		if err != nil {
			s.mu.Unlock()
			return err
		}
		s.cache[cacheKey] = updated
		s.mu.Unlock()
		s.broadcast()
		return nil
	}

	var updated []byte
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketLibrary)
		v := b.Get([]byte(id))
		if v == nil {
			return fmt.Errorf("entry %s: %w", id, domain.ErrSeriesNotFound)
		}
		var e domain.LibraryEntry
		if err := json.Unmarshal(v, &e); err != nil {
			return fmt.Errorf("entry %s: %w", id, domain.ErrSeriesNotFound)
		}
		fn(&e)
		data, err := json.Marshal(e)
		if err != nil {
			return err
		}
		updated = data
		return b.Put([]byte(id), data)
	})
	if err != nil {
		if errors.Is(err, domain.ErrSeriesNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", domain.ErrStoreWrite, err)
	}

	s.mu.Lock()
	s.cache[string(bucketLibrary)+":"+id] = updated
	s.mu.Unlock()
	s.broadcast()
	return nil
}

func (s *BoltStore) Remove(id string) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	s.delete(bucketLibrary, id)
	s.broadcast()
	return nil
}

// === Notifications ===

func (s *BoltStore) Notifications() ([]domain.Notification, error) {
	var list []domain.Notification
	s.get(bucketNotifications, notificationsKey, &list)
	return list, nil
}

// AppendNotification prepends a notification, newest first, trimming the
// list to domain.MaxNotifications. The whole cycle holds notifMu so
// concurrent appends cannot overwrite each other.
func (s *BoltStore) AppendNotification(n domain.Notification) error {
	s.notifMu.Lock()
	defer s.notifMu.Unlock()

	list, _ := s.Notifications()
	list = append([]domain.Notification{n}, list...)
	if len(list) > domain.MaxNotifications {
		list = list[:domain.MaxNotifications]
	}
	return s.set(bucketNotifications, notificationsKey, list)
}

func (s *BoltStore) ClearNotifications() error {
	s.notifMu.Lock()
	defer s.notifMu.Unlock()
	s.delete(bucketNotifications, notificationsKey)
	return nil
}

// === Meta ===

func (s *BoltStore) Meta(key string) (string, bool) {
	var v string
	ok := s.get(bucketMeta, key, &v)
	return v, ok
}

func (s *BoltStore) SetMeta(key, value string) error {
	return s.set(bucketMeta, key, value)
}

// === Change subscriptions ===

// Subscribe registers fn to run with the full entry list after every
// library mutation. The returned func cancels the subscription.
func (s *BoltStore) Subscribe(fn func([]domain.LibraryEntry)) (cancel func()) {
	s.subMu.Lock()
	s.subID++
	id := s.subID
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *BoltStore) broadcast() {
	s.subMu.Lock()
	if len(s.subs) == 0 {
		s.subMu.Unlock()
		return
	}
	fns := make([]func([]domain.LibraryEntry), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	entries, err := s.Entries()
	if err != nil {
		return
	}
	for _, fn := range fns {
		fn(entries)
	}
}
