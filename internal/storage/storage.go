package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/hailam/chessoteric/internal/btm"
)

// Key prefixes
const (
	keyProgramPrefix = "program/"
	keyStats         = "stats"
)

// Kind says what a cached program was compiled from.
type Kind string

const (
	KindGame     Kind = "game"
	KindCommands Kind = "btm"
)

// Key returns the cache key for a source text of the given kind.
func Key(kind Kind, source string) string {
	sum := sha256.Sum256([]byte(source))
	return keyProgramPrefix + string(kind) + "/" + hex.EncodeToString(sum[:])
}

// entry is the stored form of a compiled program.
type entry struct {
	Program  *btm.Program `json:"program"`
	Compiled time.Time    `json:"compiled"`
}

// CacheStats counts cache lookups.
type CacheStats struct {
	Hits   int `json:"hits"`
	Misses int `json:"misses"`
	Stores int `json:"stores"`
}

// Cache wraps BadgerDB for compiled programs.
type Cache struct {
	db *badger.DB
}

// Open opens (or creates) a cache in dir.
func Open(dir string) (*Cache, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	return open(opts)
}

// OpenInMemory opens a cache that is discarded on Close.
func OpenInMemory() (*Cache, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	return open(opts)
}

func open(opts badger.Options) (*Cache, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Cache{db: db}, nil
}

// Close closes the database
func (c *Cache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Load returns the cached program for key. The boolean is false on a miss.
func (c *Cache) Load(key string) (*btm.Program, bool, error) {
	var e entry
	found := false

	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &e)
		})
	})
	if err != nil {
		return nil, false, err
	}

	if err := c.count(func(s *CacheStats) {
		if found {
			s.Hits++
		} else {
			s.Misses++
		}
	}); err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}
	if e.Program.Rules == nil {
		e.Program.Rules = make(map[btm.RuleKey]btm.Action)
	}
	return e.Program, true, nil
}

// Save stores a compiled program under key.
func (c *Cache) Save(key string, prog *btm.Program) error {
	data, err := json.Marshal(entry{Program: prog, Compiled: time.Now()})
	if err != nil {
		return err
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return err
	}
	return c.count(func(s *CacheStats) { s.Stores++ })
}

// Stats returns the lookup counters, zero if none were recorded.
func (c *Cache) Stats() (*CacheStats, error) {
	stats := &CacheStats{}

	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyStats))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil // Use empty stats
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, stats)
		})
	})

	return stats, err
}

// count applies update to the stored counters.
func (c *Cache) count(update func(*CacheStats)) error {
	stats, err := c.Stats()
	if err != nil {
		return err
	}
	update(stats)

	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyStats), data)
	})
}
