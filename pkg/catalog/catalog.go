// Package catalog persists decoded grid snapshots in a pebble database keyed
// by KSUID, so entries iterate in import order.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"
	"github.com/ssargent/gsbgrid/pkg/grid"
)

var (
	// ErrNotFound is returned when no entry has the requested id
	ErrNotFound = errors.New("catalog entry not found")

	keyPrefix = []byte("grid/")
	// keyLimit is the first key past every "grid/" key
	keyLimit = []byte("grid0")
)

// Entry is a stored grid snapshot
type Entry struct {
	ID         ksuid.KSUID     `json:"id"`
	Source     string          `json:"source"`
	ImportedAt time.Time       `json:"imported_at"`
	SubGrids   int             `json:"sub_grids"`
	Shifts     int             `json:"shifts"`
	Grid       json.RawMessage `json:"grid"`
}

// Decode rebuilds a browsable view of the stored grid document
func (e *Entry) Decode() (map[string]interface{}, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal(e.Grid, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode stored grid %s: %w", e.ID, err)
	}
	return doc, nil
}

// Catalog is a pebble-backed grid store
type Catalog struct {
	db *pebble.DB
}

// Open opens or creates the catalog in dir
func Open(dir string) (*Catalog, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog at %s: %w", dir, err)
	}
	return &Catalog{db: db}, nil
}

// ParseID parses the string form of an entry id
func ParseID(s string) (ksuid.KSUID, error) {
	id, err := ksuid.Parse(s)
	if err != nil {
		return ksuid.Nil, fmt.Errorf("invalid catalog id %q: %w", s, err)
	}
	return id, nil
}

// NewEntry snapshots g. The grid is stored in its JSON form.
func NewEntry(source string, g *grid.GridFile, importedAt time.Time) (*Entry, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("failed to encode grid: %w", err)
	}
	return &Entry{
		Source:     source,
		ImportedAt: importedAt.UTC(),
		SubGrids:   len(g.SubGrids),
		Shifts:     g.ShiftCount(),
		Grid:       data,
	}, nil
}

// Put stores e. An entry without an id gets one derived from ImportedAt.
func (c *Catalog) Put(e *Entry) (ksuid.KSUID, error) {
	if e.ID == ksuid.Nil {
		if e.ImportedAt.IsZero() {
			e.ImportedAt = time.Now().UTC()
		}
		id, err := ksuid.NewRandomWithTime(e.ImportedAt)
		if err != nil {
			return ksuid.Nil, fmt.Errorf("failed to generate id: %w", err)
		}
		e.ID = id
	}

	data, err := json.Marshal(e)
	if err != nil {
		return ksuid.Nil, fmt.Errorf("failed to encode entry: %w", err)
	}
	if err := c.db.Set(entryKey(e.ID), data, pebble.Sync); err != nil {
		return ksuid.Nil, fmt.Errorf("failed to store entry %s: %w", e.ID, err)
	}
	return e.ID, nil
}

// Get returns the entry with the given id
func (c *Catalog) Get(id ksuid.KSUID) (*Entry, error) {
	data, closer, err := c.db.Get(entryKey(id))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read entry %s: %w", id, err)
	}
	defer closer.Close()

	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("failed to decode entry %s: %w", id, err)
	}
	return &e, nil
}

// List returns all entries, newest first
func (c *Catalog) List() ([]*Entry, error) {
	iter, err := c.db.NewIter(&pebble.IterOptions{
		LowerBound: keyPrefix,
		UpperBound: keyLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan catalog: %w", err)
	}
	defer iter.Close()

	entries := []*Entry{}
	for iter.Last(); iter.Valid(); iter.Prev() {
		var e Entry
		if err := json.Unmarshal(iter.Value(), &e); err != nil {
			return nil, fmt.Errorf("failed to decode entry at %q: %w", iter.Key(), err)
		}
		entries = append(entries, &e)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("failed to scan catalog: %w", err)
	}
	return entries, nil
}

// Delete removes the entry with the given id
func (c *Catalog) Delete(id ksuid.KSUID) error {
	key := entryKey(id)
	_, closer, err := c.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("failed to read entry %s: %w", id, err)
	}
	closer.Close()

	if err := c.db.Delete(key, pebble.Sync); err != nil {
		return fmt.Errorf("failed to delete entry %s: %w", id, err)
	}
	return nil
}

// Close closes the underlying database
func (c *Catalog) Close() error {
	return c.db.Close()
}

func entryKey(id ksuid.KSUID) []byte {
	key := make([]byte, 0, len(keyPrefix)+len(id))
	return append(append(key, keyPrefix...), id.Bytes()...)
}
