package refdata

import (
	"context"
	"fmt"
)

// Cache is the per-invocation reference-data cache. One instance is created
// for each validation pass over one case (or one case within a group) and
// discarded when the pipeline completes.
//
// Writes happen only during the enrich phase, via Fetch; the validate phase
// reads through Find and Records against a stable cache. The cache is not
// safe for concurrent use: each pipeline invocation owns its own instance.
type Cache struct {
	records map[Kind]map[string][]Record
	fetched map[Kind]map[string]bool
}

// NewCache returns an empty cache for one validation pass.
func NewCache() *Cache {
	return &Cache{
		records: make(map[Kind]map[string][]Record),
		fetched: make(map[Kind]map[string]bool),
	}
}

// Fetch returns the records for kind/key, hitting the lookup collaborator at
// most once per cache lifetime. An empty lookup result is memoized the same
// way as a populated one, so "not found" is also asked only once.
func (c *Cache) Fetch(ctx context.Context, lookup Lookup, kind Kind, key string) ([]Record, error) {
	if key == "" {
		panic(fmt.Sprintf("refdata: fetch of kind %s with empty key", kind))
	}
	if c.fetched[kind][key] {
		return c.records[kind][key], nil
	}

	records, err := lookup.Retrieve(ctx, kind, key)
	if err != nil {
		return nil, fmt.Errorf("retrieve %s reference data for %q: %w", kind, key, err)
	}

	if c.records[kind] == nil {
		c.records[kind] = make(map[string][]Record)
	}
	if c.fetched[kind] == nil {
		c.fetched[kind] = make(map[string]bool)
	}
	c.records[kind][key] = records
	c.fetched[kind][key] = true
	return records, nil
}

// Find returns the first cached record for kind/key, if any. Find never
// triggers a lookup: a key that was not fetched during the enrich phase is
// simply absent.
func (c *Cache) Find(kind Kind, key string) (Record, bool) {
	for _, r := range c.records[kind][key] {
		if r.Code == key {
			return r, true
		}
	}
	return Record{}, false
}

// Records returns all cached records for kind/key. The returned slice is the
// cache's own; callers must not mutate it.
func (c *Cache) Records(kind Kind, key string) []Record {
	return c.records[kind][key]
}

// Fetched reports whether kind/key has been requested from the lookup during
// this pass, regardless of whether anything was found.
func (c *Cache) Fetched(kind Kind, key string) bool {
	return c.fetched[kind][key]
}

// Countries returns the cached country/nationality table.
func (c *Cache) Countries() []Record {
	return c.records[KindCountry][TableKey]
}

// OffenceDateCodes returns the cached offence-date-code table.
func (c *Cache) OffenceDateCodes() []Record {
	return c.records[KindOffenceDateCode][TableKey]
}
