// Package redis provides a Redis-backed reference-data lookup. Record lists
// are stored as JSON under refdata:<kind>:<key>, written by an upstream
// loader; this store only reads.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/refdata"
)

// Store is a Redis-backed reference-data lookup.
type Store struct {
	client *goredis.Client
}

// New wraps an existing Redis client.
func New(client *goredis.Client) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return &Store{client: client}, nil
}

// Retrieve fetches and decodes the record list for kind/key. A missing key
// is "no reference data found": an empty result, not an error.
func (s *Store) Retrieve(ctx context.Context, kind refdata.Kind, key string) ([]refdata.Record, error) {
	raw, err := s.client.Get(ctx, redisKey(kind, key)).Bytes()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s/%s: %w", kind, key, err)
	}

	var records []refdata.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode %s/%s reference data: %w", kind, key, err)
	}
	return records, nil
}

func redisKey(kind refdata.Kind, key string) string {
	return fmt.Sprintf("refdata:%s:%s", kind, key)
}
