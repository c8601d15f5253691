package refdata

import (
	"context"
	"time"
)

// Chain composes lookups in precedence order: the first lookup returning any
// records wins, empty results fall through to the next. A fast store (Redis)
// fronts the canonical one (Postgres) this way.
type Chain []Lookup

// NewChain builds a chain, skipping nil lookups so optional stores can be
// passed straight from configuration.
func NewChain(lookups ...Lookup) Chain {
	chain := make(Chain, 0, len(lookups))
	for _, l := range lookups {
		if l != nil {
			chain = append(chain, l)
		}
	}
	return chain
}

// Retrieve queries each lookup in order until one yields records.
func (c Chain) Retrieve(ctx context.Context, kind Kind, key string) ([]Record, error) {
	for _, l := range c {
		records, err := l.Retrieve(ctx, kind, key)
		if err != nil {
			return nil, err
		}
		if len(records) > 0 {
			return records, nil
		}
	}
	return nil, nil
}

// LatencyObserver receives the duration of each lookup by kind.
type LatencyObserver interface {
	ObserveLookupLatency(kind string, d time.Duration)
}

// Instrumented wraps a lookup so every retrieval reports its latency.
func Instrumented(lookup Lookup, observer LatencyObserver) Lookup {
	if lookup == nil || observer == nil {
		return lookup
	}
	return instrumentedLookup{lookup: lookup, observer: observer}
}

type instrumentedLookup struct {
	lookup   Lookup
	observer LatencyObserver
}

func (l instrumentedLookup) Retrieve(ctx context.Context, kind Kind, key string) ([]Record, error) {
	start := time.Now()
	records, err := l.lookup.Retrieve(ctx, kind, key)
	l.observer.ObserveLookupLatency(string(kind), time.Since(start))
	return records, err
}
