package cache

import "context"

// Cache fronts the read path. Get reports whether a fresh entry
// existed and, when it did, unmarshals the payload into dest. Clear
// with no keys empties the whole cache; the aggregator calls that
// variant after every successful write, trading hit-rate for
// freshness.
type Cache interface {
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, value any)
	Clear(ctx context.Context, keys ...string)
}
