// internal/store/store.go
package store

import "context"

// Store is a simple durable key-value store for config, scores and other
// small JSON-encodable state. Load reports a miss (false) instead of an
// error when the key is absent or its stored value fails to parse, so
// callers always fall back to their own default.
type Store interface {
	Save(ctx context.Context, key string, value any) error
	Load(ctx context.Context, key string, out any) (bool, error)
	Remove(ctx context.Context, key string) error
}
