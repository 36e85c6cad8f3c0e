package session

import "context"

// Repo is the durable per-client key/value storage behind a Store.
// Values are opaque strings; a missing key is reported with ok == false and a nil error.
type Repo interface {
	// Get returns the raw value stored under key
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Put writes every entry in a single operation
	Put(ctx context.Context, entries map[string]string) error

	// Delete removes the given keys; missing keys are not an error
	Delete(ctx context.Context, keys ...string) error
}
