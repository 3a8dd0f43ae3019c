// Package blob implements the persistence service contract over a
// JSON blob layout: one system-wide record, a public-works mirror, and
// one samples file plus one works file per user.
package blob

import (
	"errors"
)

// ErrNotExist is returned by providers when a key has never been
// written. The store treats it as an empty slice.
var ErrNotExist = errors.New("blob: key does not exist")

// Provider is a flat key/value backend. Keys use forward slashes.
type Provider interface {
	Get(key string) ([]byte, error)
	Put(key string, data []byte) error
	List(prefix string) ([]string, error)
}
