// Package redis publishes and reads worker heartbeats and guards a fleet
// namespace with a lease, both on top of go-redis.
package redis

import (
	"fmt"

	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by the rig.
const DefaultPrefix = "hoist:"

// Option configures the Redis adapters.
type Option func(*options)

type options struct {
	prefix string
}

// WithPrefix sets the key namespace.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

func buildOptions(opts []Option) options {
	o := options{prefix: DefaultPrefix}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewClient creates a client for the given address.
func NewClient(address, password string, db int) *backend.Client {
	return backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
}

func heartbeatKey(prefix, runID, role string) string {
	return fmt.Sprintf("%s%s:heartbeat:%s", prefix, runID, role)
}
