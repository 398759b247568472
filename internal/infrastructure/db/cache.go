package database

import (
	"github.com/redis/go-redis/v9"
)

// TimeSeriesDatabase defines the contract for the time-series sink. It wraps
// the underlying Redis client so exporters can submit write batches without
// owning the connection lifecycle.
type TimeSeriesDatabase interface {
	// GetClient returns the underlying Redis client instance. Exporters use
	// it to build pipelined XADD stream batches.
	GetClient() *redis.Client

	// Close terminates the connection to the time-series store.
	Close() error
}
