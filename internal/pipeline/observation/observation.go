// Package observation implements the extraction variants of the pipeline:
// plain HTTP, rendered HTTP, local file and SQL reads. Every variant binds a
// user callback at construction and applies it to the fetched response inside
// Observe. Fetch failures are local: Observe returns nil and the manager
// records the URL as not-observed.
package observation

import (
	"github.com/cespare/xxhash/v2"
)

// base carries the attributes shared by all variants: the opaque unit
// identifier and the cross-communication payload handed through to callbacks.
type base struct {
	url  string
	xcom any
}

func (b *base) URL() string { return b.url }

// XCom returns the opaque payload attached by the producer of the
// observation, if any.
func (b *base) XCom() any { return b.xcom }

// digest hashes the identity string of a variant. Identity must be
// deterministic and total: equal identity means at most one fetch per run.
func digest(identity string) uint64 {
	return xxhash.Sum64String(identity)
}
