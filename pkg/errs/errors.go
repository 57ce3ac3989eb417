// Package errs defines the error-kind taxonomy shared across paratree's
// components. AbsentKey is not represented here: it is a normal result
// (bool/ok), not an error.
package errs

import "errors"

var (
	// ErrConfigInvalid is returned by construction when num_shards < 1 or
	// the routing strategy is unrecognized.
	ErrConfigInvalid = errors.New("paratree: invalid configuration")

	// ErrResourceExhausted names an allocation failure in the underlying
	// ordered map. No operation in this module returns it: Container's
	// insert, remove and lookup methods have no error result.
	ErrResourceExhausted = errors.New("paratree: resource exhausted")

	// ErrRingEmpty names a virtual-node ring with no shards. The ring
	// itself does not return it: hashRing.shardFor reports an empty ring
	// through its bool result.
	ErrRingEmpty = errors.New("paratree: hash ring has no nodes")

	// ErrClosed names a closed container. No operation returns it:
	// Container.Close only stops the load-view refresher, and the
	// container stays readable and writable afterwards.
	ErrClosed = errors.New("paratree: container closed")
)
