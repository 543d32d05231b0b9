package aerolink

import (
	"iter"

	"github.com/aerolink/aerolink/types"
)

// Resolver holds the ordered candidate list for connection attempts.
//
// The list is role-segregated and order-preserving: the active endpoint comes
// first, followed by passive endpoints in their configured order. The
// resolver has no memory of past attempts; retry policy (how many passes,
// backoff between them) belongs to the caller, not here.
type Resolver struct {
	candidates []types.Endpoint
}

// NewResolver creates a resolver over the given candidate list.
//
// The slice is copied, so later mutation by the caller does not affect the
// resolver. Candidates are expected in active-first order, as produced by
// ClusterConfig.Endpoints.
//
// Parameters:
//   - candidates: Ordered endpoint list, active endpoint first
//
// Returns:
//   - *Resolver: A new resolver
func NewResolver(candidates []types.Endpoint) *Resolver {
	cp := make([]types.Endpoint, len(candidates))
	copy(cp, candidates)

	return &Resolver{candidates: cp}
}

// Endpoints returns the lazy candidate sequence for one failover pass.
//
// The sequence is finite and restartable: every range over it starts again
// from the active endpoint. No endpoint is skipped based on history.
//
// Returns:
//   - iter.Seq[types.Endpoint]: Active endpoint first, then passives in order
func (r *Resolver) Endpoints() iter.Seq[types.Endpoint] {
	return func(yield func(types.Endpoint) bool) {
		for _, ep := range r.candidates {
			if !yield(ep) {
				return
			}
		}
	}
}

// Len returns the number of candidate endpoints.
func (r *Resolver) Len() int {
	return len(r.candidates)
}
