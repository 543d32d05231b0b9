package aerolink

import "github.com/aerolink/aerolink/types"

// Type aliases for convenience - re-export from types package.
type (
	Endpoint         = types.Endpoint
	EndpointRole     = types.EndpointRole
	Edition          = types.Edition
	Liveness         = types.Liveness
	Logger           = types.Logger
	MetricsCollector = types.MetricsCollector
)

// Re-export endpoint role constants for convenience.
const (
	RoleActive  = types.RoleActive
	RolePassive = types.RolePassive
)

// Re-export edition constants for convenience.
const (
	EditionInvalid    = types.EditionInvalid
	EditionCommunity  = types.EditionCommunity
	EditionEnterprise = types.EditionEnterprise
)

// Re-export liveness constants for convenience.
const (
	Alive = types.Alive
	Dead  = types.Dead
)
