package aerolink

// version is the static library version banner.
const version = "1.0.0"

// Version returns the static version string.
//
// The value is constant for a given build and has no side effects, making it
// safe to call from any context including process-boundary adapters.
func Version() string {
	return version
}
