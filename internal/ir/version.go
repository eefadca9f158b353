package ir

// Version constants for the term representation.
const (
	// IRVersion is folded into every cache key; bump it when the rendering
	// of any term changes.
	IRVersion = "1"
)
