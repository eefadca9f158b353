package ir

import "github.com/roach88/traitir/internal/digest"

// CacheKey identifies a u-canonical query. Two queries share a key exactly
// when their renderings, binder kinds and universe counts agree.
type CacheKey string

// KeyOf computes the cache key of a u-canonical value. The key does not
// depend on the interner, on inference variable numbering or on which
// universes the query was taken from.
func KeyOf[T any](in Interner, uc UCanonical[T]) CacheKey {
	return CacheKey(digest.MustHash(digest.DomainUCanonical, map[string]any{
		"version":   IRVersion,
		"universes": uc.Universes,
		"binders":   Render(in, uc.Canonical.Binders),
		"value":     Render(in, uc.Canonical.Value),
	}))
}

// Short returns the first 12 hex digits, for logs.
func (k CacheKey) Short() string {
	if len(k) < 12 {
		return string(k)
	}
	return string(k[:12])
}
