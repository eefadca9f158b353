// Package digest provides RFC 8785 canonical JSON and domain-separated
// SHA-256 content hashes.
//
// Canonical JSON is the only serialization used for content identity:
// cache keys for canonical goals and golden trace fingerprints are both
// computed as Hash(domain, value).
package digest
