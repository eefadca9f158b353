package testutil

import "github.com/roach88/traitir/internal/canon"

// DefaultSession is the session id used when a scenario names none.
const DefaultSession = "test-session-default"

// FixedSession hands out the same session id to every inference table,
// so debug logs and traces do not depend on fresh UUIDs.
//
// Thread-safety: FixedSession is immutable and safe for concurrent use.
type FixedSession struct {
	id string
}

// NewFixedSession creates a fixed session. The id is typically set in
// the scenario file:
//
//	session: "00000000-0000-7000-8000-000000000001"
//
// An empty id selects DefaultSession.
func NewFixedSession(id string) *FixedSession {
	if id == "" {
		id = DefaultSession
	}
	return &FixedSession{id: id}
}

// ID returns the fixed session id.
func (s *FixedSession) ID() string {
	return s.id
}

// TableOption pins an inference table to the fixed session id.
func (s *FixedSession) TableOption() canon.TableOption {
	return canon.WithSession(s.id)
}
