package testutil

// DefaultSessionID is used when a scenario does not name its session.
const DefaultSessionID = "test-session"

// FixedSessionGenerator returns the same edit session id every time, so
// traces from repeated runs are byte-identical. It satisfies
// editor.IDGenerator.
type FixedSessionGenerator struct {
	id string
}

// NewFixedSessionGenerator returns a generator for id, or for
// DefaultSessionID when id is empty.
func NewFixedSessionGenerator(id string) *FixedSessionGenerator {
	if id == "" {
		id = DefaultSessionID
	}
	return &FixedSessionGenerator{id: id}
}

// Generate returns the fixed id.
func (g *FixedSessionGenerator) Generate() string {
	return g.id
}
