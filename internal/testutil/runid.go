package testutil

// DefaultRunID is returned by a FixedRunIDs created with an empty id.
const DefaultRunID = "00000000-0000-7000-8000-000000000001"

// FixedRunIDs hands out the same run id every time, so provenance and
// store rows are byte-identical across test runs.
//
// Thread-safety: FixedRunIDs is stateless and safe for concurrent use.
type FixedRunIDs struct {
	id string
}

// NewFixedRunIDs creates a generator returning id, or DefaultRunID when id
// is empty.
func NewFixedRunIDs(id string) *FixedRunIDs {
	if id == "" {
		id = DefaultRunID
	}
	return &FixedRunIDs{id: id}
}

// Generate returns the fixed id.
func (g *FixedRunIDs) Generate() string {
	return g.id
}
