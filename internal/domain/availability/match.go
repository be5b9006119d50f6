// Package availability implements the compound availability engine: an
// immutable canonical-compound index built from bundled and user-supplied
// lists, plus regex, substructure, and catalog-database sources combined
// behind a single membership query.
package availability

// Match holds the information about one availability match for a queried
// compound.
type Match struct {
	// Details describes the match in human-readable form.
	Details string

	// Info holds additional information related to the available compound,
	// such as the originating source or pricing data.
	Info map[string]interface{}
}

// NewMatch constructs a Match with an empty, non-nil Info map.
func NewMatch(details string) Match {
	return Match{Details: details, Info: map[string]interface{}{}}
}
