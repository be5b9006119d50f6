package availability

import (
	"context"
)

// Standardizer normalizes a SMILES string before matching (typically:
// canonicalization).  A Standardizer must be deterministic; the same function
// must be used for index construction and queries, otherwise representation
// drift produces false negatives.
type Standardizer func(smiles string) (string, error)

// Source yields availability matches for a standardized SMILES string.
// Implementations must be safe for concurrent use after construction.
type Source interface {
	// FindMatches invokes fn for every availability match, stopping early
	// when fn returns false.  The SMILES string is expected to be
	// standardized already; sources that additionally hold their own
	// Standardizer apply it first and report no matches when it fails.
	//
	// A non-nil error indicates an infrastructure failure (e.g. a catalog
	// database outage), never "not available".
	FindMatches(ctx context.Context, smiles string, fn func(Match) bool) error
}

// IsAvailable reports whether the source yields at least one match.
// Errors degrade to false: a failed lookup never makes a compound available.
func IsAvailable(ctx context.Context, s Source, smiles string) bool {
	_, ok, _ := FirstMatch(ctx, s, smiles)
	return ok
}

// FirstMatch returns the first match yielded by the source, stopping the
// scan as soon as one is found.
func FirstMatch(ctx context.Context, s Source, smiles string) (Match, bool, error) {
	var found Match
	ok := false
	err := s.FindMatches(ctx, smiles, func(m Match) bool {
		found = m
		ok = true
		return false
	})
	return found, ok, err
}

// CollectMatches returns every match yielded by the source.
func CollectMatches(ctx context.Context, s Source, smiles string) ([]Match, error) {
	var out []Match
	err := s.FindMatches(ctx, smiles, func(m Match) bool {
		out = append(out, m)
		return true
	})
	return out, err
}

// SourceOption customizes the match reporting of a concrete source.
type SourceOption func(*base)

// WithDetails overrides the human-readable details string attached to every
// match the source emits.
func WithDetails(details string) SourceOption {
	return func(b *base) { b.details = details }
}

// WithInfo attaches a static key/value pair to every match the source emits.
func WithInfo(key string, value interface{}) SourceOption {
	return func(b *base) {
		if b.info == nil {
			b.info = map[string]interface{}{}
		}
		b.info[key] = value
	}
}

// base carries the shared match-reporting state of the concrete sources.
type base struct {
	details string
	info    map[string]interface{}
}

func (b *base) apply(opts []SourceOption) {
	for _, opt := range opts {
		opt(b)
	}
}

// newMatch builds a Match using the configured details, falling back to
// fallback when none was set, and copies the static info entries in.
func (b *base) newMatch(fallback string) Match {
	details := b.details
	if details == "" {
		details = fallback
	}
	m := NewMatch(details)
	for k, v := range b.info {
		m.Info[k] = v
	}
	return m
}

// applyStandardizer runs std over smiles; a nil Standardizer is the identity.
// The second return value is false when standardization failed, in which case
// the compound cannot be matched.
func applyStandardizer(std Standardizer, smiles string) (string, bool) {
	if std == nil {
		return smiles, true
	}
	out, err := std(smiles)
	if err != nil {
		return "", false
	}
	return out, true
}
