package availability

import (
	"context"

	"github.com/rxn4chemistry/rxn-availability/internal/domain/chem"
)

// SubstructureSource reports a compound as available (or, combined as an
// exclusion, unavailable) when its molecule contains any of a set of
// substructure patterns.
//
// A query that cannot be parsed as a molecule yields no matches; pattern
// matching requires a molecular graph, and an unparsable compound is handled
// upstream as unavailable anyway.
type SubstructureSource struct {
	patterns []*chem.Pattern
	std      Standardizer
	base
}

var _ Source = (*SubstructureSource)(nil)

// NewSubstructureSource compiles the given pattern expressions into a source.
func NewSubstructureSource(exprs []string, std Standardizer, opts ...SourceOption) (*SubstructureSource, error) {
	patterns := make([]*chem.Pattern, 0, len(exprs))
	for _, expr := range exprs {
		p, err := chem.CompilePattern(expr)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}
	return NewSubstructureSourceFromPatterns(patterns, std, opts...), nil
}

// NewSubstructureSourceFromPatterns wraps pre-compiled patterns.
func NewSubstructureSourceFromPatterns(patterns []*chem.Pattern, std Standardizer, opts ...SourceOption) *SubstructureSource {
	s := &SubstructureSource{patterns: patterns, std: std}
	s.base.apply(opts)
	return s
}

// FindMatches emits one match per containing pattern, stopping early when fn
// returns false.
func (s *SubstructureSource) FindMatches(ctx context.Context, smiles string, fn func(Match) bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	standardized, ok := applyStandardizer(s.std, smiles)
	if !ok {
		return nil
	}
	mol, err := chem.ParseSMILES(standardized)
	if err != nil {
		return nil
	}
	for _, p := range s.patterns {
		if p.Matches(mol) {
			m := s.newMatch("substructure match")
			m.Info["pattern"] = p.String()
			if !fn(m) {
				return nil
			}
		}
	}
	return nil
}
