package availability

import (
	"context"
	"regexp"

	"github.com/rxn4chemistry/rxn-availability/pkg/errors"
)

// RegexSource reports a compound as available when its standardized form
// matches any of a set of regular expressions.  It covers entire compound
// families (single halide ions, hydrates, metal counterions) that would be
// unwieldy to enumerate in a compound index.
type RegexSource struct {
	patterns []*regexp.Regexp
	std      Standardizer
	base
}

var _ Source = (*RegexSource)(nil)

// NewRegexSource compiles the given expressions into a source.  Compilation
// failures are reported with code ErrCodeInvalidPattern.
func NewRegexSource(exprs []string, std Standardizer, opts ...SourceOption) (*RegexSource, error) {
	patterns := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInvalidPattern, "invalid availability regex").
				WithDetail("pattern=" + expr)
		}
		patterns = append(patterns, re)
	}
	s := &RegexSource{patterns: patterns, std: std}
	s.base.apply(opts)
	return s, nil
}

// FindMatches emits one match per matching expression, stopping early when
// fn returns false.
func (s *RegexSource) FindMatches(ctx context.Context, smiles string, fn func(Match) bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	standardized, ok := applyStandardizer(s.std, smiles)
	if !ok {
		return nil
	}
	for _, re := range s.patterns {
		if re.MatchString(standardized) {
			m := s.newMatch("regex match")
			m.Info["pattern"] = re.String()
			if !fn(m) {
				return nil
			}
		}
	}
	return nil
}
