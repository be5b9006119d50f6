package availability

import "context"

// SMILESSource reports a compound as available when its standardized form is
// a member of a fixed compound index.
type SMILESSource struct {
	index *CompoundIndex
	std   Standardizer
	base
}

var _ Source = (*SMILESSource)(nil)

// NewSMILESSource returns a source backed by index.  std is applied to the
// query before the lookup; a nil std leaves the query untouched.
func NewSMILESSource(index *CompoundIndex, std Standardizer, opts ...SourceOption) *SMILESSource {
	s := &SMILESSource{index: index, std: std}
	s.base.apply(opts)
	return s
}

// FindMatches emits a single match when the standardized query is indexed.
func (s *SMILESSource) FindMatches(ctx context.Context, smiles string, fn func(Match) bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	standardized, ok := applyStandardizer(s.std, smiles)
	if !ok {
		return nil
	}
	if s.index.Contains(standardized) {
		fn(s.newMatch("compound list"))
	}
	return nil
}
