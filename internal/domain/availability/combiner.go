package availability

import (
	"context"

	"github.com/rxn4chemistry/rxn-availability/internal/infrastructure/monitoring/logging"
)

// TaggedSource pairs a Source with the tag written into each match's Info map
// when the combiner reports it.
type TaggedSource struct {
	Tag    string
	Source Source
}

// Combiner merges several availability sources into one.  Exclusion sources
// take precedence: when any exclusion matches, the combiner yields no matches
// at all, whatever the regular sources would say.
//
// The combiner standardizes the query once and hands the standardized form to
// every source, so per-source standardizers are not needed underneath it.
type Combiner struct {
	sources    []TaggedSource
	exclusions []Source
	std        Standardizer
	tagKey     string
	logger     logging.Logger
}

var _ Source = (*Combiner)(nil)

// SourceTagKey is the Info key under which the combiner records the tag of
// the source that produced a match.
const SourceTagKey = "source"

// NewCombiner builds a combiner over the given tagged sources.  Exclusions
// may be nil.  A nil logger defaults to the no-op logger.
func NewCombiner(sources []TaggedSource, exclusions []Source, std Standardizer, logger logging.Logger) *Combiner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Combiner{
		sources:    sources,
		exclusions: exclusions,
		std:        std,
		tagKey:     SourceTagKey,
		logger:     logger.Named("combiner"),
	}
}

// FindMatches checks the exclusions first, then walks the regular sources in
// order, tagging each match with its source tag.  Source errors are logged
// and skipped; a failing source never hides the matches of a healthy one.
func (c *Combiner) FindMatches(ctx context.Context, smiles string, fn func(Match) bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	standardized, ok := applyStandardizer(c.std, smiles)
	if !ok {
		return nil
	}

	for _, excl := range c.exclusions {
		excluded, err := c.anyMatch(ctx, excl, standardized)
		if err != nil {
			c.logger.Warn("exclusion source failed", logging.Err(err))
			continue
		}
		if excluded {
			return nil
		}
	}

	stop := false
	for _, ts := range c.sources {
		err := ts.Source.FindMatches(ctx, standardized, func(m Match) bool {
			if m.Info == nil {
				m.Info = map[string]interface{}{}
			}
			m.Info[c.tagKey] = ts.Tag
			if !fn(m) {
				stop = true
			}
			return !stop
		})
		if err != nil {
			c.logger.Warn("availability source failed",
				logging.String("source", ts.Tag), logging.Err(err))
		}
		if stop {
			return nil
		}
	}
	return nil
}

func (c *Combiner) anyMatch(ctx context.Context, s Source, smiles string) (bool, error) {
	found := false
	err := s.FindMatches(ctx, smiles, func(Match) bool {
		found = true
		return false
	})
	return found, err
}
