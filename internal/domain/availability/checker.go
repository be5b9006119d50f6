package availability

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rxn4chemistry/rxn-availability/internal/domain/chem"
	"github.com/rxn4chemistry/rxn-availability/internal/infrastructure/monitoring/logging"
	"github.com/rxn4chemistry/rxn-availability/pkg/errors"
)

// Source tags recorded by the checker's combiner.
const (
	tagDefaultCompounds = "default_compounds"
	tagDefaultRegexes   = "default_regexes"
	tagDefaultPatterns  = "default_substructures"
	tagUser             = "user"
	tagModel            = "model"
)

// reservedTags lists the built-in source tags that catalog database names
// must not shadow; a colliding name would be miscategorized.
var reservedTags = map[string]struct{}{
	tagDefaultCompounds: {},
	tagDefaultRegexes:   {},
	tagDefaultPatterns:  {},
	tagUser:             {},
	tagModel:            {},
}

// Checker answers compound availability queries.  It combines the bundled
// compound list, the always-available regexes and substructure patterns,
// user- and model-provided compound lists, and any number of catalog
// databases, with user exclusions taking precedence over everything.
//
// A Checker is immutable after construction except for the pricing
// threshold, and safe for concurrent use.
type Checker struct {
	canon    chem.Canonicalizer
	std      Standardizer
	logger   logging.Logger
	observer Observer

	combiner       *Combiner
	expandCombiner *Combiner
	databases      []*DatabaseSource
	databaseNames  map[string]struct{}

	mu        sync.RWMutex
	threshold float64
}

// CheckerOption configures a Checker.
type CheckerOption func(*checkerConfig)

type checkerConfig struct {
	canon               chem.Canonicalizer
	std                 Standardizer
	logger              logging.Logger
	observer            Observer
	threshold           float64
	alwaysAvailable     []string
	modelAvailable      []string
	excluded            []string
	avoidSubstructure   []string
	materialsExclusive  bool
	additionalFiles     []string
	additionalCompounds []string
	databases           []Database
}

// WithCanonicalizer overrides the canonicalizer used for index construction
// and query standardization.
func WithCanonicalizer(c chem.Canonicalizer) CheckerOption {
	return func(cfg *checkerConfig) { cfg.canon = c }
}

// WithStandardizer overrides the query standardizer.  The default replaces
// "~" fragment bonds with "." and canonicalizes.
func WithStandardizer(std Standardizer) CheckerOption {
	return func(cfg *checkerConfig) { cfg.std = std }
}

// WithLogger sets the logger.  Defaults to the no-op logger.
func WithLogger(l logging.Logger) CheckerOption {
	return func(cfg *checkerConfig) { cfg.logger = l }
}

// WithObserver sets the query observer.  Defaults to the no-op observer.
func WithObserver(o Observer) CheckerOption {
	return func(cfg *checkerConfig) { cfg.observer = o }
}

// WithPricingThreshold sets the catalog pricing threshold in USD per g/L.
// A threshold of 0 or 1000 disables the price check.
func WithPricingThreshold(threshold float64) CheckerOption {
	return func(cfg *checkerConfig) { cfg.threshold = threshold }
}

// WithAlwaysAvailable adds compounds that are always considered available.
func WithAlwaysAvailable(compounds ...string) CheckerOption {
	return func(cfg *checkerConfig) {
		cfg.alwaysAvailable = append(cfg.alwaysAvailable, compounds...)
	}
}

// WithModelAvailable adds compounds available for the selected model.
func WithModelAvailable(compounds ...string) CheckerOption {
	return func(cfg *checkerConfig) {
		cfg.modelAvailable = append(cfg.modelAvailable, compounds...)
	}
}

// WithExcluded adds compounds that are never available, whatever the other
// sources say.
func WithExcluded(compounds ...string) CheckerOption {
	return func(cfg *checkerConfig) {
		cfg.excluded = append(cfg.excluded, compounds...)
	}
}

// WithAvoidSubstructure adds substructure patterns whose presence makes a
// compound unavailable.
func WithAvoidSubstructure(patterns ...string) CheckerOption {
	return func(cfg *checkerConfig) {
		cfg.avoidSubstructure = append(cfg.avoidSubstructure, patterns...)
	}
}

// WithMaterialsExclusive makes the user-provided compounds replace the
// model list and the catalog databases instead of complementing them.
func WithMaterialsExclusive(exclusive bool) CheckerOption {
	return func(cfg *checkerConfig) { cfg.materialsExclusive = exclusive }
}

// WithAdditionalCompoundsFile merges a newline-delimited compound list file
// into the default compounds.  An unreadable file fails construction with
// code ErrCodeSourceLoad.
func WithAdditionalCompoundsFile(path string) CheckerOption {
	return func(cfg *checkerConfig) {
		cfg.additionalFiles = append(cfg.additionalFiles, path)
	}
}

// WithAdditionalCompounds merges in-memory compounds into the default
// compounds.
func WithAdditionalCompounds(compounds ...string) CheckerOption {
	return func(cfg *checkerConfig) {
		cfg.additionalCompounds = append(cfg.additionalCompounds, compounds...)
	}
}

// WithDatabase attaches a catalog database.
func WithDatabase(db Database) CheckerOption {
	return func(cfg *checkerConfig) { cfg.databases = append(cfg.databases, db) }
}

// DefaultStandardizer returns the default query standardizer: "~" fragment
// bonds are replaced by "." and the result is canonicalized with canon.
func DefaultStandardizer(canon chem.Canonicalizer) Standardizer {
	return func(smiles string) (string, error) {
		return canon.Canonicalize(strings.ReplaceAll(smiles, "~", "."))
	}
}

// standardizerCanonicalizer adapts a Standardizer to chem.Canonicalizer so
// that index construction normalizes entries exactly like queries.
type standardizerCanonicalizer struct{ std Standardizer }

func (c standardizerCanonicalizer) Canonicalize(smiles string) (string, error) {
	return c.std(smiles)
}

// NewChecker builds a Checker.  Construction fails when a user-provided
// pattern does not compile, an additional compound file cannot be read, or a
// catalog database name shadows a built-in source tag; individual compounds
// that fail canonicalization are skipped silently.
func NewChecker(opts ...CheckerOption) (*Checker, error) {
	cfg := checkerConfig{
		canon:    chem.NewCanonicalizer(),
		logger:   logging.NewNop(),
		observer: NopObserver{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.std == nil {
		cfg.std = DefaultStandardizer(cfg.canon)
	}
	logger := cfg.logger.Named("availability")
	entryCanon := standardizerCanonicalizer{std: cfg.std}

	seenNames := map[string]struct{}{}
	for _, db := range cfg.databases {
		name := db.Name()
		if _, reserved := reservedTags[name]; reserved {
			return nil, errors.Newf(errors.ErrCodeDatabaseConfig,
				"catalog database name %q collides with a built-in source tag", name)
		}
		if _, dup := seenNames[name]; dup {
			return nil, errors.Newf(errors.ErrCodeDatabaseConfig,
				"catalog database name %q is attached twice", name)
		}
		seenNames[name] = struct{}{}
	}

	defaults, err := DefaultCompounds()
	if err != nil {
		return nil, err
	}
	defaultBuilder := NewIndexBuilder(entryCanon, logger)
	defaultBuilder.AddCompounds(defaults)
	defaultBuilder.AddCompounds(BiochemicalByproducts())
	defaultBuilder.AddCompounds(cfg.additionalCompounds)
	for _, path := range cfg.additionalFiles {
		if err := defaultBuilder.AddFile(path); err != nil {
			return nil, err
		}
	}
	fromDefaults := NewSMILESSource(defaultBuilder.Build(), nil)

	fromRegexes, err := NewRegexSource(DefaultRegexes(), nil)
	if err != nil {
		return nil, err
	}
	fromPatterns, err := NewSubstructureSource(DefaultSubstructurePatterns(), nil)
	if err != nil {
		return nil, err
	}

	fromUser := NewSMILESSource(buildIndex(entryCanon, logger, cfg.alwaysAvailable), nil)
	fromModel := NewSMILESSource(buildIndex(entryCanon, logger, cfg.modelAvailable), nil)

	excludedSource := NewSMILESSource(buildIndex(entryCanon, logger, cfg.excluded), nil)
	avoidSource, err := NewSubstructureSource(cfg.avoidSubstructure, nil)
	if err != nil {
		return nil, err
	}
	exclusions := []Source{excludedSource, avoidSource}

	c := &Checker{
		canon:         cfg.canon,
		std:           cfg.std,
		logger:        logger,
		observer:      cfg.observer,
		threshold:     cfg.threshold,
		databaseNames: map[string]struct{}{},
	}

	sources := []TaggedSource{
		{Tag: tagDefaultCompounds, Source: fromDefaults},
		{Tag: tagDefaultRegexes, Source: fromRegexes},
		{Tag: tagDefaultPatterns, Source: fromPatterns},
		{Tag: tagUser, Source: fromUser},
	}
	if !cfg.materialsExclusive {
		sources = append(sources, TaggedSource{Tag: tagModel, Source: fromModel})
		for _, db := range cfg.databases {
			ds := NewDatabaseSource(db, nil, cfg.threshold, logger)
			ds.setObserver(cfg.observer)
			c.databases = append(c.databases, ds)
			c.databaseNames[db.Name()] = struct{}{}
			sources = append(sources, TaggedSource{Tag: db.Name(), Source: ds})
		}
	}

	c.combiner = NewCombiner(sources, exclusions, cfg.std, logger)

	// Expandability only considers the compound lists and regexes, with no
	// exclusions applied.
	c.expandCombiner = NewCombiner([]TaggedSource{
		{Tag: tagDefaultCompounds, Source: fromDefaults},
		{Tag: tagDefaultRegexes, Source: fromRegexes},
		{Tag: tagUser, Source: fromUser},
	}, nil, cfg.std, logger)

	return c, nil
}

func buildIndex(canon chem.Canonicalizer, logger logging.Logger, compounds []string) *CompoundIndex {
	b := NewIndexBuilder(canon, logger)
	b.AddCompounds(compounds)
	return b.Build()
}

// IsAvailable reports whether the compound is available.  It never fails:
// unparsable input and source errors both yield false.
func (c *Checker) IsAvailable(ctx context.Context, smiles string) bool {
	start := time.Now()
	m, ok := c.FirstMatch(ctx, smiles)
	c.observer.QueryObserved(ok, time.Since(start))
	if !ok {
		c.logger.Debug("compound not available", logging.String("smiles", smiles))
		return false
	}
	c.logger.Debug("compound available",
		logging.String("smiles", smiles), logging.String("details", m.Details))
	return true
}

// Func returns the checker as a plain predicate.
func (c *Checker) Func() func(context.Context, string) bool {
	return c.IsAvailable
}

// FirstMatch returns the first availability match for the compound.
func (c *Checker) FirstMatch(ctx context.Context, smiles string) (Match, bool) {
	if _, ok := applyStandardizer(c.std, smiles); !ok {
		c.observer.CanonicalizationFailed()
		return Match{}, false
	}
	m, ok, err := FirstMatch(ctx, c.combiner, smiles)
	if err != nil {
		c.logger.Warn("availability query failed", logging.Err(err))
		return Match{}, false
	}
	if ok {
		if tag, tok := m.Info[SourceTagKey].(string); tok {
			c.observer.SourceMatched(tag)
		}
	}
	return m, ok
}

// Category returns the availability category of the compound.
func (c *Checker) Category(ctx context.Context, smiles string) Category {
	m, ok := c.FirstMatch(ctx, smiles)
	if !ok {
		return CategoryUnavailable
	}
	tag, _ := m.Info[SourceTagKey].(string)
	return c.categoryForTag(tag)
}

// CategoryMetadata returns the display metadata for the compound's
// availability category.
func (c *Checker) CategoryMetadata(ctx context.Context, smiles string) Metadata {
	return MetadataFor(c.Category(ctx, smiles))
}

func (c *Checker) categoryForTag(tag string) Category {
	switch tag {
	case tagDefaultCompounds, tagDefaultRegexes, tagDefaultPatterns, tagUser:
		return CategoryCommon
	case tagModel:
		return CategoryModel
	}
	if _, ok := c.databaseNames[tag]; ok {
		if tag == string(CategoryEmolecules) {
			return CategoryEmolecules
		}
		return CategoryDatabase
	}
	return CategoryUnavailable
}

// IsExpandable reports whether a retrosynthesis engine should keep expanding
// the compound.  A compound is expandable when neither the compound lists nor
// the regexes match it; the substructure patterns and the catalog databases
// are deliberately not consulted.
func (c *Checker) IsExpandable(ctx context.Context, smiles string) bool {
	return !IsAvailable(ctx, c.expandCombiner, smiles)
}

// PricingThreshold returns the current catalog pricing threshold.
func (c *Checker) PricingThreshold() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.threshold
}

// SetPricingThreshold changes the pricing threshold on the checker and on
// every attached catalog database.
func (c *Checker) SetPricingThreshold(threshold float64) {
	c.mu.Lock()
	c.threshold = threshold
	c.mu.Unlock()
	for _, db := range c.databases {
		db.SetThreshold(threshold)
	}
}
