package availability

import (
	"container/list"
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/rxn4chemistry/rxn-availability/internal/infrastructure/monitoring/logging"
)

// Offer is a single purchasability offer for a compound in a catalog
// database.  Priced is false when the catalog lists the compound without a
// usable price.
type Offer struct {
	Price  float64
	Priced bool
}

// Database is a catalog of purchasable compounds.  Implementations live in
// the infrastructure layer (Redis, PostgreSQL).
type Database interface {
	// Name identifies the catalog, e.g. "emolecules".
	Name() string

	// Offers returns the offers for a compound, empty when the compound is
	// not listed.  A non-nil error indicates a catalog failure, not absence.
	Offers(ctx context.Context, smiles string) ([]Offer, error)
}

// DatabaseSource adapts a catalog Database to the Source interface, applying
// the pricing policy:
//
//   - no offers: not available
//   - threshold 0 or 1000: any listing counts, price ignored
//   - otherwise: available iff the cheapest priced offer is below threshold
//
// Offer lookups are cached in a small LRU keyed by standardized SMILES, with
// concurrent lookups for the same compound collapsed into one catalog query.
type DatabaseSource struct {
	db       Database
	std      Standardizer
	logger   logging.Logger
	observer Observer

	group singleflight.Group

	mu        sync.Mutex
	threshold float64
	cache     map[string]*list.Element
	order     *list.List
	limit     int

	base
}

var _ Source = (*DatabaseSource)(nil)

type cacheEntry struct {
	key    string
	offers []Offer
}

// thresholdIgnoresPrice lists the sentinel thresholds under which any catalog
// listing counts as available regardless of its price.
func thresholdIgnoresPrice(threshold float64) bool {
	return threshold == 0 || threshold == 1000
}

const defaultOfferCacheSize = 4096

// NewDatabaseSource wraps db.  A nil logger defaults to the no-op logger.
func NewDatabaseSource(db Database, std Standardizer, threshold float64, logger logging.Logger, opts ...SourceOption) *DatabaseSource {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &DatabaseSource{
		db:        db,
		std:       std,
		logger:    logger.Named("database").With(logging.String("catalog", db.Name())),
		observer:  NopObserver{},
		threshold: threshold,
		cache:     map[string]*list.Element{},
		order:     list.New(),
		limit:     defaultOfferCacheSize,
	}
	s.base.apply(opts)
	return s
}

// Name returns the name of the underlying catalog.
func (s *DatabaseSource) Name() string { return s.db.Name() }

// Threshold returns the current pricing threshold.
func (s *DatabaseSource) Threshold() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.threshold
}

// SetThreshold changes the pricing threshold for subsequent queries.
func (s *DatabaseSource) SetThreshold(threshold float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threshold = threshold
}

// setObserver installs the query observer.  Called once during checker
// construction, before any queries run.
func (s *DatabaseSource) setObserver(obs Observer) { s.observer = obs }

// FindMatches emits a single match when the compound is purchasable under the
// pricing policy.  Catalog failures are returned as errors.
func (s *DatabaseSource) FindMatches(ctx context.Context, smiles string, fn func(Match) bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	standardized, ok := applyStandardizer(s.std, smiles)
	if !ok {
		return nil
	}

	offers, err := s.offers(ctx, standardized)
	s.observer.DatabaseQueried(s.db.Name(), err != nil)
	if err != nil {
		s.logger.Warn("catalog lookup failed", logging.String("smiles", standardized), logging.Err(err))
		return err
	}

	price, available := evaluateOffers(offers, s.Threshold())
	if !available {
		return nil
	}

	m := s.newMatch(fmt.Sprintf("found in %s", s.db.Name()))
	m.Info["database"] = s.db.Name()
	if price >= 0 {
		m.Info["price"] = price
	}
	fn(m)
	return nil
}

// evaluateOffers applies the pricing policy and returns the cheapest priced
// offer (-1 when no priced offer exists) plus the availability verdict.
func evaluateOffers(offers []Offer, threshold float64) (float64, bool) {
	if len(offers) == 0 {
		return -1, false
	}
	min := -1.0
	for _, o := range offers {
		if !o.Priced {
			continue
		}
		if min < 0 || o.Price < min {
			min = o.Price
		}
	}
	if thresholdIgnoresPrice(threshold) {
		return min, true
	}
	if min < 0 {
		return -1, false
	}
	return min, min < threshold
}

func (s *DatabaseSource) offers(ctx context.Context, smiles string) ([]Offer, error) {
	if offers, ok := s.cached(smiles); ok {
		return offers, nil
	}
	v, err, _ := s.group.Do(smiles, func() (interface{}, error) {
		offers, err := s.db.Offers(ctx, smiles)
		if err != nil {
			return nil, err
		}
		s.store(smiles, offers)
		return offers, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Offer), nil
}

func (s *DatabaseSource) cached(key string) ([]Offer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	el, ok := s.cache[key]
	if !ok {
		return nil, false
	}
	s.order.MoveToFront(el)
	return el.Value.(*cacheEntry).offers, true
}

func (s *DatabaseSource) store(key string, offers []Offer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if el, ok := s.cache[key]; ok {
		el.Value.(*cacheEntry).offers = offers
		s.order.MoveToFront(el)
		return
	}
	s.cache[key] = s.order.PushFront(&cacheEntry{key: key, offers: offers})
	if s.order.Len() > s.limit {
		oldest := s.order.Back()
		s.order.Remove(oldest)
		delete(s.cache, oldest.Value.(*cacheEntry).key)
	}
}
