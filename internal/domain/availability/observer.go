package availability

import "time"

// Observer receives notifications about availability queries.  The metrics
// implementation lives in the infrastructure layer; the no-op implementation
// is the default.
type Observer interface {
	// QueryObserved is called once per availability query with the verdict
	// and the wall-clock duration of the whole query.
	QueryObserved(available bool, elapsed time.Duration)

	// CanonicalizationFailed is called when a queried SMILES string cannot
	// be canonicalized.
	CanonicalizationFailed()

	// SourceMatched is called with the tag of the source that produced the
	// first match of a query.
	SourceMatched(tag string)

	// DatabaseQueried is called after each catalog database lookup.
	DatabaseQueried(name string, failed bool)
}

// NopObserver is an Observer that does nothing.
type NopObserver struct{}

var _ Observer = NopObserver{}

func (NopObserver) QueryObserved(bool, time.Duration) {}
func (NopObserver) CanonicalizationFailed()           {}
func (NopObserver) SourceMatched(string)              {}
func (NopObserver) DatabaseQueried(string, bool)      {}
