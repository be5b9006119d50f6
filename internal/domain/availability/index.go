package availability

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/rxn4chemistry/rxn-availability/internal/domain/chem"
	"github.com/rxn4chemistry/rxn-availability/internal/infrastructure/monitoring/logging"
	"github.com/rxn4chemistry/rxn-availability/pkg/errors"
)

// CompoundIndex is an immutable set of canonical compound strings.
// It is built once by an IndexBuilder and is safe for concurrent reads;
// there is no mutation API after construction.
type CompoundIndex struct {
	set map[string]struct{}
}

// Contains reports whether the canonical compound is in the index.
func (x *CompoundIndex) Contains(canonical string) bool {
	_, ok := x.set[canonical]
	return ok
}

// Len returns the number of distinct canonical compounds in the index.
func (x *CompoundIndex) Len() int { return len(x.set) }

// IndexBuilder accumulates raw compounds from one or more sources,
// canonicalizes each entry, and produces a deduplicated CompoundIndex.
//
// Per-entry canonicalization failures are skipped, never fatal: one bad line
// in a large third-party list must not abort indexing.  Unreadable source
// files, in contrast, fail the construction call with ErrCodeSourceLoad.
type IndexBuilder struct {
	canon   chem.Canonicalizer
	logger  logging.Logger
	set     map[string]struct{}
	skipped int
}

// NewIndexBuilder returns a builder canonicalizing with canon.  A nil logger
// defaults to the no-op logger.
func NewIndexBuilder(canon chem.Canonicalizer, logger logging.Logger) *IndexBuilder {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &IndexBuilder{
		canon:  canon,
		logger: logger.Named("index"),
		set:    map[string]struct{}{},
	}
}

// Add canonicalizes a single raw compound and inserts it into the index.
// Unparsable entries are skipped and counted.
func (b *IndexBuilder) Add(raw string) {
	canonical, err := b.canon.Canonicalize(raw)
	if err != nil {
		b.skipped++
		b.logger.Debug("skipping unparsable compound", logging.String("smiles", raw), logging.Err(err))
		return
	}
	b.set[canonical] = struct{}{}
}

// AddCompounds adds every entry of an in-memory compound collection.
func (b *IndexBuilder) AddCompounds(compounds []string) {
	for _, c := range compounds {
		b.Add(c)
	}
}

// AddReader adds one compound per line from r.  Blank lines and lines
// starting with "#" are ignored.
func (b *IndexBuilder) AddReader(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		b.Add(line)
	}
	return scanner.Err()
}

// AddFile adds one compound per line from the newline-delimited list at path.
// A missing or unreadable file is a construction-time failure with code
// ErrCodeSourceLoad, distinct from per-entry canonicalization failures.
func (b *IndexBuilder) AddFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSourceLoad, "cannot read compound list").
			WithDetail("path=" + path)
	}
	defer f.Close()

	if err := b.AddReader(f); err != nil {
		return errors.Wrap(err, errors.ErrCodeSourceLoad, "error while reading compound list").
			WithDetail("path=" + path)
	}
	return nil
}

// Skipped returns the number of entries dropped due to canonicalization
// failure.
func (b *IndexBuilder) Skipped() int { return b.skipped }

// Build finalizes the index.  The builder must not be reused afterwards.
func (b *IndexBuilder) Build() *CompoundIndex {
	idx := &CompoundIndex{set: b.set}
	b.set = nil
	b.logger.Debug("compound index built",
		logging.Int("size", idx.Len()), logging.Int("skipped", b.skipped))
	return idx
}
