package chem

import (
	"fmt"
	"sort"
	"strings"
)

// Canonicalizer converts a raw structure string into its canonical form, or
// reports that the input is unparsable.  The availability engine depends on
// this capability interface only; any deterministic, version-stable
// implementation can be substituted for the built-in one.
type Canonicalizer interface {
	Canonicalize(smiles string) (string, error)
}

// SMILESCanonicalizer is the built-in Canonicalizer.  It is stateless and
// safe for concurrent use.
type SMILESCanonicalizer struct{}

var _ Canonicalizer = SMILESCanonicalizer{}

// NewCanonicalizer returns the built-in SMILES canonicalizer.
func NewCanonicalizer() SMILESCanonicalizer {
	return SMILESCanonicalizer{}
}

// Canonicalize parses the SMILES string and rewrites it in canonical form:
// aromatic rings normalized from Kekulé notation, canonical atom ordering
// within each fragment, and lexicographically sorted fragments.  Two inputs
// describing the same connectivity graph produce the same output, whichever
// notation the aromatic rings were written in.
func (SMILESCanonicalizer) Canonicalize(smiles string) (string, error) {
	mol, err := ParseSMILES(smiles)
	if err != nil {
		return "", err
	}
	mol.Aromatize()
	ranks := canonicalRanks(mol)
	return writeCanonical(mol, ranks), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Canonical atom ranking
// ─────────────────────────────────────────────────────────────────────────────

// canonicalRanks assigns every atom a unique rank that is invariant under
// input atom reordering.  The algorithm is Morgan-style iterative refinement
// of an initial atom invariant, with symmetry ties broken by repeatedly
// singling out one member of the lowest tied class and re-refining.
func canonicalRanks(m *Molecule) []int {
	n := m.NumAtoms()
	ranks := initialRanks(m)
	ranks = refineRanks(m, ranks)

	for {
		tied := lowestTiedClass(ranks, n)
		if tied < 0 {
			break
		}
		// A tied class after refinement is treated as a symmetry orbit and
		// its lowest-index member promoted.  For highly regular cage graphs
		// a class can be coarser than a true orbit; the choice then still
		// keeps the output deterministic for the given input.
		chosen := -1
		for i := 0; i < n; i++ {
			if ranks[i] == tied {
				chosen = i
				break
			}
		}
		for i := 0; i < n; i++ {
			if ranks[i] > tied || (ranks[i] == tied && i != chosen) {
				ranks[i]++
			}
		}
		ranks = refineRanks(m, ranks)
	}
	return ranks
}

// initialRanks partitions atoms by their local invariant: element, aromatic
// flag, charge, isotope, degree, and total hydrogen count.
func initialRanks(m *Molecule) []int {
	n := m.NumAtoms()
	keys := make([]string, n)
	for i := 0; i < n; i++ {
		a := m.Atoms[i]
		keys[i] = fmt.Sprintf("%s|%t|%d|%d|%d|%d",
			a.Element, a.Aromatic, a.Charge, a.Isotope, m.Degree(i), m.TotalHydrogens(i))
	}
	return denseRanks(keys)
}

// refineRanks iterates neighborhood refinement until the partition is stable:
// each atom's key is its current rank plus the sorted multiset of
// (bond order, neighbor rank) pairs.
func refineRanks(m *Molecule, ranks []int) []int {
	n := m.NumAtoms()
	for {
		keys := make([]string, n)
		for i := 0; i < n; i++ {
			neigh := make([]string, 0, m.Degree(i))
			for _, bi := range m.Neighbors(i) {
				j := m.Other(bi, i)
				neigh = append(neigh, fmt.Sprintf("%d:%06d", m.Bonds[bi].Order, ranks[j]))
			}
			sort.Strings(neigh)
			keys[i] = fmt.Sprintf("%06d|%s", ranks[i], strings.Join(neigh, ","))
		}
		next := denseRanks(keys)
		if sameRanks(ranks, next) {
			return next
		}
		ranks = next
	}
}

// denseRanks maps each key to its position in the sorted set of distinct keys.
func denseRanks(keys []string) []int {
	uniq := make([]string, len(keys))
	copy(uniq, keys)
	sort.Strings(uniq)
	uniq = dedupe(uniq)

	pos := make(map[string]int, len(uniq))
	for i, k := range uniq {
		pos[k] = i
	}
	out := make([]int, len(keys))
	for i, k := range keys {
		out[i] = pos[k]
	}
	return out
}

func dedupe(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i == 0 || s != sorted[i-1] {
			out = append(out, s)
		}
	}
	return out
}

func sameRanks(a, b []int) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// lowestTiedClass returns the smallest rank value shared by two or more
// atoms, or -1 when every rank is unique.
func lowestTiedClass(ranks []int, n int) int {
	counts := make(map[int]int, n)
	for _, r := range ranks {
		counts[r]++
	}
	best := -1
	for r, c := range counts {
		if c > 1 && (best < 0 || r < best) {
			best = r
		}
	}
	return best
}
