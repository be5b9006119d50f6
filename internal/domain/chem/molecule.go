// Package chem implements the cheminformatics primitives that the
// availability engine depends on: a SMILES parser, a deterministic
// canonicalizer, and a substructure pattern matcher.
//
// The canonicalizer is deliberately small.  It normalizes atom ordering,
// branch ordering, ring-closure numbering, fragment ordering, and aromatic
// ring notation (Kekulé writings are rewritten to the aromatic form); stereo
// descriptors are discarded.  Within those limits it is deterministic and
// version-stable: two SMILES strings describing the same connectivity graph
// canonicalize to the same string.  Input-order independence relies on the
// refined symmetry classes coinciding with true automorphism orbits, which
// holds for ordinary molecules but can fail on highly regular cage graphs;
// there the output is still deterministic for any given input string.
package chem

// BondOrder encodes the bond type between two atoms.
type BondOrder int

const (
	BondSingle   BondOrder = 1
	BondDouble   BondOrder = 2
	BondTriple   BondOrder = 3
	BondAromatic BondOrder = 4
)

// organicValences lists the normal valences of the SMILES organic subset,
// used for implicit hydrogen inference.  Multi-valence elements list their
// valences in ascending order.
var organicValences = map[string][]int{
	"B": {3}, "C": {4}, "N": {3, 5}, "O": {2}, "P": {3, 5},
	"S": {2, 4, 6}, "F": {1}, "Cl": {1}, "Br": {1}, "I": {1},
}

// Atom is a node in the molecular graph.
type Atom struct {
	// Element is the capitalized element symbol ("C", "Cl", "Na", ...).
	Element string

	// Aromatic marks atoms written in lowercase SMILES form.
	Aromatic bool

	// Charge is the formal charge.
	Charge int

	// Isotope is the isotope number, 0 when unspecified.
	Isotope int

	// HExplicit is the hydrogen count given inside a bracket atom, or -1
	// when the atom was written without brackets and hydrogens are implicit.
	HExplicit int
}

// Bond is an undirected edge in the molecular graph.
type Bond struct {
	A, B  int
	Order BondOrder
}

// Molecule is a parsed, connected or multi-fragment molecular graph.
// Fields are populated by ParseSMILES and must not be mutated afterwards.
type Molecule struct {
	Atoms []Atom
	Bonds []Bond

	// adj[i] lists the bond indices incident to atom i.
	adj [][]int

	// inRing[i] reports whether atom i lies on a cycle.  Computed lazily
	// together with ringBonds.
	inRing []bool

	// ringBonds[bi] reports whether bond bi lies on a cycle.
	ringBonds []bool
}

// NumAtoms returns the number of atoms in the molecule.
func (m *Molecule) NumAtoms() int { return len(m.Atoms) }

// Neighbors returns the bond indices incident to atom i.
func (m *Molecule) Neighbors(i int) []int { return m.adj[i] }

// Other returns the atom index at the far end of bond b from atom i.
func (m *Molecule) Other(b, i int) int {
	bond := m.Bonds[b]
	if bond.A == i {
		return bond.B
	}
	return bond.A
}

// Degree returns the number of explicit connections of atom i.
func (m *Molecule) Degree(i int) int { return len(m.adj[i]) }

// buildAdjacency populates the adjacency lists from the bond slice.
func (m *Molecule) buildAdjacency() {
	m.adj = make([][]int, len(m.Atoms))
	for bi, b := range m.Bonds {
		m.adj[b.A] = append(m.adj[b.A], bi)
		m.adj[b.B] = append(m.adj[b.B], bi)
	}
}

// TotalHydrogens returns the hydrogen count of atom i: the explicit bracket
// count when given, otherwise the implicit count inferred from the organic
// subset valence model.  Atoms outside the organic subset default to zero
// implicit hydrogens, matching SMILES semantics for bracket atoms.
func (m *Molecule) TotalHydrogens(i int) int {
	a := m.Atoms[i]
	if a.HExplicit >= 0 {
		return a.HExplicit
	}
	return m.implicitHydrogens(i)
}

// implicitHydrogens computes the implied hydrogen count for an organic-subset
// atom written without brackets.  Aromatic atoms consume one extra valence
// unit for the delocalized ring bond.
func (m *Molecule) implicitHydrogens(i int) int {
	a := m.Atoms[i]
	valences, ok := organicValences[a.Element]
	if !ok {
		return 0
	}
	used := 0
	for _, bi := range m.adj[i] {
		switch m.Bonds[bi].Order {
		case BondDouble:
			used += 2
		case BondTriple:
			used += 3
		default:
			used++
		}
	}
	if a.Aromatic {
		// Aromatic atoms consume one extra valence unit for the delocalized
		// ring system and never promote to a higher valence state: the bare
		// aromatic forms of s, o, and fusion carbons carry no hydrogens.
		used++
		if v := valences[0]; used < v {
			return v - used
		}
		return 0
	}
	for _, v := range valences {
		if used <= v {
			return v - used
		}
	}
	return 0
}

// InRing reports whether atom i lies on a cycle.  Ring membership is derived
// from bridge detection: an atom is in a ring iff it is incident to at least
// one non-bridge bond.
func (m *Molecule) InRing(i int) bool {
	m.ensureRings()
	return m.inRing[i]
}

// BondInRing reports whether bond bi lies on a cycle.
func (m *Molecule) BondInRing(bi int) bool {
	m.ensureRings()
	return m.ringBonds[bi]
}

func (m *Molecule) ensureRings() {
	if m.inRing == nil {
		m.computeRings()
	}
}

// computeRings runs an iterative bridge-finding DFS and marks every atom that
// touches a non-bridge bond.
func (m *Molecule) computeRings() {
	n := len(m.Atoms)
	m.inRing = make([]bool, n)
	disc := make([]int, n)
	low := make([]int, n)
	for i := range disc {
		disc[i] = -1
	}
	isBridge := make([]bool, len(m.Bonds))

	timer := 0
	var dfs func(u, parentBond int)
	dfs = func(u, parentBond int) {
		disc[u] = timer
		low[u] = timer
		timer++
		for _, bi := range m.adj[u] {
			if bi == parentBond {
				continue
			}
			v := m.Other(bi, u)
			if disc[v] == -1 {
				dfs(v, bi)
				if low[v] < low[u] {
					low[u] = low[v]
				}
				if low[v] > disc[u] {
					isBridge[bi] = true
				}
			} else if disc[v] < low[u] {
				low[u] = disc[v]
			}
		}
	}
	for i := 0; i < n; i++ {
		if disc[i] == -1 {
			dfs(i, -1)
		}
	}

	m.ringBonds = make([]bool, len(m.Bonds))
	for bi, b := range m.Bonds {
		// A bond lies on a cycle iff it is not a bridge.
		if !isBridge[bi] {
			m.ringBonds[bi] = true
			m.inRing[b.A] = true
			m.inRing[b.B] = true
		}
	}
}

// components partitions atom indices into connected components, each sorted
// ascending.  Order of components follows the lowest atom index.
func (m *Molecule) components() [][]int {
	n := len(m.Atoms)
	seen := make([]bool, n)
	var comps [][]int
	for i := 0; i < n; i++ {
		if seen[i] {
			continue
		}
		var comp []int
		stack := []int{i}
		seen[i] = true
		for len(stack) > 0 {
			u := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			comp = append(comp, u)
			for _, bi := range m.adj[u] {
				v := m.Other(bi, u)
				if !seen[v] {
					seen[v] = true
					stack = append(stack, v)
				}
			}
		}
		comps = append(comps, comp)
	}
	return comps
}
