package chem

// aromaticCapable lists the elements that may take part in an aromatic ring
// under the organic-subset model.
var aromaticCapable = map[string]bool{
	"B": true, "C": true, "N": true, "O": true, "P": true, "S": true,
}

// maxAromaticRing bounds the ring sizes considered during perception;
// neutral aromatic rings are five- to seven-membered.
const maxAromaticRing = 7

// Aromatize rewrites Kekulé-notation aromatic rings into the aromatic form
// in place: ring atoms become lowercase-aromatic and ring bonds become
// aromatic bonds.  A ring qualifies when every atom is aromatic-capable and
// sp2 (a double bond in or conjugated into the ring, or a lone-pair
// heteroatom) and the pi-electron count satisfies the 4n+2 rule.  Hydrogen
// counts inferred under the Kekulé bond orders are preserved, so a pyrrole
// nitrogen keeps its hydrogen through the rewrite.
//
// The rewrite runs to a fixpoint so fused systems settle regardless of which
// ring is visited first.  Already-aromatic input is left untouched.
func (m *Molecule) Aromatize() {
	for changed := true; changed; {
		changed = false
		for _, cyc := range m.simpleRings(maxAromaticRing) {
			if m.aromatizeRing(cyc) {
				changed = true
			}
		}
	}
}

// aromatizeRing tests one simple ring against the perception rules and, when
// it qualifies, marks its atoms and bonds aromatic.  It reports whether
// anything was mutated.
func (m *Molecule) aromatizeRing(cyc []int) bool {
	inCyc := make(map[int]bool, len(cyc))
	for _, i := range cyc {
		inCyc[i] = true
	}

	pi := 0
	for _, i := range cyc {
		contrib, ok := m.piContribution(i, inCyc)
		if !ok {
			return false
		}
		pi += contrib
	}
	if pi%4 != 2 {
		return false
	}

	// Snapshot implicit hydrogen counts before mutating bond orders: the
	// Kekulé orders encode them, the aromatic form alone does not.
	hBefore := make(map[int]int, len(cyc))
	for _, i := range cyc {
		if m.Atoms[i].HExplicit < 0 {
			hBefore[i] = m.implicitHydrogens(i)
		}
	}

	changed := false
	for _, i := range cyc {
		if !m.Atoms[i].Aromatic {
			m.Atoms[i].Aromatic = true
			changed = true
		}
	}
	for k := range cyc {
		bi := m.bondBetween(cyc[k], cyc[(k+1)%len(cyc)])
		if m.Bonds[bi].Order != BondAromatic {
			m.Bonds[bi].Order = BondAromatic
			changed = true
		}
	}

	for i, h := range hBefore {
		if m.implicitHydrogens(i) != h {
			m.Atoms[i].HExplicit = h
		}
	}
	return changed
}

// piContribution returns the number of pi electrons atom i contributes to
// the ring given by inCyc, or ok=false when the atom cannot take part in an
// aromatic system (wrong element, a triple bond, or an sp3 carbon).
func (m *Molecule) piContribution(i int, inCyc map[int]bool) (int, bool) {
	a := m.Atoms[i]
	if !aromaticCapable[a.Element] {
		return 0, false
	}

	var doubleIn, doubleOutRing, doubleOutChain bool
	for _, bi := range m.adj[i] {
		j := m.Other(bi, i)
		switch m.Bonds[bi].Order {
		case BondTriple:
			return 0, false
		case BondAromatic:
			if inCyc[j] {
				doubleIn = true
			}
		case BondDouble:
			switch {
			case inCyc[j]:
				doubleIn = true
			case m.InRing(j):
				doubleOutRing = true
			default:
				doubleOutChain = true
			}
		}
	}

	switch {
	case doubleIn:
		return 1, true
	case doubleOutRing:
		// The pi bond sits in a fused neighbor ring (naphthalene fusion
		// atoms); the atom is sp2 and shares one electron with this ring.
		return 1, true
	case doubleOutChain:
		// Exocyclic pi bond to a chain atom (quinone carbonyls): sp2, but
		// the electrons point out of the ring.
		return 0, true
	}

	// All single bonds: only a heteroatom lone pair can supply electrons.
	switch a.Element {
	case "N", "O", "P", "S":
		return 2, true
	}
	return 0, false
}

// bondBetween returns the index of the bond joining atoms u and v.
func (m *Molecule) bondBetween(u, v int) int {
	for _, bi := range m.adj[u] {
		if m.Other(bi, u) == v {
			return bi
		}
	}
	return -1
}

// simpleRings enumerates every simple cycle of the molecule up to maxLen
// atoms, walking ring bonds only.  Each cycle is reported once, as the atom
// sequence starting from its lowest atom index.
func (m *Molecule) simpleRings(maxLen int) [][]int {
	m.ensureRings()
	var out [][]int
	n := len(m.Atoms)
	inPath := make([]bool, n)
	var path []int

	var dfs func(u, start int)
	dfs = func(u, start int) {
		path = append(path, u)
		inPath[u] = true
		for _, bi := range m.adj[u] {
			if !m.ringBonds[bi] {
				continue
			}
			v := m.Other(bi, u)
			if v == start && len(path) >= 3 {
				// Report each cycle in one direction only.
				if path[1] < path[len(path)-1] {
					cyc := make([]int, len(path))
					copy(cyc, path)
					out = append(out, cyc)
				}
				continue
			}
			// Restricting the walk to indices above start makes the start
			// atom the cycle minimum, deduplicating rotations.
			if v > start && !inPath[v] && len(path) < maxLen {
				dfs(v, start)
			}
		}
		inPath[u] = false
		path = path[:len(path)-1]
	}

	for s := 0; s < n; s++ {
		if m.InRing(s) {
			dfs(s, s)
		}
	}
	return out
}
