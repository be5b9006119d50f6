package chem

import (
	"fmt"
	"sort"
	"strings"
)

// writeCanonical renders the molecule as a canonical SMILES string given a
// unique per-atom rank assignment.  Each connected component is written
// separately, starting from its lowest-ranked atom and visiting neighbors in
// rank order; the component strings are then sorted and joined with dots.
func writeCanonical(m *Molecule, ranks []int) string {
	comps := m.components()
	parts := make([]string, 0, len(comps))
	for _, comp := range comps {
		parts = append(parts, writeComponent(m, ranks, comp))
	}
	sort.Strings(parts)
	return strings.Join(parts, ".")
}

// componentWriter holds traversal state for a single connected component.
type componentWriter struct {
	m     *Molecule
	ranks []int

	usedBond []bool
	visited  []bool
	isTree   []bool

	// closures maps atom index to its ring-closure entries in assignment order.
	closures map[int][]closureRef
	nextNum  int
}

// closureRef is one end of a ring-closure digit at a specific atom.
type closureRef struct {
	num   int
	order BondOrder
	other int
}

func writeComponent(m *Molecule, ranks []int, comp []int) string {
	start := comp[0]
	for _, i := range comp {
		if ranks[i] < ranks[start] {
			start = i
		}
	}

	w := &componentWriter{
		m:        m,
		ranks:    ranks,
		usedBond: make([]bool, len(m.Bonds)),
		visited:  make([]bool, m.NumAtoms()),
		isTree:   make([]bool, len(m.Bonds)),
		closures: map[int][]closureRef{},
		nextNum:  1,
	}
	w.collect(start)

	var sb strings.Builder
	w.emit(&sb, start, -1)
	return sb.String()
}

// orderedNeighbors returns atom u's incident bonds sorted by the canonical
// rank of the far atom.
func (w *componentWriter) orderedNeighbors(u int) []int {
	bonds := append([]int(nil), w.m.Neighbors(u)...)
	sort.Slice(bonds, func(a, b int) bool {
		return w.ranks[w.m.Other(bonds[a], u)] < w.ranks[w.m.Other(bonds[b], u)]
	})
	return bonds
}

// collect performs the first DFS pass: it marks tree bonds as used and
// assigns ring-closure numbers to back edges, recording them at both
// endpoints in discovery order.
func (w *componentWriter) collect(u int) {
	w.visited[u] = true
	for _, bi := range w.orderedNeighbors(u) {
		if w.usedBond[bi] {
			continue
		}
		v := w.m.Other(bi, u)
		if w.visited[v] {
			w.usedBond[bi] = true
			num := w.nextNum
			w.nextNum++
			order := w.m.Bonds[bi].Order
			w.closures[v] = append(w.closures[v], closureRef{num: num, order: order, other: u})
			w.closures[u] = append(w.closures[u], closureRef{num: num, order: order, other: v})
			continue
		}
		w.usedBond[bi] = true
		w.isTree[bi] = true
		w.collect(v)
	}
}

// emit performs the second DFS pass, writing atoms, ring-closure digits, and
// branches along the spanning tree chosen by collect.
func (w *componentWriter) emit(sb *strings.Builder, u, fromBond int) {
	sb.WriteString(w.atomString(u))

	for _, ref := range w.closures[u] {
		sb.WriteString(w.bondString(ref.order, u, ref.other))
		if ref.num > 9 {
			fmt.Fprintf(sb, "%%%02d", ref.num)
		} else {
			fmt.Fprintf(sb, "%d", ref.num)
		}
	}

	var children []int
	for _, bi := range w.orderedNeighbors(u) {
		if w.isTree[bi] && bi != fromBond {
			children = append(children, bi)
		}
	}

	for ci, bi := range children {
		v := w.m.Other(bi, u)
		bond := w.bondString(w.m.Bonds[bi].Order, u, v)
		if ci < len(children)-1 {
			sb.WriteString("(")
			sb.WriteString(bond)
			w.emit(sb, v, bi)
			sb.WriteString(")")
		} else {
			sb.WriteString(bond)
			w.emit(sb, v, bi)
		}
	}
}

// bondString renders the bond symbol between atoms a and b.  Single bonds
// are implicit except between two aromatic atoms, where an explicit "-"
// prevents re-parsing as an aromatic bond.
func (w *componentWriter) bondString(order BondOrder, a, b int) string {
	switch order {
	case BondDouble:
		return "="
	case BondTriple:
		return "#"
	case BondAromatic:
		if w.m.Atoms[a].Aromatic && w.m.Atoms[b].Aromatic {
			return ""
		}
		return ":"
	default:
		if w.m.Atoms[a].Aromatic && w.m.Atoms[b].Aromatic {
			return "-"
		}
		return ""
	}
}

// atomString renders a single atom, bracketed only when required: non-zero
// charge or isotope, an element outside the organic subset, or a hydrogen
// count that differs from what implicit inference would reproduce.
func (w *componentWriter) atomString(i int) string {
	a := w.m.Atoms[i]
	sym := a.Element
	if a.Aromatic {
		sym = strings.ToLower(sym)
	}

	_, organic := organicValences[a.Element]
	hImplied := w.m.implicitHydrogens(i)
	h := w.m.TotalHydrogens(i)

	if organic && a.Charge == 0 && a.Isotope == 0 && h == hImplied {
		return sym
	}

	var sb strings.Builder
	sb.WriteString("[")
	if a.Isotope != 0 {
		fmt.Fprintf(&sb, "%d", a.Isotope)
	}
	sb.WriteString(sym)
	if h == 1 {
		sb.WriteString("H")
	} else if h > 1 {
		fmt.Fprintf(&sb, "H%d", h)
	}
	switch {
	case a.Charge == 1:
		sb.WriteString("+")
	case a.Charge == -1:
		sb.WriteString("-")
	case a.Charge > 1:
		fmt.Fprintf(&sb, "+%d", a.Charge)
	case a.Charge < -1:
		fmt.Fprintf(&sb, "-%d", -a.Charge)
	}
	sb.WriteString("]")
	return sb.String()
}
