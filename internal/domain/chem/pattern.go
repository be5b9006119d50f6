package chem

import (
	"fmt"
	"strings"

	"github.com/rxn4chemistry/rxn-availability/pkg/errors"
)

// Pattern is a compiled substructure query over molecular graphs.  The
// supported syntax is the subset of SMARTS needed for availability rules:
//
//   - structure: branches, ring closures, dots are rejected
//   - bonds: "-" single, "=" double, "#" triple, ":" aromatic, "~" any;
//     an unwritten bond matches single or aromatic
//   - atoms: "*" any, "a"/"A" aromatic/aliphatic, bare aliphatic elements
//     (C, Cl, ...), aromatic lowercase (c, n, ...), and bracket expressions
//     combining primitives with "," (or), ";" and "&" (and), "!" (not)
//   - bracket primitives: element symbols, "*", "a" aromatic, "A" aliphatic,
//     "Dn" degree, "Hn" total hydrogen count, "R"/"R0" ring membership,
//     and formal charges ("+", "-", "+2", ...)
type Pattern struct {
	source string
	atoms  []atomExpr
	bonds  []patternBond

	// order is a DFS ordering of pattern atoms; every atom after the first
	// has at least one earlier neighbor, which the matcher anchors on.
	order []int
	adj   [][]int
}

// patternBond is an edge of the pattern graph.
type patternBond struct {
	a, b int
	expr bondExpr
}

// String returns the source text the pattern was compiled from.
func (p *Pattern) String() string { return p.source }

// ─────────────────────────────────────────────────────────────────────────────
// Bond expressions
// ─────────────────────────────────────────────────────────────────────────────

type bondExpr int

const (
	bondDefault bondExpr = iota // single or aromatic
	bondSingle
	bondDouble
	bondTriple
	bondAromaticExpr
	bondAny
)

func (e bondExpr) matches(order BondOrder) bool {
	switch e {
	case bondSingle:
		return order == BondSingle
	case bondDouble:
		return order == BondDouble
	case bondTriple:
		return order == BondTriple
	case bondAromaticExpr:
		return order == BondAromatic
	case bondAny:
		return true
	default:
		return order == BondSingle || order == BondAromatic
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Atom expressions
// ─────────────────────────────────────────────────────────────────────────────

// atomExpr is a predicate over a molecule atom.
type atomExpr interface {
	matches(m *Molecule, i int) bool
}

// anyAtom matches every atom ("*").
type anyAtom struct{}

func (anyAtom) matches(*Molecule, int) bool { return true }

// elemAtom constrains element and, unless relaxed, the aromatic flag.
type elemAtom struct {
	element  string
	aromatic bool
}

func (e elemAtom) matches(m *Molecule, i int) bool {
	a := m.Atoms[i]
	return a.Element == e.element && a.Aromatic == e.aromatic
}

// aromAtom matches by aromatic flag alone ("a" / "A").
type aromAtom struct{ aromatic bool }

func (e aromAtom) matches(m *Molecule, i int) bool {
	return m.Atoms[i].Aromatic == e.aromatic
}

// degreeAtom matches the explicit connection count ("Dn").
type degreeAtom struct{ n int }

func (e degreeAtom) matches(m *Molecule, i int) bool { return m.Degree(i) == e.n }

// hCountAtom matches the total hydrogen count ("Hn").
type hCountAtom struct{ n int }

func (e hCountAtom) matches(m *Molecule, i int) bool { return m.TotalHydrogens(i) == e.n }

// ringAtom matches ring membership ("R", "R0").
type ringAtom struct{ inRing bool }

func (e ringAtom) matches(m *Molecule, i int) bool { return m.InRing(i) == e.inRing }

// chargeAtom matches the formal charge.
type chargeAtom struct{ charge int }

func (e chargeAtom) matches(m *Molecule, i int) bool { return m.Atoms[i].Charge == e.charge }

// notAtom negates its operand ("!").
type notAtom struct{ inner atomExpr }

func (e notAtom) matches(m *Molecule, i int) bool { return !e.inner.matches(m, i) }

// andAtom requires all operands (";", "&", juxtaposition).
type andAtom struct{ terms []atomExpr }

func (e andAtom) matches(m *Molecule, i int) bool {
	for _, t := range e.terms {
		if !t.matches(m, i) {
			return false
		}
	}
	return true
}

// orAtom requires at least one operand (",").
type orAtom struct{ terms []atomExpr }

func (e orAtom) matches(m *Molecule, i int) bool {
	for _, t := range e.terms {
		if t.matches(m, i) {
			return true
		}
	}
	return false
}

// ─────────────────────────────────────────────────────────────────────────────
// Compilation
// ─────────────────────────────────────────────────────────────────────────────

// patternParser mirrors the SMILES parser structure for pattern syntax.
type patternParser struct {
	s    string
	pos  int
	pat  *Pattern
	prev int
	// pending is the bond expression written since the previous atom;
	// -1 when none.
	pending int
	stack   []int
	rings   map[int]patternRing
}

type patternRing struct {
	atom int
	expr int // -1 when unspecified
}

// CompilePattern compiles a substructure pattern string.  An error with code
// ErrCodeInvalidPattern is returned for unsupported or malformed syntax.
func CompilePattern(s string) (*Pattern, error) {
	src := strings.TrimSpace(s)
	if src == "" {
		return nil, errors.New(errors.ErrCodeInvalidPattern, "empty pattern")
	}

	p := &patternParser{
		s:       src,
		pat:     &Pattern{source: src},
		prev:    -1,
		pending: -1,
		rings:   map[int]patternRing{},
	}
	if err := p.run(); err != nil {
		return nil, err
	}
	if len(p.stack) != 0 {
		return nil, p.errorf("unclosed branch")
	}
	if len(p.rings) != 0 {
		return nil, p.errorf("unclosed ring bond")
	}
	if p.pending != -1 {
		return nil, p.errorf("dangling bond symbol")
	}
	if len(p.pat.atoms) == 0 {
		return nil, p.errorf("no atoms")
	}

	if err := p.pat.finalize(); err != nil {
		return nil, err
	}
	return p.pat, nil
}

// MustCompilePattern is like CompilePattern but panics on error.  Reserved
// for built-in pattern tables whose validity is covered by tests.
func MustCompilePattern(s string) *Pattern {
	p, err := CompilePattern(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *patternParser) errorf(format string, args ...interface{}) error {
	return errors.Newf(errors.ErrCodeInvalidPattern, format, args...).
		WithDetail(fmt.Sprintf("pattern=%q pos=%d", p.s, p.pos))
}

func (p *patternParser) run() error {
	for p.pos < len(p.s) {
		c := p.s[p.pos]
		switch {
		case c == '(':
			if p.prev < 0 {
				return p.errorf("branch before any atom")
			}
			p.stack = append(p.stack, p.prev)
			p.pos++
		case c == ')':
			if len(p.stack) == 0 {
				return p.errorf("unmatched closing parenthesis")
			}
			p.prev = p.stack[len(p.stack)-1]
			p.stack = p.stack[:len(p.stack)-1]
			p.pos++
		case c == '.':
			return p.errorf("disconnected patterns are not supported")
		case c == '-' || c == '/' || c == '\\':
			p.setPending(bondSingle)
			p.pos++
		case c == '=':
			p.setPending(bondDouble)
			p.pos++
		case c == '#':
			p.setPending(bondTriple)
			p.pos++
		case c == ':':
			p.setPending(bondAromaticExpr)
			p.pos++
		case c == '~':
			p.setPending(bondAny)
			p.pos++
		case isDigit(c):
			if err := p.ringBond(int(c - '0')); err != nil {
				return err
			}
			p.pos++
		case c == '%':
			if p.pos+2 >= len(p.s) || !isDigit(p.s[p.pos+1]) || !isDigit(p.s[p.pos+2]) {
				return p.errorf("malformed two-digit ring closure")
			}
			n := int(p.s[p.pos+1]-'0')*10 + int(p.s[p.pos+2]-'0')
			if err := p.ringBond(n); err != nil {
				return err
			}
			p.pos += 3
		case c == '[':
			expr, err := p.bracketExpr()
			if err != nil {
				return err
			}
			p.addAtom(expr)
		case c == '*':
			p.addAtom(anyAtom{})
			p.pos++
		case c == 'a':
			p.addAtom(aromAtom{aromatic: true})
			p.pos++
		case c == 'A':
			p.addAtom(aromAtom{aromatic: false})
			p.pos++
		case isUpper(c):
			matched := false
			for _, sym := range twoLetterOrganic {
				if strings.HasPrefix(p.s[p.pos:], sym) {
					p.addAtom(elemAtom{element: sym})
					p.pos += 2
					matched = true
					break
				}
			}
			if !matched {
				p.addAtom(elemAtom{element: string(c)})
				p.pos++
			}
		case isLower(c) && strings.IndexByte(aromaticOrganic, c) >= 0:
			p.addAtom(elemAtom{element: strings.ToUpper(string(c)), aromatic: true})
			p.pos++
		default:
			return p.errorf("unexpected character %q", string(c))
		}
	}
	return nil
}

func (p *patternParser) setPending(e bondExpr) {
	p.pending = int(e)
}

func (p *patternParser) takePending() bondExpr {
	if p.pending < 0 {
		return bondDefault
	}
	e := bondExpr(p.pending)
	p.pending = -1
	return e
}

func (p *patternParser) addAtom(expr atomExpr) {
	idx := len(p.pat.atoms)
	p.pat.atoms = append(p.pat.atoms, expr)
	if p.prev >= 0 {
		p.pat.bonds = append(p.pat.bonds, patternBond{a: p.prev, b: idx, expr: p.takePending()})
	} else {
		p.pending = -1
	}
	p.prev = idx
}

func (p *patternParser) ringBond(n int) error {
	if p.prev < 0 {
		return p.errorf("ring closure before any atom")
	}
	expr := p.pending
	p.pending = -1

	open, ok := p.rings[n]
	if !ok {
		p.rings[n] = patternRing{atom: p.prev, expr: expr}
		return nil
	}
	delete(p.rings, n)

	if open.atom == p.prev {
		return p.errorf("ring closure %d bonds an atom to itself", n)
	}
	final := bondDefault
	switch {
	case open.expr >= 0 && expr >= 0 && open.expr != expr:
		return p.errorf("conflicting bond expressions on ring closure %d", n)
	case expr >= 0:
		final = bondExpr(expr)
	case open.expr >= 0:
		final = bondExpr(open.expr)
	}
	p.pat.bonds = append(p.pat.bonds, patternBond{a: open.atom, b: p.prev, expr: final})
	return nil
}

// bracketExpr parses one bracketed atom expression.  Precedence from loosest
// to tightest: ";" (and), "," (or), "&" / juxtaposition (and), "!" (not).
func (p *patternParser) bracketExpr() (atomExpr, error) {
	end := strings.IndexByte(p.s[p.pos:], ']')
	if end < 0 {
		return nil, p.errorf("unclosed bracket expression")
	}
	body := p.s[p.pos+1 : p.pos+end]
	p.pos += end + 1

	if body == "" {
		return nil, p.errorf("empty bracket expression")
	}

	semiParts := strings.Split(body, ";")
	andTerms := make([]atomExpr, 0, len(semiParts))
	for _, part := range semiParts {
		orParts := strings.Split(part, ",")
		orTerms := make([]atomExpr, 0, len(orParts))
		for _, factor := range orParts {
			expr, err := p.parseFactor(factor)
			if err != nil {
				return nil, err
			}
			orTerms = append(orTerms, expr)
		}
		if len(orTerms) == 1 {
			andTerms = append(andTerms, orTerms[0])
		} else {
			andTerms = append(andTerms, orAtom{terms: orTerms})
		}
	}
	if len(andTerms) == 1 {
		return andTerms[0], nil
	}
	return andAtom{terms: andTerms}, nil
}

// parseFactor parses a "&"-joined sequence of optionally negated primitives.
func (p *patternParser) parseFactor(s string) (atomExpr, error) {
	var terms []atomExpr
	i := 0
	for i < len(s) {
		if s[i] == '&' {
			i++
			continue
		}
		negate := false
		for i < len(s) && s[i] == '!' {
			negate = !negate
			i++
		}
		prim, next, err := p.parsePrimitive(s, i)
		if err != nil {
			return nil, err
		}
		i = next
		if negate {
			prim = notAtom{inner: prim}
		}
		terms = append(terms, prim)
	}
	if len(terms) == 0 {
		return nil, p.errorf("empty atom expression factor")
	}
	if len(terms) == 1 {
		return terms[0], nil
	}
	return andAtom{terms: terms}, nil
}

// parsePrimitive parses one primitive of an atom expression starting at i and
// returns the expression along with the index just past it.
func (p *patternParser) parsePrimitive(s string, i int) (atomExpr, int, error) {
	c := s[i]
	switch {
	case c == '*':
		return anyAtom{}, i + 1, nil
	case c == 'a':
		return aromAtom{aromatic: true}, i + 1, nil
	case c == 'A':
		return aromAtom{aromatic: false}, i + 1, nil
	case c == 'D':
		n, next := parseCount(s, i+1, 1)
		return degreeAtom{n: n}, next, nil
	case c == 'H':
		n, next := parseCount(s, i+1, 1)
		return hCountAtom{n: n}, next, nil
	case c == 'R':
		n, next := parseCount(s, i+1, 1)
		return ringAtom{inRing: n > 0}, next, nil
	case c == '+' || c == '-':
		sign := 1
		if c == '-' {
			sign = -1
		}
		count := 1
		next := i + 1
		if next < len(s) && isDigit(s[next]) {
			count, next = parseCount(s, next, 1)
		} else {
			for next < len(s) && s[next] == c {
				count++
				next++
			}
		}
		return chargeAtom{charge: sign * count}, next, nil
	case isUpper(c):
		sym := string(c)
		next := i + 1
		if next < len(s) && isLower(s[next]) {
			sym += string(s[next])
			next++
		}
		return elemAtom{element: sym}, next, nil
	case isLower(c) && strings.IndexByte(aromaticOrganic, c) >= 0:
		return elemAtom{element: strings.ToUpper(string(c)), aromatic: true}, i + 1, nil
	default:
		return nil, 0, p.errorf("unsupported atom primitive %q", string(c))
	}
}

// parseCount reads an optional integer at position i, returning def when no
// digits are present.
func parseCount(s string, i, def int) (int, int) {
	if i >= len(s) || !isDigit(s[i]) {
		return def, i
	}
	n := 0
	for i < len(s) && isDigit(s[i]) {
		n = n*10 + int(s[i]-'0')
		i++
	}
	return n, i
}

// finalize builds the adjacency lists and the DFS matching order.
func (p *Pattern) finalize() error {
	n := len(p.atoms)
	p.adj = make([][]int, n)
	for bi, b := range p.bonds {
		p.adj[b.a] = append(p.adj[b.a], bi)
		p.adj[b.b] = append(p.adj[b.b], bi)
	}

	seen := make([]bool, n)
	stack := []int{0}
	seen[0] = true
	for len(stack) > 0 {
		u := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		p.order = append(p.order, u)
		for _, bi := range p.adj[u] {
			b := p.bonds[bi]
			v := b.a
			if v == u {
				v = b.b
			}
			if !seen[v] {
				seen[v] = true
				stack = append(stack, v)
			}
		}
	}
	if len(p.order) != n {
		return errors.New(errors.ErrCodeInvalidPattern, "pattern graph is disconnected").
			WithDetail("pattern=" + p.source)
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Matching
// ─────────────────────────────────────────────────────────────────────────────

// Matches reports whether the pattern occurs as a subgraph of the molecule.
// Matching is injective on atoms and respects bond expressions.
func (p *Pattern) Matches(m *Molecule) bool {
	if len(p.atoms) > m.NumAtoms() {
		return false
	}
	assigned := make([]int, len(p.atoms))
	for i := range assigned {
		assigned[i] = -1
	}
	used := make([]bool, m.NumAtoms())
	return p.extend(m, 0, assigned, used)
}

// extend tries to map the k-th pattern atom in DFS order onto the molecule.
func (p *Pattern) extend(m *Molecule, k int, assigned []int, used []bool) bool {
	if k == len(p.order) {
		return true
	}
	pa := p.order[k]

	// Candidate molecule atoms: all atoms for the root, otherwise the
	// neighbors of some already-mapped pattern neighbor.
	var candidates []int
	if k == 0 {
		candidates = make([]int, m.NumAtoms())
		for i := range candidates {
			candidates[i] = i
		}
	} else {
		anchor := -1
		for _, bi := range p.adj[pa] {
			b := p.bonds[bi]
			o := b.a
			if o == pa {
				o = b.b
			}
			if assigned[o] >= 0 {
				anchor = o
				break
			}
		}
		for _, mbi := range m.Neighbors(assigned[anchor]) {
			candidates = append(candidates, m.Other(mbi, assigned[anchor]))
		}
	}

	for _, c := range candidates {
		if used[c] || !p.atoms[pa].matches(m, c) {
			continue
		}
		if !p.bondsConsistent(m, pa, c, assigned) {
			continue
		}
		assigned[pa] = c
		used[c] = true
		if p.extend(m, k+1, assigned, used) {
			return true
		}
		assigned[pa] = -1
		used[c] = false
	}
	return false
}

// bondsConsistent verifies that every pattern bond from pa to an
// already-mapped atom has a matching molecule bond from candidate c.
func (p *Pattern) bondsConsistent(m *Molecule, pa, c int, assigned []int) bool {
	for _, bi := range p.adj[pa] {
		b := p.bonds[bi]
		o := b.a
		if o == pa {
			o = b.b
		}
		if assigned[o] < 0 {
			continue
		}
		found := false
		for _, mbi := range m.Neighbors(c) {
			if m.Other(mbi, c) == assigned[o] && b.expr.matches(m.Bonds[mbi].Order) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
