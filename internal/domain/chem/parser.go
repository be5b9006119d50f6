package chem

import (
	"fmt"
	"strings"

	"github.com/rxn4chemistry/rxn-availability/pkg/errors"
)

// twoLetterOrganic lists the organic-subset symbols that span two characters.
var twoLetterOrganic = []string{"Cl", "Br"}

// aromaticOrganic lists the lowercase aromatic symbols of the organic subset.
const aromaticOrganic = "bcnops"

// isUpper reports whether c is an ASCII uppercase letter.
func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }

// isLower reports whether c is an ASCII lowercase letter.
func isLower(c byte) bool { return c >= 'a' && c <= 'z' }

// isDigit reports whether c is an ASCII digit.
func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// openRing tracks a pending ring-closure digit: the atom that opened it and
// the bond order written before the digit (0 when unspecified).
type openRing struct {
	atom  int
	order BondOrder
}

// parser holds the state of a single ParseSMILES call.
type parser struct {
	s   string
	pos int
	mol *Molecule

	// prev is the atom index that the next atom bonds to, or -1 at the start
	// of a fragment.
	prev int

	// pending is the bond order written since the previous atom, 0 when none.
	pending BondOrder

	// stack holds saved prev values for open branches.
	stack []int

	// rings maps ring-closure numbers to their opening atom.
	rings map[int]openRing
}

// ParseSMILES parses a SMILES string into a molecular graph.  Dots produce
// multi-fragment molecules.  Stereo markers (@, @@, /, \) are accepted and
// discarded.  An error with code ErrCodeInvalidSMILES is returned for any
// string that is not well-formed under the supported subset.
func ParseSMILES(s string) (*Molecule, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New(errors.ErrCodeInvalidSMILES, "empty SMILES string")
	}

	p := &parser{
		s:     s,
		mol:   &Molecule{},
		prev:  -1,
		rings: map[int]openRing{},
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
	if p.pending != 0 {
		return nil, p.errorf("dangling bond symbol")
	}
	if len(p.mol.Atoms) == 0 {
		return nil, p.errorf("no atoms")
	}

	p.mol.buildAdjacency()
	return p.mol, nil
}

// errorf builds an invalid-SMILES error annotated with the input and the
// current parse position.
func (p *parser) errorf(format string, args ...interface{}) error {
	return errors.Newf(errors.ErrCodeInvalidSMILES, format, args...).
		WithDetail(fmt.Sprintf("smiles=%q pos=%d", p.s, p.pos))
}

func (p *parser) run() error {
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
			if p.pending != 0 {
				return p.errorf("bond symbol before closing parenthesis")
			}
			p.prev = p.stack[len(p.stack)-1]
			p.stack = p.stack[:len(p.stack)-1]
			p.pos++
		case c == '.':
			if p.pending != 0 || p.prev < 0 {
				return p.errorf("misplaced dot separator")
			}
			if len(p.stack) != 0 {
				return p.errorf("dot inside branch")
			}
			p.prev = -1
			p.pos++
		case c == '-' || c == '/' || c == '\\':
			if err := p.setPending(BondSingle); err != nil {
				return err
			}
			p.pos++
		case c == '=':
			if err := p.setPending(BondDouble); err != nil {
				return err
			}
			p.pos++
		case c == '#':
			if err := p.setPending(BondTriple); err != nil {
				return err
			}
			p.pos++
		case c == ':':
			if err := p.setPending(BondAromatic); err != nil {
				return err
			}
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
			atom, err := p.bracketAtom()
			if err != nil {
				return err
			}
			p.addAtom(atom)
		case isUpper(c) || strings.IndexByte(aromaticOrganic, c) >= 0:
			atom, err := p.organicAtom()
			if err != nil {
				return err
			}
			p.addAtom(atom)
		default:
			return p.errorf("unexpected character %q", string(c))
		}
	}
	return nil
}

// setPending records a bond symbol ahead of the next atom or ring closure.
func (p *parser) setPending(order BondOrder) error {
	if p.prev < 0 {
		return p.errorf("bond symbol before any atom")
	}
	if p.pending != 0 {
		return p.errorf("consecutive bond symbols")
	}
	p.pending = order
	return nil
}

// takePending consumes the recorded bond symbol, defaulting to a single bond
// or, when both endpoints are aromatic, to an aromatic bond.
func (p *parser) takePending(a, b int) BondOrder {
	order := p.pending
	p.pending = 0
	if order == 0 {
		if p.mol.Atoms[a].Aromatic && p.mol.Atoms[b].Aromatic {
			return BondAromatic
		}
		return BondSingle
	}
	return order
}

// addAtom appends the atom to the graph and bonds it to the previous atom.
func (p *parser) addAtom(a Atom) {
	idx := len(p.mol.Atoms)
	p.mol.Atoms = append(p.mol.Atoms, a)
	if p.prev >= 0 {
		order := p.takePending(p.prev, idx)
		p.mol.Bonds = append(p.mol.Bonds, Bond{A: p.prev, B: idx, Order: order})
	}
	p.prev = idx
}

// ringBond opens or closes a numbered ring closure at the current atom.
func (p *parser) ringBond(n int) error {
	if p.prev < 0 {
		return p.errorf("ring closure before any atom")
	}
	order := p.pending
	p.pending = 0

	open, ok := p.rings[n]
	if !ok {
		p.rings[n] = openRing{atom: p.prev, order: order}
		return nil
	}
	delete(p.rings, n)

	if open.atom == p.prev {
		return p.errorf("ring closure %d bonds an atom to itself", n)
	}
	// Either side may carry the bond symbol; they must agree when both do.
	if open.order != 0 && order != 0 && open.order != order {
		return p.errorf("conflicting bond orders on ring closure %d", n)
	}
	if order == 0 {
		order = open.order
	}
	if order == 0 {
		if p.mol.Atoms[open.atom].Aromatic && p.mol.Atoms[p.prev].Aromatic {
			order = BondAromatic
		} else {
			order = BondSingle
		}
	}
	p.mol.Bonds = append(p.mol.Bonds, Bond{A: open.atom, B: p.prev, Order: order})
	return nil
}

// organicAtom parses a bare organic-subset atom at the current position.
func (p *parser) organicAtom() (Atom, error) {
	c := p.s[p.pos]
	if isLower(c) {
		p.pos++
		return Atom{Element: strings.ToUpper(string(c)), Aromatic: true, HExplicit: -1}, nil
	}
	for _, sym := range twoLetterOrganic {
		if strings.HasPrefix(p.s[p.pos:], sym) {
			p.pos += 2
			return Atom{Element: sym, HExplicit: -1}, nil
		}
	}
	sym := string(c)
	if _, ok := organicValences[sym]; !ok {
		return Atom{}, p.errorf("element %q must be written in brackets", sym)
	}
	p.pos++
	return Atom{Element: sym, HExplicit: -1}, nil
}

// bracketAtom parses a [isotope?symbol(chirality)?(Hcount)?(charge)?] atom.
// The opening bracket is at the current position.
func (p *parser) bracketAtom() (Atom, error) {
	end := strings.IndexByte(p.s[p.pos:], ']')
	if end < 0 {
		return Atom{}, p.errorf("unclosed bracket atom")
	}
	body := p.s[p.pos+1 : p.pos+end]
	start := p.pos
	p.pos += end + 1

	if body == "" {
		p.pos = start
		return Atom{}, p.errorf("empty bracket atom")
	}

	atom := Atom{HExplicit: 0}
	i := 0

	// Isotope prefix.
	for i < len(body) && isDigit(body[i]) {
		atom.Isotope = atom.Isotope*10 + int(body[i]-'0')
		i++
	}

	// Element symbol: uppercase + optional lowercase, or a lone aromatic
	// lowercase symbol.  The hydrogen-count "H" is uppercase, so taking any
	// trailing lowercase letter as part of the symbol is unambiguous.
	switch {
	case i < len(body) && isUpper(body[i]):
		atom.Element = string(body[i])
		i++
		if i < len(body) && isLower(body[i]) {
			atom.Element += string(body[i])
			i++
		}
	case i < len(body) && isLower(body[i]) && strings.IndexByte(aromaticOrganic, body[i]) >= 0:
		atom.Element = strings.ToUpper(string(body[i]))
		atom.Aromatic = true
		i++
	default:
		p.pos = start
		return Atom{}, p.errorf("missing element symbol in bracket atom")
	}

	// Chirality markers are parsed and discarded.
	for i < len(body) && body[i] == '@' {
		i++
	}

	// Explicit hydrogen count.
	if i < len(body) && body[i] == 'H' {
		i++
		atom.HExplicit = 1
		if i < len(body) && isDigit(body[i]) {
			atom.HExplicit = int(body[i] - '0')
			i++
		}
	}

	// Formal charge: one or more +/- signs, or a sign with a digit.
	if i < len(body) && (body[i] == '+' || body[i] == '-') {
		sign := 1
		if body[i] == '-' {
			sign = -1
		}
		count := 0
		for i < len(body) && (body[i] == '+' || body[i] == '-') {
			if (body[i] == '+') != (sign > 0) {
				p.pos = start
				return Atom{}, p.errorf("mixed charge signs in bracket atom")
			}
			count++
			i++
		}
		if i < len(body) && isDigit(body[i]) {
			if count != 1 {
				p.pos = start
				return Atom{}, p.errorf("malformed charge in bracket atom")
			}
			count = int(body[i] - '0')
			i++
		}
		atom.Charge = sign * count
	}

	// Atom-map class (":n") is accepted and discarded.
	if i < len(body) && body[i] == ':' {
		i++
		if i >= len(body) || !isDigit(body[i]) {
			p.pos = start
			return Atom{}, p.errorf("malformed atom map")
		}
		for i < len(body) && isDigit(body[i]) {
			i++
		}
	}

	if i != len(body) {
		p.pos = start
		return Atom{}, p.errorf("trailing characters in bracket atom %q", body)
	}
	return atom, nil
}
