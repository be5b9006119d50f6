package chem_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rxn4chemistry/rxn-availability/internal/domain/chem"
)

func mustParse(t *testing.T, smiles string) *chem.Molecule {
	t.Helper()
	m, err := chem.ParseSMILES(smiles)
	require.NoError(t, err, "smiles %q", smiles)
	return m
}

func TestPattern_ElementAndBondOrder(t *testing.T) {
	carbonyl := chem.MustCompilePattern("C=O")

	assert.True(t, carbonyl.Matches(mustParse(t, "CC(C)=O")))
	assert.True(t, carbonyl.Matches(mustParse(t, "C=O")))
	assert.False(t, carbonyl.Matches(mustParse(t, "CCO")))
	assert.False(t, carbonyl.Matches(mustParse(t, "COC")))
}

func TestPattern_DegreePrimitive(t *testing.T) {
	etherOxygen := chem.MustCompilePattern("[O;D2]")

	assert.True(t, etherOxygen.Matches(mustParse(t, "COC")))
	assert.False(t, etherOxygen.Matches(mustParse(t, "CC(C)=O")))
	// Hydroxyl oxygen has degree 1.
	assert.False(t, etherOxygen.Matches(mustParse(t, "CCO")))
}

func TestPattern_HydrogenCountPrimitive(t *testing.T) {
	hydroxyl := chem.MustCompilePattern("[O;H1]")

	assert.True(t, hydroxyl.Matches(mustParse(t, "CCO")))
	assert.False(t, hydroxyl.Matches(mustParse(t, "COC")))
	assert.False(t, hydroxyl.Matches(mustParse(t, "O")))
}

func TestPattern_Disjunction(t *testing.T) {
	halogen := chem.MustCompilePattern("[F,Cl,Br,I]")

	assert.True(t, halogen.Matches(mustParse(t, "CCCl")))
	assert.True(t, halogen.Matches(mustParse(t, "c1ccccc1Br")))
	assert.False(t, halogen.Matches(mustParse(t, "CCO")))
}

func TestPattern_Negation(t *testing.T) {
	heteroatom := chem.MustCompilePattern("[!C]")

	assert.True(t, heteroatom.Matches(mustParse(t, "CCO")))
	assert.False(t, heteroatom.Matches(mustParse(t, "CCCC")))
}

func TestPattern_RingMembership(t *testing.T) {
	ringAtom := chem.MustCompilePattern("[R]")

	assert.True(t, ringAtom.Matches(mustParse(t, "C1CCCCC1")))
	assert.True(t, ringAtom.Matches(mustParse(t, "c1ccccc1")))
	assert.False(t, ringAtom.Matches(mustParse(t, "CCCCCC")))

	acyclic := chem.MustCompilePattern("[C;R0]")
	assert.True(t, acyclic.Matches(mustParse(t, "CC1CCCC1")))
	assert.False(t, acyclic.Matches(mustParse(t, "C1CCCC1")))
}

func TestPattern_AromaticityPrimitives(t *testing.T) {
	aromatic := chem.MustCompilePattern("a")
	aliphatic := chem.MustCompilePattern("A")

	assert.True(t, aromatic.Matches(mustParse(t, "c1ccccc1")))
	assert.False(t, aromatic.Matches(mustParse(t, "C1CCCCC1")))
	assert.True(t, aliphatic.Matches(mustParse(t, "C1CCCCC1")))
	assert.False(t, aliphatic.Matches(mustParse(t, "c1ccccc1")))
}

func TestPattern_ChargePrimitive(t *testing.T) {
	cation := chem.MustCompilePattern("[+]")

	assert.True(t, cation.Matches(mustParse(t, "C[N+](C)(C)C")))
	assert.False(t, cation.Matches(mustParse(t, "CN(C)C")))
}

func TestPattern_AnyBond(t *testing.T) {
	p := chem.MustCompilePattern("C~O")

	assert.True(t, p.Matches(mustParse(t, "CCO")))
	assert.True(t, p.Matches(mustParse(t, "C=O")))
	assert.False(t, p.Matches(mustParse(t, "CCN")))
}

func TestPattern_RingClosureAndBranches(t *testing.T) {
	ironSulfur := chem.MustCompilePattern("S1[Fe]S[Fe]1")

	assert.True(t, ironSulfur.Matches(mustParse(t, "S1[Fe]S[Fe]1")))
	assert.True(t, ironSulfur.Matches(mustParse(t, "CS1[Fe]S[Fe]1C")))
	assert.False(t, ironSulfur.Matches(mustParse(t, "CS[Fe]SC")))
}

func TestPattern_SubstructureInLargerMolecule(t *testing.T) {
	ester := chem.MustCompilePattern("C(=O)O")

	// Ibuprofen carries a carboxylic acid.
	assert.True(t, ester.Matches(mustParse(t, "CC(C)Cc1ccc(cc1)C(C)C(=O)O")))
	assert.False(t, ester.Matches(mustParse(t, "CC(C)Cc1ccccc1")))
}

func TestPattern_InvalidInputs(t *testing.T) {
	for _, expr := range []string{"", "C(", "[", "C.O", "C1CC"} {
		_, err := chem.CompilePattern(expr)
		assert.Error(t, err, "pattern %q", expr)
	}
}

func TestPattern_String(t *testing.T) {
	p := chem.MustCompilePattern("[O;D2]")
	assert.Equal(t, "[O;D2]", p.String())
}
