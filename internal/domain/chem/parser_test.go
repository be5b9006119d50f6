package chem_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rxn4chemistry/rxn-availability/internal/domain/chem"
	"github.com/rxn4chemistry/rxn-availability/pkg/errors"
)

func TestParseSMILES_Ethanol(t *testing.T) {
	m, err := chem.ParseSMILES("CCO")
	require.NoError(t, err)

	assert.Equal(t, 3, m.NumAtoms())
	assert.Equal(t, "C", m.Atoms[0].Element)
	assert.Equal(t, "C", m.Atoms[1].Element)
	assert.Equal(t, "O", m.Atoms[2].Element)

	assert.Equal(t, 1, m.Degree(0))
	assert.Equal(t, 2, m.Degree(1))
	assert.Equal(t, 1, m.Degree(2))

	// CH3, CH2, OH
	assert.Equal(t, 3, m.TotalHydrogens(0))
	assert.Equal(t, 2, m.TotalHydrogens(1))
	assert.Equal(t, 1, m.TotalHydrogens(2))
}

func TestParseSMILES_Branch(t *testing.T) {
	m, err := chem.ParseSMILES("CC(C)O")
	require.NoError(t, err)

	require.Equal(t, 4, m.NumAtoms())
	assert.Equal(t, 3, m.Degree(1))
	assert.Equal(t, 1, m.TotalHydrogens(1))
}

func TestParseSMILES_Ring(t *testing.T) {
	m, err := chem.ParseSMILES("C1CCCCC1")
	require.NoError(t, err)

	require.Equal(t, 6, m.NumAtoms())
	for i := 0; i < 6; i++ {
		assert.Equal(t, 2, m.Degree(i))
		assert.True(t, m.InRing(i))
	}
}

func TestParseSMILES_ChainNotInRing(t *testing.T) {
	m, err := chem.ParseSMILES("CCCCCC")
	require.NoError(t, err)

	for i := 0; i < m.NumAtoms(); i++ {
		assert.False(t, m.InRing(i))
	}
}

func TestParseSMILES_Aromatic(t *testing.T) {
	m, err := chem.ParseSMILES("c1ccccc1")
	require.NoError(t, err)

	require.Equal(t, 6, m.NumAtoms())
	for i := 0; i < 6; i++ {
		assert.True(t, m.Atoms[i].Aromatic)
		assert.True(t, m.InRing(i))
		assert.Equal(t, 1, m.TotalHydrogens(i))
	}
}

func TestParseSMILES_BracketAtoms(t *testing.T) {
	m, err := chem.ParseSMILES("[Na+].[Cl-]")
	require.NoError(t, err)

	require.Equal(t, 2, m.NumAtoms())
	assert.Equal(t, "Na", m.Atoms[0].Element)
	assert.Equal(t, 1, m.Atoms[0].Charge)
	assert.Equal(t, "Cl", m.Atoms[1].Element)
	assert.Equal(t, -1, m.Atoms[1].Charge)
	assert.Equal(t, 0, m.Degree(0))
}

func TestParseSMILES_Isotope(t *testing.T) {
	m, err := chem.ParseSMILES("[13CH4]")
	require.NoError(t, err)

	require.Equal(t, 1, m.NumAtoms())
	assert.Equal(t, 13, m.Atoms[0].Isotope)
	assert.Equal(t, 4, m.TotalHydrogens(0))
}

func TestParseSMILES_BondOrders(t *testing.T) {
	m, err := chem.ParseSMILES("C=C")
	require.NoError(t, err)
	require.Len(t, m.Bonds, 1)
	assert.Equal(t, chem.BondDouble, m.Bonds[0].Order)
	assert.Equal(t, 2, m.TotalHydrogens(0))

	m, err = chem.ParseSMILES("C#N")
	require.NoError(t, err)
	require.Len(t, m.Bonds, 1)
	assert.Equal(t, chem.BondTriple, m.Bonds[0].Order)
}

func TestParseSMILES_TwoLetterOrganicSubset(t *testing.T) {
	m, err := chem.ParseSMILES("ClCCl")
	require.NoError(t, err)

	require.Equal(t, 3, m.NumAtoms())
	assert.Equal(t, "Cl", m.Atoms[0].Element)
	assert.Equal(t, "C", m.Atoms[1].Element)
	assert.Equal(t, "Cl", m.Atoms[2].Element)
}

func TestParseSMILES_PercentRingClosure(t *testing.T) {
	m, err := chem.ParseSMILES("C%10CCCCC%10")
	require.NoError(t, err)
	assert.Equal(t, 6, m.NumAtoms())
	assert.True(t, m.InRing(0))
}

func TestParseSMILES_Invalid(t *testing.T) {
	cases := []string{
		"",
		"C(",
		"C)",
		"C1CC",
		"C=",
		"C[]",
		"[C+-]",
		"C=1CC#1",
		"not-a-smiles",
	}
	for _, s := range cases {
		_, err := chem.ParseSMILES(s)
		require.Error(t, err, "smiles %q", s)
		assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidSMILES), "smiles %q", s)
	}
}
