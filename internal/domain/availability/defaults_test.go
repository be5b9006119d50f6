package availability_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rxn4chemistry/rxn-availability/internal/domain/availability"
	"github.com/rxn4chemistry/rxn-availability/internal/domain/chem"
)

func TestDefaultCompounds_BundledResource(t *testing.T) {
	compounds, err := availability.DefaultCompounds()
	require.NoError(t, err)

	assert.NotEmpty(t, compounds)
	assert.Contains(t, compounds, "CCO")
	for _, c := range compounds {
		assert.NotEmpty(t, c)
		assert.NotContains(t, c, "#")
	}
}

func TestDefaultRegexes_Compile(t *testing.T) {
	_, err := availability.NewRegexSource(availability.DefaultRegexes(), nil)
	assert.NoError(t, err)
}

func TestDefaultSubstructurePatterns_Compile(t *testing.T) {
	for _, expr := range availability.DefaultSubstructurePatterns() {
		_, err := chem.CompilePattern(expr)
		assert.NoError(t, err, "pattern %q", expr)
	}
}

func TestBiochemicalByproducts_Parse(t *testing.T) {
	canon := chem.NewCanonicalizer()
	for _, s := range availability.BiochemicalByproducts() {
		_, err := canon.Canonicalize(s)
		assert.NoError(t, err, "smiles %q", s)
	}
}

func TestCategories_MetadataComplete(t *testing.T) {
	for _, c := range availability.Categories() {
		meta := availability.MetadataFor(c)
		assert.NotEmpty(t, meta.Color, "category %q", c)
		assert.NotEmpty(t, meta.Label, "category %q", c)
	}

	fallback := availability.MetadataFor(availability.Category("bogus"))
	assert.Equal(t, availability.MetadataFor(availability.CategoryUnavailable), fallback)
}
