package availability_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rxn4chemistry/rxn-availability/internal/domain/availability"
	"github.com/rxn4chemistry/rxn-availability/internal/domain/chem"
	"github.com/rxn4chemistry/rxn-availability/pkg/errors"
)

func testStandardizer() availability.Standardizer {
	return availability.DefaultStandardizer(chem.NewCanonicalizer())
}

func buildTestIndex(t *testing.T, compounds ...string) *availability.CompoundIndex {
	t.Helper()
	b := availability.NewIndexBuilder(chem.NewCanonicalizer(), nil)
	b.AddCompounds(compounds)
	return b.Build()
}

func TestSMILESSource_MatchesIndexedCompound(t *testing.T) {
	src := availability.NewSMILESSource(buildTestIndex(t, "CCO", "CCN"), testStandardizer())

	assert.True(t, availability.IsAvailable(context.Background(), src, "CCO"))
	assert.True(t, availability.IsAvailable(context.Background(), src, "OCC"))
	assert.False(t, availability.IsAvailable(context.Background(), src, "CCCO"))
}

func TestSMILESSource_UnparsableQueryIsNotAvailable(t *testing.T) {
	src := availability.NewSMILESSource(buildTestIndex(t, "CCO"), testStandardizer())

	assert.False(t, availability.IsAvailable(context.Background(), src, "not-a-smiles"))
	assert.False(t, availability.IsAvailable(context.Background(), src, ""))
}

func TestSMILESSource_DetailsOption(t *testing.T) {
	src := availability.NewSMILESSource(buildTestIndex(t, "CCO"), testStandardizer(),
		availability.WithDetails("bundled list"),
		availability.WithInfo("origin", "test"))

	m, ok, err := availability.FirstMatch(context.Background(), src, "CCO")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "bundled list", m.Details)
	assert.Equal(t, "test", m.Info["origin"])
}

func TestRegexSource_MatchesCompoundFamilies(t *testing.T) {
	src, err := availability.NewRegexSource(availability.DefaultRegexes(), nil)
	require.NoError(t, err)

	ctx := context.Background()
	assert.True(t, availability.IsAvailable(ctx, src, "[Na+]"))
	assert.True(t, availability.IsAvailable(ctx, src, "[OH-]"))
	assert.True(t, availability.IsAvailable(ctx, src, "[Xe]"))
	assert.True(t, availability.IsAvailable(ctx, src, "HCl"))
	assert.False(t, availability.IsAvailable(ctx, src, "CCOC(=O)C"))
}

func TestRegexSource_InvalidExpression(t *testing.T) {
	_, err := availability.NewRegexSource([]string{"["}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidPattern))
}

func TestSubstructureSource_Matches(t *testing.T) {
	src, err := availability.NewSubstructureSource([]string{"[O;D2]C"}, nil)
	require.NoError(t, err)

	ctx := context.Background()
	assert.True(t, availability.IsAvailable(ctx, src, "COC"))
	assert.False(t, availability.IsAvailable(ctx, src, "CC"))
}

func TestSubstructureSource_UnparsableQueryIsNotAvailable(t *testing.T) {
	src, err := availability.NewSubstructureSource([]string{"[O;D2]C"}, nil)
	require.NoError(t, err)

	assert.False(t, availability.IsAvailable(context.Background(), src, "C("))
}

func TestSubstructureSource_DefaultPatternsCompile(t *testing.T) {
	_, err := availability.NewSubstructureSource(availability.DefaultSubstructurePatterns(), nil)
	require.NoError(t, err)
}

func TestCollectMatches(t *testing.T) {
	src, err := availability.NewRegexSource([]string{"^C", "O$"}, nil)
	require.NoError(t, err)

	matches, err := availability.CollectMatches(context.Background(), src, "CCO")
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestFirstMatch_StopsEarly(t *testing.T) {
	src, err := availability.NewRegexSource([]string{"^C", "O$"}, nil)
	require.NoError(t, err)

	m, ok, err := availability.FirstMatch(context.Background(), src, "CCO")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "^C", m.Info["pattern"])
}
