package availability_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rxn4chemistry/rxn-availability/internal/domain/availability"
	"github.com/rxn4chemistry/rxn-availability/pkg/errors"
)

const ibuprofen = "CC(C)Cc1ccc(cc1)C(C)C(=O)O"

func newChecker(t *testing.T, opts ...availability.CheckerOption) *availability.Checker {
	t.Helper()
	c, err := availability.NewChecker(opts...)
	require.NoError(t, err)
	return c
}

func TestChecker_DefaultCompounds(t *testing.T) {
	c := newChecker(t)
	ctx := context.Background()

	assert.True(t, c.IsAvailable(ctx, "CCO"))
	// Canonical equivalence: the same molecule written differently.
	assert.True(t, c.IsAvailable(ctx, "OCC"))
	assert.True(t, c.IsAvailable(ctx, "C(C)O"))
	// 9-BBN is bundled.
	assert.True(t, c.IsAvailable(ctx, "B1C2CCCC1CCC2"))
	// Biochemical byproducts are merged into the defaults.
	assert.True(t, c.IsAvailable(ctx, "CC(=O)[O-]"))

	assert.False(t, c.IsAvailable(ctx, ibuprofen))
}

func TestChecker_KekuleNotationFindsAromaticEntries(t *testing.T) {
	c := newChecker(t)
	ctx := context.Background()

	// The bundled list writes benzene and toluene in aromatic form; the
	// Kekulé writings are the same compounds and must be found too.
	assert.True(t, c.IsAvailable(ctx, "c1ccccc1"))
	assert.True(t, c.IsAvailable(ctx, "C1=CC=CC=C1"))
	assert.True(t, c.IsAvailable(ctx, "CC1=CC=CC=C1"))
	// Benzaldehyde, with the exocyclic carbonyl left as a double bond.
	assert.True(t, c.IsAvailable(ctx, "O=CC1=CC=CC=C1"))
	// Cyclohexadiene is not benzene.
	assert.False(t, c.IsAvailable(ctx, "C1=CC=CCC1"))
}

func TestChecker_DefaultRegexesAndPatterns(t *testing.T) {
	c := newChecker(t)
	ctx := context.Background()

	// Single ions and elements match the always-available regexes.
	assert.True(t, c.IsAvailable(ctx, "[Na+]"))
	assert.True(t, c.IsAvailable(ctx, "[Xe]"))
	// Iron-sulfur clusters match the cofactor patterns.
	assert.True(t, c.IsAvailable(ctx, "CS1[Fe]S[Fe]1C"))
}

func TestChecker_UnparsableQueryIsFalse(t *testing.T) {
	c := newChecker(t)
	ctx := context.Background()

	assert.False(t, c.IsAvailable(ctx, "not-a-smiles"))
	assert.False(t, c.IsAvailable(ctx, ""))
	assert.False(t, c.IsAvailable(ctx, "C1CC"))
}

func TestChecker_AdditionalCompoundsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extra.txt")
	require.NoError(t, os.WriteFile(path, []byte("# extra compounds\n"+ibuprofen+"\n"), 0o600))

	plain := newChecker(t)
	augmented := newChecker(t, availability.WithAdditionalCompoundsFile(path))
	ctx := context.Background()

	assert.False(t, plain.IsAvailable(ctx, ibuprofen))
	assert.True(t, augmented.IsAvailable(ctx, ibuprofen))
	// A different writing of the same molecule is also found.
	assert.True(t, augmented.IsAvailable(ctx, "OC(=O)C(C)c1ccc(CC(C)C)cc1"))
}

func TestChecker_AdditionalCompoundsFileMissing(t *testing.T) {
	_, err := availability.NewChecker(
		availability.WithAdditionalCompoundsFile(filepath.Join(t.TempDir(), "missing.txt")))

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSourceLoad))
}

func TestChecker_UserCompounds(t *testing.T) {
	c := newChecker(t, availability.WithAlwaysAvailable(ibuprofen))
	ctx := context.Background()

	assert.True(t, c.IsAvailable(ctx, ibuprofen))
	assert.True(t, c.IsAvailable(ctx, "OC(=O)C(C)c1ccc(CC(C)C)cc1"))
}

func TestChecker_ExclusionsTakePrecedence(t *testing.T) {
	c := newChecker(t, availability.WithExcluded("CCO"))
	ctx := context.Background()

	assert.False(t, c.IsAvailable(ctx, "CCO"))
	assert.False(t, c.IsAvailable(ctx, "OCC"))
	assert.True(t, c.IsAvailable(ctx, "CO"))
}

func TestChecker_AvoidSubstructure(t *testing.T) {
	c := newChecker(t, availability.WithAvoidSubstructure("[Br]"))
	ctx := context.Background()

	// CBr is bundled but carries the avoided substructure.
	assert.False(t, c.IsAvailable(ctx, "CBr"))
	assert.True(t, c.IsAvailable(ctx, "CCO"))
}

func TestChecker_TildeFragmentBonds(t *testing.T) {
	c := newChecker(t, availability.WithAlwaysAvailable("CCO.O"))
	ctx := context.Background()

	assert.True(t, c.IsAvailable(ctx, "CCO.O"))
	assert.True(t, c.IsAvailable(ctx, "CCO~O"))
	assert.True(t, c.IsAvailable(ctx, "O~OCC"))
}

func TestChecker_ModelCompoundsAndMaterialsExclusive(t *testing.T) {
	ctx := context.Background()

	complementing := newChecker(t, availability.WithModelAvailable(ibuprofen))
	assert.True(t, complementing.IsAvailable(ctx, ibuprofen))

	exclusive := newChecker(t,
		availability.WithModelAvailable(ibuprofen),
		availability.WithMaterialsExclusive(true))
	assert.False(t, exclusive.IsAvailable(ctx, ibuprofen))
	// Defaults and user compounds stay active.
	assert.True(t, exclusive.IsAvailable(ctx, "CCO"))
}

func TestChecker_DatabaseSource(t *testing.T) {
	catalog := &fakeCatalog{
		name:   "testdb",
		offers: map[string][]availability.Offer{},
	}
	c := newChecker(t, availability.WithDatabase(catalog))
	ctx := context.Background()

	canonical, err := testStandardizer()(ibuprofen)
	require.NoError(t, err)
	catalog.offers[canonical] = priced(10)

	assert.True(t, c.IsAvailable(ctx, ibuprofen))
	assert.False(t, c.IsAvailable(ctx, "CCCCCCCCCCO"))
}

func TestChecker_ReservedCatalogNamesRejected(t *testing.T) {
	for _, name := range []string{"user", "model", "default_compounds"} {
		catalog := &fakeCatalog{name: name, offers: map[string][]availability.Offer{}}
		_, err := availability.NewChecker(availability.WithDatabase(catalog))

		require.Error(t, err, "catalog name %q", name)
		assert.True(t, errors.IsCode(err, errors.ErrCodeDatabaseConfig))
	}

	a := &fakeCatalog{name: "inhouse", offers: map[string][]availability.Offer{}}
	b := &fakeCatalog{name: "inhouse", offers: map[string][]availability.Offer{}}
	_, err := availability.NewChecker(
		availability.WithDatabase(a), availability.WithDatabase(b))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDatabaseConfig))
}

func TestChecker_MaterialsExclusiveDisablesDatabases(t *testing.T) {
	catalog := &fakeCatalog{
		name:   "testdb",
		offers: map[string][]availability.Offer{},
	}
	c := newChecker(t,
		availability.WithDatabase(catalog),
		availability.WithMaterialsExclusive(true))

	canonical, err := testStandardizer()(ibuprofen)
	require.NoError(t, err)
	catalog.offers[canonical] = priced(10)

	assert.False(t, c.IsAvailable(context.Background(), ibuprofen))
	assert.Equal(t, 0, catalog.queries)
}

func TestChecker_SetPricingThresholdPropagates(t *testing.T) {
	catalog := &fakeCatalog{
		name:   "testdb",
		offers: map[string][]availability.Offer{},
	}
	c := newChecker(t,
		availability.WithDatabase(catalog),
		availability.WithPricingThreshold(50))
	ctx := context.Background()

	canonical, err := testStandardizer()(ibuprofen)
	require.NoError(t, err)
	catalog.offers[canonical] = priced(75)

	assert.False(t, c.IsAvailable(ctx, ibuprofen))

	c.SetPricingThreshold(100)
	assert.Equal(t, 100.0, c.PricingThreshold())
	assert.True(t, c.IsAvailable(ctx, ibuprofen))
}

func TestChecker_Category(t *testing.T) {
	emolecules := &fakeCatalog{name: "emolecules", offers: map[string][]availability.Offer{}}
	other := &fakeCatalog{name: "inhouse", offers: map[string][]availability.Offer{}}

	c := newChecker(t,
		availability.WithModelAvailable("CCCCCCCCCN"),
		availability.WithDatabase(emolecules),
		availability.WithDatabase(other))
	ctx := context.Background()

	std := testStandardizer()
	emoleculesHit, err := std("CCCCCCCCCCO")
	require.NoError(t, err)
	emolecules.offers[emoleculesHit] = priced(10)
	inhouseHit, err := std("CCCCCCCCCCCO")
	require.NoError(t, err)
	other.offers[inhouseHit] = priced(10)

	assert.Equal(t, availability.CategoryCommon, c.Category(ctx, "CCO"))
	assert.Equal(t, availability.CategoryModel, c.Category(ctx, "CCCCCCCCCN"))
	assert.Equal(t, availability.CategoryEmolecules, c.Category(ctx, "CCCCCCCCCCO"))
	assert.Equal(t, availability.CategoryDatabase, c.Category(ctx, "CCCCCCCCCCCO"))
	assert.Equal(t, availability.CategoryUnavailable, c.Category(ctx, ibuprofen))

	meta := c.CategoryMetadata(ctx, "CCO")
	assert.Equal(t, "#002d9c", meta.Color)
}

func TestChecker_IsExpandable(t *testing.T) {
	catalog := &fakeCatalog{name: "testdb", offers: map[string][]availability.Offer{}}
	c := newChecker(t, availability.WithDatabase(catalog))
	ctx := context.Background()

	std := testStandardizer()
	canonical, err := std("CCCCCCCCCCO")
	require.NoError(t, err)
	catalog.offers[canonical] = priced(10)

	// Bundled compounds are terminal.
	assert.False(t, c.IsExpandable(ctx, "CCO"))
	// Database-only availability does not stop the expansion.
	assert.True(t, c.IsExpandable(ctx, "CCCCCCCCCCO"))
	assert.True(t, c.IsExpandable(ctx, ibuprofen))
}

func TestChecker_Func(t *testing.T) {
	fn := newChecker(t).Func()
	assert.True(t, fn(context.Background(), "CCO"))
	assert.False(t, fn(context.Background(), ibuprofen))
}

func TestChecker_FirstMatchDetails(t *testing.T) {
	c := newChecker(t)

	m, ok := c.FirstMatch(context.Background(), "CCO")
	require.True(t, ok)
	assert.Equal(t, "default_compounds", m.Info[availability.SourceTagKey])
}
