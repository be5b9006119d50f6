package availability

// Category classifies how a compound came to be available.
type Category string

const (
	// CategoryCommon covers compounds available by default: the bundled
	// list, the always-available regexes and substructures, and
	// user-supplied compounds.
	CategoryCommon Category = "common"

	// CategoryModel covers compounds available through a model-specific
	// compound list.
	CategoryModel Category = "model"

	// CategoryEmolecules covers compounds commercially available on
	// eMolecules.com.
	CategoryEmolecules Category = "emolecules"

	// CategoryDatabase covers compounds commercially available from any
	// other catalog database.
	CategoryDatabase Category = "database"

	// CategoryUnavailable marks compounds for which no source matched.
	CategoryUnavailable Category = "unavailable"

	// CategoryFromFile covers compounds loaded from a user-provided file.
	CategoryFromFile Category = "from_file"
)

// Metadata describes a category for display purposes.
type Metadata struct {
	Color string
	Label string
}

var categoryMetadata = map[Category]Metadata{
	CategoryCommon:      {Color: "#002d9c", Label: "Common molecule available by default"},
	CategoryModel:       {Color: "#0f62fe", Label: "Molecule available using a model-specific database"},
	CategoryEmolecules:  {Color: "#28a30d", Label: "Molecule commercially available on eMolecules.com"},
	CategoryDatabase:    {Color: "#3ddbd9", Label: "Molecule commercially available from a database"},
	CategoryUnavailable: {Color: "#ce4e04", Label: "Not able to find a synthetic path"},
	CategoryFromFile:    {Color: "#f1c21b", Label: "Molecule from file"},
}

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{
		CategoryCommon,
		CategoryModel,
		CategoryEmolecules,
		CategoryDatabase,
		CategoryUnavailable,
		CategoryFromFile,
	}
}

// MetadataFor returns the display metadata for a category.  Unknown
// categories fall back to the unavailable metadata.
func MetadataFor(c Category) Metadata {
	if m, ok := categoryMetadata[c]; ok {
		return m
	}
	return categoryMetadata[CategoryUnavailable]
}
