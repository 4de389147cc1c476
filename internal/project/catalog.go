package project

import (
	"path/filepath"

	"oss.terrastruct.com/xdefer"

	"github.com/piwi3910/SailQuote/internal/model"
)

// DefaultCatalogPath returns the default file path for the fabric catalog.
// This is located at ~/.sailquote/catalog.json.
func DefaultCatalogPath() string {
	return filepath.Join(DefaultConfigDir(), "catalog.json")
}

// SaveCatalog writes the catalog to the specified JSON file.
// It creates parent directories if they do not exist.
func SaveCatalog(path string, cat model.Catalog) (err error) {
	defer xdefer.Errorf(&err, "failed to save catalog to %s", path)
	return writeJSON(path, cat)
}

// LoadCatalog reads the catalog from the specified JSON file.
// If the file does not exist, it returns the default catalog and saves it.
func LoadCatalog(path string) (_ model.Catalog, err error) {
	defer xdefer.Errorf(&err, "failed to load catalog from %s", path)

	var cat model.Catalog
	found, err := readJSON(path, &cat)
	if err != nil {
		return model.Catalog{}, err
	}
	if !found {
		cat = model.DefaultCatalog()
		return cat, writeJSON(path, cat)
	}
	return cat, nil
}

// ImportCatalog merges a catalog JSON file into existing. Fabrics whose IDs
// already exist only contribute colours that are not yet listed.
func ImportCatalog(path string, existing model.Catalog) (_ model.Catalog, err error) {
	defer xdefer.Errorf(&err, "failed to import catalog from %s", path)

	var imported model.Catalog
	found, err := readJSON(path, &imported)
	if err != nil {
		return existing, err
	}
	if !found {
		return existing, errNotFound
	}
	existing.Merge(imported)
	return existing, nil
}
