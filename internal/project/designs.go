package project

import (
	"path/filepath"

	"oss.terrastruct.com/xdefer"

	"github.com/piwi3910/SailQuote/internal/model"
)

// DefaultDesignsPath returns the default file path for saved designs.
// This is located at ~/.sailquote/designs.json.
func DefaultDesignsPath() string {
	return filepath.Join(DefaultConfigDir(), "designs.json")
}

// SaveDesigns writes the design store to a JSON file.
func SaveDesigns(path string, store model.DesignStore) (err error) {
	defer xdefer.Errorf(&err, "failed to save designs to %s", path)
	return writeJSON(path, store)
}

// LoadDesigns reads a design store from a JSON file.
// If the file does not exist, returns an empty store.
func LoadDesigns(path string) (_ model.DesignStore, err error) {
	defer xdefer.Errorf(&err, "failed to load designs from %s", path)

	var store model.DesignStore
	found, err := readJSON(path, &store)
	if err != nil {
		return model.DesignStore{}, err
	}
	if !found || store.Designs == nil {
		return model.NewDesignStore(), nil
	}
	return store, nil
}

// SaveDesign writes a single design for sharing.
func SaveDesign(path string, d model.SavedDesign) (err error) {
	defer xdefer.Errorf(&err, "failed to save design to %s", path)
	return writeJSON(path, d)
}

// LoadDesign reads a single design file. A bare ShadeConfiguration document
// is accepted too and wrapped in a design named after the file.
func LoadDesign(path string) (_ model.SavedDesign, err error) {
	defer xdefer.Errorf(&err, "failed to load design from %s", path)

	var d model.SavedDesign
	found, err := readJSON(path, &d)
	if err != nil {
		return model.SavedDesign{}, err
	}
	if !found {
		return model.SavedDesign{}, errNotFound
	}
	if d.Configuration.Corners != 0 {
		return d, nil
	}

	var cfg model.ShadeConfiguration
	if _, err := readJSON(path, &cfg); err != nil {
		return model.SavedDesign{}, err
	}
	name := filepath.Base(path)
	return model.NewSavedDesign(name[:len(name)-len(filepath.Ext(name))], "", cfg), nil
}
