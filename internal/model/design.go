package model

import (
	"time"

	"github.com/google/uuid"
)

// SavedDesign is a named sail configuration the customer can reopen later.
// Calculations are never stored; they are recomputed on load.
type SavedDesign struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Description   string             `json:"description"`
	CreatedAt     string             `json:"created_at"`
	UpdatedAt     string             `json:"updated_at"`
	Configuration ShadeConfiguration `json:"configuration"`
}

// NewSavedDesign creates a design from a copy of cfg.
func NewSavedDesign(name, description string, cfg ShadeConfiguration) SavedDesign {
	now := time.Now().UTC().Format(time.RFC3339)
	return SavedDesign{
		ID:            uuid.New().String()[:8],
		Name:          name,
		Description:   description,
		CreatedAt:     now,
		UpdatedAt:     now,
		Configuration: cfg.Clone(),
	}
}

// ToConfiguration returns an independent copy of the stored configuration.
func (d SavedDesign) ToConfiguration() ShadeConfiguration {
	return d.Configuration.Clone()
}

// Update replaces the stored configuration and bumps UpdatedAt.
func (d *SavedDesign) Update(cfg ShadeConfiguration) {
	d.Configuration = cfg.Clone()
	d.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
}

// DesignStore holds a collection of saved designs.
type DesignStore struct {
	Designs []SavedDesign `json:"designs"`
}

// NewDesignStore creates an empty design store.
func NewDesignStore() DesignStore {
	return DesignStore{
		Designs: []SavedDesign{},
	}
}

// Add adds a design to the store.
func (ds *DesignStore) Add(d SavedDesign) {
	ds.Designs = append(ds.Designs, d)
}

// Remove removes a design by ID. Returns true if found and removed.
func (ds *DesignStore) Remove(id string) bool {
	for i, d := range ds.Designs {
		if d.ID == id {
			ds.Designs = append(ds.Designs[:i], ds.Designs[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns a pointer to the design with the given ID, or nil.
func (ds *DesignStore) FindByID(id string) *SavedDesign {
	for i := range ds.Designs {
		if ds.Designs[i].ID == id {
			return &ds.Designs[i]
		}
	}
	return nil
}

// FindByName returns a pointer to the first design with the given name, or nil.
func (ds *DesignStore) FindByName(name string) *SavedDesign {
	for i := range ds.Designs {
		if ds.Designs[i].Name == name {
			return &ds.Designs[i]
		}
	}
	return nil
}

// Names returns the design names in library order.
func (ds *DesignStore) Names() []string {
	names := make([]string, len(ds.Designs))
	for i, d := range ds.Designs {
		names[i] = d.Name
	}
	return names
}
