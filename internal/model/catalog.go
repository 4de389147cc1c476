package model

import (
	"strconv"
	"strings"
)

// FabricColor is one colourway of a fabric.
type FabricColor struct {
	Name        string  `json:"name"`
	Hex         string  `json:"hex"`
	TextColor   string  `json:"text_color"`
	ShadeFactor float64 `json:"shade_factor"`            // UV block percentage
	PricePerSqM float64 `json:"price_per_sqm,omitempty"` // Overrides the fabric price when > 0
}

// Fabric is a sail material offered by the configurator.
type Fabric struct {
	ID            string        `json:"id"`
	Label         string        `json:"label"`
	Description   string        `json:"description"`
	PricePerSqM   float64       `json:"price_per_sqm"` // Base currency per m²
	WarrantyYears int           `json:"warranty_years"`
	Colors        []FabricColor `json:"colors"`
}

// FindColor returns the colour with the given name (case-insensitive), or nil.
func (f *Fabric) FindColor(name string) *FabricColor {
	for i := range f.Colors {
		if strings.EqualFold(f.Colors[i].Name, name) {
			return &f.Colors[i]
		}
	}
	return nil
}

// ColorPrice returns the per-m² price of the fabric in the given colour.
func (f *Fabric) ColorPrice(c *FabricColor) float64 {
	if c != nil && c.PricePerSqM > 0 {
		return c.PricePerSqM
	}
	return f.PricePerSqM
}

// ColorNames returns the colour names for UI dropdowns.
func (f *Fabric) ColorNames() []string {
	names := make([]string, len(f.Colors))
	for i, c := range f.Colors {
		names[i] = c.Name
	}
	return names
}

// Catalog holds the fabrics available for ordering.
type Catalog struct {
	Fabrics []Fabric `json:"fabrics"`
}

// FindFabric returns a pointer to the fabric with the given ID, or nil.
func (c *Catalog) FindFabric(id string) *Fabric {
	for i := range c.Fabrics {
		if c.Fabrics[i].ID == id {
			return &c.Fabrics[i]
		}
	}
	return nil
}

// FabricIDs returns the fabric IDs in catalog order.
func (c *Catalog) FabricIDs() []string {
	ids := make([]string, len(c.Fabrics))
	for i, f := range c.Fabrics {
		ids[i] = f.ID
	}
	return ids
}

// Merge adds fabrics from other whose IDs are not yet present. Colours of a
// fabric already in the catalog are merged by name.
func (c *Catalog) Merge(other Catalog) {
	for _, f := range other.Fabrics {
		existing := c.FindFabric(f.ID)
		if existing == nil {
			c.Fabrics = append(c.Fabrics, f)
			continue
		}
		for _, col := range f.Colors {
			if existing.FindColor(col.Name) == nil {
				existing.Colors = append(existing.Colors, col)
			}
		}
	}
}

const (
	lightText = "#01312D"
	darkText  = "#FFFFFF"
)

// ContrastText picks the label colour that stays readable on a swatch of the
// given "#rrggbb" background. Unparseable input gets the dark-background text.
func ContrastText(hex string) string {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(h) != 6 {
		return darkText
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return darkText
	}
	r := float64(v >> 16 & 0xff)
	g := float64(v >> 8 & 0xff)
	b := float64(v & 0xff)
	if 0.299*r+0.587*g+0.114*b > 150 {
		return lightText
	}
	return darkText
}

// DefaultCatalog returns the built-in fabric range. Prices are in the base
// currency of DefaultRates.
func DefaultCatalog() Catalog {
	return Catalog{
		Fabrics: []Fabric{
			{
				ID:            "shade-cloth",
				Label:         "Shade Cloth",
				Description:   "Breathable knitted HDPE that lets hot air escape while blocking UV",
				PricePerSqM:   42.00,
				WarrantyYears: 10,
				Colors: []FabricColor{
					{Name: "Koonunga Green", Hex: "#22c55e", TextColor: darkText, ShadeFactor: 90},
					{Name: "Domino Black", Hex: "#0f172a", TextColor: darkText, ShadeFactor: 95},
					{Name: "Sheba Navy", Hex: "#1e3a8a", TextColor: darkText, ShadeFactor: 94},
					{Name: "Lime Fizz", Hex: "#caee41", TextColor: lightText, ShadeFactor: 88},
					{Name: "Candy Red", Hex: "#dc2626", TextColor: darkText, ShadeFactor: 90},
					{Name: "Marrocan Terracotta", Hex: "#e07a5f", TextColor: lightText, ShadeFactor: 89},
					{Name: "Bundena Blue", Hex: "#3b82f6", TextColor: darkText, ShadeFactor: 90},
					{Name: "Graphite Grey", Hex: "#374151", TextColor: darkText, ShadeFactor: 93},
					{Name: "Karloo Sand", Hex: "#e7d4b5", TextColor: lightText, ShadeFactor: 86},
					{Name: "Sherbet Orange", Hex: "#fb923c", TextColor: lightText, ShadeFactor: 87},
					{Name: "Bubblegum Pink", Hex: "#f472b6", TextColor: lightText, ShadeFactor: 86},
					{Name: "Mellow Haze Yellow", Hex: "#fde047", TextColor: lightText, ShadeFactor: 85},
					{Name: "Jazzberry Purple", Hex: "#a855f7", TextColor: darkText, ShadeFactor: 89},
				},
			},
			{
				ID:            "extreme-32",
				Label:         "Extreme 32",
				Description:   "Heavy-duty shade fabric for large spans and high wind areas",
				PricePerSqM:   58.00,
				WarrantyYears: 15,
				Colors: []FabricColor{
					{Name: "Abaroo Red", Hex: "#dc2626", TextColor: darkText, ShadeFactor: 92},
					{Name: "Chino Cream", Hex: "#fef3c7", TextColor: lightText, ShadeFactor: 88},
					{Name: "Graphite", Hex: "#1e293b", TextColor: darkText, ShadeFactor: 96},
					{Name: "Titanium", Hex: "#64748b", TextColor: darkText, ShadeFactor: 93},
				},
			},
			{
				ID:            "waterproof-pvc",
				Label:         "Waterproof PVC",
				Description:   "Coated polyester that keeps out rain as well as sun",
				PricePerSqM:   76.00,
				WarrantyYears: 10,
				Colors: []FabricColor{
					{Name: "White", Hex: "#f8fafc", TextColor: lightText, ShadeFactor: 97},
					{Name: "Cream", Hex: "#fef3c7", TextColor: lightText, ShadeFactor: 98},
					{Name: "Charcoal", Hex: "#374151", TextColor: darkText, ShadeFactor: 99, PricePerSqM: 79.00},
					{Name: "Black", Hex: "#0f172a", TextColor: darkText, ShadeFactor: 100, PricePerSqM: 79.00},
				},
			},
		},
	}
}
