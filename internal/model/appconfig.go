package model

// AppConfig holds application-wide preferences and server settings.
type AppConfig struct {
	// Defaults applied to new sail configurations
	DefaultUnit              Unit              `json:"default_unit"`
	DefaultMeasurementOption MeasurementOption `json:"default_measurement_option"`
	DefaultEdgeType          EdgeType          `json:"default_edge_type"`
	DefaultCurrency          string            `json:"default_currency"`

	// Server settings
	ListenAddr  string `json:"listen_addr"`
	DBPath      string `json:"db_path"`      // SQLite order store, "" = in-memory
	CatalogPath string `json:"catalog_path"` // Catalog CSV/XLSX merged over the defaults, "" = none
	LogLevel    string `json:"log_level"`    // "debug", "info", "warn", "error"

	// Application preferences
	RecentDesigns []string `json:"recent_designs"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		DefaultUnit:              UnitMetric,
		DefaultMeasurementOption: MeasureAdjustToFit,
		DefaultEdgeType:          EdgeWebbing,
		DefaultCurrency:          FallbackCurrency,
		ListenAddr:               ":8080",
		DBPath:                   "sailquote.db",
		LogLevel:                 "info",
		RecentDesigns:            []string{},
	}
}

// ApplyToConfiguration copies the default values into a fresh configuration.
// Fields the user has already chosen are left untouched.
func (c AppConfig) ApplyToConfiguration(s *ShadeConfiguration) {
	if s.Unit == "" {
		s.Unit = c.DefaultUnit
	}
	if s.MeasurementOption == "" {
		s.MeasurementOption = c.DefaultMeasurementOption
	}
	if s.EdgeType == "" {
		s.EdgeType = c.DefaultEdgeType
	}
	if s.Currency == "" {
		s.Currency = c.DefaultCurrency
	}
}

// AddRecentDesign records a design path at the front of the recent list,
// removing duplicates and keeping at most max entries.
func (c *AppConfig) AddRecentDesign(path string, max int) {
	out := []string{path}
	for _, p := range c.RecentDesigns {
		if p != path {
			out = append(out, p)
		}
	}
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	c.RecentDesigns = out
}
