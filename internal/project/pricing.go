package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"oss.terrastruct.com/xdefer"

	"github.com/piwi3910/SailQuote/internal/pricing"
)

var errNotFound = errors.New("file does not exist")

// PricingProfile bundles exchange rates and surcharge rules so a shop can
// tune pricing without a rebuild.
type PricingProfile struct {
	Rates pricing.RateTable `json:"rates"`
	Rules pricing.Rules     `json:"rules"`
}

// DefaultPricingProfile returns the built-in rates and rules.
func DefaultPricingProfile() PricingProfile {
	return PricingProfile{
		Rates: pricing.DefaultRates(),
		Rules: pricing.DefaultRules(),
	}
}

// Validate checks that the profile can price every supported sail.
func (p PricingProfile) Validate() error {
	if p.Rates.Base == "" {
		return errors.New("pricing profile has no base currency")
	}
	for code, r := range p.Rates.Rates {
		if r <= 0 {
			return fmt.Errorf("exchange rate for %s must be positive", code)
		}
	}
	for n := 3; n <= 6; n++ {
		if _, ok := p.Rules.HardwarePacks[n]; !ok {
			return fmt.Errorf("pricing profile has no hardware pack for %d corners", n)
		}
	}
	if len(p.Rules.WireBands) == 0 {
		return errors.New("pricing profile has no wire bands")
	}
	return nil
}

// DefaultPricingPath returns the default file path for the pricing profile.
func DefaultPricingPath() string {
	return filepath.Join(DefaultConfigDir(), "pricing.json")
}

// SavePricingProfile writes the profile to a JSON file.
func SavePricingProfile(path string, p PricingProfile) (err error) {
	defer xdefer.Errorf(&err, "failed to save pricing profile to %s", path)
	return writeJSON(path, p)
}

// LoadPricingProfile reads a pricing profile from a JSON file. Sections
// missing from the file keep their defaults; a missing file returns the
// defaults with no error.
func LoadPricingProfile(path string) (_ PricingProfile, err error) {
	defer xdefer.Errorf(&err, "failed to load pricing profile from %s", path)

	p := DefaultPricingProfile()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return p, nil
	}

	// Decode into empty maps so file entries replace, not extend, the defaults.
	var raw PricingProfile
	if _, err := readJSON(path, &raw); err != nil {
		return PricingProfile{}, err
	}
	if raw.Rates.Base != "" {
		p.Rates = raw.Rates
	}
	if raw.Rules.EdgeRates != nil {
		p.Rules.EdgeRates = raw.Rules.EdgeRates
	}
	if raw.Rules.HardwarePacks != nil {
		p.Rules.HardwarePacks = raw.Rules.HardwarePacks
	}
	if raw.Rules.WireBands != nil {
		p.Rules.WireBands = raw.Rules.WireBands
	}
	if raw.Rules.CornerAllowance > 0 {
		p.Rules.CornerAllowance = raw.Rules.CornerAllowance
	}
	if err := p.Validate(); err != nil {
		return PricingProfile{}, err
	}
	return p, nil
}
