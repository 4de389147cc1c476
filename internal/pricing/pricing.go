// Package pricing turns a measured sail into a quote in the customer's
// currency.
package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/piwi3910/SailQuote/internal/model"
)

var (
	ErrUnknownFabric       = errors.New("unknown fabric")
	ErrUnknownColor        = errors.New("unknown fabric colour")
	ErrUnsupportedCurrency = errors.New("unsupported currency")
)

// Pricer prices sails against a fabric catalog and surcharge rules.
// It holds no mutable state and is safe for concurrent use.
type Pricer struct {
	catalog model.Catalog
	rules   Rules
}

// NewPricer returns a Pricer for the given catalog and rules.
func NewPricer(catalog model.Catalog, rules Rules) *Pricer {
	return &Pricer{catalog: catalog, rules: rules}
}

// Rules returns the surcharge schedule in use.
func (p *Pricer) Rules() Rules {
	return p.rules
}

// Compute prices cfg given its measured geometry:
//
//	fabric rate × area + edge rate × perimeter + hardware pack (adjust-to-fit)
//
// converted to cfg.Currency and rounded half-up to cents. An empty colour
// prices at the fabric's base rate; an empty currency prices in the base
// currency.
func (p *Pricer) Compute(cfg model.ShadeConfiguration, geom model.Geometry, rates RateTable) (model.Quote, error) {
	fabric := p.catalog.FindFabric(cfg.FabricType)
	if fabric == nil {
		return model.Quote{}, fmt.Errorf("%w: %q", ErrUnknownFabric, cfg.FabricType)
	}
	var color *model.FabricColor
	if cfg.FabricColor != "" {
		color = fabric.FindColor(cfg.FabricColor)
		if color == nil {
			return model.Quote{}, fmt.Errorf("%w: %q for %s", ErrUnknownColor, cfg.FabricColor, fabric.Label)
		}
	}

	currency := cfg.Currency
	if currency == "" {
		currency = rates.Base
	}
	exchange, err := rates.Rate(currency)
	if err != nil {
		return model.Quote{}, err
	}

	fabricRate := fabric.ColorPrice(color)
	fabricCost := decimal.NewFromFloat(fabricRate).Mul(decimal.NewFromFloat(geom.Area))
	edgeCost := decimal.NewFromFloat(p.rules.EdgeRates[cfg.EdgeType]).Mul(decimal.NewFromFloat(geom.Perimeter))
	hardware := decimal.Zero
	if cfg.MeasurementOption == model.MeasureAdjustToFit {
		hardware = decimal.NewFromFloat(p.rules.HardwarePacks[cfg.Corners])
	}
	subtotal := fabricCost.Add(edgeCost).Add(hardware)
	total := subtotal.Mul(decimal.NewFromFloat(exchange))

	return model.Quote{
		Total:         model.NewMoney(total),
		Currency:      rates.Resolve(currency),
		WireThickness: p.rules.WireThickness(cfg.EdgeType, geom.Perimeter),
		Breakdown: model.PriceBreakdown{
			BaseCurrency: rates.Base,
			FabricRate:   fabricRate,
			Fabric:       model.NewMoney(fabricCost),
			Edge:         model.NewMoney(edgeCost),
			Hardware:     model.NewMoney(hardware),
			Subtotal:     model.NewMoney(subtotal),
			ExchangeRate: exchange,
		},
	}, nil
}
