// Package export renders QR-coded fulfilment tickets for confirmed orders.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/SailQuote/internal/model"
	"github.com/piwi3910/SailQuote/internal/order"
)

// DefaultTicketSize is the edge length of a ticket PNG in pixels.
const DefaultTicketSize = 256

// CornerTag holds the data encoded into the tag clipped to each sail corner
// so installers can match hardware to fixings.
type CornerTag struct {
	OrderID     string  `json:"order"`
	Corner      string  `json:"corner"`
	Height      float64 `json:"height"`
	Unit        string  `json:"unit"`
	FixingType  string  `json:"fixing"`
	Orientation string  `json:"eye"`
}

// TicketPNG encodes the order summary as a QR code PNG.
func TicketPNG(o order.Order, size int) ([]byte, error) {
	if o.ID == "" {
		return nil, fmt.Errorf("order has no ID")
	}
	data, err := json.Marshal(o.Summary())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ticket: %w", err)
	}
	png, err := qrcode.Encode(string(data), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return png, nil
}

// ExportTicket writes the order ticket PNG to path.
func ExportTicket(path string, o order.Order) error {
	png, err := TicketPNG(o, DefaultTicketSize)
	if err != nil {
		return err
	}
	return os.WriteFile(path, png, 0o644)
}

// CollectCornerTags returns one tag per corner of the order's sail.
func CollectCornerTags(o order.Order) []CornerTag {
	cfg := o.Configuration
	tags := make([]CornerTag, 0, cfg.Corners)
	for i := 0; i < cfg.Corners; i++ {
		tag := CornerTag{
			OrderID: o.ID,
			Corner:  model.CornerLabel(i),
			Unit:    cfg.Unit.Symbol(),
		}
		if i < len(cfg.FixingHeights) {
			tag.Height = cfg.FixingHeights[i]
		}
		if i < len(cfg.FixingTypes) {
			tag.FixingType = string(cfg.FixingTypes[i])
		}
		if i < len(cfg.EyeOrientations) {
			tag.Orientation = string(cfg.EyeOrientations[i])
		}
		tags = append(tags, tag)
	}
	return tags
}

// ExportCornerTags writes a QR PNG per corner into dir and returns the file
// paths in corner order.
func ExportCornerTags(dir string, o order.Order) ([]string, error) {
	tags := CollectCornerTags(o)
	if len(tags) == 0 {
		return nil, fmt.Errorf("order has no corners to tag")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create tag dir: %w", err)
	}

	paths := make([]string, 0, len(tags))
	for _, tag := range tags {
		data, err := json.Marshal(tag)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal tag %s: %w", tag.Corner, err)
		}
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", shortID(o.ID), tag.Corner))
		if err := qrcode.WriteFile(string(data), qrcode.Medium, DefaultTicketSize, path); err != nil {
			return nil, fmt.Errorf("failed to render tag %s: %w", tag.Corner, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
