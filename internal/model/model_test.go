package model

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestEdgeKeys(t *testing.T) {
	got := EdgeKeys(4)
	want := []string{"AB", "BC", "CD", "DA"}
	if len(got) != len(want) {
		t.Fatalf("expected %d edge keys, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("edge %d: expected %s, got %s", i, want[i], got[i])
		}
	}
	if EdgeKeys(2) != nil || EdgeKeys(7) != nil {
		t.Error("expected nil edge keys outside 3..6 corners")
	}
}

func TestDiagonalKeys(t *testing.T) {
	tests := []struct {
		corners int
		want    []string
	}{
		{3, nil},
		{4, []string{"AC", "BD"}},
		{5, []string{"AC", "AD", "BD", "BE", "CE"}},
		{6, []string{"AC", "AD", "AE", "BD", "BE", "BF", "CE", "CF", "DF"}},
	}
	for _, tt := range tests {
		got := DiagonalKeys(tt.corners)
		if len(got) != len(tt.want) {
			t.Errorf("corners=%d: expected %v, got %v", tt.corners, tt.want, got)
			continue
		}
		if len(got) != tt.corners*(tt.corners-3)/2 {
			t.Errorf("corners=%d: diagonal count %d does not match n(n-3)/2", tt.corners, len(got))
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("corners=%d diagonal %d: expected %s, got %s", tt.corners, i, tt.want[i], got[i])
			}
		}
	}
}

func TestRequiredDiagonals(t *testing.T) {
	for n, want := range map[int]int{3: 0, 4: 0, 5: 5, 6: 9} {
		if got := RequiredDiagonals(n); got != want {
			t.Errorf("RequiredDiagonals(%d): expected %d, got %d", n, want, got)
		}
	}
}

func TestDiagonalKeyIsOrdered(t *testing.T) {
	if DiagonalKey(2, 0) != "AC" {
		t.Errorf("expected AC, got %s", DiagonalKey(2, 0))
	}
	if !IsDiagonalKey("BD", 4) {
		t.Error("BD should be a diagonal of a quadrilateral")
	}
	if IsDiagonalKey("DA", 4) {
		t.Error("DA is an edge, not a diagonal")
	}
}

func TestParseCornerKey(t *testing.T) {
	prefix, idx, ok := ParseCornerKey(HeightKey(3))
	if !ok || prefix != HeightKeyPrefix || idx != 3 {
		t.Errorf("unexpected parse of height key: %q %d %v", prefix, idx, ok)
	}
	if _, _, ok := ParseCornerKey("type_x"); ok {
		t.Error("type_x should not parse")
	}
	if _, _, ok := ParseCornerKey("AB"); ok {
		t.Error("edge keys are not corner keys")
	}
}

func TestSetCornersResizesSequences(t *testing.T) {
	cfg := NewShadeConfiguration()
	cfg.SetCorners(5)
	cfg.Measurements["AB"] = 1000
	cfg.Measurements["EA"] = 2000
	cfg.Diagonals["BE"] = 3000
	cfg.FixingHeights[0] = 2400

	cfg.SetCorners(4)

	if len(cfg.FixingHeights) != 4 || len(cfg.FixingTypes) != 4 || len(cfg.EyeOrientations) != 4 {
		t.Errorf("per-corner sequences not resized: %d %d %d",
			len(cfg.FixingHeights), len(cfg.FixingTypes), len(cfg.EyeOrientations))
	}
	if cfg.FixingHeights[0] != 2400 {
		t.Errorf("expected height_0 kept, got %f", cfg.FixingHeights[0])
	}
	if _, ok := cfg.Measurements["EA"]; ok {
		t.Error("EA should be dropped for a quadrilateral")
	}
	if cfg.Measurements["AB"] != 1000 {
		t.Error("AB should be kept")
	}
	if _, ok := cfg.Diagonals["BE"]; ok {
		t.Error("BE should be dropped for a quadrilateral")
	}
}

func TestNewShadeConfigurationDefaults(t *testing.T) {
	cfg := NewShadeConfiguration()
	if cfg.Corners != 0 {
		t.Errorf("expected no corners selected, got %d", cfg.Corners)
	}
	if cfg.Unit != UnitMetric {
		t.Errorf("expected metric, got %s", cfg.Unit)
	}
	if cfg.Currency != FallbackCurrency {
		t.Errorf("expected %s, got %s", FallbackCurrency, cfg.Currency)
	}
}

func TestOutlineBoundingBox(t *testing.T) {
	o := Outline{{0, 0}, {3000, 0}, {3000, 2000}, {-100, 2000}}
	min, max := o.BoundingBox()
	if min.X != -100 || min.Y != 0 || max.X != 3000 || max.Y != 2000 {
		t.Errorf("unexpected bounding box: %v %v", min, max)
	}
}

func TestMoneyRendersTwoDecimals(t *testing.T) {
	m := MoneyFromFloat(123.4)
	if m.String() != "123.40" {
		t.Errorf("expected 123.40, got %s", m.String())
	}
	b, err := json.Marshal(struct {
		Total Money `json:"total"`
	}{NewMoney(decimal.RequireFromString("123.455"))})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"total":123.46}` {
		t.Errorf("unexpected JSON: %s", b)
	}

	var back Money
	if err := json.Unmarshal([]byte(`"99.50"`), &back); err != nil {
		t.Fatal(err)
	}
	if back.String() != "99.50" {
		t.Errorf("expected 99.50, got %s", back.String())
	}
}

func TestCatalogLookups(t *testing.T) {
	cat := DefaultCatalog()
	f := cat.FindFabric("shade-cloth")
	if f == nil {
		t.Fatal("shade-cloth missing from default catalog")
	}
	c := f.FindColor("lime fizz")
	if c == nil {
		t.Fatal("colour lookup should be case-insensitive")
	}
	if f.ColorPrice(c) != f.PricePerSqM {
		t.Errorf("expected base price for Lime Fizz, got %f", f.ColorPrice(c))
	}

	pvc := cat.FindFabric("waterproof-pvc")
	if pvc == nil {
		t.Fatal("waterproof-pvc missing")
	}
	if got := pvc.ColorPrice(pvc.FindColor("Black")); got != 79.00 {
		t.Errorf("expected colour override 79.00, got %f", got)
	}
}

func TestCatalogMerge(t *testing.T) {
	cat := DefaultCatalog()
	before := len(cat.Fabrics)
	cat.Merge(Catalog{Fabrics: []Fabric{
		{ID: "shade-cloth", Colors: []FabricColor{{Name: "Lime Fizz"}, {Name: "Ocean Teal"}}},
		{ID: "mesh-60", Label: "Mesh 60", PricePerSqM: 30},
	}})

	if len(cat.Fabrics) != before+1 {
		t.Errorf("expected %d fabrics, got %d", before+1, len(cat.Fabrics))
	}
	sc := cat.FindFabric("shade-cloth")
	if sc.FindColor("Ocean Teal") == nil {
		t.Error("new colour should be merged into existing fabric")
	}
	count := 0
	for _, c := range sc.Colors {
		if c.Name == "Lime Fizz" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Lime Fizz should not be duplicated, found %d", count)
	}
}

func TestSetLengthAndLength(t *testing.T) {
	cfg := NewShadeConfiguration()
	cfg.SetCorners(5)

	for _, key := range []string{"AB", "EA", "BE", HeightKey(4)} {
		if !cfg.SetLength(key, 2500) {
			t.Errorf("SetLength(%s) should succeed", key)
		}
		v, ok := cfg.Length(key)
		if !ok || v != 2500 {
			t.Errorf("Length(%s): expected 2500, got %f (%v)", key, v, ok)
		}
	}
	if cfg.SetLength("AF", 1000) {
		t.Error("AF does not exist on a pentagon")
	}
	if cfg.SetLength(HeightKey(5), 1000) {
		t.Error("height_5 does not exist on a pentagon")
	}
	if _, ok := cfg.Length("CD"); ok {
		t.Error("unset edge should report missing")
	}
}

func TestContrastText(t *testing.T) {
	if got := ContrastText("#ffffff"); got != lightText {
		t.Errorf("white swatch: expected %s, got %s", lightText, got)
	}
	if got := ContrastText("#000000"); got != darkText {
		t.Errorf("black swatch: expected %s, got %s", darkText, got)
	}
	if got := ContrastText("not-a-colour"); got != darkText {
		t.Errorf("invalid hex should fall back to %s, got %s", darkText, got)
	}
}
