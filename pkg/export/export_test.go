package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ritzau/circuit-workbench/pkg/analysis"
	"github.com/ritzau/circuit-workbench/pkg/catalog"
	"github.com/ritzau/circuit-workbench/pkg/model"
)

func TestRows(t *testing.T) {
	c := model.New()
	c.AddComponent(catalog.TypeResistor, 2.0, 3.0)
	c.AddComponent(catalog.TypeGround, 4.0, 1.0)

	comps, _ := c.Snapshot()
	rows, header := Rows(comps, nil)

	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0][ColumnName("resistance", "Ω")] != 1000.0 {
		t.Errorf("resistance cell = %v, want 1000", rows[0][ColumnName("resistance", "Ω")])
	}
	if rows[0]["Component_Type"] != "Resistor" {
		t.Errorf("type cell = %v", rows[0]["Component_Type"])
	}
	if header[0] != "Component_ID" {
		t.Errorf("header starts with %q, want Component_ID", header[0])
	}

	// Ground has no params and must still produce a row.
	if rows[1]["Component_Type"] != "Ground" {
		t.Errorf("ground row missing: %v", rows[1])
	}
}

func TestRowsMergeCalculated(t *testing.T) {
	c := model.New()
	res, _ := c.AddComponent(catalog.TypeResistor, 0, 0)

	result := analysis.Run(c)
	comps, _ := c.Snapshot()
	rows, header := Rows(comps, result)

	if rows[0]["voltage_drop"] != 1.0 {
		t.Errorf("voltage_drop cell = %v, want 1.0", rows[0]["voltage_drop"])
	}
	found := false
	for _, col := range header {
		if col == "power_dissipated" {
			found = true
		}
	}
	if !found {
		t.Errorf("calculated column missing from header: %v", header)
	}

	// A component added after the analysis has no result entry, so nothing
	// is merged into its row.
	other, _ := c.AddComponent(catalog.TypeResistor, 1, 1)
	comps, _ = c.Snapshot()
	rows, _ = Rows(comps, result)
	if _, ok := rows[1]["voltage_drop"]; ok {
		t.Errorf("calculated values merged for id %d with no result entry", other.ID)
	}
	_ = res
}

func TestColumnName(t *testing.T) {
	tests := []struct {
		param, unit, want string
	}{
		{"resistance", "Ω", "resistance_Ω"},
		{"type", "", "type_"},
		{"capacity", "mAh", "capacity_mAh"},
	}
	for _, tt := range tests {
		if got := ColumnName(tt.param, tt.unit); got != tt.want {
			t.Errorf("ColumnName(%q, %q) = %q, want %q", tt.param, tt.unit, got, tt.want)
		}
	}
}

func TestCSVRoundTrip(t *testing.T) {
	c := model.New()
	res, _ := c.AddComponent(catalog.TypeResistor, 2.5, 3.0)
	c.UpdateParams(res.ID, map[string]any{"resistance": 470.0, "power_rating": 0.5, "tolerance": 1.0})
	c.AddComponent(catalog.TypeCapacitor, 4.0, 2.0)
	c.AddComponent(catalog.TypeBattery, 6.0, 1.5)

	result := analysis.Run(c)
	comps, _ := c.Snapshot()

	var buf bytes.Buffer
	if err := WriteCSV(&buf, comps, result); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	back, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(back) != len(comps) {
		t.Fatalf("reimported %d components, want %d", len(back), len(comps))
	}

	for i, want := range comps {
		got := back[i]
		if got.Type != want.Type || got.X != want.X || got.Y != want.Y {
			t.Errorf("component %d = %+v, want %+v", i, got, want)
		}
		for param, value := range want.Params {
			if got.Params[param] != value {
				t.Errorf("component %d param %s = %v, want %v", i, param, got.Params[param], value)
			}
		}
	}
}

func TestReadCSVRejectsUnknownType(t *testing.T) {
	csv := "Component_ID,Component_Type,X_Position,Y_Position\n1,Warp Coil,0,0\n"
	if _, err := ReadCSV(strings.NewReader(csv)); err == nil {
		t.Fatalf("ReadCSV accepted an unknown component type")
	}
}

func TestWriteCSVEmptyCircuit(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil, nil); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Errorf("empty circuit wrote %d lines, want header only", len(lines))
	}
}
