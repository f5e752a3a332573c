package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/ritzau/circuit-workbench/pkg/analysis"
	"github.com/ritzau/circuit-workbench/pkg/catalog"
	"github.com/ritzau/circuit-workbench/pkg/model"
)

func TestPrintReport(t *testing.T) {
	color.NoColor = true

	c := model.New()
	res, _ := c.AddComponent(catalog.TypeResistor, 0, 0)
	bat, _ := c.AddComponent(catalog.TypeBattery, 0, 0)
	_ = c.AddConnection(res.ID, bat.ID)

	result := analysis.Run(c)
	components, connections := c.Snapshot()

	var buf bytes.Buffer
	PrintReport(&buf, components, connections, result)
	out := buf.String()

	for _, want := range []string{
		"Components: 2",
		"Connections: 1",
		"Total resistance:",
		"1.000 kΩ",
		"Circuit current:",
		"9.000 mA",
		"#1 Resistor",
		"voltage_drop:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestPrintReportNoAnalysis(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	PrintReport(&buf, nil, nil, nil)
	if !strings.Contains(buf.String(), "No analysis available.") {
		t.Errorf("report = %q", buf.String())
	}
}

func TestFormatQuantity(t *testing.T) {
	tests := []struct {
		value float64
		unit  string
		want  string
	}{
		{0, "Ω", "0 Ω"},
		{0.009, "A", "9.000 mA"},
		{1000, "Ω", "1.000 kΩ"},
		{2.5e6, "Ω", "2.500 MΩ"},
		{26.5, "Ω", "26.500 Ω"},
		{0.0000265, "F", "26.500 µF"},
	}
	for _, tt := range tests {
		if got := formatQuantity(tt.value, tt.unit); got != tt.want {
			t.Errorf("formatQuantity(%v, %q) = %q, want %q", tt.value, tt.unit, got, tt.want)
		}
	}
}
