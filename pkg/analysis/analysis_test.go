package analysis

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/ritzau/circuit-workbench/pkg/catalog"
	"github.com/ritzau/circuit-workbench/pkg/model"
)

const tolerance = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= tolerance
}

func TestRunEmptyCircuit(t *testing.T) {
	r := Run(model.New())

	if r.TotalResistance != 0 || r.TotalCapacitance != 0 || r.TotalInductance != 0 || r.PowerConsumption != 0 {
		t.Errorf("empty circuit produced non-zero totals: %+v", r)
	}
	if len(r.VoltageSources) != 0 {
		t.Errorf("voltage sources = %v, want empty", r.VoltageSources)
	}
	if len(r.Components) != 0 {
		t.Errorf("component analysis = %v, want empty", r.Components)
	}
	if r.CircuitCurrent != nil || r.TotalPower != nil {
		t.Errorf("circuit current/total power present on empty circuit")
	}
}

func TestRunResistorAndBattery(t *testing.T) {
	c := model.New()
	res, _ := c.AddComponent(catalog.TypeResistor, 1, 1)
	c.UpdateParams(res.ID, map[string]any{"resistance": 2000.0, "power_rating": 0.25, "tolerance": 5.0})
	c.AddComponent(catalog.TypeBattery, 3, 1)

	r := Run(c)

	if !almostEqual(r.TotalResistance, 2000.0) {
		t.Errorf("total resistance = %v, want 2000", r.TotalResistance)
	}
	if len(r.VoltageSources) != 1 || !almostEqual(r.VoltageSources[0], 9.0) {
		t.Errorf("voltage sources = %v, want [9]", r.VoltageSources)
	}
	if r.CircuitCurrent == nil || !almostEqual(*r.CircuitCurrent, 0.0045) {
		t.Errorf("circuit current = %v, want 0.0045", r.CircuitCurrent)
	}
	if r.TotalPower == nil || !almostEqual(*r.TotalPower, 0.0405) {
		t.Errorf("total power = %v, want 0.0405", r.TotalPower)
	}

	entry := r.Entry(res.ID)
	if entry == nil {
		t.Fatalf("no analysis entry for resistor")
	}
	if !almostEqual(entry.Calculated["voltage_drop"], 2.0) {
		t.Errorf("voltage drop = %v, want 2.0", entry.Calculated["voltage_drop"])
	}
	if !almostEqual(entry.Calculated["power_dissipated"], 0.002) {
		t.Errorf("power dissipated = %v, want 0.002", entry.Calculated["power_dissipated"])
	}
}

func TestRunCapacitor(t *testing.T) {
	c := model.New()
	c.AddComponent(catalog.TypeCapacitor, 0, 0) // 100µF, 25V

	r := Run(c)

	if !almostEqual(r.TotalCapacitance, 100e-6) {
		t.Errorf("total capacitance = %v, want 100e-6", r.TotalCapacitance)
	}
	calc := r.Components[0].Calculated
	if !almostEqual(calc["energy_stored"], 0.03125) {
		t.Errorf("energy stored = %v, want 0.03125", calc["energy_stored"])
	}
	want := 1 / (2 * math.Pi * 60 * 100e-6)
	if !almostEqual(calc["reactance_60hz"], want) {
		t.Errorf("reactance = %v, want %v", calc["reactance_60hz"], want)
	}
	if math.Abs(calc["reactance_60hz"]-26.526) > 0.001 {
		t.Errorf("reactance = %v, want ≈26.526", calc["reactance_60hz"])
	}
}

func TestRunCapacitorZeroCapacitance(t *testing.T) {
	c := model.New()
	cap, _ := c.AddComponent(catalog.TypeCapacitor, 0, 0)
	c.UpdateParams(cap.ID, map[string]any{"capacitance": 0.0, "voltage_rating": 25.0})

	r := Run(c)

	if r.TotalCapacitance != 0 {
		t.Errorf("zero capacitance accumulated into total: %v", r.TotalCapacitance)
	}
	calc := r.Components[0].Calculated
	if !math.IsInf(calc["reactance_60hz"], 1) {
		t.Errorf("reactance = %v, want +Inf", calc["reactance_60hz"])
	}
	if calc["energy_stored"] != 0 {
		t.Errorf("energy stored = %v, want 0", calc["energy_stored"])
	}
}

func TestRunInductor(t *testing.T) {
	c := model.New()
	c.AddComponent(catalog.TypeInductor, 0, 0) // 1mH, 1A

	r := Run(c)

	if !almostEqual(r.TotalInductance, 1e-3) {
		t.Errorf("total inductance = %v, want 1e-3", r.TotalInductance)
	}
	calc := r.Components[0].Calculated
	if !almostEqual(calc["energy_stored"], 0.5e-3) {
		t.Errorf("energy stored = %v, want 0.0005", calc["energy_stored"])
	}
	if !almostEqual(calc["reactance_60hz"], 2*math.Pi*60*1e-3) {
		t.Errorf("reactance = %v, want %v", calc["reactance_60hz"], 2*math.Pi*60*1e-3)
	}
}

func TestRunACSource(t *testing.T) {
	c := model.New()
	c.AddComponent(catalog.TypeACSource, 0, 0) // 120V rms, no internal_resistance param

	r := Run(c)

	if len(r.VoltageSources) != 1 || !almostEqual(r.VoltageSources[0], 120.0) {
		t.Errorf("voltage sources = %v, want [120]", r.VoltageSources)
	}
	// internal_resistance absent: max_power divides by the literal default 1.
	calc := r.Components[0].Calculated
	if !almostEqual(calc["max_power"], 14400.0) {
		t.Errorf("max power = %v, want 14400", calc["max_power"])
	}
	// No resistor in the circuit, so the aggregate pair stays absent.
	if r.CircuitCurrent != nil || r.TotalPower != nil {
		t.Errorf("aggregates present without total resistance")
	}
}

func TestRunBatteryMaxPower(t *testing.T) {
	c := model.New()
	c.AddComponent(catalog.TypeBattery, 0, 0) // 9V, 0.1Ω internal

	r := Run(c)

	calc := r.Components[0].Calculated
	if !almostEqual(calc["max_power"], 810.0) {
		t.Errorf("max power = %v, want 810", calc["max_power"])
	}
}

func TestRunLoad(t *testing.T) {
	tests := []struct {
		name           string
		params         map[string]any
		wantCalculated bool
		wantCurrent    float64
		wantResistance float64
		wantInf        bool
	}{
		{
			name:           "Default Load",
			params:         map[string]any{"power": 100.0, "voltage": 12.0, "type": "Resistive"},
			wantCalculated: true,
			wantCurrent:    100.0 / 12.0,
			wantResistance: 12.0 / (100.0 / 12.0),
		},
		{
			name:           "Zero Voltage Skips Calculated",
			params:         map[string]any{"power": 100.0, "voltage": 0.0},
			wantCalculated: false,
		},
		{
			name:           "Zero Power Gives Infinite Resistance",
			params:         map[string]any{"power": 0.0, "voltage": 12.0},
			wantCalculated: true,
			wantCurrent:    0,
			wantInf:        true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := model.New()
			load, _ := c.AddComponent(catalog.TypeLoad, 0, 0)
			c.UpdateParams(load.ID, tt.params)

			r := Run(c)

			wantPower := tt.params["power"].(float64)
			if !almostEqual(r.PowerConsumption, wantPower) {
				t.Errorf("power consumption = %v, want %v", r.PowerConsumption, wantPower)
			}

			calc := r.Components[0].Calculated
			if !tt.wantCalculated {
				if calc != nil {
					t.Fatalf("calculated block present, want absent: %v", calc)
				}
				return
			}
			if calc == nil {
				t.Fatalf("calculated block absent")
			}
			if !almostEqual(calc["current"], tt.wantCurrent) {
				t.Errorf("current = %v, want %v", calc["current"], tt.wantCurrent)
			}
			if tt.wantInf {
				if !math.IsInf(calc["resistance"], 1) {
					t.Errorf("resistance = %v, want +Inf", calc["resistance"])
				}
			} else if !almostEqual(calc["resistance"], tt.wantResistance) {
				t.Errorf("resistance = %v, want %v", calc["resistance"], tt.wantResistance)
			}
		})
	}
}

func TestRunPassiveTypesHaveNoCalculated(t *testing.T) {
	passive := []catalog.Type{
		catalog.TypeDiode, catalog.TypeLED, catalog.TypeTransistor,
		catalog.TypeGround, catalog.TypeSwitch, catalog.TypeAmmeter,
		catalog.TypeVoltmeter,
	}

	c := model.New()
	for _, typ := range passive {
		if _, err := c.AddComponent(typ, 0, 0); err != nil {
			t.Fatal(err)
		}
	}

	r := Run(c)

	if len(r.Components) != len(passive) {
		t.Fatalf("component analysis entries = %d, want %d", len(r.Components), len(passive))
	}
	for _, entry := range r.Components {
		if entry.Calculated != nil {
			t.Errorf("%s: unexpected calculated block %v", entry.Type, entry.Calculated)
		}
		if len(entry.Parameters) == 0 && entry.Type != catalog.TypeGround {
			t.Errorf("%s: parameters snapshot missing", entry.Type)
		}
	}
	if r.TotalResistance != 0 || r.TotalCapacitance != 0 || r.TotalInductance != 0 || r.PowerConsumption != 0 {
		t.Errorf("passive types accumulated into totals: %+v", r)
	}
}

func TestRunMissingParamsReadAsZero(t *testing.T) {
	c := model.New()
	res, _ := c.AddComponent(catalog.TypeResistor, 0, 0)
	c.UpdateParams(res.ID, map[string]any{})

	r := Run(c)

	if r.TotalResistance != 0 {
		t.Errorf("total resistance = %v, want 0", r.TotalResistance)
	}
	calc := r.Components[0].Calculated
	if calc["voltage_drop"] != 0 || calc["power_dissipated"] != 0 {
		t.Errorf("missing resistance did not read as zero: %v", calc)
	}
}

func TestResultSnapshotIsDecoupled(t *testing.T) {
	c := model.New()
	res, _ := c.AddComponent(catalog.TypeResistor, 0, 0)

	r := Run(c)
	c.UpdateParams(res.ID, map[string]any{"resistance": 1.0})

	if r.Components[0].Parameters["resistance"] != 1000.0 {
		t.Errorf("later circuit mutation changed a past result")
	}
}

func TestVoltageSourcesAccumulateInOrder(t *testing.T) {
	c := model.New()
	c.AddComponent(catalog.TypeBattery, 0, 0)
	c.AddComponent(catalog.TypeACSource, 1, 0)
	bat, _ := c.AddComponent(catalog.TypeBattery, 2, 0)
	c.UpdateParams(bat.ID, map[string]any{"voltage": 1.5})

	r := Run(c)

	want := []float64{9.0, 120.0, 1.5}
	if len(r.VoltageSources) != len(want) {
		t.Fatalf("voltage sources = %v, want %v", r.VoltageSources, want)
	}
	for i, v := range want {
		if !almostEqual(r.VoltageSources[i], v) {
			t.Errorf("voltage source %d = %v, want %v", i, r.VoltageSources[i], v)
		}
	}
}

func TestResultMarshalsWithInfinity(t *testing.T) {
	c := model.New()
	cap, _ := c.AddComponent(catalog.TypeCapacitor, 0, 0)
	c.UpdateParams(cap.ID, map[string]any{"capacitance": 0.0, "voltage_rating": 25.0})

	r := Run(c)

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal result with +Inf reactance: %v", err)
	}
	if !strings.Contains(string(data), "+Inf") {
		t.Errorf("encoded result does not carry the infinity marker: %s", data)
	}
}
