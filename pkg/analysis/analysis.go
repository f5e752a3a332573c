// Package analysis implements the simplified circuit analysis: every
// component's derived quantities are computed independently from its own
// parameters, plus a naive series-sum aggregation across the circuit. This
// is intentionally not a nodal solver; components do not interact.
package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/ritzau/circuit-workbench/pkg/catalog"
	"github.com/ritzau/circuit-workbench/pkg/model"
)

const (
	// nominalCurrent is the assumed test current through resistors, 1 mA.
	nominalCurrent = 0.001

	// referenceFrequency is the fixed frequency for reactance figures.
	referenceFrequency = 60.0
)

// ComponentResult is the per-component entry of a Result: a snapshot copy of
// the component's parameters at analysis time, plus derived quantities for
// the types that have any.
type ComponentResult struct {
	ID         int                `json:"id"`
	Type       catalog.Type       `json:"type"`
	Parameters map[string]any     `json:"parameters"`
	Calculated map[string]float64 `json:"calculated,omitempty"`
}

// Result holds one full analysis pass. A Result is produced fresh on every
// run and is never updated in place; mutating the circuit afterwards does
// not affect it.
type Result struct {
	TotalResistance  float64           `json:"total_resistance"`
	TotalCapacitance float64           `json:"total_capacitance"`
	TotalInductance  float64           `json:"total_inductance"`
	PowerConsumption float64           `json:"power_consumption"`
	VoltageSources   []float64         `json:"voltage_sources"`
	Components       []ComponentResult `json:"component_analysis"`

	// CircuitCurrent and TotalPower are only present when the circuit has
	// at least one voltage source and a positive total resistance. Absence
	// is meaningful and distinct from zero.
	CircuitCurrent *float64 `json:"circuit_current,omitempty"`
	TotalPower     *float64 `json:"total_power,omitempty"`
}

// Run analyzes the circuit and returns a fresh result. It is total over any
// well-formed circuit: missing parameters read as zero, and no component
// type produces an error.
func Run(c *model.Circuit) *Result {
	r := &Result{
		VoltageSources: []float64{},
		Components:     []ComponentResult{},
	}

	for _, comp := range c.Components() {
		entry := ComponentResult{
			ID:         comp.ID,
			Type:       comp.Type,
			Parameters: snapshot(comp.Params),
		}

		switch comp.Type {
		case catalog.TypeResistor:
			resistance := num(comp.Params, "resistance")
			r.TotalResistance += resistance
			entry.Calculated = map[string]float64{
				"power_dissipated": nominalCurrent * nominalCurrent * resistance,
				"voltage_drop":     nominalCurrent * resistance,
			}

		case catalog.TypeCapacitor:
			capacitance := num(comp.Params, "capacitance")
			if capacitance > 0 {
				r.TotalCapacitance += capacitance
			}
			rating := num(comp.Params, "voltage_rating")
			reactance := math.Inf(1)
			if capacitance > 0 {
				reactance = 1 / (2 * math.Pi * referenceFrequency * capacitance)
			}
			entry.Calculated = map[string]float64{
				"energy_stored":  0.5 * capacitance * rating * rating,
				"reactance_60hz": reactance,
			}

		case catalog.TypeInductor:
			inductance := num(comp.Params, "inductance")
			r.TotalInductance += inductance
			rating := num(comp.Params, "current_rating")
			entry.Calculated = map[string]float64{
				"energy_stored":  0.5 * inductance * rating * rating,
				"reactance_60hz": 2 * math.Pi * referenceFrequency * inductance,
			}

		case catalog.TypeBattery, catalog.TypeACSource:
			voltage := num(comp.Params, "voltage")
			if voltage == 0 {
				voltage = num(comp.Params, "voltage_rms")
			}
			r.VoltageSources = append(r.VoltageSources, voltage)
			entry.Calculated = map[string]float64{
				"max_power": voltage * voltage / numDefault(comp.Params, "internal_resistance", 1),
			}

		case catalog.TypeLoad:
			power := num(comp.Params, "power")
			r.PowerConsumption += power
			voltage := num(comp.Params, "voltage")
			if voltage > 0 {
				current := power / voltage
				resistance := math.Inf(1)
				if current > 0 {
					resistance = voltage / current
				}
				entry.Calculated = map[string]float64{
					"current":    current,
					"resistance": resistance,
				}
			}

		default:
			// Diode, LED, Transistor, Ground, Switch, Ammeter, Voltmeter:
			// snapshot only, no derived quantities.
		}

		r.Components = append(r.Components, entry)
	}

	if len(r.VoltageSources) > 0 && r.TotalResistance > 0 {
		totalVoltage := floats.Sum(r.VoltageSources)
		current := totalVoltage / r.TotalResistance
		power := totalVoltage * current
		r.CircuitCurrent = &current
		r.TotalPower = &power
	}

	return r
}

// Entry returns the result entry for the given component id, or nil.
func (r *Result) Entry(id int) *ComponentResult {
	for i := range r.Components {
		if r.Components[i].ID == id {
			return &r.Components[i]
		}
	}
	return nil
}

// num reads a numeric parameter, substituting 0 when absent or non-numeric.
func num(params map[string]any, key string) float64 {
	return numDefault(params, key, 0)
}

// numDefault reads a numeric parameter with an explicit fallback. Values
// arriving from JSON decode as float64; hand-built params may use int.
func numDefault(params map[string]any, key string, fallback float64) float64 {
	v, ok := params[key]
	if !ok {
		return fallback
	}
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return fallback
	}
}

func snapshot(params map[string]any) map[string]any {
	out := make(map[string]any, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}
