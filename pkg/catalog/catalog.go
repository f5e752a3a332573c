// Package catalog holds the fixed registry of component type definitions.
package catalog

import (
	"errors"
	"fmt"
)

// ErrUnknownType is returned when a component type name is not registered.
var ErrUnknownType = errors.New("unknown component type")

// Type identifies a component type in the catalog.
type Type string

const (
	TypeResistor   Type = "Resistor"
	TypeCapacitor  Type = "Capacitor"
	TypeInductor   Type = "Inductor"
	TypeDiode      Type = "Diode"
	TypeLED        Type = "LED"
	TypeTransistor Type = "Transistor (NPN)"
	TypeBattery    Type = "Battery"
	TypeACSource   Type = "AC Source"
	TypeGround     Type = "Ground"
	TypeSwitch     Type = "Switch"
	TypeAmmeter    Type = "Ammeter"
	TypeVoltmeter  Type = "Voltmeter"
	TypeLoad       Type = "Load"
)

// TypeDef describes a component type: its renderer symbol, the default
// parameter set a new instance is seeded with, and the unit label for each
// parameter. Every parameter has a units entry, possibly empty.
type TypeDef struct {
	Symbol        string            `json:"symbol"`
	DefaultParams map[string]any    `json:"params"`
	Units         map[string]string `json:"units"`
}

// registry is ordered so UIs can present types in a stable order.
var registry = []Type{
	TypeResistor, TypeCapacitor, TypeInductor, TypeDiode, TypeLED,
	TypeTransistor, TypeBattery, TypeACSource, TypeGround, TypeSwitch,
	TypeAmmeter, TypeVoltmeter, TypeLoad,
}

var defs = map[Type]TypeDef{
	TypeResistor: {
		Symbol:        "zigzag",
		DefaultParams: map[string]any{"resistance": 1000.0, "power_rating": 0.25, "tolerance": 5.0},
		Units:         map[string]string{"resistance": "Ω", "power_rating": "W", "tolerance": "%"},
	},
	TypeCapacitor: {
		Symbol:        "capacitor",
		DefaultParams: map[string]any{"capacitance": 100e-6, "voltage_rating": 25.0, "type": "Ceramic"},
		Units:         map[string]string{"capacitance": "F", "voltage_rating": "V", "type": ""},
	},
	TypeInductor: {
		Symbol:        "inductor",
		DefaultParams: map[string]any{"inductance": 1e-3, "current_rating": 1.0, "resistance": 0.1},
		Units:         map[string]string{"inductance": "H", "current_rating": "A", "resistance": "Ω"},
	},
	TypeDiode: {
		Symbol:        "diode",
		DefaultParams: map[string]any{"forward_voltage": 0.7, "max_current": 1.0, "reverse_voltage": 50.0},
		Units:         map[string]string{"forward_voltage": "V", "max_current": "A", "reverse_voltage": "V"},
	},
	TypeLED: {
		Symbol:        "led",
		DefaultParams: map[string]any{"forward_voltage": 2.0, "forward_current": 0.02, "color": "Red"},
		Units:         map[string]string{"forward_voltage": "V", "forward_current": "A", "color": ""},
	},
	TypeTransistor: {
		Symbol:        "transistor_npn",
		DefaultParams: map[string]any{"beta": 100.0, "vbe": 0.7, "vce_sat": 0.2},
		Units:         map[string]string{"beta": "", "vbe": "V", "vce_sat": "V"},
	},
	TypeBattery: {
		Symbol:        "battery",
		DefaultParams: map[string]any{"voltage": 9.0, "capacity": 1000.0, "internal_resistance": 0.1},
		Units:         map[string]string{"voltage": "V", "capacity": "mAh", "internal_resistance": "Ω"},
	},
	TypeACSource: {
		Symbol:        "ac_source",
		DefaultParams: map[string]any{"voltage_rms": 120.0, "frequency": 50.0, "phase": 0.0},
		Units:         map[string]string{"voltage_rms": "V", "frequency": "Hz", "phase": "°"},
	},
	TypeGround: {
		Symbol:        "ground",
		DefaultParams: map[string]any{},
		Units:         map[string]string{},
	},
	TypeSwitch: {
		Symbol:        "switch",
		DefaultParams: map[string]any{"state": "Open", "contact_resistance": 0.01},
		Units:         map[string]string{"state": "", "contact_resistance": "Ω"},
	},
	TypeAmmeter: {
		Symbol:        "ammeter",
		DefaultParams: map[string]any{"range": 1.0, "reading": 0.0, "accuracy": 1.0},
		Units:         map[string]string{"range": "A", "reading": "A", "accuracy": "%"},
	},
	TypeVoltmeter: {
		Symbol:        "voltmeter",
		DefaultParams: map[string]any{"range": 10.0, "reading": 0.0, "accuracy": 1.0},
		Units:         map[string]string{"range": "V", "reading": "V", "accuracy": "%"},
	},
	TypeLoad: {
		Symbol:        "load",
		DefaultParams: map[string]any{"power": 100.0, "voltage": 12.0, "type": "Resistive"},
		Units:         map[string]string{"power": "W", "voltage": "V", "type": ""},
	},
}

// Get returns the type definition for the given component type.
func Get(t Type) (TypeDef, error) {
	def, ok := defs[t]
	if !ok {
		return TypeDef{}, fmt.Errorf("%w: %q", ErrUnknownType, t)
	}
	return def, nil
}

// Types returns all registered component types in catalog order.
func Types() []Type {
	out := make([]Type, len(registry))
	copy(out, registry)
	return out
}

// Defaults returns a fresh copy of the default parameter map for the given
// type. Instances must never share parameter storage with the catalog.
func Defaults(t Type) (map[string]any, error) {
	def, err := Get(t)
	if err != nil {
		return nil, err
	}
	params := make(map[string]any, len(def.DefaultParams))
	for k, v := range def.DefaultParams {
		params[k] = v
	}
	return params, nil
}

// Unit returns the unit label for a parameter of the given type, or "" if
// the type or parameter is unknown.
func Unit(t Type, param string) string {
	return defs[t].Units[param]
}
