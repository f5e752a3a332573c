// Package output renders analysis results as a colored console report.
package output

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/fatih/color"
	"gonum.org/v1/gonum/floats"

	"github.com/ritzau/circuit-workbench/pkg/analysis"
	"github.com/ritzau/circuit-workbench/pkg/model"
)

// PrintReport writes a formatted analysis report for the circuit.
func PrintReport(w io.Writer, components []model.Component, connections []model.Connection, result *analysis.Result) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	bold.Fprintln(w, "Circuit Workbench - Analysis Report")
	bold.Fprintln(w, "===================================")
	fmt.Fprintf(w, "Components: %d\n", len(components))
	fmt.Fprintf(w, "Connections: %d\n", len(connections))
	fmt.Fprintln(w)

	if result == nil {
		yellow.Fprintln(w, "No analysis available.")
		return
	}

	bold.Fprintln(w, "TOTALS:")
	printQuantity(w, "Total resistance", result.TotalResistance, "Ω")
	printQuantity(w, "Total capacitance", result.TotalCapacitance, "F")
	printQuantity(w, "Total inductance", result.TotalInductance, "H")
	printQuantity(w, "Power consumption", result.PowerConsumption, "W")
	if len(result.VoltageSources) > 0 {
		printQuantity(w, "Total voltage", floats.Sum(result.VoltageSources), "V")
	}

	if result.CircuitCurrent != nil && result.TotalPower != nil {
		green.Fprintf(w, "  %-20s %s\n", "Circuit current:", formatQuantity(*result.CircuitCurrent, "A"))
		green.Fprintf(w, "  %-20s %s\n", "Total power:", formatQuantity(*result.TotalPower, "W"))
	} else {
		yellow.Fprintln(w, "  Circuit current and power need a voltage source and resistance.")
	}
	fmt.Fprintln(w)

	withCalc := 0
	for _, comp := range result.Components {
		if len(comp.Calculated) > 0 {
			withCalc++
		}
	}
	if withCalc == 0 {
		yellow.Fprintln(w, "No per-component figures for this circuit.")
		return
	}

	bold.Fprintln(w, "COMPONENTS:")
	for _, comp := range result.Components {
		if len(comp.Calculated) == 0 {
			continue
		}
		cyan.Fprintf(w, "  #%d %s\n", comp.ID, comp.Type)
		for _, key := range sortedKeys(comp.Calculated) {
			fmt.Fprintf(w, "    %-20s %s\n", key+":", formatQuantity(comp.Calculated[key], unitFor(key)))
		}
	}
}

// unitFor guesses a display unit from the quantity name. Calculated keys are
// not catalog parameters, so the catalog's unit table does not apply.
func unitFor(key string) string {
	switch key {
	case "current", "circuit_current":
		return "A"
	case "power", "max_power":
		return "W"
	case "voltage_drop", "voltage":
		return "V"
	case "resistance", "reactance":
		return "Ω"
	case "energy_stored":
		return "J"
	}
	return ""
}

func printQuantity(w io.Writer, label string, value float64, unit string) {
	fmt.Fprintf(w, "  %-20s %s\n", label+":", formatQuantity(value, unit))
}

// formatQuantity renders a value with an SI-friendly magnitude. Non-finite
// values print as-is; they are meaningful (an open circuit has infinite
// resistance).
func formatQuantity(value float64, unit string) string {
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return fmt.Sprintf("%v %s", value, unit)
	}
	abs := math.Abs(value)
	switch {
	case abs == 0:
		return fmt.Sprintf("0 %s", unit)
	case abs < 1e-6:
		return fmt.Sprintf("%.3f n%s", value*1e9, unit)
	case abs < 1e-3:
		return fmt.Sprintf("%.3f µ%s", value*1e6, unit)
	case abs < 1:
		return fmt.Sprintf("%.3f m%s", value*1e3, unit)
	case abs >= 1e6:
		return fmt.Sprintf("%.3f M%s", value*1e-6, unit)
	case abs >= 1e3:
		return fmt.Sprintf("%.3f k%s", value*1e-3, unit)
	default:
		return fmt.Sprintf("%.3f %s", value, unit)
	}
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
