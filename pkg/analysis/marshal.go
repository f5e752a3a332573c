package analysis

import (
	"encoding/json"
	"math"
	"strconv"
)

// MarshalJSON encodes the entry with non-finite calculated values rendered
// as strings. encoding/json rejects Inf and NaN outright, and an infinite
// reactance is a legitimate result for a zero-capacitance capacitor.
func (e ComponentResult) MarshalJSON() ([]byte, error) {
	type plain ComponentResult
	if !hasNonFinite(e.Calculated) {
		return json.Marshal(plain(e))
	}

	calc := make(map[string]any, len(e.Calculated))
	for k, v := range e.Calculated {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			calc[k] = strconv.FormatFloat(v, 'g', -1, 64)
		} else {
			calc[k] = v
		}
	}

	return json.Marshal(struct {
		plain
		Calculated map[string]any `json:"calculated"`
	}{plain: plain(e), Calculated: calc})
}

func hasNonFinite(calc map[string]float64) bool {
	for _, v := range calc {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return true
		}
	}
	return false
}
