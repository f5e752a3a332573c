// Package export flattens circuit components into row-oriented tabular
// records: one row per component carrying id, type, position, every
// parameter as a "{param}_{unit}" column, and — when an analysis result is
// supplied — that component's calculated values.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/ritzau/circuit-workbench/pkg/analysis"
	"github.com/ritzau/circuit-workbench/pkg/catalog"
	"github.com/ritzau/circuit-workbench/pkg/model"
)

const (
	colID   = "Component_ID"
	colType = "Component_Type"
	colX    = "X_Position"
	colY    = "Y_Position"
)

// Row is a flat record for one component.
type Row map[string]any

// ColumnName builds the export column for a parameter and its unit label.
// Spaces are replaced so the name is a single token, matching the report
// format downstream tooling expects.
func ColumnName(param, unit string) string {
	return strings.ReplaceAll(param+"_"+unit, " ", "_")
}

// Rows flattens the components into records, merging in calculated values
// from result when it has an entry for the component's id. result may be
// nil. The second return value is the column union in first-appearance
// order, fixed columns first.
func Rows(components []model.Component, result *analysis.Result) ([]Row, []string) {
	header := []string{colID, colType, colX, colY}
	seen := map[string]bool{colID: true, colType: true, colX: true, colY: true}

	rows := make([]Row, 0, len(components))
	for _, comp := range components {
		row := Row{
			colID:   comp.ID,
			colType: string(comp.Type),
			colX:    comp.X,
			colY:    comp.Y,
		}

		params := make([]string, 0, len(comp.Params))
		for param := range comp.Params {
			params = append(params, param)
		}
		sort.Strings(params)
		for _, param := range params {
			col := ColumnName(param, catalog.Unit(comp.Type, param))
			row[col] = comp.Params[param]
			if !seen[col] {
				seen[col] = true
				header = append(header, col)
			}
		}

		if result != nil {
			if entry := result.Entry(comp.ID); entry != nil {
				calcs := make([]string, 0, len(entry.Calculated))
				for calc := range entry.Calculated {
					calcs = append(calcs, calc)
				}
				sort.Strings(calcs)
				for _, calc := range calcs {
					row[calc] = entry.Calculated[calc]
					if !seen[calc] {
						seen[calc] = true
						header = append(header, calc)
					}
				}
			}
		}

		rows = append(rows, row)
	}

	return rows, header
}

// WriteCSV writes the components as CSV, one row per component with a union
// header. Cells for columns a component does not have stay empty.
func WriteCSV(w io.Writer, components []model.Component, result *analysis.Result) error {
	rows, header := Rows(components, result)

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	record := make([]string, len(header))
	for _, row := range rows {
		for i, col := range header {
			record[i] = formatCell(row[col])
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV reconstructs component data from a CSV export. The catalog acts
// as the schema: for each row's type, every default parameter is looked up
// under its export column, parsed as a number unless the default is a
// string. Calculated columns are ignored. Ids are read as written; callers
// reimporting into a fresh circuit reallocate them.
func ReadCSV(r io.Reader) ([]model.Component, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	index := make(map[string]int, len(records[0]))
	for i, col := range records[0] {
		index[col] = i
	}
	for _, col := range []string{colID, colType, colX, colY} {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	var components []model.Component
	for _, record := range records[1:] {
		typ := catalog.Type(record[index[colType]])
		def, err := catalog.Get(typ)
		if err != nil {
			return nil, err
		}

		id, err := strconv.Atoi(record[index[colID]])
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", colID, err)
		}
		x, err := strconv.ParseFloat(record[index[colX]], 64)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", colX, err)
		}
		y, err := strconv.ParseFloat(record[index[colY]], 64)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", colY, err)
		}

		params := make(map[string]any)
		for param, fallback := range def.DefaultParams {
			col := ColumnName(param, def.Units[param])
			i, ok := index[col]
			if !ok || record[i] == "" {
				continue
			}
			if _, isString := fallback.(string); isString {
				params[param] = record[i]
				continue
			}
			n, err := strconv.ParseFloat(record[i], 64)
			if err != nil {
				return nil, fmt.Errorf("parsing %s for component %d: %w", col, id, err)
			}
			params[param] = n
		}

		components = append(components, model.Component{
			ID:     id,
			Type:   typ,
			X:      x,
			Y:      y,
			Params: params,
		})
	}

	return components, nil
}

func formatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case int:
		return strconv.Itoa(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
