package model

import (
	"math"
	"strconv"
	"strings"
)

// ParamDef is one entry of the fixed parameter catalog. Key is the name the
// backend stores; Label is what the tables show.
type ParamDef struct {
	Label string
	Key   string
	Unit  string
}

// Catalog is the fixed, ordered set of readings every product and every
// measurement carries.
var Catalog = []ParamDef{
	{Label: "Potência", Key: "potencia", Unit: "W"},
	{Label: "Tensão", Key: "tensao", Unit: "V"},
	{Label: "Frequência", Key: "frequencia", Unit: "Hz"},
	{Label: "Corrente", Key: "corrente", Unit: "A"},
	{Label: "Fluxo luminoso", Key: "fluxo", Unit: "lm"},
	{Label: "Eficiência luminosa", Key: "eficiencia", Unit: "lm/W"},
	{Label: "Intensidade luminosa", Key: "intensidade", Unit: "cd"},
	{Label: "TCC (Temperatura de cor correlacionada)", Key: "tcc", Unit: "K"},
	{Label: "Ângulo de abertura", Key: "angulo", Unit: "°"},
	{Label: "IRC (Índice de reprodução de cores)", Key: "irc", Unit: ""},
	{Label: "R9", Key: "r9", Unit: ""},
}

// CatalogByLabel returns the catalog entry shown under label.
func CatalogByLabel(label string) (ParamDef, bool) {
	for _, d := range Catalog {
		if d.Label == label {
			return d, true
		}
	}
	return ParamDef{}, false
}

// CatalogByKey returns the catalog entry whose key matches, ignoring case
// and surrounding whitespace.
func CatalogByKey(key string) (ParamDef, bool) {
	k := normalizeKey(key)
	for _, d := range Catalog {
		if d.Key == k {
			return d, true
		}
	}
	return ParamDef{}, false
}

// NewCatalogParameters returns the full catalog as unmeasured parameters,
// ready to be created on the backend.
func NewCatalogParameters() []Parameter {
	params := make([]Parameter, len(Catalog))
	for i, d := range Catalog {
		params[i] = Parameter{Name: d.Key, Value: Unmeasured, Unit: d.Unit}
	}
	return params
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// FindParameter returns the parameter whose name matches key, ignoring case
// and surrounding whitespace.
func FindParameter(params []Parameter, key string) (Parameter, bool) {
	k := normalizeKey(key)
	for _, p := range params {
		if normalizeKey(p.Name) == k {
			return p, true
		}
	}
	return Parameter{}, false
}

// ParamRow is a table row for one catalog entry. Value holds the text shown
// in (or typed into) the value cell.
type ParamRow struct {
	Label string
	Key   string
	Value string
	Unit  string
}

// FormatValue renders a reading for display. Unmeasured becomes "-".
func FormatValue(v float64) string {
	if v == Unmeasured {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// BuildRows lays the parameters out in catalog order. Missing parameters
// show "-" for the value; a missing unit falls back to the catalog unit and
// then to "-".
func BuildRows(params []Parameter) []ParamRow {
	rows := make([]ParamRow, len(Catalog))
	for i, d := range Catalog {
		row := ParamRow{Label: d.Label, Key: d.Key, Value: "-", Unit: d.Unit}
		if p, ok := FindParameter(params, d.Key); ok {
			row.Value = FormatValue(p.Value)
			if p.Unit != "" {
				row.Unit = p.Unit
			}
		}
		if row.Unit == "" {
			row.Unit = "-"
		}
		rows[i] = row
	}
	return rows
}

// CopyRows returns an independent copy of rows.
func CopyRows(rows []ParamRow) []ParamRow {
	if rows == nil {
		return nil
	}
	cp := make([]ParamRow, len(rows))
	copy(cp, rows)
	return cp
}

// ParseReading converts a value typed by the user into a number. The first
// comma is treated as the decimal separator. Empty cells, the "-" placeholder
// and non-finite values are rejected.
func ParseReading(s string) (float64, bool) {
	s = strings.TrimSpace(strings.Replace(s, ",", ".", 1))
	if s == "" || s == "-" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// BuildUpdates turns edited rows into parameter updates. A row is dropped
// when its label is not in the catalog, when no parameter matches its key,
// or when its value does not parse.
func BuildUpdates(rows []ParamRow, params []Parameter) []ParamUpdate {
	var updates []ParamUpdate
	for _, row := range rows {
		def, ok := CatalogByLabel(row.Label)
		if !ok {
			continue
		}
		original, ok := FindParameter(params, def.Key)
		if !ok {
			continue
		}
		v, ok := ParseReading(row.Value)
		if !ok {
			continue
		}
		updates = append(updates, ParamUpdate{ID: original.ID, Value: v})
	}
	return updates
}

// MatchedParameterIDs returns the ids of the parameters that correspond to a
// catalog entry, in catalog order.
func MatchedParameterIDs(params []Parameter) []string {
	var ids []string
	for _, d := range Catalog {
		if p, ok := FindParameter(params, d.Key); ok && p.ID != "" {
			ids = append(ids, p.ID)
		}
	}
	return ids
}
