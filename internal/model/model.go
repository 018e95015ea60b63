package model

import (
	"time"
)

// Unmeasured is the wire value the backend stores for a reading that has not
// been taken yet. It is always displayed as "-".
const Unmeasured = -999.0

// ProductType classifies a product. The wire values are upper-case Portuguese.
type ProductType string

const (
	ProductGarden ProductType = "JARDIM"
	ProductDriver ProductType = "FONTE"
	ProductStrip  ProductType = "FITA"
	ProductLamp   ProductType = "LAMPADA"
)

// ProductTypes lists the product types in the order the forms offer them.
var ProductTypes = []ProductType{ProductGarden, ProductDriver, ProductStrip, ProductLamp}

func (t ProductType) Label() string {
	switch t {
	case ProductGarden:
		return "Jardim"
	case ProductDriver:
		return "Fonte"
	case ProductStrip:
		return "Fita"
	case ProductLamp:
		return "Lâmpada"
	default:
		return string(t)
	}
}

// ParseProductType maps either a wire value or a display label back to a
// ProductType. Unknown input is returned as-is.
func ParseProductType(s string) ProductType {
	for _, t := range ProductTypes {
		if s == string(t) || s == t.Label() {
			return t
		}
	}
	return ProductType(s)
}

// MeasurementType is the device a measurement was taken with. Only two
// devices are known; any other string from the backend is kept verbatim.
type MeasurementType string

const (
	IntegratingSphere MeasurementType = "ESFERA_INTEGRADORA"
	Goniophotometer   MeasurementType = "GONIOFOTOMETRO"
)

// MeasurementTypes lists the known devices in form order.
var MeasurementTypes = []MeasurementType{IntegratingSphere, Goniophotometer}

func (t MeasurementType) Label() string {
	switch t {
	case IntegratingSphere:
		return "Esfera Integradora"
	case Goniophotometer:
		return "Goniofotômetro"
	default:
		return string(t)
	}
}

// ShortLabel is the abbreviated name used in list summaries.
func (t MeasurementType) ShortLabel() string {
	switch t {
	case IntegratingSphere:
		return "Esfera"
	case Goniophotometer:
		return "Gônio"
	default:
		return string(t)
	}
}

// ParseMeasurementType maps a wire value or display label to a MeasurementType.
func ParseMeasurementType(s string) MeasurementType {
	for _, t := range MeasurementTypes {
		if s == string(t) || s == t.Label() {
			return t
		}
	}
	return MeasurementType(s)
}

// Parameter is a named numeric reading attached to a product or a measurement.
type Parameter struct {
	ID    string  `json:"id"`
	Name  string  `json:"nome"`
	Value float64 `json:"valor"`
	Unit  string  `json:"unidade"`
}

// Measured reports whether the parameter holds a real reading.
func (p Parameter) Measured() bool {
	return p.Value != Unmeasured
}

// Measurement is one test run against a sample.
type Measurement struct {
	ID         string          `json:"id"`
	Type       MeasurementType `json:"tipoMedicao"`
	SampleID   string          `json:"amostraId"`
	CreatedAt  time.Time       `json:"criadoEm"`
	Parameters []Parameter     `json:"parametros"`
}

// Sample is a physical unit of a product tested within a project.
type Sample struct {
	ID           string        `json:"id"`
	Code         string        `json:"codigo"`
	ProjectID    string        `json:"projetoId"`
	CreatedAt    time.Time     `json:"criadoEm"`
	Measurements []Measurement `json:"medicoes"`
}

// Project is a test campaign belonging to a product.
type Project struct {
	ID        string    `json:"id"`
	Number    string    `json:"numero"`
	CreatedAt time.Time `json:"criadoEm"`
	Samples   []Sample  `json:"amostras"`
}

// MeasurementTypes returns the distinct measurement types recorded under
// the project, in first-seen order.
func (p Project) MeasurementTypes() []MeasurementType {
	seen := make(map[MeasurementType]bool)
	var types []MeasurementType
	for _, s := range p.Samples {
		for _, m := range s.Measurements {
			if !seen[m.Type] {
				seen[m.Type] = true
				types = append(types, m.Type)
			}
		}
	}
	return types
}

// Product is a lighting item under specification.
type Product struct {
	ID         string      `json:"id"`
	Name       string      `json:"nome"`
	Type       ProductType `json:"tipo"`
	Reference  string      `json:"referencia"`
	CreatedAt  time.Time   `json:"criadoEm"`
	Projects   []Project   `json:"projetos"`
	Parameters []Parameter `json:"parametros"`
}

// ProductInput is the payload for creating or editing a product.
type ProductInput struct {
	Name      string      `json:"nome"`
	Type      ProductType `json:"tipo"`
	Reference string      `json:"referencia"`
}

// ParamUpdate is a single parameter value change sent in a batch.
type ParamUpdate struct {
	ID    string
	Value float64
}

// MeasurementRef addresses a measurement through its full ownership chain,
// which every measurement endpoint needs.
type MeasurementRef struct {
	ProductID     string
	ProjectID     string
	SampleID      string
	MeasurementID string
}

// FormatDate renders a timestamp as dd/mm/yyyy, or "-" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("02/01/2006")
}
