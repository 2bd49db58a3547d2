package import_feature

import (
	"errors"
	"fmt"
)

// TargetTable identifies a destination record type for a bulk import.
type TargetTable string

const (
	TableScholarships TargetTable = "scholarships"
	TablePrograms     TargetTable = "programs"
)

var ErrUnknownTable = errors.New("unknown target table")

type FieldType string

const (
	FieldTypeText       FieldType = "text"
	FieldTypeNumber     FieldType = "number"
	FieldTypeBoolean    FieldType = "boolean"
	FieldTypeDate       FieldType = "date"
	FieldTypeForeignKey FieldType = "foreign_key"
)

// FieldDefinition describes one column of a target table.
type FieldDefinition struct {
	Name        string    `json:"name"`
	Label       string    `json:"label"`
	Required    bool      `json:"required"`
	Description string    `json:"description,omitempty"`
	Type        FieldType `json:"type"`
}

// TableSchema lists the importable fields of a target table in display order.
type TableSchema struct {
	DisplayName string            `json:"display_name"`
	TargetTable TargetTable       `json:"target_table"`
	Fields      []FieldDefinition `json:"fields"`
}

// Field returns the definition with the given name.
func (s TableSchema) Field(name string) (FieldDefinition, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDefinition{}, false
}

// RequiredFields returns the required definitions in display order.
func (s TableSchema) RequiredFields() []FieldDefinition {
	var out []FieldDefinition
	for _, f := range s.Fields {
		if f.Required {
			out = append(out, f)
		}
	}
	return out
}

var scholarshipsSchema = TableSchema{
	DisplayName: "Scholarships",
	TargetTable: TableScholarships,
	Fields: []FieldDefinition{
		{Name: "id_universidad", Label: "University ID", Required: true, Type: FieldTypeForeignKey, Description: "University offering the scholarship"},
		{Name: "id_tipo_estudiante", Label: "Student Type ID", Required: true, Type: FieldTypeForeignKey, Description: "Student type the scholarship targets"},
		{Name: "nombre_beca", Label: "Scholarship Name", Required: true, Type: FieldTypeText},
		{Name: "descripcion", Label: "Description", Type: FieldTypeText},
		{Name: "porcentaje_cobertura", Label: "Coverage Percentage", Type: FieldTypeNumber, Description: "Share of tuition covered, 0-100"},
		{Name: "monto", Label: "Amount", Type: FieldTypeNumber},
		{Name: "requisitos", Label: "Requirements", Type: FieldTypeText},
		{Name: "fecha_inicio", Label: "Start Date", Type: FieldTypeDate},
		{Name: "fecha_limite", Label: "Deadline", Type: FieldTypeDate},
		{Name: "activa", Label: "Active", Type: FieldTypeBoolean},
		{Name: "url_info", Label: "Information URL", Type: FieldTypeText},
	},
}

var programsSchema = TableSchema{
	DisplayName: "Academic Programs",
	TargetTable: TablePrograms,
	Fields: []FieldDefinition{
		{Name: "id_universidad", Label: "University ID", Required: true, Type: FieldTypeForeignKey},
		{Name: "nombre_programa", Label: "Program Name", Required: true, Type: FieldTypeText},
		{Name: "id_area", Label: "Field of Study ID", Required: true, Type: FieldTypeForeignKey, Description: "Knowledge area the program belongs to"},
		{Name: "nivel", Label: "Degree Level", Required: true, Type: FieldTypeText, Description: "e.g. undergraduate, master, doctorate"},
		{Name: "modalidad", Label: "Modality", Type: FieldTypeText, Description: "on-site, online or hybrid"},
		{Name: "duracion_semestres", Label: "Duration (Semesters)", Type: FieldTypeNumber},
		{Name: "costo_semestre", Label: "Cost per Semester", Type: FieldTypeNumber},
		{Name: "acreditado", Label: "Accredited", Type: FieldTypeBoolean},
		{Name: "descripcion", Label: "Description", Type: FieldTypeText},
		{Name: "fecha_inicio_inscripcion", Label: "Enrollment Opens", Type: FieldTypeDate},
	},
}

var schemas = []TableSchema{scholarshipsSchema, programsSchema}

// AvailableSchemas returns every importable schema, for selection lists.
func AvailableSchemas() []TableSchema {
	out := make([]TableSchema, len(schemas))
	copy(out, schemas)
	return out
}

// GetSchema looks up the schema of a target table.
func GetSchema(table TargetTable) (TableSchema, error) {
	for _, s := range schemas {
		if s.TargetTable == table {
			return s, nil
		}
	}
	return TableSchema{}, fmt.Errorf("%w: %q", ErrUnknownTable, table)
}
