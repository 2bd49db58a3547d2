package import_feature

import (
	"fmt"
	"sort"
)

// MappingNone is the editor sentinel that clears a header's assignment.
const MappingNone = "none"

// ColumnMapping maps a source column name to a target field name. A target
// field appears at most once as a value.
type ColumnMapping map[string]string

// Clone returns an independent copy.
func (m ColumnMapping) Clone() ColumnMapping {
	out := make(ColumnMapping, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Set assigns source to target, first releasing target from any other
// source column. A target of MappingNone (or empty) clears source.
func (m ColumnMapping) Set(source, target string) ColumnMapping {
	out := m.Clone()
	if target == MappingNone || target == "" {
		delete(out, source)
		return out
	}
	for src, field := range out {
		if field == target && src != source {
			delete(out, src)
		}
	}
	out[source] = target
	return out
}

// SourceFor returns the source column assigned to field, if any.
func (m ColumnMapping) SourceFor(field string) (string, bool) {
	for src, f := range m {
		if f == field {
			return src, true
		}
	}
	return "", false
}

// Unmapped returns the headers with no assignment, in header order.
func (m ColumnMapping) Unmapped(headers []string) []string {
	var out []string
	for _, h := range headers {
		if _, ok := m[h]; !ok {
			out = append(out, h)
		}
	}
	return out
}

// Sources returns the source columns sorted by name.
func (m ColumnMapping) Sources() []string {
	out := make([]string, 0, len(m))
	for src := range m {
		out = append(out, src)
	}
	sort.Strings(out)
	return out
}

func (m ColumnMapping) assignedFields() map[string]bool {
	out := make(map[string]bool, len(m))
	for _, f := range m {
		out[f] = true
	}
	return out
}

// Validate returns one message per required field of schema that no source
// column is mapped to. An empty result means the mapping may advance.
func Validate(mapping ColumnMapping, schema TableSchema) []string {
	var violations []string
	for _, f := range schema.RequiredFields() {
		if _, ok := mapping.SourceFor(f.Name); !ok {
			violations = append(violations, fmt.Sprintf("%s is required", f.Label))
		}
	}
	return violations
}

// checkTargets rejects assignments to fields the schema does not define.
func checkTargets(mapping ColumnMapping, schema TableSchema) error {
	for src, field := range mapping {
		if _, ok := schema.Field(field); !ok {
			return fmt.Errorf("%w: column %q maps to unknown field %q", ErrInvalidMapping, src, field)
		}
	}
	return nil
}
