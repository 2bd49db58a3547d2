package import_feature

import (
	"sort"
	"strings"
)

// NormalizeHeader lower-cases s and strips underscores, spaces and hyphens.
func NormalizeHeader(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if r == '_' || r == ' ' || r == '-' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// matches reports whether a source header names the field. The header is
// normalized and compared with the normalized label and the lower-cased
// field name; a header spelling the field name exactly also matches.
func matches(header string, f FieldDefinition) bool {
	norm := NormalizeHeader(header)
	if norm == "" {
		return false
	}
	name := strings.ToLower(f.Name)
	return norm == name ||
		norm == NormalizeHeader(f.Label) ||
		strings.ToLower(strings.TrimSpace(header)) == name
}

// AutoMatch seeds a column mapping from the source headers. Each header takes
// the first field, in schema order, that it matches; a field already taken by
// an earlier header is not assigned again. Unmatched headers are left out.
func AutoMatch(headers []string, schema TableSchema) ColumnMapping {
	mapping := ColumnMapping{}
	taken := map[string]bool{}

	for _, h := range headers {
		if _, seen := mapping[h]; seen {
			continue
		}
		for _, f := range schema.Fields {
			if !matches(h, f) {
				continue
			}
			if !taken[f.Name] {
				mapping[h] = f.Name
				taken[f.Name] = true
			}
			break
		}
	}
	return mapping
}

// Suggestion is a candidate field for an unmapped header.
type Suggestion struct {
	Field string  `json:"field"`
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

const (
	suggestionThreshold = 0.5
	maxSuggestions      = 3
)

// Suggest ranks the still-unassigned fields of schema by similarity to header.
// It is advisory only; the mapping is never changed by it.
func Suggest(header string, schema TableSchema, mapping ColumnMapping) []Suggestion {
	assigned := mapping.assignedFields()
	norm := NormalizeHeader(header)

	var out []Suggestion
	for _, f := range schema.Fields {
		if assigned[f.Name] {
			continue
		}
		score := similarity(norm, NormalizeHeader(f.Name))
		if s := similarity(norm, NormalizeHeader(f.Label)); s > score {
			score = s
		}
		if score >= suggestionThreshold {
			out = append(out, Suggestion{Field: f.Name, Label: f.Label, Score: score})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}

// similarity is 1 - levenshtein(a,b)/max(len(a),len(b)).
func similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein(ra, rb))/float64(longest)
}

func levenshtein(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
