package assessment

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"

	"career-console/internal/backend"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

var ErrUnknownTest = errors.New("unknown test")

// RIASEC lists the personality traits in Holland order.
var RIASEC = []string{"R", "I", "A", "S", "E", "C"}

type Option struct {
	Key  string `yaml:"key" json:"key"`
	Text string `yaml:"text" json:"text"`
}

type Question struct {
	ID      string   `yaml:"id" json:"id"`
	Prompt  string   `yaml:"prompt" json:"prompt"`
	Trait   string   `yaml:"trait,omitempty" json:"trait,omitempty"`
	Options []Option `yaml:"options" json:"options"`
}

// Test is one timed questionnaire.
type Test struct {
	Name            string            `yaml:"name" json:"name"`
	Title           string            `yaml:"title" json:"title"`
	Kind            backend.GradeKind `yaml:"kind" json:"kind"`
	DurationMinutes int               `yaml:"duration_minutes" json:"duration_minutes"`
	Questions       []Question        `yaml:"questions" json:"questions"`
}

// HasOption reports whether key is a valid answer to question id.
func (t Test) HasOption(id, key string) bool {
	for _, q := range t.Questions {
		if q.ID != id {
			continue
		}
		for _, o := range q.Options {
			if o.Key == key {
				return true
			}
		}
		return false
	}
	return false
}

// Unanswered returns the ids of questions without an answer, in test order.
func (t Test) Unanswered(answers backend.Answers) []string {
	var out []string
	for _, q := range t.Questions {
		if answers[q.ID] == "" {
			out = append(out, q.ID)
		}
	}
	return out
}

type Catalog struct {
	tests []Test
}

// LoadCatalog parses the compiled-in test catalog.
func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(catalogYAML)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var doc struct {
		Tests []Test `yaml:"tests"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse test catalog: %w", err)
	}

	names := map[string]bool{}
	for _, t := range doc.Tests {
		if t.Name == "" || names[t.Name] {
			return nil, fmt.Errorf("test catalog: missing or duplicate test name %q", t.Name)
		}
		names[t.Name] = true
		if t.DurationMinutes <= 0 {
			return nil, fmt.Errorf("test catalog: %s has no duration", t.Name)
		}
		if t.Kind != backend.GradeKindPercentage && t.Kind != backend.GradeKindTraits {
			return nil, fmt.Errorf("test catalog: %s has unknown kind %q", t.Name, t.Kind)
		}
		ids := map[string]bool{}
		for _, q := range t.Questions {
			if q.ID == "" || ids[q.ID] {
				return nil, fmt.Errorf("test catalog: %s has missing or duplicate question id %q", t.Name, q.ID)
			}
			ids[q.ID] = true
			if len(q.Options) == 0 {
				return nil, fmt.Errorf("test catalog: %s question %s has no options", t.Name, q.ID)
			}
		}
	}
	return &Catalog{tests: doc.Tests}, nil
}

func (c *Catalog) Tests() []Test {
	out := make([]Test, len(c.tests))
	copy(out, c.tests)
	return out
}

func (c *Catalog) Get(name string) (Test, error) {
	for _, t := range c.tests {
		if t.Name == name {
			return t, nil
		}
	}
	return Test{}, fmt.Errorf("%w: %q", ErrUnknownTest, name)
}

// HollandCode returns the three highest-scoring RIASEC letters. Ties keep
// Holland order.
func HollandCode(traits map[string]float64) string {
	letters := make([]string, len(RIASEC))
	copy(letters, RIASEC)
	sort.SliceStable(letters, func(i, j int) bool {
		return traits[letters[i]] > traits[letters[j]]
	})
	code := ""
	for _, l := range letters[:3] {
		code += l
	}
	return code
}
