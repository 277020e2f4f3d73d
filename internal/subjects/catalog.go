package subjects

import (
	"fmt"
	"os"

	"github.com/pmmpclub/prep-backend/internal/model"
	"gopkg.in/yaml.v3"
)

// Catalog is the read-only subject catalog. It is built once at
// startup and safe for concurrent reads.
type Catalog struct {
	subjects []model.Subject
	byID     map[string]model.Subject
}

// defaultSubjects mirrors the product's built-in focus tracks, used
// when no subjects file is configured.
var defaultSubjects = []model.Subject{
	{ID: "quant", Name: "Quantitative Reasoning", Focus: "Arithmetic, algebra and data sufficiency drills"},
	{ID: "verbal", Name: "Verbal Ability", Focus: "Reading comprehension and critical reasoning"},
	{ID: "logic", Name: "Logical Reasoning", Focus: "Puzzles, sequences and deduction sets"},
	{ID: "awareness", Name: "General Awareness", Focus: "Current affairs and static knowledge"},
}

// Load builds the catalog from a YAML file. A missing file is not an
// error: the compiled-in default set is used instead. A present but
// malformed file is an error so a bad deploy fails loudly.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(defaultSubjects), nil
		}
		return nil, fmt.Errorf("read subjects file: %w", err)
	}

	var file struct {
		Subjects []model.Subject `yaml:"subjects"`
	}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse subjects file: %w", err)
	}
	if len(file.Subjects) == 0 {
		return nil, fmt.Errorf("subjects file %s defines no subjects", path)
	}
	for i, s := range file.Subjects {
		if s.ID == "" || s.Name == "" {
			return nil, fmt.Errorf("subjects file %s: entry %d is missing id or name", path, i)
		}
	}

	return New(file.Subjects), nil
}

// New builds a catalog from an explicit subject list. Used by Load
// and directly by tests.
func New(list []model.Subject) *Catalog {
	byID := make(map[string]model.Subject, len(list))
	for _, s := range list {
		byID[s.ID] = s
	}
	return &Catalog{subjects: list, byID: byID}
}

// All returns the subjects in catalog order.
func (c *Catalog) All() []model.Subject {
	return c.subjects
}

// ByID looks up a subject. ok is false for unknown identifiers.
func (c *Catalog) ByID(id string) (model.Subject, bool) {
	s, ok := c.byID[id]
	return s, ok
}
