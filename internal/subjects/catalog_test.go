package subjects

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "subjects.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeFile(t, `
subjects:
  - id: quant
    name: Quantitative Aptitude
    focus: Arithmetic drills.
  - id: verbal
    name: Verbal Ability
`)

	catalog, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	all := catalog.All()
	if len(all) != 2 {
		t.Fatalf("got %d subjects", len(all))
	}
	if all[0].ID != "quant" || all[0].Focus != "Arithmetic drills." {
		t.Errorf("first subject = %+v", all[0])
	}

	s, ok := catalog.ByID("verbal")
	if !ok || s.Name != "Verbal Ability" {
		t.Errorf("ByID verbal = %+v %t", s, ok)
	}
	if _, ok := catalog.ByID("nope"); ok {
		t.Error("unknown id resolved")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	catalog, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(catalog.All()) == 0 {
		t.Fatal("defaults are empty")
	}
	if _, ok := catalog.ByID("quant"); !ok {
		t.Error("default set missing quant")
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeFile(t, "subjects: [not: valid: yaml")
	if _, err := Load(path); err == nil {
		t.Fatal("malformed file accepted")
	}
}

func TestLoadRejectsEmptyAndIncomplete(t *testing.T) {
	if _, err := Load(writeFile(t, "subjects: []")); err == nil {
		t.Error("empty subject list accepted")
	}
	if _, err := Load(writeFile(t, "subjects:\n  - id: quant\n")); err == nil {
		t.Error("subject without name accepted")
	}
}
