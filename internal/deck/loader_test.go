package deck

import (
	"os"
	"path/filepath"
	"testing"
)

func createTempFile(t *testing.T, dir, content string) string {
	t.Helper()
	f, err := os.CreateTemp(dir, "icons_*.txt")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return f.Name()
}

func TestLoadIcons_SingleFile(t *testing.T) {
	path := createTempFile(t, t.TempDir(), "🐶\n\n# animals\n  🐱  \n🦊\n")

	icons, err := LoadIcons([]string{path})
	if err != nil {
		t.Fatalf("LoadIcons failed: %v", err)
	}

	expected := []string{"🐶", "🐱", "🦊"}
	if len(icons) != len(expected) {
		t.Fatalf("Expected %d icons, got %d: %v", len(expected), len(icons), icons)
	}
	for i := range expected {
		if icons[i] != expected[i] {
			t.Errorf("icon %d: expected %q, got %q", i, expected[i], icons[i])
		}
	}
}

func TestLoadIcons_Directory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("A\nB\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "b.txt"), []byte("C\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}

	icons, err := LoadIcons([]string{dir})
	if err != nil {
		t.Fatalf("LoadIcons failed: %v", err)
	}
	if len(icons) != 3 {
		t.Errorf("Expected 3 icons, got %d: %v", len(icons), icons)
	}
}

func TestLoadIcons_Duplicate(t *testing.T) {
	dir := t.TempDir()
	first := createTempFile(t, dir, "A\nB\n")
	second := createTempFile(t, dir, "B\n")

	if _, err := LoadIcons([]string{first, second}); err == nil {
		t.Error("Expected error for duplicate icon across files")
	}
}

func TestLoadIcons_MissingPath(t *testing.T) {
	if _, err := LoadIcons([]string{filepath.Join(t.TempDir(), "nope.txt")}); err == nil {
		t.Error("Expected error for missing path")
	}
}
