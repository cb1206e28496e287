package wordlist

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadWordsSkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "en.txt")
	if err := os.WriteFile(path, []byte("one\n\n  two  \n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	words, err := LoadWords(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(words) != 2 || words[1] != "two" {
		t.Fatalf("unexpected words %v", words)
	}
}

func TestLoadWordsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "en.txt")
	if err := os.WriteFile(path, []byte("\n\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadWords(path); err == nil {
		t.Fatalf("expected empty list error")
	}
}

func TestResolveFallsBackToEmbeddedEnglish(t *testing.T) {
	words, source, err := Resolve("en", filepath.Join(t.TempDir(), "en.txt"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if source != SourceEmbedded || len(words) < 100 {
		t.Fatalf("expected embedded list, got %s with %d words", source, len(words))
	}
}

func TestResolveMissingOtherLanguage(t *testing.T) {
	_, _, err := Resolve("de", filepath.Join(t.TempDir(), "de.txt"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestResolveFiltersEnglish(t *testing.T) {
	path := filepath.Join(t.TempDir(), "en.txt")
	if err := os.WriteFile(path, []byte("hello\nnaïve\nco-op\nworld\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	words, source, err := Resolve("en", path)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if source != SourceFile || len(words) != 2 || words[0] != "hello" || words[1] != "world" {
		t.Fatalf("unexpected result %s %v", source, words)
	}
}

func TestResolveKeepsTypeableWordsForOtherLanguages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "de.txt")
	if err := os.WriteFile(path, []byte("straße\nzwei wörter\ngut\nbell\a\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	words, _, err := Resolve("de", path)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(words) != 2 || words[0] != "straße" || words[1] != "gut" {
		t.Fatalf("unexpected words %v", words)
	}
}

func TestResolveRejectsListWithoutUsableWords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "en.txt")
	if err := os.WriteFile(path, []byte("Hello\nDon't\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, _, err := Resolve("en", path); err == nil {
		t.Fatalf("expected error for a list with no usable words")
	}
}

func TestLanguages(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"fr.txt", "en.txt", "notes.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x\n"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "de.txt"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	langs, err := Languages(dir)
	if err != nil {
		t.Fatalf("languages: %v", err)
	}
	if len(langs) != 2 || langs[0] != "en" || langs[1] != "fr" {
		t.Fatalf("unexpected langs %v", langs)
	}
}
