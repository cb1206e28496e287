// Package wordlist loads word lists from files.
package wordlist

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"
	"unicode"
)

//go:embed default_en.txt
var defaultEnglish string

// Source tells where a loaded list came from.
type Source string

const (
	SourceFile     Source = "file"
	SourceEmbedded Source = "embedded"
)

// LoadWords reads one word per line from the provided file path.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()
	return readWords(file)
}

// Resolve loads the list at path and filters it for lang. A missing English
// list falls back to the embedded one.
func Resolve(lang, path string) ([]string, Source, error) {
	words, err := LoadWords(path)
	source := SourceFile
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) || strings.ToLower(lang) != "en" {
			return nil, "", err
		}
		words, err = readWords(strings.NewReader(defaultEnglish))
		if err != nil {
			return nil, "", err
		}
		source = SourceEmbedded
	}

	kept := words[:0]
	for _, w := range words {
		if typeable(lang, w) {
			kept = append(kept, w)
		}
	}
	if len(kept) == 0 {
		return nil, "", fmt.Errorf("word list has no usable %s words", lang)
	}
	return kept, source, nil
}

// Languages lists the language codes with a word list in dir.
func Languages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	langs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".txt") {
			continue
		}
		langs = append(langs, strings.TrimSuffix(name, ".txt"))
	}
	sort.Strings(langs)
	return langs, nil
}

// typeable reports whether every rune of word can be entered as a single
// printable key. Spaces commit words, so they never appear inside one.
// English lists are further limited to lowercase ASCII letters.
func typeable(lang, word string) bool {
	if word == "" {
		return false
	}
	english := strings.EqualFold(lang, "en")
	for _, r := range word {
		if unicode.IsSpace(r) || !unicode.IsPrint(r) {
			return false
		}
		if english && (r < 'a' || r > 'z') {
			return false
		}
	}
	return true
}

func readWords(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return words, nil
}
