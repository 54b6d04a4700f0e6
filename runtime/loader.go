package runtime

import (
	"bufio"
	"board-lab/errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Dictionary is the merged word list of every censored file, sorted and without duplicates.
type Dictionary struct {
	Words []string
	// PerLanguage counts the non blank lines read per file, keyed by file stem.
	PerLanguage map[string]int
}

// Languages returns the file stems in alphabetical order.
func (d Dictionary) Languages() []string {
	languages := lo.Keys(d.PerLanguage)
	slices.Sort(languages)
	return languages
}

// CensoredLoader reads the censored word lists of a directory, one word per line.
type CensoredLoader struct {
	fs fs.FS
}

func NewCensoredLoader(f fs.FS) *CensoredLoader {
	return &CensoredLoader{fs: f}
}

// LoadAll merges every "<language>.txt" file of dir. Words are compared lower cased.
func (l *CensoredLoader) LoadAll(dir string) (Dictionary, error) {
	matches, err := fs.Glob(l.fs, path.Join(dir, "*.txt"))
	if err != nil {
		return Dictionary{}, err
	}

	dict := Dictionary{PerLanguage: make(map[string]int, len(matches))}
	for _, name := range matches {
		words, err := l.readWords(name)
		if err != nil {
			return Dictionary{}, fmt.Errorf("read %s: %w", name, err)
		}
		dict.PerLanguage[strings.TrimSuffix(path.Base(name), ".txt")] = len(words)
		dict.Words = append(dict.Words, words...)
	}

	dict.Words = lo.Uniq(dict.Words)
	if len(dict.Words) == 0 {
		return Dictionary{}, errors.ErrEmptyWords
	}
	slices.Sort(dict.Words)
	return dict, nil
}

func (l *CensoredLoader) readWords(name string) ([]string, error) {
	f, err := l.fs.Open(name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var words []string
	// Scanner handles \r\n endings of lists edited on Windows
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if word := strings.ToLower(strings.TrimSpace(scanner.Text())); word != "" {
			words = append(words, word)
		}
	}
	return words, scanner.Err()
}
