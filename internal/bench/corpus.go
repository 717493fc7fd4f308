// Package bench evaluates sentence boundary detection against a gold corpus.
//
// A corpus is a directory of .txt files. Each file starts with "# Key: value"
// header lines and holds one gold sentence per line after them.
package bench

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Header contains metadata parsed from a corpus file header.
type Header struct {
	Source string
	Title  string
	Genre  string
}

// ParseHeader extracts metadata from header comments.
// Returns the header, remaining text after header, and any error.
func ParseHeader(text string) (Header, string, error) {
	var h Header
	scanner := bufio.NewScanner(strings.NewReader(text))
	var bodyStart int
	var lineEnd int

	for scanner.Scan() {
		line := scanner.Text()
		lineEnd += len(line) + 1 // +1 for newline

		if !strings.HasPrefix(line, "#") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			bodyStart = lineEnd - len(line) - 1
			break
		}

		line = strings.TrimPrefix(line, "# ")
		if value, ok := strings.CutPrefix(line, "Source:"); ok {
			h.Source = strings.TrimSpace(value)
		} else if value, ok := strings.CutPrefix(line, "Title:"); ok {
			h.Title = strings.TrimSpace(value)
		} else if value, ok := strings.CutPrefix(line, "Genre:"); ok {
			h.Genre = strings.TrimSpace(value)
		}
	}

	if err := scanner.Err(); err != nil {
		return Header{}, "", fmt.Errorf("scan header: %w", err)
	}

	if h.Source == "" {
		return Header{}, "", errors.New("missing Source in header")
	}

	body := text[bodyStart:]
	body = strings.TrimSpace(body)

	return h, body, nil
}

// Sentence represents a gold sentence with byte offsets into RawText.
type Sentence struct {
	Text  string
	Start int
	End   int
}

// ParseGold reads a body holding one sentence per line. Blank lines are
// skipped and runs of whitespace collapse to one space. The returned text
// joins the sentences with single spaces.
func ParseGold(body string) (string, []Sentence) {
	var (
		b         strings.Builder
		sentences []Sentence
	)
	for _, line := range strings.Split(body, "\n") {
		s := strings.Join(strings.Fields(line), " ")
		if s == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		start := b.Len()
		b.WriteString(s)
		sentences = append(sentences, Sentence{Text: s, Start: start, End: b.Len()})
	}
	return b.String(), sentences
}

// Document represents a loaded corpus file with its gold sentences.
type Document struct {
	ID        string // filename without extension
	Source    string
	Title     string
	Genre     string
	RawText   string // gold sentences joined by spaces
	Sentences []Sentence
}

// LoadDocument loads and parses a corpus file.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	header, body, err := ParseHeader(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse header: %w", err)
	}

	base := filepath.Base(path)
	id := strings.TrimSuffix(base, filepath.Ext(base))
	text, sentences := ParseGold(body)

	return &Document{
		ID:        id,
		Source:    header.Source,
		Title:     header.Title,
		Genre:     header.Genre,
		RawText:   text,
		Sentences: sentences,
	}, nil
}

// LoadCorpus loads all .txt corpus files from a directory.
func LoadCorpus(dir string) ([]*Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var docs []*Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if filepath.Ext(entry.Name()) != ".txt" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		doc, err := LoadDocument(path)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", entry.Name(), err)
		}
		docs = append(docs, doc)
	}

	return docs, nil
}
