//go:build ignore

// Convert UD English Web Treebank CoNLL-U files into the gold corpus format
// read by `sentex bench`: a "# Source:" header followed by one sentence per line.
// Usage: go run ./scripts/process-ud-ewt.go [in-dir] [out-dir]
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const source = "https://github.com/UniversalDependencies/UD_English-EWT"

func main() {
	inDir := "testdata/ud-ewt"
	outDir := "testdata/corpus"
	if len(os.Args) > 1 {
		inDir = os.Args[1]
	}
	if len(os.Args) > 2 {
		outDir = os.Args[2]
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", outDir, err)
		os.Exit(1)
	}

	for _, split := range []string{"train", "dev", "test"} {
		inFile := filepath.Join(inDir, fmt.Sprintf("en_ewt-ud-%s.conllu", split))
		outFile := filepath.Join(outDir, fmt.Sprintf("ud-ewt-%s.txt", split))

		fmt.Printf("Processing %s...\n", split)
		sentences, err := readCoNLLU(inFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", inFile, err)
			continue
		}

		if err := writeGold(outFile, "UD-EWT "+split, sentences); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", outFile, err)
			continue
		}
		fmt.Printf("  -> %s (%d sentences)\n", outFile, len(sentences))
	}
}

// readCoNLLU returns the "# text = " line of every sentence block.
func readCoNLLU(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	var (
		sentences []string
		current   string
	)

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()

		if text, ok := strings.CutPrefix(line, "# text = "); ok {
			current = strings.TrimSpace(text)
			continue
		}

		// Blank line ends a sentence block
		if line == "" && current != "" {
			sentences = append(sentences, current)
			current = ""
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning file: %w", err)
	}
	if current != "" {
		sentences = append(sentences, current)
	}
	return sentences, nil
}

func writeGold(path, title string, sentences []string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}

	w := bufio.NewWriter(file)
	fmt.Fprintf(w, "# Source: %s\n# Title: %s\n# Genre: web\n\n", source, title)
	for _, s := range sentences {
		fmt.Fprintln(w, s)
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
