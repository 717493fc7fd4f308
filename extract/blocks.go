package extract

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// A paragraph longer than maxBlockSize is cut into chunks at the last
// sentence end, line break or space before the limit. maxScanSize leaves
// the scanner room to hold a full chunk plus the read that overshot it.
const (
	maxBlockSize = 1 << 20
	maxScanSize  = 4 << 20
)

// Elements whose text never holds prose.
var skippedElements = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
}

// Elements that end the current text block when opened or closed.
var blockElements = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Br: true, atom.Caption: true, atom.Dd: true, atom.Div: true, atom.Dl: true,
	atom.Dt: true, atom.Figcaption: true, atom.Footer: true, atom.Form: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Header: true, atom.Hr: true, atom.Li: true, atom.Main: true, atom.Nav: true,
	atom.Ol: true, atom.P: true, atom.Pre: true, atom.Section: true, atom.Table: true,
	atom.Td: true, atom.Th: true, atom.Title: true, atom.Tr: true, atom.Ul: true,
}

// htmlBlocks reads an HTML document and returns the whitespace-collapsed
// text of each block element in document order. Errors from r other than
// io.EOF are returned unchanged.
func htmlBlocks(r io.Reader) ([]string, error) {
	z := html.NewTokenizer(r)

	var (
		blocks []string
		buf    strings.Builder
		skip   int
	)
	flush := func() {
		if s := collapseSpace(buf.String()); s != "" {
			blocks = append(blocks, s)
		}
		buf.Reset()
	}

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return nil, err
			}
			flush()
			return blocks, nil

		case html.TextToken:
			if skip == 0 {
				buf.Write(z.Text())
			}

		case html.StartTagToken, html.SelfClosingTagToken, html.EndTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if skippedElements[a] {
				switch {
				case tt == html.StartTagToken:
					skip++
				case tt == html.EndTagToken && skip > 0:
					skip--
				}
				continue
			}
			if blockElements[a] {
				flush()
			}
		}
	}
}

// newParagraphScanner returns a scanner yielding blank-line separated blocks.
func newParagraphScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxScanSize)
	sc.Split(scanParagraphs)
	return sc
}

// scanParagraphs is a bufio.SplitFunc for blocks separated by one or more
// blank lines. Lines holding only spaces, tabs or a carriage return count
// as blank.
func scanParagraphs(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	start := 0
	for start < len(data) && isBlankByte(data[start]) {
		start++
	}
	if start == len(data) {
		if atEOF {
			return len(data), nil, nil
		}
		return start, nil, nil
	}

	for i := start; i < len(data); i++ {
		if data[i] != '\n' {
			continue
		}
		j := i + 1
		for j < len(data) && (data[j] == ' ' || data[j] == '\t' || data[j] == '\r') {
			j++
		}
		if j < len(data) && data[j] == '\n' {
			return j + 1, bytes.TrimSpace(data[start:i]), nil
		}
	}

	if atEOF {
		return len(data), bytes.TrimSpace(data[start:]), nil
	}
	if len(data)-start >= maxBlockSize {
		end := start + chunkEnd(data[start:start+maxBlockSize])
		return end, bytes.TrimSpace(data[start:end]), nil
	}
	return start, nil, nil
}

// chunkEnd returns where to cut an oversized paragraph: after the last
// sentence terminator followed by whitespace, else after the last newline,
// else after the last space, else at the end of b.
func chunkEnd(b []byte) int {
	for i := len(b) - 2; i >= 0; i-- {
		if (b[i] == '.' || b[i] == '?' || b[i] == '!') && isBlankByte(b[i+1]) {
			return i + 1
		}
	}
	if i := bytes.LastIndexByte(b, '\n'); i >= 0 {
		return i + 1
	}
	if i := bytes.LastIndexByte(b, ' '); i >= 0 {
		return i + 1
	}
	return len(b)
}

func isBlankByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}
