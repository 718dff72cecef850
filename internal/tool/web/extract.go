package web

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// skipped elements never contribute visible text.
var skipped = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
}

// ExtractText returns the visible text of an HTML document, one trimmed
// non-empty line per text run.
func ExtractText(r io.Reader) (string, error) {
	z := html.NewTokenizer(r)
	var (
		lines []string
		skip  int
	)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return "", err
			}
			return strings.Join(lines, "\n"), nil
		case html.StartTagToken:
			name, _ := z.TagName()
			if skipped[string(name)] {
				skip++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if skipped[string(name)] && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip > 0 {
				continue
			}
			for _, line := range strings.Split(string(z.Text()), "\n") {
				if line = strings.Join(strings.Fields(line), " "); line != "" {
					lines = append(lines, line)
				}
			}
		}
	}
}
