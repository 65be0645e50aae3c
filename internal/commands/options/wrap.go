package options

import (
	"strings"

	"github.com/muesli/reflow/wordwrap"
)

// helpWidth is the column limit for cobra Short and Long text.
const helpWidth = 80

func Wrap80(text string) string {
	return Wrap(text, helpWidth)
}

// Wrap reflows help text to width display columns. Blank lines separate
// paragraphs; single line breaks inside a paragraph are joined first.
func Wrap(text string, width int) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	var paragraphs []string
	for _, p := range strings.Split(strings.TrimSpace(text), "\n\n") {
		words := strings.Fields(p)
		if len(words) == 0 {
			continue
		}
		paragraphs = append(paragraphs, wordwrap.String(strings.Join(words, " "), width))
	}
	return strings.Join(paragraphs, "\n\n")
}
