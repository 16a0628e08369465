package markup

import (
	"strings"

	"golang.org/x/net/html"
)

// Stripper reduces stored markup to plain text before it reaches the
// embedding and prompt paths. Script and style bodies are dropped entirely;
// everything else is text content with whitespace collapsed.
type Stripper struct{}

func New() *Stripper {
	return &Stripper{}
}

func (s *Stripper) Strip(markup string) string {
	if !strings.ContainsAny(markup, "<&") {
		return collapseWhitespace(markup)
	}

	tokenizer := html.NewTokenizer(strings.NewReader(markup))
	var b strings.Builder
	skipDepth := 0

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return collapseWhitespace(b.String())
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if isHiddenElement(string(name)) {
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if isHiddenElement(string(name)) && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth == 0 {
				b.Write(tokenizer.Text())
				b.WriteByte(' ')
			}
		}
	}
}

func isHiddenElement(name string) bool {
	switch name {
	case "script", "style", "noscript", "template":
		return true
	default:
		return false
	}
}

func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
