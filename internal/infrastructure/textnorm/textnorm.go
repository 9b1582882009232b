package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// Clean normalizes extracted content for storage: HTML markup is stripped,
// NUL and control bytes are dropped, newlines are unified and whitespace
// runs are collapsed. Clean is idempotent; promotion relies on that.
func Clean(text string) string {
	text = stripMarkup(text)
	text = dropControlBytes(text)
	text = collapseWhitespace(text)
	return strings.TrimSpace(text)
}

// WordCount counts whitespace-delimited tokens in cleaned content.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// DetectLanguage is a coarse heuristic, enough for the language column the
// downstream analysis filters on. Mostly-Latin text is tagged "en".
func DetectLanguage(text string) string {
	var latin, letters int
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if r < 0x250 {
			latin++
		}
	}
	if letters == 0 {
		return "unknown"
	}
	if float64(latin)/float64(letters) >= 0.9 {
		return "en"
	}
	return "unknown"
}

// stripMarkup drops tags plus script/style bodies. Text tokens are taken
// raw, entities untouched, so repeated cleaning cannot reveal new markup.
func stripMarkup(text string) string {
	if !strings.Contains(text, "<") {
		return text
	}

	var b strings.Builder
	tokenizer := html.NewTokenizer(strings.NewReader(text))
	skipDepth := 0
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			if skipDepth == 0 {
				b.Write(tokenizer.Raw())
			}
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if isSkippedTag(string(name)) {
				skipDepth++
			} else if isBlockTag(string(name)) {
				b.WriteByte('\n')
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if isSkippedTag(string(name)) && skipDepth > 0 {
				skipDepth--
			} else if isBlockTag(string(name)) {
				b.WriteByte('\n')
			}
		}
	}
}

func isSkippedTag(name string) bool {
	return name == "script" || name == "style"
}

func isBlockTag(name string) bool {
	switch name {
	case "p", "div", "br", "li", "tr", "h1", "h2", "h3", "h4", "h5", "h6":
		return true
	default:
		return false
	}
}

func dropControlBytes(text string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == '\t' {
			return r
		}
		if r == 0 || unicode.IsControl(r) {
			return -1
		}
		return r
	}, text)
}

func collapseWhitespace(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			// At most one blank line in a row.
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
