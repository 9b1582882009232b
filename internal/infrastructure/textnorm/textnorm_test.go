package textnorm

import (
	"strings"
	"testing"
)

func TestCleanStripsMarkupAndControlBytes(t *testing.T) {
	in := "<div><p>Hello <b>world</b></p><script>alert(1)</script></div>\x00\r\nsecond   line"

	out := Clean(in)
	if strings.Contains(out, "<") || strings.Contains(out, "alert") {
		t.Fatalf("markup survived cleaning: %q", out)
	}
	if strings.Contains(out, "\x00") || strings.Contains(out, "\r") {
		t.Fatalf("control bytes survived cleaning: %q", out)
	}
	if !strings.Contains(out, "Hello world") || !strings.Contains(out, "second line") {
		t.Fatalf("text content lost: %q", out)
	}
}

func TestCleanIsIdempotent(t *testing.T) {
	inputs := []string{
		"plain text, nothing to do",
		"<p>tags</p> and\x00nulls\r\nand\rmixed\nnewlines",
		"a &amp; b &lt;kept encoded&gt;",
		"spaces\t\tand\ttabs   everywhere\n\n\n\nmany blank lines",
		"trailing angle 3 < 5 stays",
	}
	for _, in := range inputs {
		once := Clean(in)
		twice := Clean(once)
		if once != twice {
			t.Fatalf("Clean not idempotent for %q:\n once: %q\ntwice: %q", in, once, twice)
		}
	}
}

func TestCleanCollapsesBlankLines(t *testing.T) {
	out := Clean("one\n\n\n\ntwo")
	if out != "one\n\ntwo" {
		t.Fatalf("expected single blank line, got %q", out)
	}
}

func TestWordCount(t *testing.T) {
	if n := WordCount("  one two\tthree\nfour  "); n != 4 {
		t.Fatalf("WordCount() = %d, want 4", n)
	}
	if n := WordCount(""); n != 0 {
		t.Fatalf("WordCount(empty) = %d, want 0", n)
	}
}

func TestDetectLanguage(t *testing.T) {
	if lang := DetectLanguage("The quick brown fox jumps over the lazy dog"); lang != "en" {
		t.Fatalf("expected en, got %q", lang)
	}
	if lang := DetectLanguage("Быстрая коричневая лиса"); lang != "unknown" {
		t.Fatalf("expected unknown, got %q", lang)
	}
	if lang := DetectLanguage("12345 !!!"); lang != "unknown" {
		t.Fatalf("expected unknown for no letters, got %q", lang)
	}
}
