package ansi

import "testing"

func TestParsePlainTextPassesThrough(t *testing.T) {
	in := "no escapes here"
	out, spans := Parse(in)
	if out != in || spans != nil {
		t.Errorf("Parse(%q) = %q, %v", in, out, spans)
	}
}

func TestParseStripsAndSpans(t *testing.T) {
	out, spans := Parse("\x1b[31mred\x1b[0m plain")
	if out != "red plain" {
		t.Fatalf("stripped = %q", out)
	}
	if len(spans) != 1 || spans[0].Start != 0 || spans[0].End != 3 {
		t.Errorf("spans = %+v", spans)
	}
}

func TestParseNestedAttributes(t *testing.T) {
	out, spans := Parse("\x1b[1;32mok\x1b[0m")
	if out != "ok" {
		t.Fatalf("stripped = %q", out)
	}
	if len(spans) != 1 || spans[0].End != 2 {
		t.Errorf("spans = %+v", spans)
	}
}

func TestParse256AndTruecolor(t *testing.T) {
	out, spans := Parse("\x1b[38;5;196mX\x1b[0m\x1b[38;2;0;255;0mY\x1b[0m")
	if out != "XY" {
		t.Fatalf("stripped = %q", out)
	}
	if len(spans) != 2 {
		t.Errorf("spans = %+v", spans)
	}
}

func TestParseDropsOSC(t *testing.T) {
	out, spans := Parse("\x1b]0;title\x07text")
	if out != "text" || len(spans) != 0 {
		t.Errorf("Parse = %q, %v", out, spans)
	}
}

func TestParseRuneOffsets(t *testing.T) {
	// Spans index runes, not bytes.
	out, spans := Parse("日本\x1b[31m語\x1b[0m")
	if out != "日本語" {
		t.Fatalf("stripped = %q", out)
	}
	if len(spans) != 1 || spans[0].Start != 2 || spans[0].End != 3 {
		t.Errorf("spans = %+v", spans)
	}
}
