package sanitize

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  hello  ", "hello"},
		{"\t\nline\r\n", "line"},
		{"", ""},
		{"   ", ""},
		{"no-op", "no-op"},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeAny(t *testing.T) {
	if got := NormalizeAny("  x  "); got != "x" {
		t.Errorf("NormalizeAny(string) = %q, want %q", got, "x")
	}

	// Non-string inputs collapse to empty.
	for _, v := range []any{nil, 42, 3.14, true, []string{"a"}, map[string]string{}} {
		if got := NormalizeAny(v); got != "" {
			t.Errorf("NormalizeAny(%#v) = %q, want empty", v, got)
		}
	}
}

func TestEscape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"<script>alert(1)</script>", "&lt;script&gt;alert(1)&lt;/script&gt;"},
		{"a & b", "a &amp; b"},
		{"  <b>bold</b>  ", "&lt;b&gt;bold&lt;/b&gt;"},
		{"plain text", "plain text"},
		{"", ""},
		{"&amp;", "&amp;amp;"},
	}

	for _, tt := range tests {
		if got := Escape(tt.in); got != tt.want {
			t.Errorf("Escape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEscapeLeavesNoLiteralMarkup(t *testing.T) {
	inputs := []string{
		"<div onclick=\"x()\">&</div>",
		"1 < 2 && 3 > 2",
		"<<>>&&",
	}

	for _, in := range inputs {
		got := Escape(in)
		if strings.Contains(got, "<") || strings.Contains(got, ">") {
			t.Errorf("Escape(%q) = %q contains literal markup", in, got)
		}
		// Every & must be the start of one of the three entities we emit.
		stripped := strings.NewReplacer("&amp;", "", "&lt;", "", "&gt;", "").Replace(got)
		if strings.Contains(stripped, "&") {
			t.Errorf("Escape(%q) = %q contains a bare ampersand", in, got)
		}
	}
}

func TestEscapeRoundTrips(t *testing.T) {
	decode := strings.NewReplacer("&lt;", "<", "&gt;", ">", "&amp;", "&")

	for _, in := range []string{"<a href=x>link</a>", "fish & chips", "plain"} {
		if got := decode.Replace(Escape(in)); got != in {
			t.Errorf("decode(Escape(%q)) = %q, want original", in, got)
		}
	}
}
