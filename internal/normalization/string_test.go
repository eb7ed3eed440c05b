package normalization

import "testing"

func TestParseInputString(t *testing.T) {
	cases := map[string]string{
		"  Chef@Example.COM ": "chef@example.com",
		"ALREADY":             "already",
		"":                    "",
		"\tmixed Case\n":      "mixed case",
	}
	for in, want := range cases {
		if got := ParseInputString(in); got != want {
			t.Fatalf("ParseInputString(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTrimInputString(t *testing.T) {
	if got := TrimInputString("  Grandma's Pie  "); got != "Grandma's Pie" {
		t.Fatalf("expected case preserved, got %q", got)
	}
}
