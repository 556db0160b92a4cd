package service

import "testing"

func TestStripCodeFences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `[{"question": "q"}]`, `[{"question": "q"}]`},
		{"json fence", "```json\n[1, 2]\n```", "[1, 2]"},
		{"bare fence", "```\n[1, 2]\n```", "[1, 2]"},
		{"leading whitespace", "  \n```json\n{}\n```  ", "{}"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := stripCodeFences(tc.in); got != tc.want {
				t.Errorf("stripCodeFences(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestContainsOption(t *testing.T) {
	options := []string{"A", "B", "C", "D"}
	if !containsOption(options, "C") {
		t.Error("expected C to be found")
	}
	if containsOption(options, "c") {
		t.Error("match must be exact, got case-insensitive hit")
	}
	if containsOption(nil, "A") {
		t.Error("nil options must not match")
	}
}
