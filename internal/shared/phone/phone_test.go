package phone

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"empty passes through", "", ""},
		{"local argentine mobile", "11 4444-5555", "+541144445555"},
		{"already e164", "+5491155556666", "+5491155556666"},
		{"whitespace trimmed", "  +5491155556666  ", "+5491155556666"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Normalize(tc.input)
			if err != nil {
				t.Fatalf("Normalize(%q) returned error: %v", tc.input, err)
			}
			if got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}

	if _, err := Normalize("not a number"); err == nil {
		t.Fatal("expected error for garbage input")
	}
}
