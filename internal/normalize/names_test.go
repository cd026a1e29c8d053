package normalize

import "testing"

func TestSplitFullName(t *testing.T) {
	tests := []struct {
		name                string
		input               string
		first, father, last string // "" means nil expected
	}{
		{"empty", "", "", "", ""},
		{"single token", "Madonna", "Madonna", "", ""},
		{"two tokens", "John Smith", "John", "", "Smith"},
		{"three tokens", "John Michael Smith", "John", "Michael", "Smith"},
		{"four tokens joins rest", "John Michael Al Haddad", "John", "Michael", "Al Haddad"},
		{"extra whitespace", "  John   Smith  ", "John", "", "Smith"},
	}

	check := func(t *testing.T, label string, got *string, want string) {
		t.Helper()
		if want == "" {
			if got != nil {
				t.Errorf("%s = %q, want nil", label, *got)
			}
			return
		}
		if got == nil || *got != want {
			t.Errorf("%s = %v, want %q", label, got, want)
		}
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, father, last := SplitFullName(tt.input)
			check(t, "first", first, tt.first)
			check(t, "father", father, tt.father)
			check(t, "last", last, tt.last)
		})
	}
}

func TestNationality(t *testing.T) {
	mapping := map[int]string{1: "Lebanese", 2: "Egyptian"}

	tests := []struct {
		name  string
		input any
		want  string // "" means nil expected
	}{
		{"nil", nil, ""},
		{"text passes through", "  Syrian ", "Syrian"},
		{"empty text", "   ", ""},
		{"mapped id", 1, "Lebanese"},
		{"mapped id int64", int64(2), "Egyptian"},
		{"unmapped id falls back to digits", 99, "99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Nationality(tt.input, mapping)
			if tt.want == "" {
				if got != nil {
					t.Fatalf("Nationality(%v) = %q, want nil", tt.input, *got)
				}
				return
			}
			if got == nil || *got != tt.want {
				t.Errorf("Nationality(%v) = %v, want %q", tt.input, got, tt.want)
			}
		})
	}
}
