package normalize

import "testing"

func TestParseProviderName(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		first, last string // "" means nil expected
	}{
		{"empty", "", "", ""},
		{"plain name", "Lena Makary", "Lena", "Makary"},
		{"numeric prefix with title", "3- Dr Lena Makary", "Lena", "Makary"},
		{"joint entry keeps first", "12-Dr.Mohamad+Zeina", "Mohamad", ""},
		{"trailing code", "Michel Al-Haddad/1", "Michel", "Al-Haddad"},
		{"dr dash title", "Dr-Rami Khoury", "Rami", "Khoury"},
		{"doctor word title", "Doctor Samir Aoun", "Samir", "Aoun"},
		{"title only", "Dr.", "", ""},
		{"name starting with dr letters kept", "Drew Barry", "Drew", "Barry"},
		{"multi word last name", "Dr. Hala Abou Jaoude", "Hala", "Abou Jaoude"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last := ParseProviderName(tt.input)
			if tt.first == "" {
				if first != nil {
					t.Fatalf("first = %q, want nil", *first)
				}
			} else if first == nil || *first != tt.first {
				t.Fatalf("first = %v, want %q", first, tt.first)
			}
			if tt.last == "" {
				if last != nil {
					t.Errorf("last = %q, want nil", *last)
				}
			} else if last == nil || *last != tt.last {
				t.Errorf("last = %v, want %q", last, tt.last)
			}
		})
	}
}

func TestProviderFilter(t *testing.T) {
	filter := NewProviderFilter([]string{"Lab", " dental ", ""})

	tests := []struct {
		input string
		want  bool
	}{
		{"Dr. Lena Makary", true},
		{"Beirut Lab Services", false},
		{"PRODENT DENTAL SUPPLIES", false},
		{"", true},
	}

	for _, tt := range tests {
		if got := filter.IsProvider(tt.input); got != tt.want {
			t.Errorf("IsProvider(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}

	// An empty keyword list lets everything through.
	open := NewProviderFilter(nil)
	if !open.IsProvider("Beirut Lab Services") {
		t.Error("empty filter should accept every record")
	}
}
