package resolve

import "testing"

func strPtr(s string) *string { return &s }

func TestBuildAndLookup(t *testing.T) {
	idx := Build("patient", []Entry{
		{SourceID: "P1", FirstName: strPtr("John"), LastName: strPtr("Smith")},
		{SourceID: "P2", FirstName: strPtr("Lena"), LastName: strPtr("Makary")},
		{SourceID: "P3", FirstName: strPtr("NoLast"), LastName: nil},
		{SourceID: "P4", FirstName: nil, LastName: strPtr("NoFirst")},
	})

	if idx.Len() != 2 {
		t.Fatalf("Len = %d, want 2 (entries without both names stay out)", idx.Len())
	}

	tests := []struct {
		input  string
		wantID string
		wantOK bool
	}{
		{"John Smith", "P1", true},
		{"  john   SMITH ", "P1", true},
		{"Lena Makary", "P2", true},
		{"Unknown Person", "", false},
		{"", "", false},
		{"NoLast", "", false},
	}

	for _, tt := range tests {
		id, ok := idx.Lookup(tt.input)
		if ok != tt.wantOK || id != tt.wantID {
			t.Errorf("Lookup(%q) = (%q, %v), want (%q, %v)", tt.input, id, ok, tt.wantID, tt.wantOK)
		}
	}

	hits, misses := idx.Stats()
	if hits != 3 || misses != 2 {
		t.Errorf("Stats = (%d, %d), want (3, 2)", hits, misses)
	}
}

func TestBuildCollisionLastWins(t *testing.T) {
	idx := Build("doctor", []Entry{
		{SourceID: "D1", FirstName: strPtr("John"), LastName: strPtr("Smith")},
		{SourceID: "D2", FirstName: strPtr("JOHN"), LastName: strPtr("smith")},
	})

	if idx.Collisions() != 1 {
		t.Fatalf("Collisions = %d, want 1", idx.Collisions())
	}
	id, ok := idx.Lookup("John Smith")
	if !ok || id != "D2" {
		t.Errorf("Lookup = (%q, %v), want later entry D2", id, ok)
	}
}
