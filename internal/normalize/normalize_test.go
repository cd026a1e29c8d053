package normalize

import "testing"

func strPtr(s string) *string { return &s }

func TestText(t *testing.T) {
	tests := []struct {
		name   string
		input  any
		maxLen int
		want   *string
	}{
		{"nil input", nil, 0, nil},
		{"empty string", "", 0, nil},
		{"whitespace only", "   ", 0, nil},
		{"sentinel none", "None", 0, nil},
		{"sentinel nan", "nan", 0, nil},
		{"sentinel null", "NULL", 0, nil},
		{"plain text", "hello", 0, strPtr("hello")},
		{"trims and collapses", "  a   b  c ", 0, strPtr("a b c")},
		{"truncates", "abcdefgh", 5, strPtr("abcde")},
		{"under limit unchanged", "abc", 5, strPtr("abc")},
		{"numeric value", 42, 0, strPtr("42")},
		{"float value", 3.5, 0, strPtr("3.5")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Text(tt.input, tt.maxLen)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("Text(%v, %d) = %v, want %v", tt.input, tt.maxLen, got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("Text(%v, %d) = %q, want %q", tt.input, tt.maxLen, *got, *tt.want)
			}
		})
	}
}

func TestGender(t *testing.T) {
	tests := []struct {
		name   string
		input  any
		policy GenderPolicy
		want   *string
	}{
		{"nil", nil, GenderStrict, nil},
		{"male short", "M", GenderStrict, strPtr("male")},
		{"male word", "Male", GenderStrict, strPtr("male")},
		{"male numeric", "1", GenderStrict, strPtr("male")},
		{"male man", "Man", GenderStrict, strPtr("male")},
		{"female short", "f", GenderStrict, strPtr("female")},
		{"female numeric", 2, GenderStrict, strPtr("female")},
		{"female woman", "Woman", GenderStrict, strPtr("female")},
		{"unknown strict", "X", GenderStrict, nil},
		{"unknown lenient passes through", "Unknown", GenderLenient, strPtr("unknown")},
		{"sentinel lenient", "None", GenderLenient, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Gender(tt.input, tt.policy)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("Gender(%v) = %v, want %v", tt.input, got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("Gender(%v) = %q, want %q", tt.input, *got, *tt.want)
			}
		})
	}
}

func TestPhone(t *testing.T) {
	tests := []struct {
		name   string
		input  any
		policy PhonePolicy
		want   *string
	}{
		{"nil", nil, PhoneDigitsOnly, nil},
		{"digits keeps digits", "03 123 456", PhoneDigitsOnly, strPtr("+03123456")},
		{"digits strips punctuation", "+961 (3) 123-456", PhoneDigitsOnly, strPtr("+9613123456")},
		{"digits no digits at all", "n/a", PhoneDigitsOnly, nil},
		{"whitespace collapses runs", " 03   123  456 ", PhoneWhitespaceOnly, strPtr("03 123 456")},
		{"whitespace keeps plus", "+961 3 123456", PhoneWhitespaceOnly, strPtr("+961 3 123456")},
		{"sentinel", "None", PhoneWhitespaceOnly, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Phone(tt.input, tt.policy)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("Phone(%v) = %v, want %v", tt.input, got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("Phone(%v) = %q, want %q", tt.input, *got, *tt.want)
			}
		})
	}
}

func TestNameKey(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"John Smith", "john smith"},
		{"  John   SMITH  ", "john smith"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		if got := NameKey(tt.input); got != tt.want {
			t.Errorf("NameKey(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFloat(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  *float64
	}{
		{"nil", nil, nil},
		{"float64", 3.5, floatPtr(3.5)},
		{"int", 7, floatPtr(7)},
		{"string", "12.25", floatPtr(12.25)},
		{"string with thousands separator", "1,250.50", floatPtr(1250.50)},
		{"garbage", "abc", nil},
		{"sentinel", "nan", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Float(tt.input)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("Float(%v) = %v, want %v", tt.input, got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("Float(%v) = %v, want %v", tt.input, *got, *tt.want)
			}
		})
	}

	if got := FloatOr("garbage", 9.5); got != 9.5 {
		t.Errorf("FloatOr default = %v, want 9.5", got)
	}
	if got := FloatOr("2", 9.5); got != 2 {
		t.Errorf("FloatOr parsed = %v, want 2", got)
	}
}

func TestInt(t *testing.T) {
	if got := Int("3.0"); got == nil || *got != 3 {
		t.Errorf("Int(\"3.0\") = %v, want 3", got)
	}
	if got := Int(nil); got != nil {
		t.Errorf("Int(nil) = %v, want nil", got)
	}
}

func floatPtr(f float64) *float64 { return &f }
