package migrate

import (
	"testing"
	"time"

	"toothpickeve.com/migrate/internal/resolve"
	"toothpickeve.com/migrate/internal/source"
)

func strPtr(s string) *string { return &s }

func TestLookupRef(t *testing.T) {
	idx := resolve.Build("patient", []resolve.Entry{
		{SourceID: "P1", FirstName: strPtr("John"), LastName: strPtr("Smith")},
	})

	tests := []struct {
		name     string
		raw      any
		wantRef  string // "" means nil
		wantNote bool
	}{
		{"hit", "John Smith", "P1", false},
		{"hit with noise", "  john   smith ", "P1", false},
		{"miss keeps note", "Jane Doe", "", true},
		{"absent reference is silent", nil, "", false},
		{"empty string is silent", "   ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, note := lookupRef(idx, tt.raw, "patient")
			if tt.wantRef == "" {
				if ref != nil {
					t.Errorf("ref = %q, want nil", *ref)
				}
			} else if ref == nil || *ref != tt.wantRef {
				t.Errorf("ref = %v, want %q", ref, tt.wantRef)
			}
			if (note != "") != tt.wantNote {
				t.Errorf("note = %q, wantNote = %v", note, tt.wantNote)
			}
		})
	}
}

func TestClockString(t *testing.T) {
	if got := clockString(nil); got != nil {
		t.Errorf("clockString(nil) = %v", got)
	}
	ts := time.Date(2024, 5, 1, 14, 30, 0, 0, time.UTC)
	if got := clockString(&ts); got == nil || *got != "14:30:00" {
		t.Errorf("clockString = %v, want 14:30:00", got)
	}
}

func TestIsExpenseRow(t *testing.T) {
	tests := []struct {
		name string
		row  source.Row
		want bool
	}{
		{"expense flag set", source.Row{"is_expense": "1"}, true},
		{"numeric flag", source.Row{"is_expense": 1.0}, true},
		{"flag clear", source.Row{"is_expense": "0"}, false},
		{"flag absent", source.Row{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isExpenseRow(tt.row); got != tt.want {
				t.Errorf("isExpenseRow = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInvoiceStatus(t *testing.T) {
	if got := invoiceStatus("Payed"); got == nil || *got != "paid" {
		t.Errorf("invoiceStatus(Payed) = %v, want paid", got)
	}
	if got := invoiceStatus("partially_paid"); got == nil || *got != "partially_paid" {
		t.Errorf("invoiceStatus(partially_paid) = %v", got)
	}
	if got := invoiceStatus(nil); got != nil {
		t.Errorf("invoiceStatus(nil) = %v, want nil", *got)
	}
}

func TestCurrencyOrDefault(t *testing.T) {
	if got := currencyOrDefault("EUR"); got == nil || *got != "EUR" {
		t.Errorf("currencyOrDefault(EUR) = %v", got)
	}
	if got := currencyOrDefault(nil); got == nil || *got != "USD" {
		t.Errorf("currencyOrDefault(nil) = %v, want USD", got)
	}
	if got := currencyOrDefault("  "); got == nil || *got != "USD" {
		t.Errorf("currencyOrDefault(blank) = %v, want USD", got)
	}
}
