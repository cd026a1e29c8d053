package excelsrc

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, sheets map[string][][]any) string {
	t.Helper()
	f := excelize.NewFile()
	for sheet, rows := range sheets {
		if _, err := f.NewSheet(sheet); err != nil {
			t.Fatal(err)
		}
		for i, row := range rows {
			cell, _ := excelize.CoordinatesToCellName(1, i+1)
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				t.Fatal(err)
			}
		}
	}
	f.DeleteSheet("Sheet1")

	path := filepath.Join(t.TempDir(), "clinic.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()
	return path
}

func TestRows(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{
		"Patients": {
			{"id", "first_name", "last_name", "gender"},
			{"1", "John", "Smith", "M"},
			{"2", "Lena", "", "F"},
			{"", "", "", ""},
		},
	})

	wb, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer wb.Close()

	rows, err := wb.Rows("Patients")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2 (blank row dropped)", len(rows))
	}

	if rows[0]["first_name"] != "John" || rows[0]["id"] != "1" {
		t.Errorf("first row = %v", rows[0])
	}
	// Empty cells are absent, not empty strings.
	if _, present := rows[1]["last_name"]; present {
		t.Errorf("empty cell should be absent, row = %v", rows[1])
	}
}

func TestRowsUnknownSheet(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{
		"Patients": {{"id"}, {"1"}},
	})

	wb, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer wb.Close()

	if _, err := wb.Rows("Missing"); err == nil {
		t.Error("expected error for unknown sheet")
	}
}

func TestDistinctValues(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{
		"Appointments": {
			{"id", "doctor"},
			{"1", "Dr. Lena Makary"},
			{"2", "Dr. Rami Khoury"},
			{"3", "Dr. Lena Makary"},
			{"4", ""},
		},
	})

	wb, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer wb.Close()

	values, err := wb.DistinctValues("Appointments", "doctor")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Dr. Lena Makary", "Dr. Rami Khoury"}
	if len(values) != len(want) {
		t.Fatalf("values = %v, want %v", values, want)
	}
	for i := range want {
		if values[i] != want[i] {
			t.Errorf("values[%d] = %q, want %q (first-seen order)", i, values[i], want[i])
		}
	}
}

func TestIterator(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{
		"stock": {
			{"id", "name"},
			{"1", "Gloves"},
			{"2", "Masks"},
		},
	})

	wb, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer wb.Close()

	it, err := wb.Iterator("stock")
	if err != nil {
		t.Fatal(err)
	}
	defer it.Close()

	count := 0
	for {
		_, ok := it.Next()
		if !ok {
			break
		}
		count++
	}
	if count != 2 {
		t.Errorf("iterated %d rows, want 2", count)
	}
	if it.Err() != nil {
		t.Errorf("Err = %v", it.Err())
	}
}
