package normalize

import (
	"testing"
	"time"
)

func TestDate(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string // "" means nil expected
	}{
		{"iso", "1990-05-14", "1990-05-14"},
		{"day first slashes", "14/05/1990", "1990-05-14"},
		{"month first slashes", "05/25/1990", "1990-05-25"},
		{"year first slashes", "1990/05/14", "1990-05-14"},
		{"datetime fallback", "1990-05-14 10:30:00", "1990-05-14"},
		{"typed time", time.Date(2001, 2, 3, 9, 0, 0, 0, time.UTC), "2001-02-03"},
		{"garbage", "not a date", ""},
		{"nil", nil, ""},
		{"sentinel", "None", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Date(tt.input)
			if tt.want == "" {
				if got != nil {
					t.Fatalf("Date(%v) = %v, want nil", tt.input, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("Date(%v) = nil, want %s", tt.input, tt.want)
			}
			if got.Format("2006-01-02") != tt.want {
				t.Errorf("Date(%v) = %s, want %s", tt.input, got.Format("2006-01-02"), tt.want)
			}
		})
	}
}

func TestBirthDate(t *testing.T) {
	past := "1985-03-20"
	if got := BirthDate(past); got == nil || got.Format("2006-01-02") != past {
		t.Errorf("BirthDate(%q) = %v, want %s", past, got, past)
	}

	future := time.Now().UTC().AddDate(1, 0, 0).Format("2006-01-02")
	if got := BirthDate(future); got != nil {
		t.Errorf("BirthDate(%q) = %v, want nil for future date", future, got)
	}

	today := time.Now().UTC().Format("2006-01-02")
	if got := BirthDate(today); got == nil {
		t.Errorf("BirthDate(today) = nil, want today kept")
	}
}

func TestClock(t *testing.T) {
	if got := Clock("14:30:00"); got == nil || got.Format("15:04:05") != "14:30:00" {
		t.Errorf("Clock(\"14:30:00\") = %v", got)
	}
	if got := Clock("14:30"); got == nil || got.Format("15:04:05") != "14:30:00" {
		t.Errorf("Clock(\"14:30\") = %v", got)
	}
	ts := time.Date(2020, 1, 1, 9, 15, 0, 0, time.UTC)
	if got := Clock(ts); got == nil || got.Format("15:04:05") != "09:15:00" {
		t.Errorf("Clock(time) = %v", got)
	}
	if got := Clock("bogus"); got != nil {
		t.Errorf("Clock(\"bogus\") = %v, want nil", got)
	}
}

func TestDurationMinutes(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(45 * time.Minute)

	if got := DurationMinutes(&start, &end); got == nil || *got != 45 {
		t.Errorf("DurationMinutes = %v, want 45", got)
	}
	if got := DurationMinutes(&end, &start); got != nil {
		t.Errorf("negative span = %v, want nil", got)
	}
	if got := DurationMinutes(&start, &start); got != nil {
		t.Errorf("zero span = %v, want nil", got)
	}
	if got := DurationMinutes(nil, &end); got != nil {
		t.Errorf("missing start = %v, want nil", got)
	}
	if got := DurationMinutes(&start, nil); got != nil {
		t.Errorf("missing end = %v, want nil", got)
	}
}
