package panel

import (
	"testing"
	"time"
)

func TestClockFormat(t *testing.T) {
	at := time.Date(2026, 10, 14, 9, 5, 7, 0, time.UTC)

	tests := []struct {
		name               string
		format             ClockFormat
		wantTime, wantDate string
	}{
		{"default strftime", DefaultClockFormat(), "9:05", "Wed, Oct 14 2026"},
		{"go layouts", ClockFormat{Time: "3:04 PM", Date: "Monday 2"}, "9:05 AM", "Wednesday 14"},
		{"mixed", ClockFormat{Time: "%H:%M:%S", Date: "2006-01-02"}, "09:05:07", "2026-10-14"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotTime, gotDate := tt.format.Format(at)
			if gotTime != tt.wantTime {
				t.Errorf("time = %q, want %q", gotTime, tt.wantTime)
			}
			if gotDate != tt.wantDate {
				t.Errorf("date = %q, want %q", gotDate, tt.wantDate)
			}
		})
	}
}

func TestNewClockFormat(t *testing.T) {
	if _, err := NewClockFormat("%H:%M", "2006-01-02"); err != nil {
		t.Errorf("valid formats rejected: %v", err)
	}
	if _, err := NewClockFormat("", "%Y"); err == nil {
		t.Error("empty time format accepted")
	}
	if _, err := NewClockFormat("%H", "   "); err == nil {
		t.Error("blank date format accepted")
	}
}

func TestDefaultClockFormatIsUnpadded(t *testing.T) {
	tests := []struct {
		at                 time.Time
		wantTime, wantDate string
	}{
		{time.Date(2026, 10, 4, 9, 5, 0, 0, time.UTC), "9:05", "Sun, Oct 4 2026"},
		{time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), "0:00", "Sat, Jan 31 2026"},
		{time.Date(2026, 12, 25, 23, 59, 0, 0, time.UTC), "23:59", "Fri, Dec 25 2026"},
	}
	for _, tt := range tests {
		gotTime, gotDate := DefaultClockFormat().Format(tt.at)
		if gotTime != tt.wantTime || gotDate != tt.wantDate {
			t.Errorf("Format(%v) = %q, %q; want %q, %q", tt.at, gotTime, gotDate, tt.wantTime, tt.wantDate)
		}
	}
}

func TestClockFormatGNUDirectives(t *testing.T) {
	at := time.Date(2026, 3, 4, 7, 8, 9, 0, time.UTC)

	tests := []struct {
		layout, want string
	}{
		{"%-k", "7"},
		{"%k", " 7"},
		{"%e", " 4"},
		{"%-e", "4"},
		{"%l", " 7"},
		{"%-I %p", "7 AM"},
		{"%-H:%-M:%-S", "7:8:9"},
		{"%-d/%-m", "4/3"},
		{"%h", "Mar"},
		{"%%k", "%k"},
		{"100%%", "100%"},
	}
	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			if err := CheckFormat(tt.layout); err != nil {
				t.Fatalf("CheckFormat(%q) = %v", tt.layout, err)
			}
			if got, _ := (ClockFormat{Time: tt.layout, Date: tt.layout}).Format(at); got != tt.want {
				t.Errorf("Format(%q) = %q, want %q", tt.layout, got, tt.want)
			}
		})
	}
}

func TestClockFormatUnknownDirective(t *testing.T) {
	at := time.Date(2026, 3, 4, 7, 8, 9, 0, time.UTC)

	for _, layout := range []string{"%Q", "%H %g"} {
		t.Run(layout, func(t *testing.T) {
			if err := CheckFormat(layout); err == nil {
				t.Errorf("CheckFormat(%q) accepted an unknown directive", layout)
			}
			if _, err := formatLayout(layout, at); err == nil {
				t.Errorf("formatLayout(%q) reported no error", layout)
			}
			// Unvalidated formats fall back to the raw pattern.
			if got, _ := (ClockFormat{Time: layout}).Format(at); got != layout {
				t.Errorf("Format(%q) = %q, want the raw pattern", layout, got)
			}
		})
	}
	if err := CheckFormat("%-q"); err == nil {
		t.Errorf("CheckFormat accepted %%-q")
	}
}
