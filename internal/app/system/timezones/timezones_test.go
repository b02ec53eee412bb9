package timezones

import (
	"testing"
	"time"
)

func TestAll(t *testing.T) {
	zs := All()
	if len(zs) == 0 {
		t.Fatal("All() returned empty zones list")
	}
	for i := 1; i < len(zs); i++ {
		if zs[i].Label < zs[i-1].Label {
			t.Errorf("zones not sorted: %q comes after %q", zs[i].Label, zs[i-1].Label)
		}
	}

	// Callers cannot mutate the package list.
	zs[0].ID = "changed"
	if All()[0].ID == "changed" {
		t.Error("All() exposes internal slice")
	}
}

func TestLabel(t *testing.T) {
	if got := Label("Asia/Kolkata"); got != "India Standard Time (IST)" {
		t.Errorf("Label(Asia/Kolkata) = %q", got)
	}
	if got := Label("Invalid/Timezone"); got != "Invalid/Timezone" {
		t.Errorf("Label(unknown) = %q, want the ID back", got)
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"Asia/Kolkata", true},
		{"UTC", true},
		{"America/New_York", false},
		{"Invalid/Timezone", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := Valid(tt.id); got != tt.want {
				t.Errorf("Valid(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestLocation(t *testing.T) {
	loc, err := Location("")
	if err != nil {
		t.Fatalf("Location(default): %v", err)
	}
	if loc.String() != Default {
		t.Errorf("default location = %s", loc)
	}

	// IST is UTC+05:30 with no daylight saving.
	_, offset := time.Date(2026, 7, 1, 12, 0, 0, 0, loc).Zone()
	if offset != 5*3600+30*60 {
		t.Errorf("IST offset = %d", offset)
	}

	again, _ := Location(Default)
	if again != loc {
		t.Error("expected cached location")
	}

	if _, err := Location("Mars/Olympus"); err == nil {
		t.Error("expected error for unsupported zone")
	}
}
