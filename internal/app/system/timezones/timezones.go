// Package timezones holds the zones carehub can report in and resolves
// them to *time.Location. Dashboard day boundaries ("today's
// appointments") are computed in the configured zone.
package timezones

import (
	"fmt"
	"sort"
	"sync"
	"time"

	// Containers often ship without /usr/share/zoneinfo.
	_ "time/tzdata"
)

// Default is the zone used when none is configured.
const Default = "Asia/Kolkata"

type Zone struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Region string `json:"region,omitempty"`
}

var zones = []Zone{
	{ID: "Asia/Kolkata", Label: "India Standard Time (IST)", Region: "Asia"},
	{ID: "Asia/Kathmandu", Label: "Nepal Time (NPT)", Region: "Asia"},
	{ID: "Asia/Dhaka", Label: "Bangladesh Time (BST)", Region: "Asia"},
	{ID: "Asia/Colombo", Label: "Sri Lanka Time", Region: "Asia"},
	{ID: "Asia/Dubai", Label: "Gulf Standard Time (GST)", Region: "Asia"},
	{ID: "Europe/London", Label: "London (GMT/BST)", Region: "Europe"},
	{ID: "UTC", Label: "Coordinated Universal Time (UTC)", Region: "Other"},
}

var (
	byIDOnce sync.Once
	byID     map[string]Zone

	locMu sync.Mutex
	locs  = map[string]*time.Location{}
)

func index() map[string]Zone {
	byIDOnce.Do(func() {
		byID = make(map[string]Zone, len(zones))
		for _, z := range zones {
			byID[z.ID] = z
		}
	})
	return byID
}

// All returns the supported zones sorted by label.
func All() []Zone {
	out := make([]Zone, len(zones))
	copy(out, zones)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// Label returns the human-friendly label for an ID, or the ID itself if not found.
func Label(id string) string {
	if z, ok := index()[id]; ok {
		return z.Label
	}
	return id
}

// Valid reports whether id is a supported zone.
func Valid(id string) bool {
	_, ok := index()[id]
	return ok
}

// Location resolves id, caching the result. An empty id means Default.
func Location(id string) (*time.Location, error) {
	if id == "" {
		id = Default
	}
	if !Valid(id) {
		return nil, fmt.Errorf("unsupported time zone %q", id)
	}

	locMu.Lock()
	defer locMu.Unlock()
	if loc, ok := locs[id]; ok {
		return loc, nil
	}
	loc, err := time.LoadLocation(id)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", id, err)
	}
	locs[id] = loc
	return loc, nil
}
