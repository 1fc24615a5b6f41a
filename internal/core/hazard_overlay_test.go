package core

import (
	"strings"
	"testing"

	"safepath/internal/domain/model"
)

func strPtr(s string) *string { return &s }

func at(lat, lng float64) *model.Coordinate {
	return &model.Coordinate{Lat: lat, Lng: lng}
}

func TestHazardOverlayFiltersRecordsWithoutCoordinate(t *testing.T) {
	o := NewHazardOverlay()
	o.Load([]model.HazardRecord{
		{Coordinate: at(43.65, -79.38), Category: strPtr("Assault")},
		{Category: strPtr("Robbery")},
		{Coordinate: at(43.66, -79.39)},
		{},
	})

	if !o.Loaded() {
		t.Fatal("overlay should report loaded")
	}
	markers := o.Markers()
	if len(markers) != 2 {
		t.Fatalf("got %d markers, want 2", len(markers))
	}
	for _, m := range markers {
		if m.Kind != model.HazardMarker {
			t.Errorf("marker kind = %q", m.Kind)
		}
	}
	if markers[0].At != (model.Coordinate{Lat: 43.65, Lng: -79.38}) {
		t.Errorf("first marker at %v", markers[0].At)
	}
}

func TestHazardOverlayPopupPlaceholders(t *testing.T) {
	o := NewHazardOverlay()
	o.Load([]model.HazardRecord{
		{Coordinate: at(1, 1)},
		{
			Coordinate:  at(2, 2),
			Category:    strPtr("Break and Enter"),
			Description: strPtr("B&E W'Intent"),
			OccurredAt:  strPtr("2023-04-01T05:00:00"),
		},
		{Coordinate: at(3, 3), OccurredAt: strPtr("sometime in spring")},
	})

	markers := o.Markers()
	want := []string{
		"Category: N/A\nOffence: N/A\nDate: N/A",
		"Category: Break and Enter\nOffence: B&E W'Intent\nDate: 2023-04-01",
		"Category: N/A\nOffence: N/A\nDate: sometime in spring",
	}
	for i, w := range want {
		if markers[i].Popup != w {
			t.Errorf("popup %d = %q, want %q", i, markers[i].Popup, w)
		}
	}
}

func TestHazardOverlayClear(t *testing.T) {
	o := NewHazardOverlay()
	o.Load([]model.HazardRecord{{Coordinate: at(1, 1)}})
	o.Clear()
	if o.Loaded() || o.Len() != 0 || len(o.Markers()) != 0 {
		t.Error("Clear should empty the overlay")
	}

	o.Load(nil)
	if !o.Loaded() || o.Len() != 0 {
		t.Error("loading zero records is still a successful load")
	}
}

func TestHazardOverlayNearPath(t *testing.T) {
	path := []model.Coordinate{{Lat: 43.6532, Lng: -79.3832}, {Lat: 43.6555, Lng: -79.3800}}

	o := NewHazardOverlay()
	o.Load([]model.HazardRecord{
		{Coordinate: at(43.6556, -79.3801)},
		{Coordinate: at(43.6533, -79.3833)},
		{Coordinate: at(43.7500, -79.5000)},
	})

	if got := o.NearPath(path, hazardRadiusKm); got != 2 {
		t.Errorf("NearPath = %d, want 2", got)
	}
	if got := o.NearPath(nil, hazardRadiusKm); got != 0 {
		t.Errorf("NearPath(nil) = %d, want 0", got)
	}
}

func TestFormatOccurred(t *testing.T) {
	tests := map[string]string{
		"2023-01-15T05:00:00Z": "2023-01-15",
		"2023-01-15 13:45:00":  "2023-01-15",
		"2023-01-15":           "2023-01-15",
		"1/15/2023 5:00:00 AM": "2023-01-15",
		"  2023-01-15  ":       "2023-01-15",
		"Sun, 15 Jan 2023":     "Sun, 15 Jan 2023",
	}
	for in, want := range tests {
		if got := formatOccurred(in); got != want {
			t.Errorf("formatOccurred(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPathBoundsAndUnion(t *testing.T) {
	if _, ok := pathBounds(nil); ok {
		t.Error("empty path has no bounds")
	}
	a, _ := pathBounds([]model.Coordinate{{Lat: 1, Lng: 5}, {Lat: 3, Lng: 2}})
	b, _ := pathBounds([]model.Coordinate{{Lat: -1, Lng: 4}})
	got := unionBounds(a, b)
	want := model.Bounds{MinLat: -1, MinLng: 2, MaxLat: 3, MaxLng: 5}
	if got != want {
		t.Errorf("union = %+v, want %+v", got, want)
	}
	if !strings.Contains(hazardPopup(model.HazardRecord{}), "N/A") {
		t.Error("empty record popup should use placeholders")
	}
}
