package core

import (
	"fmt"

	"safepath/internal/domain/model"
)

const missingField = "N/A"

// HazardOverlay keeps the placeable subset of the last loaded hazard records.
type HazardOverlay struct {
	records []model.HazardRecord
	loaded  bool
}

func NewHazardOverlay() *HazardOverlay {
	return &HazardOverlay{}
}

// Load replaces the stored records with those that have a coordinate.
func (o *HazardOverlay) Load(records []model.HazardRecord) {
	kept := make([]model.HazardRecord, 0, len(records))
	for _, r := range records {
		if r.Coordinate == nil {
			continue
		}
		kept = append(kept, r)
	}
	o.records = kept
	o.loaded = true
}

func (o *HazardOverlay) Clear() {
	o.records = nil
	o.loaded = false
}

func (o *HazardOverlay) Loaded() bool { return o.loaded }

func (o *HazardOverlay) Len() int { return len(o.records) }

// Markers projects each stored record to one marker.
func (o *HazardOverlay) Markers() []model.Marker {
	markers := make([]model.Marker, 0, len(o.records))
	for _, r := range o.records {
		markers = append(markers, model.Marker{
			Kind:  model.HazardMarker,
			At:    *r.Coordinate,
			Popup: hazardPopup(r),
		})
	}
	return markers
}

// NearPath counts stored hazards within radiusKm of any vertex of path.
func (o *HazardOverlay) NearPath(path []model.Coordinate, radiusKm float64) int {
	n := 0
	for _, r := range o.records {
		if nearPath(*r.Coordinate, path, radiusKm) {
			n++
		}
	}
	return n
}

func hazardPopup(r model.HazardRecord) string {
	date := missingField
	if r.OccurredAt != nil && *r.OccurredAt != "" {
		date = formatOccurred(*r.OccurredAt)
	}
	return fmt.Sprintf("Category: %s\nOffence: %s\nDate: %s",
		orMissing(r.Category), orMissing(r.Description), date)
}

func orMissing(s *string) string {
	if s == nil || *s == "" {
		return missingField
	}
	return *s
}
