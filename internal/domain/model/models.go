package model

// Coordinate is a WGS84 point. Decoded geometry carries 5 fractional digits.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLat float64 `json:"max_lat"`
	MaxLng float64 `json:"max_lng"`
}

type CommuteMode string

const (
	Walking CommuteMode = "walking"
	Driving CommuteMode = "driving"
	Cycling CommuteMode = "cycling"
	Transit CommuteMode = "transit"
)

type RouteQuery struct {
	StartAddress string
	EndAddress   string
	Mode         CommuteMode
}

type Step struct {
	DistanceMeters  float64
	DurationSeconds float64
	Start           Coordinate
	End             Coordinate
}

type Leg struct {
	DistanceMeters  float64
	DurationSeconds float64
	Start           Coordinate
	End             Coordinate
	Steps           []Step
}

// Totals returns the leg's own distance and duration, falling back to the sum
// of its steps when the service only reported them at step granularity.
func (l Leg) Totals() (distance, duration float64) {
	if l.DistanceMeters != 0 || l.DurationSeconds != 0 || len(l.Steps) == 0 {
		return l.DistanceMeters, l.DurationSeconds
	}
	for _, s := range l.Steps {
		distance += s.DistanceMeters
		duration += s.DurationSeconds
	}
	return distance, duration
}

// RouteCandidate is produced by the routing service and never mutated here.
type RouteCandidate struct {
	Geometry string
	Legs     []Leg
}

// ScoredRoute pairs a candidate with its safety score (0 = safest).
type ScoredRoute struct {
	Route RouteCandidate
	Score float64
}

type Metrics struct {
	DistanceMeters  float64 `json:"distance_meters"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// HazardRecord is a geolocated incident. Every field may be absent.
type HazardRecord struct {
	Coordinate  *Coordinate
	Category    *string
	Description *string
	OccurredAt  *string
}
