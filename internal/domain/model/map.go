package model

// LayerID identifies a layer added to a map view. Zero means "no layer".
type LayerID int

type PolylineStyle struct {
	Color   string  `json:"color"`
	Weight  int     `json:"weight"`
	Opacity float64 `json:"opacity"`
}

var (
	SelectedRouteStyle   = PolylineStyle{Color: "#44d07b", Weight: 7, Opacity: 0.9}
	UnselectedRouteStyle = PolylineStyle{Color: "#8a8a8a", Weight: 5, Opacity: 0.45}
)

type MarkerKind string

const (
	OrdinalMarker MarkerKind = "ordinal"
	HazardMarker  MarkerKind = "hazard"
)

type Marker struct {
	Kind  MarkerKind `json:"kind"`
	At    Coordinate `json:"at"`
	Label string     `json:"label,omitempty"`
	Popup string     `json:"popup,omitempty"`
}
