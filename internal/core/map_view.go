package core

import "safepath/internal/domain/model"

// MapView is the rendering substrate the controller drives. Layer IDs
// returned by Add* are never zero.
type MapView interface {
	AddPolyline(path []model.Coordinate, style model.PolylineStyle) model.LayerID
	SetPolylineStyle(id model.LayerID, style model.PolylineStyle)
	AddMarker(m model.Marker) model.LayerID
	UpdateMarker(id model.LayerID, m model.Marker)
	RemoveLayer(id model.LayerID)
	FitBounds(b model.Bounds)
}
