// Package render keeps map layers in memory and exports them as GeoJSON for
// the page to draw.
package render

import (
	"sort"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"safepath/internal/domain/model"
)

type Polyline struct {
	ID    model.LayerID
	Path  []model.Coordinate
	Style model.PolylineStyle
}

type layer struct {
	polyline *Polyline
	marker   *model.Marker
}

// Scene is a MapView that records layers instead of drawing them.
type Scene struct {
	mu       sync.RWMutex
	next     model.LayerID
	layers   map[model.LayerID]*layer
	viewport *model.Bounds
}

func NewScene() *Scene {
	return &Scene{layers: make(map[model.LayerID]*layer)}
}

func (s *Scene) AddPolyline(path []model.Coordinate, style model.PolylineStyle) model.LayerID {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	s.layers[s.next] = &layer{polyline: &Polyline{
		ID:    s.next,
		Path:  append([]model.Coordinate(nil), path...),
		Style: style,
	}}
	return s.next
}

func (s *Scene) SetPolylineStyle(id model.LayerID, style model.PolylineStyle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l, ok := s.layers[id]; ok && l.polyline != nil {
		l.polyline.Style = style
	}
}

func (s *Scene) AddMarker(m model.Marker) model.LayerID {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	s.layers[s.next] = &layer{marker: &m}
	return s.next
}

func (s *Scene) UpdateMarker(id model.LayerID, m model.Marker) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l, ok := s.layers[id]; ok && l.marker != nil {
		l.marker = &m
	}
}

func (s *Scene) RemoveLayer(id model.LayerID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.layers, id)
}

func (s *Scene) FitBounds(b model.Bounds) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport = &b
}

// Viewport returns the last fitted bounds.
func (s *Scene) Viewport() (model.Bounds, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.viewport == nil {
		return model.Bounds{}, false
	}
	return *s.viewport, true
}

func (s *Scene) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.layers)
}

// Polylines returns the route layers in creation order.
func (s *Scene) Polylines() []Polyline {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Polyline
	for _, id := range s.sortedIDs() {
		if p := s.layers[id].polyline; p != nil {
			cp := *p
			cp.Path = append([]model.Coordinate(nil), p.Path...)
			out = append(out, cp)
		}
	}
	return out
}

// Markers returns the markers of the given kind in creation order.
func (s *Scene) Markers(kind model.MarkerKind) []model.Marker {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Marker
	for _, id := range s.sortedIDs() {
		if m := s.layers[id].marker; m != nil && m.Kind == kind {
			out = append(out, *m)
		}
	}
	return out
}

// FeatureCollection exports every layer. Route lines carry their style,
// markers their kind, label and popup; the collection's bbox is the viewport.
func (s *Scene) FeatureCollection() *geojson.FeatureCollection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fc := geojson.NewFeatureCollection()
	for _, id := range s.sortedIDs() {
		l := s.layers[id]
		switch {
		case l.polyline != nil:
			line := make(orb.LineString, 0, len(l.polyline.Path))
			for _, c := range l.polyline.Path {
				line = append(line, toPoint(c))
			}
			f := geojson.NewFeature(line)
			f.Properties["layer"] = int(id)
			f.Properties["kind"] = "route"
			f.Properties["color"] = l.polyline.Style.Color
			f.Properties["weight"] = l.polyline.Style.Weight
			f.Properties["opacity"] = l.polyline.Style.Opacity
			fc.Append(f)
		case l.marker != nil:
			f := geojson.NewFeature(toPoint(l.marker.At))
			f.Properties["layer"] = int(id)
			f.Properties["kind"] = string(l.marker.Kind)
			if l.marker.Label != "" {
				f.Properties["label"] = l.marker.Label
			}
			if l.marker.Popup != "" {
				f.Properties["popup"] = l.marker.Popup
			}
			fc.Append(f)
		}
	}

	if s.viewport != nil {
		fc.BBox = geojson.NewBBox(orb.Bound{
			Min: orb.Point{s.viewport.MinLng, s.viewport.MinLat},
			Max: orb.Point{s.viewport.MaxLng, s.viewport.MaxLat},
		})
	}
	return fc
}

func (s *Scene) sortedIDs() []model.LayerID {
	ids := make([]model.LayerID, 0, len(s.layers))
	for id := range s.layers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// GeoJSON positions are lng, lat.
func toPoint(c model.Coordinate) orb.Point {
	return orb.Point{c.Lng, c.Lat}
}
