package core

import "safepath/internal/domain/model"

// RouteSet holds the scored candidates of the current query and which one is
// selected. Position 0 is the route the service designated safest and is
// always the default selection; the set never reorders by score.
//
// RouteSet is not safe for concurrent use; ViewController serialises access.
type RouteSet struct {
	routes   []model.ScoredRoute
	selected int
}

func NewRouteSet() *RouteSet {
	return &RouteSet{selected: -1}
}

// Replace discards the previous routes and selects index 0 if any remain.
func (s *RouteSet) Replace(routes []model.ScoredRoute) {
	if len(routes) == 0 {
		s.routes = nil
		s.selected = -1
		return
	}
	s.routes = make([]model.ScoredRoute, len(routes))
	copy(s.routes, routes)
	s.selected = 0
}

func (s *RouteSet) Clear() {
	s.Replace(nil)
}

// Select changes the selection. An invalid index leaves it untouched.
func (s *RouteSet) Select(index int) error {
	if err := s.check(index); err != nil {
		return err
	}
	s.selected = index
	return nil
}

// Selected returns the selected index, or false when the set is empty.
func (s *RouteSet) Selected() (int, bool) {
	if len(s.routes) == 0 {
		return -1, false
	}
	return s.selected, true
}

func (s *RouteSet) Len() int { return len(s.routes) }

func (s *RouteSet) Empty() bool { return len(s.routes) == 0 }

func (s *RouteSet) Route(index int) (model.ScoredRoute, error) {
	if err := s.check(index); err != nil {
		return model.ScoredRoute{}, err
	}
	return s.routes[index], nil
}

// DerivedMetrics sums the legs of the route at index. Totals are recomputed
// on every call.
func (s *RouteSet) DerivedMetrics(index int) (model.Metrics, error) {
	if err := s.check(index); err != nil {
		return model.Metrics{}, err
	}

	var m model.Metrics
	for _, leg := range s.routes[index].Route.Legs {
		distance, duration := leg.Totals()
		m.DistanceMeters += distance
		m.DurationSeconds += duration
	}
	return m, nil
}

func (s *RouteSet) check(index int) error {
	if index < 0 || index >= len(s.routes) {
		return &model.OutOfRangeError{Index: index, Len: len(s.routes)}
	}
	return nil
}
