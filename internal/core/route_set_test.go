package core

import (
	"errors"
	"testing"

	"safepath/internal/domain/model"
)

func scored(score float64, legs ...model.Leg) model.ScoredRoute {
	return model.ScoredRoute{Route: model.RouteCandidate{Legs: legs}, Score: score}
}

func leg(distance, duration float64) model.Leg {
	return model.Leg{DistanceMeters: distance, DurationSeconds: duration}
}

func TestRouteSetStartsEmpty(t *testing.T) {
	s := NewRouteSet()
	if !s.Empty() {
		t.Fatal("new set should be empty")
	}
	if _, ok := s.Selected(); ok {
		t.Error("empty set must not report a selection")
	}
	if err := s.Select(0); !errors.Is(err, model.ErrOutOfRange) {
		t.Errorf("Select(0) on empty set = %v, want ErrOutOfRange", err)
	}
}

func TestRouteSetReplaceSelectsFirst(t *testing.T) {
	s := NewRouteSet()
	// Scores deliberately not ascending: position 0 stays the default.
	s.Replace([]model.ScoredRoute{scored(47), scored(12), scored(30)})

	sel, ok := s.Selected()
	if !ok || sel != 0 {
		t.Fatalf("Selected() = %d, %v; want 0, true", sel, ok)
	}
	first, _ := s.Route(0)
	if first.Score != 47 {
		t.Errorf("route order changed: first score %v, want 47", first.Score)
	}

	if err := s.Select(2); err != nil {
		t.Fatalf("Select(2): %v", err)
	}
	s.Replace([]model.ScoredRoute{scored(5), scored(6)})
	if sel, _ := s.Selected(); sel != 0 {
		t.Errorf("Replace kept old selection %d", sel)
	}

	s.Replace(nil)
	if !s.Empty() {
		t.Error("Replace(nil) should leave the set empty")
	}
	if _, ok := s.Selected(); ok {
		t.Error("Replace(nil) should leave nothing selected")
	}
}

func TestRouteSetReplaceCopiesInput(t *testing.T) {
	routes := []model.ScoredRoute{scored(1), scored(2)}
	s := NewRouteSet()
	s.Replace(routes)
	routes[0].Score = 99

	got, _ := s.Route(0)
	if got.Score != 1 {
		t.Errorf("set observed caller mutation: score %v", got.Score)
	}
}

func TestRouteSetSelectOutOfRangeKeepsSelection(t *testing.T) {
	s := NewRouteSet()
	s.Replace([]model.ScoredRoute{scored(1), scored(2)})
	if err := s.Select(1); err != nil {
		t.Fatalf("Select(1): %v", err)
	}

	for _, idx := range []int{-1, 2, 100} {
		err := s.Select(idx)
		var oor *model.OutOfRangeError
		if !errors.As(err, &oor) {
			t.Fatalf("Select(%d) = %v, want *OutOfRangeError", idx, err)
		}
		if oor.Index != idx || oor.Len != 2 {
			t.Errorf("error fields = %+v", oor)
		}
		if sel, _ := s.Selected(); sel != 1 {
			t.Errorf("Select(%d) changed selection to %d", idx, sel)
		}
	}
}

func TestRouteSetDerivedMetrics(t *testing.T) {
	s := NewRouteSet()
	s.Replace([]model.ScoredRoute{
		scored(12, leg(1200, 600), leg(300, 120)),
		scored(47, leg(2500, 1500)),
		scored(60, model.Leg{Steps: []model.Step{
			{DistanceMeters: 100, DurationSeconds: 60},
			{DistanceMeters: 50, DurationSeconds: 30},
		}}),
	})

	tests := []struct {
		index int
		want  model.Metrics
	}{
		{0, model.Metrics{DistanceMeters: 1500, DurationSeconds: 720}},
		{1, model.Metrics{DistanceMeters: 2500, DurationSeconds: 1500}},
		{2, model.Metrics{DistanceMeters: 150, DurationSeconds: 90}},
	}
	for _, tt := range tests {
		if err := s.Select(tt.index); err != nil {
			t.Fatalf("Select(%d): %v", tt.index, err)
		}
		got, err := s.DerivedMetrics(tt.index)
		if err != nil {
			t.Fatalf("DerivedMetrics(%d): %v", tt.index, err)
		}
		if got != tt.want {
			t.Errorf("DerivedMetrics(%d) = %+v, want %+v", tt.index, got, tt.want)
		}
	}

	if _, err := s.DerivedMetrics(3); !errors.Is(err, model.ErrOutOfRange) {
		t.Errorf("DerivedMetrics(3) = %v, want ErrOutOfRange", err)
	}
}
