package model

import "context"

// RouteClient queries the external route/score service.
type RouteClient interface {
	// FindRoutes returns the scored candidates with the safest one first.
	FindRoutes(ctx context.Context, query RouteQuery) ([]ScoredRoute, error)
}

// HazardSource returns incident records for the overlay.
type HazardSource interface {
	Hazards(ctx context.Context) ([]HazardRecord, error)
}

// SuggestionFetcher returns address completions for free text.
type SuggestionFetcher interface {
	Suggest(ctx context.Context, query string) ([]string, error)
}
