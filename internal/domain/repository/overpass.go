package repository

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/serjvanilla/go-overpass"

	"safepath/internal/domain/model"
)

// OverpassSuggester completes street names from OpenStreetMap.
type OverpassSuggester struct {
	client  *overpass.Client
	timeout time.Duration
	bounds  model.Bounds
	limit   int
}

func NewOverpassSuggester(endpoint string, timeout time.Duration, bbox string, limit int) (*OverpassSuggester, error) {
	bounds, err := parseBBox(bbox)
	if err != nil {
		return nil, fmt.Errorf("invalid bbox format: %w", err)
	}
	httpClient := &http.Client{
		Timeout: timeout,
	}
	client := overpass.NewWithSettings(endpoint, 2, httpClient)
	return &OverpassSuggester{
		client:  &client,
		timeout: timeout,
		bounds:  bounds,
		limit:   limit,
	}, nil
}

// Suggest returns distinct named highways whose name starts with query,
// sorted and capped at the configured limit.
func (r *OverpassSuggester) Suggest(ctx context.Context, query string) ([]string, error) {
	q := fmt.Sprintf(`
		[out:json][timeout:%d];
		(
			way["highway"]["name"~"%s",i](%s);
		);
		out tags;
	`,
		int(r.timeout.Seconds())+1,
		namePrefix(query),
		overpassBBox(r.bounds))

	result, err := r.executeQuery(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to execute street name query: %w", err)
	}

	return streetNames(result, r.limit), nil
}

func (r *OverpassSuggester) executeQuery(ctx context.Context, query string) (*overpass.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	type reply struct {
		result overpass.Result
		err    error
	}
	done := make(chan reply, 1)
	go func() {
		res, err := r.client.Query(query)
		done <- reply{res, err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("overpass query aborted: %w", ctx.Err())
	case rep := <-done:
		if rep.err != nil {
			return nil, fmt.Errorf("overpass query failed: %w", rep.err)
		}
		return &rep.result, nil
	}
}

func streetNames(result *overpass.Result, limit int) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, way := range result.Ways {
		name := strings.TrimSpace(way.Tags["name"])
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	sort.Strings(names)
	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}
	return names
}

// namePrefix builds a case-insensitive prefix regex for an Overpass QL
// string literal. User text is matched literally.
func namePrefix(query string) string {
	pattern := "^" + regexp.QuoteMeta(strings.TrimSpace(query))
	pattern = strings.ReplaceAll(pattern, `\`, `\\`)
	return strings.ReplaceAll(pattern, `"`, `\"`)
}

// overpassBBox renders bounds in Overpass QL order (south,west,north,east).
func overpassBBox(b model.Bounds) string {
	return fmt.Sprintf("%g,%g,%g,%g", b.MinLat, b.MinLng, b.MaxLat, b.MaxLng)
}
