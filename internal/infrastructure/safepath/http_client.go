package safepath

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"safepath/internal/domain/model"
)

const (
	endpointSafePath     = "safepath"
	endpointCrimeData    = "crime_data"
	endpointAutocomplete = "autocomplete"
)

// HTTPClient talks to the route scoring backend. It serves routes, hazards
// and address completions.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type safePathRequest struct {
	StartAddress string `json:"start_address"`
	EndAddress   string `json:"end_address"`
	CommuteMode  string `json:"commute_mode"`
}

type safePathResponse struct {
	SafestRoutes []scoredRouteDTO `json:"safest_routes"`
}

type scoredRouteDTO struct {
	Route routeDTO `json:"route"`
	Score float64  `json:"score"`
}

type routeDTO struct {
	OverviewPolyline struct {
		Points string `json:"points"`
	} `json:"overview_polyline"`
	Legs []legDTO `json:"legs"`
}

type valueDTO struct {
	Value float64 `json:"value"`
}

type locationDTO struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type stepDTO struct {
	Distance      valueDTO    `json:"distance"`
	Duration      valueDTO    `json:"duration"`
	StartLocation locationDTO `json:"start_location"`
	EndLocation   locationDTO `json:"end_location"`
}

type legDTO struct {
	Distance      valueDTO    `json:"distance"`
	Duration      valueDTO    `json:"duration"`
	StartLocation locationDTO `json:"start_location"`
	EndLocation   locationDTO `json:"end_location"`
	Steps         []stepDTO   `json:"steps"`
}

type crimeDTO struct {
	Lat      *float64 `json:"LAT_WGS84"`
	Lng      *float64 `json:"LONG_WGS84"`
	Category *string  `json:"MCI_CATEGORY"`
	Offence  *string  `json:"OFFENCE"`
	Date     *string  `json:"OCC_DATE"`
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// FindRoutes posts the query and returns the candidates in service order.
func (c *HTTPClient) FindRoutes(ctx context.Context, q model.RouteQuery) ([]model.ScoredRoute, error) {
	body, err := json.Marshal(safePathRequest{
		StartAddress: q.StartAddress,
		EndAddress:   q.EndAddress,
		CommuteMode:  string(q.Mode),
	})
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/safepath", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var resp safePathResponse
	if err := c.do(req, endpointSafePath, &resp); err != nil {
		return nil, err
	}

	routes := make([]model.ScoredRoute, 0, len(resp.SafestRoutes))
	for _, r := range resp.SafestRoutes {
		routes = append(routes, model.ScoredRoute{
			Route: toCandidate(r.Route),
			Score: r.Score,
		})
	}
	return routes, nil
}

// Hazards fetches incident records. Records are returned as received; ones
// without a position are dropped later by the overlay.
func (c *HTTPClient) Hazards(ctx context.Context) ([]model.HazardRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/crime_data", nil)
	if err != nil {
		return nil, fmt.Errorf("error building request: %w", err)
	}

	var rows []crimeDTO
	if err := c.do(req, endpointCrimeData, &rows); err != nil {
		return nil, err
	}

	records := make([]model.HazardRecord, 0, len(rows))
	for _, row := range rows {
		rec := model.HazardRecord{
			Category:    row.Category,
			Description: row.Offence,
			OccurredAt:  row.Date,
		}
		if row.Lat != nil && row.Lng != nil {
			rec.Coordinate = &model.Coordinate{Lat: *row.Lat, Lng: *row.Lng}
		}
		records = append(records, rec)
	}
	return records, nil
}

func (c *HTTPClient) Suggest(ctx context.Context, query string) ([]string, error) {
	u := c.baseURL + "/autocomplete?" + url.Values{"q": {query}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("error building request: %w", err)
	}

	var suggestions []string
	if err := c.do(req, endpointAutocomplete, &suggestions); err != nil {
		return nil, err
	}
	return suggestions, nil
}

func (c *HTTPClient) do(req *http.Request, endpoint string, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return &model.TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &model.TransportError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.Body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &model.TransportError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("error decoding response: %w", err),
		}
	}
	return nil
}

// errorMessage extracts "error", else "message", from a JSON error body.
func errorMessage(body io.Reader) string {
	var e errorBody
	if err := json.NewDecoder(io.LimitReader(body, 64<<10)).Decode(&e); err != nil {
		return ""
	}
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}

func toCandidate(r routeDTO) model.RouteCandidate {
	legs := make([]model.Leg, 0, len(r.Legs))
	for _, l := range r.Legs {
		leg := model.Leg{
			DistanceMeters:  l.Distance.Value,
			DurationSeconds: l.Duration.Value,
			Start:           toCoordinate(l.StartLocation),
			End:             toCoordinate(l.EndLocation),
		}
		for _, s := range l.Steps {
			leg.Steps = append(leg.Steps, model.Step{
				DistanceMeters:  s.Distance.Value,
				DurationSeconds: s.Duration.Value,
				Start:           toCoordinate(s.StartLocation),
				End:             toCoordinate(s.EndLocation),
			})
		}
		legs = append(legs, leg)
	}
	return model.RouteCandidate{Geometry: r.OverviewPolyline.Points, Legs: legs}
}

func toCoordinate(l locationDTO) model.Coordinate {
	return model.Coordinate{Lat: l.Lat, Lng: l.Lng}
}
