package core

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"safepath/internal/domain/model"
	"safepath/internal/polyline"
)

type State string

const (
	StateIdle     State = "idle"
	StateQuerying State = "querying"
	StateReady    State = "ready"
	StateFailed   State = "failed"
)

type StatusKind string

const (
	StatusInfo  StatusKind = "info"
	StatusError StatusKind = "error"
)

const (
	placeholder = "--"

	promptMissingAddress = "Please enter both origin and destination."
	statusFinding        = "Finding routes..."
	noticeNoRoute        = "No route found"
	noticeHazardsFailed  = "Hazard data unavailable"
)

// Summary is the panel describing the selected route.
type Summary struct {
	Score    string `json:"score"`
	Distance string `json:"distance"`
	Duration string `json:"duration"`
	Alerts   string `json:"alerts"`
}

func emptySummary() Summary {
	return Summary{Score: placeholder, Distance: placeholder, Duration: placeholder, Alerts: placeholder}
}

// RouteRow is one entry of the route list.
type RouteRow struct {
	Ordinal     int  `json:"ordinal"`
	Score       int  `json:"score"`
	Active      bool `json:"active"`
	Unavailable bool `json:"unavailable,omitempty"`
}

// View is a point-in-time copy of everything the page displays.
type View struct {
	QueryID        string              `json:"query_id,omitempty"`
	State          State               `json:"state"`
	Status         string              `json:"status"`
	StatusKind     StatusKind          `json:"status_kind"`
	Prompt         string              `json:"prompt,omitempty"`
	Notice         string              `json:"notice,omitempty"`
	Summary        Summary             `json:"summary"`
	Metrics        *model.Metrics      `json:"metrics,omitempty"`
	Rows           []RouteRow          `json:"rows"`
	Selected       int                 `json:"selected"`
	HazardsVisible bool                `json:"hazards_visible"`
	HazardCount    int                 `json:"hazard_count"`
	HazardNotice   string              `json:"hazard_notice,omitempty"`
	Suggestions    map[string][]string `json:"suggestions,omitempty"`
}

type routeBinding struct {
	layer model.LayerID
	path  []model.Coordinate
}

// ViewController owns the route set, the hazard overlay and every map layer
// derived from them. All mutations happen under one mutex; network calls are
// made outside it and their results are applied only if no reset happened
// in the meantime.
type ViewController struct {
	log         *zap.Logger
	routes      model.RouteClient
	hazards     model.HazardSource
	view        MapView
	spawn       func(func())
	suggestions map[string]*SuggestionSource

	mu             sync.Mutex
	generation     uint64
	routeSet       *RouteSet
	overlay        *HazardOverlay
	bindings       []routeBinding
	ordinal        model.LayerID
	hazardLayers   []model.LayerID
	hazardsVisible bool
	panel          View
}

type ControllerOption func(*ViewController)

// WithSpawn replaces the goroutine launcher used for the hazard fetch.
func WithSpawn(spawn func(func())) ControllerOption {
	return func(c *ViewController) { c.spawn = spawn }
}

func WithHazardSource(src model.HazardSource) ControllerOption {
	return func(c *ViewController) { c.hazards = src }
}

func WithSuggestionSources(sources ...*SuggestionSource) ControllerOption {
	return func(c *ViewController) {
		for _, s := range sources {
			c.suggestions[s.Field()] = s
		}
	}
}

func NewViewController(routes model.RouteClient, view MapView, log *zap.Logger, opts ...ControllerOption) *ViewController {
	c := &ViewController{
		log:            log,
		routes:         routes,
		view:           view,
		spawn:          func(f func()) { go f() },
		suggestions:    make(map[string]*SuggestionSource),
		routeSet:       NewRouteSet(),
		overlay:        NewHazardOverlay(),
		hazardsVisible: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.panel = newPanel(c.hazardsVisible)
	return c
}

func newPanel(hazardsVisible bool) View {
	return View{
		State:          StateIdle,
		StatusKind:     StatusInfo,
		Summary:        emptySummary(),
		Selected:       -1,
		HazardsVisible: hazardsVisible,
	}
}

// Reset tears down every layer and returns the panel to its placeholders.
func (c *ViewController) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

func (c *ViewController) resetLocked() {
	c.generation++

	for _, b := range c.bindings {
		if b.layer != 0 {
			c.view.RemoveLayer(b.layer)
		}
	}
	c.bindings = nil

	if c.ordinal != 0 {
		c.view.RemoveLayer(c.ordinal)
		c.ordinal = 0
	}
	c.clearHazardLayersLocked()

	c.routeSet.Clear()
	c.overlay.Clear()
	c.panel = newPanel(c.hazardsVisible)
}

// Submit runs one route query: reset, validate, query, render. Validation
// failures never reach the network. A response that arrives after a newer
// Submit or Reset is dropped with model.ErrSuperseded.
func (c *ViewController) Submit(ctx context.Context, origin, destination string, mode model.CommuteMode) error {
	c.mu.Lock()
	c.resetLocked()
	gen := c.generation
	queryID := uuid.NewString()
	c.panel.QueryID = queryID
	log := c.log.With(zap.String("query_id", queryID))

	origin = strings.TrimSpace(origin)
	destination = strings.TrimSpace(destination)
	if origin == "" || destination == "" {
		c.panel.Prompt = promptMissingAddress
		c.mu.Unlock()
		return &model.ValidationError{Message: promptMissingAddress}
	}
	if mode == "" {
		mode = model.Walking
	}

	c.panel.State = StateQuerying
	c.setStatusLocked(statusFinding, StatusInfo)
	c.mu.Unlock()

	log.Info("route query started",
		zap.String("origin", origin),
		zap.String("destination", destination),
		zap.String("mode", string(mode)))

	routes, err := c.routes.FindRoutes(ctx, model.RouteQuery{
		StartAddress: origin,
		EndAddress:   destination,
		Mode:         mode,
	})

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		log.Info("dropping superseded route response")
		return model.ErrSuperseded
	}

	if err != nil {
		c.panel.State = StateFailed
		c.setStatusLocked(userMessage(err), StatusError)
		c.mu.Unlock()
		log.Warn("route query failed", zap.Error(err))
		return fmt.Errorf("find routes: %w", err)
	}

	if len(routes) == 0 {
		c.panel.State = StateIdle
		c.panel.Notice = noticeNoRoute
		c.setStatusLocked(noticeNoRoute, StatusInfo)
		c.mu.Unlock()
		log.Info("route query returned no routes")
		return nil
	}

	c.applyRoutesLocked(routes, log)
	c.panel.State = StateReady
	c.setStatusLocked(fmt.Sprintf("Found %d route(s)", len(routes)), StatusInfo)
	c.mu.Unlock()

	log.Info("routes rendered", zap.Int("routes", len(routes)))

	if c.hazards != nil {
		hazardCtx := context.WithoutCancel(ctx)
		c.spawn(func() { c.loadHazards(hazardCtx, gen, log) })
	}
	return nil
}

// Select makes index the selected route and re-derives the panel and styling.
func (c *ViewController) Select(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.routeSet.Select(index); err != nil {
		c.log.Error("route selection rejected", zap.Int("index", index), zap.Error(err))
		return err
	}
	c.applySelectionLocked()
	return nil
}

// SetHazardsVisible shows or hides the hazard layer without discarding data.
func (c *ViewController) SetHazardsVisible(visible bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if visible == c.hazardsVisible {
		return
	}
	c.hazardsVisible = visible
	c.panel.HazardsVisible = visible
	c.clearHazardLayersLocked()
	c.drawHazardsLocked()
}

// OnSuggestionInput forwards typed text to the field's suggestion source.
func (c *ViewController) OnSuggestionInput(field, text string) error {
	src, ok := c.suggestions[field]
	if !ok {
		return &model.ValidationError{Field: field, Message: "unknown input field"}
	}
	src.OnInput(text)
	return nil
}

func (c *ViewController) Suggestions(field string) ([]string, error) {
	src, ok := c.suggestions[field]
	if !ok {
		return nil, &model.ValidationError{Field: field, Message: "unknown input field"}
	}
	return src.Candidates(), nil
}

func (c *ViewController) Snapshot() View {
	c.mu.Lock()
	v := c.panel
	v.Rows = append([]RouteRow(nil), c.panel.Rows...)
	if c.panel.Metrics != nil {
		m := *c.panel.Metrics
		v.Metrics = &m
	}
	c.mu.Unlock()

	if len(c.suggestions) > 0 {
		v.Suggestions = make(map[string][]string, len(c.suggestions))
		for field, src := range c.suggestions {
			v.Suggestions[field] = src.Candidates()
		}
	}
	return v
}

func (c *ViewController) applyRoutesLocked(routes []model.ScoredRoute, log *zap.Logger) {
	c.routeSet.Replace(routes)
	c.bindings = make([]routeBinding, len(routes))
	c.panel.Rows = make([]RouteRow, len(routes))

	var fit model.Bounds
	haveFit := false
	for i, r := range routes {
		c.panel.Rows[i] = RouteRow{Ordinal: i + 1, Score: int(math.Round(r.Score))}

		path, err := polyline.Decode(r.Route.Geometry)
		if err != nil {
			log.Error("route geometry rejected", zap.Int("route", i), zap.Error(err))
			c.panel.Rows[i].Unavailable = true
			continue
		}
		if len(path) == 0 {
			continue
		}

		style := model.UnselectedRouteStyle
		if i == 0 {
			style = model.SelectedRouteStyle
		}
		c.bindings[i] = routeBinding{layer: c.view.AddPolyline(path, style), path: path}

		b, _ := pathBounds(path)
		if haveFit {
			fit = unionBounds(fit, b)
		} else {
			fit, haveFit = b, true
		}
	}

	if haveFit {
		c.view.FitBounds(fit)
	}
	c.applySelectionLocked()
}

func (c *ViewController) applySelectionLocked() {
	sel, ok := c.routeSet.Selected()
	if !ok {
		return
	}

	for i, b := range c.bindings {
		if b.layer == 0 {
			continue
		}
		style := model.UnselectedRouteStyle
		if i == sel {
			style = model.SelectedRouteStyle
		}
		c.view.SetPolylineStyle(b.layer, style)
	}

	for i := range c.panel.Rows {
		c.panel.Rows[i].Active = i == sel
	}
	c.panel.Selected = sel
	c.updateSummaryLocked()

	start, ok := c.startOf(sel)
	if !ok {
		if c.ordinal != 0 {
			c.view.RemoveLayer(c.ordinal)
			c.ordinal = 0
		}
		return
	}
	m := model.Marker{Kind: model.OrdinalMarker, At: start, Label: strconv.Itoa(sel + 1)}
	if c.ordinal == 0 {
		c.ordinal = c.view.AddMarker(m)
	} else {
		c.view.UpdateMarker(c.ordinal, m)
	}
}

// startOf is the first decoded vertex of the route, or its first leg's start
// when the geometry could not be used.
func (c *ViewController) startOf(index int) (model.Coordinate, bool) {
	if path := c.bindings[index].path; len(path) > 0 {
		return path[0], true
	}
	r, err := c.routeSet.Route(index)
	if err != nil || len(r.Route.Legs) == 0 {
		return model.Coordinate{}, false
	}
	return r.Route.Legs[0].Start, true
}

func (c *ViewController) updateSummaryLocked() {
	sel, ok := c.routeSet.Selected()
	if !ok {
		c.panel.Summary = emptySummary()
		c.panel.Metrics = nil
		return
	}

	route, err := c.routeSet.Route(sel)
	if err != nil {
		c.log.Error("selected route missing", zap.Int("index", sel), zap.Error(err))
		return
	}
	metrics, err := c.routeSet.DerivedMetrics(sel)
	if err != nil {
		c.log.Error("derive metrics", zap.Int("index", sel), zap.Error(err))
		return
	}

	summary := Summary{
		Score:    strconv.Itoa(int(math.Round(route.Score))),
		Distance: fmt.Sprintf("%.1f km", metrics.DistanceMeters/1000),
		Duration: fmt.Sprintf("%d mins", int(math.Round(metrics.DurationSeconds/60))),
		Alerts:   placeholder,
	}
	if path := c.bindings[sel].path; c.overlay.Loaded() && len(path) > 0 {
		summary.Alerts = strconv.Itoa(c.overlay.NearPath(path, hazardRadiusKm))
	}
	c.panel.Summary = summary
	c.panel.Metrics = &metrics
}

func (c *ViewController) loadHazards(ctx context.Context, gen uint64, log *zap.Logger) {
	records, err := c.hazards.Hazards(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		log.Info("dropping hazard data for superseded query")
		return
	}

	c.clearHazardLayersLocked()
	if err != nil {
		log.Warn("hazard fetch failed", zap.Error(err))
		c.overlay.Clear()
		c.panel.HazardCount = 0
		c.panel.HazardNotice = noticeHazardsFailed
		c.updateSummaryLocked()
		return
	}

	c.overlay.Load(records)
	c.panel.HazardCount = c.overlay.Len()
	c.panel.HazardNotice = ""
	c.drawHazardsLocked()
	c.updateSummaryLocked()
	log.Info("hazards loaded", zap.Int("received", len(records)), zap.Int("placed", c.overlay.Len()))
}

func (c *ViewController) drawHazardsLocked() {
	if !c.hazardsVisible {
		return
	}
	for _, m := range c.overlay.Markers() {
		c.hazardLayers = append(c.hazardLayers, c.view.AddMarker(m))
	}
}

func (c *ViewController) clearHazardLayersLocked() {
	for _, id := range c.hazardLayers {
		c.view.RemoveLayer(id)
	}
	c.hazardLayers = nil
}

func (c *ViewController) setStatusLocked(msg string, kind StatusKind) {
	c.panel.Status = msg
	c.panel.StatusKind = kind
}

func userMessage(err error) string {
	var te *model.TransportError
	if errors.As(err, &te) {
		return te.UserMessage()
	}
	return model.GenericRouteFailure
}
