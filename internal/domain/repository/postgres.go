package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"safepath/internal/domain/model"
)

// PostGISHazardRepository serves incident records from a PostGIS table.
type PostGISHazardRepository struct {
	db     *sqlx.DB
	bounds model.Bounds
	limit  int
}

type incidentRow struct {
	Lat        sql.NullFloat64 `db:"lat"`
	Lng        sql.NullFloat64 `db:"lng"`
	Category   sql.NullString  `db:"category"`
	Offence    sql.NullString  `db:"offence"`
	OccurredAt sql.NullString  `db:"occurred_at"`
}

func NewPostGISHazardRepository(connStr, bbox string, limit int) (*PostGISHazardRepository, error) {
	bounds, err := parseBBox(bbox)
	if err != nil {
		return nil, fmt.Errorf("invalid bbox format: %w", err)
	}
	db, err := sqlx.Connect("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return &PostGISHazardRepository{db: db, bounds: bounds, limit: limit}, nil
}

func (r *PostGISHazardRepository) Close() error {
	return r.db.Close()
}

// Hazards returns the newest incidents inside the configured bbox.
func (r *PostGISHazardRepository) Hazards(ctx context.Context) ([]model.HazardRecord, error) {
	const query = `
		SELECT
			ST_Y(geom) AS lat,
			ST_X(geom) AS lng,
			mci_category AS category,
			offence,
			to_char(occ_date, 'YYYY-MM-DD') AS occurred_at
		FROM incidents
		WHERE ST_Intersects(geom, ST_MakeEnvelope($1, $2, $3, $4, 4326))
		ORDER BY occ_date DESC NULLS LAST
		LIMIT $5`

	var rows []incidentRow
	err := r.db.SelectContext(ctx, &rows, query,
		r.bounds.MinLng, r.bounds.MinLat, r.bounds.MaxLng, r.bounds.MaxLat,
		r.limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query incidents: %w", err)
	}

	records := make([]model.HazardRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.record())
	}
	return records, nil
}

func (row incidentRow) record() model.HazardRecord {
	var rec model.HazardRecord
	if row.Lat.Valid && row.Lng.Valid {
		rec.Coordinate = &model.Coordinate{Lat: row.Lat.Float64, Lng: row.Lng.Float64}
	}
	rec.Category = nullString(row.Category)
	rec.Description = nullString(row.Offence)
	rec.OccurredAt = nullString(row.OccurredAt)
	return rec
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

// parseBBox parses a bbox string in format "lat1,lon1,lat2,lon2".
func parseBBox(bbox string) (model.Bounds, error) {
	parts := strings.Split(bbox, ",")
	if len(parts) != 4 {
		return model.Bounds{}, fmt.Errorf("bbox must have 4 components, got %d", len(parts))
	}

	var vals [4]float64
	names := [4]string{"minLat", "minLon", "maxLat", "maxLon"}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return model.Bounds{}, fmt.Errorf("invalid %s: %w", names[i], err)
		}
		vals[i] = v
	}
	b := model.Bounds{MinLat: vals[0], MinLng: vals[1], MaxLat: vals[2], MaxLng: vals[3]}

	if b.MinLat < -90 || b.MinLat > 90 || b.MaxLat < -90 || b.MaxLat > 90 {
		return model.Bounds{}, fmt.Errorf("latitude out of range [-90, 90]")
	}
	if b.MinLng < -180 || b.MinLng > 180 || b.MaxLng < -180 || b.MaxLng > 180 {
		return model.Bounds{}, fmt.Errorf("longitude out of range [-180, 180]")
	}
	if b.MinLat > b.MaxLat || b.MinLng > b.MaxLng {
		return model.Bounds{}, fmt.Errorf("minLat must be <= maxLat and minLon must be <= maxLon")
	}
	return b, nil
}
