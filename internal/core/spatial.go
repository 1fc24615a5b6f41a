package core

import (
	"math"

	"safepath/internal/domain/model"
)

// hazardRadiusKm is the distance within which an incident counts against a route.
const hazardRadiusKm = 0.5

func pathBounds(path []model.Coordinate) (model.Bounds, bool) {
	if len(path) == 0 {
		return model.Bounds{}, false
	}
	b := model.Bounds{
		MinLat: path[0].Lat,
		MinLng: path[0].Lng,
		MaxLat: path[0].Lat,
		MaxLng: path[0].Lng,
	}
	for _, c := range path[1:] {
		b.MinLat = math.Min(b.MinLat, c.Lat)
		b.MinLng = math.Min(b.MinLng, c.Lng)
		b.MaxLat = math.Max(b.MaxLat, c.Lat)
		b.MaxLng = math.Max(b.MaxLng, c.Lng)
	}
	return b, true
}

func unionBounds(a, b model.Bounds) model.Bounds {
	return model.Bounds{
		MinLat: math.Min(a.MinLat, b.MinLat),
		MinLng: math.Min(a.MinLng, b.MinLng),
		MaxLat: math.Max(a.MaxLat, b.MaxLat),
		MaxLng: math.Max(a.MaxLng, b.MaxLng),
	}
}

// nearPath reports whether point lies within radiusKm of any vertex of path.
func nearPath(point model.Coordinate, path []model.Coordinate, radiusKm float64) bool {
	for _, c := range path {
		if haversine(point.Lat, point.Lng, c.Lat, c.Lng) < radiusKm {
			return true
		}
	}
	return false
}

func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371 // Earth radius, km
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return R * c
}
