// Package polyline decodes the encoded polyline format used by the routing
// service for route geometry.
package polyline

import "safepath/internal/domain/model"

const (
	charOffset   = 63
	continuation = 0x20
	payloadMask  = 0x1f
	precision    = 1e5
	maxShift     = 60
)

// Decode turns an encoded path into coordinates. Input that ends in the
// middle of a value, or contains characters outside '?'..'~', yields a
// *model.DecodeError and no coordinates.
func Decode(encoded string) ([]model.Coordinate, error) {
	path := make([]model.Coordinate, 0, len(encoded)/4)

	var lat, lng int64
	for i := 0; i < len(encoded); {
		dLat, next, err := decodeValue(encoded, i)
		if err != nil {
			return nil, err
		}
		if next >= len(encoded) {
			return nil, &model.DecodeError{Offset: next, Reason: "latitude without longitude"}
		}
		dLng, next, err := decodeValue(encoded, next)
		if err != nil {
			return nil, err
		}

		lat += dLat
		lng += dLng
		path = append(path, model.Coordinate{
			Lat: float64(lat) / precision,
			Lng: float64(lng) / precision,
		})
		i = next
	}

	return path, nil
}

// decodeValue reads one zig-zag encoded delta starting at s[i] and returns
// it together with the index of the following group.
func decodeValue(s string, i int) (int64, int, error) {
	var result int64
	var shift uint
	for {
		if i >= len(s) {
			return 0, i, &model.DecodeError{Offset: i, Reason: "continuation bit set at end of input"}
		}
		c := s[i]
		if c < charOffset || c > '~' {
			return 0, i, &model.DecodeError{Offset: i, Reason: "character out of range"}
		}
		if shift > maxShift {
			return 0, i, &model.DecodeError{Offset: i, Reason: "value overflows 64 bits"}
		}
		b := int64(c) - charOffset
		i++
		result |= (b & payloadMask) << shift
		shift += 5
		if b < continuation {
			break
		}
	}

	if result&1 != 0 {
		return ^(result >> 1), i, nil
	}
	return result >> 1, i, nil
}
