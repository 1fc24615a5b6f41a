package polyline

import (
	"errors"
	"testing"

	gopolyline "github.com/twpayne/go-polyline"

	"safepath/internal/domain/model"
)

func TestDecodeReferenceFixture(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
		want    []model.Coordinate
	}{
		{
			name:    "two points",
			encoded: "_p~iF~ps|U_ulLnnqC",
			want:    []model.Coordinate{{Lat: 38.5, Lng: -120.2}, {Lat: 40.7, Lng: -120.95}},
		},
		{
			name:    "three points",
			encoded: "_p~iF~ps|U_ulLnnqC_mqNvxq`@",
			want: []model.Coordinate{
				{Lat: 38.5, Lng: -120.2},
				{Lat: 40.7, Lng: -120.95},
				{Lat: 43.252, Lng: -126.453},
			},
		},
		{
			name:    "empty",
			encoded: "",
			want:    []model.Coordinate{},
		},
		{
			name:    "origin",
			encoded: "??",
			want:    []model.Coordinate{{Lat: 0, Lng: 0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.encoded)
			if err != nil {
				t.Fatalf("Decode(%q) returned error: %v", tt.encoded, err)
			}
			if !equalPath(got, tt.want) {
				t.Errorf("Decode(%q) = %v, want %v", tt.encoded, got, tt.want)
			}
		})
	}
}

func TestDecodeIsDeterministic(t *testing.T) {
	const encoded = "_p~iF~ps|U_ulLnnqC_mqNvxq`@"
	first, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := Decode(encoded)
		if err != nil {
			t.Fatalf("Decode returned error on run %d: %v", i, err)
		}
		if !equalPath(first, again) {
			t.Fatalf("run %d: got %v, want %v", i, again, first)
		}
	}
}

func TestDecodeMatchesReferenceEncoder(t *testing.T) {
	coords := [][]float64{
		{43.65323, -79.38318},
		{43.65401, -79.38012},
		{43.64877, -79.37119},
		{-33.86882, 151.20929},
		{0, 0},
		{89.99999, -179.99999},
	}
	encoded := string(gopolyline.EncodeCoords(coords))

	got, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if len(got) != len(coords) {
		t.Fatalf("got %d coordinates, want %d", len(got), len(coords))
	}

	ref, _, err := gopolyline.DecodeCoords([]byte(encoded))
	if err != nil {
		t.Fatalf("reference decoder returned error: %v", err)
	}
	for i := range coords {
		if !closeTo(got[i].Lat, ref[i][0]) || !closeTo(got[i].Lng, ref[i][1]) {
			t.Errorf("point %d = %v, reference decoder gave %v", i, got[i], ref[i])
		}
		if !closeTo(got[i].Lat, coords[i][0]) || !closeTo(got[i].Lng, coords[i][1]) {
			t.Errorf("point %d = %v, want %v", i, got[i], coords[i])
		}
	}
}

func TestDecodeLengthIndependentOfByteLength(t *testing.T) {
	// Large deltas take more groups per value but still one coordinate per pair.
	short := string(gopolyline.EncodeCoords([][]float64{{0, 0}, {0.00001, 0.00001}}))
	long := string(gopolyline.EncodeCoords([][]float64{{0, 0}, {80, 170}}))
	if len(short) >= len(long) {
		t.Fatalf("fixture lengths not distinct: %d vs %d", len(short), len(long))
	}

	for _, s := range []string{short, long} {
		got, err := Decode(s)
		if err != nil {
			t.Fatalf("Decode(%q) returned error: %v", s, err)
		}
		if len(got) != 2 {
			t.Errorf("Decode(%q) produced %d coordinates, want 2", s, len(got))
		}
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
	}{
		{name: "continuation never cleared", encoded: "_p~iF~ps|U_"},
		{name: "latitude without longitude", encoded: "_p~iF"},
		{name: "character below range", encoded: "_p~iF~ps|U !"},
		{name: "character above range", encoded: "\x7f?"},
		{name: "overflow", encoded: "~~~~~~~~~~~~~~?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.encoded)
			if err == nil {
				t.Fatalf("Decode(%q) = %v, want error", tt.encoded, got)
			}
			if !errors.Is(err, model.ErrDecode) {
				t.Errorf("error %v does not wrap ErrDecode", err)
			}
			var decodeErr *model.DecodeError
			if !errors.As(err, &decodeErr) {
				t.Errorf("error %T is not *model.DecodeError", err)
			}
			if got != nil {
				t.Errorf("expected no coordinates on error, got %v", got)
			}
		})
	}
}

func equalPath(a, b []model.Coordinate) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func closeTo(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-9
}
