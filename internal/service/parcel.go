package service

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// ParcelGeometry is what the registry keeps of a surveyed boundary.
type ParcelGeometry struct {
	Boundary  json.RawMessage
	AreaSqm   float64
	Latitude  float64
	Longitude float64
}

// ParseParcelBoundary validates a GeoJSON Polygon or MultiPolygon in WGS84 and derives its
// centroid and geodesic area.
func ParseParcelBoundary(raw json.RawMessage) (*ParcelGeometry, error) {
	g, err := geojson.UnmarshalGeometry(raw)
	if err != nil {
		return nil, fmt.Errorf("boundary is not valid GeoJSON: %w", err)
	}

	shape := g.Geometry()
	switch v := shape.(type) {
	case orb.Polygon:
		if err := checkPolygon(v); err != nil {
			return nil, err
		}
	case orb.MultiPolygon:
		if len(v) == 0 {
			return nil, fmt.Errorf("boundary multipolygon is empty")
		}
		for _, p := range v {
			if err := checkPolygon(p); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("boundary must be a Polygon or MultiPolygon, got %s", shape.GeoJSONType())
	}

	bound := shape.Bound()
	if bound.Min.Lon() < -180 || bound.Max.Lon() > 180 || bound.Min.Lat() < -90 || bound.Max.Lat() > 90 {
		return nil, fmt.Errorf("boundary coordinates must be longitude/latitude degrees")
	}

	area := geo.Area(shape)
	if area <= 0 {
		return nil, fmt.Errorf("boundary encloses no area")
	}
	centroid, _ := planar.CentroidArea(shape)

	normalized, err := geojson.NewGeometry(shape).MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode boundary: %w", err)
	}

	return &ParcelGeometry{
		Boundary:  normalized,
		AreaSqm:   area,
		Latitude:  centroid.Lat(),
		Longitude: centroid.Lon(),
	}, nil
}

func checkPolygon(p orb.Polygon) error {
	if len(p) == 0 {
		return fmt.Errorf("boundary polygon has no rings")
	}
	for _, ring := range p {
		if len(ring) < 4 {
			return fmt.Errorf("boundary ring needs at least four positions")
		}
		if !ring.Closed() {
			return fmt.Errorf("boundary ring is not closed")
		}
	}
	return nil
}
