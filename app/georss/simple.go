package georss

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kinds of GeoRSS-Simple elements, in the order the parser looks for them.
const (
	KindPoint   = "point"
	KindLine    = "line"
	KindPolygon = "polygon"
	KindBox     = "box"
)

var kinds = []string{KindPoint, KindLine, KindPolygon, KindBox}

var ErrInvalidCoordinates = errors.New("invalid coordinates")

// ParsePositions reads whitespace separated "lat lon" pairs.
func ParsePositions(text string) (PositionList, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 || len(fields)%2 != 0 {
		return nil, fmt.Errorf("%w: expected lat/lon pairs, got %d values", ErrInvalidCoordinates, len(fields))
	}
	list := make(PositionList, 0, len(fields)/2)
	for i := 0; i < len(fields); i += 2 {
		lat, err := strconv.ParseFloat(fields[i], 64)
		if err != nil || !inRange(lat, 90) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCoordinates, fields[i])
		}
		lon, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil || !inRange(lon, 180) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCoordinates, fields[i+1])
		}
		list = append(list, Position{Latitude: lat, Longitude: lon})
	}
	return list, nil
}

// inRange reports whether v is finite and within [-limit, limit]. NaN fails
// both comparisons.
func inRange(v, limit float64) bool {
	return v >= -limit && v <= limit
}

// Parse builds the geometry a GeoRSS-Simple element of the given kind encodes.
func Parse(kind, text string) (Geometry, error) {
	list, err := ParsePositions(text)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindPoint:
		if len(list) != 1 {
			return nil, fmt.Errorf("%w: point needs 1 position, got %d", ErrInvalidCoordinates, len(list))
		}
		return &Point{Position: list[0]}, nil
	case KindLine:
		if len(list) < 2 {
			return nil, fmt.Errorf("%w: line needs at least 2 positions, got %d", ErrInvalidCoordinates, len(list))
		}
		return &LineString{Positions: list}, nil
	case KindPolygon:
		if len(list) < 4 {
			return nil, fmt.Errorf("%w: polygon needs at least 4 positions, got %d", ErrInvalidCoordinates, len(list))
		}
		return &Polygon{Exterior: &LinearRing{Positions: list}}, nil
	case KindBox:
		if len(list) != 2 {
			return nil, fmt.Errorf("%w: box needs 2 corners, got %d", ErrInvalidCoordinates, len(list))
		}
		return &Envelope{
			MinLatitude:  list[0].Latitude,
			MinLongitude: list[0].Longitude,
			MaxLatitude:  list[1].Latitude,
			MaxLongitude: list[1].Longitude,
		}, nil
	default:
		return nil, fmt.Errorf("unknown geometry kind %q", kind)
	}
}

// Format renders g in GeoRSS-Simple form and reports which element kind it
// belongs in. Interior polygon rings have no simple encoding and are dropped.
func Format(g Geometry) (kind, text string, err error) {
	switch v := g.(type) {
	case *Point:
		return KindPoint, formatPositions(PositionList{v.Position}), nil
	case *LineString:
		return KindLine, formatPositions(v.Positions), nil
	case *Polygon:
		if v.Exterior == nil {
			return "", "", errors.New("polygon has no exterior ring")
		}
		return KindPolygon, formatPositions(v.Exterior.Positions), nil
	case *Envelope:
		return KindBox, formatPositions(PositionList{
			{Latitude: v.MinLatitude, Longitude: v.MinLongitude},
			{Latitude: v.MaxLatitude, Longitude: v.MaxLongitude},
		}), nil
	default:
		return "", "", fmt.Errorf("unsupported geometry %T", g)
	}
}

func formatPositions(list PositionList) string {
	parts := make([]string, 0, len(list)*2)
	for _, p := range list {
		parts = append(parts,
			strconv.FormatFloat(p.Latitude, 'f', -1, 64),
			strconv.FormatFloat(p.Longitude, 'f', -1, 64))
	}
	return strings.Join(parts, " ")
}
