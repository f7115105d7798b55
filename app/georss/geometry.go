// Package georss holds the geometry value types attached to feeds and items,
// and a parser for the GeoRSS-Simple encoding of them.
package georss

import "reflect"

// Geometry is implemented by every shape.
//
// Clone returns a deep copy: no coordinate storage is shared with the
// receiver. A nil receiver clones to a nil of the same type. Equal reports
// whether other is a non-nil geometry of the same concrete type. Coordinates
// are deliberately not compared, so two points at different places are Equal.
type Geometry interface {
	Clone() Geometry
	Equal(other Geometry) bool
}

func sameKind(g, other Geometry) bool {
	if other == nil {
		return false
	}
	v := reflect.ValueOf(other)
	if v.Kind() == reflect.Pointer && v.IsNil() {
		return false
	}
	return reflect.TypeOf(g) == reflect.TypeOf(other)
}

type Position struct {
	Latitude  float64
	Longitude float64
}

type PositionList []Position

func (l PositionList) Clone() PositionList {
	if l == nil {
		return nil
	}
	return append(PositionList(nil), l...)
}

type Point struct {
	Position Position
}

func (p *Point) Clone() Geometry {
	if p == nil {
		return p
	}
	c := *p
	return &c
}

func (p *Point) Equal(other Geometry) bool { return sameKind(p, other) }

type LineString struct {
	Positions PositionList
}

func (l *LineString) Clone() Geometry {
	if l == nil {
		return l
	}
	return &LineString{Positions: l.Positions.Clone()}
}

func (l *LineString) Equal(other Geometry) bool { return sameKind(l, other) }

// LinearRing is a closed line, used as a polygon boundary.
type LinearRing struct {
	Positions PositionList
}

func (r *LinearRing) Clone() Geometry {
	return r.cloneRing()
}

func (r *LinearRing) cloneRing() *LinearRing {
	if r == nil {
		return nil
	}
	return &LinearRing{Positions: r.Positions.Clone()}
}

func (r *LinearRing) Equal(other Geometry) bool { return sameKind(r, other) }

type Polygon struct {
	Exterior *LinearRing
	Interior []*LinearRing
}

func (p *Polygon) Clone() Geometry {
	if p == nil {
		return p
	}
	c := &Polygon{Exterior: p.Exterior.cloneRing()}
	if p.Interior != nil {
		c.Interior = make([]*LinearRing, len(p.Interior))
		for i, r := range p.Interior {
			c.Interior[i] = r.cloneRing()
		}
	}
	return c
}

func (p *Polygon) Equal(other Geometry) bool { return sameKind(p, other) }

// Envelope is an axis-aligned box given by its lower and upper corners.
type Envelope struct {
	MinLatitude  float64
	MinLongitude float64
	MaxLatitude  float64
	MaxLongitude float64
}

func (e *Envelope) Clone() Geometry {
	if e == nil {
		return e
	}
	c := *e
	return &c
}

func (e *Envelope) Equal(other Geometry) bool { return sameKind(e, other) }
