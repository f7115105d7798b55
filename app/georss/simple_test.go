package georss

import (
	"errors"
	"reflect"
	"testing"

	"github.com/beevik/etree"
	"golang.org/x/text/language"

	"github.com/lysyi3m/podmeta/app/element"
	"github.com/lysyi3m/podmeta/app/extract"
)

func TestParse(t *testing.T) {
	tests := []struct {
		kind string
		text string
		want Geometry
	}{
		{KindPoint, "45.256 -71.92", &Point{Position: Position{45.256, -71.92}}},
		{KindLine, " 45.256 -110.45\n46.46 -109.48 ", &LineString{Positions: PositionList{{45.256, -110.45}, {46.46, -109.48}}}},
		{KindPolygon, "45 -110 46 -109 43 -107 45 -110", &Polygon{Exterior: &LinearRing{Positions: PositionList{{45, -110}, {46, -109}, {43, -107}, {45, -110}}}}},
		{KindBox, "42.943 -71.032 43.039 -69.856", &Envelope{42.943, -71.032, 43.039, -69.856}},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			got, err := Parse(tt.kind, tt.text)
			if err != nil {
				t.Fatalf("Expected no error, got: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}

			kind, text, err := Format(got)
			if err != nil {
				t.Fatalf("Expected no format error, got: %v", err)
			}
			if kind != tt.kind {
				t.Errorf("Expected kind %q, got %q", tt.kind, kind)
			}
			again, err := Parse(kind, text)
			if err != nil || !reflect.DeepEqual(again, got) {
				t.Errorf("Round trip through %q failed: %+v, %v", text, again, err)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		kind string
		text string
	}{
		{KindPoint, ""},
		{KindPoint, "45.256"},
		{KindPoint, "45 -71 46 -72"},
		{KindPoint, "north west"},
		{KindLine, "45 -71"},
		{KindPolygon, "45 -71 46 -72 47 -73"},
		{KindBox, "1 2 3"},
		{KindPoint, "NaN 10"},
		{KindPoint, "10 Inf"},
		{KindPoint, "-Inf 10"},
		{KindPoint, "90.5 10"},
		{KindPoint, "10 -180.5"},
	}
	for _, tt := range tests {
		if _, err := Parse(tt.kind, tt.text); !errors.Is(err, ErrInvalidCoordinates) {
			t.Errorf("Parse(%s, %q): expected ErrInvalidCoordinates, got %v", tt.kind, tt.text, err)
		}
	}

	if _, err := Parse("circle", "1 2"); err == nil {
		t.Error("Expected error for unknown kind")
	}
}

func TestFormat(t *testing.T) {
	_, text, err := Format(&Point{Position: Position{1.5, -2}})
	if err != nil || text != "1.5 -2" {
		t.Errorf("Expected '1.5 -2', got %q, %v", text, err)
	}
	if _, _, err := Format(&Polygon{}); err == nil {
		t.Error("Expected error for polygon without exterior")
	}
	if _, _, err := Format(&LinearRing{}); err == nil {
		t.Error("Expected error for bare ring")
	}
}

func parseElement(t *testing.T, data string) element.Element {
	t.Helper()
	doc := etree.NewDocument()
	if err := doc.ReadFromString(data); err != nil {
		t.Fatalf("Failed to read XML: %v", err)
	}
	root, _ := element.Root(doc)
	return root
}

func TestParser_Parse(t *testing.T) {
	el := parseElement(t, `<entry xmlns:georss="`+URI+`"><georss:point>bad</georss:point><georss:box>1 2 3 4</georss:box></entry>`)

	var diag extract.Diagnostics
	m, err := NewParser().Parse(el, language.English, &diag)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	where, ok := m.(*Where)
	if !ok {
		t.Fatalf("Expected *Where, got %T", m)
	}
	if _, ok := where.Geometry.(*Envelope); !ok {
		t.Errorf("Expected envelope after skipping bad point, got %T", where.Geometry)
	}
	if diag.Len() != 1 || diag.Items()[0].Field != KindPoint {
		t.Errorf("Expected one point diagnostic, got %v", diag.Items())
	}
	if where.NamespaceURI() != URI {
		t.Errorf("Unexpected namespace %q", where.NamespaceURI())
	}
}

func TestParser_NoGeometry(t *testing.T) {
	el := parseElement(t, `<item xmlns:georss="`+URI+`"><georss:featurename>Somewhere</georss:featurename></item>`)

	m, err := NewParser().Parse(el, language.English, nil)
	if err != nil || m != nil {
		t.Errorf("Expected no module, got %v, %v", m, err)
	}
}
