package main

import (
	"math"
	"reflect"
	"testing"
)

func TestParseGeometry(t *testing.T) {
	got, err := ParseGeometry(WATER)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	want := Geometry{
		{"O", 0.0, 0.0, 0.0},
		{"H", 0.96, 0.0, 0.0},
		{"H", -0.24, 0.93, 0.0},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, wanted %v\n", got, want)
	}
}

func TestParseGeometryBlank(t *testing.T) {
	got, err := ParseGeometry("\n  O 0 0 0\n\n\t\nH 1 0 0\n   \n")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	want := Geometry{
		{"O", 0, 0, 0},
		{"H", 1, 0, 0},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, wanted %v\n", got, want)
	}
}

func TestParseGeometryInvalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"only blank", "\n   \n\t\n"},
		{"too few fields", "O 0.0 0.0 0.0\nH 0.96 0.0\n"},
		{"too many fields", "O 0.0 0.0 0.0 1.0\n"},
		{"bad coordinate", "O 0.0 zero 0.0\n"},
		{"numeric symbol", "8 0.0 0.0 0.0\n"},
		{"nan", "O NaN 0.0 0.0\n"},
		{"inf", "O 0.0 +Inf 0.0\n"},
		{"xyz header", "3\nwater\nO 0 0 0\nH 1 0 0\nH 0 1 0\n"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := ParseGeometry(test.in)
			if err == nil {
				t.Fatalf("wanted an error, but didn't get one")
			}
			if k := KindOf(err); k != InvalidGeometry {
				t.Errorf("got %v, wanted %v\n", k, InvalidGeometry)
			}
			if got != nil {
				t.Errorf("got %v, wanted nil geometry\n", got)
			}
		})
	}
}

func TestGeometryString(t *testing.T) {
	geom, _ := ParseGeometry(WATER)
	got := geom.String()
	want := `O       0.000000000000      0.000000000000      0.000000000000
H       0.960000000000      0.000000000000      0.000000000000
H      -0.240000000000      0.930000000000      0.000000000000
`
	if got != want {
		t.Errorf("got\n%v, wanted\n%v\n", got, want)
	}
}

func TestCoords(t *testing.T) {
	geom, _ := ParseGeometry(WATER)
	got := geom.Coords()
	want := []float64{
		0.0, 0.0, 0.0,
		0.96, 0.0, 0.0,
		-0.24, 0.93, 0.0,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, wanted %v\n", got, want)
	}
	if r, c := geom.Matrix().Dims(); r != 3 || c != 3 {
		t.Errorf("got %dx%d, wanted 3x3\n", r, c)
	}
	syms := geom.Symbols()
	if !reflect.DeepEqual(syms, []string{"O", "H", "H"}) {
		t.Errorf("got %v, wanted [O H H]\n", syms)
	}
}

func TestDisplacement(t *testing.T) {
	a, _ := ParseGeometry(WATER)
	b := Geometry{
		{"O", 0.005, -0.004, 0.0},
		{"H", 0.965, 0.002, 0.0},
		{"H", -0.25, 0.932, 0.0},
	}
	tests := []struct {
		name string
		a, b Geometry
		want float64
	}{
		{"identical", a, a, 0},
		{"moved", a, b, math.Sqrt(0.000174 / 3)},
		{"translated", Geometry{{"H", 0, 0, 0}},
			Geometry{{"H", 3, 4, 0}}, 5},
	}
	for _, test := range tests {
		got, err := Displacement(test.a, test.b)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", test.name, err)
		}
		if math.Abs(got-test.want) > 1e-12 {
			t.Errorf("%s: got %v, wanted %v\n",
				test.name, got, test.want)
		}
	}
	if _, err := Displacement(a, a[:2]); err == nil {
		t.Errorf("wanted an error for mismatched geometries")
	}
}
