package main

import (
	"bufio"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"gonum.org/v1/gonum/mat"
)

// Atom is a single element symbol and its Cartesian coordinates in
// Ångström
type Atom struct {
	Symbol  string
	X, Y, Z float64
}

// Geometry is an ordered list of atoms
type Geometry []Atom

// ParseGeometry parses text with one "Symbol x y z" line per atom.
// Blank lines are skipped, but any other line that does not have
// exactly that shape causes the whole geometry to be rejected.
func ParseGeometry(text string) (Geometry, error) {
	scanner := bufio.NewScanner(strings.NewReader(text))
	var (
		ret    Geometry
		line   string
		fields []string
	)
	for i := 1; scanner.Scan(); i++ {
		line = scanner.Text()
		fields = strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		atom, err := parseAtom(fields)
		if err != nil {
			return nil, Fail(InvalidGeometry,
				"line %d (%q): %v", i, strings.TrimSpace(line), err)
		}
		ret = append(ret, atom)
	}
	if err := scanner.Err(); err != nil {
		return nil, Fail(InvalidGeometry, "reading geometry: %v", err)
	}
	if len(ret) == 0 {
		return nil, Fail(InvalidGeometry, "no atoms found")
	}
	return ret, nil
}

func parseAtom(fields []string) (atom Atom, err error) {
	if len(fields) != 4 {
		return atom, fmt.Errorf(
			"expected 4 fields (symbol x y z), got %d", len(fields))
	}
	if !isSymbol(fields[0]) {
		return atom, fmt.Errorf("%q is not an element symbol", fields[0])
	}
	coords, err := toFloat(fields[1:])
	if err != nil {
		return atom, err
	}
	return Atom{
		Symbol: fields[0],
		X:      coords[0],
		Y:      coords[1],
		Z:      coords[2],
	}, nil
}

func isSymbol(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}

// toFloat converts a list of strings to a float64 using
// strconv.ParseFloat, rejecting NaN and infinities
func toFloat(strs []string) ([]float64, error) {
	ret := make([]float64, len(strs))
	for i, s := range strs {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", s)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%q is not a finite number", s)
		}
		ret[i] = v
	}
	return ret, nil
}

// String formats g with one atom per line, suitable for the
// coordinate block of an input file
func (g Geometry) String() string {
	var geom strings.Builder
	for _, a := range g {
		fmt.Fprintf(&geom, "%-2s%20.12f%20.12f%20.12f\n",
			a.Symbol, a.X, a.Y, a.Z,
		)
	}
	return geom.String()
}

// Symbols returns the element symbols of g in order
func (g Geometry) Symbols() []string {
	ret := make([]string, len(g))
	for i, a := range g {
		ret[i] = a.Symbol
	}
	return ret
}

// Coords returns the coordinates of g as a flat slice of x, y, z
// triples
func (g Geometry) Coords() []float64 {
	ret := make([]float64, 0, 3*len(g))
	for _, a := range g {
		ret = append(ret, a.X, a.Y, a.Z)
	}
	return ret
}

// Matrix returns g as an n×3 matrix
func (g Geometry) Matrix() *mat.Dense {
	return mat.NewDense(len(g), 3, g.Coords())
}

// Displacement computes the root-mean-square displacement in Ångström
// between the corresponding atoms of a and b
func Displacement(a, b Geometry) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("atom count mismatch: %d vs %d",
			len(a), len(b))
	}
	if len(a) == 0 {
		return 0, nil
	}
	var diff mat.Dense
	diff.Sub(a.Matrix(), b.Matrix())
	// Frobenius norm squared is the sum of squared atom displacements
	norm := mat.Norm(&diff, 2)
	return math.Sqrt(norm * norm / float64(len(a))), nil
}
