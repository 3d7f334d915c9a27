package main

import (
	"bufio"
	"strconv"
	"strings"
	"text/template"
	"time"
)

// The single supported calculation recipe
const (
	METHOD       = "B3LYP"
	BASIS        = "def2-SVP"
	JOBTYPE      = "Opt"
	CHARGE       = 0
	MULTIPLICITY = 1
	TIMEOUT      = 300 * time.Second
)

// Markers in the ORCA output that the parser relies on
const (
	orcaTerminated = "ORCA TERMINATED NORMALLY"
	energyLine     = "FINAL SINGLE POINT ENERGY"
	cartHeader     = "CARTESIAN COORDINATES (ANGSTROEM)"
)

var INPUT_TEMPLATE = template.Must(template.New("inp").Parse(
	`! {{.Method}} {{.Basis}} {{.JobType}}

* xyz {{.Charge}} {{.Multiplicity}}
{{.Geometry}}*
`))

// Request is a single calculation. Only Geometry varies between
// requests; use NewRequest to fill in the rest.
type Request struct {
	Geometry     Geometry
	Method       string
	Basis        string
	JobType      string
	Charge       int
	Multiplicity int
	Timeout      time.Duration
}

func NewRequest(geom Geometry) Request {
	return Request{
		Geometry:     geom,
		Method:       METHOD,
		Basis:        BASIS,
		JobType:      JOBTYPE,
		Charge:       CHARGE,
		Multiplicity: MULTIPLICITY,
		Timeout:      TIMEOUT,
	}
}

// Input renders r as an ORCA input file
func (r Request) Input() (string, error) {
	var buf strings.Builder
	err := INPUT_TEMPLATE.Execute(&buf, r)
	if err != nil {
		return "", Fail(InternalError, "rendering input: %v", err)
	}
	return buf.String(), nil
}

// BuildInput parses the geometry in text and returns the contents of
// the corresponding ORCA input file
func BuildInput(text string) (string, error) {
	geom, err := ParseGeometry(text)
	if err != nil {
		return "", err
	}
	return NewRequest(geom).Input()
}

// ParseOutput extracts the final energy and optimized geometry from
// the ORCA output in raw. Only the last energy and coordinate block
// before the normal termination message are used. The returned Result
// has only Energy, Geometry, and Raw set.
func ParseOutput(raw string) (*Result, error) {
	scanner := bufio.NewScanner(strings.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var (
		line       string
		energy     float64
		found      bool
		terminated bool
		geom       Geometry
		cart       *cartBlock
	)
	for scanner.Scan() {
		line = scanner.Text()
		if strings.Contains(line, orcaTerminated) {
			terminated = true
			break
		}
		if cart != nil {
			if cart.add(line) {
				continue
			}
			if len(cart.geom) > 0 {
				geom = cart.geom
			}
			cart = nil
		}
		switch {
		case strings.Contains(line, energyLine):
			if v, ok := parseEnergy(line); ok {
				energy, found = v, true
			}
		case strings.Contains(line, cartHeader):
			cart = new(cartBlock)
		}
	}
	if cart != nil && len(cart.geom) > 0 {
		geom = cart.geom
	}
	if err := scanner.Err(); err != nil {
		return nil, Fail(InternalError, "reading output: %v", err).
			withRaw(raw)
	}
	if !terminated {
		return nil, Fail(IncompleteRun,
			"ORCA did not terminate normally").withRaw(raw)
	}
	if !found {
		return nil, Fail(EnergyNotFound,
			"no %q line in output", energyLine).withRaw(raw)
	}
	return &Result{
		Energy:   energy,
		Geometry: geom,
		Raw:      raw,
	}, nil
}

// parseEnergy takes the first number after the energy label on line
func parseEnergy(line string) (float64, bool) {
	_, after, _ := strings.Cut(line, energyLine)
	fields := strings.Fields(after)
	if len(fields) == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// cartBlock accumulates the lines of a Cartesian coordinate block
// following its header. The block looks like
//
//	---------------------------------
//	  O      0.000000    0.000000    0.000000
//	  ...
//
// and ends at a blank line, another rule, or any line that is not an
// atom.
type cartBlock struct {
	geom   Geometry
	inBody bool
}

// add consumes line and reports whether it belonged to the block
func (c *cartBlock) add(line string) bool {
	line = strings.TrimSpace(line)
	if !c.inBody {
		c.inBody = true
		if strings.HasPrefix(line, "---") {
			return true
		}
	}
	if line == "" || strings.HasPrefix(line, "---") {
		return false
	}
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return false
	}
	atom, err := parseAtom(fields[:4])
	if err != nil {
		return false
	}
	c.geom = append(c.geom, atom)
	return true
}
