package main

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Result is a successful calculation
type Result struct {
	ID string
	// final energy in Hartree
	Energy float64
	// optimized geometry, nil if the output did not contain one
	Geometry Geometry
	// RMS displacement in Ångström from the input geometry to
	// Geometry
	Displacement float64
	// full program output
	Raw     string
	Elapsed time.Duration
}

// Calculate runs the fixed B3LYP/def2-SVP geometry optimization on the
// geometry in text. On failure the error is a *Failure, which carries
// the program output whenever there was any.
func Calculate(ctx context.Context, r *Runner, text string) (*Result, error) {
	id := uuid.NewString()
	log := r.logger().With("id", id)
	geom, err := ParseGeometry(text)
	if err != nil {
		log.Warn("rejected geometry", "error", err)
		return nil, err
	}
	req := NewRequest(geom)
	if r.Timeout > 0 {
		req.Timeout = r.Timeout
	}
	input, err := req.Input()
	if err != nil {
		return nil, err
	}
	log.Info("submitting calculation",
		"atoms", len(geom),
		"method", req.Method,
		"basis", req.Basis,
		"job", req.JobType,
	)
	start := time.Now()
	run := *r
	run.Logger = log
	raw, err := run.Run(ctx, input, req.Timeout)
	if err != nil {
		log.Error("calculation failed", "error", err)
		return nil, err
	}
	res, err := ParseOutput(raw)
	if err != nil {
		log.Error("parsing output failed", "error", err)
		return nil, err
	}
	res.ID = id
	res.Elapsed = time.Since(start)
	if res.Geometry != nil {
		res.Displacement, err = Displacement(geom, res.Geometry)
		if err != nil {
			// a mismatched final block is unusual but not fatal
			log.Warn("optimized geometry does not match input",
				"error", err)
		}
	}
	log.Info("calculation finished",
		"energy", res.Energy,
		"elapsed", res.Elapsed,
	)
	return res, nil
}
