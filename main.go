package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"
)

const WATER = `O 0.0 0.0 0.0
H 0.96 0.0 0.0
H -0.24 0.93 0.0
`

// Flags
var (
	config  = flag.String("config", "", "TOML configuration file")
	output  = flag.String("o", "", "write the raw ORCA output to this file")
	timeout = flag.Int("timeout", 0, "time limit in seconds")
	check   = flag.Bool("check", false,
		"only check that ORCA is installed")
	debug = flag.Bool("debug", false, "toggle debugging information")
)

// hints suggest what to do about each kind of failure
var hints = map[ErrorKind]string{
	InvalidGeometry: "Each line should read `Element X Y Z`, with " +
		"coordinates in Ångström.",
	ToolMissing: "Make sure ORCA is installed and that the orca " +
		"executable is on your PATH (try `which orca`).",
	Timeout: "Try a smaller molecule or a better starting " +
		"geometry.",
	ExecutionError: "ORCA exited with an error; see the output " +
		"below for details.",
	IncompleteRun: "ORCA stopped before finishing; check the " +
		"output for errors.",
	EnergyNotFound: "ORCA finished but printed no final energy; " +
		"check the output.",
	InternalError: "Something went wrong running the " +
		"calculation.",
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [flags] [geometry file | -]\n",
		os.Args[0])
	flag.PrintDefaults()
}

// readGeometry returns the geometry text named by args: the contents
// of a file, stdin for "-", or water if there is no argument
func readGeometry(args []string) (string, error) {
	if len(args) == 0 {
		return WATER, nil
	}
	if args[0] == "-" {
		byts, err := io.ReadAll(os.Stdin)
		return string(byts), err
	}
	byts, err := os.ReadFile(args[0])
	return string(byts), err
}

// Report writes a human-readable summary of res to w
func Report(w io.Writer, res *Result) {
	fmt.Fprintf(w, "Method: %s/%s (%s)\n", METHOD, BASIS, JOBTYPE)
	fmt.Fprintf(w, "Final energy: %.10f Eh\n", res.Energy)
	fmt.Fprintf(w, "Elapsed: %.1f s\n", res.Elapsed.Seconds())
	if res.Geometry == nil {
		fmt.Fprintln(w, "Optimized geometry: not found")
		return
	}
	fmt.Fprintf(w, "Optimized geometry (%d atoms, Ångström):\n",
		len(res.Geometry))
	fmt.Fprint(w, res.Geometry)
	fmt.Fprintf(w, "RMS displacement: %.6f Å\n", res.Displacement)
}

// ReportFailure writes err and the matching hint to w
func ReportFailure(w io.Writer, err error) {
	kind := KindOf(err)
	fmt.Fprintf(w, "Calculation failed (%v)\n", kind)
	var f *Failure
	if errors.As(err, &f) {
		fmt.Fprintln(w, f.Message)
	} else {
		fmt.Fprintln(w, err)
	}
	fmt.Fprintln(w, hints[kind])
}

// rawOutput returns the program output carried by res or err
func rawOutput(res *Result, err error) string {
	if res != nil {
		return res.Raw
	}
	var f *Failure
	if errors.As(err, &f) {
		return f.Raw
	}
	return ""
}

func main() {
	flag.Usage = usage
	flag.Parse()
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr,
		&slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	conf, err := LoadConfig(*config)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *timeout > 0 {
		conf.Timeout = time.Duration(*timeout) * time.Second
	}
	if *output != "" {
		conf.Output = *output
	}
	runner := conf.Runner()
	runner.Logger = logger

	path, err := runner.Check()
	if err != nil {
		ReportFailure(os.Stdout, err)
		os.Exit(1)
	}
	fmt.Printf("ORCA installation found: %s\n", path)
	if *check {
		return
	}

	text, err := readGeometry(flag.Args())
	if err != nil {
		slog.Error("failed to read geometry", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	res, err := Calculate(ctx, runner, text)
	if raw := rawOutput(res, err); raw != "" && conf.Output != "" {
		if werr := os.WriteFile(conf.Output, []byte(raw), 0644); werr != nil {
			slog.Error("failed to write output", "error", werr)
		} else {
			fmt.Printf("Full ORCA output written to %s\n", conf.Output)
		}
	}
	if err != nil {
		ReportFailure(os.Stdout, err)
		stop()
		os.Exit(1)
	}
	Report(os.Stdout, res)
}
