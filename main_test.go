package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestReport(t *testing.T) {
	geom, _ := ParseGeometry("H 0 0 0\nH 0 0 0.74\n")
	var buf bytes.Buffer
	Report(&buf, &Result{
		Energy:       -1.17,
		Geometry:     geom,
		Displacement: 0.01,
	})
	got := buf.String()
	for _, want := range []string{
		"B3LYP/def2-SVP (Opt)",
		"Final energy: -1.1700000000 Eh",
		"2 atoms",
		"0.740000000000",
		"RMS displacement: 0.010000 Å",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("got\n%s, wanted it to contain %q\n", got, want)
		}
	}
}

func TestReportFailure(t *testing.T) {
	for kind, hint := range hints {
		var buf bytes.Buffer
		ReportFailure(&buf, Fail(kind, "details"))
		got := buf.String()
		if !strings.Contains(got, kind.String()) ||
			!strings.Contains(got, "details") ||
			!strings.Contains(got, hint) {
			t.Errorf("got\n%s, wanted kind %v and hint %q\n",
				got, kind, hint)
		}
	}
	if len(hints) != int(EnergyNotFound)+1 {
		t.Errorf("got %d hints, wanted one per kind", len(hints))
	}
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{InternalError, "InternalError"},
		{EnergyNotFound, "EnergyNotFound"},
		{EnergyNotFound + 1, "ErrorKind(7)"},
		{-1, "ErrorKind(-1)"},
	}
	for _, test := range tests {
		if got := test.kind.String(); got != test.want {
			t.Errorf("got %q, wanted %q\n", got, test.want)
		}
	}
	var buf bytes.Buffer
	ReportFailure(&buf, Fail(ErrorKind(42), "details"))
	if !strings.Contains(buf.String(), "ErrorKind(42)") {
		t.Errorf("got\n%s, wanted it to contain ErrorKind(42)\n",
			buf.String())
	}
}

func TestRawOutput(t *testing.T) {
	tests := []struct {
		res  *Result
		err  error
		want string
	}{
		{&Result{Raw: "ok"}, nil, "ok"},
		{nil, Fail(ExecutionError, "x").withRaw("failed"), "failed"},
		{nil, Fail(ToolMissing, "x"), ""},
	}
	for _, test := range tests {
		if got := rawOutput(test.res, test.err); got != test.want {
			t.Errorf("got %q, wanted %q\n", got, test.want)
		}
	}
}

func TestReadGeometry(t *testing.T) {
	got, err := readGeometry(nil)
	if err != nil || got != WATER {
		t.Errorf("got %q, %v, wanted water\n", got, err)
	}
	got, err = readGeometry([]string{"testfiles/water.geom"})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if _, err := ParseGeometry(got); err != nil {
		t.Errorf("unexpected error %v", err)
	}
}
