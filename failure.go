package main

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the ways a calculation can fail
type ErrorKind int

const (
	InternalError ErrorKind = iota
	InvalidGeometry
	ToolMissing
	Timeout
	ExecutionError
	IncompleteRun
	EnergyNotFound
)

func (k ErrorKind) String() string {
	names := [...]string{
		"InternalError",
		"InvalidGeometry",
		"ToolMissing",
		"Timeout",
		"ExecutionError",
		"IncompleteRun",
		"EnergyNotFound",
	}
	if k < 0 || int(k) >= len(names) {
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
	return names[k]
}

// Failure is the error returned by every stage of a calculation. Raw
// holds the program output, if any was captured, so that it can still
// be inspected.
type Failure struct {
	Kind    ErrorKind
	Message string
	Raw     string
}

// Fail returns a Failure of kind k with a formatted message
func Fail(k ErrorKind, format string, args ...any) *Failure {
	return &Failure{
		Kind:    k,
		Message: fmt.Sprintf(format, args...),
	}
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%v: %s", f.Kind, f.Message)
}

// withRaw attaches raw output to f and returns it
func (f *Failure) withRaw(raw string) *Failure {
	f.Raw = raw
	return f
}

// KindOf returns the ErrorKind carried by err, or InternalError if err
// is not a Failure
func KindOf(err error) ErrorKind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return InternalError
}
