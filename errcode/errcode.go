package errcode

import (
	"errors"

	"dhtnode-go/drivers/dht"
)

// Code is a stable, caller-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK            Code = "ok"
	Busy          Code = "busy"
	Unsupported   Code = "unsupported"
	InvalidParams Code = "invalid_params"
	UnknownPin    Code = "unknown_pin"

	// Sensor read outcomes.
	NotPresent       Code = "not_present"
	ChecksumMismatch Code = "checksum_mismatch"
	InvalidData      Code = "invalid_data"
	Timeout          Code = "timeout"
	PinError         Code = "pin_error"

	Error Code = "error" // generic fallback
)

// Optional wrapper when we want to keep context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	if e.Msg != "" {
		return string(e.C) + ": " + e.Msg
	}
	return string(e.C)
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	var c Code
	if errors.As(err, &c) {
		return c
	}
	type coder interface{ Code() Code }
	var x coder
	if errors.As(err, &x) {
		return x.Code()
	}
	return Error
}

// MapDriverErr maps dht driver errors to a Code.
func MapDriverErr(err error) Code {
	switch {
	case err == nil:
		return OK
	case errors.Is(err, dht.ErrNotPresent):
		return NotPresent
	case errors.Is(err, dht.ErrTimeout):
		return Timeout
	case errors.Is(err, dht.ErrInvalidData):
		return InvalidData
	}
	var cerr *dht.ChecksumError
	if errors.As(err, &cerr) {
		return ChecksumMismatch
	}
	var perr *dht.PinError
	if errors.As(err, &perr) {
		return PinError
	}
	return Error
}
