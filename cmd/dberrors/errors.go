package main

import "errors"

// Sentinel errors for command operations
var (
	ErrNoFixtures        = errors.New("no corpus files given and none configured")
	ErrCorpusMismatch    = errors.New("corpus cases did not match")
	ErrUnknownDialect    = errors.New("unknown dialect")
	ErrUnsupportedDriver = errors.New("unsupported driver")
	ErrMessageRequired   = errors.New("message is required")
)
