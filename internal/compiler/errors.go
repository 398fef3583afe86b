package compiler

import (
	"fmt"

	"dml-mapper/internal/diagnostic"
)

// Stage names a compilation phase.
type Stage int

const (
	StageRead Stage = iota
	StageLex
	StageParse
	StageValidate
	StageGenerate
	StageWrite
)

var stageNames = [...]string{
	StageRead:     "read",
	StageLex:      "lex",
	StageParse:    "parse",
	StageValidate: "validate",
	StageGenerate: "generate",
	StageWrite:    "write",
}

func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}

	return "unknown"
}

// StageError tags the first failure of a compile with its stage.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// ValidationError carries every diagnostic collected by the validator.
type ValidationError struct {
	Diagnostics *diagnostic.Diagnostics
}

func (e *ValidationError) Error() string {
	n := len(e.Diagnostics.Errors)
	if n == 1 {
		return e.Diagnostics.Errors[0].String()
	}

	return fmt.Sprintf("%d errors: %v", n, e.Diagnostics.Error())
}
