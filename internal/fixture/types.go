// Package fixture discovers golden test cases for the interpreter.
//
// A fixture is a group of files sharing a base name: a program (<id>.asm by
// default), an optional input (<id>.in) and an expected output (<id>.out).
package fixture

import "strings"

// Recognized file roles.
const (
	DefaultProgramExt = ".asm"
	InputExt          = ".in"
	ExpectedExt       = ".out"
)

// Role identifies which slot of a fixture a file fills.
type Role int

const (
	RoleProgram Role = iota
	RoleInput
	RoleExpected
)

func (r Role) String() string {
	switch r {
	case RoleProgram:
		return "program"
	case RoleInput:
		return "input"
	default:
		return "expected output"
	}
}

// Fixture is one golden test case.
type Fixture struct {
	ID           string // Shared base name of the file group
	ProgramPath  string // Path of the program file; empty if missing
	InputPath    string // Path of the input file; empty if the fixture has no input
	Input        string // Input content, loaded only with ResolveOptions.LoadInput
	ExpectedPath string // Path of the expected-output file; empty if missing
	Expected     string // Expected output content
}

// HasInput reports whether the fixture has an input file.
func (f *Fixture) HasInput() bool {
	return f.InputPath != ""
}

// Missing lists the required roles the fixture lacks.
// Input is optional: a fixture without it runs with no input.
func (f *Fixture) Missing() []Role {
	var missing []Role
	if f.ProgramPath == "" {
		missing = append(missing, RoleProgram)
	}
	if f.ExpectedPath == "" {
		missing = append(missing, RoleExpected)
	}
	return missing
}

// Complete reports whether the fixture has everything needed to run.
func (f *Fixture) Complete() bool {
	return len(f.Missing()) == 0
}

// DisplayName returns the program path, or the ID when there is no program.
func (f *Fixture) DisplayName() string {
	if f.ProgramPath != "" {
		return f.ProgramPath
	}
	return f.ID
}

// MissingDescription returns a human-readable list of missing roles.
func (f *Fixture) MissingDescription() string {
	missing := f.Missing()
	if len(missing) == 0 {
		return ""
	}
	names := make([]string, len(missing))
	for i, r := range missing {
		names[i] = r.String()
	}
	return "missing " + strings.Join(names, " and ")
}
