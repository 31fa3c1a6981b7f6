package asmcheck

import (
	"github.com/google/go-cmp/cmp"

	"github.com/AndreyAkinshin/asmcheck/internal/fixture"
)

// DefaultDirectory is the test-case directory the CLI uses by default.
const DefaultDirectory = "test_cases"

// TestCase is a golden test case loaded for use from Go tests.
//
// Interpreters written in Go can run the same suite as the CLI without
// spawning themselves:
//
//	func TestGolden(t *testing.T) {
//	    cases, err := asmcheck.LoadTestCases("../test_cases", ".asm")
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    for _, tc := range cases {
//	        t.Run(tc.Name, func(t *testing.T) {
//	            if tc.Skip {
//	                t.Skip("incomplete test case")
//	            }
//	            got := interpret(tc.Program, tc.Input)
//	            if ok, diff := asmcheck.CompareOutput(tc.Expected, got); !ok {
//	                t.Errorf("output mismatch (-expected +got):\n%s", diff)
//	            }
//	        })
//	    }
//	}
type TestCase struct {
	// Name is the shared base name of the test case files.
	Name string

	// Program is the path of the program file.
	Program string

	// Input is the content of the input file, if any.
	Input string

	// HasInput reports whether the test case has an input file.
	HasInput bool

	// Expected is the exact expected standard output.
	Expected string

	// Skip is set when the program or expected output is missing.
	Skip bool
}

// LoadTestCases loads the test cases in dir, sorted by name. Programs are
// recognized by ext (".asm" when empty).
func LoadTestCases(dir, ext string) ([]TestCase, error) {
	set, err := fixture.Resolve(dir, fixture.ResolveOptions{ProgramExt: ext, LoadInput: true})
	if err != nil {
		return nil, err
	}

	fixtures := set.Sorted()
	cases := make([]TestCase, len(fixtures))
	for i, f := range fixtures {
		cases[i] = TestCase{
			Name:     f.ID,
			Program:  f.ProgramPath,
			Input:    f.Input,
			HasInput: f.HasInput(),
			Expected: f.Expected,
			Skip:     !f.Complete(),
		}
	}
	return cases, nil
}

// CompareOutput reports whether actual equals expected byte for byte. On a
// mismatch it also returns a line diff (-expected +got).
func CompareOutput(expected, actual string) (bool, string) {
	if expected == actual {
		return true, ""
	}
	return false, cmp.Diff(expected, actual)
}
