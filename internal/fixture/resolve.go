package fixture

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	asmerrors "github.com/AndreyAkinshin/asmcheck/internal/errors"
)

// ResolveOptions configures fixture discovery.
type ResolveOptions struct {
	// ProgramExt is the program file extension, including the leading dot.
	// Defaults to DefaultProgramExt.
	ProgramExt string

	// LoadInput reads input files into Fixture.Input. When false only
	// Fixture.InputPath is recorded and the interpreter reads the file itself.
	LoadInput bool
}

// entry is one classified directory entry.
type entry struct {
	id   string
	role Role
	path string
}

// Resolve scans dir (non-recursively) and groups its files into fixtures.
//
// Files without an extension, with an empty base name, or with an
// unrecognized extension are ignored. Completeness is not checked here;
// see Fixture.Missing.
func Resolve(dir string, opts ResolveOptions) (*Set, error) {
	if opts.ProgramExt == "" {
		opts.ProgramExt = DefaultProgramExt
	}

	entries, err := scan(dir, opts.ProgramExt)
	if err != nil {
		return nil, err
	}

	set := newSet(len(entries) / 3)
	for _, e := range entries {
		f := set.getOrCreate(e.id)
		switch e.role {
		case RoleProgram:
			f.ProgramPath = e.path
		case RoleInput:
			f.InputPath = e.path
			if opts.LoadInput {
				content, err := readContent(e.path)
				if err != nil {
					return nil, err
				}
				f.Input = content
			}
		case RoleExpected:
			content, err := readContent(e.path)
			if err != nil {
				return nil, err
			}
			f.ExpectedPath = e.path
			f.Expected = content
		}
	}

	return set, nil
}

// scan lists dir and classifies every recognizable file.
func scan(dir, programExt string) ([]entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, asmerrors.Discovery(dir, err)
	}

	var entries []entry
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		id, role, ok := Classify(de.Name(), programExt)
		if !ok {
			continue
		}
		entries = append(entries, entry{
			id:   id,
			role: role,
			path: filepath.Join(dir, de.Name()),
		})
	}
	return entries, nil
}

// Classify splits a file name into its fixture ID and role.
// It returns false for names that do not belong to any fixture.
func Classify(name, programExt string) (string, Role, bool) {
	dot := strings.LastIndex(name, ".")
	if dot <= 0 || dot == len(name)-1 {
		return "", 0, false
	}
	id, ext := name[:dot], name[dot:]

	switch ext {
	case programExt:
		return id, RoleProgram, true
	case InputExt:
		return id, RoleInput, true
	case ExpectedExt:
		return id, RoleExpected, true
	default:
		return "", 0, false
	}
}

func readContent(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", asmerrors.Discovery(path, fmt.Errorf("read fixture file: %w", err))
	}
	return string(data), nil
}
