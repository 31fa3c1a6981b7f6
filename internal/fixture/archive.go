package fixture

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/txtar"

	asmerrors "github.com/AndreyAkinshin/asmcheck/internal/errors"
)

// ArchiveExt is the extension of fixture bundles accepted in place of a directory.
const ArchiveExt = ".txtar"

// IsArchive reports whether path names a fixture archive.
func IsArchive(path string) bool {
	return strings.HasSuffix(path, ArchiveExt)
}

// ExtractArchive writes every member of a txtar archive into destDir.
//
// Members must be plain file names (the same <id>.<ext> names a fixture
// directory would hold); names with path separators or ".." are rejected.
func ExtractArchive(archivePath, destDir string) error {
	archive, err := txtar.ParseFile(archivePath)
	if err != nil {
		return asmerrors.Discovery(archivePath, err)
	}
	return WriteArchive(archive, destDir)
}

// WriteArchive writes the members of an already parsed archive into destDir.
func WriteArchive(archive *txtar.Archive, destDir string) error {
	seen := make(map[string]bool, len(archive.Files))
	for _, f := range archive.Files {
		if err := validateMemberName(f.Name); err != nil {
			return asmerrors.Discovery(destDir, err)
		}
		if seen[f.Name] {
			return asmerrors.Discovery(destDir, fmt.Errorf("archive member %q appears more than once", f.Name))
		}
		seen[f.Name] = true

		path := filepath.Join(destDir, f.Name)
		if err := os.WriteFile(path, f.Data, 0o644); err != nil {
			return asmerrors.Discovery(destDir, fmt.Errorf("write archive member: %w", err))
		}
	}
	return nil
}

func validateMemberName(name string) error {
	if name == "" {
		return fmt.Errorf("archive member has an empty name")
	}
	if strings.Contains(name, "..") {
		return fmt.Errorf("archive member %q contains \"..\"", name)
	}
	if strings.ContainsAny(name, `/\`) || filepath.IsAbs(name) {
		return fmt.Errorf("archive member %q must be a plain file name", name)
	}
	return nil
}
