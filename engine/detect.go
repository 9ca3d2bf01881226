package engine

import (
	"os"
	"path/filepath"

	"github.com/scopeengine/core"
	"github.com/scopeengine/core/config"
)

// dotDir is the hidden subdirectory name a scope root may use in place of
// keeping objects/ and scope.json directly at the working directory,
// mirrored from spec.md §6's "<cwd> or a hidden .bit subdirectory".
const dotDir = ".bit"

// Detect walks from, then its ancestors, looking for a scope root: either
// a directory containing a .bit subdirectory, or a directory that itself
// holds both objects/ and scope.json. Returns the directory a Repository
// should be rooted at (the .bit subdirectory itself, when that's the
// match) plus the scope's working directory (the ancestor that matched),
// failing with scope.ErrScopeNotFound if the walk reaches the filesystem
// root with no match.
func Detect(from string) (storageRoot, workingDir string, err error) {
	dir, err := filepath.Abs(from)
	if err != nil {
		return "", "", err
	}

	for {
		dotPath := filepath.Join(dir, dotDir)
		if info, statErr := os.Stat(dotPath); statErr == nil && info.IsDir() {
			return dotPath, dir, nil
		}

		objectsPath := filepath.Join(dir, "objects")
		cfgPath := filepath.Join(dir, config.FileName)
		if objInfo, statErr := os.Stat(objectsPath); statErr == nil && objInfo.IsDir() {
			if _, cfgErr := os.Stat(cfgPath); cfgErr == nil {
				return dir, dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", "", scope.ErrScopeNotFound(from)
		}
		dir = parent
	}
}
