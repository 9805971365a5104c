package steps

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ExpandPatterns expands glob patterns against fsys, keeping the order of
// patterns. Entries without glob metacharacters are returned unchanged, even
// if they do not exist yet. Absolute patterns are matched on the host filesystem.
func ExpandPatterns(fsys fs.FS, patterns []string) ([]string, error) {
	var result []string
	for _, pattern := range patterns {
		if !strings.ContainsAny(pattern, "*?[{") {
			result = append(result, pattern)
			continue
		}

		var (
			matches []string
			err     error
		)
		if filepath.IsAbs(pattern) {
			matches, err = doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		} else {
			matches, err = doublestar.Glob(fsys, path.Clean(filepath.ToSlash(pattern)), doublestar.WithFilesOnly())
		}
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}

		slices.Sort(matches)
		for _, m := range matches {
			if !slices.Contains(result, m) {
				result = append(result, m)
			}
		}
	}
	return result, nil
}
