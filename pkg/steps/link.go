package steps

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// Link returns an operation that points args[1] at args[0] with a symbolic
// link, replacing whatever args[1] held before.
func Link(workDir string) Operation {
	return func(_ context.Context, args []string) error {
		if len(args) != 2 {
			return fmt.Errorf("link: expected source and dest, got %d args", len(args))
		}

		src, err := filepath.Abs(resolvePath(workDir, args[0]))
		if err != nil {
			return fmt.Errorf("resolving source: %w", err)
		}
		dst := resolvePath(workDir, args[1])

		if err := os.Remove(dst); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("removing stale %s: %w", args[1], err)
		}
		if err := os.Symlink(src, dst); err != nil {
			return fmt.Errorf("linking %s: %w", args[1], err)
		}

		slog.Debug("linked asset", "source", src, "dest", args[1])
		return nil
	}
}
