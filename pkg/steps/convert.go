package steps

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Convert returns an operation that reads args[0], transforms it and writes args[1].
func Convert(t Transformer, workDir string) Operation {
	return func(ctx context.Context, args []string) error {
		if len(args) != 2 {
			return fmt.Errorf("convert: expected source and dest, got %d args", len(args))
		}
		src, dst := resolvePath(workDir, args[0]), resolvePath(workDir, args[1])

		content, err := os.ReadFile(src)
		if err != nil {
			return fmt.Errorf("reading source: %w", err)
		}

		ctx = WithBannerData(ctx, BannerData{Source: args[0], Dest: args[1]})
		out, err := t.Transform(ctx, string(content))
		if err != nil {
			return fmt.Errorf("transforming %s: %w", args[0], err)
		}

		if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
			return fmt.Errorf("creating parent directories: %w", err)
		}
		if err := os.WriteFile(dst, []byte(out), 0o644); err != nil {
			return fmt.Errorf("writing output file: %w", err)
		}

		slog.Debug("converted file", "source", args[0], "dest", args[1], "bytes", len(out))
		return nil
	}
}

func resolvePath(workDir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(workDir, p)
}
