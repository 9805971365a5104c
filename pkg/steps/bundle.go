package steps

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/systemstart/testrun/pkg/api"
)

// Bundler is a resolved bundler executable.
type Bundler struct {
	Path string
	Args []string
}

// ResolveBundler looks the configured bundler up once. It returns nil when
// bundling is not configured or the bundler is not installed.
func ResolveBundler(cfg *api.BundleConfig, workDir string) *Bundler {
	if cfg == nil {
		return nil
	}

	p, err := exec.LookPath(resolveCommand(workDir, cfg.Command))
	if err != nil {
		slog.Debug("bundler not found", "command", cfg.Command, "error", err)
		return nil
	}
	return &Bundler{Path: p, Args: cfg.Args}
}

// Bundle returns an operation that packs args[:len(args)-1] into the file
// named by the last argument. Inputs may be glob patterns.
func Bundle(b *Bundler, workDir string) Operation {
	return func(ctx context.Context, args []string) error {
		if b == nil {
			return fmt.Errorf("bundle: no bundler available")
		}
		if len(args) < 2 {
			return fmt.Errorf("bundle: expected inputs and output, got %d args", len(args))
		}
		output := args[len(args)-1]

		inputs, err := ExpandPatterns(os.DirFS(workDir), args[:len(args)-1])
		if err != nil {
			return fmt.Errorf("expanding bundle inputs: %w", err)
		}

		cmdArgs := append(append([]string{}, b.Args...), inputs...)
		cmd := exec.CommandContext(ctx, b.Path, cmdArgs...)
		cmd.Dir = workDir

		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		slog.Info("running bundler", "bundler", b.Path, "inputs", len(inputs), "output", output)

		if err := cmd.Run(); err != nil {
			return fmt.Errorf("bundler failed: %w\nstderr: %s", err, stderr.String())
		}

		dst := resolvePath(workDir, output)
		if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
			return fmt.Errorf("creating parent directories: %w", err)
		}
		if err := os.WriteFile(dst, stdout.Bytes(), 0o644); err != nil {
			return fmt.Errorf("writing bundle: %w", err)
		}
		return nil
	}
}
