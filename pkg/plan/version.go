package plan

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// RuntimeVersion is the version of the runtime executing the test suites.
type RuntimeVersion struct {
	v *semver.Version
}

// ParseRuntimeVersion parses the first non-empty line of s, e.g. "v4.2.1".
func ParseRuntimeVersion(s string) (RuntimeVersion, error) {
	line := ""
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			line = l
			break
		}
	}
	if line == "" {
		return RuntimeVersion{}, fmt.Errorf("empty runtime version")
	}

	v, err := semver.NewVersion(line)
	if err != nil {
		return RuntimeVersion{}, fmt.Errorf("parsing runtime version %q: %w", line, err)
	}
	return RuntimeVersion{v: v}, nil
}

// MustParseRuntimeVersion is ParseRuntimeVersion for constants; it panics on error.
func MustParseRuntimeVersion(s string) RuntimeVersion {
	v, err := ParseRuntimeVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// ProbeRuntimeVersion runs command with args and parses its output.
func ProbeRuntimeVersion(ctx context.Context, dir, command string, args []string) (RuntimeVersion, error) {
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return RuntimeVersion{}, fmt.Errorf("probing %s version: %w\nstderr: %s", command, err, stderr.String())
	}
	return ParseRuntimeVersion(stdout.String())
}

func (r RuntimeVersion) String() string {
	if r.v == nil {
		return ""
	}
	return "v" + r.v.String()
}

// IsZero reports whether r was never parsed.
func (r RuntimeVersion) IsZero() bool { return r.v == nil }
