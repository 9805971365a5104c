// Package plan selects and orders the steps of a test run. Build is pure
// apart from expanding fixture patterns; nothing here touches the steps'
// artifacts or spawns step processes.
package plan

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/systemstart/testrun/pkg/api"
	"github.com/systemstart/testrun/pkg/steps"
)

// Skip records a step left out of the plan.
type Skip struct {
	Name   string `yaml:"name"`
	Reason string `yaml:"reason"`
	// MissingDependency marks a tolerated absence of an optional tool.
	MissingDependency bool `yaml:"missingDependency,omitempty"`
}

// Plan is the ordered list of steps for one run.
type Plan struct {
	Runtime      string         `yaml:"runtime"`
	Steps        []api.StepSpec `yaml:"steps"`
	Placeholders []string       `yaml:"placeholders,omitempty"`
	Skipped      []Skip         `yaml:"skipped,omitempty"`
}

// Warnings returns a message per tolerated missing dependency.
func (p *Plan) Warnings() []string {
	var out []string
	for _, s := range p.Skipped {
		if s.MissingDependency {
			out = append(out, fmt.Sprintf("%s: %s", s.Name, s.Reason))
		}
	}
	return out
}

func (p *Plan) add(spec api.StepSpec) { p.Steps = append(p.Steps, spec) }

func (p *Plan) skip(name, reason string) {
	p.Skipped = append(p.Skipped, Skip{Name: name, Reason: reason})
}

// Build assembles the steps in run order: gated suites, conversions, asset
// links, bundle, verification run, command-line tool runs. bundler is nil
// when no bundler is installed. CLI fixture patterns are expanded against fsys.
func Build(cfg *api.Config, gate *Gate, bundler *steps.Bundler, fsys fs.FS) (*Plan, error) {
	p := &Plan{Runtime: gate.Version().String()}

	for _, s := range cfg.Suites {
		name := "test " + suiteName(s)
		if !gate.Enabled(s.Requires) {
			p.skip(name, gate.reason(s.Requires))
			continue
		}
		args := append(append([]string{}, s.Args...), runnerArgs(cfg.Runner)...)
		p.add(processSpec(name, cfg.Runner.Command, append(args, s.File), false))
	}

	for _, c := range cfg.Conversions {
		name := c.Name
		if name == "" {
			name = "convert " + c.Source
		}
		if !gate.Enabled(c.Requires) {
			p.skip(name, gate.reason(c.Requires))
			p.Placeholders = append(p.Placeholders, c.Dest)
			continue
		}
		op := api.OperationConvert
		if c.Extended {
			op = api.OperationConvertExtended
		}
		p.add(functionSpec(name, op, c.Source, c.Dest))
	}

	for _, f := range cfg.Assets.Files {
		target := cfg.Assets.Target
		if target == "" {
			target = "."
		}
		p.add(functionSpec("link "+f, api.OperationLink, path.Join(cfg.Assets.Dir, f), path.Join(target, f)))
	}

	if b := cfg.Bundle; b != nil {
		switch {
		case !gate.Enabled(b.Requires):
			p.skip("bundle", gate.reason(b.Requires))
		case bundler == nil:
			p.Skipped = append(p.Skipped, Skip{
				Name:              "bundle",
				Reason:            fmt.Sprintf("%s not installed; skipping bundle step", b.Command),
				MissingDependency: true,
			})
		default:
			spec := functionSpec("bundle", api.OperationBundle, append(append([]string{}, b.Inputs...), b.Output)...)
			spec.Command = bundler.Path
			p.add(spec)
		}
	}

	if len(cfg.Verify.Files) > 0 {
		p.add(processSpec("verify", cfg.Runner.Command, append(runnerArgs(cfg.Runner), cfg.Verify.Files...), false))
	}

	fixtures, err := steps.ExpandPatterns(fsys, cfg.CLI.Fixtures)
	if err != nil {
		return nil, fmt.Errorf("expanding cli fixtures: %w", err)
	}
	flagSets := cfg.CLI.FlagSets
	if len(flagSets) == 0 {
		flagSets = [][]string{nil}
	}
	for _, fixture := range fixtures {
		for _, flags := range flagSets {
			args := append(append([]string{}, flags...), fixture)
			p.add(processSpec("cli "+strings.Join(args, " "), cfg.CLI.Command, args, true))
		}
	}

	return p, nil
}

func suiteName(s api.SuiteConfig) string {
	if s.Name != "" {
		return s.Name
	}
	return s.File
}

func runnerArgs(r api.RunnerConfig) []string {
	var args []string
	if r.Reporter != "" {
		args = append(args, "--reporter", r.Reporter)
	}
	if r.Setup != "" {
		args = append(args, "--require", r.Setup)
	}
	return args
}

func processSpec(name, command string, args []string, quiet bool) api.StepSpec {
	return api.StepSpec{Name: name, Kind: api.StepKindProcess, Command: command, Args: args, Quiet: quiet}
}

func functionSpec(name, operation string, args ...string) api.StepSpec {
	return api.StepSpec{Name: name, Kind: api.StepKindFunction, Operation: operation, Args: args}
}
