package api

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	for name, constraint := range c.Capabilities {
		if _, err := semver.NewConstraint(constraint); err != nil {
			return fmt.Errorf("capability %q: invalid constraint %q: %w", name, constraint, err)
		}
	}

	if c.Runtime.Version != "" {
		if _, err := semver.NewVersion(c.Runtime.Version); err != nil {
			return fmt.Errorf("runtime.version %q: %w", c.Runtime.Version, err)
		}
	} else if c.Runtime.Command == "" {
		return fmt.Errorf("runtime.command is required when runtime.version is not set")
	}

	if (len(c.Suites) > 0 || len(c.Verify.Files) > 0) && c.Runner.Command == "" {
		return fmt.Errorf("runner.command is required")
	}

	for i, s := range c.Suites {
		if s.File == "" {
			return fmt.Errorf("suite %d: file is required", i)
		}
		if err := c.checkRequires(s.Requires); err != nil {
			return fmt.Errorf("suite %q: %w", s.File, err)
		}
	}

	if err := c.validateConversions(); err != nil {
		return err
	}

	if len(c.Assets.Files) > 0 && c.Assets.Dir == "" {
		return fmt.Errorf("assets.dir is required")
	}

	if err := c.validateBundle(); err != nil {
		return err
	}

	if len(c.CLI.Fixtures) > 0 && c.CLI.Command == "" {
		return fmt.Errorf("cli.command is required")
	}

	return nil
}

func (c *Config) validateConversions() error {
	if len(c.Conversions) > 0 && c.Transform.Command == "" {
		return fmt.Errorf("transform.command is required")
	}

	dests := make(map[string]int)
	for i, conv := range c.Conversions {
		if conv.Source == "" {
			return fmt.Errorf("conversion %d: source is required", i)
		}
		if conv.Dest == "" {
			return fmt.Errorf("conversion %d: dest is required", i)
		}
		if prev, exists := dests[conv.Dest]; exists {
			return fmt.Errorf("conversion %d: duplicate dest %q (first defined at conversion %d)", i, conv.Dest, prev)
		}
		dests[conv.Dest] = i

		if err := c.checkRequires(conv.Requires); err != nil {
			return fmt.Errorf("conversion %q: %w", conv.Source, err)
		}
	}

	for i, pass := range c.Transform.Passes {
		if pass.Command == "" {
			return fmt.Errorf("transform.passes[%d]: command is required", i)
		}
	}
	return nil
}

func (c *Config) validateBundle() error {
	if c.Bundle == nil {
		return nil
	}
	if c.Bundle.Command == "" {
		return fmt.Errorf("bundle.command is required")
	}
	if len(c.Bundle.Inputs) == 0 {
		return fmt.Errorf("bundle.inputs is empty")
	}
	if c.Bundle.Output == "" {
		return fmt.Errorf("bundle.output is required")
	}
	if err := c.checkRequires(c.Bundle.Requires); err != nil {
		return fmt.Errorf("bundle: %w", err)
	}
	return nil
}

func (c *Config) checkRequires(capability string) error {
	if capability == "" {
		return nil
	}
	if _, ok := c.Capabilities[capability]; !ok {
		return fmt.Errorf("requires unknown capability %q", capability)
	}
	return nil
}
