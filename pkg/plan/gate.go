package plan

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Gate decides which optional capabilities the runtime supports.
type Gate struct {
	version     RuntimeVersion
	raw         map[string]string
	constraints map[string]*semver.Constraints
}

// NewGate compiles the capability constraints for version.
func NewGate(version RuntimeVersion, capabilities map[string]string) (*Gate, error) {
	if version.IsZero() {
		return nil, fmt.Errorf("runtime version is not set")
	}

	g := &Gate{
		version:     version,
		raw:         capabilities,
		constraints: make(map[string]*semver.Constraints, len(capabilities)),
	}
	for name, c := range capabilities {
		constraint, err := semver.NewConstraint(c)
		if err != nil {
			return nil, fmt.Errorf("capability %q: %w", name, err)
		}
		// Nightly and release-candidate runtimes are ordered like any other
		// version: v21.0.0-rc.1 satisfies ">= 4.0.0", v4.0.0-rc.1 does not.
		constraint.IncludePrerelease = true
		g.constraints[name] = constraint
	}
	return g, nil
}

// Version returns the runtime version the gate evaluates against.
func (g *Gate) Version() RuntimeVersion { return g.version }

// Enabled reports whether capability is available. The empty capability is
// always enabled; unknown capabilities never are.
func (g *Gate) Enabled(capability string) bool {
	if capability == "" {
		return true
	}
	c, ok := g.constraints[capability]
	if !ok {
		return false
	}
	return c.Check(g.version.v)
}

func (g *Gate) reason(capability string) string {
	if _, ok := g.constraints[capability]; !ok {
		return fmt.Sprintf("unknown capability %q", capability)
	}
	return fmt.Sprintf("runtime %s does not satisfy %s (%s)", g.version, capability, g.raw[capability])
}
