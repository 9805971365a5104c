package steps

import (
	"fmt"

	"github.com/systemstart/testrun/pkg/api"
)

// Factory turns declarative step specs into executable steps.
type Factory struct {
	WorkDir  string
	Base     Transformer
	Extended Transformer
	Bundler  *Bundler
}

// NewFactory builds the transformers from cfg. bundler may be nil.
func NewFactory(cfg *api.Config, workDir string, bundler *Bundler) (*Factory, error) {
	base, extended, err := NewTransformers(cfg.Transform, workDir)
	if err != nil {
		return nil, err
	}
	return &Factory{WorkDir: workDir, Base: base, Extended: extended, Bundler: bundler}, nil
}

// NewStep creates a Step implementation from a StepSpec.
func (f *Factory) NewStep(spec api.StepSpec) (Step, error) {
	switch spec.Kind {
	case api.StepKindProcess:
		if spec.Command == "" {
			return nil, fmt.Errorf("step %q: command is required", spec.Name)
		}
		return &ProcessStep{Label: spec.Name, Command: spec.Command, Args: spec.Args, Quiet: spec.Quiet}, nil
	case api.StepKindFunction:
		op, err := f.operation(spec.Operation)
		if err != nil {
			return nil, fmt.Errorf("step %q: %w", spec.Name, err)
		}
		return &FunctionStep{Label: spec.Name, Op: op, Args: spec.Args}, nil
	default:
		return nil, fmt.Errorf("step %q: unknown kind %q", spec.Name, spec.Kind)
	}
}

func (f *Factory) operation(name string) (Operation, error) {
	switch name {
	case api.OperationConvert:
		return Convert(f.Base, f.WorkDir), nil
	case api.OperationConvertExtended:
		return Convert(f.Extended, f.WorkDir), nil
	case api.OperationLink:
		return Link(f.WorkDir), nil
	case api.OperationBundle:
		if f.Bundler == nil {
			return nil, fmt.Errorf("bundle operation requires a bundler")
		}
		return Bundle(f.Bundler, f.WorkDir), nil
	default:
		return nil, fmt.Errorf("unknown operation %q", name)
	}
}
