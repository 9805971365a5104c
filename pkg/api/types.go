package api

const (
	DefaultConfigFile = ".testrun.yaml"

	CapabilityGenerators = "generators"
	CapabilityNode4      = "node4"
	CapabilityBundle     = "bundle"

	StepKindFunction = "function"
	StepKindProcess  = "process"

	OperationConvert         = "convert"
	OperationConvertExtended = "convert-extended"
	OperationLink            = "link"
	OperationBundle          = "bundle"
)

// Config is the .testrun.yaml configuration format.
type Config struct {
	Runtime      RuntimeConfig      `yaml:"runtime"`
	Capabilities map[string]string  `yaml:"capabilities"`
	Runner       RunnerConfig       `yaml:"runner"`
	Suites       []SuiteConfig      `yaml:"suites"`
	Transform    TransformConfig    `yaml:"transform"`
	Conversions  []ConversionConfig `yaml:"conversions"`
	Assets       AssetsConfig       `yaml:"assets"`
	Bundle       *BundleConfig      `yaml:"bundle,omitempty"`
	Verify       VerifyConfig       `yaml:"verify"`
	CLI          CLIConfig          `yaml:"cli"`

	// Set by the loader, not from YAML.
	FilePath string `yaml:"-"`
}

// RuntimeConfig describes how the host runtime version is obtained.
// A non-empty Version skips probing.
type RuntimeConfig struct {
	Command     string   `yaml:"command"`
	VersionArgs []string `yaml:"versionArgs"`
	Version     string   `yaml:"version"`
}

// RunnerConfig configures the external test runner.
type RunnerConfig struct {
	Command  string `yaml:"command"`
	Reporter string `yaml:"reporter"`
	Setup    string `yaml:"setup"`
}

// SuiteConfig is a test file run directly by the test runner, before conversion.
type SuiteConfig struct {
	Name     string   `yaml:"name"`
	File     string   `yaml:"file"`
	Requires string   `yaml:"requires"`
	Args     []string `yaml:"args"`
}

// CommandConfig is an external command with its fixed arguments.
type CommandConfig struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

// TransformConfig configures the source transformer used by conversions.
// Passes run after the base command for extended conversions only.
type TransformConfig struct {
	Command string          `yaml:"command"`
	Args    []string        `yaml:"args"`
	Passes  []CommandConfig `yaml:"passes"`
	Banner  string          `yaml:"banner"`
}

// ConversionConfig converts Source into Dest.
type ConversionConfig struct {
	Name     string `yaml:"name"`
	Source   string `yaml:"source"`
	Dest     string `yaml:"dest"`
	Requires string `yaml:"requires"`
	Extended bool   `yaml:"extended"`
}

// AssetsConfig lists the test runner's static files that are linked from Dir into Target.
type AssetsConfig struct {
	Dir    string   `yaml:"dir"`
	Target string   `yaml:"target"`
	Files  []string `yaml:"files"`
}

// BundleConfig configures the optional bundling step.
type BundleConfig struct {
	Command  string   `yaml:"command"`
	Args     []string `yaml:"args"`
	Inputs   []string `yaml:"inputs"`
	Output   string   `yaml:"output"`
	Requires string   `yaml:"requires"`
}

// VerifyConfig lists the converted files run by the test runner.
type VerifyConfig struct {
	Files []string `yaml:"files"`
}

// CLIConfig configures the command-line tool smoke runs: every fixture is
// run once per flag set.
type CLIConfig struct {
	Command  string     `yaml:"command"`
	Fixtures []string   `yaml:"fixtures"`
	FlagSets [][]string `yaml:"flagSets"`
}

// StepSpec is the declarative form of a single queued step.
type StepSpec struct {
	Name      string   `yaml:"name"`
	Kind      string   `yaml:"kind"`
	Operation string   `yaml:"operation,omitempty"`
	Command   string   `yaml:"command,omitempty"`
	Args      []string `yaml:"args,omitempty"`
	Quiet     bool     `yaml:"quiet,omitempty"`
}
