package api

import "runtime"

// Default returns the built-in configuration: the regenerator test plan.
func Default() *Config {
	runnerCmd, cliCmd := "mocha", "./bin/regenerator"
	if runtime.GOOS == "windows" {
		runnerCmd, cliCmd = "mocha.cmd", `bin\regenerator.cmd`
	}

	return &Config{
		Runtime: RuntimeConfig{
			Command:     "node",
			VersionArgs: []string{"--version"},
		},
		Capabilities: map[string]string{
			CapabilityGenerators: ">= 0.11.2",
			CapabilityNode4:      ">= 4.0.0",
			// uglify-js breaks on this release.
			CapabilityBundle: "!= 0.11.7",
		},
		Runner: RunnerConfig{
			Command:  runnerCmd,
			Reporter: "spec",
			Setup:    "./test/runtime.js",
		},
		Suites: []SuiteConfig{
			{Name: "tests.es6", File: "./test/tests.es6.js", Requires: CapabilityGenerators, Args: []string{"--harmony"}},
			{Name: "tests-node4.es6", File: "./test/tests-node4.es6.js", Requires: CapabilityNode4, Args: []string{"--harmony"}},
		},
		Transform: TransformConfig{
			Command: cliCmd,
			Passes: []CommandConfig{
				{
					Command: "babel",
					Args: []string{
						"--presets", "regenerator-preset",
						"--plugins", "transform-es2015-spread,transform-es2015-parameters",
					},
				},
			},
		},
		Conversions: []ConversionConfig{
			{Source: "./test/tests.es6.js", Dest: "./test/tests.es5.js", Requires: CapabilityGenerators},
			{Source: "./test/tests-node4.es6.js", Dest: "./test/tests-node4.es5.js", Requires: CapabilityNode4},
			{Source: "./test/non-native.js", Dest: "./test/non-native.es5.js"},
			{Source: "./test/async.js", Dest: "./test/async.es5.js"},
			{Source: "./test/regression.js", Dest: "./test/regression.es5.js", Extended: true},
		},
		Assets: AssetsConfig{
			Dir:    "./node_modules/mocha",
			Target: "./test",
			Files:  []string{"mocha.js", "mocha.css"},
		},
		Bundle: &BundleConfig{
			Command: "browserify",
			Inputs: []string{
				"./test/runtime.js",
				"./test/tests.es5.js",
				"./test/tests-node4.es5.js",
				"./test/non-native.es5.js",
				"./test/async.es5.js",
				"./test/regression.es5.js",
			},
			Output:   "./test/tests.browser.js",
			Requires: CapabilityBundle,
		},
		Verify: VerifyConfig{
			Files: []string{
				"./test/tests.es5.js",
				"./test/tests-node4.es5.js",
				"./test/non-native.es5.js",
				"./test/async.es5.js",
				"./test/regression.es5.js",
				"./test/tests.transform.js",
			},
		},
		CLI: CLIConfig{
			Command: cliCmd,
			Fixtures: []string{
				"./test/async.es5.js",
				"./test/nothing-to-transform.js",
				"./test/replaceWith-falsy.js",
			},
			FlagSets: [][]string{
				{},
				{"--include-runtime"},
				{"--disable-async"},
				{"--include-runtime", "--disable-async"},
			},
		},
	}
}
