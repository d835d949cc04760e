package common

import (
	"github.com/kelseyhightower/envconfig"
)

// buildEnvironment lists the environment variables overriding the config
// file.
type buildEnvironment struct {
	Compiler     string   `envconfig:"SHADER_COMPILER"`
	CompilerArgs string   `envconfig:"SHADER_COMPILER_ARGS"`
	Mode         string   `envconfig:"SHADER_LAYOUT"`
	OutputRoot   string   `envconfig:"SHADER_OUTPUT_ROOT"`
	Extensions   []string `envconfig:"SHADER_EXTENSIONS"`
	Concurrency  int      `envconfig:"SHADER_CONCURRENCY"`
}

// BuildConfigFromEnv returns the build settings found in the environment.
// Unset variables leave the matching fields empty, ready for Merge.
func BuildConfigFromEnv() (BuildConfig, error) {
	var env buildEnvironment
	if err := envconfig.Process("", &env); err != nil {
		return BuildConfig{}, err
	}

	return BuildConfig{
		Compiler:     env.Compiler,
		CompilerArgs: env.CompilerArgs,
		Mode:         LayoutMode(env.Mode),
		OutputRoot:   env.OutputRoot,
		Extensions:   env.Extensions,
		Concurrency:  env.Concurrency,
	}, nil
}
