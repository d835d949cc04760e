//go:build !integration

package common

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unsetBuildEnvironment(t *testing.T) {
	t.Helper()

	for _, k := range []string{
		"SHADER_COMPILER",
		"SHADER_COMPILER_ARGS",
		"SHADER_LAYOUT",
		"SHADER_OUTPUT_ROOT",
		"SHADER_EXTENSIONS",
		"SHADER_CONCURRENCY",
	} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestBuildConfigFromEnv(t *testing.T) {
	tests := map[string]struct {
		env            map[string]string
		expectedConfig BuildConfig
		expectedError  bool
	}{
		"nothing set": {},
		"all set": {
			env: map[string]string{
				"SHADER_COMPILER":      "/opt/sdk/bin/glslangValidator",
				"SHADER_COMPILER_ARGS": "--target-env vulkan1.2",
				"SHADER_LAYOUT":        "binroot",
				"SHADER_OUTPUT_ROOT":   "out",
				"SHADER_EXTENSIONS":    "vert,frag",
				"SHADER_CONCURRENCY":   "4",
			},
			expectedConfig: BuildConfig{
				Compiler:     "/opt/sdk/bin/glslangValidator",
				CompilerArgs: "--target-env vulkan1.2",
				Mode:         LayoutBinRoot,
				OutputRoot:   "out",
				Extensions:   []string{"vert", "frag"},
				Concurrency:  4,
			},
		},
		"invalid concurrency": {
			env:           map[string]string{"SHADER_CONCURRENCY": "many"},
			expectedError: true,
		},
	}

	for tn, tc := range tests {
		t.Run(tn, func(t *testing.T) {
			unsetBuildEnvironment(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			cfg, err := BuildConfigFromEnv()
			if tc.expectedError {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expectedConfig, cfg)
		})
	}
}

func TestBuildConfigFromEnvOverridesFile(t *testing.T) {
	unsetBuildEnvironment(t)
	t.Setenv("SHADER_LAYOUT", "binroot")

	cfg := NewBuildConfig()
	cfg.Compiler = "from-file"

	env, err := BuildConfigFromEnv()
	require.NoError(t, err)
	require.NoError(t, cfg.Merge(env))

	assert.Equal(t, "from-file", cfg.Compiler)
	assert.Equal(t, LayoutBinRoot, cfg.Mode)
	assert.Equal(t, DefaultExtensions, cfg.Extensions)
}
