package common

import (
	"path/filepath"
	"runtime"

	"github.com/kelseyhightower/envconfig"
	"github.com/samber/lo"
)

// SDKEnvironment describes a shader SDK installation advertised through the
// environment, as set up by the Vulkan SDK installers.
type SDKEnvironment struct {
	VulkanSDK string `envconfig:"VULKAN_SDK"`
	// BinDir is the SDK subdirectory holding the tools. Older Windows SDKs use
	// Bin32.
	BinDir string `envconfig:"VULKAN_SDK_BIN_DIR" default:"bin"`
}

func LoadSDKEnvironment() (SDKEnvironment, error) {
	var env SDKEnvironment
	err := envconfig.Process("", &env)

	return env, err
}

// DefaultCompiler returns the compiler shipped with the SDK, or the bare
// compiler name to be looked up in PATH when no SDK is configured.
func (e SDKEnvironment) DefaultCompiler() string {
	name := DefaultCompilerName
	if runtime.GOOS == "windows" {
		name += ".exe"
	}

	if e.VulkanSDK == "" {
		return name
	}

	binDir := lo.CoalesceOrEmpty(e.BinDir, "bin")

	return filepath.Join(e.VulkanSDK, binDir, name)
}
