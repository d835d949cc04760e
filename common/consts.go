package common

import "time"

const DefaultShaderRoot = "shaders"
const DefaultBinRootDir = "bin"
const DefaultCompilerName = "glslangValidator"
const DefaultConfigFile = "buildshaders.toml"

// DefaultOutputLimit caps captured compiler stdout and stderr, each.
const DefaultOutputLimit = 1024 * 1024

const DefaultGracefulKillTimeout = 10 * time.Second
const DefaultForceKillTimeout = 10 * time.Second

// DefaultSpawnRetries is how many times a compiler that failed to start with
// a transient error is retried.
const DefaultSpawnRetries = 3

const WatchDebounceInterval = 200 * time.Millisecond
