package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"gitlab.com/gitlab-org/buildshaders/common"
	"gitlab.com/gitlab-org/buildshaders/compiler"
	"gitlab.com/gitlab-org/buildshaders/driver"
	"gitlab.com/gitlab-org/buildshaders/walker"
)

//nolint:lll
type configOptions struct {
	ConfigFile string `short:"c" long:"config" env:"BUILDSHADERS_CONFIG" description:"TOML config file (default: buildshaders.toml in the working directory, if present)"`
	EnvFile    string `long:"env-file" description:"Dotenv file loaded into the environment before the configuration is resolved"`

	Compiler     string   `long:"compiler" description:"Shader compiler executable, a path or a name looked up in PATH (env SHADER_COMPILER)"`
	CompilerArgs string   `long:"compiler-args" description:"Extra compiler arguments passed before -V, shell quoted (env SHADER_COMPILER_ARGS)"`
	Mode         string   `long:"mode" description:"Output layout: sibling or binroot (env SHADER_LAYOUT)"`
	OutputRoot   string   `long:"out" description:"Output root in binroot mode (default: <ROOT>/bin)"`
	Extensions   []string `long:"extension" description:"Shader source extension, repeatable (default: frag, vert, geo, geom, comp, vertex, fragment, tess)"`
	Exclude      []string `long:"exclude" description:"Doublestar pattern relative to ROOT of files and directories to skip, repeatable"`
	Concurrency  int      `long:"concurrency" description:"Maximum number of concurrent compiler processes, negative for no limit (default: number of CPUs)"`
	Timeout      int      `long:"timeout" description:"Abort the build after this many seconds (default: no timeout)"`

	out io.Writer
}

// buildSetup is everything a command needs to walk and compile a shader
// root.
type buildSetup struct {
	root   string
	config *common.BuildConfig

	compiler    *compiler.Executable
	driver      *driver.Driver
	walkOptions walker.Options
}

func (c *configOptions) output() io.Writer {
	if c.out == nil {
		return os.Stdout
	}

	return c.out
}

func (c *configOptions) flagsConfig() common.BuildConfig {
	return common.BuildConfig{
		Compiler:     c.Compiler,
		CompilerArgs: c.CompilerArgs,
		Mode:         common.LayoutMode(c.Mode),
		OutputRoot:   c.OutputRoot,
		Extensions:   c.Extensions,
		Exclude:      c.Exclude,
		Concurrency:  c.Concurrency,
		Timeout:      c.Timeout,
	}
}

// loadConfig resolves the build configuration. Later layers override earlier
// ones: defaults, config file, environment, command line flags. A compiler
// left unset after that comes from the Vulkan SDK or PATH.
func (c *configOptions) loadConfig() (*common.BuildConfig, error) {
	if c.EnvFile != "" {
		if err := godotenv.Load(c.EnvFile); err != nil {
			return nil, fmt.Errorf("loading env file: %w", common.NewPathError(c.EnvFile, err))
		}
	}

	config := common.NewBuildConfig()

	configFile, required := c.ConfigFile, true
	if configFile == "" {
		configFile, required = common.DefaultConfigFile, false
	}

	if err := config.LoadConfig(configFile, required); err != nil {
		return nil, fmt.Errorf("loading config file: %w", err)
	}
	if config.Loaded {
		logrus.WithField("config", configFile).Debugln("Loaded config file")
	}

	envConfig, err := common.BuildConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	for _, overlay := range []common.BuildConfig{envConfig, c.flagsConfig()} {
		if err := config.Merge(overlay); err != nil {
			return nil, fmt.Errorf("merging configuration: %w", err)
		}
	}

	if config.Compiler == "" {
		sdk, err := common.LoadSDKEnvironment()
		if err != nil {
			return nil, fmt.Errorf("reading SDK environment: %w", err)
		}

		config.Compiler = sdk.DefaultCompiler()
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func (c *configOptions) rootDir(cliCtx *cli.Context) (string, error) {
	switch cliCtx.NArg() {
	case 0:
		return common.DefaultShaderRoot, nil
	case 1:
		return cliCtx.Args().First(), nil
	default:
		return "", errors.New("expected at most one shader root")
	}
}

func (c *configOptions) setup(cliCtx *cli.Context, opts ...driver.Option) (*buildSetup, error) {
	root, err := c.rootDir(cliCtx)
	if err != nil {
		return nil, err
	}

	config, err := c.loadConfig()
	if err != nil {
		return nil, err
	}

	exe, err := compiler.NewExecutable(config.Compiler, config.CompilerArgs)
	if err != nil {
		return nil, err
	}
	exe.MaxOutputBytes = config.OutputLimit

	d, err := driver.New(driver.Config{
		Mode:        config.Mode,
		OutputRoot:  config.EffectiveOutputRoot(root),
		Extensions:  common.NewExtensionSet(config.Extensions...),
		Concurrency: config.EffectiveConcurrency(),
	}, exe, opts...)
	if err != nil {
		return nil, err
	}

	walkOptions := walker.Options{Exclude: config.Exclude}
	if config.Mode == common.LayoutBinRoot {
		walkOptions.SkipDirs = []string{d.OutputRoot(root)}
	}

	logrus.WithFields(logrus.Fields{
		"root":        root,
		"mode":        config.Mode,
		"compiler":    config.Compiler,
		"concurrency": config.EffectiveConcurrency(),
	}).Debugln("Resolved configuration")

	return &buildSetup{
		root:        root,
		config:      config,
		compiler:    exe,
		driver:      d,
		walkOptions: walkOptions,
	}, nil
}

func (s *buildSetup) walk() ([]common.FileEntry, error) {
	return walker.Walk(s.root, s.walkOptions)
}
