// Package fakecompiler lets a test binary stand in for glslangValidator.
//
// A test package calls Main from TestMain. When the test binary is started
// with EnvVar set it behaves like the compiler and exits, based on the base
// name of the "-V" source file:
//
//	bad*    prints a diagnostic to stderr and exits with 2
//	slow*   sleeps for 30 seconds before succeeding
//	noisy*  writes 2 MiB to stdout before succeeding
//	other   writes "SPIRV:" followed by the source to the "-o" file
//
// Every successful run prints its arguments on stdout.
package fakecompiler

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	EnvVar = "BUILDSHADERS_FAKE_COMPILER"

	OutputPrefix = "SPIRV:"

	// NoisyOutputSize is what noisy* sources write to stdout.
	NoisyOutputSize = 2 << 20

	exitUsage   = 64
	exitFailure = 1
	exitInvalid = 2
)

// Main turns the process into the fake compiler when EnvVar is set.
func Main() {
	if os.Getenv(EnvVar) == "" {
		return
	}

	os.Exit(Run(os.Args[1:], os.Stdout, os.Stderr))
}

// Path enables the fake compiler for the child processes of t and returns
// the executable to configure as the compiler.
func Path(t *testing.T) string {
	t.Helper()

	t.Setenv(EnvVar, "1")

	exe, err := os.Executable()
	require.NoError(t, err)

	return exe
}

func Run(args []string, stdout, stderr io.Writer) int {
	source, output := parseArgs(args)
	if source == "" || output == "" {
		_, _ = fmt.Fprintln(stderr, "usage: fakecompiler [options] -V <source> -o <output>")
		return exitUsage
	}

	base := filepath.Base(source)
	switch {
	case strings.HasPrefix(base, "bad"):
		_, _ = fmt.Fprintf(stderr, "ERROR: %s:1: '' : syntax error\nERROR: 1 compilation errors.  No code generated.\n", source)
		return exitInvalid
	case strings.HasPrefix(base, "slow"):
		time.Sleep(30 * time.Second)
	case strings.HasPrefix(base, "noisy"):
		_, _ = stdout.Write([]byte(strings.Repeat("x", NoisyOutputSize)))
	}

	content, err := os.ReadFile(source)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "ERROR:", err)
		return exitFailure
	}

	err = os.WriteFile(output, append([]byte(OutputPrefix), content...), 0o644)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "ERROR:", err)
		return exitFailure
	}

	_, _ = fmt.Fprintln(stdout, strings.Join(args, " "))

	return 0
}

func parseArgs(args []string) (string, string) {
	var source, output string
	for i := 0; i < len(args)-1; i++ {
		switch args[i] {
		case "-V":
			source = args[i+1]
		case "-o":
			output = args[i+1]
		}
	}

	return source, output
}
