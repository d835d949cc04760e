package test

import (
	"os"
	"runtime"
	"testing"
)

const (
	OSWindows = "windows"
	OSLinux   = "linux"
)

func SkipIfGitLabCI(t *testing.T) {
	_, ok := os.LookupEnv("CI")
	if ok {
		t.Skipf("Skipping test on CI builds: %s", t.Name())
	}
}

func SkipOnOS(t *testing.T, os string) {
	if runtime.GOOS == os {
		t.Skipf("Skipping test on %s: %s", os, t.Name())
	}
}

// SkipIfPrivileged skips tests relying on permission bits, which are not
// enforced for root or on Windows.
func SkipIfPrivileged(t *testing.T) {
	SkipOnOS(t, OSWindows)

	if os.Geteuid() == 0 {
		t.Skipf("Skipping test running as root: %s", t.Name())
	}
}
