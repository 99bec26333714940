package main

import (
	"os"
	"path/filepath"
	"testing"
)

// getBinaryPath returns the path to the vendor_agent binary for testing
func getBinaryPath(t *testing.T) string {
	binaryName := "vendor_agent"
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath := filepath.Join("..", "..", "bin", binaryName)
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skipf("Binary not found at %s, build it first with 'make build'", binaryPath)
	}

	return binaryPath
}

// withoutEnv returns os.Environ() with the named variables removed
func withoutEnv(names ...string) []string {
	var env []string
	for _, e := range os.Environ() {
		keep := true
		for _, name := range names {
			if len(e) > len(name) && e[:len(name)+1] == name+"=" {
				keep = false
				break
			}
		}
		if keep {
			env = append(env, e)
		}
	}
	return env
}
